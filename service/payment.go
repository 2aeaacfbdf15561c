package service

import (
	"fmt"
	"sort"
	"time"

	"optic_manager/constants"
	"optic_manager/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// paymentChanged compares the tracked payment fields.
func paymentChanged(existing *model.Payment, in model.PaymentInput) bool {
	if !existing.Amount.Equal(in.Amount) {
		return true
	}
	if existing.Method != in.Method {
		return true
	}
	status := in.Status
	if status == "" {
		status = constants.PAYMENT_STATUS_PAID
	}
	return existing.Status != status
}

// SumActivePayments totals the non-deleted payments.
func SumActivePayments(payments []*model.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if !p.IsDeleted {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// ApplyPaymentFlags recomputes is_partial/is_final for every payment on
// every pass: payments are walked in creation order and flagged by the
// running total against the order total.
func ApplyPaymentFlags(payments []*model.Payment, total decimal.Decimal) {
	sort.SliceStable(payments, func(i, j int) bool {
		if payments[i].CreatedAt.Equal(payments[j].CreatedAt) {
			return payments[i].ID < payments[j].ID
		}
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})
	running := decimal.Zero
	for _, p := range payments {
		if p.IsDeleted {
			continue
		}
		running = running.Add(p.Amount)
		p.IsPartial = running.LessThan(total)
		p.IsFinal = running.Equal(total)
	}
}

// RefundDue is the canonical overpayment formula: net payments (active
// minus refunds already issued) above the current order total must be
// returned as cash.
func RefundDue(active, refunded, total decimal.Decimal) decimal.Decimal {
	excess := active.Sub(refunded).Sub(total)
	if excess.IsPositive() {
		return excess
	}
	return decimal.Zero
}

// duplicatePaymentId reports the first persisted payment ID repeated in a
// batch. New payments (ID 0) may appear any number of times.
func duplicatePaymentId(incoming []model.PaymentInput) (uint, bool) {
	seen := make(map[uint]bool, len(incoming))
	for _, in := range incoming {
		if in.ID == 0 {
			continue
		}
		if seen[in.ID] {
			return in.ID, true
		}
		seen[in.ID] = true
	}
	return 0, false
}

// settleExcess classifies a positive excess of net payments over the order
// total: an active sum grown by the caller's own batch is a hard failure,
// while excess left behind by a shrunken total is returned as cash.
func settleExcess(prevActive, active, refunded, total decimal.Decimal) (refund decimal.Decimal, reject bool) {
	due := RefundDue(active, refunded, total)
	if !due.IsPositive() {
		return decimal.Zero, false
	}
	if active.GreaterThan(prevActive) {
		return decimal.Zero, true
	}
	return due, false
}

func refundExpenseCategory(tx *gorm.DB) (*model.ExpenseCategory, error) {
	var category model.ExpenseCategory
	err := tx.Where(model.ExpenseCategory{Name: constants.EXPENSE_CATEGORY_ORDER_REFUND}).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// EmitRefundExpense posts a cash-refund expense against the order. The
// expense is later subtracted when computing total_payment.
func EmitRefundExpense(tx *gorm.DB, order *model.Order, amount decimal.Decimal, note string, actorId uint) (*model.RefundExpense, error) {
	category, err := refundExpenseCategory(tx)
	if err != nil {
		return nil, err
	}
	expense := model.RefundExpense{
		OrderId:     order.ID,
		CategoryId:  category.ID,
		BranchId:    order.BranchId,
		Amount:      amount,
		Note:        note,
		CreatedById: actorId,
	}
	if err := tx.Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func sumRefundExpenses(tx *gorm.DB, orderId uint) (decimal.Decimal, error) {
	var expenses []model.RefundExpense
	if err := tx.Where("order_id = ?", orderId).Find(&expenses).Error; err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

func loadActivePayments(tx *gorm.DB, orderId uint) ([]*model.Payment, error) {
	var rows []model.Payment
	err := tx.Scopes(model.Active).
		Where("order_id = ?", orderId).
		Order("created_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	payments := make([]*model.Payment, len(rows))
	for i := range rows {
		payments[i] = &rows[i]
	}
	return payments, nil
}

func retirePayment(tx *gorm.DB, p *model.Payment, actorId uint, edited bool) error {
	now := time.Now()
	updates := map[string]interface{}{
		"is_deleted":    true,
		"deleted_at":    now,
		"deleted_by_id": actorId,
	}
	if edited {
		updates["is_edited"] = true
	}
	return tx.Model(p).Updates(updates).Error
}

// ReconcilePayments syncs the order's payment rows against the incoming
// batch under the append-on-change policy, recomputes the partial/final
// flags, and settles overpayment. Returns the net total paid
// (active payments minus refund expenses), which the caller stores as
// total_payment.
//
// Overpayment is settled one of two ways: if this call's batch grew the
// active sum beyond the order total, the batch is rejected outright; if the
// excess came from a shrunken total (item refund, larger discount) the
// difference is posted as a cash-refund expense with refundNote.
func ReconcilePayments(tx *gorm.DB, order *model.Order, incoming []model.PaymentInput, refundNote string, actorId uint) (decimal.Decimal, error) {
	if id, dup := duplicatePaymentId(incoming); dup {
		return decimal.Zero, &ValidationError{Field: "payments", Reason: fmt.Sprintf("payment #%d appears more than once", id)}
	}

	existing, err := loadActivePayments(tx, order.ID)
	if err != nil {
		return decimal.Zero, err
	}
	prevActive := SumActivePayments(existing)

	byId := make(map[uint]*model.Payment, len(existing))
	for _, p := range existing {
		byId[p.ID] = p
	}

	seen := make(map[uint]bool, len(incoming))
	for _, in := range incoming {
		status := in.Status
		if status == "" {
			status = constants.PAYMENT_STATUS_PAID
		}
		if in.ID == 0 {
			p := model.Payment{
				OrderId:     order.ID,
				Amount:      in.Amount,
				Method:      in.Method,
				Status:      status,
				PaymentDate: time.Now(),
				CreatedById: actorId,
			}
			if err := tx.Create(&p).Error; err != nil {
				return decimal.Zero, err
			}
			continue
		}

		old, ok := byId[in.ID]
		if !ok {
			return decimal.Zero, &ConsistencyError{Reason: "payment does not belong to this order"}
		}
		seen[in.ID] = true
		if !paymentChanged(old, in) {
			continue
		}
		// retire and rewrite, keeping the original payment date
		if err := retirePayment(tx, old, actorId, true); err != nil {
			return decimal.Zero, err
		}
		p := model.Payment{
			OrderId:     order.ID,
			Amount:      in.Amount,
			Method:      in.Method,
			Status:      status,
			PaymentDate: old.PaymentDate,
			CreatedById: actorId,
		}
		if err := tx.Create(&p).Error; err != nil {
			return decimal.Zero, err
		}
	}

	// payments present before but omitted now are retired
	for _, p := range existing {
		if !seen[p.ID] {
			if err := retirePayment(tx, p, actorId, false); err != nil {
				return decimal.Zero, err
			}
		}
	}

	payments, err := loadActivePayments(tx, order.ID)
	if err != nil {
		return decimal.Zero, err
	}
	active := SumActivePayments(payments)

	refunded, err := sumRefundExpenses(tx, order.ID)
	if err != nil {
		return decimal.Zero, err
	}

	due, reject := settleExcess(prevActive, active, refunded, order.TotalPrice)
	if reject {
		return decimal.Zero, &OverpaymentError{OrderId: order.ID, TotalPrice: order.TotalPrice, Paid: active}
	}
	if due.IsPositive() {
		if refundNote == "" {
			refundNote = "order adjustment refund"
		}
		if _, err := EmitRefundExpense(tx, order, due, refundNote, actorId); err != nil {
			return decimal.Zero, err
		}
		refunded = refunded.Add(due)
	}

	ApplyPaymentFlags(payments, order.TotalPrice)
	for _, p := range payments {
		err := tx.Model(p).Updates(map[string]interface{}{
			"is_partial": p.IsPartial,
			"is_final":   p.IsFinal,
		}).Error
		if err != nil {
			return decimal.Zero, err
		}
	}

	return active.Sub(refunded), nil
}
