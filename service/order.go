package service

import (
	"errors"
	"fmt"
	"time"

	"optic_manager/constants"
	"optic_manager/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The orchestrator sequences stock validation, the item mutation log, the
// sequence generator and the payment reconciler for create/update/refund.
// Every entry point runs inside one transaction: nothing survives a failed
// call.

// ComputeTotalPrice returns subtotal minus discount,
// floored at zero (a discount larger than the subtotal zeroes the order,
// it does not go negative).
func ComputeTotalPrice(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ActiveItemsSubtotal sums the current, non-refunded lines.
func ActiveItemsSubtotal(items []*model.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if item.IsDeleted || item.IsRefund {
			continue
		}
		sum = sum.Add(item.Subtotal)
	}
	return sum
}

// InputItemsSubtotal sums the incoming lines, skipping refund-flagged ones
// so a create payload and a later edit land on the same subtotal.
func InputItemsSubtotal(items []model.OrderItemInput) decimal.Decimal {
	sum := decimal.Zero
	for _, in := range items {
		if in.IsRefund {
			continue
		}
		sum = sum.Add(LineSubtotal(in.Quantity, in.PricePerUnit))
	}
	return sum
}

// itemRefCount counts how many item references a line carries; a valid
// line carries exactly one.
func itemRefCount(in model.OrderItemInput) int {
	count := 0
	for _, ref := range []*uint{in.FrameId, in.LensId, in.ExternalLensId, in.LensCleanerId, in.OtherItemId, in.HearingItemId} {
		if ref != nil {
			count++
		}
	}
	return count
}

// resolveItemRef normalizes the FK-or-id ambiguity at the boundary: every
// reference is checked against its catalog table before the core runs.
func resolveItemRef(tx *gorm.DB, in model.OrderItemInput) error {
	if itemRefCount(in) != 1 {
		return &ValidationError{Field: "items", Reason: "each line must reference exactly one item"}
	}
	var (
		dst any
		id  uint
	)
	switch {
	case in.FrameId != nil:
		dst, id = &model.Frame{}, *in.FrameId
	case in.LensId != nil:
		dst, id = &model.Lens{}, *in.LensId
	case in.ExternalLensId != nil:
		dst, id = &model.ExternalLens{}, *in.ExternalLensId
	case in.LensCleanerId != nil:
		dst, id = &model.LensCleaner{}, *in.LensCleanerId
	case in.OtherItemId != nil:
		dst, id = &model.OtherItem{}, *in.OtherItemId
	case in.HearingItemId != nil:
		dst, id = &model.HearingItem{}, *in.HearingItemId
	}
	if err := tx.First(dst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ConsistencyError{Reason: fmt.Sprintf("item reference #%d does not exist", id)}
		}
		return err
	}
	return nil
}

// LookupOrCreateCustomer resolves an order's customer: by id when given,
// otherwise by phone+name, creating the patient record on first visit.
func LookupOrCreateCustomer(tx *gorm.DB, ref model.CustomerRef, branchId uint) (*model.Customer, error) {
	if ref.ID > 0 {
		var customer model.Customer
		if err := tx.First(&customer, ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ConsistencyError{Reason: constants.CUSTOMER_NOT_FOUND}
			}
			return nil, err
		}
		return &customer, nil
	}
	if ref.Phone == "" || ref.Name == "" {
		return nil, &ValidationError{Field: "customer", Reason: "id or phone+name is required"}
	}
	customer := model.Customer{Name: ref.Name, Phone: ref.Phone, BranchId: &branchId}
	err := tx.Where(model.Customer{Name: ref.Name, Phone: ref.Phone}).
		FirstOrCreate(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// reservedFor tells how much stock a persisted line actually holds given
// the hold flag it was persisted under. Refunded lines hold nothing: their
// stock went back when the refund was recorded.
func reservedFor(item *model.OrderItem, onHold bool) (StockLine, int) {
	line, stocked := StockLineOfItem(item)
	if !stocked || item.IsRefund {
		return line, 0
	}
	if IsDeferredType(line.ItemType) && onHold {
		return line, 0
	}
	return line, item.Quantity
}

// neededFor is reservedFor's counterpart for an incoming line under the new
// hold flag.
func neededFor(in model.OrderItemInput, onHold bool) (StockLine, int) {
	line, stocked := StockLineOf(in)
	if !stocked || in.IsRefund {
		return line, 0
	}
	if IsDeferredType(line.ItemType) && onHold {
		return line, 0
	}
	return line, in.Quantity
}

func loadActiveItems(tx *gorm.DB, orderId uint) ([]*model.OrderItem, error) {
	var rows []model.OrderItem
	err := tx.Scopes(model.Active).
		Where("order_id = ?", orderId).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]*model.OrderItem, len(rows))
	for i := range rows {
		items[i] = &rows[i]
	}
	return items, nil
}

func lockOrder(tx *gorm.DB, orderId uint) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ConsistencyError{Reason: constants.ORDER_NOT_FOUND}
		}
		return nil, err
	}
	return &order, nil
}

// AppendAudit writes one field-level before/after entry; equal values are
// skipped.
func AppendAudit(tx *gorm.DB, entity string, entityId uint, field, oldValue, newValue string, actorId uint, correlationId string) error {
	if oldValue == newValue {
		return nil
	}
	entry := model.AuditLog{
		Entity:        entity,
		EntityId:      entityId,
		Field:         field,
		OldValue:      oldValue,
		NewValue:      newValue,
		ActorId:       actorId,
		CorrelationId: correlationId,
	}
	return tx.Create(&entry).Error
}

// AddProgress appends to the order's progress timeline. The timeline is
// never edited; the latest row is the current progress.
func AddProgress(tx *gorm.DB, orderId uint, status string, actorId uint) error {
	entry := model.OrderProgress{OrderId: orderId, Status: status, CreatedById: actorId}
	return tx.Create(&entry).Error
}

func latestProgress(tx *gorm.DB, orderId uint) (string, error) {
	var entry model.OrderProgress
	err := tx.Where("order_id = ?", orderId).Order("id desc").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.Status, nil
}

// CreateOrder validates and reserves stock, issues the invoice number and
// persists the order, its lines and opening payments, all or nothing.
func CreateOrder(db *gorm.DB, input model.CreateOrderInput, actorId uint) (*model.Order, error) {
	var order *model.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var branch model.Branch
		if err := tx.First(&branch, input.BranchId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ConsistencyError{Reason: constants.BRANCH_NOT_FOUND}
			}
			return err
		}

		customer, err := LookupOrCreateCustomer(tx, input.Customer, branch.ID)
		if err != nil {
			return err
		}

		for i := range input.Items {
			if err := resolveItemRef(tx, input.Items[i]); err != nil {
				return err
			}
		}
		subtotal := InputItemsSubtotal(input.Items)

		// lock and check every stock record before any row is written
		var changes []StockChange
		for _, in := range input.Items {
			line, needed := neededFor(in, input.OnHold)
			if needed > 0 {
				changes = append(changes, StockChange{ItemType: line.ItemType, ItemId: line.ItemId, Qty: needed})
			}
		}
		updates, err := ValidateStock(tx, branch.ID, changes)
		if err != nil {
			return err
		}

		invoiceNumber, err := NextInvoiceNumber(tx, &branch, input.IsFactory, time.Now())
		if err != nil {
			return err
		}

		order = &model.Order{
			InvoiceNumber: invoiceNumber,
			BranchId:      branch.ID,
			CustomerId:    customer.ID,
			RefractionId:  input.RefractionId,
			Subtotal:      subtotal,
			Discount:      input.Discount,
			TotalPrice:    ComputeTotalPrice(subtotal, input.Discount),
			Status:        constants.ORDER_PENDING,
			FittingStatus: constants.FITTING_PENDING,
			OnHold:        input.OnHold,
			Urgent:        input.Urgent,
			IsFactory:     input.IsFactory,
			CreatedById:   actorId,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, in := range input.Items {
			if _, _, err := ReconcileOrderItem(tx, order.ID, nil, in, actorId); err != nil {
				return err
			}
		}

		correlationId := uuid.New().String()
		if err := ApplyStockUpdates(tx, updates, actorId, correlationId); err != nil {
			return err
		}

		if err := AddProgress(tx, order.ID, constants.PROGRESS_RECEIVED_FROM_CUSTOMER, actorId); err != nil {
			return err
		}

		if len(input.Payments) > 0 {
			net, err := ReconcilePayments(tx, order, input.Payments, "", actorId)
			if err != nil {
				return err
			}
			order.TotalPayment = net
			if err := tx.Model(order).Update("total_payment", net).Error; err != nil {
				return err
			}
		}

		items, err := loadActiveItems(tx, order.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			order.Items = append(order.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// duplicateItemId reports the first persisted line ID repeated in an update
// payload. New lines (ID 0) may appear any number of times.
func duplicateItemId(items []model.OrderItemInput) (uint, bool) {
	seen := make(map[uint]bool, len(items))
	for _, in := range items {
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

// refundCause picks the human-readable cause for an auto-emitted refund.
func refundCause(itemRefunded, discountChanged bool) string {
	switch {
	case itemRefunded:
		return "refund for returned order item"
	case discountChanged:
		return "refund after discount change"
	default:
		return "order adjustment refund"
	}
}

// UpdateOrder applies a full edit: hold transitions, line reconciliation
// with inline stock math, removal of omitted lines, total recomputation and
// payment reconciliation, atomically.
func UpdateOrder(db *gorm.DB, orderId uint, input model.UpdateOrderInput, actorId uint) (*model.Order, error) {
	var order *model.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = lockOrder(tx, orderId)
		if err != nil {
			return err
		}
		if order.IsDeleted {
			return &ConsistencyError{Reason: "order has been deleted"}
		}
		if order.IsRefund {
			return &ConsistencyError{Reason: "order has been refunded"}
		}
		if id, dup := duplicateItemId(input.Items); dup {
			return &ValidationError{Field: "items", Reason: fmt.Sprintf("order item #%d appears more than once", id)}
		}

		wasHold := order.OnHold
		newHold := wasHold
		if input.OnHold != nil {
			newHold = *input.OnHold
		}

		existing, err := loadActiveItems(tx, order.ID)
		if err != nil {
			return err
		}
		byId := make(map[uint]*model.OrderItem, len(existing))
		for _, item := range existing {
			byId[item.ID] = item
		}

		// stock delta = what each line should hold under the new state
		// minus what it actually holds now; covers quantity edits, item
		// swaps, refunds, removals and both hold transitions in one pass
		var changes []StockChange
		itemRefunded := false
		seen := make(map[uint]bool, len(input.Items))
		for i := range input.Items {
			in := input.Items[i]
			if err := resolveItemRef(tx, in); err != nil {
				return err
			}

			var old *model.OrderItem
			if in.ID > 0 {
				var ok bool
				old, ok = byId[in.ID]
				if !ok {
					return &ConsistencyError{Reason: fmt.Sprintf("order item #%d does not belong to this order", in.ID)}
				}
				seen[in.ID] = true
				if in.IsRefund && !old.IsRefund {
					itemRefunded = true
				}
				oldLine, held := reservedFor(old, wasHold)
				if held > 0 {
					changes = append(changes, StockChange{ItemType: oldLine.ItemType, ItemId: oldLine.ItemId, Qty: -held})
				}
			}
			newLine, needed := neededFor(in, newHold)
			if needed > 0 {
				changes = append(changes, StockChange{ItemType: newLine.ItemType, ItemId: newLine.ItemId, Qty: needed})
			}
		}
		for _, item := range existing {
			if seen[item.ID] {
				continue
			}
			oldLine, held := reservedFor(item, wasHold)
			if held > 0 {
				changes = append(changes, StockChange{ItemType: oldLine.ItemType, ItemId: oldLine.ItemId, Qty: -held})
			}
		}

		updates, err := ValidateStock(tx, order.BranchId, changes)
		if err != nil {
			return err
		}
		correlationId := uuid.New().String()
		if err := ApplyStockUpdates(tx, updates, actorId, correlationId); err != nil {
			return err
		}

		// line rows, append-on-change
		var current []*model.OrderItem
		for i := range input.Items {
			in := input.Items[i]
			var old *model.OrderItem
			if in.ID > 0 {
				old = byId[in.ID]
			}
			item, _, err := ReconcileOrderItem(tx, order.ID, old, in, actorId)
			if err != nil {
				return err
			}
			current = append(current, item)
		}
		for _, item := range existing {
			if seen[item.ID] {
				continue
			}
			if err := RetireOrderItem(tx, item, actorId); err != nil {
				return err
			}
		}

		// scalar fields, audited
		discountChanged := false
		if input.Discount != nil && !order.Discount.Equal(*input.Discount) {
			discountChanged = true
			if err := AppendAudit(tx, "order", order.ID, "discount", order.Discount.StringFixed(2), input.Discount.StringFixed(2), actorId, correlationId); err != nil {
				return err
			}
			order.Discount = *input.Discount
		}
		if input.Status != nil && *input.Status != order.Status {
			if err := AppendAudit(tx, "order", order.ID, "status", order.Status, *input.Status, actorId, correlationId); err != nil {
				return err
			}
			order.Status = *input.Status
		}
		if input.FittingStatus != nil && *input.FittingStatus != order.FittingStatus {
			if err := AppendAudit(tx, "order", order.ID, "fitting_status", order.FittingStatus, *input.FittingStatus, actorId, correlationId); err != nil {
				return err
			}
			order.FittingStatus = *input.FittingStatus
		}
		if input.Urgent != nil {
			order.Urgent = *input.Urgent
		}
		if newHold != wasHold {
			if err := AppendAudit(tx, "order", order.ID, "on_hold", fmt.Sprintf("%t", wasHold), fmt.Sprintf("%t", newHold), actorId, correlationId); err != nil {
				return err
			}
			order.OnHold = newHold
		}

		order.Subtotal = ActiveItemsSubtotal(current)
		order.TotalPrice = ComputeTotalPrice(order.Subtotal, order.Discount)

		note := ""
		if itemRefunded || discountChanged {
			note = refundCause(itemRefunded, discountChanged)
		}
		net, err := ReconcilePayments(tx, order, input.Payments, note, actorId)
		if err != nil {
			return err
		}
		order.TotalPayment = net

		if input.ProgressStatus != nil {
			last, err := latestProgress(tx, order.ID)
			if err != nil {
				return err
			}
			if *input.ProgressStatus != last {
				if err := AddProgress(tx, order.ID, *input.ProgressStatus, actorId); err != nil {
					return err
				}
			}
		}

		return tx.Model(order).Updates(map[string]interface{}{
			"discount":       order.Discount,
			"subtotal":       order.Subtotal,
			"total_price":    order.TotalPrice,
			"total_payment":  order.TotalPayment,
			"status":         order.Status,
			"fitting_status": order.FittingStatus,
			"on_hold":        order.OnHold,
			"urgent":         order.Urgent,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RefundOrder is the one-way whole-order refund: restock everything the
// order actually holds, post the cash refund for net payments, and mark the
// order refunded.
func RefundOrder(db *gorm.DB, orderId uint, reason string, actorId uint) (*model.Order, error) {
	var order *model.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = lockOrder(tx, orderId)
		if err != nil {
			return err
		}
		if order.IsRefund {
			return &ConsistencyError{Reason: "order is already refunded"}
		}
		if order.IsDeleted {
			return &ConsistencyError{Reason: "order has been deleted"}
		}

		items, err := loadActiveItems(tx, order.ID)
		if err != nil {
			return err
		}
		var changes []StockChange
		for _, item := range items {
			line, held := reservedFor(item, order.OnHold)
			if held > 0 {
				changes = append(changes, StockChange{ItemType: line.ItemType, ItemId: line.ItemId, Qty: -held})
			}
		}
		updates, err := ValidateStock(tx, order.BranchId, changes)
		if err != nil {
			return err
		}
		correlationId := uuid.New().String()
		if err := ApplyStockUpdates(tx, updates, actorId, correlationId); err != nil {
			return err
		}

		payments, err := loadActivePayments(tx, order.ID)
		if err != nil {
			return err
		}
		active := SumActivePayments(payments)
		refunded, err := sumRefundExpenses(tx, order.ID)
		if err != nil {
			return err
		}
		net := active.Sub(refunded)
		if net.IsPositive() {
			if _, err := EmitRefundExpense(tx, order, net, "order refund: "+reason, actorId); err != nil {
				return err
			}
		}

		now := time.Now()
		order.IsRefund = true
		order.RefundedAt = &now
		order.TotalPayment = decimal.Zero
		if err := AppendAudit(tx, "order", order.ID, "is_refund", "false", "true", actorId, correlationId); err != nil {
			return err
		}
		return tx.Model(order).Updates(map[string]interface{}{
			"is_refund":     true,
			"refunded_at":   now,
			"total_payment": decimal.Zero,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// SoftDeleteOrder retires the order and releases whatever stock it holds.
// Distinct from refund: no cash movement is posted.
func SoftDeleteOrder(db *gorm.DB, orderId uint, actorId uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderId)
		if err != nil {
			return err
		}
		if order.IsDeleted {
			return &ConsistencyError{Reason: "order has already been deleted"}
		}

		items, err := loadActiveItems(tx, order.ID)
		if err != nil {
			return err
		}
		var changes []StockChange
		for _, item := range items {
			line, held := reservedFor(item, order.OnHold)
			if held > 0 {
				changes = append(changes, StockChange{ItemType: line.ItemType, ItemId: line.ItemId, Qty: -held})
			}
		}
		updates, err := ValidateStock(tx, order.BranchId, changes)
		if err != nil {
			return err
		}
		if err := ApplyStockUpdates(tx, updates, actorId, uuid.New().String()); err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(order).Updates(map[string]interface{}{
			"is_deleted":    true,
			"deleted_at":    now,
			"deleted_by_id": actorId,
		}).Error
	})
}
