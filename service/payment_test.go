package service

import (
	"testing"
	"time"

	"optic_manager/constants"
	"optic_manager/model"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func paymentAt(id uint, amount string, createdAt time.Time) *model.Payment {
	p := &model.Payment{Amount: dec(amount), Method: constants.PAYMENT_CASH, Status: constants.PAYMENT_STATUS_PAID}
	p.ID = id
	p.CreatedAt = createdAt
	return p
}

func TestApplyPaymentFlags(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	payments := []*model.Payment{
		paymentAt(2, "400", t0.Add(time.Hour)),
		paymentAt(1, "300", t0),
		paymentAt(3, "300", t0.Add(2*time.Hour)),
	}

	ApplyPaymentFlags(payments, dec("1000"))

	// walked in creation order: 300, 700, 1000
	if !payments[0].IsPartial || payments[0].IsFinal {
		t.Errorf("first payment flags = partial %t final %t, want partial", payments[0].IsPartial, payments[0].IsFinal)
	}
	if !payments[1].IsPartial || payments[1].IsFinal {
		t.Errorf("second payment flags = partial %t final %t, want partial", payments[1].IsPartial, payments[1].IsFinal)
	}
	if payments[2].IsPartial || !payments[2].IsFinal {
		t.Errorf("last payment flags = partial %t final %t, want final", payments[2].IsPartial, payments[2].IsFinal)
	}
}

func TestApplyPaymentFlagsRecomputedEveryPass(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	p := paymentAt(1, "1000", t0)
	p.IsPartial = true // stale flag from an earlier pass
	ApplyPaymentFlags([]*model.Payment{p}, dec("1000"))
	if p.IsPartial || !p.IsFinal {
		t.Errorf("flags = partial %t final %t, want final only", p.IsPartial, p.IsFinal)
	}
}

func TestRefundDue(t *testing.T) {
	tests := []struct {
		name                    string
		active, refunded, total string
		want                    string
	}{
		// order with two 1000 items, one refunded: 800 paid vs 1000 total
		{"no refund while total covers payments", "800", "0", "1000", "0"},
		// same order with a 1200 discount: total collapses to 0
		{"discount collapse refunds everything", "800", "0", "0", "800"},
		{"prior refunds are not paid twice", "800", "800", "0", "0"},
		{"exact coverage", "1000", "0", "1000", "0"},
		{"partial excess", "1000", "0", "750", "250"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RefundDue(dec(tt.active), dec(tt.refunded), dec(tt.total))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("RefundDue(%s, %s, %s) = %s, want %s", tt.active, tt.refunded, tt.total, got, tt.want)
			}
		})
	}
}

func TestPaymentChanged(t *testing.T) {
	existing := &model.Payment{Amount: dec("500"), Method: constants.PAYMENT_CASH, Status: constants.PAYMENT_STATUS_PAID}

	tests := []struct {
		name string
		in   model.PaymentInput
		want bool
	}{
		{"unchanged", model.PaymentInput{Amount: dec("500"), Method: constants.PAYMENT_CASH, Status: constants.PAYMENT_STATUS_PAID}, false},
		{"unchanged with decimal scale", model.PaymentInput{Amount: dec("500.00"), Method: constants.PAYMENT_CASH, Status: constants.PAYMENT_STATUS_PAID}, false},
		{"status defaults to paid", model.PaymentInput{Amount: dec("500"), Method: constants.PAYMENT_CASH}, false},
		{"amount", model.PaymentInput{Amount: dec("600"), Method: constants.PAYMENT_CASH, Status: constants.PAYMENT_STATUS_PAID}, true},
		{"method", model.PaymentInput{Amount: dec("500"), Method: constants.PAYMENT_CARD, Status: constants.PAYMENT_STATUS_PAID}, true},
		{"status", model.PaymentInput{Amount: dec("500"), Method: constants.PAYMENT_CASH, Status: constants.PAYMENT_STATUS_PENDING}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paymentChanged(existing, tt.in); got != tt.want {
				t.Errorf("paymentChanged = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestSettleExcess(t *testing.T) {
	tests := []struct {
		name                                string
		prevActive, active, refunded, total string
		wantRefund                          string
		wantReject                          bool
	}{
		// caller's batch pushes 800 paid to 1200 against a 1000 total
		{"batch growth past total rejected", "800", "1200", "0", "1000", "0", true},
		// total shrank under payments already taken: excess goes back as cash
		{"shrunken total refunds the excess", "800", "800", "0", "0", "800", false},
		{"growth that stays under total", "300", "800", "0", "1000", "0", false},
		{"exact coverage settles nothing", "800", "1000", "0", "1000", "0", false},
		{"prior refunds already cover the excess", "800", "800", "800", "0", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refund, reject := settleExcess(dec(tt.prevActive), dec(tt.active), dec(tt.refunded), dec(tt.total))
			if reject != tt.wantReject {
				t.Fatalf("settleExcess reject = %t, want %t", reject, tt.wantReject)
			}
			if !refund.Equal(dec(tt.wantRefund)) {
				t.Errorf("settleExcess refund = %s, want %s", refund, tt.wantRefund)
			}
		})
	}
}

func TestDuplicatePaymentIdsDetected(t *testing.T) {
	tests := []struct {
		name    string
		ids     []uint
		wantId  uint
		wantDup bool
	}{
		{"distinct ids", []uint{1, 2, 3}, 0, false},
		{"repeated id", []uint{1, 2, 1}, 1, true},
		{"new payments may repeat", []uint{0, 0, 5}, 0, false},
		{"empty batch", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := make([]model.PaymentInput, len(tt.ids))
			for i, id := range tt.ids {
				batch[i] = model.PaymentInput{ID: id, Amount: dec("100"), Method: constants.PAYMENT_CASH}
			}
			id, dup := duplicatePaymentId(batch)
			if dup != tt.wantDup || id != tt.wantId {
				t.Errorf("duplicatePaymentId = (%d, %t), want (%d, %t)", id, dup, tt.wantId, tt.wantDup)
			}
		})
	}
}

func TestSumActivePaymentsSkipsRetiredRows(t *testing.T) {
	t0 := time.Now()
	retired := paymentAt(2, "300", t0)
	retired.IsDeleted = true
	sum := SumActivePayments([]*model.Payment{paymentAt(1, "500", t0), retired})
	if !sum.Equal(dec("500")) {
		t.Errorf("sum = %s, want 500", sum)
	}
}
