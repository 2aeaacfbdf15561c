package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment follows the same append-on-change discipline as OrderItem: a
// changed payment is retired (IsEdited + soft delete) and rewritten, with
// PaymentDate carried forward from the original row.
type Payment struct {
	DTO
	SoftDelete
	OrderId uint  `gorm:"not null;index" json:"orderId"`
	Order   Order `gorm:"foreignKey:OrderId" json:"-"`

	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method      string          `gorm:"not null" json:"method"`
	Status      string          `gorm:"not null;default:'PAID'" json:"status"`
	PaymentDate time.Time       `gorm:"not null" json:"paymentDate"`

	IsPartial bool `gorm:"default:false" json:"isPartial"`
	IsFinal   bool `gorm:"default:false" json:"isFinal"`
	IsEdited  bool `gorm:"default:false" json:"isEdited"`

	CreatedById uint `json:"createdById"`
}

type PaymentInput struct {
	ID     uint            `json:"id"` // 0 for new payments
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"required,oneof=CASH CARD TRANSFER WALLET"`
	Status string          `json:"status" validate:"omitempty,oneof=PAID PENDING"`
}

type RecordPaymentBatchInput struct {
	Payments []PaymentInput `json:"payments" validate:"required,min=1,dive"`
}

type ExpenseCategory struct {
	DTO
	Name string `gorm:"not null;unique" json:"name"`
}

// RefundExpense is the cash-refund posting the reconciler emits when net
// payments exceed the order total. It is subtracted when computing
// Order.TotalPayment.
type RefundExpense struct {
	DTO
	OrderId     uint            `gorm:"not null;index" json:"orderId"`
	Order       Order           `gorm:"foreignKey:OrderId" json:"-"`
	CategoryId  uint            `gorm:"not null" json:"categoryId"`
	Category    ExpenseCategory `gorm:"foreignKey:CategoryId" json:"-"`
	BranchId    uint            `gorm:"not null;index" json:"branchId"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note        string          `json:"note"`
	CreatedById uint            `json:"createdById"`
}

type RefundOrderInput struct {
	Reason string `json:"reason" validate:"required"`
}
