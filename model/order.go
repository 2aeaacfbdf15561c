package model

import (
	"time"

	"optic_manager/utils"

	"github.com/shopspring/decimal"
)

type Order struct {
	DTO
	SoftDelete
	InvoiceNumber string             `gorm:"uniqueIndex;size:30" json:"invoiceNumber"`
	BranchId      uint               `gorm:"not null;index" json:"branchId"`
	Branch        Branch             `gorm:"foreignKey:BranchId" json:"-"`
	CustomerId    uint               `gorm:"not null;index" json:"customerId"`
	Customer      Customer           `gorm:"foreignKey:CustomerId" json:"-"`
	RefractionId  *uint              `json:"refractionId,omitempty"`
	Refraction    *RefractionSession `gorm:"foreignKey:RefractionId" json:"-"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"totalPrice"`   // subtotal - discount, never negative
	TotalPayment decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"totalPayment"` // active payments - refund expenses

	Status        string `gorm:"not null;default:'PENDING'" json:"status"`
	FittingStatus string `gorm:"not null;default:'PENDING'" json:"fittingStatus"`
	OnHold        bool   `gorm:"default:false" json:"onHold"`
	Urgent        bool   `gorm:"default:false" json:"urgent"`

	IsRefund   bool       `gorm:"default:false" json:"isRefund"`
	RefundedAt *time.Time `json:"refundedAt,omitempty"`

	IsFactory bool `gorm:"default:false" json:"isFactory"` // factory invoices use the daily counter

	Items    []OrderItem     `gorm:"foreignKey:OrderId" json:"items"`
	Payments []Payment       `gorm:"foreignKey:OrderId" json:"payments"`
	Progress []OrderProgress `gorm:"foreignKey:OrderId" json:"progress"`

	CreatedById uint `json:"createdById"`
}

// OrderItem is immutable once persisted: any tracked-field change retires
// the row and writes a replacement (see service.ReconcileOrderItem).
type OrderItem struct {
	DTO
	SoftDelete
	OrderId uint `gorm:"not null;index" json:"orderId"`

	// Exactly one reference is set per line.
	FrameId        *uint `json:"frameId,omitempty"`
	LensId         *uint `json:"lensId,omitempty"`
	ExternalLensId *uint `json:"externalLensId,omitempty"`
	LensCleanerId  *uint `json:"lensCleanerId,omitempty"`
	OtherItemId    *uint `json:"otherItemId,omitempty"`
	HearingItemId  *uint `json:"hearingItemId,omitempty"`

	Quantity     int             `gorm:"not null" json:"quantity"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"pricePerUnit"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"` // quantity * pricePerUnit, server-computed

	Note            *string           `json:"note,omitempty"`
	SerialNumber    *string           `json:"serialNumber,omitempty"` // hearing items
	Battery         *string           `json:"battery,omitempty"`
	NextServiceDate *utils.CustomDate `gorm:"type:date" json:"nextServiceDate,omitempty"`

	IsNonStock bool `gorm:"default:false" json:"isNonStock"`
	IsRefund   bool `gorm:"default:false" json:"isRefund"`
}

// OrderProgress is the append-only fulfillment timeline; the latest row is
// the order's current progress.
type OrderProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderId     uint      `gorm:"not null;index" json:"orderId"`
	Status      string    `gorm:"not null" json:"status"`
	CreatedById uint      `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderItemInput struct {
	ID uint `json:"id"` // 0 for new lines

	FrameId        *uint `json:"frameId"`
	LensId         *uint `json:"lensId"`
	ExternalLensId *uint `json:"externalLensId"`
	LensCleanerId  *uint `json:"lensCleanerId"`
	OtherItemId    *uint `json:"otherItemId"`
	HearingItemId  *uint `json:"hearingItemId"`

	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`

	Note            *string           `json:"note"`
	SerialNumber    *string           `json:"serialNumber"`
	Battery         *string           `json:"battery"`
	NextServiceDate *utils.CustomDate `json:"nextServiceDate"`

	IsNonStock bool `json:"isNonStock"`
	IsRefund   bool `json:"isRefund"`
}

type CreateOrderInput struct {
	BranchId     uint            `json:"branchId" validate:"required,gt=0"`
	Customer     CustomerRef     `json:"customer" validate:"required"`
	RefractionId *uint           `json:"refractionId"`
	Discount     decimal.Decimal `json:"discount"`
	OnHold       bool            `json:"onHold"`
	Urgent       bool            `json:"urgent"`
	IsFactory    bool            `json:"isFactory"`

	Items    []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Payments []PaymentInput   `json:"payments" validate:"dive"`
}

type UpdateOrderInput struct {
	Discount       *decimal.Decimal `json:"discount"`
	OnHold         *bool            `json:"onHold"`
	Urgent         *bool            `json:"urgent"`
	Status         *string          `json:"status" validate:"omitempty,oneof=PENDING PROCESSING COMPLETED"`
	FittingStatus  *string          `json:"fittingStatus" validate:"omitempty,oneof=PENDING FITTED"`
	ProgressStatus *string          `json:"progressStatus" validate:"omitempty,oneof=RECEIVED_FROM_CUSTOMER ISSUE_TO_FACTORY RECEIVED_FROM_FACTORY ISSUE_TO_CUSTOMER"`

	Items    []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Payments []PaymentInput   `json:"payments" validate:"dive"`
}

type FilterOrder struct {
	Pagination
	BranchId   uint    `json:"branchId"`
	CustomerId uint    `json:"customerId"`
	Status     string  `json:"status" validate:"omitempty,oneof=PENDING PROCESSING COMPLETED"`
	OnHold     *bool   `json:"onHold"`
	Urgent     *bool   `json:"urgent"`
	SearchKey  string  `json:"searchKey"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
}
