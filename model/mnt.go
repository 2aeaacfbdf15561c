package model

// MntRecord is a factory remanufacture/adjustment ticket attached to an
// order, numbered per branch independently of invoices.
type MntRecord struct {
	DTO
	Number      string `gorm:"size:20;index:idx_mnt_branch_number" json:"number"`
	BranchId    uint   `gorm:"not null;index:idx_mnt_branch_number" json:"branchId"`
	Branch      Branch `gorm:"foreignKey:BranchId" json:"-"`
	OrderId     uint   `gorm:"not null;index" json:"orderId"`
	Order       Order  `gorm:"foreignKey:OrderId" json:"-"`
	Reason      string `json:"reason"`
	Note        *string `json:"note,omitempty"`
	Status      string `gorm:"not null;default:'OPEN'" json:"status"` // OPEN, SENT, RETURNED, CLOSED
	CreatedById uint   `json:"createdById"`
}

type CreateMntInput struct {
	OrderId uint    `json:"orderId" validate:"required,gt=0"`
	Reason  string  `json:"reason" validate:"required"`
	Note    *string `json:"note"`
}

type FilterMnt struct {
	Pagination
	BranchId uint   `json:"branchId"`
	OrderId  uint   `json:"orderId"`
	Status   string `json:"status" validate:"omitempty,oneof=OPEN SENT RETURNED CLOSED"`
}
