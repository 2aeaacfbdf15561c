package model

import "time"

// StockRecord is the per (item, branch) on-hand quantity. Qty never goes
// negative: the ledger checks under a row lock before every decrement.
type StockRecord struct {
	DTO
	ItemType     string  `gorm:"not null;uniqueIndex:idx_stock_item_branch,priority:1" validate:"required" json:"itemType"`
	ItemId       uint    `gorm:"not null;uniqueIndex:idx_stock_item_branch,priority:2" validate:"required" json:"itemId"`
	BranchId     uint    `gorm:"not null;uniqueIndex:idx_stock_item_branch,priority:3" validate:"required" json:"branchId"`
	Branch       *Branch `gorm:"foreignKey:BranchId" json:"-"`
	Qty          int     `gorm:"not null;default:0" json:"qty"`
	InitialCount *int    `json:"initialCount,omitempty"`
	Limit        *int    `json:"limit,omitempty"` // low-stock threshold for the sweep
}

// StockMovement is the append-only audit trail of every stock change.
// Rows are never updated or deleted.
type StockMovement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ItemType      string    `gorm:"not null;index" json:"itemType"`
	ItemId        uint      `gorm:"not null;index" json:"itemId"`
	BranchId      uint      `gorm:"not null;index" json:"branchId"`
	Action        string    `gorm:"not null" json:"action"` // ADD, REMOVE, TRANSFER
	QtyChanged    int       `gorm:"not null" json:"qtyChanged"`
	TransferToId  *uint     `json:"transferToId,omitempty"`
	CorrelationId string    `gorm:"size:36;index" json:"correlationId"`
	CreatedById   *uint     `json:"createdById,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type AdjustStockInput struct {
	ItemType string `json:"itemType" validate:"required,oneof=FRAME LENS LENS_CLEANER OTHER HEARING"`
	ItemId   uint   `json:"itemId" validate:"required,gt=0"`
	BranchId uint   `json:"branchId" validate:"required,gt=0"`
	Action   string `json:"action" validate:"required,oneof=ADD REMOVE"`
	Qty      int    `json:"qty" validate:"required,gt=0"`
	Limit    *int   `json:"limit"`
}

type TransferStockInput struct {
	ItemType     string `json:"itemType" validate:"required,oneof=FRAME LENS LENS_CLEANER OTHER HEARING"`
	ItemId       uint   `json:"itemId" validate:"required,gt=0"`
	FromBranchId uint   `json:"fromBranchId" validate:"required,gt=0"`
	ToBranchId   uint   `json:"toBranchId" validate:"required,gt=0,nefield=FromBranchId"`
	Qty          int    `json:"qty" validate:"required,gt=0"`
}

type FilterStock struct {
	Pagination
	BranchId uint   `json:"branchId"`
	ItemType string `json:"itemType" validate:"omitempty,oneof=FRAME LENS LENS_CLEANER OTHER HEARING"`
	LowOnly  bool   `json:"lowOnly"`
}
