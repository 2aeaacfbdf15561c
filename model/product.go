package model

import "github.com/shopspring/decimal"

// Stocked catalog items. One StockRecord exists per item per branch.

type Frame struct {
	DTO
	Slug      string          `gorm:"uniqueIndex" json:"slug"`
	Name      string          `gorm:"not null" validate:"required" json:"name"`
	Brand     string          `json:"brand"`
	ModelNo   string          `json:"modelNo"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unitPrice"`
	Active    *bool           `gorm:"default:true" json:"isActive"`
}

type Lens struct {
	DTO
	Slug      string          `gorm:"uniqueIndex" json:"slug"`
	Name      string          `gorm:"not null" validate:"required" json:"name"`
	Brand     string          `json:"brand"`
	LensType  string          `json:"lensType"` // SINGLE_VISION, BIFOCAL, PROGRESSIVE
	Coating   string          `json:"coating"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unitPrice"`
	Active    *bool           `gorm:"default:true" json:"isActive"`
}

type LensCleaner struct {
	DTO
	Slug      string          `gorm:"uniqueIndex" json:"slug"`
	Name      string          `gorm:"not null" validate:"required" json:"name"`
	Volume    string          `json:"volume"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unitPrice"`
	Active    *bool           `gorm:"default:true" json:"isActive"`
}

type OtherItem struct {
	DTO
	Slug      string          `gorm:"uniqueIndex" json:"slug"`
	Name      string          `gorm:"not null" validate:"required" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unitPrice"`
	Active    *bool           `gorm:"default:true" json:"isActive"`
}

type HearingItem struct {
	DTO
	Slug      string          `gorm:"uniqueIndex" json:"slug"`
	Name      string          `gorm:"not null" validate:"required" json:"name"`
	Brand     string          `json:"brand"`
	ModelNo   string          `json:"modelNo"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unitPrice"`
	Active    *bool           `gorm:"default:true" json:"isActive"`
}

// ExternalLens is a customer-supplied or lab-fabricated lens with no stock
// record; order lines referencing it skip the stock ledger entirely.
type ExternalLens struct {
	DTO
	Name     string `gorm:"not null" json:"name"`
	LabName  string `json:"labName"`
	LensType string `json:"lensType"`
}

type CreateProductInput struct {
	Name      string          `json:"name" validate:"required"`
	Brand     string          `json:"brand"`
	ModelNo   string          `json:"modelNo"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	LensType  string          `json:"lensType"`
	Coating   string          `json:"coating"`
	Volume    string          `json:"volume"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type FilterProduct struct {
	Pagination
	SearchKey string `json:"searchKey"`
	Brand     string `json:"brand"`
}
