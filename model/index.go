package model

import (
	"time"

	"gorm.io/gorm"
)

type TokenData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenClaim struct {
	AccountId uint   `json:"accountId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	BranchId  *uint  `json:"branchId"`
}

type DTO struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SoftDelete is the explicit retire-don't-erase state shared by orders,
// order items and payments. Rows are never hard-deleted.
type SoftDelete struct {
	IsDeleted   bool       `gorm:"default:false;index" json:"isDeleted"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	DeletedById *uint      `json:"deletedById,omitempty"`
}

// Active scopes a query to rows that are not soft-deleted. Callers that
// need history query without the scope.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

type ResponseCustom struct {
	Rows       any   `json:"rows"`
	Limit      *int  `json:"limit"`
	Page       *int  `json:"page"`
	TotalCount int64 `json:"totalCount"`
}

type Pagination struct {
	Limit *int `json:"limit"`
	Page  *int `json:"page"`
}

type AdminChangePassword struct {
	AccountId      uint   `json:"accountId"`
	NewPassword    string `json:"newPassword"`
	RepeatPassword string `json:"repeatPassword"`
}
