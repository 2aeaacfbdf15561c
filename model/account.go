package model

type Account struct {
	DTO
	Username string  `gorm:"not null;unique" validate:"required" json:"username"`
	Password string  `gorm:"not null" json:"-"`
	Role     string  `gorm:"not null" json:"role"`
	Active   bool    `gorm:"default:true" json:"isActive"`
	BranchId *uint   `json:"branchId"` // nil for head-office admins
	Branch   *Branch `gorm:"foreignKey:BranchId" json:"-"`
}

type CreateAccountInput struct {
	Username string `json:"username" validate:"required,min=4"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER STAFF"`
	BranchId *uint  `json:"branchId"`
}
