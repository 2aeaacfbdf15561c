package model

import "optic_manager/utils"

type Customer struct {
	DTO
	Name      string            `gorm:"not null" validate:"required" json:"name"`
	Phone     string            `gorm:"not null;index" validate:"required" json:"phone"`
	Email     *string           `json:"email"`
	Address   *string           `json:"address"`
	Gender    *string           `json:"gender"`
	BirthDate *utils.CustomDate `gorm:"type:date" json:"birthDate"`
	BranchId  *uint             `json:"branchId"` // branch of first registration
	Branch    *Branch           `gorm:"foreignKey:BranchId" json:"-"`
}

type Customers []Customer

// CustomerRef comes in on order payloads: either an existing id or
// phone+name for lookup-or-create.
type CustomerRef struct {
	ID    uint   `json:"id" validate:"omitempty,gt=0"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CreateCustomerInput struct {
	Name      string            `json:"name" validate:"required"`
	Phone     string            `json:"phone" validate:"required"`
	Email     *string           `json:"email" validate:"omitempty,email"`
	Address   *string           `json:"address"`
	Gender    *string           `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	BirthDate *utils.CustomDate `json:"birthDate"`
}

type EditCustomerInput struct {
	Name      *string           `json:"name"`
	Phone     *string           `json:"phone"`
	Email     *string           `json:"email" validate:"omitempty,email"`
	Address   *string           `json:"address"`
	Gender    *string           `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	BirthDate *utils.CustomDate `json:"birthDate"`
}

type FilterCustomer struct {
	Pagination
	SearchKey string `json:"searchKey"`
	Phone     string `json:"phone"`
	BranchId  uint   `json:"branchId"`
}
