package model

type RefractionSession struct {
	DTO
	Number     string   `gorm:"size:10;index:idx_refraction_branch_number" json:"number"`
	BranchId   uint     `gorm:"not null;index:idx_refraction_branch_number" json:"branchId"`
	Branch     Branch   `gorm:"foreignKey:BranchId" json:"-"`
	CustomerId uint     `gorm:"not null;index" json:"customerId"`
	Customer   Customer `gorm:"foreignKey:CustomerId" json:"-"`

	RightSphere   *string `json:"rightSphere"`
	RightCylinder *string `json:"rightCylinder"`
	RightAxis     *string `json:"rightAxis"`
	LeftSphere    *string `json:"leftSphere"`
	LeftCylinder  *string `json:"leftCylinder"`
	LeftAxis      *string `json:"leftAxis"`
	Addition      *string `json:"addition"`
	Pd            *string `json:"pd"`
	Note          *string `json:"note"`

	CreatedById uint `json:"createdById"`
}

type CreateRefractionInput struct {
	BranchId uint        `json:"branchId" validate:"required,gt=0"`
	Customer CustomerRef `json:"customer" validate:"required"`

	RightSphere   *string `json:"rightSphere"`
	RightCylinder *string `json:"rightCylinder"`
	RightAxis     *string `json:"rightAxis"`
	LeftSphere    *string `json:"leftSphere"`
	LeftCylinder  *string `json:"leftCylinder"`
	LeftAxis      *string `json:"leftAxis"`
	Addition      *string `json:"addition"`
	Pd            *string `json:"pd"`
	Note          *string `json:"note"`
}

type FilterRefraction struct {
	Pagination
	BranchId   uint   `json:"branchId"`
	CustomerId uint   `json:"customerId"`
	SearchKey  string `json:"searchKey"`
}
