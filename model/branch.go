package model

type Branch struct {
	DTO
	Name    string `gorm:"not null;unique" validate:"required" json:"name"`
	Code    string `gorm:"not null;uniqueIndex;size:5" validate:"required" json:"code"` // invoice/MNT prefix, e.g. "KTM"
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Active  *bool  `gorm:"default:true" json:"isActive"`
}

type Branches []Branch

type CreateBranchInput struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,alphanum,max=5"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type EditBranchInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Active  *bool   `json:"isActive"`
}

type FilterBranch struct {
	Pagination
	SearchKey string `json:"searchKey"`
	Active    *bool  `json:"active"`
}
