package handler

import (
	"errors"
	"strings"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func CreateBranch(c *fiber.Ctx) error {
	db := database.DB

	input, ok := c.Locals("input").(model.CreateBranchInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	newBranch := new(model.Branch)
	copier.Copy(&newBranch, &input)

	if err := db.Create(&newBranch).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, newBranch)
}

func EditBranch(c *fiber.Ctx) error {
	db := database.DB

	branchId := c.Locals("inputId").(int)
	input, ok := c.Locals("input").(model.EditBranchInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	var branch model.Branch
	if err := db.First(&branch, branchId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BRANCH_NOT_FOUND, err)
	}

	// the code is the invoice prefix; changing it would break the sequence
	// chain, so edits never touch it
	copier.CopyWithOption(&branch, &input, copier.Option{IgnoreEmpty: true})

	if err := db.Save(&branch).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, branch)
}

func GetBranches(c *fiber.Ctx) error {
	db := database.DB

	filterInput := new(model.FilterBranch)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INTERNAL_ERROR, err)
	}

	condition := db.Model(&model.Branch{})
	if filterInput.SearchKey != "" {
		condition = condition.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filterInput.SearchKey)+"%")
	}
	if filterInput.Active != nil {
		condition = condition.Where("active = ?", *filterInput.Active)
	}

	var totalCount int64
	condition.Count(&totalCount)

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var branches model.Branches
	condition.Order("id ASC").Find(&branches)

	response := &model.ResponseCustom{
		Rows:       branches,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetBranchById(c *fiber.Ctx) error {
	db := database.DB

	branchId := c.Locals("inputId").(int)
	var branch model.Branch
	if err := db.First(&branch, branchId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BRANCH_NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, branch)
}
