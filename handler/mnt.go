package handler

import (
	"errors"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/service"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateMnt(c *fiber.Ctx) error {
	db := database.DB

	input, ok := c.Locals("input").(model.CreateMntInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}
	order, ok := c.Locals("mntOrder").(*model.Order)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	var record model.MntRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		var branch model.Branch
		if err := tx.First(&branch, order.BranchId).Error; err != nil {
			return err
		}

		number, err := service.NextMntNumber(tx, &branch)
		if err != nil {
			return err
		}

		record = model.MntRecord{
			Number:      number,
			BranchId:    order.BranchId,
			OrderId:     order.ID,
			Reason:      input.Reason,
			Note:        input.Note,
			Status:      "OPEN",
			CreatedById: accountInfo.AccountId,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, record)
}

func UpdateMntStatus(c *fiber.Ctx) error {
	db := database.DB

	mntId := c.Locals("inputId").(int)

	var input struct {
		Status string `json:"status" validate:"required,oneof=OPEN SENT RETURNED CLOSED"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
	}
	switch input.Status {
	case "OPEN", "SENT", "RETURNED", "CLOSED":
	default:
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Invalid status", nil, "status")
	}

	var record model.MntRecord
	if err := db.First(&record, mntId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "MNT record not found", err)
	}

	if err := db.Model(&record).Update("status", input.Status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, record)
}

func GetMnts(c *fiber.Ctx) error {
	db := database.DB

	filterInput, ok := c.Locals("input").(model.FilterMnt)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	condition := db.Model(&model.MntRecord{})
	if filterInput.BranchId != 0 {
		condition = condition.Where("branch_id = ?", filterInput.BranchId)
	}
	if filterInput.OrderId != 0 {
		condition = condition.Where("order_id = ?", filterInput.OrderId)
	}
	if filterInput.Status != "" {
		condition = condition.Where("status = ?", filterInput.Status)
	}

	var totalCount int64
	condition.Count(&totalCount)

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var records []model.MntRecord
	condition.Preload("Order").Order("id DESC").Find(&records)

	response := &model.ResponseCustom{
		Rows:       records,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}
