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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func AdjustStock(c *fiber.Ctx) error {
	db := database.DB

	input, ok := c.Locals("input").(model.AdjustStockInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	var record *model.StockRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = service.AdjustStock(tx, input, accountInfo.AccountId, uuid.New().String())
		return err
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	broadcastBranchStock(input.BranchId)

	return utils.SuccessResponse(c, fiber.StatusOK, record)
}

func TransferStock(c *fiber.Ctx) error {
	db := database.DB

	input, ok := c.Locals("input").(model.TransferStockInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return service.TransferStock(tx, input, accountInfo.AccountId, uuid.New().String())
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	broadcastBranchStock(input.FromBranchId)
	broadcastBranchStock(input.ToBranchId)

	return utils.SuccessResponse(c, fiber.StatusOK, "Stock transferred")
}

func GetStock(c *fiber.Ctx) error {
	db := database.DB

	filterInput, ok := c.Locals("input").(model.FilterStock)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	condition := db.Model(&model.StockRecord{})
	if filterInput.BranchId != 0 {
		condition = condition.Where("branch_id = ?", filterInput.BranchId)
	}
	if filterInput.ItemType != "" {
		condition = condition.Where("item_type = ?", filterInput.ItemType)
	}
	if filterInput.LowOnly {
		condition = condition.Where(`"limit" IS NOT NULL AND qty <= "limit"`)
	}

	var totalCount int64
	condition.Count(&totalCount)

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var records []model.StockRecord
	condition.Order("item_type ASC, item_id ASC").Find(&records)

	response := &model.ResponseCustom{
		Rows:       records,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

// GetStockMovements returns the append-only movement trail for one item at
// one branch, newest first.
func GetStockMovements(c *fiber.Ctx) error {
	db := database.DB

	itemType := c.Query("itemType")
	itemId := c.QueryInt("itemId")
	branchId := c.QueryInt("branchId")
	if itemType == "" || itemId <= 0 || branchId <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "itemType, itemId and branchId are required", errors.New("missing query params"))
	}

	var movements []model.StockMovement
	err := db.Where("item_type = ? AND item_id = ? AND branch_id = ?", itemType, itemId, branchId).
		Order("id DESC").
		Find(&movements).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, movements)
}
