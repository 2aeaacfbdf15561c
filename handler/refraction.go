package handler

import (
	"errors"
	"strings"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/service"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateRefraction(c *fiber.Ctx) error {
	db := database.DB

	input, ok := c.Locals("input").(model.CreateRefractionInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	var session model.RefractionSession
	err := db.Transaction(func(tx *gorm.DB) error {
		customer, err := service.LookupOrCreateCustomer(tx, input.Customer, input.BranchId)
		if err != nil {
			return err
		}

		number, err := service.NextRefractionNumber(tx, input.BranchId)
		if err != nil {
			return err
		}

		session = model.RefractionSession{
			Number:        number,
			BranchId:      input.BranchId,
			CustomerId:    customer.ID,
			RightSphere:   input.RightSphere,
			RightCylinder: input.RightCylinder,
			RightAxis:     input.RightAxis,
			LeftSphere:    input.LeftSphere,
			LeftCylinder:  input.LeftCylinder,
			LeftAxis:      input.LeftAxis,
			Addition:      input.Addition,
			Pd:            input.Pd,
			Note:          input.Note,
			CreatedById:   accountInfo.AccountId,
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, session)
}

func GetRefractions(c *fiber.Ctx) error {
	db := database.DB

	filterInput, ok := c.Locals("input").(model.FilterRefraction)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	condition := db.Model(&model.RefractionSession{})
	if filterInput.BranchId != 0 {
		condition = condition.Where("branch_id = ?", filterInput.BranchId)
	}
	if filterInput.CustomerId != 0 {
		condition = condition.Where("customer_id = ?", filterInput.CustomerId)
	}
	if filterInput.SearchKey != "" {
		condition = condition.Where("number LIKE ?", "%"+strings.ToUpper(filterInput.SearchKey)+"%")
	}

	var totalCount int64
	condition.Count(&totalCount)

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var sessions []model.RefractionSession
	condition.Preload("Customer").Order("id DESC").Find(&sessions)

	response := &model.ResponseCustom{
		Rows:       sessions,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetRefractionById(c *fiber.Ctx) error {
	db := database.DB

	sessionId := c.Locals("inputId").(int)
	var session model.RefractionSession
	if err := db.Preload("Customer").First(&session, sessionId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Refraction session not found", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, session)
}
