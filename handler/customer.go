package handler

import (
	"errors"
	"strings"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func CreateCustomer(c *fiber.Ctx) error {
	db := database.DB

	input, ok := c.Locals("input").(model.CreateCustomerInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	var existing model.Customer
	if err := db.Where("phone = ? AND name = ?", input.Phone, input.Name).First(&existing).Error; err == nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Customer with this phone already exists", nil, "phone")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	newCustomer := new(model.Customer)
	copier.Copy(&newCustomer, &input)
	newCustomer.BranchId = accountInfo.BranchId

	if err := db.Create(&newCustomer).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, newCustomer)
}

func EditCustomer(c *fiber.Ctx) error {
	db := database.DB

	customerId := c.Locals("inputId").(int)
	input, ok := c.Locals("input").(model.EditCustomerInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	var customer model.Customer
	if err := db.First(&customer, customerId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CUSTOMER_NOT_FOUND, err)
	}

	copier.CopyWithOption(&customer, &input, copier.Option{IgnoreEmpty: true})

	if err := db.Save(&customer).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, customer)
}

func GetCustomers(c *fiber.Ctx) error {
	db := database.DB

	filterInput, ok := c.Locals("input").(model.FilterCustomer)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	condition := db.Model(&model.Customer{})
	if filterInput.SearchKey != "" {
		key := "%" + strings.ToLower(filterInput.SearchKey) + "%"
		condition = condition.Where("LOWER(name) LIKE ? OR phone LIKE ?", key, key)
	}
	if filterInput.Phone != "" {
		condition = condition.Where("phone LIKE ?", "%"+filterInput.Phone+"%")
	}
	if filterInput.BranchId != 0 {
		condition = condition.Where("branch_id = ?", filterInput.BranchId)
	}

	var totalCount int64
	condition.Count(&totalCount)

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var customers model.Customers
	condition.Order("id ASC").Find(&customers)

	response := &model.ResponseCustom{
		Rows:       customers,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetCustomerById(c *fiber.Ctx) error {
	db := database.DB

	customerId := c.Locals("inputId").(int)
	var customer model.Customer
	if err := db.First(&customer, customerId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CUSTOMER_NOT_FOUND, err)
	}

	var orders []model.Order
	db.Scopes(model.Active).
		Where("customer_id = ?", customerId).
		Order("id DESC").
		Find(&orders)

	var refractions []model.RefractionSession
	db.Where("customer_id = ?", customerId).Order("id DESC").Find(&refractions)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"customer":    customer,
		"orders":      orders,
		"refractions": refractions,
	})
}
