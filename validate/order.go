package validate

import (
	"errors"
	"fmt"
	"strconv"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateOrderInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		var branch model.Branch
		if err := database.DB.First(&branch, input.BranchId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.BRANCH_NOT_FOUND, fmt.Errorf("branchId not found"), "branchId")
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}

		if input.Customer.ID == 0 && (input.Customer.Name == "" || input.Customer.Phone == "") {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Customer name and phone are required for a new customer", errors.New("customer incomplete"), "customer")
		}

		c.Locals("input", input)

		return c.Next()
	}
}

func UpdateOrder(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.UpdateOrderInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals("input", input)
		c.Locals("inputId", valueKey)

		return c.Next()
	}
}

func RefundOrder(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.RefundOrderInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals("input", input)
		c.Locals("inputId", valueKey)

		return c.Next()
	}
}

func FilterOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterOrder
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals("input", input)

		return c.Next()
	}
}
