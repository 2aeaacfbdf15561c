package validate

import (
	"errors"
	"fmt"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateMnt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateMntInput
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

		var order model.Order
		if err := database.DB.Scopes(model.Active).First(&order, input.OrderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.ORDER_NOT_FOUND, fmt.Errorf("orderId not found"), "orderId")
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}

		c.Locals("input", input)
		c.Locals("mntOrder", &order)

		return c.Next()
	}
}

func FilterMnt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterMnt
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
