package validate

import (
	"fmt"

	"optic_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateProduct() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateProductInput
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

		if input.UnitPrice.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unit price cannot be negative",
			})
		}

		c.Locals("input", input)

		return c.Next()
	}
}

func FilterProduct() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterProduct
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
