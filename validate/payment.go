package validate

import (
	"errors"
	"fmt"
	"strconv"

	"optic_manager/constants"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func RecordPayments(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.RecordPaymentBatchInput
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

		for _, p := range input.Payments {
			if p.Amount.IsNegative() {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Payment amount cannot be negative", errors.New("negative amount"), "amount")
			}
		}

		c.Locals("input", input)
		c.Locals("inputId", valueKey)

		return c.Next()
	}
}
