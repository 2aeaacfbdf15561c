package validate

import (
	"errors"
	"fmt"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func branchExists(id uint) error {
	var branch model.Branch
	return database.DB.First(&branch, id).Error
}

func AdjustStock() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.AdjustStockInput
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

		_, isAdmin, isManager, _ := helper.GetInfoAccountFromToken(c)
		if !isAdmin && !isManager {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not permission"))
		}

		if err := branchExists(input.BranchId); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.BRANCH_NOT_FOUND, fmt.Errorf("branchId not found"), "branchId")
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}

		c.Locals("input", input)

		return c.Next()
	}
}

func TransferStock() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.TransferStockInput
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

		_, isAdmin, isManager, _ := helper.GetInfoAccountFromToken(c)
		if !isAdmin && !isManager {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not permission"))
		}

		for _, branchId := range []uint{input.FromBranchId, input.ToBranchId} {
			if err := branchExists(branchId); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.BRANCH_NOT_FOUND, fmt.Errorf("branch %d not found", branchId), "branchId")
				}
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
			}
		}

		c.Locals("input", input)

		return c.Next()
	}
}

func FilterStock() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterStock
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
