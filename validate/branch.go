package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateBranch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateBranchInput
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

		_, isAdmin, _, _ := helper.GetInfoAccountFromToken(c)
		if !isAdmin {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
		}

		input.Code = strings.ToUpper(strings.TrimSpace(input.Code))

		var existing model.Branch
		if err := database.DB.Where("name = ? OR code = ?", input.Name, input.Code).First(&existing).Error; err == nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Branch name or code already exists", fmt.Errorf("duplicate branch"), "name")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}

		c.Locals("input", input)

		return c.Next()
	}
}

func EditBranch(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.EditBranchInput
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

		_, isAdmin, _, _ := helper.GetInfoAccountFromToken(c)
		if !isAdmin {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
		}

		if input.Name != nil {
			var existing model.Branch
			if err := database.DB.Where("name = ? AND id != ?", *input.Name, valueKey).First(&existing).Error; err == nil {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Branch name already exists", fmt.Errorf("name already exists"), "name")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
			}
		}

		c.Locals("input", input)
		c.Locals("inputId", valueKey)

		return c.Next()
	}
}
