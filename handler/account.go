package handler

import (
	"errors"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateAccount(c *fiber.Ctx) error {
	db := database.DB

	var input model.CreateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
	}
	if input.Username == "" || input.Password == "" || input.Role == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Username, password and role are required", errors.New("missing fields"))
	}

	_, isAdmin, _, _ := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}

	var existing model.Account
	if err := db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Username already exists", nil, "username")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}

	account := model.Account{
		Username: input.Username,
		Password: hash,
		Role:     input.Role,
		Active:   true,
		BranchId: input.BranchId,
	}
	if err := db.Create(&account).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, account)
}

func GetCurrentAccount(c *fiber.Ctx) error {
	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	var account model.Account
	if err := database.DB.Preload("Branch").First(&account, accountInfo.AccountId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ERROR_ACCOUNT_NOT_FOUND, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, account)
}

func AdminChangePassword(c *fiber.Ctx) error {
	db := database.DB

	var input model.AdminChangePassword
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
	}
	if input.NewPassword == "" || input.NewPassword != input.RepeatPassword {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Passwords do not match", nil, "repeatPassword")
	}

	_, isAdmin, _, _ := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}

	var account model.Account
	if err := db.First(&account, input.AccountId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ERROR_ACCOUNT_NOT_FOUND, err)
	}

	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}

	account.Password = hash
	if err := db.Save(&account).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Password updated")
}
