package handler

import (
	"errors"
	"time"

	"optic_manager/constants"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		UserName string `json:"username"`
		Password string `json:"password"`
	}

	loginInput := new(LoginInput)

	if err := c.BodyParser(loginInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, err)
	}

	if loginInput.UserName == "" || loginInput.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, errors.New("username and password are required"))
	}

	accountModel, err := helper.GetUserByUsername(loginInput.UserName)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if accountModel == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_USERNAME, errors.New("username not exists"))
	}

	if !helper.CheckPasswordHash(loginInput.Password, accountModel.Password) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.INVALID_PASSWORD, errors.New("password does not match username"))
	}

	if !accountModel.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, errors.New("active false"))
	}

	tokenClaim := model.TokenClaim{
		AccountId: accountModel.ID,
		Username:  accountModel.Username,
		Role:      accountModel.Role,
		BranchId:  accountModel.BranchId,
	}
	token, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	refreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		SameSite: "None",
		Secure:   false,
		Path:     "/",
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		SameSite: "None",
		Secure:   false,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message": "login success",
		"account": fiber.Map{
			"id":       accountModel.ID,
			"username": accountModel.Username,
			"role":     accountModel.Role,
			"branchId": accountModel.BranchId,
		},
	})
}

func RefreshToken(c *fiber.Ctx) error {
	refreshCookie := c.Cookies("refresh_token")
	if refreshCookie == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "refresh token not found"})
	}

	token, err := helper.ParseToken(refreshCookie)
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid refresh token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	accountIdFloat, ok := claims["accountId"].(float64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid accountId in payload"})
	}
	username, ok := claims["username"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username in payload"})
	}

	tokenClaim := model.TokenClaim{
		AccountId: uint(accountIdFloat),
		Username:  username,
	}

	newAccessToken, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate access token"})
	}

	newRefreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate refresh token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    newAccessToken,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   false,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    newRefreshToken,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   false,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message": "refresh success",
	})
}

func Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token", "refresh_token")
	return c.JSON(fiber.Map{"message": "logout success"})
}
