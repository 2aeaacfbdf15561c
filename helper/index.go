package helper

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/model"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetUserByUsername(u string) (*model.Account, error) {
	db := database.DB
	var account model.Account
	if err := db.Where(&model.Account{Username: u}).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = tokenClaim.Username
	claims["accountId"] = tokenClaim.AccountId
	claims["branchId"] = tokenClaim.BranchId
	claims["exp"] = time.Now().Add(time.Minute * 60).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = tokenClaim.Username
	claims["accountId"] = tokenClaim.AccountId
	claims["exp"] = time.Now().Add(time.Hour * 24 * 7).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})

	return token, err
}

// GetInfoAccountFromToken resolves the logged-in account and its role flags.
// The role is re-read from the database so a demoted account loses access
// before its token expires.
func GetInfoAccountFromToken(c *fiber.Ctx) (model.TokenClaim, bool, bool, bool) {
	token := c.Locals("user").(*jwt.Token)
	tokenClaim := token.Claims.(jwt.MapClaims)
	accountId := uint(tokenClaim["accountId"].(float64))
	username := tokenClaim["username"].(string)

	var account model.Account
	db := database.DB
	if err := db.First(&account, accountId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Account not found: id=%d", accountId)
			utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_ACCOUNT_NOT_FOUND, err)
		} else {
			log.Printf("Database query error for account: id=%d, error=%v", accountId, err)
			utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		return model.TokenClaim{}, false, false, false
	}

	accountInfo := model.TokenClaim{
		AccountId: accountId,
		Username:  username,
		Role:      account.Role,
		BranchId:  account.BranchId,
	}

	return accountInfo,
		account.Role == constants.ROLE_ADMIN,
		account.Role == constants.ROLE_MANAGER,
		account.Role == constants.ROLE_STAFF
}
