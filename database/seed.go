package database

import (
	"log"

	"optic_manager/constants"
	"optic_manager/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	hashPassword := string(bytes)
	if err != nil {
		log.Println("failed to hash seed password:", err)
		return
	}

	accounts := []model.Account{
		{Username: "administration", Password: hashPassword, Active: true, Role: constants.ROLE_ADMIN},
	}
	for _, account := range accounts {
		if err := db.Where(model.Account{Username: account.Username}).FirstOrCreate(&account).Error; err != nil {
			log.Println("failed to seed account:", account.Username, "error:", err)
		}
	}

	branches := []model.Branch{
		{Name: "Head Office", Code: "HO"},
	}
	for _, branch := range branches {
		if err := db.Where(model.Branch{Code: branch.Code}).FirstOrCreate(&branch).Error; err != nil {
			log.Println("failed to seed branch:", branch.Code, "error:", err)
		}
	}

	category := model.ExpenseCategory{Name: constants.EXPENSE_CATEGORY_ORDER_REFUND}
	if err := db.Where(model.ExpenseCategory{Name: category.Name}).FirstOrCreate(&category).Error; err != nil {
		log.Println("failed to seed expense category:", err)
	}
}
