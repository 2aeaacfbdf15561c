package handler

import (
	"errors"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/service"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordPayments appends a payment batch to an order. Existing active
// payments are carried into the reconciler untouched so only the new rows
// are added; edits go through the order update endpoint instead.
func RecordPayments(c *fiber.Ctx) error {
	db := database.DB

	orderId := c.Locals("inputId").(int)
	input, ok := c.Locals("input").(model.RecordPaymentBatchInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	var order model.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(model.Active).
			First(&order, orderId).Error
		if err != nil {
			return err
		}
		if order.IsRefund {
			return &service.ConsistencyError{Reason: "order has been refunded"}
		}

		var existing []model.Payment
		err = tx.Scopes(model.Active).
			Where("order_id = ?", order.ID).
			Order("created_at asc, id asc").
			Find(&existing).Error
		if err != nil {
			return err
		}

		batch := make([]model.PaymentInput, 0, len(existing)+len(input.Payments))
		for _, p := range existing {
			batch = append(batch, model.PaymentInput{
				ID:     p.ID,
				Amount: p.Amount,
				Method: p.Method,
				Status: p.Status,
			})
		}
		for _, in := range input.Payments {
			in.ID = 0
			batch = append(batch, in)
		}

		net, err := service.ReconcilePayments(tx, &order, batch, "", accountInfo.AccountId)
		if err != nil {
			return err
		}

		order.TotalPayment = net
		return tx.Model(&order).Update("total_payment", net).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

// GetRefundExpenses lists the cash refunds posted against an order.
func GetRefundExpenses(c *fiber.Ctx) error {
	db := database.DB

	orderId := c.Locals("inputId").(int)

	var expenses []model.RefundExpense
	if err := db.Where("order_id = ?", orderId).Order("id ASC").Find(&expenses).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, expenses)
}
