package handler

import (
	"encoding/base64"
	"errors"
	"log"
	"strings"

	"optic_manager/constants"
	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"
	"optic_manager/service"
	"optic_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// serviceErrorResponse maps the typed service errors onto HTTP statuses so
// terminals can branch on them.
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, err.Error(), err, "stock")
	}
	var overErr *service.OverpaymentError
	if errors.As(err, &overErr) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, err.Error(), err, "payments")
	}
	var consErr *service.ConsistencyError
	if errors.As(err, &consErr) {
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), err)
	}
	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, err.Error(), err, valErr.Field)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, err)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
}

// broadcastBranchStock pushes the branch's current stock rows to the live
// board after any ledger change.
func broadcastBranchStock(branchId uint) {
	var records []model.StockRecord
	if err := database.DB.Where("branch_id = ?", branchId).Find(&records).Error; err != nil {
		log.Printf("Cannot load stock for broadcast, branch %d: %v", branchId, err)
		return
	}
	helper.PublishStockUpdate(branchId, records)
}

func CreateOrder(c *fiber.Ctx) error {
	db := database.DB

	input, ok := c.Locals("input").(model.CreateOrderInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	order, err := service.CreateOrder(db, input, accountInfo.AccountId)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	broadcastBranchStock(order.BranchId)
	sendReceiptIfPossible(order)

	return utils.SuccessResponse(c, fiber.StatusCreated, order)
}

func sendReceiptIfPossible(order *model.Order) {
	db := database.DB

	var customer model.Customer
	if err := db.First(&customer, order.CustomerId).Error; err != nil {
		return
	}
	if customer.Email == nil || *customer.Email == "" {
		return
	}

	var branch model.Branch
	if err := db.First(&branch, order.BranchId).Error; err != nil {
		return
	}

	data := utils.InvoiceReceiptData{
		InvoiceNumber: order.InvoiceNumber,
		BranchName:    branch.Name,
		CustomerName:  customer.Name,
		Subtotal:      order.Subtotal.StringFixed(2),
		Discount:      order.Discount.StringFixed(2),
		TotalPrice:    order.TotalPrice.StringFixed(2),
		TotalPayment:  order.TotalPayment.StringFixed(2),
		OnHold:        order.OnHold,
	}
	for _, item := range order.Items {
		if item.IsDeleted {
			continue
		}
		data.Items = append(data.Items, utils.InvoiceReceiptItem{
			Name:     itemDisplayName(&item),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal.StringFixed(2),
		})
	}

	utils.SendInvoiceReceiptEmail(*customer.Email, data)
}

func itemDisplayName(item *model.OrderItem) string {
	db := database.DB
	switch {
	case item.FrameId != nil:
		var p model.Frame
		if db.First(&p, *item.FrameId).Error == nil {
			return p.Name
		}
	case item.LensId != nil:
		var p model.Lens
		if db.First(&p, *item.LensId).Error == nil {
			return p.Name
		}
	case item.ExternalLensId != nil:
		var p model.ExternalLens
		if db.First(&p, *item.ExternalLensId).Error == nil {
			return p.Name
		}
	case item.LensCleanerId != nil:
		var p model.LensCleaner
		if db.First(&p, *item.LensCleanerId).Error == nil {
			return p.Name
		}
	case item.OtherItemId != nil:
		var p model.OtherItem
		if db.First(&p, *item.OtherItemId).Error == nil {
			return p.Name
		}
	case item.HearingItemId != nil:
		var p model.HearingItem
		if db.First(&p, *item.HearingItemId).Error == nil {
			return p.Name
		}
	}
	return "Item"
}

func UpdateOrder(c *fiber.Ctx) error {
	db := database.DB

	orderId := c.Locals("inputId").(int)
	input, ok := c.Locals("input").(model.UpdateOrderInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	order, err := service.UpdateOrder(db, uint(orderId), input, accountInfo.AccountId)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	broadcastBranchStock(order.BranchId)

	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func RefundOrder(c *fiber.Ctx) error {
	db := database.DB

	orderId := c.Locals("inputId").(int)
	input, ok := c.Locals("input").(model.RefundOrderInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	order, err := service.RefundOrder(db, uint(orderId), input.Reason, accountInfo.AccountId)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	broadcastBranchStock(order.BranchId)

	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func DeleteOrder(c *fiber.Ctx) error {
	db := database.DB

	orderId := c.Locals("inputId").(int)

	accountInfo, _, _, _ := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		return nil
	}

	var order model.Order
	if err := db.Scopes(model.Active).First(&order, orderId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, err)
	}

	if err := service.SoftDeleteOrder(db, uint(orderId), accountInfo.AccountId); err != nil {
		return serviceErrorResponse(c, err)
	}

	broadcastBranchStock(order.BranchId)

	return utils.SuccessResponse(c, fiber.StatusOK, "Order deleted")
}

func GetOrderById(c *fiber.Ctx) error {
	db := database.DB

	orderId := c.Locals("inputId").(int)

	var order model.Order
	err := db.
		Preload("Items", model.Active).
		Preload("Payments", func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(model.Active).Order("created_at ASC, id ASC")
		}).
		Preload("Progress", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		Preload("Branch").
		Preload("Customer").
		First(&order, orderId).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, err)
	}

	qrBytes, err := utils.GenerateQRCode(order.InvoiceNumber, 300)
	qr := ""
	if err != nil {
		log.Printf("Cannot render invoice QR for order %d: %v", order.ID, err)
	} else {
		qr = base64.StdEncoding.EncodeToString(qrBytes)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"order":     order,
		"invoiceQr": qr,
	})
}

// GetOrderHistory returns every version of the order's lines and payments,
// retired rows included, for the audit view.
func GetOrderHistory(c *fiber.Ctx) error {
	db := database.DB

	orderId := c.Locals("inputId").(int)

	var order model.Order
	if err := db.First(&order, orderId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, err)
	}

	var items []model.OrderItem
	db.Where("order_id = ?", orderId).Order("id ASC").Find(&items)

	var payments []model.Payment
	db.Where("order_id = ?", orderId).Order("id ASC").Find(&payments)

	var audits []model.AuditLog
	db.Where("entity = ? AND entity_id = ?", "order", orderId).Order("id ASC").Find(&audits)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"order":    order,
		"items":    items,
		"payments": payments,
		"audit":    audits,
	})
}

func GetOrders(c *fiber.Ctx) error {
	db := database.DB

	filterInput, ok := c.Locals("input").(model.FilterOrder)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("parse data to locals fail"))
	}

	condition := db.Model(&model.Order{}).Scopes(model.Active)
	if filterInput.BranchId != 0 {
		condition = condition.Where("branch_id = ?", filterInput.BranchId)
	}
	if filterInput.CustomerId != 0 {
		condition = condition.Where("customer_id = ?", filterInput.CustomerId)
	}
	if filterInput.Status != "" {
		condition = condition.Where("status = ?", filterInput.Status)
	}
	if filterInput.OnHold != nil {
		condition = condition.Where("on_hold = ?", *filterInput.OnHold)
	}
	if filterInput.Urgent != nil {
		condition = condition.Where("urgent = ?", *filterInput.Urgent)
	}
	if filterInput.SearchKey != "" {
		condition = condition.Where("LOWER(invoice_number) LIKE ?", "%"+strings.ToLower(filterInput.SearchKey)+"%")
	}
	if filterInput.StartDate != nil && *filterInput.StartDate != "" {
		condition = condition.Where("created_at >= ?", *filterInput.StartDate)
	}
	if filterInput.EndDate != nil && *filterInput.EndDate != "" {
		condition = condition.Where("created_at <= ?", *filterInput.EndDate)
	}

	var totalCount int64
	condition.Count(&totalCount)

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var orders []model.Order
	condition.
		Preload("Items", model.Active).
		Preload("Customer").
		Order("id DESC").
		Find(&orders)

	response := &model.ResponseCustom{
		Rows:       orders,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}
