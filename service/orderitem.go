package service

import (
	"time"

	"optic_manager/model"
	"optic_manager/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order items are billed goods: a historical price or quantity is never
// overwritten in place. Any tracked-field change retires the old row and
// writes a replacement on the same order.

func ptrUintEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptrStrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func dateEqual(a, b *utils.CustomDate) bool {
	if a == nil || b == nil {
		return a == b
	}
	return utils.SameDay(a.Time, b.Time)
}

// LineSubtotal recomputes a line's subtotal server-side; the caller's value
// is never trusted.
func LineSubtotal(quantity int, pricePerUnit decimal.Decimal) decimal.Decimal {
	return pricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
}

// orderItemChanged compares every tracked field: quantity, unit price,
// subtotal, item references, note, type-specific extras and the refund
// flag. Money compares decimal-equal, dates day-equal.
func orderItemChanged(existing *model.OrderItem, in model.OrderItemInput) bool {
	if existing.Quantity != in.Quantity {
		return true
	}
	if !existing.PricePerUnit.Equal(in.PricePerUnit) {
		return true
	}
	if !existing.Subtotal.Equal(LineSubtotal(in.Quantity, in.PricePerUnit)) {
		return true
	}
	if !ptrUintEqual(existing.FrameId, in.FrameId) ||
		!ptrUintEqual(existing.LensId, in.LensId) ||
		!ptrUintEqual(existing.ExternalLensId, in.ExternalLensId) ||
		!ptrUintEqual(existing.LensCleanerId, in.LensCleanerId) ||
		!ptrUintEqual(existing.OtherItemId, in.OtherItemId) ||
		!ptrUintEqual(existing.HearingItemId, in.HearingItemId) {
		return true
	}
	if !ptrStrEqual(existing.Note, in.Note) {
		return true
	}
	if !ptrStrEqual(existing.SerialNumber, in.SerialNumber) {
		return true
	}
	if !ptrStrEqual(existing.Battery, in.Battery) {
		return true
	}
	if !dateEqual(existing.NextServiceDate, in.NextServiceDate) {
		return true
	}
	if existing.IsRefund != in.IsRefund {
		return true
	}
	return false
}

func newItemFromInput(orderId uint, in model.OrderItemInput) *model.OrderItem {
	return &model.OrderItem{
		OrderId:         orderId,
		FrameId:         in.FrameId,
		LensId:          in.LensId,
		ExternalLensId:  in.ExternalLensId,
		LensCleanerId:   in.LensCleanerId,
		OtherItemId:     in.OtherItemId,
		HearingItemId:   in.HearingItemId,
		Quantity:        in.Quantity,
		PricePerUnit:    in.PricePerUnit,
		Subtotal:        LineSubtotal(in.Quantity, in.PricePerUnit),
		Note:            in.Note,
		SerialNumber:    in.SerialNumber,
		Battery:         in.Battery,
		NextServiceDate: in.NextServiceDate,
		IsNonStock:      in.IsNonStock,
		IsRefund:        in.IsRefund,
	}
}

// RetireOrderItem soft-deletes an item row, recording the acting user.
func RetireOrderItem(tx *gorm.DB, item *model.OrderItem, actorId uint) error {
	now := time.Now()
	item.IsDeleted = true
	item.DeletedAt = &now
	item.DeletedById = &actorId
	return tx.Model(item).Updates(map[string]interface{}{
		"is_deleted":    true,
		"deleted_at":    now,
		"deleted_by_id": actorId,
	}).Error
}

// ReconcileOrderItem applies the append-on-change policy to one line.
// Returns the resulting current row and whether a new version was written.
// Stock effects of the change are the ledger's business, not handled here.
func ReconcileOrderItem(tx *gorm.DB, orderId uint, existing *model.OrderItem, in model.OrderItemInput, actorId uint) (*model.OrderItem, bool, error) {
	if existing == nil {
		item := newItemFromInput(orderId, in)
		if err := tx.Create(item).Error; err != nil {
			return nil, false, err
		}
		return item, true, nil
	}

	if !orderItemChanged(existing, in) {
		// deliberate no-op: unchanged lines must not grow history
		return existing, false, nil
	}

	if err := RetireOrderItem(tx, existing, actorId); err != nil {
		return nil, false, err
	}
	item := newItemFromInput(orderId, in)
	if err := tx.Create(item).Error; err != nil {
		return nil, false, err
	}
	return item, true, nil
}
