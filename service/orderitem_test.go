package service

import (
	"testing"
	"time"

	"optic_manager/model"
	"optic_manager/utils"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *utils.CustomDate {
	return &utils.CustomDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func baseItem() *model.OrderItem {
	return &model.OrderItem{
		OrderId:      1,
		FrameId:      uintPtr(10),
		Quantity:     2,
		PricePerUnit: decimal.NewFromInt(1500),
		Subtotal:     decimal.NewFromInt(3000),
		Note:         strPtr("black"),
	}
}

func baseInput() model.OrderItemInput {
	return model.OrderItemInput{
		ID:           1,
		FrameId:      uintPtr(10),
		Quantity:     2,
		PricePerUnit: decimal.NewFromInt(1500),
		Note:         strPtr("black"),
	}
}

func TestOrderItemChanged(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.OrderItemInput)
		want   bool
	}{
		{"identical payload", func(in *model.OrderItemInput) {}, false},
		{"decimal scale does not count as a change", func(in *model.OrderItemInput) {
			in.PricePerUnit = decimal.RequireFromString("1500.00")
		}, false},
		{"quantity", func(in *model.OrderItemInput) { in.Quantity = 3 }, true},
		{"unit price", func(in *model.OrderItemInput) { in.PricePerUnit = decimal.NewFromInt(1400) }, true},
		{"item reference swap", func(in *model.OrderItemInput) { in.FrameId = uintPtr(11) }, true},
		{"note only still versions", func(in *model.OrderItemInput) { in.Note = strPtr("brown") }, true},
		{"note cleared", func(in *model.OrderItemInput) { in.Note = nil }, true},
		{"serial number", func(in *model.OrderItemInput) { in.SerialNumber = strPtr("SN-1") }, true},
		{"battery", func(in *model.OrderItemInput) { in.Battery = strPtr("312") }, true},
		{"next service date set", func(in *model.OrderItemInput) { in.NextServiceDate = datePtr(2026, 3, 1) }, true},
		{"refund flag", func(in *model.OrderItemInput) { in.IsRefund = true }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)
			if got := orderItemChanged(baseItem(), in); got != tt.want {
				t.Errorf("orderItemChanged = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestOrderItemChangedDateCompareIgnoresTime(t *testing.T) {
	existing := baseItem()
	existing.NextServiceDate = &utils.CustomDate{Time: time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)}

	in := baseInput()
	in.NextServiceDate = datePtr(2026, 3, 1)
	if orderItemChanged(existing, in) {
		t.Error("same calendar day must not count as a change")
	}

	in.NextServiceDate = datePtr(2026, 3, 2)
	if !orderItemChanged(existing, in) {
		t.Error("different day must count as a change")
	}
}

func TestLineSubtotalIsServerComputed(t *testing.T) {
	got := LineSubtotal(3, decimal.RequireFromString("1250.50"))
	if !got.Equal(decimal.RequireFromString("3751.50")) {
		t.Errorf("LineSubtotal = %s, want 3751.50", got)
	}
}
