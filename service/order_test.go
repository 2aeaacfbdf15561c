package service

import (
	"testing"

	"optic_manager/constants"
	"optic_manager/model"
)

func TestComputeTotalPrice(t *testing.T) {
	tests := []struct {
		name               string
		subtotal, discount string
		want               string
	}{
		{"no discount", "2000", "0", "2000"},
		{"plain discount", "2000", "500", "1500"},
		{"discount equals subtotal", "2000", "2000", "0"},
		{"oversized discount floors at zero", "1000", "1200", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotalPrice(dec(tt.subtotal), dec(tt.discount))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ComputeTotalPrice(%s, %s) = %s, want %s", tt.subtotal, tt.discount, got, tt.want)
			}
		})
	}
}

func TestActiveItemsSubtotalExcludesRetiredAndRefunded(t *testing.T) {
	item := func(subtotal string, deleted, refunded bool) *model.OrderItem {
		it := &model.OrderItem{Subtotal: dec(subtotal)}
		it.IsDeleted = deleted
		it.IsRefund = refunded
		return it
	}
	items := []*model.OrderItem{
		item("1000", false, false),
		item("1000", false, true),  // refunded line drops out of the total
		item("400", true, false),   // retired version
		item("250", false, false),
	}
	got := ActiveItemsSubtotal(items)
	if !got.Equal(dec("1250")) {
		t.Errorf("subtotal = %s, want 1250", got)
	}
}

// The hold matrix drives exactly-once deduction across hold transitions:
// stock delta = needed(new state) - reserved(old state).
func TestHoldTransitionStockMatrix(t *testing.T) {
	lensItem := func(qty int) *model.OrderItem {
		return &model.OrderItem{LensId: uintPtr(5), Quantity: qty}
	}
	lensInput := func(qty int) model.OrderItemInput {
		return model.OrderItemInput{LensId: uintPtr(5), Quantity: qty}
	}

	tests := []struct {
		name             string
		wasHold, newHold bool
		wantDelta        int
	}{
		{"stays off hold", false, false, 0},
		{"stays on hold", true, true, 0},
		{"off hold deducts exactly once", true, false, 2},
		{"back on hold restores", false, true, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, held := reservedFor(lensItem(2), tt.wasHold)
			_, needed := neededFor(lensInput(2), tt.newHold)
			if delta := needed - held; delta != tt.wantDelta {
				t.Errorf("delta = %d, want %d", delta, tt.wantDelta)
			}
		})
	}
}

func TestFrameStockIgnoresHold(t *testing.T) {
	item := &model.OrderItem{FrameId: uintPtr(3), Quantity: 1}
	for _, hold := range []bool{true, false} {
		if _, held := reservedFor(item, hold); held != 1 {
			t.Errorf("frame reserved under hold=%t is %d, want 1", hold, held)
		}
	}
}

func TestRefundedLineHoldsNoStock(t *testing.T) {
	item := &model.OrderItem{FrameId: uintPtr(3), Quantity: 2, IsRefund: true}
	if _, held := reservedFor(item, false); held != 0 {
		t.Error("refunded line must not hold stock")
	}
	in := model.OrderItemInput{FrameId: uintPtr(3), Quantity: 2, IsRefund: true}
	if _, needed := neededFor(in, false); needed != 0 {
		t.Error("incoming refund line must not reserve stock")
	}
}

func TestItemRefCount(t *testing.T) {
	if n := itemRefCount(model.OrderItemInput{FrameId: uintPtr(1)}); n != 1 {
		t.Errorf("single ref = %d, want 1", n)
	}
	if n := itemRefCount(model.OrderItemInput{FrameId: uintPtr(1), LensId: uintPtr(2)}); n != 2 {
		t.Errorf("double ref = %d, want 2", n)
	}
	if n := itemRefCount(model.OrderItemInput{}); n != 0 {
		t.Errorf("no ref = %d, want 0", n)
	}
}

func TestRefundCause(t *testing.T) {
	if got := refundCause(true, true); got != "refund for returned order item" {
		t.Errorf("item refund wins: %q", got)
	}
	if got := refundCause(false, true); got != "refund after discount change" {
		t.Errorf("discount cause: %q", got)
	}
	if got := refundCause(false, false); got != "order adjustment refund" {
		t.Errorf("default cause: %q", got)
	}
}

func TestInputItemsSubtotalSkipsRefundLines(t *testing.T) {
	items := []model.OrderItemInput{
		{FrameId: uintPtr(3), Quantity: 2, PricePerUnit: dec("500")},
		{LensId: uintPtr(5), Quantity: 1, PricePerUnit: dec("800"), IsRefund: true},
		{OtherItemId: uintPtr(9), Quantity: 1, PricePerUnit: dec("250")},
	}
	got := InputItemsSubtotal(items)
	if !got.Equal(dec("1250")) {
		t.Errorf("subtotal = %s, want 1250", got)
	}
}

func TestDuplicateItemIdsDetected(t *testing.T) {
	tests := []struct {
		name    string
		ids     []uint
		wantId  uint
		wantDup bool
	}{
		{"distinct ids", []uint{7, 8}, 0, false},
		{"repeated id", []uint{7, 8, 7}, 7, true},
		{"new lines may repeat", []uint{0, 0, 7}, 0, false},
		{"empty payload", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]model.OrderItemInput, len(tt.ids))
			for i, id := range tt.ids {
				items[i] = model.OrderItemInput{ID: id, FrameId: uintPtr(3), Quantity: 1}
			}
			id, dup := duplicateItemId(items)
			if dup != tt.wantDup || id != tt.wantId {
				t.Errorf("duplicateItemId = (%d, %t), want (%d, %t)", id, dup, tt.wantId, tt.wantDup)
			}
		})
	}
}

func TestIdempotentUpdatePlansNoStockChanges(t *testing.T) {
	// the same payload applied twice must not move stock: reserved == needed
	item := &model.OrderItem{FrameId: uintPtr(3), Quantity: 2}
	in := model.OrderItemInput{ID: 1, FrameId: uintPtr(3), Quantity: 2}

	_, held := reservedFor(item, false)
	_, needed := neededFor(in, false)
	changes := AggregateChanges([]StockChange{
		{ItemType: constants.ITEM_FRAME, ItemId: 3, Qty: -held},
		{ItemType: constants.ITEM_FRAME, ItemId: 3, Qty: needed},
	})
	if len(changes) != 1 || changes[0].Qty != 0 {
		t.Fatalf("idempotent edit produced a net change: %+v", changes)
	}
	// and the unchanged line must not version either
	existing := baseItem()
	if orderItemChanged(existing, baseInput()) {
		t.Error("identical line must not produce a new version")
	}
}
