package service

import (
	"strings"
	"testing"

	"optic_manager/constants"
	"optic_manager/model"
)

func uintPtr(v uint) *uint { return &v }

func TestStockLineOfExemptions(t *testing.T) {
	tests := []struct {
		name    string
		in      model.OrderItemInput
		stocked bool
		want    string
	}{
		{"frame", model.OrderItemInput{FrameId: uintPtr(1), Quantity: 2}, true, constants.ITEM_FRAME},
		{"lens", model.OrderItemInput{LensId: uintPtr(3), Quantity: 1}, true, constants.ITEM_LENS},
		{"hearing", model.OrderItemInput{HearingItemId: uintPtr(4), Quantity: 1}, true, constants.ITEM_HEARING},
		{"external lens exempt", model.OrderItemInput{ExternalLensId: uintPtr(9), Quantity: 1}, false, ""},
		{"non-stock flag exempt", model.OrderItemInput{FrameId: uintPtr(1), Quantity: 1, IsNonStock: true}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, stocked := StockLineOf(tt.in)
			if stocked != tt.stocked {
				t.Fatalf("stocked = %t, want %t", stocked, tt.stocked)
			}
			if stocked && line.ItemType != tt.want {
				t.Errorf("item type = %s, want %s", line.ItemType, tt.want)
			}
		})
	}
}

func TestPlanStockChangesClassSplit(t *testing.T) {
	lines := []StockLine{
		{ItemType: constants.ITEM_FRAME, ItemId: 1, Quantity: 2},
		{ItemType: constants.ITEM_LENS, ItemId: 2, Quantity: 2},
		{ItemType: constants.ITEM_LENS_CLEANER, ItemId: 3, Quantity: 1},
	}

	immediate, deferred := PlanStockChanges(lines, false)
	if len(immediate) != 2 || len(deferred) != 1 {
		t.Fatalf("off hold: immediate %d, deferred %d, want 2, 1", len(immediate), len(deferred))
	}

	// while on hold the lens deduction is postponed entirely
	immediate, deferred = PlanStockChanges(lines, true)
	if len(immediate) != 2 || len(deferred) != 0 {
		t.Fatalf("on hold: immediate %d, deferred %d, want 2, 0", len(immediate), len(deferred))
	}
}

func TestPlanStockChangesEffectiveQty(t *testing.T) {
	tests := []struct {
		name     string
		line     StockLine
		wantQty  int
		wantSkip bool
	}{
		{"new reservation", StockLine{ItemType: constants.ITEM_FRAME, ItemId: 1, Quantity: 3}, 3, false},
		{"unchanged is a no-op", StockLine{ItemType: constants.ITEM_FRAME, ItemId: 1, Quantity: 3, Reserved: 3}, 0, true},
		{"increase reserves the delta", StockLine{ItemType: constants.ITEM_FRAME, ItemId: 1, Quantity: 5, Reserved: 3}, 2, false},
		{"decrease releases the delta", StockLine{ItemType: constants.ITEM_FRAME, ItemId: 1, Quantity: 1, Reserved: 3}, -2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			immediate, _ := PlanStockChanges([]StockLine{tt.line}, false)
			if tt.wantSkip {
				if len(immediate) != 0 {
					t.Fatalf("expected no change, got %+v", immediate)
				}
				return
			}
			if len(immediate) != 1 || immediate[0].Qty != tt.wantQty {
				t.Fatalf("got %+v, want qty %d", immediate, tt.wantQty)
			}
		})
	}
}

func TestAggregateChangesMergesSameRecord(t *testing.T) {
	changes := []StockChange{
		{ItemType: constants.ITEM_FRAME, ItemId: 1, Qty: 2},
		{ItemType: constants.ITEM_FRAME, ItemId: 1, Qty: 3},
		{ItemType: constants.ITEM_FRAME, ItemId: 2, Qty: 1},
	}
	out := AggregateChanges(changes)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Qty != 5 {
		t.Errorf("merged qty = %d, want 5", out[0].Qty)
	}
	// a release and a matching reservation cancel out
	out = AggregateChanges([]StockChange{
		{ItemType: constants.ITEM_LENS, ItemId: 7, Qty: -2},
		{ItemType: constants.ITEM_LENS, ItemId: 7, Qty: 2},
	})
	if len(out) != 1 || out[0].Qty != 0 {
		t.Fatalf("got %+v, want one zero change", out)
	}
}

func TestInsufficientStockErrorNamesTheProblem(t *testing.T) {
	err := &InsufficientStockError{
		ItemType: constants.ITEM_FRAME, ItemId: 12, BranchId: 3,
		Required: 5, Available: 2,
	}
	msg := err.Error()
	for _, want := range []string{"FRAME", "#12", "branch 3", "required 5", "available 2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestIsDeferredType(t *testing.T) {
	if !IsDeferredType(constants.ITEM_LENS) {
		t.Error("lens stock must defer while on hold")
	}
	for _, it := range []string{constants.ITEM_FRAME, constants.ITEM_LENS_CLEANER, constants.ITEM_OTHER, constants.ITEM_HEARING} {
		if IsDeferredType(it) {
			t.Errorf("%s must reserve immediately", it)
		}
	}
}
