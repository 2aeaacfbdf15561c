package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientStockError names the exact item, branch and quantities so the
// operator can act on it (replenish, split the order) immediately.
type InsufficientStockError struct {
	ItemType  string
	ItemId    uint
	BranchId  uint
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s #%d at branch %d, required %d, available %d",
		e.ItemType, e.ItemId, e.BranchId, e.Required, e.Available)
}

// OverpaymentError is raised when a payment batch would push active
// payments above the order total with no refund path.
type OverpaymentError struct {
	OrderId    uint
	TotalPrice decimal.Decimal
	Paid       decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payments %s exceed order #%d total %s",
		e.Paid.StringFixed(2), e.OrderId, e.TotalPrice.StringFixed(2))
}

// ConsistencyError covers broken business state distinct from plain input
// validation: bad item references, negative totals, invalid transitions.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return e.Reason
}

// ValidationError reports malformed input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
