package service

import (
	"errors"
	"time"

	"optic_manager/constants"
	"optic_manager/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The stock ledger works in two phases: ValidateStock locks every touched
// StockRecord and checks quantities, ApplyStockUpdates mutates them and
// appends movements. A validation failure on any line therefore aborts
// before any stock is touched.

// StockChange is one planned mutation of a (item, branch) stock record.
// Positive Qty deducts from stock, negative restores.
type StockChange struct {
	ItemType string
	ItemId   uint
	Qty      int
}

// StockUpdate pairs a planned change with its locked record.
type StockUpdate struct {
	Record *model.StockRecord
	Change StockChange
}

// StockLine is the normalized stocked reference of one order line.
type StockLine struct {
	ItemType string
	ItemId   uint
	Quantity int
	Reserved int // already deducted for this logical line
}

// IsDeferredType reports whether deduction for this class is postponed
// while the order is on hold. Frames and accessories reserve immediately.
func IsDeferredType(itemType string) bool {
	return itemType == constants.ITEM_LENS
}

// StockLineOf maps an order line input to its stocked reference. External
// lenses and explicitly non-stock lines are exempt from the ledger.
func StockLineOf(in model.OrderItemInput) (StockLine, bool) {
	if in.IsNonStock || in.ExternalLensId != nil {
		return StockLine{}, false
	}
	switch {
	case in.FrameId != nil:
		return StockLine{ItemType: constants.ITEM_FRAME, ItemId: *in.FrameId, Quantity: in.Quantity}, true
	case in.LensId != nil:
		return StockLine{ItemType: constants.ITEM_LENS, ItemId: *in.LensId, Quantity: in.Quantity}, true
	case in.LensCleanerId != nil:
		return StockLine{ItemType: constants.ITEM_LENS_CLEANER, ItemId: *in.LensCleanerId, Quantity: in.Quantity}, true
	case in.OtherItemId != nil:
		return StockLine{ItemType: constants.ITEM_OTHER, ItemId: *in.OtherItemId, Quantity: in.Quantity}, true
	case in.HearingItemId != nil:
		return StockLine{ItemType: constants.ITEM_HEARING, ItemId: *in.HearingItemId, Quantity: in.Quantity}, true
	}
	return StockLine{}, false
}

// StockLineOfItem is StockLineOf for a persisted item row.
func StockLineOfItem(item *model.OrderItem) (StockLine, bool) {
	return StockLineOf(model.OrderItemInput{
		FrameId:        item.FrameId,
		LensId:         item.LensId,
		ExternalLensId: item.ExternalLensId,
		LensCleanerId:  item.LensCleanerId,
		OtherItemId:    item.OtherItemId,
		HearingItemId:  item.HearingItemId,
		Quantity:       item.Quantity,
		IsNonStock:     item.IsNonStock,
	})
}

// PlanStockChanges turns order lines into planned changes, split into the
// always-reserved classes and the deferred classes. Effective quantity is
// new minus already reserved; zero or negative reservation deltas are
// no-ops, which makes re-validation of an unchanged order idempotent.
// Deferred changes are only returned when the order is not on hold.
func PlanStockChanges(lines []StockLine, onHold bool) (immediate, deferred []StockChange) {
	for _, line := range lines {
		effective := line.Quantity - line.Reserved
		if effective == 0 {
			continue
		}
		change := StockChange{ItemType: line.ItemType, ItemId: line.ItemId, Qty: effective}
		if IsDeferredType(line.ItemType) {
			if !onHold {
				deferred = append(deferred, change)
			}
			continue
		}
		immediate = append(immediate, change)
	}
	return immediate, deferred
}

// AggregateChanges merges changes touching the same record so a multi-line
// order cannot pass validation line by line while the sum oversells.
func AggregateChanges(changes []StockChange) []StockChange {
	type key struct {
		itemType string
		itemId   uint
	}
	index := map[key]int{}
	var out []StockChange
	for _, ch := range changes {
		k := key{ch.ItemType, ch.ItemId}
		if i, ok := index[k]; ok {
			out[i].Qty += ch.Qty
			continue
		}
		index[k] = len(out)
		out = append(out, ch)
	}
	return out
}

func lockStockRecord(tx *gorm.DB, itemType string, itemId, branchId uint) (*model.StockRecord, error) {
	var record model.StockRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_type = ? AND item_id = ? AND branch_id = ?", itemType, itemId, branchId).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ValidateStock locks every record the changes touch and verifies that no
// deduction would drive qty negative. Nothing is mutated here.
func ValidateStock(tx *gorm.DB, branchId uint, changes []StockChange) ([]StockUpdate, error) {
	changes = AggregateChanges(changes)
	updates := make([]StockUpdate, 0, len(changes))
	for _, ch := range changes {
		if ch.Qty == 0 {
			continue
		}
		record, err := lockStockRecord(tx, ch.ItemType, ch.ItemId, branchId)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if ch.Qty > 0 {
				return nil, &InsufficientStockError{
					ItemType: ch.ItemType, ItemId: ch.ItemId, BranchId: branchId,
					Required: ch.Qty, Available: 0,
				}
			}
			// restoring into a missing record recreates it empty
			record = &model.StockRecord{ItemType: ch.ItemType, ItemId: ch.ItemId, BranchId: branchId, Qty: 0}
			if err := tx.Create(record).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		if ch.Qty > 0 && record.Qty < ch.Qty {
			return nil, &InsufficientStockError{
				ItemType: ch.ItemType, ItemId: ch.ItemId, BranchId: branchId,
				Required: ch.Qty, Available: record.Qty,
			}
		}
		updates = append(updates, StockUpdate{Record: record, Change: ch})
	}
	return updates, nil
}

// ApplyStockUpdates performs the planned mutations and appends one movement
// row per nonzero change. The movement sign mirrors the stock delta.
func ApplyStockUpdates(tx *gorm.DB, updates []StockUpdate, actorId uint, correlationId string) error {
	for _, u := range updates {
		if u.Change.Qty == 0 {
			continue
		}
		newQty := u.Record.Qty - u.Change.Qty
		if newQty < 0 {
			return &InsufficientStockError{
				ItemType: u.Change.ItemType, ItemId: u.Change.ItemId, BranchId: u.Record.BranchId,
				Required: u.Change.Qty, Available: u.Record.Qty,
			}
		}
		if err := tx.Model(u.Record).Update("qty", newQty).Error; err != nil {
			return err
		}
		u.Record.Qty = newQty

		action := constants.STOCK_REMOVE
		if u.Change.Qty < 0 {
			action = constants.STOCK_ADD
		}
		movement := model.StockMovement{
			ItemType:      u.Change.ItemType,
			ItemId:        u.Change.ItemId,
			BranchId:      u.Record.BranchId,
			Action:        action,
			QtyChanged:    -u.Change.Qty,
			CorrelationId: correlationId,
			CreatedById:   &actorId,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndApply is the one-shot path used for single adjustments.
func ValidateAndApply(tx *gorm.DB, branchId uint, changes []StockChange, actorId uint, correlationId string) error {
	updates, err := ValidateStock(tx, branchId, changes)
	if err != nil {
		return err
	}
	return ApplyStockUpdates(tx, updates, actorId, correlationId)
}

// TransferStock moves qty between two branches and records one TRANSFER
// movement naming both. Both records are locked before any check.
func TransferStock(tx *gorm.DB, in model.TransferStockInput, actorId uint, correlationId string) error {
	from, err := lockStockRecord(tx, in.ItemType, in.ItemId, in.FromBranchId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &InsufficientStockError{
				ItemType: in.ItemType, ItemId: in.ItemId, BranchId: in.FromBranchId,
				Required: in.Qty, Available: 0,
			}
		}
		return err
	}
	if from.Qty < in.Qty {
		return &InsufficientStockError{
			ItemType: in.ItemType, ItemId: in.ItemId, BranchId: in.FromBranchId,
			Required: in.Qty, Available: from.Qty,
		}
	}

	to, err := lockStockRecord(tx, in.ItemType, in.ItemId, in.ToBranchId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		to = &model.StockRecord{ItemType: in.ItemType, ItemId: in.ItemId, BranchId: in.ToBranchId, Qty: 0}
		if err := tx.Create(to).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := tx.Model(from).Update("qty", from.Qty-in.Qty).Error; err != nil {
		return err
	}
	if err := tx.Model(to).Update("qty", to.Qty+in.Qty).Error; err != nil {
		return err
	}

	movement := model.StockMovement{
		ItemType:      in.ItemType,
		ItemId:        in.ItemId,
		BranchId:      in.FromBranchId,
		Action:        constants.STOCK_TRANSFER,
		QtyChanged:    -in.Qty,
		TransferToId:  &in.ToBranchId,
		CorrelationId: correlationId,
		CreatedById:   &actorId,
		CreatedAt:     time.Now(),
	}
	return tx.Create(&movement).Error
}

// AdjustStock is the manual add/remove path. It creates the stock record on
// first ADD for a (item, branch) pair.
func AdjustStock(tx *gorm.DB, in model.AdjustStockInput, actorId uint, correlationId string) (*model.StockRecord, error) {
	record, err := lockStockRecord(tx, in.ItemType, in.ItemId, in.BranchId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if in.Action == constants.STOCK_REMOVE {
			return nil, &InsufficientStockError{
				ItemType: in.ItemType, ItemId: in.ItemId, BranchId: in.BranchId,
				Required: in.Qty, Available: 0,
			}
		}
		record = &model.StockRecord{
			ItemType: in.ItemType, ItemId: in.ItemId, BranchId: in.BranchId,
			Qty: 0, InitialCount: &in.Qty, Limit: in.Limit,
		}
		if err := tx.Create(record).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	delta := in.Qty
	if in.Action == constants.STOCK_REMOVE {
		delta = -in.Qty
	}
	if record.Qty+delta < 0 {
		return nil, &InsufficientStockError{
			ItemType: in.ItemType, ItemId: in.ItemId, BranchId: in.BranchId,
			Required: in.Qty, Available: record.Qty,
		}
	}

	if err := tx.Model(record).Update("qty", record.Qty+delta).Error; err != nil {
		return nil, err
	}
	record.Qty += delta

	if in.Limit != nil {
		if err := tx.Model(record).Update("limit", *in.Limit).Error; err != nil {
			return nil, err
		}
		record.Limit = in.Limit
	}

	movement := model.StockMovement{
		ItemType:      in.ItemType,
		ItemId:        in.ItemId,
		BranchId:      in.BranchId,
		Action:        in.Action,
		QtyChanged:    delta,
		CorrelationId: correlationId,
		CreatedById:   &actorId,
		CreatedAt:     time.Now(),
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}
	return record, nil
}
