package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"optic_manager/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Branch-scoped sequence numbers are derived from the most recent issued
// number rather than a counter table: the latest row is read under FOR
// UPDATE so two concurrent callers for the same branch serialize and never
// see the same predecessor. An unparsable predecessor falls back to 1 with
// a log line; numbering must never block order creation.

// trailingNumber extracts the trailing digit run of s.
func trailingNumber(s string) (int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return 0, false
	}
	n := 0
	for _, ch := range s[i:] {
		n = n*10 + int(ch-'0')
	}
	return n, true
}

func nextCounter(last string) int {
	n, ok := trailingNumber(last)
	if !ok {
		log.Printf("sequence: cannot parse suffix of %q, restarting at 1", last)
		return 1
	}
	return n + 1
}

func formatNormalInvoice(prefix string, counter int) string {
	return fmt.Sprintf("%sN%03d", prefix, counter)
}

func formatFactoryInvoice(prefix string, day int, counter int) string {
	return fmt.Sprintf("%s%02d%d", prefix, day, counter)
}

func formatMntNumber(prefix string, counter int) string {
	return fmt.Sprintf("MNT%s%03d", prefix, counter)
}

func formatRefractionNumber(counter int) string {
	return fmt.Sprintf("%03d", counter)
}

// factoryCounter recovers the daily counter from a factory invoice number,
// which has no separator between the day part and the counter.
func factoryCounter(num, prefix string, day int) (int, bool) {
	head := fmt.Sprintf("%s%02d", prefix, day)
	if !strings.HasPrefix(num, head) || len(num) == len(head) {
		return 0, false
	}
	return trailingNumber(num[len(head):])
}

// NextInvoiceNumber issues the next invoice number for a branch inside the
// caller's transaction. Factory invoices restart their counter every day.
func NextInvoiceNumber(tx *gorm.DB, branch *model.Branch, factory bool, now time.Time) (string, error) {
	var last model.Order
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("branch_id = ? AND is_factory = ?", branch.ID, factory)
	if factory {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		q = q.Where("created_at >= ?", dayStart)
	}

	err := q.Order("id desc").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if factory {
			return formatFactoryInvoice(branch.Code, now.Day(), 1), nil
		}
		return formatNormalInvoice(branch.Code, 1), nil
	}
	if err != nil {
		return "", err
	}

	if factory {
		counter, ok := factoryCounter(last.InvoiceNumber, branch.Code, now.Day())
		if !ok {
			log.Printf("sequence: cannot parse factory invoice %q, restarting at 1", last.InvoiceNumber)
			counter = 0
		}
		return formatFactoryInvoice(branch.Code, now.Day(), counter+1), nil
	}
	return formatNormalInvoice(branch.Code, nextCounter(last.InvoiceNumber)), nil
}

// NextMntNumber issues the next MNT ticket number for a branch.
func NextMntNumber(tx *gorm.DB, branch *model.Branch) (string, error) {
	var last model.MntRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("branch_id = ?", branch.ID).
		Order("id desc").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return formatMntNumber(branch.Code, 1), nil
	}
	if err != nil {
		return "", err
	}
	return formatMntNumber(branch.Code, nextCounter(last.Number)), nil
}

// NextRefractionNumber issues the next refraction number for a branch.
func NextRefractionNumber(tx *gorm.DB, branchId uint) (string, error) {
	var last model.RefractionSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("branch_id = ?", branchId).
		Order("id desc").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return formatRefractionNumber(1), nil
	}
	if err != nil {
		return "", err
	}
	return formatRefractionNumber(nextCounter(last.Number)), nil
}
