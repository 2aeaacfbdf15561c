package helper

import (
	"log"
	"time"

	"optic_manager/database"
	"optic_manager/model"

	"github.com/go-co-op/gocron/v2"
)

var hearingScheduler gocron.Scheduler

// FlagHearingServiceDue scans sold hearing aids whose next service date has
// arrived and logs each for the branch to follow up with the customer.
func FlagHearingServiceDue() {
	log.Println("[CRON] FlagHearingServiceDue triggered")

	db := database.DB
	today := time.Now().Truncate(24 * time.Hour)

	var items []model.OrderItem
	err := db.Scopes(model.Active).
		Where("hearing_item_id IS NOT NULL AND next_service_date IS NOT NULL AND next_service_date <= ?", today).
		Find(&items).Error
	if err != nil {
		log.Printf("Hearing service sweep failed: %v", err)
		return
	}

	for _, item := range items {
		var order model.Order
		if err := db.First(&order, item.OrderId).Error; err != nil {
			continue
		}
		serial := ""
		if item.SerialNumber != nil {
			serial = *item.SerialNumber
		}
		log.Printf("Hearing aid due for service: invoice %s, item %d, serial %q, due %s",
			order.InvoiceNumber, item.ID, serial, item.NextServiceDate.Time.Format("2006-01-02"))
	}

	if len(items) > 0 {
		log.Printf("Hearing service sweep flagged %d items", len(items))
	}
}

func StartHearingServiceScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	hearingScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(7, 30, 0),
			),
		),
		gocron.NewTask(FlagHearingServiceDue),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Hearing service scheduler started (07:30 daily)")
}
