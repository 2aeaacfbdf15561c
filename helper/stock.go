package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"optic_manager/config"
	"optic_manager/database"
	"optic_manager/model"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

var stockScheduler *cron.Cron

var stockRedis = redis.NewClient(&redis.Options{Addr: config.Config("REDIS_ADDR")})

// StockChannel is the pub/sub channel the branch stock board listens on.
func StockChannel(branchId uint) string {
	return fmt.Sprintf("stock:branch:%d", branchId)
}

// PublishStockUpdate pushes the current rows for a branch onto its channel
// so every connected terminal sees the new quantities.
func PublishStockUpdate(branchId uint, records []model.StockRecord) {
	payload, err := json.Marshal(records)
	if err != nil {
		log.Printf("Cannot marshal stock payload for branch %d: %v", branchId, err)
		return
	}
	if err := stockRedis.Publish(context.Background(), StockChannel(branchId), payload).Err(); err != nil {
		log.Printf("Cannot publish stock update for branch %d: %v", branchId, err)
	}
}

type lowStockAlert struct {
	BranchId uint   `json:"branchId"`
	ItemType string `json:"itemType"`
	ItemId   uint   `json:"itemId"`
	Qty      int    `json:"qty"`
	Limit    int    `json:"limit"`
}

func sweepLowStock() {
	db := database.DB

	var records []model.StockRecord
	if err := db.Where(`"limit" IS NOT NULL AND qty <= "limit"`).Find(&records).Error; err != nil {
		log.Printf("Low stock sweep failed: %v", err)
		return
	}
	if len(records) == 0 {
		return
	}

	byBranch := make(map[uint][]lowStockAlert)
	for _, r := range records {
		limit := 0
		if r.Limit != nil {
			limit = *r.Limit
		}
		byBranch[r.BranchId] = append(byBranch[r.BranchId], lowStockAlert{
			BranchId: r.BranchId,
			ItemType: r.ItemType,
			ItemId:   r.ItemId,
			Qty:      r.Qty,
			Limit:    limit,
		})
	}

	for branchId, alerts := range byBranch {
		payload, err := json.Marshal(map[string]interface{}{"lowStock": alerts})
		if err != nil {
			continue
		}
		if err := stockRedis.Publish(context.Background(), StockChannel(branchId), payload).Err(); err != nil {
			log.Printf("Cannot publish low stock alert for branch %d: %v", branchId, err)
		}
	}
	log.Printf("Low stock sweep flagged %d records", len(records))
}

func StartStockScheduler() {
	stockScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := stockScheduler.AddFunc("*/15 * * * *", sweepLowStock)
	if err != nil {
		log.Printf("Cannot start stock scheduler: %v", err)
		return
	}

	stockScheduler.Start()
	log.Println("Low stock scheduler started (every 15 minutes)")
}

func StopStockScheduler() {
	if stockScheduler != nil {
		stockScheduler.Stop()
		log.Println("Low stock scheduler stopped")
	}
}
