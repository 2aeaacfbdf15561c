package handler

import (
	"context"
	"strconv"
	"sync"

	"optic_manager/database"
	"optic_manager/helper"
	"optic_manager/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"

	"optic_manager/config"
)

var (
	redisClient = redis.NewClient(&redis.Options{Addr: config.Config("REDIS_ADDR")})

	stockClients = make(map[uint]map[*websocket.Conn]bool)
	stockMu      sync.Mutex
)

// StockBoardConnection streams a branch's stock rows to a terminal: the
// current state on connect, then every update published on the branch
// channel.
func StockBoardConnection(c *websocket.Conn) {
	branchIdStr := c.Params("branchId")
	id64, _ := strconv.ParseUint(branchIdStr, 10, 64)
	branchId := uint(id64)

	defer func() {
		stockMu.Lock()
		if stockClients[branchId] != nil {
			delete(stockClients[branchId], c)
			if len(stockClients[branchId]) == 0 {
				delete(stockClients, branchId)
			}
		}
		stockMu.Unlock()
		c.Close()
	}()

	stockMu.Lock()
	if stockClients[branchId] == nil {
		stockClients[branchId] = make(map[*websocket.Conn]bool)
	}
	stockClients[branchId][c] = true
	stockMu.Unlock()

	// initial snapshot
	var records []model.StockRecord
	database.DB.Where("branch_id = ?", branchId).
		Order("item_type ASC, item_id ASC").
		Find(&records)
	c.WriteJSON(records)

	pubsub := redisClient.Subscribe(
		context.Background(),
		helper.StockChannel(branchId),
	)
	defer pubsub.Close()

	channel := pubsub.Channel()

	for msg := range channel {
		payload := []byte(msg.Payload)

		stockMu.Lock()
		for conn := range stockClients[branchId] {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(stockClients[branchId], conn)
			}
		}
		stockMu.Unlock()
	}
}
