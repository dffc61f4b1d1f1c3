package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis sets up the pub/sub client used for realtime notification
// delivery. Redis is optional: without REDIS_ADDR the server runs with the
// stream endpoint disabled.
func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, notification streaming disabled")
		return
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
}

// NotificationChannel is the pub/sub channel carrying one user's
// notification events.
func NotificationChannel(userID string) string {
	return "notifications:" + userID
}
