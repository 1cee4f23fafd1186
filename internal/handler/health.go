package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// Health reports liveness of the process and its two backing stores.
// Never exposes connection strings or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{"postgres": "up", "redis": "up"}

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			checks["postgres"] = "down"
		}
		if rdb.Ping(ctx).Err() != nil {
			checks["redis"] = "down"
		}

		status := http.StatusOK
		overall := "ok"
		for _, v := range checks {
			if v != "up" {
				status = http.StatusServiceUnavailable
				overall = "degraded"
			}
		}

		c.JSON(status, gin.H{
			"status":         overall,
			"checks":         checks,
			"uptime_seconds": int(time.Since(startedAt).Seconds()),
		})
	}
}
