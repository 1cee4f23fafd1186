package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

const statusCacheTTL = time.Hour

type StatusRepository interface {
	FindByKey(ctx context.Context, key model.StatusKey) (*model.CommandStatus, error)
}

// statusRepo resolves machine keys to persisted reference rows. Statuses are
// immutable reference data, so lookups go through a Redis cache; rdb may be
// nil (unit tests), in which case every lookup hits the database.
type statusRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewStatusRepository(db *gorm.DB, rdb *redis.Client) StatusRepository {
	return &statusRepo{db: db, rdb: rdb}
}

func (r *statusRepo) FindByKey(ctx context.Context, key model.StatusKey) (*model.CommandStatus, error) {
	cacheKey := "command_status:" + string(key)

	if r.rdb != nil {
		if raw, err := r.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var s model.CommandStatus
			if json.Unmarshal([]byte(raw), &s) == nil {
				return &s, nil
			}
		}
	}

	var s model.CommandStatus
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if raw, err := json.Marshal(&s); err == nil {
			// Best effort — a cache write failure never fails the lookup.
			_ = r.rdb.Set(ctx, cacheKey, raw, statusCacheTTL).Err()
		}
	}
	return &s, nil
}
