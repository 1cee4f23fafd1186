package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

type OrderRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, orders []model.Order) error
	ListByCommand(ctx context.Context, commandID uint) ([]model.Order, error)
	// AllTerminal reports whether every order of the command is CLOSED or CANCELED.
	AllTerminal(ctx context.Context, commandID uint) (bool, error)
	// CloseAll force-closes every non-terminal order of the command. Idempotent
	// on already-closed orders; runs inside the caller's transaction.
	CloseAll(ctx context.Context, tx *gorm.DB, commandID uint, actor uuid.UUID) error
	// UpdateStatus flips the order's status under optimistic locking; a stale
	// Version yields a conflict.
	UpdateStatus(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*model.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateBatch(ctx context.Context, tx *gorm.DB, orders []model.Order) error {
	return r.conn(tx).WithContext(ctx).Create(&orders).Error
}

func (r *orderRepo) ListByCommand(ctx context.Context, commandID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("command_id = ?", commandID).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) AllTerminal(ctx context.Context, commandID uint) (bool, error) {
	var open int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("command_id = ? AND status = ?", commandID, model.OrderOpen).
		Count(&open).Error
	return open == 0, err
}

func (r *orderRepo) CloseAll(ctx context.Context, tx *gorm.DB, commandID uint, actor uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("command_id = ? AND status = ?", commandID, model.OrderOpen).
		Updates(map[string]interface{}{
			"status":     model.OrderClosed,
			"updated_by": actor,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		}).Error
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	res := r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"status":     o.Status,
			"updated_by": o.UpdatedBy,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.Conflict("order was modified concurrently, reload and retry")
	}
	o.Version++
	return nil
}

func (r *orderRepo) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Product").
		Where("public_id = ?", publicID).First(&o).Error
	return &o, err
}

func (r *orderRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
