package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

// ClosingRepository is append-only by construction: Closings are created once
// at session close and never updated or deleted — the interface simply does
// not offer those operations.
type ClosingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Closing) error
	FindBySession(ctx context.Context, sessionID uint) (*model.Closing, error)
}

type closingRepo struct{ db *gorm.DB }

func NewClosingRepository(db *gorm.DB) ClosingRepository { return &closingRepo{db: db} }

func (r *closingRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Closing) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Create(c).Error
}

func (r *closingRepo) FindBySession(ctx context.Context, sessionID uint) (*model.Closing, error) {
	var c model.Closing
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&c).Error
	return &c, err
}
