package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

type TableRepository interface {
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*model.Table, error)
	FindByID(ctx context.Context, id uint) (*model.Table, error)
	ListByCompany(ctx context.Context, companyID uint) ([]model.Table, error)
}

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&t).Error
	return &t, err
}

func (r *tableRepo) FindByID(ctx context.Context, id uint) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tableRepo) ListByCompany(ctx context.Context, companyID uint) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("number ASC").
		Find(&tables).Error
	return tables, err
}
