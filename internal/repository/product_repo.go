package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

type ProductRepository interface {
	FindByPublicID(ctx context.Context, publicID uuid.UUID, companyID uint) (*model.Product, error)
	ListByCompany(ctx context.Context, companyID uint, activeOnly bool) ([]model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByPublicID(ctx context.Context, publicID uuid.UUID, companyID uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("public_id = ? AND company_id = ?", publicID, companyID).
		First(&p).Error
	return &p, err
}

func (r *productRepo) ListByCompany(ctx context.Context, companyID uint, activeOnly bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if activeOnly {
		q = q.Where("active = true")
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}
