package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

type EmployeeRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Employee, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*model.Employee, error)
}

type employeeRepo struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository { return &employeeRepo{db: db} }

func (r *employeeRepo) FindByUsername(ctx context.Context, username string) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).Preload("Company").
		Where("username = ?", username).First(&e).Error
	return &e, err
}

func (r *employeeRepo) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).Preload("Company").
		Where("public_id = ?", publicID).First(&e).Error
	return &e, err
}
