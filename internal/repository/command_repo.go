package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

type CommandRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Command) error
	FindByPublicID(ctx context.Context, publicID uuid.UUID, companyID uint) (*model.Command, error)
	FindByID(ctx context.Context, id uint, companyID uint) (*model.Command, error)
	// Save persists the mutable fields with a compare-and-swap on Version.
	// Returns a conflict error when the persisted version has moved on.
	Save(ctx context.Context, tx *gorm.DB, c *model.Command) error
	ListByStatus(ctx context.Context, companyID uint, statusKey model.StatusKey, page, limit int) ([]model.Command, int64, error)
	SoftDelete(ctx context.Context, c *model.Command) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type commandRepo struct{ db *gorm.DB }

func NewCommandRepository(db *gorm.DB) CommandRepository { return &commandRepo{db: db} }

func (r *commandRepo) DB() *gorm.DB { return r.db }

func (r *commandRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Command) error {
	return r.conn(tx).WithContext(ctx).Create(c).Error
}

func (r *commandRepo) FindByPublicID(ctx context.Context, publicID uuid.UUID, companyID uint) (*model.Command, error) {
	var c model.Command
	err := r.db.WithContext(ctx).
		Preload("Status").Preload("Table").Preload("Company").
		Where("public_id = ? AND company_id = ?", publicID, companyID).
		First(&c).Error
	return &c, err
}

func (r *commandRepo) FindByID(ctx context.Context, id uint, companyID uint) (*model.Command, error) {
	var c model.Command
	err := r.db.WithContext(ctx).
		Preload("Status").Preload("Table").Preload("Company").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&c).Error
	return &c, err
}

func (r *commandRepo) Save(ctx context.Context, tx *gorm.DB, c *model.Command) error {
	res := r.conn(tx).WithContext(ctx).Model(&model.Command{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Updates(map[string]interface{}{
			"name":            c.Name,
			"table_id":        c.TableID,
			"people_count":    c.PeopleCount,
			"total_amount":    c.TotalAmount,
			"discount_amount": c.DiscountAmount,
			"discount_reason": c.DiscountReason,
			"status_id":       c.StatusID,
			"cancel_reason":   c.CancelReason,
			"canceled_by":     c.CanceledBy,
			"updated_by":      c.UpdatedBy,
			"version":         gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.Conflict("command was modified concurrently, reload and retry")
	}
	c.Version++
	return nil
}

func (r *commandRepo) ListByStatus(ctx context.Context, companyID uint, statusKey model.StatusKey, page, limit int) ([]model.Command, int64, error) {
	var commands []model.Command
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.Command{}).
		Joins("JOIN command_statuses ON command_statuses.id = commands.status_id").
		Where("commands.company_id = ?", companyID)
	if statusKey != "" {
		q = q.Where("command_statuses.key = ?", statusKey)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Status").Preload("Table").
		Order("commands.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&commands).Error
	return commands, total, err
}

func (r *commandRepo) SoftDelete(ctx context.Context, c *model.Command) error {
	return r.db.WithContext(ctx).Delete(c).Error
}

func (r *commandRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
