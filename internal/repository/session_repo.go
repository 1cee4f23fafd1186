package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Session) error
	// FindActiveByCompany returns the single OPEN session of the company, or
	// gorm.ErrRecordNotFound. Pass tx when the check must share a transaction
	// with the subsequent insert (session start).
	FindActiveByCompany(ctx context.Context, tx *gorm.DB, companyID uint) (*model.Session, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID, companyID uint) (*model.Session, error)
	// Save persists the mutable session fields with a compare-and-swap on Version.
	Save(ctx context.Context, tx *gorm.DB, s *model.Session) error
	List(ctx context.Context, companyID uint, page, limit int) ([]model.Session, int64, error)
	DB() *gorm.DB
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) DB() *gorm.DB { return r.db }

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Session) error {
	return r.conn(tx).WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindActiveByCompany(ctx context.Context, tx *gorm.DB, companyID uint) (*model.Session, error) {
	var s model.Session
	err := r.conn(tx).WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, model.SessionOpen).
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) FindByPublicID(ctx context.Context, publicID uuid.UUID, companyID uint) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).Preload("Closing").
		Where("public_id = ? AND company_id = ?", publicID, companyID).
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) Save(ctx context.Context, tx *gorm.DB, s *model.Session) error {
	res := r.conn(tx).WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]interface{}{
			"status":     s.Status,
			"closed_by":  s.ClosedBy,
			"ended_at":   s.EndedAt,
			"notes":      s.Notes,
			"updated_by": s.UpdatedBy,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.Conflict("session was modified concurrently, reload and retry")
	}
	s.Version++
	return nil
}

func (r *sessionRepo) List(ctx context.Context, companyID uint, page, limit int) ([]model.Session, int64, error) {
	var sessions []model.Session
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.Session{}).Where("company_id = ?", companyID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Closing").
		Order("started_at DESC").
		Offset(offset).Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *sessionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
