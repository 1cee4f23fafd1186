package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditFields is embedded in every mutable entity. Version backs optimistic
// concurrency: repositories save with a compare-and-swap on Version and fail
// with a conflict when the persisted counter has moved on. DeletedAt makes
// deletes soft — rows stay for audit/history, gorm excludes them from queries.
type AuditFields struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID     `gorm:"type:uuid"`
	Version   uint           `gorm:"not null;default:1"`
}

// Touch records the acting user on a mutation. The version counter itself is
// advanced atomically by the repository save, not here, so that the loaded
// Version stays usable as the compare-and-swap expectation.
func (a *AuditFields) Touch(actor uuid.UUID) {
	a.UpdatedBy = &actor
}
