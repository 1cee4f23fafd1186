package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status keys.
const (
	SessionOpen   = "OPEN"
	SessionClosed = "CLOSED"
)

// Session is a cash-register shift. At most one OPEN session may exist per
// company at any instant — the service enforces the check and the insert
// inside one transaction so concurrent opens cannot race past each other.
type Session struct {
	ID           uint      `gorm:"primaryKey"`
	PublicID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	CompanyID    uint      `gorm:"index;not null"`
	EmployeeID   uint      `gorm:"index;not null"`
	OpenedBy     uuid.UUID `gorm:"type:uuid;not null"`
	ClosedBy     *uuid.UUID      `gorm:"type:uuid"`
	OpeningValue decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'OPEN'"`
	StartedAt    time.Time       `gorm:"not null"`
	EndedAt      *time.Time
	Notes        *string
	AuditFields

	Company  *Company  `gorm:"foreignKey:CompanyID"`
	Employee *Employee `gorm:"foreignKey:EmployeeID"`
	Closing  *Closing  `gorm:"foreignKey:SessionID"`
}

// Closing is the immutable end-of-session reconciliation record: created
// exactly once when the session closes, never updated or deleted afterwards.
// FinalBalanceDifference is signed — positive is surplus, negative shortage.
type Closing struct {
	ID                     uint      `gorm:"primaryKey"`
	PublicID               uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	SessionID              uint      `gorm:"uniqueIndex;not null"`
	EmployeeID             uint      `gorm:"index;not null"`
	CountedCash            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CountedCard            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CountedPix             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CountedOthers          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalBalance           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalBalanceExpected   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalBalanceDifference decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observations           *string
	CreatedAt              time.Time
	CreatedBy              *uuid.UUID `gorm:"type:uuid"`
}
