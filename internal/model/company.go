package model

import "github.com/google/uuid"

// Company is the tenant. Every command, table and session belongs to exactly
// one company; cross-company references are rejected at the service layer.
type Company struct {
	ID       uint      `gorm:"primaryKey"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	Name     string    `gorm:"not null"`
	AuditFields
}

// Table is a physical table on the venue floor.
type Table struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Number    int       `gorm:"not null"`
	CompanyID uint      `gorm:"index;not null"`
	AuditFields

	Company *Company `gorm:"foreignKey:CompanyID"`
}

// TableName avoids the reserved word "tables".
func (Table) TableName() string { return "venue_tables" }
