package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the menu catalog entry. Price is the CURRENT price — orders
// capture their own copy at placement so historical bills never move.
type Product struct {
	ID          uint      `gorm:"primaryKey"`
	PublicID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CompanyID   uint            `gorm:"index;not null"`
	Active      bool            `gorm:"not null;default:true"`
	AuditFields
}
