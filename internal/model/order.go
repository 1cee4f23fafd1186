package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status keys. One row per ordered unit: quantity on a bill comes from
// counting rows, not from a quantity column.
const (
	OrderOpen     = "OPEN"
	OrderClosed   = "CLOSED"
	OrderCanceled = "CANCELED"
)

// Order is one ordered unit of a product on a command. BasePriceAtOrder is
// captured when the order is placed and deliberately decoupled from the
// product's current price — historical bills stay stable when prices change.
type Order struct {
	ID               uint      `gorm:"primaryKey"`
	PublicID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	CommandID        uint      `gorm:"index;not null"`
	ProductID        uint      `gorm:"index;not null"`
	BasePriceAtOrder *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status           string           `gorm:"type:varchar(20);not null;default:'OPEN'"`
	AuditFields

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Terminal reports whether the order can no longer change (closed or
// canceled). Only terminal orders may appear under a CLOSED command.
func (o *Order) Terminal() bool {
	return o.Status == OrderClosed || o.Status == OrderCanceled
}
