package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Command is a customer tab: bound to one table and one company for its whole
// life, accumulating orders until it is closed or canceled. TotalAmount is
// the stored bill total; when present it must reconcile exactly against the
// aggregated order totals (see service.BillService).
type Command struct {
	ID              uint      `gorm:"primaryKey"`
	PublicID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	Name            string    `gorm:"not null"`
	TableID         uint      `gorm:"index;not null"`
	EmployeeID      uint      `gorm:"index;not null"`
	PeopleCount     int       `gorm:"not null;default:1"`
	TotalAmount     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiscountAmount  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiscountReason  *string
	StatusID        uint       `gorm:"index;not null"`
	CancelReason    *string
	CanceledBy      *uuid.UUID `gorm:"type:uuid"`
	CompanyID       uint       `gorm:"index;not null"`
	AuditFields

	Table    *Table         `gorm:"foreignKey:TableID"`
	Employee *Employee      `gorm:"foreignKey:EmployeeID"`
	Status   *CommandStatus `gorm:"foreignKey:StatusID"`
	Company  *Company       `gorm:"foreignKey:CompanyID"`
	Orders   []Order        `gorm:"foreignKey:CommandID"`
}

// StatusKey returns the machine key of the loaded status relation, or ""
// when the relation was not preloaded.
func (c *Command) StatusKey() StatusKey {
	if c.Status == nil {
		return ""
	}
	return c.Status.Key
}
