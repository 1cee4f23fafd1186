package model

import "github.com/google/uuid"

// Employee stores venue staff with role-based access.
// Role: "waiter" | "supervisor" | "admin"
type Employee struct {
	ID           uint      `gorm:"primaryKey"`
	PublicID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	CompanyID    uint   `gorm:"index;not null"`
	Active       bool   `gorm:"not null;default:true"`
	AuditFields

	Company *Company `gorm:"foreignKey:CompanyID"`
}
