package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName    string    `gorm:"not null"`
	Email       string    `gorm:"uniqueIndex:uq_employee_email"`
	Role        string    `gorm:"not null;default:staff"`
	Department  string
	Avatar      string
	BadgeNumber string `gorm:"uniqueIndex:uq_employee_badge"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
