package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusOnTime  Status = "on-time"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

// AttendanceRecord is one unit of worked time. CheckOut is nil while the
// shift is open; Duration and CheckOut are fixed exactly once at clock-out.
// Status is computed at clock-in and never recomputed.
type AttendanceRecord struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID   uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index"`
	EmployeeName string         `gorm:"column:employee_name;type:varchar(150);not null"`
	WorkDate     time.Time      `gorm:"column:work_date;type:date;not null;index"`
	CheckIn      time.Time      `gorm:"column:check_in;type:timestamptz;not null"`
	CheckOut     *time.Time     `gorm:"column:check_out;type:timestamptz"`
	Duration     int64          `gorm:"column:duration;not null;default:0"`
	Status       Status         `gorm:"column:status;type:varchar(20);not null"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// ActiveSession is the ephemeral pointer to an employee's open record.
// StartTime always equals the open record's CheckIn.
type ActiveSession struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	StartTime    time.Time `json:"start_time"`
	LastPing     time.Time `json:"last_ping"`
	Status       string    `json:"status"` // active | idle
}
