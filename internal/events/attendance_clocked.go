package events

import "time"

const AttendanceLifecycleTopic = "workforce.attendance.lifecycle.v1"

const (
	EventTypeClockedIn  = "attendance.clocked_in"
	EventTypeClockedOut = "attendance.clocked_out"
)

type AttendanceClockedEvent struct {
	EventType  string    `json:"event_type"`
	RecordID   string    `json:"record_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	Duration   int64     `json:"duration,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
