package events

import "time"

const ReportRequestedTopic = "workforce.report.requested.v1"

type ReportRequestedEvent struct {
	EventType   string    `json:"event_type"`
	ReportID    string    `json:"report_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
