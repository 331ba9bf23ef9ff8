package events

import "time"

const EntryCompletedTopic = "time.entry.lifecycle.v1"

type EntryCompletedEvent struct {
	EventType  string    `json:"event_type"`
	EntryID    string    `json:"entry_id"`
	UserID     string    `json:"user_id"`
	TenantID   string    `json:"tenant_id"`
	EntryDate  string    `json:"entry_date"`
	TotalHours float64   `json:"total_hours"`
	OccurredAt time.Time `json:"occurred_at"`
}
