package models

import "time"

// Agenda filters.
const (
	AgendaToday = "TODAY"
	AgendaWeek  = "WEEK"
	AgendaAll   = "ALL"
)

// AgendaItem is an event or task flattened for calendar display.
type AgendaItem struct {
	ID       string    `json:"id"`   // "event-<id>" or "task-<id>"
	Type     string    `json:"type"` // "event" or "task"
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay"`
	Category string    `json:"category,omitempty"`
	Status   string    `json:"status,omitempty"`
}
