package models

import "time"

// Task statuses.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// Task is a to-do item owned by a single user, optionally linked to one of
// that user's events.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TaskName    string    `json:"task_name"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      string    `json:"status"`
	EventID     *string   `json:"event_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnerID implements auth.Owned.
func (t Task) OwnerID() string { return t.UserID }

// TaskInput carries client-supplied task fields for create and partial update.
type TaskInput struct {
	TaskName    *string `json:"task_name"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	EventID     *string `json:"event_id"`
}
