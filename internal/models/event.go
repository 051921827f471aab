package models

import "time"

// Event categories understood by the frontend.
const (
	CategoryBirthday     = "BIRTHDAY"
	CategoryWedding      = "WEDDING"
	CategoryAnniversary  = "ANNIVERSARY"
	CategoryDinner       = "DINNER"
	CategoryCheckIn      = "CHECKIN"
	CategoryGiftReminder = "GIFT_REMINDER"
	CategoryOther        = "OTHER"
)

// Categories lists every valid event category.
var Categories = []string{
	CategoryBirthday,
	CategoryWedding,
	CategoryAnniversary,
	CategoryDinner,
	CategoryCheckIn,
	CategoryGiftReminder,
	CategoryOther,
}

// Event is a calendar entry owned by a single user.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventDate   time.Time `json:"event_date"`
	Location    *string   `json:"location"`
	Category    string    `json:"category"`
	CustomLabel *string   `json:"customLabel"`
	ImageURL    *string   `json:"imageUrl"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnerID implements auth.Owned.
func (e Event) OwnerID() string { return e.UserID }

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// EventInput carries client-supplied event fields. Nil pointers mean
// "not provided" so updates can be partial.
type EventInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"event_date"`
	Location    *string `json:"location"`
	Category    *string `json:"category"`
	CustomLabel *string `json:"customLabel"`
	ImageURL    *string `json:"imageUrl"`
}
