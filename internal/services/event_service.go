package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/socialsync-api/internal/auth"
	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/database"
	"github.com/isdelr/socialsync-api/internal/models"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	ListEvents(ctx context.Context, userID string) ([]models.Event, error)
	ListEventsBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Event, error)
	GetEvent(ctx context.Context, userID, eventID string) (models.Event, error)
	CreateEvent(ctx context.Context, userID string, in models.EventInput) (models.Event, error)
	UpdateEvent(ctx context.Context, userID, eventID string, in models.EventInput) (models.Event, error)
	DeleteEvent(ctx context.Context, userID, eventID string) (models.Event, error)
}

// EventService provides owner-scoped event management.
type EventService struct {
	db       *database.DB
	notifier Notifier
}

// NewEventService creates a new EventService.
func NewEventService(db *database.DB, notifier Notifier) *EventService {
	return &EventService{db: db, notifier: orNop(notifier)}
}

const eventColumns = `id, user_id, title, description, event_date, location, category, custom_label, image_url, created_at`

// ListEvents retrieves all events owned by a user, earliest first.
func (s *EventService) ListEvents(ctx context.Context, userID string) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = ? ORDER BY event_date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return s.scanEvents(rows)
}

// ListEventsBetween retrieves a user's events with from <= event_date < to.
func (s *EventService) ListEventsBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		WHERE user_id = ? AND event_date >= ? AND event_date < ?
		ORDER BY event_date ASC`,
		userID, from.UTC().Truncate(time.Second), to.UTC().Truncate(time.Second))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return s.scanEvents(rows)
}

// GetEvent returns an event if userID owns it.
func (s *EventService) GetEvent(ctx context.Context, userID, eventID string) (models.Event, error) {
	event, err := s.getEventByID(ctx, eventID)
	return auth.AuthorizeAccess(userID, event, err)
}

// CreateEvent validates the input and stores a new event owned by userID.
func (s *EventService) CreateEvent(ctx context.Context, userID string, in models.EventInput) (models.Event, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" ||
		in.EventDate == nil || strings.TrimSpace(*in.EventDate) == "" ||
		in.Category == nil || strings.TrimSpace(*in.Category) == "" {
		return models.Event{}, fmt.Errorf("%w: Title, event_date, and category are required", common.ErrValidation)
	}

	eventDate, err := ParseDate("event_date", *in.EventDate)
	if err != nil {
		return models.Event{}, err
	}
	category := strings.ToUpper(strings.TrimSpace(*in.Category))
	if !models.IsValidCategory(category) {
		return models.Event{}, fmt.Errorf("%w: unknown category %q", common.ErrValidation, category)
	}

	event := models.Event{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(*in.Title),
		Description: in.Description,
		EventDate:   eventDate,
		Location:    in.Location,
		Category:    category,
		CustomLabel: in.CustomLabel,
		ImageURL:    nonEmpty(in.ImageURL),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, user_id, title, description, event_date, location, category, custom_label, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Title, event.Description, event.EventDate,
		event.Location, event.Category, event.CustomLabel, event.ImageURL)
	if err != nil {
		return models.Event{}, fmt.Errorf("db error: %w", err)
	}

	created, err := s.getEventByID(ctx, event.ID)
	if err != nil {
		return models.Event{}, err
	}
	s.notifier.NotifyUser(userID, "event.created", created)
	return created, nil
}

// UpdateEvent applies a partial update to an event owned by userID.
func (s *EventService) UpdateEvent(ctx context.Context, userID, eventID string, in models.EventInput) (models.Event, error) {
	event, err := s.GetEvent(ctx, userID, eventID)
	if err != nil {
		return models.Event{}, err
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		event.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		event.Description = in.Description
	}
	if in.EventDate != nil && strings.TrimSpace(*in.EventDate) != "" {
		if event.EventDate, err = ParseDate("event_date", *in.EventDate); err != nil {
			return models.Event{}, err
		}
	}
	if in.Location != nil {
		event.Location = in.Location
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		category := strings.ToUpper(strings.TrimSpace(*in.Category))
		if !models.IsValidCategory(category) {
			return models.Event{}, fmt.Errorf("%w: unknown category %q", common.ErrValidation, category)
		}
		event.Category = category
	}
	if in.CustomLabel != nil {
		event.CustomLabel = in.CustomLabel
	}
	if in.ImageURL != nil {
		event.ImageURL = nonEmpty(in.ImageURL)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE events
		SET title = ?, description = ?, event_date = ?, location = ?, category = ?, custom_label = ?, image_url = ?
		WHERE id = ? AND user_id = ?`,
		event.Title, event.Description, event.EventDate.UTC(), event.Location, event.Category,
		event.CustomLabel, event.ImageURL, eventID, userID)
	if err != nil {
		return models.Event{}, fmt.Errorf("db error: %w", err)
	}

	updated, err := s.GetEvent(ctx, userID, eventID)
	if err != nil {
		return models.Event{}, err
	}
	s.notifier.NotifyUser(userID, "event.updated", updated)
	return updated, nil
}

// DeleteEvent removes an event owned by userID and returns it. Tasks linked
// to the event are unlinked by the foreign key.
func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID string) (models.Event, error) {
	event, err := s.GetEvent(ctx, userID, eventID)
	if err != nil {
		return models.Event{}, err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ? AND user_id = ?", eventID, userID); err != nil {
		return models.Event{}, fmt.Errorf("db error: %w", err)
	}

	s.notifier.NotifyUser(userID, "event.deleted", event)
	return event, nil
}

// getEventByID fetches an event regardless of owner. Callers must run the
// result through auth.AuthorizeAccess.
func (s *EventService) getEventByID(ctx context.Context, eventID string) (models.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	return s.scanEvent(row)
}

// scanEvents is a helper function to scan multiple rows into a slice of Events.
func (s *EventService) scanEvents(rows *sql.Rows) ([]models.Event, error) {
	events := []models.Event{}
	for rows.Next() {
		event, err := s.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return events, nil
}

// scanEvent is a helper function to scan a single row into an Event struct.
func (s *EventService) scanEvent(scanner interface{ Scan(...interface{}) error }) (models.Event, error) {
	var event models.Event
	err := scanner.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&event.Description,
		&event.EventDate,
		&event.Location,
		&event.Category,
		&event.CustomLabel,
		&event.ImageURL,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, fmt.Errorf("event: %w", common.ErrNotFound)
		}
		return models.Event{}, fmt.Errorf("db error: %w", err)
	}
	event.EventDate = event.EventDate.UTC()
	return event, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
