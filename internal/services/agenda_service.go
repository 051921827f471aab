package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/models"
)

// AgendaServiceProvider defines the interface for agenda services.
type AgendaServiceProvider interface {
	Agenda(ctx context.Context, userID, filter string) ([]models.AgendaItem, error)
	Calendar(ctx context.Context, userID string, from, to time.Time) ([]models.AgendaItem, error)
}

// AgendaService merges a user's events and tasks into a single timeline.
type AgendaService struct {
	events EventServiceProvider
	tasks  TaskServiceProvider
	now    func() time.Time
	loc    *time.Location
}

// NewAgendaService creates a new AgendaService. Day boundaries are taken in
// the server's local time zone.
func NewAgendaService(events EventServiceProvider, tasks TaskServiceProvider) *AgendaService {
	return &AgendaService{events: events, tasks: tasks, now: time.Now, loc: time.Local}
}

// Agenda returns upcoming items for filter TODAY, WEEK or ALL. An empty
// filter means TODAY.
func (s *AgendaService) Agenda(ctx context.Context, userID, filter string) ([]models.AgendaItem, error) {
	filter = strings.ToUpper(strings.TrimSpace(filter))
	if filter == "" {
		filter = models.AgendaToday
	}

	now := s.now().In(s.loc)
	var keep func(time.Time) bool
	switch filter {
	case models.AgendaToday:
		y, m, d := now.Date()
		keep = func(t time.Time) bool {
			ty, tm, td := t.In(s.loc).Date()
			return ty == y && tm == m && td == d
		}
	case models.AgendaWeek:
		weekEnd := now.AddDate(0, 0, 7)
		keep = func(t time.Time) bool { return !t.Before(now) && !t.After(weekEnd) }
	case models.AgendaAll:
		keep = func(t time.Time) bool { return !t.Before(now) }
	default:
		return nil, fmt.Errorf("%w: filter must be TODAY, WEEK or ALL", common.ErrValidation)
	}

	events, err := s.events.ListEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.AgendaItem, 0, len(events)+len(tasks))
	for _, item := range merge(events, tasks) {
		if keep(item.Start) {
			items = append(items, item)
		}
	}
	return items, nil
}

// Calendar returns every item starting in [from, to). A zero from means the
// start of the current month; a zero to means one month after from.
func (s *AgendaService) Calendar(ctx context.Context, userID string, from, to time.Time) ([]models.AgendaItem, error) {
	if from.IsZero() {
		now := s.now().In(s.loc)
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	}
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: to must be after from", common.ErrValidation)
	}

	events, err := s.events.ListEventsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListTasksBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return merge(events, tasks), nil
}

// merge flattens events and tasks into one list sorted by start.
func merge(events []models.Event, tasks []models.Task) []models.AgendaItem {
	items := make([]models.AgendaItem, 0, len(events)+len(tasks))
	for _, e := range events {
		items = append(items, models.AgendaItem{
			ID:       "event-" + e.ID,
			Type:     "event",
			Title:    e.Title,
			Start:    e.EventDate,
			End:      e.EventDate.Add(time.Hour),
			AllDay:   true,
			Category: e.Category,
		})
	}
	for _, t := range tasks {
		items = append(items, models.AgendaItem{
			ID:     "task-" + t.ID,
			Type:   "task",
			Title:  t.TaskName,
			Start:  t.DueDate,
			End:    t.DueDate.Add(time.Hour),
			AllDay: true,
			Status: t.Status,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Start.Before(items[j].Start) })
	return items
}
