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

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	ListTasksBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (models.Task, error)
	CreateTask(ctx context.Context, userID string, in models.TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, in models.TaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) (models.Task, error)
}

// TaskService provides owner-scoped task management.
type TaskService struct {
	db           *database.DB
	eventService EventServiceProvider
	notifier     Notifier
}

// NewTaskService creates a new TaskService. eventService is used to check
// that a linked event belongs to the same user.
func NewTaskService(db *database.DB, eventService EventServiceProvider, notifier Notifier) *TaskService {
	return &TaskService{db: db, eventService: eventService, notifier: orNop(notifier)}
}

const taskColumns = `id, user_id, task_name, description, due_date, status, event_id, created_at`

// ListTasks retrieves all tasks owned by a user, soonest due first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY due_date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return s.scanTasks(rows)
}

// ListTasksBetween retrieves a user's tasks with from <= due_date < to.
func (s *TaskService) ListTasksBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND due_date >= ? AND due_date < ?
		ORDER BY due_date ASC`,
		userID, from.UTC().Truncate(time.Second), to.UTC().Truncate(time.Second))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return s.scanTasks(rows)
}

// GetTask returns a task if userID owns it.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, taskID)
	task, err := s.scanTask(row)
	return auth.AuthorizeAccess(userID, task, err)
}

// CreateTask validates the input and stores a new task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID string, in models.TaskInput) (models.Task, error) {
	if in.TaskName == nil || strings.TrimSpace(*in.TaskName) == "" ||
		in.DueDate == nil || strings.TrimSpace(*in.DueDate) == "" {
		return models.Task{}, fmt.Errorf("%w: Task name and dueDate are required", common.ErrValidation)
	}

	dueDate, err := ParseDate("dueDate", *in.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	status := models.StatusPending
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		if status, err = parseStatus(*in.Status); err != nil {
			return models.Task{}, err
		}
	}

	eventID, err := s.linkedEvent(ctx, userID, in.EventID)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		TaskName:    strings.TrimSpace(*in.TaskName),
		Description: in.Description,
		DueDate:     dueDate,
		Status:      status,
		EventID:     eventID,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, task_name, description, due_date, status, event_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.TaskName, task.Description, task.DueDate, task.Status, task.EventID)
	if err != nil {
		return models.Task{}, fmt.Errorf("db error: %w", err)
	}

	created, err := s.GetTask(ctx, userID, task.ID)
	if err != nil {
		return models.Task{}, err
	}
	s.notifier.NotifyUser(userID, "task.created", created)
	return created, nil
}

// UpdateTask applies a partial update to a task owned by userID. An empty
// event_id unlinks the task from its event.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, in models.TaskInput) (models.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if in.TaskName != nil && strings.TrimSpace(*in.TaskName) != "" {
		task.TaskName = strings.TrimSpace(*in.TaskName)
	}
	if in.Description != nil {
		task.Description = in.Description
	}
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "" {
		if task.DueDate, err = ParseDate("dueDate", *in.DueDate); err != nil {
			return models.Task{}, err
		}
	}
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		if task.Status, err = parseStatus(*in.Status); err != nil {
			return models.Task{}, err
		}
	}
	if in.EventID != nil {
		if task.EventID, err = s.linkedEvent(ctx, userID, in.EventID); err != nil {
			return models.Task{}, err
		}
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks
		SET task_name = ?, description = ?, due_date = ?, status = ?, event_id = ?
		WHERE id = ? AND user_id = ?`,
		task.TaskName, task.Description, task.DueDate.UTC(), task.Status, task.EventID, taskID, userID)
	if err != nil {
		return models.Task{}, fmt.Errorf("db error: %w", err)
	}

	updated, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	s.notifier.NotifyUser(userID, "task.updated", updated)
	return updated, nil
}

// DeleteTask removes a task owned by userID and returns it.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) (models.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", taskID, userID); err != nil {
		return models.Task{}, fmt.Errorf("db error: %w", err)
	}

	s.notifier.NotifyUser(userID, "task.deleted", task)
	return task, nil
}

// linkedEvent resolves a client supplied event id. Nil or blank means no
// link. A missing event and another user's event are rejected alike.
func (s *TaskService) linkedEvent(ctx context.Context, userID string, eventID *string) (*string, error) {
	if eventID == nil || strings.TrimSpace(*eventID) == "" {
		return nil, nil
	}
	id := strings.TrimSpace(*eventID)
	if _, err := s.eventService.GetEvent(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrNotFoundOrForbidden) {
			return nil, fmt.Errorf("%w: event_id does not match any of your events", common.ErrValidation)
		}
		return nil, err
	}
	return &id, nil
}

func parseStatus(s string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(s))
	switch status {
	case models.StatusPending, models.StatusCompleted:
		return status, nil
	}
	return "", fmt.Errorf("%w: status must be %s or %s", common.ErrValidation, models.StatusPending, models.StatusCompleted)
}

func (s *TaskService) scanTasks(rows *sql.Rows) ([]models.Task, error) {
	tasks := []models.Task{}
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) scanTask(scanner interface{ Scan(...interface{}) error }) (models.Task, error) {
	var task models.Task
	err := scanner.Scan(
		&task.ID,
		&task.UserID,
		&task.TaskName,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.EventID,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task: %w", common.ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("db error: %w", err)
	}
	task.DueDate = task.DueDate.UTC()
	return task, nil
}
