package services

import (
	"context"
	"testing"

	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/database/dbtest"
	"github.com/isdelr/socialsync-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CRUD(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	ann, _ := seedUsers(t, db)
	events := NewEventService(db, nil)
	notes := &recordingNotifier{}
	svc := NewTaskService(db, events, notes)

	task, err := svc.CreateTask(ctx, ann, models.TaskInput{
		TaskName: str("Buy cake"),
		DueDate:  str("2026-05-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Nil(t, task.EventID)

	done, err := svc.UpdateTask(ctx, ann, task.ID, models.TaskInput{Status: str("completed")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, "Buy cake", done.TaskName)

	list, err := svc.ListTasks(ctx, ann)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.DeleteTask(ctx, ann, task.ID)
	require.NoError(t, err)
	_, err = svc.GetTask(ctx, ann, task.ID)
	assert.ErrorIs(t, err, common.ErrNotFoundOrForbidden)

	assert.Equal(t, []string{"task.created", "task.updated", "task.deleted"}, notes.actions)
}

func TestTaskService_Validation(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	ann, _ := seedUsers(t, db)
	svc := NewTaskService(db, NewEventService(db, nil), nil)

	_, err := svc.CreateTask(ctx, ann, models.TaskInput{DueDate: str("2026-05-01")})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.CreateTask(ctx, ann, models.TaskInput{TaskName: str("x")})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.CreateTask(ctx, ann, models.TaskInput{TaskName: str("x"), DueDate: str("2026-05-01"), Status: str("LATER")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestTaskService_OwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	ann, bob := seedUsers(t, db)
	svc := NewTaskService(db, NewEventService(db, nil), nil)

	task, err := svc.CreateTask(ctx, ann, models.TaskInput{TaskName: str("Call mum"), DueDate: str("2026-05-01")})
	require.NoError(t, err)

	_, getErr := svc.GetTask(ctx, bob, task.ID)
	_, updErr := svc.UpdateTask(ctx, bob, task.ID, models.TaskInput{Status: str("COMPLETED")})
	_, delErr := svc.DeleteTask(ctx, bob, task.ID)
	for _, err := range []error{getErr, updErr, delErr} {
		assert.ErrorIs(t, err, common.ErrNotFoundOrForbidden)
	}

	still, err := svc.GetTask(ctx, ann, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, still.Status)
}

func TestTaskService_EventLink(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	ann, bob := seedUsers(t, db)
	events := NewEventService(db, nil)
	svc := NewTaskService(db, events, nil)

	annEvent, err := events.CreateEvent(ctx, ann, birthday("2026-05-01"))
	require.NoError(t, err)
	bobEvent, err := events.CreateEvent(ctx, bob, birthday("2026-05-02"))
	require.NoError(t, err)

	// Linking another user's event and a missing event fail the same way.
	_, foreignErr := svc.CreateTask(ctx, ann, models.TaskInput{TaskName: str("x"), DueDate: str("2026-05-01"), EventID: str(bobEvent.ID)})
	_, missingErr := svc.CreateTask(ctx, ann, models.TaskInput{TaskName: str("x"), DueDate: str("2026-05-01"), EventID: str("nope")})
	assert.ErrorIs(t, foreignErr, common.ErrValidation)
	assert.Equal(t, foreignErr.Error(), missingErr.Error())

	task, err := svc.CreateTask(ctx, ann, models.TaskInput{TaskName: str("Cake"), DueDate: str("2026-05-01"), EventID: str(annEvent.ID)})
	require.NoError(t, err)
	require.NotNil(t, task.EventID)
	assert.Equal(t, annEvent.ID, *task.EventID)

	// An empty event_id unlinks.
	task, err = svc.UpdateTask(ctx, ann, task.ID, models.TaskInput{EventID: str("")})
	require.NoError(t, err)
	assert.Nil(t, task.EventID)

	task, err = svc.UpdateTask(ctx, ann, task.ID, models.TaskInput{EventID: str(annEvent.ID)})
	require.NoError(t, err)
	require.NotNil(t, task.EventID)

	// Deleting the event leaves the task in place, unlinked.
	_, err = events.DeleteEvent(ctx, ann, annEvent.ID)
	require.NoError(t, err)
	task, err = svc.GetTask(ctx, ann, task.ID)
	require.NoError(t, err)
	assert.Nil(t, task.EventID)
}
