package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/database"
	"github.com/isdelr/socialsync-api/internal/database/dbtest"
	"github.com/isdelr/socialsync-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	actions []string
	users   []string
}

func (n *recordingNotifier) NotifyUser(userID, action string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
	n.actions = append(n.actions, action)
}

func str(s string) *string { return &s }

// seedUsers creates two accounts and returns their ids.
func seedUsers(t *testing.T, db *database.DB) (string, string) {
	t.Helper()
	users := NewUserService(db)
	a, err := users.CreateUser(context.Background(), "Ann", "ann@x.io", "pw")
	require.NoError(t, err)
	b, err := users.CreateUser(context.Background(), "Bob", "bob@x.io", "pw")
	require.NoError(t, err)
	return a.ID, b.ID
}

func birthday(date string) models.EventInput {
	return models.EventInput{
		Title:     str("Party"),
		EventDate: str(date),
		Category:  str("birthday"),
	}
}

func TestEventService_CRUD(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	ann, _ := seedUsers(t, db)
	notes := &recordingNotifier{}
	svc := NewEventService(db, notes)

	created, err := svc.CreateEvent(ctx, ann, birthday("2026-05-01T18:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, ann, created.UserID)
	assert.Equal(t, models.CategoryBirthday, created.Category)
	assert.Equal(t, time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC), created.EventDate)
	assert.Nil(t, created.ImageURL)

	got, err := svc.GetEvent(ctx, ann, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := svc.UpdateEvent(ctx, ann, created.ID, models.EventInput{
		Location: str("Home"),
		ImageURL: str("https://img/1.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Party", updated.Title)
	assert.Equal(t, "Home", *updated.Location)
	assert.Equal(t, "https://img/1.jpg", *updated.ImageURL)

	// Omitted image keeps the current one.
	updated, err = svc.UpdateEvent(ctx, ann, created.ID, models.EventInput{Title: str("Bigger party")})
	require.NoError(t, err)
	assert.Equal(t, "Bigger party", updated.Title)
	require.NotNil(t, updated.ImageURL)

	deleted, err := svc.DeleteEvent(ctx, ann, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.GetEvent(ctx, ann, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFoundOrForbidden)

	assert.Equal(t, []string{"event.created", "event.updated", "event.updated", "event.deleted"}, notes.actions)
	for _, u := range notes.users {
		assert.Equal(t, ann, u)
	}
}

func TestEventService_OwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	ann, bob := seedUsers(t, db)
	svc := NewEventService(db, nil)

	event, err := svc.CreateEvent(ctx, ann, birthday("2026-05-01"))
	require.NoError(t, err)

	_, getErr := svc.GetEvent(ctx, bob, event.ID)
	_, missingErr := svc.GetEvent(ctx, bob, "does-not-exist")
	_, updErr := svc.UpdateEvent(ctx, bob, event.ID, models.EventInput{Title: str("mine now")})
	_, delErr := svc.DeleteEvent(ctx, bob, event.ID)

	for _, err := range []error{getErr, missingErr, updErr, delErr} {
		assert.ErrorIs(t, err, common.ErrNotFoundOrForbidden)
	}
	assert.Equal(t, getErr.Error(), missingErr.Error())

	still, err := svc.GetEvent(ctx, ann, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Party", still.Title)

	bobs, err := svc.ListEvents(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)
}

func TestEventService_Validation(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	ann, _ := seedUsers(t, db)
	svc := NewEventService(db, nil)

	cases := map[string]models.EventInput{
		"missing title":    {EventDate: str("2026-01-01"), Category: str("DINNER")},
		"missing date":     {Title: str("x"), Category: str("DINNER")},
		"missing category": {Title: str("x"), EventDate: str("2026-01-01")},
		"bad category":     {Title: str("x"), EventDate: str("2026-01-01"), Category: str("PICNIC")},
		"bad date":         {Title: str("x"), EventDate: str("tomorrow"), Category: str("DINNER")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, ann, in)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}

	event, err := svc.CreateEvent(ctx, ann, birthday("2026-01-01"))
	require.NoError(t, err)
	_, err = svc.UpdateEvent(ctx, ann, event.ID, models.EventInput{Category: str("PICNIC")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestEventService_ListOrderingAndRange(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	ann, _ := seedUsers(t, db)
	svc := NewEventService(db, nil)

	for _, d := range []string{"2026-03-10", "2026-01-05", "2026-02-20"} {
		_, err := svc.CreateEvent(ctx, ann, birthday(d))
		require.NoError(t, err)
	}

	all, err := svc.ListEvents(ctx, ann)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, time.January, all[0].EventDate.Month())
	assert.Equal(t, time.March, all[2].EventDate.Month())

	feb, err := svc.ListEventsBetween(ctx, ann,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, feb, 1)
	assert.Equal(t, 20, feb[0].EventDate.Day())
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 7, 4, 12, 30, 0, 0, time.UTC)
	for _, in := range []string{"2026-07-04T12:30:00Z", "2026-07-04T14:30:00+02:00", "2026-07-04T12:30", "2026-07-04T12:30:00.250Z"} {
		got, err := ParseDate("d", in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	got, err := ParseDate("d", "2026-07-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("d", "04/07/2026")
	assert.ErrorIs(t, err, common.ErrValidation)
}
