package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonny2long/syncup-backend/internal/domain/notification"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

type fakeNotificationRepo struct {
	mu       sync.Mutex
	stored   []*notification.Notification
	failures int
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("store unavailable")
	}
	cp := *n
	r.stored = append(r.stored, &cp)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, userID shared.UserID, limit int) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.stored {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.stored {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return shared.NewDomainError("notification", "MarkRead", shared.ErrNotFound, "notification not found")
}

func testLog() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError)
}

func TestNotifierFansOutToEveryRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	n := NewNotifier(repo, nil, testLog())

	ids, err := n.Notify(context.Background(), notification.Request{
		RecipientIDs: []shared.UserID{2, 3, 4},
		Type:         notification.TypeProjectCompleted,
		Title:        "Project completed",
		Message:      "\"Tracker\" has been marked completed",
		RelatedID:    7,
		RelatedType:  notification.RelatedProject,
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	require.Len(t, repo.stored, 3)

	seen := map[string]bool{}
	for i, stored := range repo.stored {
		assert.Equal(t, ids[i], stored.ID)
		assert.False(t, seen[stored.ID], "ids must be unique")
		seen[stored.ID] = true
		assert.Equal(t, notification.TypeProjectCompleted, stored.Type)
		assert.Equal(t, int64(7), stored.RelatedID)
		assert.False(t, stored.Read)
		assert.False(t, stored.CreatedAt.IsZero())
	}
}

func TestNotifierRetriesTransientStoreFailures(t *testing.T) {
	repo := &fakeNotificationRepo{failures: 2}
	n := NewNotifier(repo, nil, testLog())

	ids, err := n.Notify(context.Background(), notification.Request{
		RecipientIDs: []shared.UserID{5},
		Type:         notification.TypeMemberJoined,
		Title:        "New project member",
	})
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Len(t, repo.stored, 1)
}

func TestNotifierSkipsInvalidRecipients(t *testing.T) {
	repo := &fakeNotificationRepo{}
	n := NewNotifier(repo, nil, testLog())

	ids, err := n.Notify(context.Background(), notification.Request{
		RecipientIDs: []shared.UserID{0, 9},
		Type:         notification.TypeUpdatePosted,
		Title:        "New progress update",
	})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, shared.UserID(9), repo.stored[0].RecipientID)
}

func TestNotifierFailsWhenNothingStored(t *testing.T) {
	repo := &fakeNotificationRepo{failures: 10}
	n := NewNotifier(repo, nil, testLog())

	ids, err := n.Notify(context.Background(), notification.Request{
		RecipientIDs: []shared.UserID{5},
		Type:         notification.TypeSessionRequested,
		Title:        "New session request",
	})
	require.Error(t, err)
	assert.Empty(t, ids)
}

type capturingDispatcher struct {
	mu       sync.Mutex
	requests []notification.Request
}

func (d *capturingDispatcher) Notify(_ context.Context, req notification.Request) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	return []string{"id"}, nil
}

func (d *capturingDispatcher) all() []notification.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notification.Request(nil), d.requests...)
}

func TestSubscriberProjectCompletion(t *testing.T) {
	disp := &capturingDispatcher{}
	sub := NewNotificationSubscriber(disp, testLog())

	event := shared.NewProjectStatusChangedEvent(7, "Tracker", 1, "active", "completed", []shared.UserID{2, 3})
	require.NoError(t, sub.onProjectStatusChanged(event))

	reqs := disp.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, notification.TypeProjectCompleted, reqs[0].Type)
	assert.Equal(t, []shared.UserID{2, 3}, reqs[0].RecipientIDs)
	assert.Equal(t, notification.RelatedProject, reqs[0].RelatedType)
	assert.Equal(t, int64(7), reqs[0].RelatedID)
}

func TestSubscriberIgnoresNonCompletionTransitions(t *testing.T) {
	disp := &capturingDispatcher{}
	sub := NewNotificationSubscriber(disp, testLog())

	event := shared.NewProjectStatusChangedEvent(7, "Tracker", 1, "planned", "active", []shared.UserID{2})
	require.NoError(t, sub.onProjectStatusChanged(event))
	assert.Empty(t, disp.all())
}

func TestSubscriberMemberJoinedNotifiesOwner(t *testing.T) {
	disp := &capturingDispatcher{}
	sub := NewNotificationSubscriber(disp, testLog())

	event := shared.NewMemberJoinedEvent(7, "Tracker", 4, 1)
	require.NoError(t, sub.onMemberJoined(event))

	reqs := disp.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, []shared.UserID{1}, reqs[0].RecipientIDs)
	assert.Equal(t, notification.TypeMemberJoined, reqs[0].Type)
}

func TestSubscriberUpdatePosted(t *testing.T) {
	disp := &capturingDispatcher{}
	sub := NewNotificationSubscriber(disp, testLog())

	event := shared.NewUpdatePostedEvent(501, 7, "Tracker", 2, []shared.UserID{1, 3})
	require.NoError(t, sub.onUpdatePosted(event))

	reqs := disp.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, notification.TypeUpdatePosted, reqs[0].Type)
	assert.Equal(t, notification.RelatedUpdate, reqs[0].RelatedType)
	assert.Equal(t, int64(501), reqs[0].RelatedID)
}

func TestSubscriberSessionStatusMapping(t *testing.T) {
	cases := []struct {
		toStatus   string
		wantType   notification.Type
		recipients []shared.UserID
	}{
		{"accepted", notification.TypeSessionAccepted, []shared.UserID{20}},
		{"declined", notification.TypeSessionDeclined, []shared.UserID{20}},
		{"completed", notification.TypeSessionCompleted, []shared.UserID{10, 20}},
	}

	for _, tc := range cases {
		t.Run(tc.toStatus, func(t *testing.T) {
			disp := &capturingDispatcher{}
			sub := NewNotificationSubscriber(disp, testLog())

			event := shared.NewSessionStatusChangedEvent(300, 10, 20, "pending", tc.toStatus)
			require.NoError(t, sub.onSessionStatusChanged(event))

			reqs := disp.all()
			require.Len(t, reqs, 1)
			assert.Equal(t, tc.wantType, reqs[0].Type)
			assert.Equal(t, tc.recipients, reqs[0].RecipientIDs)
			assert.Equal(t, notification.RelatedSession, reqs[0].RelatedType)
		})
	}
}

func TestSubscriberSessionRescheduledNotifiesBoth(t *testing.T) {
	disp := &capturingDispatcher{}
	sub := NewNotificationSubscriber(disp, testLog())

	newDate := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	event := shared.NewSessionRescheduledEvent(300, 10, 20, newDate)
	require.NoError(t, sub.onSessionRescheduled(event))

	reqs := disp.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, notification.TypeSessionMoved, reqs[0].Type)
	assert.Equal(t, []shared.UserID{10, 20}, reqs[0].RecipientIDs)
	assert.Contains(t, reqs[0].Message, "Sep 10, 2026")
}
