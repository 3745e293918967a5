package command

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonny2long/syncup-backend/internal/domain/mentorship"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError)
}

func acceptedSession(id shared.SessionID, focus string) *mentorship.Session {
	return &mentorship.Session{
		ID:           id,
		MentorID:     10,
		InternID:     20,
		Status:       mentorship.StatusAccepted,
		SessionFocus: focus,
		SessionDate:  time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC),
	}
}

func TestTransitionSession_CompleteEligibleFocusEmits(t *testing.T) {
	sessions := newFakeSessionRepo(acceptedSession(300, signal.FocusProjectSupport))
	ledger := &fakeLedger{}
	pub := &fakePublisher{}
	h := NewTransitionSessionHandler(sessions, ledger, &fakeTxRunner{}, pub, testLogger())

	res, err := h.Handle(context.Background(), TransitionSessionCommand{
		SessionID:       300,
		RequestedStatus: mentorship.StatusCompleted,
		ActingUserID:    10,
		SkillIDs:        []shared.SkillID{4, 7},
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, mentorship.StatusCompleted, res.Session.Status)
	assert.Equal(t, 2, res.SignalsAdded)
	require.Len(t, ledger.entries, 2)
	for _, e := range ledger.entries {
		assert.Equal(t, shared.UserID(20), e.UserID)
		assert.Equal(t, signal.SignalCompleted, e.SignalType)
		assert.Equal(t, signal.WeightMentorshipSession, e.Weight)
		assert.Equal(t, signal.SourceMentorship, e.Source.Type())
		assert.Equal(t, int64(300), e.Source.ID())
	}
	require.Len(t, pub.events, 1)
	assert.Equal(t, shared.EventSessionStatusChanged, pub.events[0].EventType())
}

func TestTransitionSession_CompleteIneligibleFocusSkipsButCompletes(t *testing.T) {
	sessions := newFakeSessionRepo(acceptedSession(301, signal.FocusLifeGuidance))
	ledger := &fakeLedger{}
	h := NewTransitionSessionHandler(sessions, ledger, &fakeTxRunner{}, &fakePublisher{}, testLogger())

	res, err := h.Handle(context.Background(), TransitionSessionCommand{
		SessionID:       301,
		RequestedStatus: mentorship.StatusCompleted,
		ActingUserID:    20,
		SkillIDs:        []shared.SkillID{4},
	})
	require.NoError(t, err)

	// The completion stands even though no signals were emitted.
	assert.Equal(t, mentorship.StatusCompleted, res.Session.Status)
	assert.Zero(t, res.SignalsAdded)
	assert.Equal(t, signal.SkipIneligibleFocus, res.SkipReason)
	assert.Empty(t, ledger.entries)

	stored, err := sessions.GetByID(context.Background(), 301)
	require.NoError(t, err)
	assert.Equal(t, mentorship.StatusCompleted, stored.Status)
}

func TestTransitionSession_CompleteWithoutSkillsSkips(t *testing.T) {
	sessions := newFakeSessionRepo(acceptedSession(302, signal.FocusTechnicalGuidance))
	ledger := &fakeLedger{}
	h := NewTransitionSessionHandler(sessions, ledger, &fakeTxRunner{}, &fakePublisher{}, testLogger())

	res, err := h.Handle(context.Background(), TransitionSessionCommand{
		SessionID:       302,
		RequestedStatus: mentorship.StatusCompleted,
		ActingUserID:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, signal.SkipNoSkills, res.SkipReason)
	assert.Empty(t, ledger.entries)
}

func TestTransitionSession_IdempotentRewriteDoesNothing(t *testing.T) {
	sess := acceptedSession(303, signal.FocusProjectSupport)
	sess.Status = mentorship.StatusCompleted
	sessions := newFakeSessionRepo(sess)
	ledger := &fakeLedger{}
	pub := &fakePublisher{}
	h := NewTransitionSessionHandler(sessions, ledger, &fakeTxRunner{}, pub, testLogger())

	res, err := h.Handle(context.Background(), TransitionSessionCommand{
		SessionID:       303,
		RequestedStatus: mentorship.StatusCompleted,
		ActingUserID:    10,
		SkillIDs:        []shared.SkillID{4},
	})
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Zero(t, res.SignalsAdded)
	assert.Empty(t, ledger.entries)
	assert.Empty(t, pub.events, "no event on an idempotent rewrite")
}

func TestTransitionSession_LedgerFailureAbortsCompletion(t *testing.T) {
	sessions := newFakeSessionRepo(acceptedSession(304, signal.FocusProjectSupport))
	ledger := &fakeLedger{err: errStorage}
	tx := &fakeTxRunner{}
	pub := &fakePublisher{}
	h := NewTransitionSessionHandler(sessions, ledger, tx, pub, testLogger())

	_, err := h.Handle(context.Background(), TransitionSessionCommand{
		SessionID:       304,
		RequestedStatus: mentorship.StatusCompleted,
		ActingUserID:    10,
		SkillIDs:        []shared.SkillID{4},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	assert.True(t, tx.failed, "transaction must roll back")
	assert.Empty(t, pub.events)
}

func TestTransitionSession_NonParticipantRejected(t *testing.T) {
	sessions := newFakeSessionRepo(acceptedSession(305, signal.FocusProjectSupport))
	h := NewTransitionSessionHandler(sessions, &fakeLedger{}, &fakeTxRunner{}, &fakePublisher{}, testLogger())

	_, err := h.Handle(context.Background(), TransitionSessionCommand{
		SessionID:       305,
		RequestedStatus: mentorship.StatusCompleted,
		ActingUserID:    99,
		SkillIDs:        []shared.SkillID{4},
	})
	assert.ErrorIs(t, err, mentorship.ErrNotParticipant)
}

func TestTransitionSession_DeclinedIsTerminal(t *testing.T) {
	sess := acceptedSession(306, signal.FocusProjectSupport)
	sess.Status = mentorship.StatusDeclined
	sessions := newFakeSessionRepo(sess)
	h := NewTransitionSessionHandler(sessions, &fakeLedger{}, &fakeTxRunner{}, &fakePublisher{}, testLogger())

	_, err := h.Handle(context.Background(), TransitionSessionCommand{
		SessionID:       306,
		RequestedStatus: mentorship.StatusAccepted,
		ActingUserID:    10,
	})
	assert.ErrorIs(t, err, mentorship.ErrSessionTerminal)
}
