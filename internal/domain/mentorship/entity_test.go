package mentorship

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
)

const (
	mentorID shared.UserID = 2
	internID shared.UserID = 3
	otherID  shared.UserID = 44
)

func pending(focus string) *Session {
	return &Session{
		ID:           21,
		MentorID:     mentorID,
		InternID:     internID,
		Status:       StatusPending,
		SessionFocus: focus,
		SessionDate:  time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
	}
}

func TestTransition_AcceptDeclineComplete(t *testing.T) {
	s := pending(signal.FocusTechnicalGuidance)

	res, err := s.Transition(StatusAccepted, mentorID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.CompletedNow)
	assert.Equal(t, StatusPending, res.PreviousStatus)
	assert.Equal(t, StatusAccepted, s.Status)

	res, err = s.Transition(StatusCompleted, mentorID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.CompletedNow)

	// Completed is terminal.
	_, err = s.Transition(StatusAccepted, mentorID)
	assert.ErrorIs(t, err, ErrSessionTerminal)
}

func TestTransition_DeclineIsTerminal(t *testing.T) {
	s := pending(signal.FocusCareerGuidance)
	res, err := s.Transition(StatusDeclined, mentorID)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	_, err = s.Transition(StatusCompleted, mentorID)
	assert.ErrorIs(t, err, ErrSessionTerminal)
	assert.Equal(t, StatusDeclined, s.Status)
}

func TestTransition_PendingCanCompleteDirectly(t *testing.T) {
	// Completion is allowed from any prior non-completed status.
	s := pending(signal.FocusProjectSupport)
	res, err := s.Transition(StatusCompleted, internID)
	require.NoError(t, err)
	assert.True(t, res.CompletedNow)
}

func TestTransition_IdempotentRewriteIsNotAChange(t *testing.T) {
	s := pending(signal.FocusTechnicalGuidance)
	_, err := s.Transition(StatusAccepted, mentorID)
	require.NoError(t, err)

	// Re-writing the same status succeeds but reports no change, so the
	// caller sends no duplicate notification.
	res, err := s.Transition(StatusAccepted, mentorID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.False(t, res.CompletedNow)
}

func TestTransition_ParticipantsOnly(t *testing.T) {
	s := pending(signal.FocusTechnicalGuidance)
	_, err := s.Transition(StatusAccepted, otherID)
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.Equal(t, StatusPending, s.Status)
}

func TestTransition_RejectsRescheduledAsTarget(t *testing.T) {
	s := pending(signal.FocusTechnicalGuidance)
	_, err := s.Transition(StatusRescheduled, mentorID)
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = s.Transition("postponed", mentorID)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestReschedule(t *testing.T) {
	s := pending(signal.FocusTechnicalGuidance)
	newDate := time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Reschedule(newDate, internID))
	assert.Equal(t, StatusRescheduled, s.Status)
	assert.Equal(t, newDate, s.SessionDate)

	// A rescheduled session can still be accepted and completed.
	res, err := s.Transition(StatusAccepted, mentorID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
}

func TestReschedule_Rejections(t *testing.T) {
	s := pending(signal.FocusTechnicalGuidance)
	date := time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, s.Reschedule(time.Time{}, mentorID), ErrInvalidDate)
	assert.ErrorIs(t, s.Reschedule(date, otherID), ErrNotParticipant)

	_, err := s.Transition(StatusDeclined, mentorID)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Reschedule(date, mentorID), ErrRescheduleClosed)
}

func TestCompletionGuardInput(t *testing.T) {
	s := pending(signal.FocusTechnicalGuidance)
	in := s.CompletionGuardInput([]shared.SkillID{4, 4, 7})

	assert.Equal(t, internID, in.UserID)
	assert.Equal(t, signal.SourceMentorship, in.Source.Type())
	assert.EqualValues(t, 21, in.Source.ID())
	assert.Equal(t, signal.SignalCompleted, in.SignalType)
	assert.Equal(t, signal.FocusTechnicalGuidance, in.SessionFocus)
	assert.Equal(t, signal.WeightMentorshipSession, in.Weight)

	// End to end through the guard: duplicates collapse, weight 3 each.
	d := signal.Decide(in)
	require.True(t, d.Emit)
	assert.Len(t, d.Entries, 2)
}

func TestNew(t *testing.T) {
	date := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

	s, err := New(mentorID, internID, signal.FocusCareerGuidance, date)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, s.Status)

	_, err = New(0, internID, "x", date)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New(mentorID, mentorID, "x", date)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = New(mentorID, internID, "", date)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = New(mentorID, internID, "x", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
