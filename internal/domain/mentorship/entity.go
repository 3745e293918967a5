// Package mentorship contains the mentorship session aggregate and its
// status state machine. Completing a session is the one transition that
// feeds the emission guard; everything else only changes session state.
// This is a pure domain layer with zero external dependencies.
package mentorship

import (
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
)

// Status is a mentorship session state.
//
//	pending -> accepted | declined
//	accepted -> completed
//	any non-terminal -> rescheduled (date change only)
//
// declined and completed are terminal on the accept/decline axis.
type Status string

const (
	StatusPending     Status = "pending"
	StatusAccepted    Status = "accepted"
	StatusDeclined    Status = "declined"
	StatusCompleted   Status = "completed"
	StatusRescheduled Status = "rescheduled"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCompleted, StatusRescheduled:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the accept/decline axis.
func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCompleted
}

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// Transition rejection errors.
var (
	ErrUnknownStatus     = shared.NewDomainError("mentorship", "Transition", shared.ErrInvalidInput, "unknown session status")
	ErrSessionTerminal   = shared.NewDomainError("mentorship", "Transition", shared.ErrStateTransition, "session is already terminal")
	ErrNotRequestable    = shared.NewDomainError("mentorship", "Transition", shared.ErrStateTransition, "transition not allowed from current status")
	ErrNotParticipant    = shared.NewDomainError("mentorship", "Transition", shared.ErrForbidden, "only the mentor or intern may change the session")
	ErrRescheduleClosed  = shared.NewDomainError("mentorship", "Reschedule", shared.ErrStateTransition, "terminal sessions cannot be rescheduled")
	ErrInvalidDate       = shared.NewDomainError("mentorship", "Reschedule", shared.ErrInvalidInput, "session date is required")
)

// allowedTransitions maps a current status to the statuses reachable from
// it through Transition. Reschedule is a separate operation and is not
// listed here.
var allowedTransitions = map[Status][]Status{
	StatusPending:     {StatusAccepted, StatusDeclined, StatusCompleted},
	StatusAccepted:    {StatusCompleted},
	StatusRescheduled: {StatusAccepted, StatusDeclined, StatusCompleted},
}

// Session is the mentorship session aggregate root. Created by an intern
// against a mentor; mutated by either party.
type Session struct {
	ID           shared.SessionID
	MentorID     shared.UserID
	InternID     shared.UserID
	Status       Status
	SessionFocus string
	SessionDate  time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates an unsaved pending session requested by the intern.
func New(mentorID, internID shared.UserID, focus string, date time.Time) (*Session, error) {
	if !mentorID.IsValid() {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrInvalidID, "invalid mentor id")
	}
	if !internID.IsValid() {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrInvalidID, "invalid intern id")
	}
	if mentorID == internID {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrInvalidInput, "mentor and intern must differ")
	}
	if focus == "" {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrEmptyValue, "session focus is required")
	}
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	return &Session{
		MentorID:     mentorID,
		InternID:     internID,
		Status:       StatusPending,
		SessionFocus: focus,
		SessionDate:  date,
	}, nil
}

// IsParticipant reports whether the user is the session's mentor or intern.
func (s *Session) IsParticipant(userID shared.UserID) bool {
	return userID == s.MentorID || userID == s.InternID
}

// TransitionResult reports what a Transition actually did.
type TransitionResult struct {
	// Changed is false when the requested status equals the current one;
	// callers use it to notify exactly once per actual change.
	Changed bool

	// PreviousStatus is the status before the transition.
	PreviousStatus Status

	// CompletedNow is true when this transition moved the session into
	// completed from a non-completed status, i.e. the emission guard must
	// be consulted.
	CompletedNow bool
}

// Transition validates and applies a status change requested by a
// participant. A same-status request is valid and reported as unchanged.
// Moving into completed from any prior non-completed status is flagged on
// the result so the caller can invoke the emission guard.
func (s *Session) Transition(requested Status, actingUserID shared.UserID) (TransitionResult, error) {
	res := TransitionResult{PreviousStatus: s.Status}

	if !requested.IsValid() || requested == StatusRescheduled {
		// rescheduled is reachable only through Reschedule.
		return res, ErrUnknownStatus
	}
	if !s.IsParticipant(actingUserID) {
		return res, ErrNotParticipant
	}
	if requested == s.Status {
		return res, nil
	}
	if s.Status.IsTerminal() {
		return res, ErrSessionTerminal
	}

	allowed := false
	for _, next := range allowedTransitions[s.Status] {
		if next == requested {
			allowed = true
			break
		}
	}
	if !allowed {
		return res, ErrNotRequestable
	}

	res.Changed = true
	res.CompletedNow = requested == StatusCompleted
	s.Status = requested
	s.UpdatedAt = time.Now().UTC()
	return res, nil
}

// Reschedule moves the session to rescheduled with a new date. It is a
// date change only: it never consumes the forward progression and never
// involves the emission guard.
func (s *Session) Reschedule(newDate time.Time, actingUserID shared.UserID) error {
	if newDate.IsZero() {
		return ErrInvalidDate
	}
	if !s.IsParticipant(actingUserID) {
		return ErrNotParticipant
	}
	if s.Status.IsTerminal() {
		return ErrRescheduleClosed
	}

	s.SessionDate = newDate
	s.Status = StatusRescheduled
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// CompletionGuardInput builds the emission guard input for this session's
// completion. Weight is fixed at the mentorship rate; skills come from the
// caller and may be empty (the guard will skip, the completion stands).
func (s *Session) CompletionGuardInput(skillIDs []shared.SkillID) signal.GuardInput {
	return signal.GuardInput{
		UserID:       s.InternID,
		Source:       signal.MentorshipSource(s.ID),
		SignalType:   signal.SignalCompleted,
		SessionFocus: s.SessionFocus,
		SkillIDs:     skillIDs,
		Weight:       signal.WeightMentorshipSession,
	}
}
