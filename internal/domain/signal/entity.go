// Package signal contains the skill signal ledger domain: the immutable
// attribution rows that every analytics view is derived from, and the
// emission guard that decides whether a state transition may produce them.
// This is a pure domain layer with zero external dependencies.
package signal

import (
	"errors"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// Domain errors for the signal package.
var (
	ErrEmptyBatch      = errors.New("signal: append batch cannot be empty")
	ErrInvalidWeight   = errors.New("signal: weight must be positive")
	ErrInvalidSource   = errors.New("signal: invalid source reference")
	ErrUnknownType     = errors.New("signal: unknown signal type")
	ErrLedgerImmutable = errors.New("signal: ledger rows cannot be modified")
)

// SourceType identifies which kind of activity produced a signal.
type SourceType string

const (
	SourceProject    SourceType = "project"
	SourceUpdate     SourceType = "update"
	SourceMentorship SourceType = "mentorship"
)

// IsValid checks if the source type is one of the three known sources.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceProject, SourceUpdate, SourceMentorship:
		return true
	}
	return false
}

// String returns the string representation.
func (s SourceType) String() string {
	return string(s)
}

// SignalType describes the activity that produced the signal.
// It is recorded for audit but deliberately not cross-validated against
// SourceType: aggregation never groups by it, and the looser rule is
// documented behavior.
type SignalType string

const (
	SignalJoined    SignalType = "joined"
	SignalUpdate    SignalType = "update"
	SignalCompleted SignalType = "completed"
)

// IsValid checks if the signal type is known.
func (s SignalType) IsValid() bool {
	switch s {
	case SignalJoined, SignalUpdate, SignalCompleted:
		return true
	}
	return false
}

// String returns the string representation.
func (s SignalType) String() string {
	return string(s)
}

// Source weights. Mentorship completion is weighted 3x to reflect the
// higher engagement cost of a completed session.
const (
	WeightProjectJoin       = 1
	WeightProgressUpdate    = 1
	WeightMentorshipSession = 3
)

// SourceRef is a tagged reference to the originating entity. The tag and id
// travel together so a project id can never be read as a session id.
type SourceRef struct {
	kind SourceType
	id   int64
}

// ProjectSource creates a source reference to a project.
func ProjectSource(id shared.ProjectID) SourceRef {
	return SourceRef{kind: SourceProject, id: id.Int64()}
}

// UpdateSource creates a source reference to a progress update.
func UpdateSource(id shared.UpdateID) SourceRef {
	return SourceRef{kind: SourceUpdate, id: id.Int64()}
}

// MentorshipSource creates a source reference to a mentorship session.
func MentorshipSource(id shared.SessionID) SourceRef {
	return SourceRef{kind: SourceMentorship, id: id.Int64()}
}

// Type returns the source type tag.
func (r SourceRef) Type() SourceType {
	return r.kind
}

// ID returns the raw id of the originating entity.
func (r SourceRef) ID() int64 {
	return r.id
}

// IsValid checks that the reference carries a known tag and a positive id.
func (r SourceRef) IsValid() bool {
	return r.kind.IsValid() && r.id > 0
}

// IsZero reports whether the reference was never set.
func (r SourceRef) IsZero() bool {
	return r.kind == "" && r.id == 0
}

// Entry is one ledger row to be appended. Entries carry no id or timestamp;
// both are assigned by the ledger at insert time.
type Entry struct {
	UserID     shared.UserID
	SkillID    shared.SkillID
	Source     SourceRef
	SignalType SignalType
	Weight     int
}

// Validate checks the entry before it may reach the ledger.
func (e Entry) Validate() error {
	if !e.UserID.IsValid() {
		return shared.NewDomainError("signal", "Validate", shared.ErrInvalidID, "invalid user id")
	}
	if !e.SkillID.IsValid() {
		return shared.NewDomainError("signal", "Validate", shared.ErrInvalidID, "invalid skill id")
	}
	if !e.Source.IsValid() {
		return ErrInvalidSource
	}
	if !e.SignalType.IsValid() {
		return ErrUnknownType
	}
	if e.Weight <= 0 {
		return ErrInvalidWeight
	}
	return nil
}

// SkillSignal is one committed ledger row. Rows are immutable: the ledger
// exposes no update or delete, and corrections require compensating entries.
type SkillSignal struct {
	ID         int64
	UserID     shared.UserID
	SkillID    shared.SkillID
	SourceType SourceType
	SourceID   int64
	SignalType SignalType
	Weight     int
	CreatedAt  time.Time
}
