// Package project contains the project aggregate and its status state
// machine: forward-only, one step at a time, owner-gated transitions.
// This is a pure domain layer with zero external dependencies.
package project

import (
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// Status is a project lifecycle stage. Stages are strictly ordered and a
// project only ever moves forward through them.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// statusOrder fixes the forward progression. Index comparisons implement
// the no-backward and no-skip rules.
var statusOrder = map[Status]int{
	StatusPlanned:   0,
	StatusActive:    1,
	StatusCompleted: 2,
	StatusArchived:  3,
}

// IsValid checks if the status is one of the four lifecycle stages.
func (s Status) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

// Index returns the position of the status in the forward progression,
// or -1 for unknown values.
func (s Status) Index() int {
	idx, ok := statusOrder[s]
	if !ok {
		return -1
	}
	return idx
}

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// Visibility controls who can discover a project.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilitySeeking Visibility = "seeking"
)

// IsValid checks if the visibility is a known value.
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilitySeeking
}

// Transition rejection errors. Ordered from most to least specific; the
// Transition method evaluates its checks in the same order so the caller
// always sees the most specific reason.
var (
	ErrUnknownStatus       = shared.NewDomainError("project", "Transition", shared.ErrInvalidInput, "unknown status")
	ErrNotOwner            = shared.NewDomainError("project", "Transition", shared.ErrForbidden, "only the owner may change project status")
	ErrMentorCannotComplete = shared.NewDomainError("project", "Transition", shared.ErrForbidden, "a mentor-role owner may not complete a project")
	ErrBackwardTransition  = shared.NewDomainError("project", "Transition", shared.ErrStateTransition, "status cannot move backward")
	ErrSkippedStage        = shared.NewDomainError("project", "Transition", shared.ErrStateTransition, "status cannot skip a stage")
)

// Project is the project aggregate root.
type Project struct {
	ID          shared.ProjectID
	OwnerID     shared.UserID
	Title       string
	Description string
	Status      Status
	Visibility  Visibility
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates an unsaved project in the planned stage. The owner is added
// as the first member by the create command, not here.
func New(ownerID shared.UserID, title string, visibility Visibility) (*Project, error) {
	if !ownerID.IsValid() {
		return nil, shared.NewDomainError("project", "New", shared.ErrInvalidID, "invalid owner id")
	}
	if title == "" {
		return nil, shared.NewDomainError("project", "New", shared.ErrEmptyValue, "title cannot be empty")
	}
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if !visibility.IsValid() {
		return nil, shared.NewDomainError("project", "New", shared.ErrInvalidInput, "unknown visibility")
	}
	return &Project{
		OwnerID:    ownerID,
		Title:      title,
		Status:     StatusPlanned,
		Visibility: visibility,
	}, nil
}

// Transition validates and applies a status change. Checks run in order so
// the most specific rejection is reported:
//
//  1. requested status must be a known stage
//  2. only the owner may change status
//  3. a mentor-role owner may not complete
//  4. no backward movement
//  5. no skipping a stage
//
// On success the receiver's status is updated in place. A same-status
// request passes validation and applies as a no-op write.
func (p *Project) Transition(requested Status, actingUserID shared.UserID, actingRole shared.Role) error {
	if !requested.IsValid() {
		return ErrUnknownStatus
	}
	if actingUserID != p.OwnerID {
		return ErrNotOwner
	}
	if requested == StatusCompleted && actingRole == shared.RoleMentor {
		return ErrMentorCannotComplete
	}
	if requested.Index() < p.Status.Index() {
		return ErrBackwardTransition
	}
	if requested.Index() > p.Status.Index()+1 {
		return ErrSkippedStage
	}

	p.Status = requested
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Member is a project membership row.
type Member struct {
	ProjectID shared.ProjectID
	UserID    shared.UserID
	JoinedAt  time.Time
}

// ProgressUpdate is a progress note posted against a project. Posting one
// is a signal source (source_type=update, weight 1).
type ProgressUpdate struct {
	ID        shared.UpdateID
	ProjectID shared.ProjectID
	AuthorID  shared.UserID
	Content   string
	CreatedAt time.Time
}
