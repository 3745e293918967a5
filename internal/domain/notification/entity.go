// Package notification contains the user-facing notification record and the
// dispatcher contract. Dispatch is strictly best-effort: it runs after the
// controlling transaction commits, and a failure is logged, never surfaced
// to the request that caused it.
package notification

import (
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// Type classifies a notification for the dashboard.
type Type string

const (
	TypeProjectCompleted Type = "project_completed"
	TypeUpdatePosted     Type = "update_posted"
	TypeMemberJoined     Type = "member_joined"
	TypeSessionRequested Type = "session_requested"
	TypeSessionAccepted  Type = "session_accepted"
	TypeSessionDeclined  Type = "session_declined"
	TypeSessionCompleted Type = "session_completed"
	TypeSessionMoved     Type = "session_rescheduled"
)

// IsValid checks if the type is a known value.
func (t Type) IsValid() bool {
	switch t {
	case TypeProjectCompleted, TypeUpdatePosted, TypeMemberJoined,
		TypeSessionRequested, TypeSessionAccepted, TypeSessionDeclined,
		TypeSessionCompleted, TypeSessionMoved:
		return true
	}
	return false
}

// RelatedType names the entity a notification links back to.
type RelatedType string

const (
	RelatedProject RelatedType = "project"
	RelatedUpdate  RelatedType = "update"
	RelatedSession RelatedType = "session"
)

// Notification is one user-facing event record.
type Notification struct {
	ID          string // uuid, assigned by the dispatcher
	RecipientID shared.UserID
	Type        Type
	Title       string
	Message     string
	Link        string
	RelatedID   int64
	RelatedType RelatedType
	Read        bool
	CreatedAt   time.Time
}

// Validate checks required fields before persistence.
func (n *Notification) Validate() error {
	if !n.RecipientID.IsValid() {
		return shared.NewDomainError("notification", "Validate", shared.ErrInvalidID, "invalid recipient id")
	}
	if !n.Type.IsValid() {
		return shared.NewDomainError("notification", "Validate", shared.ErrInvalidInput, "unknown notification type")
	}
	if n.Title == "" {
		return shared.NewDomainError("notification", "Validate", shared.ErrEmptyValue, "title is required")
	}
	return nil
}
