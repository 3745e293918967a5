package notification

import (
	"context"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// Request is a fire-and-forget dispatch request. One request fans out to
// every recipient.
type Request struct {
	RecipientIDs []shared.UserID
	Type         Type
	Title        string
	Message      string
	Link         string
	RelatedID    int64
	RelatedType  RelatedType
}

// Dispatcher records user-facing events. Implementations must be safe for
// concurrent use. The returned ids identify the stored notifications; a
// dispatch failure must never invalidate the committed state change that
// triggered it - callers log and move on.
type Dispatcher interface {
	Notify(ctx context.Context, req Request) ([]string, error)
}

// Repository defines notification persistence.
type Repository interface {
	// Create persists a notification.
	Create(ctx context.Context, n *Notification) error

	// ListByRecipient returns the most recent notifications for a user.
	ListByRecipient(ctx context.Context, userID shared.UserID, limit int) ([]*Notification, error)

	// MarkRead flags a notification as read.
	MarkRead(ctx context.Context, id string) error
}
