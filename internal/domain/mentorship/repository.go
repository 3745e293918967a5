package mentorship

import (
	"context"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// Repository defines mentorship session persistence. Implemented by the
// infrastructure layer. Methods honor an ambient transaction in ctx.
type Repository interface {
	// Create persists a new session and assigns its id.
	Create(ctx context.Context, s *Session) error

	// GetByID returns a session by id.
	GetByID(ctx context.Context, id shared.SessionID) (*Session, error)

	// GetForUpdate returns a session by id with a row lock held for the
	// remainder of the ambient transaction, closing the stale-status
	// window between validation and write.
	GetForUpdate(ctx context.Context, id shared.SessionID) (*Session, error)

	// Update writes the session's current status and date.
	Update(ctx context.Context, s *Session) error
}
