// Package user contains the minimal user model the core needs: identity and
// role. Account management and authentication live outside this backend.
package user

import (
	"context"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// User is a SyncUp user as seen by the core.
type User struct {
	ID        shared.UserID
	Name      string
	Role      shared.Role
	CreatedAt time.Time
}

// Repository defines user lookups. Implemented by the infrastructure layer.
type Repository interface {
	// GetByID returns a user by id.
	GetByID(ctx context.Context, id shared.UserID) (*User, error)
}
