package postgres

import (
	"context"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/user"
)

// UserRepository implements user.Repository on PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates the repository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id shared.UserID) (*user.User, error) {
	const query = `SELECT id, name, role, created_at FROM users WHERE id = $1`

	var u user.User
	err := r.conn.QueryRow(ctx, query, id.Int64()).Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NewDomainError("user", "GetByID", shared.ErrNotFound, "user not found")
		}
		return nil, shared.WrapError("user", "GetByID", shared.ErrStorageFailed, "query failed", err)
	}
	return &u, nil
}
