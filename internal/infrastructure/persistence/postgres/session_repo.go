package postgres

import (
	"context"

	"github.com/bonny2long/syncup-backend/internal/domain/mentorship"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MENTORSHIP SESSION REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// SessionRepository implements mentorship.Repository on PostgreSQL.
type SessionRepository struct {
	conn *Connection
}

// NewSessionRepository creates the repository.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

const sessionColumns = "id, mentor_id, intern_id, status, session_focus, session_date, notes, created_at, updated_at"

// Create persists a new session and assigns its id.
func (r *SessionRepository) Create(ctx context.Context, s *mentorship.Session) error {
	const query = `
		INSERT INTO mentorship_sessions (mentor_id, intern_id, status, session_focus, session_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.conn.QueryRow(ctx, query,
		s.MentorID.Int64(), s.InternID.Int64(), s.Status.String(), s.SessionFocus, s.SessionDate, s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shared.WrapError("mentorship", "Create", shared.ErrStorageFailed, "insert failed", err)
	}
	return nil
}

// GetByID returns a session by id.
func (r *SessionRepository) GetByID(ctx context.Context, id shared.SessionID) (*mentorship.Session, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate returns a session by id with a row lock held for the
// remainder of the ambient transaction.
func (r *SessionRepository) GetForUpdate(ctx context.Context, id shared.SessionID) (*mentorship.Session, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *SessionRepository) get(ctx context.Context, id shared.SessionID, suffix string) (*mentorship.Session, error) {
	query := "SELECT " + sessionColumns + " FROM mentorship_sessions WHERE id = $1" + suffix

	var s mentorship.Session
	err := r.conn.QueryRow(ctx, query, id.Int64()).Scan(
		&s.ID, &s.MentorID, &s.InternID, &s.Status, &s.SessionFocus, &s.SessionDate, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NewDomainError("mentorship", "GetByID", shared.ErrNotFound, "session not found")
		}
		return nil, shared.WrapError("mentorship", "GetByID", shared.ErrStorageFailed, "query failed", err)
	}
	return &s, nil
}

// Update writes the session's current status, date, and notes.
func (r *SessionRepository) Update(ctx context.Context, s *mentorship.Session) error {
	const query = `
		UPDATE mentorship_sessions
		SET status = $2, session_date = $3, notes = $4, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.conn.Exec(ctx, query, s.ID.Int64(), s.Status.String(), s.SessionDate, s.Notes)
	if err != nil {
		return shared.WrapError("mentorship", "Update", shared.ErrStorageFailed, "update failed", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("mentorship", "Update", shared.ErrNotFound, "session not found")
	}
	return nil
}
