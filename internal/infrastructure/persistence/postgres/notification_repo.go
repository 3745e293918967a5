package postgres

import (
	"context"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/notification"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements notification.Repository on PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates the repository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// Create persists a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO notifications (id, recipient_id, type, title, message, link, related_type, related_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.conn.QueryRow(ctx, query,
		n.ID, n.RecipientID.Int64(), string(n.Type), n.Title, n.Message, n.Link,
		string(n.RelatedType), n.RelatedID,
	).Scan(&n.CreatedAt)
	if err != nil {
		return shared.WrapError("notification", "Create", shared.ErrStorageFailed, "insert failed", err)
	}
	return nil
}

// ListByRecipient returns the most recent notifications for a user.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID shared.UserID, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, recipient_id, type, title, message, link, related_type, related_id, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.conn.Query(ctx, query, userID.Int64(), limit)
	if err != nil {
		return nil, shared.WrapError("notification", "ListByRecipient", shared.ErrStorageFailed, "query failed", err)
	}
	defer rows.Close()

	var out []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		var readAt *time.Time
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &n.Link,
			&n.RelatedType, &n.RelatedID, &readAt, &n.CreatedAt,
		); err != nil {
			return nil, shared.WrapError("notification", "ListByRecipient", shared.ErrStorageFailed, "scan failed", err)
		}
		n.Read = readAt != nil
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET read_at = NOW() WHERE id = $1 AND read_at IS NULL`
	if _, err := r.conn.Exec(ctx, query, id); err != nil {
		return shared.WrapError("notification", "MarkRead", shared.ErrStorageFailed, "update failed", err)
	}
	return nil
}
