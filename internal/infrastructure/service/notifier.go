// Package service contains application-facing adapters that sit between the
// event bus and the infrastructure: notification dispatch and the bus
// subscriptions that drive it.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bonny2long/syncup-backend/internal/domain/notification"
	"github.com/bonny2long/syncup-backend/internal/infrastructure/persistence/redis"
	"github.com/bonny2long/syncup-backend/pkg/logger"
	"github.com/bonny2long/syncup-backend/pkg/retry"
)

// Notifier persists notifications and announces them on the redis outbox.
// It implements notification.Dispatcher. Per-recipient failures are logged
// and skipped; the call fails only when no recipient could be stored.
type Notifier struct {
	repo   notification.Repository
	outbox *redis.Outbox
	log    *logger.Logger
}

// NewNotifier creates a dispatcher. The outbox may be nil, in which case
// notifications are stored but not announced.
func NewNotifier(repo notification.Repository, outbox *redis.Outbox, log *logger.Logger) *Notifier {
	return &Notifier{
		repo:   repo,
		outbox: outbox,
		log:    log.Named("notifier"),
	}
}

// Notify fans the request out to every recipient. Each notification gets its
// own id; storage is retried, the outbox announce is a single best-effort
// attempt behind the circuit breaker.
func (n *Notifier) Notify(ctx context.Context, req notification.Request) ([]string, error) {
	ids := make([]string, 0, len(req.RecipientIDs))
	var errs []error

	for _, recipient := range req.RecipientIDs {
		notif := &notification.Notification{
			ID:          uuid.NewString(),
			RecipientID: recipient,
			Type:        req.Type,
			Title:       req.Title,
			Message:     req.Message,
			Link:        req.Link,
			RelatedID:   req.RelatedID,
			RelatedType: req.RelatedType,
			CreatedAt:   time.Now().UTC(),
		}

		if err := notif.Validate(); err != nil {
			n.log.Warn("invalid notification dropped",
				logger.String("type", string(req.Type)),
				logger.Int64("recipient_id", recipient.Int64()),
				logger.Err(err))
			errs = append(errs, err)
			continue
		}

		err := retry.Do(ctx, func(ctx context.Context) error {
			return n.repo.Create(ctx, notif)
		}, retry.WithMaxAttempts(3), retry.WithInitialDelay(50*time.Millisecond))
		if err != nil {
			n.log.Warn("notification store failed",
				logger.String("id", notif.ID),
				logger.String("type", string(notif.Type)),
				logger.Int64("recipient_id", recipient.Int64()),
				logger.Err(err))
			errs = append(errs, err)
			continue
		}

		ids = append(ids, notif.ID)

		if n.outbox != nil {
			if err := n.outbox.Publish(ctx, notif); err != nil {
				n.log.Warn("outbox announce failed",
					logger.String("id", notif.ID),
					logger.Err(err))
			}
		}
	}

	if len(ids) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ids, nil
}
