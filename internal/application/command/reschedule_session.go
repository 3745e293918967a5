package command

import (
	"context"
	"fmt"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/mentorship"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESCHEDULE MENTORSHIP SESSION COMMAND
// A date change only. The session moves to rescheduled and both the new
// date and the status are written together; no signals are involved.
// ══════════════════════════════════════════════════════════════════════════════

// RescheduleSessionCommand requests a session date change.
type RescheduleSessionCommand struct {
	SessionID    shared.SessionID
	ActingUserID shared.UserID
	NewDate      time.Time
}

// Validate validates the command.
func (c RescheduleSessionCommand) Validate() error {
	if !c.SessionID.IsValid() {
		return shared.NewDomainError("command", "RescheduleSession", shared.ErrInvalidID, "session_id is required")
	}
	if !c.ActingUserID.IsValid() {
		return shared.NewDomainError("command", "RescheduleSession", shared.ErrInvalidID, "user_id is required")
	}
	if c.NewDate.IsZero() {
		return shared.NewDomainError("command", "RescheduleSession", shared.ErrEmptyValue, "session_date is required")
	}
	return nil
}

// RescheduleSessionHandler handles RescheduleSessionCommand.
type RescheduleSessionHandler struct {
	sessions  mentorship.Repository
	tx        shared.TxRunner
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewRescheduleSessionHandler creates the handler.
func NewRescheduleSessionHandler(
	sessions mentorship.Repository,
	tx shared.TxRunner,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *RescheduleSessionHandler {
	return &RescheduleSessionHandler{
		sessions:  sessions,
		tx:        tx,
		publisher: publisher,
		log:       log.Named("reschedule_session"),
	}
}

// Handle applies the date change in one transaction and notifies the other
// participant post-commit.
func (h *RescheduleSessionHandler) Handle(ctx context.Context, cmd RescheduleSessionCommand) (*mentorship.Session, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var sess *mentorship.Session
	err := h.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		sess, err = h.sessions.GetForUpdate(ctx, cmd.SessionID)
		if err != nil {
			return err
		}
		if err := sess.Reschedule(cmd.NewDate, cmd.ActingUserID); err != nil {
			return err
		}
		if err := h.sessions.Update(ctx, sess); err != nil {
			return fmt.Errorf("reschedule_session: persist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := shared.NewSessionRescheduledEvent(sess.ID, sess.MentorID, sess.InternID, sess.SessionDate)
	if err := h.publisher.Publish(event); err != nil {
		h.log.Warn("publish failed", logger.Err(err), logger.Int64("session_id", sess.ID.Int64()))
	}

	h.log.Info("session rescheduled",
		logger.Int64("session_id", sess.ID.Int64()),
		logger.String("new_date", sess.SessionDate.Format(time.RFC3339)),
	)
	return sess, nil
}
