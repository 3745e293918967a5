package command

import (
	"context"
	"fmt"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/mentorship"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/user"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST MENTORSHIP SESSION COMMAND
// An intern requests a session against a mentor. The session starts pending;
// the mentor is notified post-commit. No signals are involved until the
// session completes.
// ══════════════════════════════════════════════════════════════════════════════

// RequestSessionCommand contains the data to request a session.
type RequestSessionCommand struct {
	MentorID     shared.UserID
	InternID     shared.UserID
	SessionFocus string
	SessionDate  time.Time
}

// Validate validates the command.
func (c RequestSessionCommand) Validate() error {
	if !c.MentorID.IsValid() {
		return shared.NewDomainError("command", "RequestSession", shared.ErrInvalidID, "mentor_id is required")
	}
	if !c.InternID.IsValid() {
		return shared.NewDomainError("command", "RequestSession", shared.ErrInvalidID, "intern_id is required")
	}
	if c.SessionFocus == "" {
		return shared.NewDomainError("command", "RequestSession", shared.ErrEmptyValue, "session_focus is required")
	}
	if c.SessionDate.IsZero() {
		return shared.NewDomainError("command", "RequestSession", shared.ErrEmptyValue, "session_date is required")
	}
	return nil
}

// RequestSessionHandler handles RequestSessionCommand.
type RequestSessionHandler struct {
	sessions  mentorship.Repository
	users     user.Repository
	tx        shared.TxRunner
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewRequestSessionHandler creates the handler.
func NewRequestSessionHandler(
	sessions mentorship.Repository,
	users user.Repository,
	tx shared.TxRunner,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *RequestSessionHandler {
	return &RequestSessionHandler{
		sessions:  sessions,
		users:     users,
		tx:        tx,
		publisher: publisher,
		log:       log.Named("request_session"),
	}
}

// Handle validates both parties and persists the pending session.
func (h *RequestSessionHandler) Handle(ctx context.Context, cmd RequestSessionCommand) (*mentorship.Session, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	mentor, err := h.users.GetByID(ctx, cmd.MentorID)
	if err != nil {
		return nil, fmt.Errorf("request_session: resolve mentor: %w", err)
	}
	if mentor.Role != shared.RoleMentor {
		return nil, shared.NewDomainError("mentorship", "Request", shared.ErrForbidden, "sessions can only be requested against mentors")
	}
	if _, err := h.users.GetByID(ctx, cmd.InternID); err != nil {
		return nil, fmt.Errorf("request_session: resolve intern: %w", err)
	}

	sess, err := mentorship.New(cmd.MentorID, cmd.InternID, cmd.SessionFocus, cmd.SessionDate)
	if err != nil {
		return nil, err
	}

	err = h.tx.InTx(ctx, func(ctx context.Context) error {
		return h.sessions.Create(ctx, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("request_session: persist session: %w", err)
	}

	event := shared.NewSessionRequestedEvent(sess.ID, sess.MentorID, sess.InternID, sess.SessionDate)
	if err := h.publisher.Publish(event); err != nil {
		h.log.Warn("publish failed", logger.Err(err), logger.Int64("session_id", sess.ID.Int64()))
	}

	h.log.Info("session requested",
		logger.Int64("session_id", sess.ID.Int64()),
		logger.Int64("mentor_id", sess.MentorID.Int64()),
		logger.Int64("intern_id", sess.InternID.Int64()),
	)
	return sess, nil
}
