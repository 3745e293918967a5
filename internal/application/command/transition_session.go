package command

import (
	"context"
	"fmt"

	"github.com/bonny2long/syncup-backend/internal/domain/mentorship"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITION MENTORSHIP SESSION COMMAND
// Accept, decline, or complete a session. Completion is the one path that
// consults the emission guard: eligible completions append ledger rows in
// the same transaction as the status write, so a ledger failure rolls the
// completion back. Guard skips never fail the completion.
// ══════════════════════════════════════════════════════════════════════════════

// TransitionSessionCommand requests a session status change.
type TransitionSessionCommand struct {
	SessionID       shared.SessionID
	RequestedStatus mentorship.Status
	ActingUserID    shared.UserID

	// SkillIDs are the practiced skills supplied with a completion. Ignored
	// for every other target status.
	SkillIDs []shared.SkillID
}

// Validate validates the command.
func (c TransitionSessionCommand) Validate() error {
	if !c.SessionID.IsValid() {
		return shared.NewDomainError("command", "TransitionSession", shared.ErrInvalidID, "session_id is required")
	}
	if c.RequestedStatus == "" {
		return shared.NewDomainError("command", "TransitionSession", shared.ErrEmptyValue, "status is required")
	}
	if !c.ActingUserID.IsValid() {
		return shared.NewDomainError("command", "TransitionSession", shared.ErrInvalidID, "user_id is required")
	}
	return nil
}

// TransitionSessionResult reports the applied transition.
type TransitionSessionResult struct {
	Session        *mentorship.Session
	PreviousStatus mentorship.Status
	Changed        bool
	SignalsAdded   int
	SkipReason     signal.SkipReason
}

// TransitionSessionHandler handles TransitionSessionCommand.
type TransitionSessionHandler struct {
	sessions  mentorship.Repository
	ledger    signal.Ledger
	tx        shared.TxRunner
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewTransitionSessionHandler creates the handler.
func NewTransitionSessionHandler(
	sessions mentorship.Repository,
	ledger signal.Ledger,
	tx shared.TxRunner,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *TransitionSessionHandler {
	return &TransitionSessionHandler{
		sessions:  sessions,
		ledger:    ledger,
		tx:        tx,
		publisher: publisher,
		log:       log.Named("transition_session"),
	}
}

// Handle applies the status change and, on completion, runs the emission
// guard and appends the resulting rows atomically with the status write.
func (h *TransitionSessionHandler) Handle(ctx context.Context, cmd TransitionSessionCommand) (*TransitionSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		sess *mentorship.Session
		tr   mentorship.TransitionResult
		dec  signal.Decision
	)

	err := h.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		sess, err = h.sessions.GetForUpdate(ctx, cmd.SessionID)
		if err != nil {
			return err
		}

		tr, err = sess.Transition(cmd.RequestedStatus, cmd.ActingUserID)
		if err != nil {
			return err
		}
		if !tr.Changed {
			return nil
		}
		if err := h.sessions.Update(ctx, sess); err != nil {
			return fmt.Errorf("transition_session: persist status: %w", err)
		}

		if tr.CompletedNow {
			dec = signal.Decide(sess.CompletionGuardInput(cmd.SkillIDs))
			if dec.Emit {
				if err := h.ledger.Append(ctx, dec.Entries); err != nil {
					return fmt.Errorf("transition_session: ledger append: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tr.CompletedNow && !dec.Emit {
		if dec.Reason == signal.SkipMalformedInput {
			h.log.Warn("emission skipped on malformed input",
				logger.Int64("session_id", sess.ID.Int64()),
				logger.String("reason", string(dec.Reason)),
			)
		} else {
			h.log.Info("emission skipped",
				logger.Int64("session_id", sess.ID.Int64()),
				logger.String("reason", string(dec.Reason)),
			)
		}
	}

	if tr.Changed {
		event := shared.NewSessionStatusChangedEvent(
			sess.ID, sess.MentorID, sess.InternID, tr.PreviousStatus.String(), sess.Status.String(),
		)
		if err := h.publisher.Publish(event); err != nil {
			h.log.Warn("publish failed", logger.Err(err), logger.Int64("session_id", sess.ID.Int64()))
		}
	}

	h.log.Info("session transition handled",
		logger.Int64("session_id", sess.ID.Int64()),
		logger.String("from", tr.PreviousStatus.String()),
		logger.String("to", sess.Status.String()),
		logger.Bool("changed", tr.Changed),
		logger.Int("signals", len(dec.Entries)),
	)
	return &TransitionSessionResult{
		Session:        sess,
		PreviousStatus: tr.PreviousStatus,
		Changed:        tr.Changed,
		SignalsAdded:   len(dec.Entries),
		SkipReason:     dec.Reason,
	}, nil
}
