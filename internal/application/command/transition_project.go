// Package command contains write operations (CQRS - Commands).
// Every handler that can emit signals runs its entity mutation, the
// emission guard, and the ledger append inside one transaction; domain
// events are published only after that transaction commits.
package command

import (
	"context"
	"fmt"

	"github.com/bonny2long/syncup-backend/internal/domain/project"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/user"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITION PROJECT STATUS COMMAND
// Enforces the forward-only project lifecycle. Does not touch the ledger:
// project skill attribution happens at join and update time, not here.
// ══════════════════════════════════════════════════════════════════════════════

// TransitionProjectCommand requests a project status change.
type TransitionProjectCommand struct {
	ProjectID       shared.ProjectID
	RequestedStatus project.Status
	ActingUserID    shared.UserID
}

// Validate validates the command.
func (c TransitionProjectCommand) Validate() error {
	if !c.ProjectID.IsValid() {
		return shared.NewDomainError("command", "TransitionProject", shared.ErrInvalidID, "project_id is required")
	}
	if c.RequestedStatus == "" {
		return shared.NewDomainError("command", "TransitionProject", shared.ErrEmptyValue, "status is required")
	}
	if !c.ActingUserID.IsValid() {
		return shared.NewDomainError("command", "TransitionProject", shared.ErrInvalidID, "user_id is required")
	}
	return nil
}

// TransitionProjectResult reports the applied transition.
type TransitionProjectResult struct {
	Project        *project.Project
	PreviousStatus project.Status
}

// TransitionProjectHandler handles TransitionProjectCommand.
type TransitionProjectHandler struct {
	projects  project.Repository
	users     user.Repository
	tx        shared.TxRunner
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewTransitionProjectHandler creates the handler.
func NewTransitionProjectHandler(
	projects project.Repository,
	users user.Repository,
	tx shared.TxRunner,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *TransitionProjectHandler {
	return &TransitionProjectHandler{
		projects:  projects,
		users:     users,
		tx:        tx,
		publisher: publisher,
		log:       log.Named("transition_project"),
	}
}

// Handle validates and applies the status change in one transaction, then
// publishes the status-change event. Completion notifications fan out to
// the other members via the event, strictly after commit.
func (h *TransitionProjectHandler) Handle(ctx context.Context, cmd TransitionProjectCommand) (*TransitionProjectResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor, err := h.users.GetByID(ctx, cmd.ActingUserID)
	if err != nil {
		return nil, fmt.Errorf("transition_project: resolve acting user: %w", err)
	}

	var (
		proj     *project.Project
		prev     project.Status
		memberIDs []shared.UserID
	)

	err = h.tx.InTx(ctx, func(ctx context.Context) error {
		// Row lock: two concurrent transitions must not both validate
		// against the same stale status.
		proj, err = h.projects.GetForUpdate(ctx, cmd.ProjectID)
		if err != nil {
			return err
		}
		prev = proj.Status

		if err := proj.Transition(cmd.RequestedStatus, cmd.ActingUserID, actor.Role); err != nil {
			return err
		}
		if err := h.projects.UpdateStatus(ctx, proj); err != nil {
			return fmt.Errorf("transition_project: persist status: %w", err)
		}

		if proj.Status == project.StatusCompleted && prev != project.StatusCompleted {
			memberIDs, err = h.projects.MemberIDs(ctx, proj.ID)
			if err != nil {
				return fmt.Errorf("transition_project: load members: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if prev != proj.Status {
		others := make([]shared.UserID, 0, len(memberIDs))
		for _, id := range memberIDs {
			if id != proj.OwnerID {
				others = append(others, id)
			}
		}
		event := shared.NewProjectStatusChangedEvent(
			proj.ID, proj.Title, proj.OwnerID, prev.String(), proj.Status.String(), others,
		)
		if err := h.publisher.Publish(event); err != nil {
			// Post-commit side effects never fail the request.
			h.log.Warn("publish failed", logger.Err(err), logger.Int64("project_id", proj.ID.Int64()))
		}
	}

	h.log.Info("project status changed",
		logger.Int64("project_id", proj.ID.Int64()),
		logger.String("from", prev.String()),
		logger.String("to", proj.Status.String()),
	)
	return &TransitionProjectResult{Project: proj, PreviousStatus: prev}, nil
}
