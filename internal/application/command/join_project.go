package command

import (
	"context"
	"fmt"

	"github.com/bonny2long/syncup-backend/internal/domain/project"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/internal/domain/skill"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOIN PROJECT COMMAND
// Membership join is a signal source: one joined row per linked skill,
// weight 1, inside the same transaction as the membership insert.
// ══════════════════════════════════════════════════════════════════════════════

// JoinProjectCommand contains the data to join a project.
type JoinProjectCommand struct {
	ProjectID shared.ProjectID
	UserID    shared.UserID
}

// Validate validates the command.
func (c JoinProjectCommand) Validate() error {
	if !c.ProjectID.IsValid() {
		return shared.NewDomainError("command", "JoinProject", shared.ErrInvalidID, "project_id is required")
	}
	if !c.UserID.IsValid() {
		return shared.NewDomainError("command", "JoinProject", shared.ErrInvalidID, "user_id is required")
	}
	return nil
}

// JoinProjectResult reports the join.
type JoinProjectResult struct {
	ProjectID    shared.ProjectID
	UserID       shared.UserID
	SignalsAdded int
}

// JoinProjectHandler handles JoinProjectCommand.
type JoinProjectHandler struct {
	projects  project.Repository
	skills    skill.Repository
	ledger    signal.Ledger
	tx        shared.TxRunner
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewJoinProjectHandler creates the handler.
func NewJoinProjectHandler(
	projects project.Repository,
	skills skill.Repository,
	ledger signal.Ledger,
	tx shared.TxRunner,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *JoinProjectHandler {
	return &JoinProjectHandler{
		projects:  projects,
		skills:    skills,
		ledger:    ledger,
		tx:        tx,
		publisher: publisher,
		log:       log.Named("join_project"),
	}
}

// Handle adds the membership and the joined signals atomically, then
// notifies the owner post-commit.
func (h *JoinProjectHandler) Handle(ctx context.Context, cmd JoinProjectCommand) (*JoinProjectResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		proj    *project.Project
		emitted int
	)

	err := h.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		proj, err = h.projects.GetByID(ctx, cmd.ProjectID)
		if err != nil {
			return err
		}

		member, err := h.projects.IsMember(ctx, cmd.ProjectID, cmd.UserID)
		if err != nil {
			return fmt.Errorf("join_project: membership check: %w", err)
		}
		if member {
			return shared.NewDomainError("project", "Join", shared.ErrAlreadyExists, "user is already a member")
		}

		if err := h.projects.AddMember(ctx, &project.Member{ProjectID: cmd.ProjectID, UserID: cmd.UserID}); err != nil {
			return fmt.Errorf("join_project: add member: %w", err)
		}

		skillIDs, err := h.skills.IDsForProject(ctx, cmd.ProjectID)
		if err != nil {
			return fmt.Errorf("join_project: load project skills: %w", err)
		}

		decision := signal.Decide(signal.GuardInput{
			UserID:     cmd.UserID,
			Source:     signal.ProjectSource(cmd.ProjectID),
			SignalType: signal.SignalJoined,
			SkillIDs:   skillIDs,
			Weight:     signal.WeightProjectJoin,
		})
		if decision.Emit {
			if err := h.ledger.Append(ctx, decision.Entries); err != nil {
				// Aborts the whole join, membership row included.
				return fmt.Errorf("join_project: ledger append: %w", err)
			}
			emitted = len(decision.Entries)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := shared.NewMemberJoinedEvent(proj.ID, proj.Title, cmd.UserID, proj.OwnerID)
	if err := h.publisher.Publish(event); err != nil {
		h.log.Warn("publish failed", logger.Err(err), logger.Int64("project_id", proj.ID.Int64()))
	}

	h.log.Info("member joined",
		logger.Int64("project_id", cmd.ProjectID.Int64()),
		logger.Int64("user_id", cmd.UserID.Int64()),
		logger.Int("signals", emitted),
	)
	return &JoinProjectResult{ProjectID: cmd.ProjectID, UserID: cmd.UserID, SignalsAdded: emitted}, nil
}
