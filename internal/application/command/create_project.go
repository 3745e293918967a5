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
// CREATE PROJECT COMMAND
// Creates a project, auto-adds the owner as the first member, lazily creates
// the named skills, and emits the owner's joined signals via the guard.
// ══════════════════════════════════════════════════════════════════════════════

// CreateProjectCommand contains the data to create a project.
type CreateProjectCommand struct {
	OwnerID     shared.UserID
	Title       string
	Description string
	Visibility  project.Visibility
	SkillNames  []string
}

// Validate validates the command.
func (c CreateProjectCommand) Validate() error {
	if !c.OwnerID.IsValid() {
		return shared.NewDomainError("command", "CreateProject", shared.ErrInvalidID, "owner_id is required")
	}
	if c.Title == "" {
		return shared.NewDomainError("command", "CreateProject", shared.ErrEmptyValue, "title is required")
	}
	return nil
}

// CreateProjectResult reports the created project.
type CreateProjectResult struct {
	Project  *project.Project
	SkillIDs []shared.SkillID
}

// CreateProjectHandler handles CreateProjectCommand.
type CreateProjectHandler struct {
	projects project.Repository
	skills   skill.Repository
	ledger   signal.Ledger
	tx       shared.TxRunner
	log      *logger.Logger
}

// NewCreateProjectHandler creates the handler.
func NewCreateProjectHandler(
	projects project.Repository,
	skills skill.Repository,
	ledger signal.Ledger,
	tx shared.TxRunner,
	log *logger.Logger,
) *CreateProjectHandler {
	return &CreateProjectHandler{
		projects: projects,
		skills:   skills,
		ledger:   ledger,
		tx:       tx,
		log:      log.Named("create_project"),
	}
}

// Handle creates the project, membership, skill links, and the owner's
// joined signals in one transaction.
func (h *CreateProjectHandler) Handle(ctx context.Context, cmd CreateProjectCommand) (*CreateProjectResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	proj, err := project.New(cmd.OwnerID, cmd.Title, cmd.Visibility)
	if err != nil {
		return nil, err
	}
	proj.Description = cmd.Description

	var skillIDs []shared.SkillID

	err = h.tx.InTx(ctx, func(ctx context.Context) error {
		if err := h.projects.Create(ctx, proj); err != nil {
			return fmt.Errorf("create_project: persist project: %w", err)
		}
		if err := h.projects.AddMember(ctx, &project.Member{ProjectID: proj.ID, UserID: cmd.OwnerID}); err != nil {
			return fmt.Errorf("create_project: add owner membership: %w", err)
		}

		for _, name := range cmd.SkillNames {
			if skill.NormalizeName(name) == "" {
				continue
			}
			id, err := h.skills.FindOrCreate(ctx, name)
			if err != nil {
				return fmt.Errorf("create_project: resolve skill %q: %w", name, err)
			}
			if err := h.projects.LinkSkill(ctx, proj.ID, id); err != nil {
				return fmt.Errorf("create_project: link skill: %w", err)
			}
			skillIDs = append(skillIDs, id)
		}

		// The owner's auto-membership is a join like any other.
		return emitForJoin(ctx, h.ledger, h.log, proj.ID, cmd.OwnerID, skillIDs)
	})
	if err != nil {
		return nil, err
	}

	h.log.Info("project created",
		logger.Int64("project_id", proj.ID.Int64()),
		logger.Int("skills", len(skillIDs)),
	)
	return &CreateProjectResult{Project: proj, SkillIDs: skillIDs}, nil
}

// emitForJoin runs the guard for a membership join and appends the approved
// entries. Shared by project creation (owner auto-join) and member joins.
func emitForJoin(ctx context.Context, ledger signal.Ledger, log *logger.Logger, projectID shared.ProjectID, userID shared.UserID, skillIDs []shared.SkillID) error {
	decision := signal.Decide(signal.GuardInput{
		UserID:     userID,
		Source:     signal.ProjectSource(projectID),
		SignalType: signal.SignalJoined,
		SkillIDs:   skillIDs,
		Weight:     signal.WeightProjectJoin,
	})
	if !decision.Emit {
		if decision.Reason == signal.SkipMalformedInput {
			log.Warn("guard skipped malformed join emission",
				logger.Int64("project_id", projectID.Int64()),
				logger.Int64("user_id", userID.Int64()),
			)
		}
		return nil
	}
	return ledger.Append(ctx, decision.Entries)
}
