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
// POST PROGRESS UPDATE COMMAND
// Posting an update lazily creates referenced skills and emits one update
// signal per unique skill, weight 1, in the same transaction as the update
// row. Other members are notified post-commit.
// ══════════════════════════════════════════════════════════════════════════════

// PostUpdateCommand contains the data to post a progress update.
type PostUpdateCommand struct {
	ProjectID  shared.ProjectID
	AuthorID   shared.UserID
	Content    string
	SkillNames []string
}

// Validate validates the command.
func (c PostUpdateCommand) Validate() error {
	if !c.ProjectID.IsValid() {
		return shared.NewDomainError("command", "PostUpdate", shared.ErrInvalidID, "project_id is required")
	}
	if !c.AuthorID.IsValid() {
		return shared.NewDomainError("command", "PostUpdate", shared.ErrInvalidID, "user_id is required")
	}
	if c.Content == "" {
		return shared.NewDomainError("command", "PostUpdate", shared.ErrEmptyValue, "content is required")
	}
	return nil
}

// PostUpdateResult reports the posted update.
type PostUpdateResult struct {
	Update       *project.ProgressUpdate
	SkillIDs     []shared.SkillID
	SignalsAdded int
}

// PostUpdateHandler handles PostUpdateCommand.
type PostUpdateHandler struct {
	projects  project.Repository
	skills    skill.Repository
	ledger    signal.Ledger
	tx        shared.TxRunner
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewPostUpdateHandler creates the handler.
func NewPostUpdateHandler(
	projects project.Repository,
	skills skill.Repository,
	ledger signal.Ledger,
	tx shared.TxRunner,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *PostUpdateHandler {
	return &PostUpdateHandler{
		projects:  projects,
		skills:    skills,
		ledger:    ledger,
		tx:        tx,
		publisher: publisher,
		log:       log.Named("post_update"),
	}
}

// Handle persists the update, resolves skills, and appends the signals in
// one transaction.
func (h *PostUpdateHandler) Handle(ctx context.Context, cmd PostUpdateCommand) (*PostUpdateResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		proj      *project.Project
		upd       *project.ProgressUpdate
		skillIDs  []shared.SkillID
		memberIDs []shared.UserID
		emitted   int
	)

	err := h.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		proj, err = h.projects.GetByID(ctx, cmd.ProjectID)
		if err != nil {
			return err
		}

		member, err := h.projects.IsMember(ctx, cmd.ProjectID, cmd.AuthorID)
		if err != nil {
			return fmt.Errorf("post_update: membership check: %w", err)
		}
		if !member {
			return shared.NewDomainError("project", "PostUpdate", shared.ErrForbidden, "only members may post updates")
		}

		upd = &project.ProgressUpdate{
			ProjectID: cmd.ProjectID,
			AuthorID:  cmd.AuthorID,
			Content:   cmd.Content,
		}
		if err := h.projects.CreateUpdate(ctx, upd); err != nil {
			return fmt.Errorf("post_update: persist update: %w", err)
		}

		for _, name := range cmd.SkillNames {
			if skill.NormalizeName(name) == "" {
				continue
			}
			id, err := h.skills.FindOrCreate(ctx, name)
			if err != nil {
				return fmt.Errorf("post_update: resolve skill %q: %w", name, err)
			}
			skillIDs = append(skillIDs, id)
		}

		decision := signal.Decide(signal.GuardInput{
			UserID:     cmd.AuthorID,
			Source:     signal.UpdateSource(upd.ID),
			SignalType: signal.SignalUpdate,
			SkillIDs:   skillIDs,
			Weight:     signal.WeightProgressUpdate,
		})
		if decision.Emit {
			if err := h.ledger.Append(ctx, decision.Entries); err != nil {
				return fmt.Errorf("post_update: ledger append: %w", err)
			}
			emitted = len(decision.Entries)
		}

		memberIDs, err = h.projects.MemberIDs(ctx, cmd.ProjectID)
		if err != nil {
			return fmt.Errorf("post_update: load members: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	others := make([]shared.UserID, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != cmd.AuthorID {
			others = append(others, id)
		}
	}
	event := shared.NewUpdatePostedEvent(upd.ID, proj.ID, proj.Title, cmd.AuthorID, others)
	if err := h.publisher.Publish(event); err != nil {
		h.log.Warn("publish failed", logger.Err(err), logger.Int64("update_id", upd.ID.Int64()))
	}

	h.log.Info("update posted",
		logger.Int64("project_id", cmd.ProjectID.Int64()),
		logger.Int64("update_id", upd.ID.Int64()),
		logger.Int("signals", emitted),
	)
	return &PostUpdateResult{Update: upd, SkillIDs: skillIDs, SignalsAdded: emitted}, nil
}
