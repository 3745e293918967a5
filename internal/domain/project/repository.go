package project

import (
	"context"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// Repository defines project persistence. Implemented by the infrastructure
// layer. Methods honor an ambient transaction carried in ctx.
type Repository interface {
	// Create persists a new project and assigns its id.
	Create(ctx context.Context, p *Project) error

	// GetByID returns a project by id.
	GetByID(ctx context.Context, id shared.ProjectID) (*Project, error)

	// GetForUpdate returns a project by id with a row lock held for the
	// remainder of the ambient transaction. Status transitions read through
	// this so two concurrent transitions cannot both validate against the
	// same stale status.
	GetForUpdate(ctx context.Context, id shared.ProjectID) (*Project, error)

	// UpdateStatus writes the project's current status.
	UpdateStatus(ctx context.Context, p *Project) error

	// AddMember inserts a membership row.
	AddMember(ctx context.Context, m *Member) error

	// IsMember reports whether the user is a member of the project.
	IsMember(ctx context.Context, projectID shared.ProjectID, userID shared.UserID) (bool, error)

	// MemberIDs returns the user ids of all project members.
	MemberIDs(ctx context.Context, projectID shared.ProjectID) ([]shared.UserID, error)

	// LinkSkill associates a skill with the project.
	LinkSkill(ctx context.Context, projectID shared.ProjectID, skillID shared.SkillID) error

	// CreateUpdate persists a progress update and assigns its id.
	CreateUpdate(ctx context.Context, u *ProgressUpdate) error
}
