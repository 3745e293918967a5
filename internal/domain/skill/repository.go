package skill

import (
	"context"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// Repository defines skill catalog persistence. Implemented by the
// infrastructure layer; the domain has no knowledge of the storage.
type Repository interface {
	// FindOrCreate resolves a skill name to an id, creating the skill with
	// the default category when it does not exist. The name is normalized
	// before lookup. Honors an ambient transaction in ctx.
	FindOrCreate(ctx context.Context, name string) (shared.SkillID, error)

	// GetByIDs returns the skills for the given ids. Unknown ids are
	// silently absent from the result.
	GetByIDs(ctx context.Context, ids []shared.SkillID) ([]*Skill, error)

	// IDsForProject returns the skill ids linked to a project.
	IDsForProject(ctx context.Context, projectID shared.ProjectID) ([]shared.SkillID, error)
}
