package postgres

import (
	"context"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// SKILL REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// SkillRepository implements skill.Repository on PostgreSQL.
type SkillRepository struct {
	conn *Connection
}

// NewSkillRepository creates the repository.
func NewSkillRepository(conn *Connection) *SkillRepository {
	return &SkillRepository{conn: conn}
}

// FindOrCreate resolves a normalized skill name to an id, creating the
// skill with the default category when missing. The upsert makes concurrent
// first references of the same name converge on one row.
func (r *SkillRepository) FindOrCreate(ctx context.Context, name string) (shared.SkillID, error) {
	norm := skill.NormalizeName(name)
	if norm == "" {
		return 0, shared.NewDomainError("skill", "FindOrCreate", shared.ErrEmptyValue, "skill name is required")
	}

	const query = `
		INSERT INTO skills (name, category)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	var id shared.SkillID
	if err := r.conn.QueryRow(ctx, query, norm, skill.DefaultCategory).Scan(&id); err != nil {
		return 0, shared.WrapError("skill", "FindOrCreate", shared.ErrStorageFailed, "upsert failed", err)
	}
	return id, nil
}

// GetByIDs returns the skills for the given ids. Unknown ids are silently
// absent from the result.
func (r *SkillRepository) GetByIDs(ctx context.Context, ids []shared.SkillID) ([]*skill.Skill, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Int64())
	}

	const query = `SELECT id, name, category, created_at FROM skills WHERE id = ANY($1) ORDER BY name ASC`
	rows, err := r.conn.Query(ctx, query, raw)
	if err != nil {
		return nil, shared.WrapError("skill", "GetByIDs", shared.ErrStorageFailed, "query failed", err)
	}
	defer rows.Close()

	var out []*skill.Skill
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
			return nil, shared.WrapError("skill", "GetByIDs", shared.ErrStorageFailed, "scan failed", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// IDsForProject returns the skill ids linked to a project.
func (r *SkillRepository) IDsForProject(ctx context.Context, projectID shared.ProjectID) ([]shared.SkillID, error) {
	const query = `SELECT skill_id FROM project_skills WHERE project_id = $1 ORDER BY skill_id ASC`
	rows, err := r.conn.Query(ctx, query, projectID.Int64())
	if err != nil {
		return nil, shared.WrapError("skill", "IDsForProject", shared.ErrStorageFailed, "query failed", err)
	}
	defer rows.Close()

	var out []shared.SkillID
	for rows.Next() {
		var id shared.SkillID
		if err := rows.Scan(&id); err != nil {
			return nil, shared.WrapError("skill", "IDsForProject", shared.ErrStorageFailed, "scan failed", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
