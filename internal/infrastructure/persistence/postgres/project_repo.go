package postgres

import (
	"context"

	"github.com/bonny2long/syncup-backend/internal/domain/project"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROJECT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// ProjectRepository implements project.Repository on PostgreSQL.
type ProjectRepository struct {
	conn *Connection
}

// NewProjectRepository creates the repository.
func NewProjectRepository(conn *Connection) *ProjectRepository {
	return &ProjectRepository{conn: conn}
}

const projectColumns = "id, owner_id, title, description, status, visibility, created_at, updated_at"

// Create persists a new project and assigns its id.
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	const query = `
		INSERT INTO projects (owner_id, title, description, status, visibility)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.conn.QueryRow(ctx, query,
		p.OwnerID.Int64(), p.Title, p.Description, p.Status.String(), string(p.Visibility),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return shared.WrapError("project", "Create", shared.ErrStorageFailed, "insert failed", err)
	}
	return nil
}

// GetByID returns a project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id shared.ProjectID) (*project.Project, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate returns a project by id with a row lock held for the
// remainder of the ambient transaction.
func (r *ProjectRepository) GetForUpdate(ctx context.Context, id shared.ProjectID) (*project.Project, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *ProjectRepository) get(ctx context.Context, id shared.ProjectID, suffix string) (*project.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects WHERE id = $1" + suffix

	var p project.Project
	err := r.conn.QueryRow(ctx, query, id.Int64()).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Status, &p.Visibility, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NewDomainError("project", "GetByID", shared.ErrNotFound, "project not found")
		}
		return nil, shared.WrapError("project", "GetByID", shared.ErrStorageFailed, "query failed", err)
	}
	return &p, nil
}

// UpdateStatus writes the project's current status.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, p *project.Project) error {
	const query = `UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.conn.Exec(ctx, query, p.ID.Int64(), p.Status.String())
	if err != nil {
		return shared.WrapError("project", "UpdateStatus", shared.ErrStorageFailed, "update failed", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("project", "UpdateStatus", shared.ErrNotFound, "project not found")
	}
	return nil
}

// AddMember inserts a membership row.
func (r *ProjectRepository) AddMember(ctx context.Context, m *project.Member) error {
	const query = `INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`
	_, err := r.conn.Exec(ctx, query, m.ProjectID.Int64(), m.UserID.Int64())
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("project", "AddMember", shared.ErrAlreadyExists, "user is already a member")
		}
		return shared.WrapError("project", "AddMember", shared.ErrStorageFailed, "insert failed", err)
	}
	return nil
}

// IsMember reports whether the user is a member of the project.
func (r *ProjectRepository) IsMember(ctx context.Context, projectID shared.ProjectID, userID shared.UserID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.conn.QueryRow(ctx, query, projectID.Int64(), userID.Int64()).Scan(&exists); err != nil {
		return false, shared.WrapError("project", "IsMember", shared.ErrStorageFailed, "query failed", err)
	}
	return exists, nil
}

// MemberIDs returns the user ids of all project members.
func (r *ProjectRepository) MemberIDs(ctx context.Context, projectID shared.ProjectID) ([]shared.UserID, error) {
	const query = `SELECT user_id FROM project_members WHERE project_id = $1 ORDER BY joined_at ASC`
	rows, err := r.conn.Query(ctx, query, projectID.Int64())
	if err != nil {
		return nil, shared.WrapError("project", "MemberIDs", shared.ErrStorageFailed, "query failed", err)
	}
	defer rows.Close()

	var out []shared.UserID
	for rows.Next() {
		var id shared.UserID
		if err := rows.Scan(&id); err != nil {
			return nil, shared.WrapError("project", "MemberIDs", shared.ErrStorageFailed, "scan failed", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// LinkSkill associates a skill with the project. Linking twice is a no-op.
func (r *ProjectRepository) LinkSkill(ctx context.Context, projectID shared.ProjectID, skillID shared.SkillID) error {
	const query = `
		INSERT INTO project_skills (project_id, skill_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, skill_id) DO NOTHING
	`
	if _, err := r.conn.Exec(ctx, query, projectID.Int64(), skillID.Int64()); err != nil {
		return shared.WrapError("project", "LinkSkill", shared.ErrStorageFailed, "insert failed", err)
	}
	return nil
}

// CreateUpdate persists a progress update and assigns its id.
func (r *ProjectRepository) CreateUpdate(ctx context.Context, u *project.ProgressUpdate) error {
	const query = `
		INSERT INTO progress_updates (project_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.conn.QueryRow(ctx, query, u.ProjectID.Int64(), u.AuthorID.Int64(), u.Content).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return shared.WrapError("project", "CreateUpdate", shared.ErrStorageFailed, "insert failed", err)
	}
	return nil
}
