// Package postgres implements the PostgreSQL persistence layer for SyncUp.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CORE TABLES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users, skills, and project tables
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'member',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('member', 'intern', 'mentor'))
);

CREATE TABLE IF NOT EXISTS skills (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    category VARCHAR(50) NOT NULL DEFAULT 'uncategorized',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_skills_name ON skills(name);

CREATE TABLE IF NOT EXISTS projects (
    id BIGSERIAL PRIMARY KEY,
    owner_id BIGINT NOT NULL REFERENCES users(id),
    title VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'planned',
    visibility VARCHAR(20) NOT NULL DEFAULT 'public',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_status CHECK (status IN ('planned', 'active', 'completed', 'archived')),
    CONSTRAINT valid_visibility CHECK (visibility IN ('public', 'seeking'))
);

CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

CREATE TABLE IF NOT EXISTS project_members (
    project_id BIGINT NOT NULL REFERENCES projects(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    joined_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (project_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_project_members_user ON project_members(user_id);

CREATE TABLE IF NOT EXISTS project_skills (
    project_id BIGINT NOT NULL REFERENCES projects(id),
    skill_id BIGINT NOT NULL REFERENCES skills(id),

    PRIMARY KEY (project_id, skill_id)
);

CREATE TABLE IF NOT EXISTS progress_updates (
    id BIGSERIAL PRIMARY KEY,
    project_id BIGINT NOT NULL REFERENCES projects(id),
    author_id BIGINT NOT NULL REFERENCES users(id),
    content TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_progress_updates_project ON progress_updates(project_id);
`

const migration001Down = `
DROP TABLE IF EXISTS progress_updates;
DROP TABLE IF EXISTS project_skills;
DROP TABLE IF EXISTS project_members;
DROP TABLE IF EXISTS projects;
DROP TABLE IF EXISTS skills;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: MENTORSHIP AND THE SIGNAL LEDGER
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create mentorship sessions and the skill signal ledger
-- Version: 002

CREATE TABLE IF NOT EXISTS mentorship_sessions (
    id BIGSERIAL PRIMARY KEY,
    mentor_id BIGINT NOT NULL REFERENCES users(id),
    intern_id BIGINT NOT NULL REFERENCES users(id),
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    session_focus VARCHAR(50) NOT NULL,
    session_date TIMESTAMP WITH TIME ZONE NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_session_status CHECK (status IN ('pending', 'accepted', 'declined', 'completed', 'rescheduled')),
    CONSTRAINT distinct_parties CHECK (mentor_id <> intern_id)
);

CREATE INDEX IF NOT EXISTS idx_sessions_mentor ON mentorship_sessions(mentor_id);
CREATE INDEX IF NOT EXISTS idx_sessions_intern ON mentorship_sessions(intern_id);

-- The ledger is append-only: no UPDATE or DELETE is ever issued against
-- this table, and there is no updated_at column to tempt anyone.
CREATE TABLE IF NOT EXISTS skill_signals (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    skill_id BIGINT NOT NULL REFERENCES skills(id),
    source_type VARCHAR(20) NOT NULL,
    source_id BIGINT NOT NULL,
    signal_type VARCHAR(20) NOT NULL,
    weight INTEGER NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_source_type CHECK (source_type IN ('project', 'update', 'mentorship')),
    CONSTRAINT valid_signal_type CHECK (signal_type IN ('joined', 'update', 'completed')),
    CONSTRAINT positive_weight CHECK (weight > 0)
);

CREATE INDEX IF NOT EXISTS idx_signals_user ON skill_signals(user_id);
CREATE INDEX IF NOT EXISTS idx_signals_user_skill ON skill_signals(user_id, skill_id);
CREATE INDEX IF NOT EXISTS idx_signals_user_created ON skill_signals(user_id, created_at);
`

const migration002Down = `
DROP TABLE IF EXISTS skill_signals;
DROP TABLE IF EXISTS mentorship_sessions;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: NOTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create the notification store
-- Version: 003

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    recipient_id BIGINT NOT NULL REFERENCES users(id),
    type VARCHAR(40) NOT NULL,
    title VARCHAR(200) NOT NULL,
    message TEXT NOT NULL,
    link VARCHAR(300) NOT NULL DEFAULT '',
    related_type VARCHAR(20) NOT NULL DEFAULT '',
    related_id BIGINT NOT NULL DEFAULT 0,
    read_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(recipient_id) WHERE read_at IS NULL;
`

const migration003Down = `
DROP TABLE IF EXISTS notifications;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_core_tables",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_mentorship_and_ledger",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_notifications",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
