// Package skill contains the skill catalog domain. Skills are created
// lazily as a side effect of project creation and update posting, never by
// the ledger itself. This is a pure domain layer with zero external
// dependencies.
package skill

import (
	"strings"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
)

// DefaultCategory is assigned to skills created lazily by name.
const DefaultCategory = "uncategorized"

// Skill is a named skill in the catalog. Names are unique after
// normalization.
type Skill struct {
	ID        shared.SkillID
	Name      string
	Category  string
	CreatedAt time.Time
}

// NormalizeName lowercases and trims a skill name. All lookups and inserts
// go through normalization so "Go" and "go " are the same skill.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New creates an unsaved skill from a raw name. An empty normalized name is
// a validation error.
func New(name, category string) (*Skill, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, shared.NewDomainError("skill", "New", shared.ErrEmptyValue, "skill name cannot be empty")
	}
	if category == "" {
		category = DefaultCategory
	}
	return &Skill{Name: normalized, Category: category}, nil
}
