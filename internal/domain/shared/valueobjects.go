// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import "time"

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID identifies a SyncUp user.
type UserID int64

// IsValid checks if the user ID is valid (positive).
func (u UserID) IsValid() bool {
	return u > 0
}

// Int64 returns the underlying int64 value.
func (u UserID) Int64() int64 {
	return int64(u)
}

// SkillID identifies a skill.
type SkillID int64

// IsValid checks if the skill ID is valid (positive).
func (s SkillID) IsValid() bool {
	return s > 0
}

// Int64 returns the underlying int64 value.
func (s SkillID) Int64() int64 {
	return int64(s)
}

// ProjectID identifies a project.
type ProjectID int64

// IsValid checks if the project ID is valid (positive).
func (p ProjectID) IsValid() bool {
	return p > 0
}

// Int64 returns the underlying int64 value.
func (p ProjectID) Int64() int64 {
	return int64(p)
}

// UpdateID identifies a posted progress update.
type UpdateID int64

// IsValid checks if the update ID is valid (positive).
func (u UpdateID) IsValid() bool {
	return u > 0
}

// Int64 returns the underlying int64 value.
func (u UpdateID) Int64() int64 {
	return int64(u)
}

// SessionID identifies a mentorship session.
type SessionID int64

// IsValid checks if the session ID is valid (positive).
func (s SessionID) IsValid() bool {
	return s > 0
}

// Int64 returns the underlying int64 value.
func (s SessionID) Int64() int64 {
	return int64(s)
}

// ═══════════════════════════════════════════════════════════════════════════
// Role Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Role is a user's platform role. It gates certain transitions: a mentor
// who owns a project may not move it to completed.
type Role string

const (
	RoleMember Role = "member"
	RoleIntern Role = "intern"
	RoleMentor Role = "mentor"
)

// IsValid checks if the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleIntern, RoleMentor:
		return true
	}
	return false
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ═══════════════════════════════════════════════════════════════════════════
// DedupIDs
// ═══════════════════════════════════════════════════════════════════════════

// DedupSkillIDs returns the unique skill ids in first-seen order, dropping
// non-positive values. Callers may legitimately repeat a skill in one
// request; the ledger gets one row per unique skill.
func DedupSkillIDs(ids []SkillID) []SkillID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[SkillID]struct{}, len(ids))
	out := make([]SkillID, 0, len(ids))
	for _, id := range ids {
		if !id.IsValid() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a half-open time period [From, To).
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// Contains checks if a time is within the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return !tm.Before(t.From) && tm.Before(t.To)
}

// LastNDays returns a TimeRange covering the last n days ending now.
func LastNDays(n int, now time.Time) TimeRange {
	return TimeRange{From: now.AddDate(0, 0, -n), To: now}
}
