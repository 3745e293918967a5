package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/pkg/logger"
	"github.com/bonny2long/syncup-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SKILL MOMENTUM QUERY
// Weekly signal counts per skill with a week-over-week delta. The delta for
// a week is measured against the calendar week immediately before it; a
// skipped week counts as zero. The first observed week of a skill has no
// prior week and always reports delta 0.
// ══════════════════════════════════════════════════════════════════════════════

// GetMomentumQuery contains the momentum parameters.
type GetMomentumQuery struct {
	UserID shared.UserID
}

// Validate validates the query.
func (q GetMomentumQuery) Validate() error {
	if !q.UserID.IsValid() {
		return shared.NewDomainError("query", "GetMomentum", shared.ErrInvalidID, "user_id is required")
	}
	return nil
}

// MomentumPoint is one (skill, week) observation.
type MomentumPoint struct {
	Week  timeutil.YearWeek `json:"week"`
	Count int               `json:"count"`
	Delta int               `json:"delta"`
}

// SkillMomentum is the weekly series for one skill, weeks ascending.
type SkillMomentum struct {
	SkillID   shared.SkillID  `json:"skill_id"`
	SkillName string          `json:"skill_name"`
	Points    []MomentumPoint `json:"points"`
}

// MomentumResult is the momentum view for one user.
type MomentumResult struct {
	UserID shared.UserID   `json:"user_id"`
	Skills []SkillMomentum `json:"skills"`
}

// GetMomentumHandler handles GetMomentumQuery.
type GetMomentumHandler struct {
	reader signal.Reader
	log    *logger.Logger
}

// NewGetMomentumHandler creates the handler.
func NewGetMomentumHandler(reader signal.Reader, log *logger.Logger) *GetMomentumHandler {
	return &GetMomentumHandler{reader: reader, log: log.Named("get_momentum")}
}

// Handle computes the momentum view.
func (h *GetMomentumHandler) Handle(ctx context.Context, q GetMomentumQuery) (*MomentumResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.reader.WeeklyCountsByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_momentum: %w", err)
	}

	type series struct {
		name   string
		counts map[timeutil.YearWeek]int
		weeks  []timeutil.YearWeek
	}
	bySkill := make(map[shared.SkillID]*series)
	var order []shared.SkillID
	for _, r := range rows {
		s, ok := bySkill[r.SkillID]
		if !ok {
			s = &series{name: r.SkillName, counts: make(map[timeutil.YearWeek]int)}
			bySkill[r.SkillID] = s
			order = append(order, r.SkillID)
		}
		if _, seen := s.counts[r.Week]; !seen {
			s.weeks = append(s.weeks, r.Week)
		}
		s.counts[r.Week] += r.Count
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	res := &MomentumResult{UserID: q.UserID, Skills: make([]SkillMomentum, 0, len(order))}
	for _, id := range order {
		s := bySkill[id]
		timeutil.SortWeeks(s.weeks)

		points := make([]MomentumPoint, 0, len(s.weeks))
		for i, week := range s.weeks {
			p := MomentumPoint{Week: week, Count: s.counts[week]}
			if i > 0 {
				// A missing calendar-previous week means a zero count,
				// so the whole count reads as gained.
				p.Delta = p.Count - s.counts[week.Prev()]
			}
			points = append(points, p)
		}
		res.Skills = append(res.Skills, SkillMomentum{SkillID: id, SkillName: s.name, Points: points})
	}
	return res, nil
}
