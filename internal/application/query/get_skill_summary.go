package query

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/pkg/logger"
	"github.com/bonny2long/syncup-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SKILL SUMMARY QUERY
// Per-skill trend classification and velocity. Trend compares the weight
// gathered in the last two ISO weeks against the two weeks before those;
// velocity is cumulative weight per day since the skill's first signal.
// ══════════════════════════════════════════════════════════════════════════════

// Trend classifies a skill's recent trajectory.
type Trend string

const (
	// TrendEmerging - newly active with low cumulative weight.
	TrendEmerging Trend = "emerging"

	// TrendGrowing - recent window outweighs the prior one.
	TrendGrowing Trend = "growing"

	// TrendStable - roughly flat.
	TrendStable Trend = "stable"
)

// Classification thresholds for the emerging trend.
const (
	emergingMaxDays   = 14
	emergingMaxWeight = 5
)

// GetSkillSummaryQuery contains the summary parameters.
type GetSkillSummaryQuery struct {
	UserID shared.UserID

	// Now fixes the classification reference time. Zero means time.Now.
	Now time.Time
}

// Validate validates the query.
func (q GetSkillSummaryQuery) Validate() error {
	if !q.UserID.IsValid() {
		return shared.NewDomainError("query", "GetSkillSummary", shared.ErrInvalidID, "user_id is required")
	}
	return nil
}

// SkillSummaryRow is the classification for one skill.
type SkillSummaryRow struct {
	SkillID        shared.SkillID `json:"skill_id"`
	SkillName      string         `json:"skill_name"`
	TotalWeight    int            `json:"total_weight"`
	SignalCount    int            `json:"signal_count"`
	FirstSignal    time.Time      `json:"first_signal"`
	LastSignal     time.Time      `json:"last_signal"`
	DaysActive     int            `json:"days_active"`
	Trend          Trend          `json:"trend"`
	VelocityPerDay float64        `json:"velocity_per_day"`
}

// SkillSummaryResult is the summary view for one user.
type SkillSummaryResult struct {
	UserID shared.UserID     `json:"user_id"`
	Skills []SkillSummaryRow `json:"skills"`
}

// GetSkillSummaryHandler handles GetSkillSummaryQuery.
type GetSkillSummaryHandler struct {
	reader signal.Reader
	log    *logger.Logger
}

// NewGetSkillSummaryHandler creates the handler.
func NewGetSkillSummaryHandler(reader signal.Reader, log *logger.Logger) *GetSkillSummaryHandler {
	return &GetSkillSummaryHandler{reader: reader, log: log.Named("get_skill_summary")}
}

// Handle computes the summary view.
func (h *GetSkillSummaryHandler) Handle(ctx context.Context, q GetSkillSummaryQuery) (*SkillSummaryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	now := q.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	rows, err := h.reader.AggregatesByUser(ctx, q.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("get_skill_summary: %w", err)
	}

	res := &SkillSummaryResult{UserID: q.UserID, Skills: make([]SkillSummaryRow, 0, len(rows))}
	for _, r := range rows {
		daysActive := timeutil.DaysSince(r.FirstSignal, now)
		velocity := float64(r.TotalWeight) / float64(daysActive)

		res.Skills = append(res.Skills, SkillSummaryRow{
			SkillID:        r.SkillID,
			SkillName:      r.SkillName,
			TotalWeight:    r.TotalWeight,
			SignalCount:    r.SignalCount,
			FirstSignal:    r.FirstSignal,
			LastSignal:     r.LastSignal,
			DaysActive:     daysActive,
			Trend:          classify(r, daysActive),
			VelocityPerDay: math.Round(velocity*100) / 100,
		})
	}
	return res, nil
}

// classify picks the trend for one skill. Emerging wins over growing for a
// brand-new skill whose first weeks trivially outweigh an empty prior
// window.
func classify(r signal.SkillAggregate, daysActive int) Trend {
	if daysActive <= emergingMaxDays && r.TotalWeight <= emergingMaxWeight {
		return TrendEmerging
	}
	if r.RecentWeight > r.PriorWeight {
		return TrendGrowing
	}
	return TrendStable
}
