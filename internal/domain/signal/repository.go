package signal

import (
	"context"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/pkg/timeutil"
)

// Ledger is the append-only write side of the signal store.
// There is deliberately no update or delete: once committed a row is
// permanent, and corrections happen through compensating entries.
// Implementations must write the batch atomically, and must honor an
// ambient transaction carried in ctx (see shared.TxRunner) so the append
// commits or rolls back together with the triggering state transition.
type Ledger interface {
	// Append inserts a non-empty batch of entries as a single atomic write.
	Append(ctx context.Context, entries []Entry) error
}

// ═══════════════════════════════════════════════════════════════════════════
// Read-side row types
// ═══════════════════════════════════════════════════════════════════════════

// SkillWeight is one row of the distribution view: total accumulated weight
// for a skill.
type SkillWeight struct {
	SkillID   shared.SkillID
	SkillName string
	Total     int
}

// WeeklySkillCount is one row of the momentum base data: signal count for a
// skill in one ISO week.
type WeeklySkillCount struct {
	SkillID   shared.SkillID
	SkillName string
	Week      timeutil.YearWeek
	Count     int
}

// WeeklySourceCount is one row of the activity mix: signal count for a
// source type in one ISO week.
type WeeklySourceCount struct {
	Week       timeutil.YearWeek
	SourceType SourceType
	Count      int
}

// SkillAggregate carries per-skill figures for trend and velocity
// classification. Recent/Prior windows are the last two ISO weeks and the
// two before those, measured in weight.
type SkillAggregate struct {
	SkillID      shared.SkillID
	SkillName    string
	TotalWeight  int
	SignalCount  int
	FirstSignal  time.Time
	LastSignal   time.Time
	RecentWeight int
	PriorWeight  int
}

// Reader is the read side consumed by the aggregation engine. All methods
// are point-in-time queries over committed ledger rows; read-committed
// isolation is sufficient since no view requires atomicity with another.
type Reader interface {
	// DistributionByUser returns sum(weight) per skill, descending by total.
	DistributionByUser(ctx context.Context, userID shared.UserID) ([]SkillWeight, error)

	// WeeklyCountsByUser returns signal counts per (skill, ISO week),
	// ordered by week ascending.
	WeeklyCountsByUser(ctx context.Context, userID shared.UserID) ([]WeeklySkillCount, error)

	// WeeklyMixByUser returns signal counts per (ISO week, source type),
	// ordered by week ascending.
	WeeklyMixByUser(ctx context.Context, userID shared.UserID) ([]WeeklySourceCount, error)

	// AggregatesByUser returns per-skill trend inputs. The reference time
	// fixes the recent/prior window boundaries.
	AggregatesByUser(ctx context.Context, userID shared.UserID, now time.Time) ([]SkillAggregate, error)
}
