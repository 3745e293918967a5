package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SKILL SIGNAL LEDGER REPOSITORY
// Write side is append-only: this repository never issues UPDATE or DELETE
// against skill_signals. Read side serves the aggregation views.
// ══════════════════════════════════════════════════════════════════════════════

// SignalRepository implements signal.Ledger and signal.Reader on PostgreSQL.
type SignalRepository struct {
	conn *Connection

	// hasDeletedColumn is set for deployments whose ledger table carries a
	// legacy deleted_at column. Reads then exclude soft-deleted rows. This
	// is declared in configuration, never probed at runtime.
	hasDeletedColumn bool
}

// NewSignalRepository creates the repository.
func NewSignalRepository(conn *Connection, hasDeletedColumn bool) *SignalRepository {
	return &SignalRepository{conn: conn, hasDeletedColumn: hasDeletedColumn}
}

// deletedFilter returns the extra WHERE fragment for soft-delete-aware
// deployments. The alias must match the ledger table alias in the query.
func (r *SignalRepository) deletedFilter() string {
	if r.hasDeletedColumn {
		return " AND s.deleted_at IS NULL"
	}
	return ""
}

// Append inserts the batch as one atomic write. When the ctx carries an
// ambient transaction the rows commit with it; otherwise Append opens its
// own transaction around the batch.
func (r *SignalRepository) Append(ctx context.Context, entries []signal.Entry) error {
	if len(entries) == 0 {
		return signal.ErrEmptyBatch
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	return r.conn.InTx(ctx, func(ctx context.Context) error {
		const query = `
			INSERT INTO skill_signals (user_id, skill_id, source_type, source_id, signal_type, weight)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, e := range entries {
			_, err := r.conn.Exec(ctx, query,
				e.UserID.Int64(),
				e.SkillID.Int64(),
				string(e.Source.Type()),
				e.Source.ID(),
				string(e.SignalType),
				e.Weight,
			)
			if err != nil {
				return shared.WrapError("signal", "Append", shared.ErrStorageFailed, "ledger insert failed", err)
			}
		}
		return nil
	})
}

// DistributionByUser returns sum(weight) per skill, descending by total.
func (r *SignalRepository) DistributionByUser(ctx context.Context, userID shared.UserID) ([]signal.SkillWeight, error) {
	query := fmt.Sprintf(`
		SELECT s.skill_id, sk.name, SUM(s.weight)::int
		FROM skill_signals s
		JOIN skills sk ON sk.id = s.skill_id
		WHERE s.user_id = $1%s
		GROUP BY s.skill_id, sk.name
		ORDER BY SUM(s.weight) DESC, sk.name ASC
	`, r.deletedFilter())

	rows, err := r.conn.Query(ctx, query, userID.Int64())
	if err != nil {
		return nil, shared.WrapError("signal", "DistributionByUser", shared.ErrStorageFailed, "ledger read failed", err)
	}
	defer rows.Close()

	var out []signal.SkillWeight
	for rows.Next() {
		var w signal.SkillWeight
		if err := rows.Scan(&w.SkillID, &w.SkillName, &w.Total); err != nil {
			return nil, shared.WrapError("signal", "DistributionByUser", shared.ErrStorageFailed, "ledger read failed", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// isoWeekExpr buckets a timestamp column into "IYYY-Www" in SQL, matching
// pkg/timeutil's Go-side bucketing.
const isoWeekExpr = `to_char(%s AT TIME ZONE 'UTC', 'IYYY-"W"IW')`

// WeeklyCountsByUser returns signal counts per (skill, ISO week), weeks
// ascending.
func (r *SignalRepository) WeeklyCountsByUser(ctx context.Context, userID shared.UserID) ([]signal.WeeklySkillCount, error) {
	week := fmt.Sprintf(isoWeekExpr, "s.created_at")
	query := fmt.Sprintf(`
		SELECT s.skill_id, sk.name, %s AS week, COUNT(*)::int
		FROM skill_signals s
		JOIN skills sk ON sk.id = s.skill_id
		WHERE s.user_id = $1%s
		GROUP BY s.skill_id, sk.name, week
		ORDER BY week ASC, sk.name ASC
	`, week, r.deletedFilter())

	rows, err := r.conn.Query(ctx, query, userID.Int64())
	if err != nil {
		return nil, shared.WrapError("signal", "WeeklyCountsByUser", shared.ErrStorageFailed, "ledger read failed", err)
	}
	defer rows.Close()

	var out []signal.WeeklySkillCount
	for rows.Next() {
		var c signal.WeeklySkillCount
		if err := rows.Scan(&c.SkillID, &c.SkillName, &c.Week, &c.Count); err != nil {
			return nil, shared.WrapError("signal", "WeeklyCountsByUser", shared.ErrStorageFailed, "ledger read failed", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// WeeklyMixByUser returns signal counts per (ISO week, source type), weeks
// ascending.
func (r *SignalRepository) WeeklyMixByUser(ctx context.Context, userID shared.UserID) ([]signal.WeeklySourceCount, error) {
	week := fmt.Sprintf(isoWeekExpr, "s.created_at")
	query := fmt.Sprintf(`
		SELECT %s AS week, s.source_type, COUNT(*)::int
		FROM skill_signals s
		WHERE s.user_id = $1%s
		GROUP BY week, s.source_type
		ORDER BY week ASC, s.source_type ASC
	`, week, r.deletedFilter())

	rows, err := r.conn.Query(ctx, query, userID.Int64())
	if err != nil {
		return nil, shared.WrapError("signal", "WeeklyMixByUser", shared.ErrStorageFailed, "ledger read failed", err)
	}
	defer rows.Close()

	var out []signal.WeeklySourceCount
	for rows.Next() {
		var c signal.WeeklySourceCount
		if err := rows.Scan(&c.Week, &c.SourceType, &c.Count); err != nil {
			return nil, shared.WrapError("signal", "WeeklyMixByUser", shared.ErrStorageFailed, "ledger read failed", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AggregatesByUser returns per-skill trend inputs. The recent window is the
// current and previous ISO week; the prior window is the two weeks before
// those. Both boundaries derive from the caller's reference time.
func (r *SignalRepository) AggregatesByUser(ctx context.Context, userID shared.UserID, now time.Time) ([]signal.SkillAggregate, error) {
	recentStart := timeutil.WeeksAgo(now, 1)
	priorStart := timeutil.WeeksAgo(now, 3)

	query := fmt.Sprintf(`
		SELECT
			s.skill_id,
			sk.name,
			SUM(s.weight)::int,
			COUNT(*)::int,
			MIN(s.created_at),
			MAX(s.created_at),
			COALESCE(SUM(s.weight) FILTER (WHERE s.created_at >= $2), 0)::int,
			COALESCE(SUM(s.weight) FILTER (WHERE s.created_at >= $3 AND s.created_at < $2), 0)::int
		FROM skill_signals s
		JOIN skills sk ON sk.id = s.skill_id
		WHERE s.user_id = $1%s
		GROUP BY s.skill_id, sk.name
		ORDER BY SUM(s.weight) DESC, sk.name ASC
	`, r.deletedFilter())

	rows, err := r.conn.Query(ctx, query, userID.Int64(), recentStart, priorStart)
	if err != nil {
		return nil, shared.WrapError("signal", "AggregatesByUser", shared.ErrStorageFailed, "ledger read failed", err)
	}
	defer rows.Close()

	var out []signal.SkillAggregate
	for rows.Next() {
		var a signal.SkillAggregate
		if err := rows.Scan(
			&a.SkillID, &a.SkillName, &a.TotalWeight, &a.SignalCount,
			&a.FirstSignal, &a.LastSignal, &a.RecentWeight, &a.PriorWeight,
		); err != nil {
			return nil, shared.WrapError("signal", "AggregatesByUser", shared.ErrStorageFailed, "ledger read failed", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
