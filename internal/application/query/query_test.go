package query

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

type fakeReader struct {
	distribution []signal.SkillWeight
	weekly       []signal.WeeklySkillCount
	mix          []signal.WeeklySourceCount
	aggregates   []signal.SkillAggregate
}

func (f *fakeReader) DistributionByUser(ctx context.Context, userID shared.UserID) ([]signal.SkillWeight, error) {
	return f.distribution, nil
}

func (f *fakeReader) WeeklyCountsByUser(ctx context.Context, userID shared.UserID) ([]signal.WeeklySkillCount, error) {
	return f.weekly, nil
}

func (f *fakeReader) WeeklyMixByUser(ctx context.Context, userID shared.UserID) ([]signal.WeeklySourceCount, error) {
	return f.mix, nil
}

func (f *fakeReader) AggregatesByUser(ctx context.Context, userID shared.UserID, now time.Time) ([]signal.SkillAggregate, error) {
	return f.aggregates, nil
}

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError)
}

func TestGetDistribution_PreservesReaderOrderAndIsIdempotent(t *testing.T) {
	reader := &fakeReader{distribution: []signal.SkillWeight{
		{SkillID: 4, SkillName: "go", Total: 12},
		{SkillID: 7, SkillName: "sql", Total: 5},
	}}
	h := NewGetDistributionHandler(reader, testLogger())

	first, err := h.Handle(context.Background(), GetDistributionQuery{UserID: 1})
	require.NoError(t, err)
	second, err := h.Handle(context.Background(), GetDistributionQuery{UserID: 1})
	require.NoError(t, err)

	require.Len(t, first.Skills, 2)
	assert.Equal(t, "go", first.Skills[0].SkillName)
	assert.Equal(t, 12, first.Skills[0].TotalWeight)
	assert.Equal(t, first, second, "unchanged ledger yields identical results")
}

func TestGetDistribution_InvalidUser(t *testing.T) {
	h := NewGetDistributionHandler(&fakeReader{}, testLogger())
	_, err := h.Handle(context.Background(), GetDistributionQuery{})
	assert.True(t, shared.IsValidation(err))
}

func TestGetMomentum_FirstWeekDeltaIsZero(t *testing.T) {
	reader := &fakeReader{weekly: []signal.WeeklySkillCount{
		{SkillID: 4, SkillName: "go", Week: "2026-W33", Count: 2},
		{SkillID: 4, SkillName: "go", Week: "2026-W34", Count: 5},
		{SkillID: 4, SkillName: "go", Week: "2026-W35", Count: 3},
	}}
	h := NewGetMomentumHandler(reader, testLogger())

	res, err := h.Handle(context.Background(), GetMomentumQuery{UserID: 1})
	require.NoError(t, err)

	require.Len(t, res.Skills, 1)
	points := res.Skills[0].Points
	require.Len(t, points, 3)
	assert.Equal(t, 0, points[0].Delta, "first observed week has no prior to diff against")
	assert.Equal(t, 3, points[1].Delta)
	assert.Equal(t, -2, points[2].Delta)
}

func TestGetMomentum_GapWeekCountsAsZero(t *testing.T) {
	reader := &fakeReader{weekly: []signal.WeeklySkillCount{
		{SkillID: 4, SkillName: "go", Week: "2026-W33", Count: 2},
		{SkillID: 4, SkillName: "go", Week: "2026-W35", Count: 4},
	}}
	h := NewGetMomentumHandler(reader, testLogger())

	res, err := h.Handle(context.Background(), GetMomentumQuery{UserID: 1})
	require.NoError(t, err)

	points := res.Skills[0].Points
	require.Len(t, points, 2)
	// W34 had nothing, so the whole W35 count reads as gained.
	assert.Equal(t, 4, points[1].Delta)
}

func TestGetMomentum_SkillsIndependent(t *testing.T) {
	reader := &fakeReader{weekly: []signal.WeeklySkillCount{
		{SkillID: 4, SkillName: "go", Week: "2026-W34", Count: 2},
		{SkillID: 7, SkillName: "sql", Week: "2026-W35", Count: 6},
		{SkillID: 4, SkillName: "go", Week: "2026-W35", Count: 1},
	}}
	h := NewGetMomentumHandler(reader, testLogger())

	res, err := h.Handle(context.Background(), GetMomentumQuery{UserID: 1})
	require.NoError(t, err)

	require.Len(t, res.Skills, 2)
	assert.Equal(t, shared.SkillID(4), res.Skills[0].SkillID)
	assert.Equal(t, -1, res.Skills[0].Points[1].Delta)
	// sql's first week is W35 even though go was already active.
	assert.Equal(t, 0, res.Skills[1].Points[0].Delta)
}

func TestGetActivityMix_StacksBySource(t *testing.T) {
	reader := &fakeReader{mix: []signal.WeeklySourceCount{
		{Week: "2026-W34", SourceType: signal.SourceProject, Count: 2},
		{Week: "2026-W34", SourceType: signal.SourceMentorship, Count: 1},
		{Week: "2026-W35", SourceType: signal.SourceUpdate, Count: 4},
	}}
	h := NewGetActivityMixHandler(reader, testLogger())

	res, err := h.Handle(context.Background(), GetActivityMixQuery{UserID: 1})
	require.NoError(t, err)

	require.Len(t, res.Weeks, 2)
	w34 := res.Weeks[0]
	assert.Equal(t, 2, w34.Project)
	assert.Equal(t, 1, w34.Mentorship)
	assert.Equal(t, 0, w34.Update)
	assert.Equal(t, 3, w34.Total)
	assert.Equal(t, 4, res.Weeks[1].Update)
}

func TestGetSkillSummary_Classification(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	reader := &fakeReader{aggregates: []signal.SkillAggregate{
		{
			// 5 days old, weight 3: emerging.
			SkillID: 1, SkillName: "rust", TotalWeight: 3, SignalCount: 3,
			FirstSignal: now.AddDate(0, 0, -5), LastSignal: now,
			RecentWeight: 3, PriorWeight: 0,
		},
		{
			// Old skill gaining weight: growing.
			SkillID: 2, SkillName: "go", TotalWeight: 40, SignalCount: 25,
			FirstSignal: now.AddDate(0, 0, -80), LastSignal: now,
			RecentWeight: 9, PriorWeight: 4,
		},
		{
			// Flat: stable.
			SkillID: 3, SkillName: "sql", TotalWeight: 20, SignalCount: 15,
			FirstSignal: now.AddDate(0, 0, -40), LastSignal: now.AddDate(0, 0, -3),
			RecentWeight: 2, PriorWeight: 2,
		},
	}}
	h := NewGetSkillSummaryHandler(reader, testLogger())

	res, err := h.Handle(context.Background(), GetSkillSummaryQuery{UserID: 1, Now: now})
	require.NoError(t, err)

	require.Len(t, res.Skills, 3)
	assert.Equal(t, TrendEmerging, res.Skills[0].Trend)
	assert.Equal(t, TrendGrowing, res.Skills[1].Trend)
	assert.Equal(t, TrendStable, res.Skills[2].Trend)

	assert.Equal(t, 0.5, res.Skills[1].VelocityPerDay, "40 weight over 80 days")
	assert.Equal(t, 0.6, res.Skills[0].VelocityPerDay, "3 weight over 5 days")
}

func TestGetSkillSummary_SameDayFirstSignalVelocity(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	reader := &fakeReader{aggregates: []signal.SkillAggregate{{
		SkillID: 1, SkillName: "go", TotalWeight: 3, SignalCount: 3,
		FirstSignal: now.Add(-2 * time.Hour), LastSignal: now,
	}}}
	h := NewGetSkillSummaryHandler(reader, testLogger())

	res, err := h.Handle(context.Background(), GetSkillSummaryQuery{UserID: 1, Now: now})
	require.NoError(t, err)
	// Days active floors at 1, so velocity equals the total weight.
	assert.Equal(t, 1, res.Skills[0].DaysActive)
	assert.Equal(t, float64(3), res.Skills[0].VelocityPerDay)
}
