package query

import (
	"context"
	"fmt"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/pkg/logger"
	"github.com/bonny2long/syncup-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY MIX QUERY
// Weekly signal counts broken down by source type, for a stacked weekly
// chart. Weeks with no signals at all are simply absent from the series.
// ══════════════════════════════════════════════════════════════════════════════

// GetActivityMixQuery contains the activity mix parameters.
type GetActivityMixQuery struct {
	UserID shared.UserID
}

// Validate validates the query.
func (q GetActivityMixQuery) Validate() error {
	if !q.UserID.IsValid() {
		return shared.NewDomainError("query", "GetActivityMix", shared.ErrInvalidID, "user_id is required")
	}
	return nil
}

// ActivityWeek is the source breakdown for one ISO week.
type ActivityWeek struct {
	Week       timeutil.YearWeek `json:"week"`
	Project    int               `json:"project"`
	Update     int               `json:"update"`
	Mentorship int               `json:"mentorship"`
	Total      int               `json:"total"`
}

// ActivityMixResult is the activity mix view for one user, weeks ascending.
type ActivityMixResult struct {
	UserID shared.UserID  `json:"user_id"`
	Weeks  []ActivityWeek `json:"weeks"`
}

// GetActivityMixHandler handles GetActivityMixQuery.
type GetActivityMixHandler struct {
	reader signal.Reader
	log    *logger.Logger
}

// NewGetActivityMixHandler creates the handler.
func NewGetActivityMixHandler(reader signal.Reader, log *logger.Logger) *GetActivityMixHandler {
	return &GetActivityMixHandler{reader: reader, log: log.Named("get_activity_mix")}
}

// Handle computes the activity mix view.
func (h *GetActivityMixHandler) Handle(ctx context.Context, q GetActivityMixQuery) (*ActivityMixResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.reader.WeeklyMixByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_activity_mix: %w", err)
	}

	byWeek := make(map[timeutil.YearWeek]*ActivityWeek)
	var weeks []timeutil.YearWeek
	for _, r := range rows {
		w, ok := byWeek[r.Week]
		if !ok {
			w = &ActivityWeek{Week: r.Week}
			byWeek[r.Week] = w
			weeks = append(weeks, r.Week)
		}
		switch r.SourceType {
		case signal.SourceProject:
			w.Project += r.Count
		case signal.SourceUpdate:
			w.Update += r.Count
		case signal.SourceMentorship:
			w.Mentorship += r.Count
		}
		w.Total += r.Count
	}
	timeutil.SortWeeks(weeks)

	res := &ActivityMixResult{UserID: q.UserID, Weeks: make([]ActivityWeek, 0, len(weeks))}
	for _, week := range weeks {
		res.Weeks = append(res.Weeks, *byWeek[week])
	}
	return res, nil
}
