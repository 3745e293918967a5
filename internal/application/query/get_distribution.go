// Package query contains read operations (CQRS - Queries).
// Every view here is derived on demand from committed ledger rows; nothing
// is materialized, so a view can never disagree with the ledger.
package query

import (
	"context"
	"fmt"

	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SKILL DISTRIBUTION QUERY
// Total accumulated weight per skill for one user, descending. Pure
// aggregation over the ledger: running it twice over an unchanged ledger
// yields identical results.
// ══════════════════════════════════════════════════════════════════════════════

// GetDistributionQuery contains the distribution parameters.
type GetDistributionQuery struct {
	UserID shared.UserID
}

// Validate validates the query.
func (q GetDistributionQuery) Validate() error {
	if !q.UserID.IsValid() {
		return shared.NewDomainError("query", "GetDistribution", shared.ErrInvalidID, "user_id is required")
	}
	return nil
}

// DistributionRow is one skill slice of the distribution view.
type DistributionRow struct {
	SkillID     shared.SkillID `json:"skill_id"`
	SkillName   string         `json:"skill_name"`
	TotalWeight int            `json:"total_weight"`
}

// DistributionResult is the distribution view for one user.
type DistributionResult struct {
	UserID shared.UserID     `json:"user_id"`
	Skills []DistributionRow `json:"skills"`
}

// GetDistributionHandler handles GetDistributionQuery.
type GetDistributionHandler struct {
	reader signal.Reader
	log    *logger.Logger
}

// NewGetDistributionHandler creates the handler.
func NewGetDistributionHandler(reader signal.Reader, log *logger.Logger) *GetDistributionHandler {
	return &GetDistributionHandler{reader: reader, log: log.Named("get_distribution")}
}

// Handle computes the distribution view.
func (h *GetDistributionHandler) Handle(ctx context.Context, q GetDistributionQuery) (*DistributionResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.reader.DistributionByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_distribution: %w", err)
	}

	res := &DistributionResult{UserID: q.UserID, Skills: make([]DistributionRow, 0, len(rows))}
	for _, r := range rows {
		res.Skills = append(res.Skills, DistributionRow{
			SkillID:     r.SkillID,
			SkillName:   r.SkillName,
			TotalWeight: r.Total,
		})
	}
	return res, nil
}
