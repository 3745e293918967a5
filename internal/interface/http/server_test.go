package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonny2long/syncup-backend/internal/application/query"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/domain/signal"
	"github.com/bonny2long/syncup-backend/internal/interface/http/handlers"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

type fakeReader struct {
	distribution []signal.SkillWeight
	err          error
}

func (f *fakeReader) DistributionByUser(_ context.Context, _ shared.UserID) ([]signal.SkillWeight, error) {
	return f.distribution, f.err
}

func (f *fakeReader) WeeklyCountsByUser(_ context.Context, _ shared.UserID) ([]signal.WeeklySkillCount, error) {
	return nil, f.err
}

func (f *fakeReader) WeeklyMixByUser(_ context.Context, _ shared.UserID) ([]signal.WeeklySourceCount, error) {
	return nil, f.err
}

func (f *fakeReader) AggregatesByUser(_ context.Context, _ shared.UserID, _ time.Time) ([]signal.SkillAggregate, error) {
	return nil, f.err
}

func newTestServer(reader signal.Reader) *Server {
	log := logger.New(io.Discard, logger.LevelError)
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	return NewServer(cfg, Dependencies{
		GetDistributionHandler: query.NewGetDistributionHandler(reader, log),
		GetMomentumHandler:     query.NewGetMomentumHandler(reader, log),
		GetActivityMixHandler:  query.NewGetActivityMixHandler(reader, log),
		GetSkillSummaryHandler: query.NewGetSkillSummaryHandler(reader, log),
		Logger:                 log,
		HealthChecker:          handlers.NewNoopHealthChecker(),
	})
}

func doRequest(s *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&fakeReader{})

	rec := doRequest(s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestDistributionEndpoint(t *testing.T) {
	s := newTestServer(&fakeReader{
		distribution: []signal.SkillWeight{
			{SkillID: 1, SkillName: "go", Total: 9},
			{SkillID: 2, SkillName: "sql", Total: 4},
		},
	})

	rec := doRequest(s, http.MethodGet, "/api/v1/users/7/skills/distribution")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    query.DistributionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, shared.UserID(7), resp.Data.UserID)
	require.Len(t, resp.Data.Skills, 2)
	assert.Equal(t, "go", resp.Data.Skills[0].SkillName)
	assert.Equal(t, 9, resp.Data.Skills[0].TotalWeight)
}

func TestAnalyticsRejectsBadUserID(t *testing.T) {
	s := newTestServer(&fakeReader{})

	for _, path := range []string{
		"/api/v1/users/abc/skills/distribution",
		"/api/v1/users/0/skills/momentum",
		"/api/v1/users/-3/skills/summary",
	} {
		rec := doRequest(s, http.MethodGet, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestUnconfiguredHandlerReturns501(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError)
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	s := NewServer(cfg, Dependencies{Logger: log})

	rec := doRequest(s, http.MethodGet, "/api/v1/users/7/skills/distribution")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestDomainErrorMapping(t *testing.T) {
	s := newTestServer(&fakeReader{})

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", shared.NewDomainError("project", "Create", shared.ErrEmptyValue, "title is required"), http.StatusBadRequest},
		{"not found", shared.NewDomainError("project", "GetByID", shared.ErrNotFound, "project not found"), http.StatusNotFound},
		{"forbidden", shared.NewDomainError("project", "Transition", shared.ErrForbidden, "not the owner"), http.StatusForbidden},
		{"transition", shared.NewDomainError("project", "Transition", shared.ErrStateTransition, "backward transition"), http.StatusConflict},
		{"already exists", shared.NewDomainError("project", "AddMember", shared.ErrAlreadyExists, "already a member"), http.StatusConflict},
		{"storage", shared.NewDomainError("project", "Create", shared.ErrStorageFailed, "insert failed"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/1", nil)
			s.writeDomainError(rec, req, tc.err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestMomentumEndpointGroupsBySkill(t *testing.T) {
	s := newTestServer(&fakeReader{})
	rec := doRequest(s, http.MethodGet, "/api/v1/users/7/skills/momentum")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data query.MomentumResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, shared.UserID(7), resp.Data.UserID)
	assert.Empty(t, resp.Data.Skills)
}
