package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bonny2long/syncup-backend/internal/application/command"
	"github.com/bonny2long/syncup-backend/internal/application/query"
	"github.com/bonny2long/syncup-backend/internal/domain/mentorship"
	"github.com/bonny2long/syncup-backend/internal/domain/project"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":    "SyncUp API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":        "/health",
			"projects":      "/api/v1/projects",
			"mentorship":    "/api/v1/mentorship/sessions",
			"skills":        "/api/v1/users/{id}/skills/distribution",
			"notifications": "/api/v1/users/{id}/notifications",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROJECT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createProjectRequest struct {
	OwnerID     int64    `json:"owner_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility"`
	SkillNames  []string `json:"skill_names"`
}

// handleCreateProject handles POST /api/v1/projects
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if s.deps.CreateProjectHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Project handler not configured")
		return
	}

	var req createProjectRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.CreateProjectHandler.Handle(r.Context(), command.CreateProjectCommand{
		OwnerID:     shared.UserID(req.OwnerID),
		Title:       req.Title,
		Description: req.Description,
		Visibility:  project.Visibility(req.Visibility),
		SkillNames:  req.SkillNames,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"project":   result.Project,
		"skill_ids": result.SkillIDs,
	})
}

type joinProjectRequest struct {
	UserID int64 `json:"user_id"`
}

// handleJoinProject handles POST /api/v1/projects/{id}/members
func (s *Server) handleJoinProject(w http.ResponseWriter, r *http.Request) {
	if s.deps.JoinProjectHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Project handler not configured")
		return
	}

	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req joinProjectRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.JoinProjectHandler.Handle(r.Context(), command.JoinProjectCommand{
		ProjectID: shared.ProjectID(projectID),
		UserID:    shared.UserID(req.UserID),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"project_id":    result.ProjectID,
		"user_id":       result.UserID,
		"signals_added": result.SignalsAdded,
	})
}

type transitionProjectRequest struct {
	Status       string `json:"status"`
	ActingUserID int64  `json:"acting_user_id"`
}

// handleTransitionProject handles PUT /api/v1/projects/{id}/status
func (s *Server) handleTransitionProject(w http.ResponseWriter, r *http.Request) {
	if s.deps.TransitionProjectHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Project handler not configured")
		return
	}

	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req transitionProjectRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.TransitionProjectHandler.Handle(r.Context(), command.TransitionProjectCommand{
		ProjectID:       shared.ProjectID(projectID),
		RequestedStatus: project.Status(req.Status),
		ActingUserID:    shared.UserID(req.ActingUserID),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project":         result.Project,
		"previous_status": result.PreviousStatus,
	})
}

type postUpdateRequest struct {
	AuthorID   int64    `json:"author_id"`
	Content    string   `json:"content"`
	SkillNames []string `json:"skill_names"`
}

// handlePostUpdate handles POST /api/v1/projects/{id}/updates
func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	if s.deps.PostUpdateHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Project handler not configured")
		return
	}

	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req postUpdateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.PostUpdateHandler.Handle(r.Context(), command.PostUpdateCommand{
		ProjectID:  shared.ProjectID(projectID),
		AuthorID:   shared.UserID(req.AuthorID),
		Content:    req.Content,
		SkillNames: req.SkillNames,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"update":        result.Update,
		"skill_ids":     result.SkillIDs,
		"signals_added": result.SignalsAdded,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTORSHIP HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type requestSessionRequest struct {
	MentorID     int64     `json:"mentor_id"`
	InternID     int64     `json:"intern_id"`
	SessionFocus string    `json:"session_focus"`
	SessionDate  time.Time `json:"session_date"`
}

// handleRequestSession handles POST /api/v1/mentorship/sessions
func (s *Server) handleRequestSession(w http.ResponseWriter, r *http.Request) {
	if s.deps.RequestSessionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Mentorship handler not configured")
		return
	}

	var req requestSessionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	session, err := s.deps.RequestSessionHandler.Handle(r.Context(), command.RequestSessionCommand{
		MentorID:     shared.UserID(req.MentorID),
		InternID:     shared.UserID(req.InternID),
		SessionFocus: req.SessionFocus,
		SessionDate:  req.SessionDate,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"session": session})
}

type transitionSessionRequest struct {
	Status       string  `json:"status"`
	ActingUserID int64   `json:"acting_user_id"`
	SkillIDs     []int64 `json:"skill_ids"`
}

// handleTransitionSession handles PUT /api/v1/mentorship/sessions/{id}/status
func (s *Server) handleTransitionSession(w http.ResponseWriter, r *http.Request) {
	if s.deps.TransitionSessionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Mentorship handler not configured")
		return
	}

	sessionID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req transitionSessionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	skillIDs := make([]shared.SkillID, 0, len(req.SkillIDs))
	for _, id := range req.SkillIDs {
		skillIDs = append(skillIDs, shared.SkillID(id))
	}

	result, err := s.deps.TransitionSessionHandler.Handle(r.Context(), command.TransitionSessionCommand{
		SessionID:       shared.SessionID(sessionID),
		RequestedStatus: mentorship.Status(req.Status),
		ActingUserID:    shared.UserID(req.ActingUserID),
		SkillIDs:        skillIDs,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := map[string]interface{}{
		"session":         result.Session,
		"previous_status": result.PreviousStatus,
		"changed":         result.Changed,
		"signals_added":   result.SignalsAdded,
	}
	if result.SkipReason != "" {
		resp["skip_reason"] = result.SkipReason
	}

	writeJSON(w, http.StatusOK, resp)
}

type rescheduleSessionRequest struct {
	ActingUserID int64     `json:"acting_user_id"`
	NewDate      time.Time `json:"new_date"`
}

// handleRescheduleSession handles PUT /api/v1/mentorship/sessions/{id}/reschedule
func (s *Server) handleRescheduleSession(w http.ResponseWriter, r *http.Request) {
	if s.deps.RescheduleSessionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Mentorship handler not configured")
		return
	}

	sessionID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req rescheduleSessionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	session, err := s.deps.RescheduleSessionHandler.Handle(r.Context(), command.RescheduleSessionCommand{
		SessionID:    shared.SessionID(sessionID),
		ActingUserID: shared.UserID(req.ActingUserID),
		NewDate:      req.NewDate,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// ══════════════════════════════════════════════════════════════════════════════
// SKILL ANALYTICS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetDistribution handles GET /api/v1/users/{id}/skills/distribution
func (s *Server) handleGetDistribution(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetDistributionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Analytics handler not configured")
		return
	}

	userID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := s.deps.GetDistributionHandler.Handle(r.Context(), query.GetDistributionQuery{
		UserID: shared.UserID(userID),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetMomentum handles GET /api/v1/users/{id}/skills/momentum
func (s *Server) handleGetMomentum(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetMomentumHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Analytics handler not configured")
		return
	}

	userID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := s.deps.GetMomentumHandler.Handle(r.Context(), query.GetMomentumQuery{
		UserID: shared.UserID(userID),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetActivityMix handles GET /api/v1/users/{id}/skills/activity
func (s *Server) handleGetActivityMix(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetActivityMixHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Analytics handler not configured")
		return
	}

	userID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := s.deps.GetActivityMixHandler.Handle(r.Context(), query.GetActivityMixQuery{
		UserID: shared.UserID(userID),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetSkillSummary handles GET /api/v1/users/{id}/skills/summary
func (s *Server) handleGetSkillSummary(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetSkillSummaryHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Analytics handler not configured")
		return
	}

	userID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := s.deps.GetSkillSummaryHandler.Handle(r.Context(), query.GetSkillSummaryQuery{
		UserID: shared.UserID(userID),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListNotifications handles GET /api/v1/users/{id}/notifications
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	if s.deps.Notifications == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Notifications not configured")
		return
	}

	userID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	limit := getQueryParamInt(r, "limit", 50)
	items, err := s.deps.Notifications.ListByRecipient(r.Context(), shared.UserID(userID), limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"count":         len(items),
	})
}

// handleMarkNotificationRead handles PUT /api/v1/notifications/{id}/read
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if s.deps.Notifications == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Notifications not configured")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Notification id is required")
		return
	}

	if err := s.deps.Notifications.MarkRead(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "read"})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody parses the JSON request body into dst. On failure it writes a
// 400 response and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON request body")
		return false
	}
	return true
}

// pathID parses a positive int64 path segment. On failure it writes a 400
// response and returns false.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	raw := r.PathValue(key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Path id must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeDomainError maps a domain error to an HTTP status.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())
	case shared.IsStateTransition(err):
		writeJSONError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	default:
		s.logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
