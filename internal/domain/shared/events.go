// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import "time"

// EventType represents the type of domain event.
type EventType string

// Domain event types. Events are published only after the controlling
// transaction commits; they drive best-effort side effects (notifications),
// never state mutations.
const (
	// Project events
	EventProjectCreated       EventType = "project.created"
	EventProjectStatusChanged EventType = "project.status_changed"
	EventProjectCompleted     EventType = "project.completed"
	EventMemberJoined         EventType = "project.member_joined"
	EventUpdatePosted         EventType = "project.update_posted"

	// Mentorship events
	EventSessionRequested     EventType = "mentorship.session_requested"
	EventSessionStatusChanged EventType = "mentorship.session_status_changed"
	EventSessionRescheduled   EventType = "mentorship.session_rescheduled"

	// Signal events
	EventSignalsEmitted EventType = "signal.emitted"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() int64
}

// EventHandler processes a published event. Handlers must be safe to call
// concurrently and must not assume delivery: events are at-most-once.
type EventHandler func(event Event) error

// EventPublisher publishes domain events to subscribers.
type EventPublisher interface {
	Publish(event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId int64     `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() int64 {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID int64) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Project Events
// ═══════════════════════════════════════════════════════════════════════════

// ProjectStatusChangedEvent is emitted after a project status transition commits.
type ProjectStatusChangedEvent struct {
	BaseEvent
	ProjectID    ProjectID `json:"project_id"`
	ProjectTitle string    `json:"project_title"`
	OwnerID      UserID    `json:"owner_id"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	// MemberIDs are the other project members to notify on completion.
	MemberIDs []UserID `json:"member_ids"`
}

// NewProjectStatusChangedEvent creates a project status change event.
func NewProjectStatusChangedEvent(projectID ProjectID, title string, ownerID UserID, from, to string, members []UserID) ProjectStatusChangedEvent {
	return ProjectStatusChangedEvent{
		BaseEvent:    NewBaseEvent(EventProjectStatusChanged, projectID.Int64()),
		ProjectID:    projectID,
		ProjectTitle: title,
		OwnerID:      ownerID,
		FromStatus:   from,
		ToStatus:     to,
		MemberIDs:    members,
	}
}

// MemberJoinedEvent is emitted after a user joins a project.
type MemberJoinedEvent struct {
	BaseEvent
	ProjectID    ProjectID `json:"project_id"`
	ProjectTitle string    `json:"project_title"`
	UserID       UserID    `json:"user_id"`
	OwnerID      UserID    `json:"owner_id"`
}

// NewMemberJoinedEvent creates a member joined event.
func NewMemberJoinedEvent(projectID ProjectID, title string, userID, ownerID UserID) MemberJoinedEvent {
	return MemberJoinedEvent{
		BaseEvent:    NewBaseEvent(EventMemberJoined, projectID.Int64()),
		ProjectID:    projectID,
		ProjectTitle: title,
		UserID:       userID,
		OwnerID:      ownerID,
	}
}

// UpdatePostedEvent is emitted after a progress update commits.
type UpdatePostedEvent struct {
	BaseEvent
	UpdateID     UpdateID  `json:"update_id"`
	ProjectID    ProjectID `json:"project_id"`
	ProjectTitle string    `json:"project_title"`
	AuthorID     UserID    `json:"author_id"`
	// MemberIDs are the other project members to notify.
	MemberIDs []UserID `json:"member_ids"`
}

// NewUpdatePostedEvent creates an update posted event.
func NewUpdatePostedEvent(updateID UpdateID, projectID ProjectID, title string, authorID UserID, members []UserID) UpdatePostedEvent {
	return UpdatePostedEvent{
		BaseEvent:    NewBaseEvent(EventUpdatePosted, updateID.Int64()),
		UpdateID:     updateID,
		ProjectID:    projectID,
		ProjectTitle: title,
		AuthorID:     authorID,
		MemberIDs:    members,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Mentorship Events
// ═══════════════════════════════════════════════════════════════════════════

// SessionStatusChangedEvent is emitted after a session status transition
// commits. It is only emitted for actual changes, so consumers may notify
// without re-checking for idempotent re-writes.
type SessionStatusChangedEvent struct {
	BaseEvent
	SessionID  SessionID `json:"session_id"`
	MentorID   UserID    `json:"mentor_id"`
	InternID   UserID    `json:"intern_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
}

// NewSessionStatusChangedEvent creates a session status change event.
func NewSessionStatusChangedEvent(sessionID SessionID, mentorID, internID UserID, from, to string) SessionStatusChangedEvent {
	return SessionStatusChangedEvent{
		BaseEvent:  NewBaseEvent(EventSessionStatusChanged, sessionID.Int64()),
		SessionID:  sessionID,
		MentorID:   mentorID,
		InternID:   internID,
		FromStatus: from,
		ToStatus:   to,
	}
}

// SessionRequestedEvent is emitted after an intern requests a session.
type SessionRequestedEvent struct {
	BaseEvent
	SessionID   SessionID `json:"session_id"`
	MentorID    UserID    `json:"mentor_id"`
	InternID    UserID    `json:"intern_id"`
	SessionDate time.Time `json:"session_date"`
}

// NewSessionRequestedEvent creates a session requested event.
func NewSessionRequestedEvent(sessionID SessionID, mentorID, internID UserID, date time.Time) SessionRequestedEvent {
	return SessionRequestedEvent{
		BaseEvent:   NewBaseEvent(EventSessionRequested, sessionID.Int64()),
		SessionID:   sessionID,
		MentorID:    mentorID,
		InternID:    internID,
		SessionDate: date,
	}
}

// SessionRescheduledEvent is emitted after a session date change commits.
type SessionRescheduledEvent struct {
	BaseEvent
	SessionID SessionID `json:"session_id"`
	MentorID  UserID    `json:"mentor_id"`
	InternID  UserID    `json:"intern_id"`
	NewDate   time.Time `json:"new_date"`
}

// NewSessionRescheduledEvent creates a session rescheduled event.
func NewSessionRescheduledEvent(sessionID SessionID, mentorID, internID UserID, newDate time.Time) SessionRescheduledEvent {
	return SessionRescheduledEvent{
		BaseEvent: NewBaseEvent(EventSessionRescheduled, sessionID.Int64()),
		SessionID: sessionID,
		MentorID:  mentorID,
		InternID:  internID,
		NewDate:   newDate,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Signal Events
// ═══════════════════════════════════════════════════════════════════════════

// SignalsEmittedEvent is emitted after ledger rows commit. Observability
// only: nothing downstream mutates state in response.
type SignalsEmittedEvent struct {
	BaseEvent
	UserID     UserID `json:"user_id"`
	SourceType string `json:"source_type"`
	SourceID   int64  `json:"source_id"`
	RowCount   int    `json:"row_count"`
}

// NewSignalsEmittedEvent creates a signals emitted event.
func NewSignalsEmittedEvent(userID UserID, sourceType string, sourceID int64, rowCount int) SignalsEmittedEvent {
	return SignalsEmittedEvent{
		BaseEvent:  NewBaseEvent(EventSignalsEmitted, sourceID),
		UserID:     userID,
		SourceType: sourceType,
		SourceID:   sourceID,
		RowCount:   rowCount,
	}
}
