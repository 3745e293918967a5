package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bonny2long/syncup-backend/internal/domain/notification"
	"github.com/bonny2long/syncup-backend/internal/domain/shared"
	"github.com/bonny2long/syncup-backend/internal/infrastructure/messaging"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

const dispatchTimeout = 5 * time.Second

// NotificationSubscriber turns committed domain events into notifications.
// Events arrive after the owning transaction committed, so every handler is
// best-effort: it logs failures and always reports success to the bus.
type NotificationSubscriber struct {
	dispatcher notification.Dispatcher
	log        *logger.Logger
}

// NewNotificationSubscriber creates the subscriber.
func NewNotificationSubscriber(dispatcher notification.Dispatcher, log *logger.Logger) *NotificationSubscriber {
	return &NotificationSubscriber{
		dispatcher: dispatcher,
		log:        log.Named("notifications"),
	}
}

// Register wires the subscriber onto the bus.
func (s *NotificationSubscriber) Register(bus messaging.EventBus) error {
	subs := map[shared.EventType]shared.EventHandler{
		shared.EventProjectStatusChanged: s.onProjectStatusChanged,
		shared.EventMemberJoined:         s.onMemberJoined,
		shared.EventUpdatePosted:         s.onUpdatePosted,
		shared.EventSessionRequested:     s.onSessionRequested,
		shared.EventSessionStatusChanged: s.onSessionStatusChanged,
		shared.EventSessionRescheduled:   s.onSessionRescheduled,
	}
	for eventType, handler := range subs {
		if err := bus.Subscribe(eventType, handler); err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationSubscriber) onProjectStatusChanged(event shared.Event) error {
	e, ok := event.(shared.ProjectStatusChangedEvent)
	if !ok {
		return nil
	}
	// Only completion is user-facing. Other transitions stay internal.
	if e.ToStatus != "completed" || len(e.MemberIDs) == 0 {
		return nil
	}
	s.dispatch(notification.Request{
		RecipientIDs: e.MemberIDs,
		Type:         notification.TypeProjectCompleted,
		Title:        "Project completed",
		Message:      fmt.Sprintf("%q has been marked completed", e.ProjectTitle),
		Link:         fmt.Sprintf("/projects/%d", e.ProjectID.Int64()),
		RelatedID:    e.ProjectID.Int64(),
		RelatedType:  notification.RelatedProject,
	})
	return nil
}

func (s *NotificationSubscriber) onMemberJoined(event shared.Event) error {
	e, ok := event.(shared.MemberJoinedEvent)
	if !ok {
		return nil
	}
	s.dispatch(notification.Request{
		RecipientIDs: []shared.UserID{e.OwnerID},
		Type:         notification.TypeMemberJoined,
		Title:        "New project member",
		Message:      fmt.Sprintf("A new member joined %q", e.ProjectTitle),
		Link:         fmt.Sprintf("/projects/%d", e.ProjectID.Int64()),
		RelatedID:    e.ProjectID.Int64(),
		RelatedType:  notification.RelatedProject,
	})
	return nil
}

func (s *NotificationSubscriber) onUpdatePosted(event shared.Event) error {
	e, ok := event.(shared.UpdatePostedEvent)
	if !ok {
		return nil
	}
	if len(e.MemberIDs) == 0 {
		return nil
	}
	s.dispatch(notification.Request{
		RecipientIDs: e.MemberIDs,
		Type:         notification.TypeUpdatePosted,
		Title:        "New progress update",
		Message:      fmt.Sprintf("A progress update was posted in %q", e.ProjectTitle),
		Link:         fmt.Sprintf("/projects/%d/updates", e.ProjectID.Int64()),
		RelatedID:    e.UpdateID.Int64(),
		RelatedType:  notification.RelatedUpdate,
	})
	return nil
}

func (s *NotificationSubscriber) onSessionRequested(event shared.Event) error {
	e, ok := event.(shared.SessionRequestedEvent)
	if !ok {
		return nil
	}
	s.dispatch(notification.Request{
		RecipientIDs: []shared.UserID{e.MentorID},
		Type:         notification.TypeSessionRequested,
		Title:        "New session request",
		Message:      fmt.Sprintf("You have a mentorship session request for %s", formatSessionDate(e.SessionDate)),
		Link:         fmt.Sprintf("/mentorship/sessions/%d", e.SessionID.Int64()),
		RelatedID:    e.SessionID.Int64(),
		RelatedType:  notification.RelatedSession,
	})
	return nil
}

func (s *NotificationSubscriber) onSessionStatusChanged(event shared.Event) error {
	e, ok := event.(shared.SessionStatusChangedEvent)
	if !ok {
		return nil
	}

	var (
		notifType  notification.Type
		title      string
		message    string
		recipients []shared.UserID
	)
	switch e.ToStatus {
	case "accepted":
		notifType = notification.TypeSessionAccepted
		title = "Session accepted"
		message = "Your mentorship session request was accepted"
		recipients = []shared.UserID{e.InternID}
	case "declined":
		notifType = notification.TypeSessionDeclined
		title = "Session declined"
		message = "Your mentorship session request was declined"
		recipients = []shared.UserID{e.InternID}
	case "completed":
		notifType = notification.TypeSessionCompleted
		title = "Session completed"
		message = "Your mentorship session was marked completed"
		recipients = []shared.UserID{e.MentorID, e.InternID}
	default:
		return nil
	}

	s.dispatch(notification.Request{
		RecipientIDs: recipients,
		Type:         notifType,
		Title:        title,
		Message:      message,
		Link:         fmt.Sprintf("/mentorship/sessions/%d", e.SessionID.Int64()),
		RelatedID:    e.SessionID.Int64(),
		RelatedType:  notification.RelatedSession,
	})
	return nil
}

func (s *NotificationSubscriber) onSessionRescheduled(event shared.Event) error {
	e, ok := event.(shared.SessionRescheduledEvent)
	if !ok {
		return nil
	}
	s.dispatch(notification.Request{
		RecipientIDs: []shared.UserID{e.MentorID, e.InternID},
		Type:         notification.TypeSessionMoved,
		Title:        "Session rescheduled",
		Message:      fmt.Sprintf("Your mentorship session was moved to %s", formatSessionDate(e.NewDate)),
		Link:         fmt.Sprintf("/mentorship/sessions/%d", e.SessionID.Int64()),
		RelatedID:    e.SessionID.Int64(),
		RelatedType:  notification.RelatedSession,
	})
	return nil
}

func (s *NotificationSubscriber) dispatch(req notification.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if _, err := s.dispatcher.Notify(ctx, req); err != nil {
		s.log.Warn("notification dispatch failed",
			logger.String("type", string(req.Type)),
			logger.Int("recipients", len(req.RecipientIDs)),
			logger.Err(err))
	}
}

func formatSessionDate(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}
