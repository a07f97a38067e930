package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/apperr"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/domain/event"
)

const defaultNotificationLimit = 50

// NotificationService records notifications for workflow events and serves
// them back to their recipients
type NotificationService interface {
	// HandleEvent is the post-commit hook that fans an event out to recipients
	HandleEvent(ctx context.Context, evt *event.Event) error

	ListForUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)

	// MarkRead marks a notification read. Only its recipient may do so.
	MarkRead(ctx context.Context, notificationID, userID string) error
}

type notificationServiceImpl struct {
	repo   port.NotificationRepository
	logger Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo port.NotificationRepository, logger Logger) NotificationService {
	return &notificationServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

type draft struct {
	userID   string
	title    string
	body     string
	category entity.NotificationCategory
}

// HandleEvent creates one notification per recipient of evt
func (s *notificationServiceImpl) HandleEvent(ctx context.Context, evt *event.Event) error {
	var errs []error
	for _, d := range s.draftsFor(evt) {
		n := &entity.Notification{
			ID:         uuid.NewString(),
			UserID:     d.userID,
			Title:      d.title,
			Body:       d.body,
			Category:   d.category,
			EntityType: evt.EntityType,
			EntityID:   evt.EntityID,
			CreatedAt:  evt.Timestamp,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			s.logger.Error("Failed to create notification",
				"event_type", evt.Type,
				"entity_id", evt.EntityID,
				"user_id", d.userID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("notify %s: %w", d.userID, err))
			continue
		}
		s.logger.Info("Notification created", "user_id", d.userID, "title", d.title)
	}
	return errors.Join(errs...)
}

func (s *notificationServiceImpl) draftsFor(evt *event.Event) []draft {
	owner := evt.GetPayloadString(event.KeyOwnerID)
	title := evt.GetPayloadString(event.KeyTitle)

	switch evt.Type {
	case event.TypeLeaveSubmitted:
		if manager := evt.GetPayloadString(event.KeyManagerID); manager != "" {
			return []draft{{
				userID:   manager,
				title:    "Leave Request",
				body:     fmt.Sprintf("%s has submitted a leave request", evt.ActorName),
				category: entity.NotificationActionRequired,
			}}
		}

	case event.TypeLeaveTransitioned:
		return []draft{transitionDraft(owner, "Leave", "leave request", evt)}

	case event.TypeExpenseSubmitted:
		if manager := evt.GetPayloadString(event.KeyManagerID); manager != "" {
			return []draft{{
				userID: manager,
				title:  "Expense Submitted",
				body: fmt.Sprintf("%s submitted an expense: %s (%s %s)", evt.ActorName, title,
					evt.GetPayloadString(event.KeyAmount), evt.GetPayloadString(event.KeyCurrency)),
				category: entity.NotificationActionRequired,
			}}
		}

	case event.TypeExpenseTransitioned, event.TypeExpensePaid:
		return []draft{transitionDraft(owner, "Expense", fmt.Sprintf("expense %q", title), evt)}

	case event.TypeTicketTransitioned:
		var drafts []draft
		if owner != evt.ActorID {
			drafts = append(drafts, draft{
				userID:   owner,
				title:    "Ticket Updated",
				body:     fmt.Sprintf("Your ticket %q is now %s", title, humanStatus(evt.GetPayloadString(event.KeyToStatus))),
				category: entity.NotificationStatusUpdate,
			})
		}
		assignee := evt.GetPayloadString(event.KeyAssigneeID)
		if assignee != "" && assignee != evt.GetPayloadString(event.KeyPreviousAssigneeID) && assignee != evt.ActorID {
			drafts = append(drafts, draft{
				userID:   assignee,
				title:    "Ticket Assigned",
				body:     fmt.Sprintf("%s assigned you the ticket %q", evt.ActorName, title),
				category: entity.NotificationActionRequired,
			})
		}
		return drafts

	case event.TypeTicketCommented:
		var drafts []draft
		seen := map[string]bool{evt.ActorID: true}
		for _, recipient := range []string{owner, evt.GetPayloadString(event.KeyAssigneeID)} {
			if recipient == "" || seen[recipient] {
				continue
			}
			seen[recipient] = true
			drafts = append(drafts, draft{
				userID:   recipient,
				title:    "New Comment",
				body:     fmt.Sprintf("%s commented on %q", evt.ActorName, title),
				category: entity.NotificationStatusUpdate,
			})
		}
		return drafts
	}

	return nil
}

// transitionDraft builds the owner notification for a leave or expense transition
func transitionDraft(owner, kind, subject string, evt *event.Event) draft {
	to := evt.GetPayloadString(event.KeyToStatus)
	d := draft{
		userID:   owner,
		category: entity.NotificationStatusUpdate,
	}

	switch to {
	case string(entity.LeaveStatusPendingHR), string(entity.ExpenseStatusPendingFinance):
		d.title = kind + " Forwarded"
		d.body = fmt.Sprintf("Your %s was approved by %s and forwarded to %s", subject, evt.ActorName, humanStatus(strings.TrimPrefix(to, "Pending_")))
	case string(entity.LeaveStatusEscalated):
		d.title = kind + " Escalated"
		d.body = fmt.Sprintf("Your %s has been escalated by %s", subject, evt.ActorName)
		d.category = entity.NotificationEscalation
	default:
		d.title = kind + " " + to
		d.body = fmt.Sprintf("Your %s has been %s by %s", subject, strings.ToLower(to), evt.ActorName)
	}

	if comment := evt.GetPayloadString(event.KeyComment); comment != "" {
		d.body += ": " + comment
	}
	return d
}

func humanStatus(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}

// ListForUser returns the user's notifications, newest first
func (s *notificationServiceImpl) ListForUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	if userID == "" {
		return nil, apperr.Validationf("user id is required")
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications of the user
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, apperr.Validationf("user id is required")
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a notification read for its recipient
func (s *notificationServiceImpl) MarkRead(ctx context.Context, notificationID, userID string) error {
	if userID == "" {
		return apperr.Validationf("user id is required")
	}
	ok, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return apperr.NotFoundf("notification %s", notificationID)
	}
	return nil
}
