package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/servicehub/internal/domain/apperr"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/domain/event"
)

func newEvent(typ event.Type, entityType entity.EntityType, actorID, actorName string, payload map[string]interface{}) *event.Event {
	return event.NewEvent(typ, entityType, "id-1", actorID, actorName, payload)
}

func TestNotificationService_HandleEvent(t *testing.T) {
	tests := []struct {
		name  string
		evt   *event.Event
		want  map[string]string
		title string
		cat   entity.NotificationCategory
	}{
		{
			name: "leave submission notifies manager",
			evt: newEvent(event.TypeLeaveSubmitted, entity.EntityTypeLeave, "u1", "Alex Rivera", map[string]interface{}{
				event.KeyOwnerID: "u1", event.KeyManagerID: "u2",
			}),
			want:  map[string]string{"u2": "Alex Rivera has submitted a leave request"},
			title: "Leave Request",
			cat:   entity.NotificationActionRequired,
		},
		{
			name: "leave submission without manager notifies nobody",
			evt: newEvent(event.TypeLeaveSubmitted, entity.EntityTypeLeave, "u7", "Noah Lee", map[string]interface{}{
				event.KeyOwnerID: "u7",
			}),
			want: map[string]string{},
		},
		{
			name: "manager forward notifies owner",
			evt: newEvent(event.TypeLeaveTransitioned, entity.EntityTypeLeave, "u2", "Sarah Chen", map[string]interface{}{
				event.KeyOwnerID: "u1", event.KeyToStatus: "Pending_HR", event.KeyAction: "approve", event.KeyComment: "ok",
			}),
			want:  map[string]string{"u1": "Your leave request was approved by Sarah Chen and forwarded to HR: ok"},
			title: "Leave Forwarded",
			cat:   entity.NotificationStatusUpdate,
		},
		{
			name: "final approval notifies owner",
			evt: newEvent(event.TypeLeaveTransitioned, entity.EntityTypeLeave, "u3", "Michael Torres", map[string]interface{}{
				event.KeyOwnerID: "u1", event.KeyToStatus: "Approved", event.KeyAction: "approve",
			}),
			want:  map[string]string{"u1": "Your leave request has been approved by Michael Torres"},
			title: "Leave Approved",
			cat:   entity.NotificationStatusUpdate,
		},
		{
			name: "escalation uses escalation category",
			evt: newEvent(event.TypeLeaveTransitioned, entity.EntityTypeLeave, "u2", "Sarah Chen", map[string]interface{}{
				event.KeyOwnerID: "u1", event.KeyToStatus: "Escalated", event.KeyAction: "escalate",
			}),
			want:  map[string]string{"u1": "Your leave request has been escalated by Sarah Chen"},
			title: "Leave Escalated",
			cat:   entity.NotificationEscalation,
		},
		{
			name: "expense payout notifies owner",
			evt: newEvent(event.TypeExpensePaid, entity.EntityTypeExpense, "u5", "David Kim", map[string]interface{}{
				event.KeyOwnerID: "u1", event.KeyToStatus: "Paid", event.KeyTitle: "Flight",
			}),
			want:  map[string]string{"u1": `Your expense "Flight" has been paid by David Kim`},
			title: "Expense Paid",
			cat:   entity.NotificationStatusUpdate,
		},
		{
			name: "expense submission notifies manager",
			evt: newEvent(event.TypeExpenseSubmitted, entity.EntityTypeExpense, "u1", "Alex Rivera", map[string]interface{}{
				event.KeyOwnerID: "u1", event.KeyManagerID: "u2", event.KeyTitle: "Flight",
				event.KeyAmount: "1850.00", event.KeyCurrency: "USD",
			}),
			want:  map[string]string{"u2": "Alex Rivera submitted an expense: Flight (1850.00 USD)"},
			title: "Expense Submitted",
			cat:   entity.NotificationActionRequired,
		},
		{
			name: "ticket transition notifies creator",
			evt: newEvent(event.TypeTicketTransitioned, entity.EntityTypeTicket, "u4", "Priya Sharma", map[string]interface{}{
				event.KeyOwnerID: "u1", event.KeyTitle: "VPN down", event.KeyToStatus: "In_Progress",
				event.KeyAssigneeID: "u4", event.KeyPreviousAssigneeID: "u4",
			}),
			want:  map[string]string{"u1": `Your ticket "VPN down" is now In Progress`},
			title: "Ticket Updated",
			cat:   entity.NotificationStatusUpdate,
		},
		{
			name: "ticket created creates no notification",
			evt: newEvent(event.TypeTicketCreated, entity.EntityTypeTicket, "u1", "Alex Rivera", map[string]interface{}{
				event.KeyOwnerID: "u1",
			}),
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockNotificationRepo{}
			svc := NewNotificationService(repo, &mockLogger{})

			require.NoError(t, svc.HandleEvent(context.Background(), tt.evt))

			require.Len(t, repo.items, len(tt.want))
			for _, n := range repo.items {
				assert.Equal(t, tt.want[n.UserID], n.Body)
				assert.Equal(t, tt.title, n.Title)
				assert.Equal(t, tt.cat, n.Category)
				assert.Equal(t, tt.evt.EntityType, n.EntityType)
				assert.Equal(t, "id-1", n.EntityID)
				assert.False(t, n.IsRead)
			}
		})
	}
}

func TestNotificationService_TicketAssignment(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, &mockLogger{})

	evt := newEvent(event.TypeTicketTransitioned, entity.EntityTypeTicket, "u4", "Priya Sharma", map[string]interface{}{
		event.KeyOwnerID: "u1", event.KeyTitle: "VPN down", event.KeyToStatus: "Assigned",
		event.KeyAssigneeID: "u6", event.KeyPreviousAssigneeID: "",
	})
	require.NoError(t, svc.HandleEvent(context.Background(), evt))

	require.Len(t, repo.forUser("u1"), 1)
	assigned := repo.forUser("u6")
	require.Len(t, assigned, 1)
	assert.Equal(t, "Ticket Assigned", assigned[0].Title)

	// self-assignment by the acting admin is not notified
	repo.items = nil
	self := newEvent(event.TypeTicketTransitioned, entity.EntityTypeTicket, "u4", "Priya Sharma", map[string]interface{}{
		event.KeyOwnerID: "u1", event.KeyTitle: "VPN down", event.KeyToStatus: "Assigned",
		event.KeyAssigneeID: "u4",
	})
	require.NoError(t, svc.HandleEvent(context.Background(), self))
	assert.Empty(t, repo.forUser("u4"))
}

func TestNotificationService_CommentRecipients(t *testing.T) {
	tests := []struct {
		name     string
		author   string
		owner    string
		assignee string
		want     []string
	}{
		{"third party notifies creator and assignee", "u6", "u1", "u4", []string{"u1", "u4"}},
		{"creator comments, assignee notified", "u1", "u1", "u4", []string{"u4"}},
		{"assignee comments, creator notified", "u4", "u1", "u4", []string{"u1"}},
		{"creator is assignee", "u6", "u4", "u4", []string{"u4"}},
		{"unassigned, creator comments", "u1", "u1", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockNotificationRepo{}
			svc := NewNotificationService(repo, &mockLogger{})

			evt := newEvent(event.TypeTicketCommented, entity.EntityTypeTicket, tt.author, "Someone", map[string]interface{}{
				event.KeyOwnerID: tt.owner, event.KeyAssigneeID: tt.assignee, event.KeyTitle: "VPN down",
				event.KeyComment: "any update?",
			})
			require.NoError(t, svc.HandleEvent(context.Background(), evt))

			var got []string
			for _, n := range repo.items {
				got = append(got, n.UserID)
				assert.Equal(t, `Someone commented on "VPN down"`, n.Body)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotificationService_HandleEventStoreFailure(t *testing.T) {
	storeErr := errors.New("locked")
	logger := &mockLogger{}
	svc := NewNotificationService(&mockNotificationRepo{createErr: storeErr}, logger)

	err := svc.HandleEvent(context.Background(), newEvent(event.TypeLeaveSubmitted, entity.EntityTypeLeave, "u1", "Alex Rivera", map[string]interface{}{
		event.KeyManagerID: "u2",
	}))

	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, logger.errors, "Failed to create notification")
}

func TestNotificationService_Reads(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, &mockLogger{})
	ctx := context.Background()

	for _, status := range []string{"Pending_HR", "Approved"} {
		require.NoError(t, svc.HandleEvent(ctx, newEvent(event.TypeLeaveTransitioned, entity.EntityTypeLeave, "u2", "Sarah Chen", map[string]interface{}{
			event.KeyOwnerID: "u1", event.KeyToStatus: status,
		})))
	}

	list, err := svc.ListForUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Leave Approved", list[0].Title)

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("other user cannot mark read", func(t *testing.T) {
		err := svc.MarkRead(ctx, list[0].ID, "u2")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := svc.MarkRead(ctx, "missing", "u1")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("recipient marks read", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(ctx, list[0].ID, "u1"))
		count, err := svc.UnreadCount(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("user id required", func(t *testing.T) {
		_, err := svc.ListForUser(ctx, "", 10)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
