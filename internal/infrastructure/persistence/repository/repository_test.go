package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/servicehub/migrations"
	"github.com/garyjia/servicehub/pkg/database"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testStore struct {
	tx            *sqlite.DB
	users         *UserRepository
	leaves        *LeaveRepository
	expenses      *ExpenseRepository
	tickets       *TicketRepository
	notifications *NotificationRepository
	audit         *AuditRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "servicehub.db"), MaxOpenConns: 1}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations(migrations.FS))

	s := &testStore{
		tx:            sqlite.NewDB(db.DB, logger),
		users:         NewUserRepository(db.DB, logger),
		leaves:        NewLeaveRepository(db.DB, logger),
		expenses:      NewExpenseRepository(db.DB, logger),
		tickets:       NewTicketRepository(db.DB, logger),
		notifications: NewNotificationRepository(db.DB, logger),
		audit:         NewAuditRepository(db.DB, logger),
	}

	ctx := context.Background()
	for _, u := range []*entity.User{
		{ID: "u2", Name: "Sarah Chen", Email: "sarah@example.com", Role: entity.RoleManager, Department: "Engineering", IsActive: true, CreatedAt: baseTime},
		{ID: "u1", Name: "Alex Rivera", Email: "alex@example.com", Role: entity.RoleEmployee, Department: "Engineering", ManagerID: "u2", IsActive: true, CreatedAt: baseTime},
	} {
		require.NoError(t, s.users.Create(ctx, u))
	}
	return s
}

func TestUserRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Alex Rivera", user.Name)
	assert.Equal(t, "u2", user.ManagerID)
	assert.Equal(t, entity.RoleEmployee, user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, user.CreatedAt.Equal(baseTime))

	manager, err := s.users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, manager.HasManager())

	missing, err := s.users.GetByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, err := s.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
}

func newLeave(id string) *entity.Leave {
	return &entity.Leave{
		ID:           id,
		EmployeeID:   "u1",
		EmployeeName: "Alex Rivera",
		ManagerID:    "u2",
		LeaveType:    entity.LeaveTypeAnnual,
		StartDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Reason:       "Family trip",
		Status:       entity.LeaveStatusPendingManager,
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
}

func TestLeaveRepository_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.leaves.Create(ctx, newLeave("l1")))
	require.NoError(t, s.leaves.AppendApproval(ctx, &entity.ApprovalEntry{
		ID: "a1", EntityID: "l1", ApproverID: "u1", ApproverName: "Alex Rivera",
		Action: entity.ActionSubmit, Comment: "Submitted for approval", CreatedAt: baseTime,
	}))

	leave, err := s.leaves.GetByID(ctx, "l1")
	require.NoError(t, err)
	require.NotNil(t, leave)
	assert.Equal(t, "2026-03-10", leave.StartDate.Format(entity.DateLayout))
	assert.Equal(t, "2026-03-14", leave.EndDate.Format(entity.DateLayout))
	assert.Equal(t, 5, leave.Days())
	assert.Equal(t, entity.LeaveStatusPendingManager, leave.Status)

	later := baseTime.Add(time.Hour)
	require.NoError(t, s.leaves.UpdateStatus(ctx, "l1", entity.LeaveStatusPendingHR, later))
	require.NoError(t, s.leaves.AppendApproval(ctx, &entity.ApprovalEntry{
		ID: "a2", EntityID: "l1", ApproverID: "u2", ApproverName: "Sarah Chen",
		Action: entity.ActionApprove, Comment: "ok", CreatedAt: later,
	}))

	leave, err = s.leaves.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, entity.LeaveStatusPendingHR, leave.Status)
	assert.True(t, leave.UpdatedAt.Equal(later))

	history, err := s.leaves.ListApprovals(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.ActionSubmit, history[0].Action)
	assert.Equal(t, "ok", history[1].Comment)

	err = s.leaves.UpdateStatus(ctx, "missing", entity.LeaveStatusApproved, later)
	assert.Error(t, err)

	missing, err := s.leaves.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLeaveRepository_ApprovalsAreAppendOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.leaves.Create(ctx, newLeave("l1")))
	require.NoError(t, s.leaves.AppendApproval(ctx, &entity.ApprovalEntry{
		ID: "a1", EntityID: "l1", ApproverID: "u1", ApproverName: "Alex Rivera",
		Action: entity.ActionSubmit, CreatedAt: baseTime,
	}))

	_, err := s.leaves.db.Exec(`UPDATE leave_approvals SET comment = 'edited' WHERE id = 'a1'`)
	assert.ErrorContains(t, err, "append-only")
}

func TestHistoryTables_RejectRewrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.leaves.Create(ctx, newLeave("l1")))
	require.NoError(t, s.leaves.AppendApproval(ctx, &entity.ApprovalEntry{
		ID: "la1", EntityID: "l1", ApproverID: "u1", ApproverName: "Alex Rivera",
		Action: entity.ActionSubmit, CreatedAt: baseTime,
	}))
	require.NoError(t, s.expenses.Create(ctx, &entity.Expense{
		ID: "e1", Title: "Taxi", Amount: decimal.RequireFromString("12.00"), Currency: "USD",
		SubmittedBy: "u1", SubmitterName: "Alex Rivera", Status: entity.ExpenseStatusPendingManager,
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
	require.NoError(t, s.expenses.AppendApproval(ctx, &entity.ApprovalEntry{
		ID: "ea1", EntityID: "e1", ApproverID: "u1", ApproverName: "Alex Rivera",
		Action: entity.ActionSubmit, CreatedAt: baseTime,
	}))
	require.NoError(t, s.tickets.Create(ctx, &entity.Ticket{
		ID: "t1", Title: "VPN down", Description: "Cannot connect", Category: entity.TicketCategoryNetwork,
		Priority: entity.TicketPriorityHigh, Status: entity.TicketStatusOpen, CreatedBy: "u1",
		CreatorName: "Alex Rivera", SLADeadline: baseTime.Add(24 * time.Hour), CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
	require.NoError(t, s.tickets.AppendComment(ctx, &entity.TicketComment{
		ID: "c1", TicketID: "t1", AuthorID: "u1", AuthorName: "Alex Rivera",
		Kind: entity.CommentKindComment, Content: "hello", CreatedAt: baseTime,
	}))

	tests := []struct {
		name  string
		query string
	}{
		{"delete leave approval", `DELETE FROM leave_approvals WHERE id = 'la1'`},
		{"update expense approval", `UPDATE expense_approvals SET comment = 'edited' WHERE id = 'ea1'`},
		{"delete expense approval", `DELETE FROM expense_approvals WHERE id = 'ea1'`},
		{"update ticket comment", `UPDATE ticket_comments SET content = 'edited' WHERE id = 'c1'`},
		{"delete ticket comment", `DELETE FROM ticket_comments WHERE id = 'c1'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.leaves.db.Exec(tt.query)
			assert.ErrorContains(t, err, "append-only")
		})
	}

	leaveHistory, err := s.leaves.ListApprovals(ctx, "l1")
	require.NoError(t, err)
	assert.Len(t, leaveHistory, 1)

	comments, err := s.tickets.ListComments(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Content)
}

func TestLeaveRepository_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := newLeave("l1")
	second := newLeave("l2")
	second.CreatedAt = baseTime.Add(time.Hour)
	second.ManagerID = ""
	require.NoError(t, s.leaves.Create(ctx, first))
	require.NoError(t, s.leaves.Create(ctx, second))

	tests := []struct {
		name   string
		filter port.LeaveFilter
		want   []string
	}{
		{"all newest first", port.LeaveFilter{}, []string{"l2", "l1"}},
		{"by employee", port.LeaveFilter{EmployeeID: "u1"}, []string{"l2", "l1"}},
		{"by manager", port.LeaveFilter{ManagerID: "u2"}, []string{"l1"}},
		{"no match", port.LeaveFilter{EmployeeID: "u9"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves, err := s.leaves.List(ctx, tt.filter)
			require.NoError(t, err)
			var ids []string
			for _, l := range leaves {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestLeaveRepository_Balance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	missing, err := s.leaves.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := s.leaves.CreateBalance(ctx, entity.NewLeaveBalance("u1", baseTime))
	require.NoError(t, err)
	assert.True(t, created)

	// an existing balance is never overwritten by a later default
	created, err = s.leaves.CreateBalance(ctx, &entity.LeaveBalance{UserID: "u1", Annual: 99, UpdatedAt: baseTime})
	require.NoError(t, err)
	assert.False(t, created)

	balance, err := s.leaves.GetBalance(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, entity.DefaultAnnualDays, balance.Annual)
	assert.Equal(t, entity.DefaultSickDays, balance.Sick)
	assert.Equal(t, entity.DefaultPersonalDays, balance.Personal)
	assert.True(t, balance.UpdatedAt.Equal(baseTime))

	_, err = s.leaves.CreateBalance(ctx, entity.NewLeaveBalance("ghost", baseTime))
	assert.Error(t, err, "balance must reference an existing user")
}

func TestExpenseRepository_AmountIsExact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expense := &entity.Expense{
		ID:            "e1",
		Title:         "Conference flight",
		Amount:        decimal.RequireFromString("1850.00"),
		Currency:      "USD",
		Category:      "Travel",
		SubmittedBy:   "u1",
		SubmitterName: "Alex Rivera",
		ManagerID:     "u2",
		Status:        entity.ExpenseStatusPendingManager,
		CreatedAt:     baseTime,
		UpdatedAt:     baseTime,
	}
	require.NoError(t, s.expenses.Create(ctx, expense))
	require.NoError(t, s.expenses.UpdateStatus(ctx, "e1", entity.ExpenseStatusPendingFinance, baseTime.Add(time.Hour)))
	require.NoError(t, s.expenses.UpdateStatus(ctx, "e1", entity.ExpenseStatusApproved, baseTime.Add(2*time.Hour)))

	got, err := s.expenses.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("1850.00")), "amount drifted: %s", got.Amount)
	assert.Equal(t, "1850.00", got.Amount.StringFixed(2))
	assert.Equal(t, entity.ExpenseStatusApproved, got.Status)
	assert.Empty(t, got.ReceiptURI)

	var stored string
	require.NoError(t, s.expenses.db.QueryRow(`SELECT amount FROM expenses WHERE id = 'e1'`).Scan(&stored))
	assert.Equal(t, "1850.00", stored)

	list, err := s.expenses.List(ctx, port.ExpenseFilter{SubmittedBy: "u2"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExpenseRepository_Approvals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.expenses.Create(ctx, &entity.Expense{
		ID: "e1", Title: "Taxi", Amount: decimal.RequireFromString("42.10"), Currency: "EUR",
		SubmittedBy: "u1", SubmitterName: "Alex Rivera", Status: entity.ExpenseStatusPendingFinance,
		ReceiptURI: "https://files.example.com/r/1.pdf", CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
	for i, action := range []entity.ApprovalAction{entity.ActionSubmit, entity.ActionApprove, entity.ActionPay} {
		require.NoError(t, s.expenses.AppendApproval(ctx, &entity.ApprovalEntry{
			ID: string(action), EntityID: "e1", ApproverID: "u1", ApproverName: "Alex Rivera",
			Action: action, CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}))
	}

	history, err := s.expenses.ListApprovals(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.ActionPay, history[2].Action)

	got, err := s.expenses.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/r/1.pdf", got.ReceiptURI)
	assert.Equal(t, "", got.ManagerID)
}

func TestTicketRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	deadline := baseTime.Add(4 * time.Hour)
	require.NoError(t, s.tickets.Create(ctx, &entity.Ticket{
		ID: "t1", Title: "VPN down", Description: "Cannot connect", Category: entity.TicketCategoryNetwork,
		Priority: entity.TicketPriorityCritical, Status: entity.TicketStatusOpen, CreatedBy: "u1",
		CreatorName: "Alex Rivera", SLADeadline: deadline, CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
	require.NoError(t, s.tickets.Create(ctx, &entity.Ticket{
		ID: "t2", Title: "Laptop", Description: "Broken key", Category: entity.TicketCategoryHardware,
		Priority: entity.TicketPriorityLow, Status: entity.TicketStatusOpen, CreatedBy: "u2",
		CreatorName: "Sarah Chen", SLADeadline: baseTime.Add(72 * time.Hour),
		CreatedAt: baseTime.Add(time.Minute), UpdatedAt: baseTime.Add(time.Minute),
	}))

	ticket, err := s.tickets.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, ticket)
	assert.False(t, ticket.HasAssignee())
	assert.True(t, ticket.SLADeadline.Equal(deadline))

	later := baseTime.Add(time.Hour)
	require.NoError(t, s.tickets.UpdateStatus(ctx, "t2", entity.TicketStatusAssigned, "u1", later))

	t.Run("deadline unchanged by status update", func(t *testing.T) {
		require.NoError(t, s.tickets.UpdateStatus(ctx, "t1", entity.TicketStatusInProgress, "u2", later))
		got, err := s.tickets.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.True(t, got.SLADeadline.Equal(deadline))
		assert.Equal(t, "u2", got.AssigneeID)
		assert.Equal(t, entity.TicketStatusInProgress, got.Status)
	})

	t.Run("clearing assignee", func(t *testing.T) {
		require.NoError(t, s.tickets.UpdateStatus(ctx, "t1", entity.TicketStatusInProgress, "", later))
		got, err := s.tickets.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.Empty(t, got.AssigneeID)
	})

	t.Run("list filters", func(t *testing.T) {
		ids := func(filter port.TicketFilter) []string {
			tickets, err := s.tickets.List(ctx, filter)
			require.NoError(t, err)
			var out []string
			for _, tk := range tickets {
				out = append(out, tk.ID)
			}
			return out
		}
		assert.Equal(t, []string{"t2", "t1"}, ids(port.TicketFilter{}))
		assert.Equal(t, []string{"t1"}, ids(port.TicketFilter{CreatedBy: "u1"}))
		assert.Equal(t, []string{"t2"}, ids(port.TicketFilter{AssigneeID: "u1"}))
		assert.Equal(t, []string{"t2", "t1"}, ids(port.TicketFilter{CreatedBy: "u1", AssigneeID: "u1"}))
	})

	t.Run("comments in order", func(t *testing.T) {
		for i, content := range []string{"first", "second"} {
			require.NoError(t, s.tickets.AppendComment(ctx, &entity.TicketComment{
				ID: content, TicketID: "t1", AuthorID: "u1", AuthorName: "Alex Rivera",
				Kind: entity.CommentKindComment, Content: content, CreatedAt: baseTime,
			}))
			require.NoError(t, s.tickets.Touch(ctx, "t1", baseTime.Add(time.Duration(i+2)*time.Hour)))
		}
		comments, err := s.tickets.ListComments(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)

		got, err := s.tickets.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.True(t, got.UpdatedAt.Equal(baseTime.Add(3*time.Hour)))
	})

	assert.Error(t, s.tickets.Touch(ctx, "missing", later))
}

func TestNotificationRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, title := range []string{"Leave Forwarded", "Leave Approved"} {
		require.NoError(t, s.notifications.Create(ctx, &entity.Notification{
			ID: title, UserID: "u1", Title: title, Body: "body", Category: entity.NotificationStatusUpdate,
			EntityType: entity.EntityTypeLeave, EntityID: "l1", CreatedAt: baseTime.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, s.notifications.Create(ctx, &entity.Notification{
		ID: "n3", UserID: "u2", Title: "Announcement", Body: "body", Category: entity.NotificationAnnouncement, CreatedAt: baseTime,
	}))

	list, err := s.notifications.ListByUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Leave Approved", list[0].Title)
	assert.Equal(t, entity.EntityTypeLeave, list[0].EntityType)

	limited, err := s.notifications.ListByUser(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	other, err := s.notifications.ListByUser(ctx, "u2", 10)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Empty(t, other[0].EntityType)
	assert.Empty(t, other[0].EntityID)

	ok, err := s.notifications.MarkRead(ctx, "n3", "u1")
	require.NoError(t, err)
	assert.False(t, ok, "only the recipient may mark read")

	ok, err = s.notifications.MarkRead(ctx, "Leave Approved", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := s.notifications.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAuditRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries := []*entity.AuditLog{
		{ID: "a1", UserID: "u1", UserName: "Alex Rivera", Action: entity.AuditActionCreate, EntityType: entity.EntityTypeLeave, EntityID: "l1", Details: "Created Annual leave", CreatedAt: baseTime},
		{ID: "a2", UserID: "u2", UserName: "Sarah Chen", Action: entity.AuditActionApprove, EntityType: entity.EntityTypeLeave, EntityID: "l1", Details: "leave approve", CreatedAt: baseTime.Add(time.Hour)},
		{ID: "a3", UserID: "u1", UserName: "Alex Rivera", Action: entity.AuditActionCreate, EntityType: entity.EntityTypeTicket, EntityID: "t1", Details: "Created ticket", CreatedAt: baseTime.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, s.audit.Append(ctx, e))
	}

	tests := []struct {
		name   string
		filter entity.AuditFilter
		want   []string
	}{
		{"all newest first", entity.AuditFilter{}, []string{"a3", "a2", "a1"}},
		{"by entity", entity.AuditFilter{EntityType: entity.EntityTypeLeave, EntityID: "l1"}, []string{"a2", "a1"}},
		{"by user", entity.AuditFilter{UserID: "u1"}, []string{"a3", "a1"}},
		{"since", entity.AuditFilter{Since: baseTime.Add(time.Hour)}, []string{"a3", "a2"}},
		{"until", entity.AuditFilter{Until: baseTime.Add(time.Hour)}, []string{"a1"}},
		{"limit", entity.AuditFilter{Limit: 1}, []string{"a3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.audit.List(ctx, tt.filter)
			require.NoError(t, err)
			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err := s.audit.db.Exec(`DELETE FROM audit_logs WHERE id = 'a1'`)
	assert.ErrorContains(t, err, "append-only")
}

func TestTransactionRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("history write failed")

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		_, inTx := sqlite.ExecutorFrom(txCtx, s.leaves.db).(*sql.Tx)
		assert.True(t, inTx)
		if err := s.leaves.Create(txCtx, newLeave("l1")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	leave, err := s.leaves.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Nil(t, leave, "status write must not survive a failed history append")

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.leaves.Create(txCtx, newLeave("l2")); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return s.tx.WithTransaction(txCtx, func(inner context.Context) error {
			return s.leaves.AppendApproval(inner, &entity.ApprovalEntry{
				ID: "a1", EntityID: "l2", ApproverID: "u1", ApproverName: "Alex Rivera",
				Action: entity.ActionSubmit, CreatedAt: baseTime,
			})
		})
	})
	require.NoError(t, err)

	history, err := s.leaves.ListApprovals(ctx, "l2")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
