package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/garyjia/servicehub/internal/application/dispatcher"
	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/domain/event"
)

// Mock implementations

type mockUserRepo struct {
	users map[string]*entity.User
}

func newMockUserRepo() *mockUserRepo {
	repo := &mockUserRepo{users: map[string]*entity.User{}}
	for _, u := range []*entity.User{
		{ID: "u1", Name: "Alex Rivera", Role: entity.RoleEmployee, ManagerID: "u2"},
		{ID: "u2", Name: "Sarah Chen", Role: entity.RoleManager},
		{ID: "u3", Name: "Michael Torres", Role: entity.RoleHRAdmin},
		{ID: "u4", Name: "Priya Sharma", Role: entity.RoleITAdmin},
		{ID: "u5", Name: "David Kim", Role: entity.RoleFinanceAdmin},
		{ID: "u6", Name: "Emma Wilson", Role: entity.RoleSuperAdmin},
		{ID: "u7", Name: "Noah Lee", Role: entity.RoleEmployee},
	} {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

type mockLeaveRepo struct {
	leaves    map[string]*entity.Leave
	approvals map[string][]*entity.ApprovalEntry
	balances  map[string]*entity.LeaveBalance
	inserts   int
	appendErr error
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{
		leaves:    map[string]*entity.Leave{},
		approvals: map[string][]*entity.ApprovalEntry{},
		balances:  map[string]*entity.LeaveBalance{},
	}
}

func (m *mockLeaveRepo) Create(ctx context.Context, leave *entity.Leave) error {
	c := *leave
	c.History = nil
	m.leaves[leave.ID] = &c
	return nil
}

func (m *mockLeaveRepo) GetByID(ctx context.Context, id string) (*entity.Leave, error) {
	l, ok := m.leaves[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (m *mockLeaveRepo) List(ctx context.Context, filter port.LeaveFilter) ([]*entity.Leave, error) {
	var out []*entity.Leave
	for _, l := range m.leaves {
		if filter.EmployeeID != "" && l.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.ManagerID != "" && l.ManagerID != filter.ManagerID {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockLeaveRepo) UpdateStatus(ctx context.Context, id string, status entity.LeaveStatus, updatedAt time.Time) error {
	l, ok := m.leaves[id]
	if !ok {
		return errors.New("leave not found")
	}
	l.Status = status
	l.UpdatedAt = updatedAt
	return nil
}

func (m *mockLeaveRepo) AppendApproval(ctx context.Context, entry *entity.ApprovalEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	c := *entry
	m.approvals[entry.EntityID] = append(m.approvals[entry.EntityID], &c)
	return nil
}

func (m *mockLeaveRepo) ListApprovals(ctx context.Context, leaveID string) ([]*entity.ApprovalEntry, error) {
	var out []*entity.ApprovalEntry
	for _, e := range m.approvals[leaveID] {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockLeaveRepo) GetBalance(ctx context.Context, userID string) (*entity.LeaveBalance, error) {
	b, ok := m.balances[userID]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (m *mockLeaveRepo) CreateBalance(ctx context.Context, balance *entity.LeaveBalance) (bool, error) {
	if _, ok := m.balances[balance.UserID]; ok {
		return false, nil
	}
	c := *balance
	m.balances[balance.UserID] = &c
	m.inserts++
	return true, nil
}

type mockExpenseRepo struct {
	expenses  map[string]*entity.Expense
	approvals map[string][]*entity.ApprovalEntry
}

func newMockExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{expenses: map[string]*entity.Expense{}, approvals: map[string][]*entity.ApprovalEntry{}}
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	c := *expense
	c.History = nil
	m.expenses[expense.ID] = &c
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (m *mockExpenseRepo) List(ctx context.Context, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range m.expenses {
		if filter.SubmittedBy != "" && e.SubmittedBy != filter.SubmittedBy {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockExpenseRepo) UpdateStatus(ctx context.Context, id string, status entity.ExpenseStatus, updatedAt time.Time) error {
	e, ok := m.expenses[id]
	if !ok {
		return errors.New("expense not found")
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	return nil
}

func (m *mockExpenseRepo) AppendApproval(ctx context.Context, entry *entity.ApprovalEntry) error {
	c := *entry
	m.approvals[entry.EntityID] = append(m.approvals[entry.EntityID], &c)
	return nil
}

func (m *mockExpenseRepo) ListApprovals(ctx context.Context, expenseID string) ([]*entity.ApprovalEntry, error) {
	var out []*entity.ApprovalEntry
	for _, e := range m.approvals[expenseID] {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

type mockTicketRepo struct {
	tickets  map[string]*entity.Ticket
	comments map[string][]*entity.TicketComment
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{tickets: map[string]*entity.Ticket{}, comments: map[string][]*entity.TicketComment{}}
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	c := *ticket
	m.tickets[ticket.ID] = &c
	return nil
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (m *mockTicketRepo) List(ctx context.Context, filter port.TicketFilter) ([]*entity.Ticket, error) {
	var out []*entity.Ticket
	for _, t := range m.tickets {
		if filter.CreatedBy != "" || filter.AssigneeID != "" {
			if t.CreatedBy != filter.CreatedBy && t.AssigneeID != filter.AssigneeID {
				continue
			}
		}
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockTicketRepo) UpdateStatus(ctx context.Context, id string, status entity.TicketStatus, assigneeID string, updatedAt time.Time) error {
	t, ok := m.tickets[id]
	if !ok {
		return errors.New("ticket not found")
	}
	t.Status = status
	t.AssigneeID = assigneeID
	t.UpdatedAt = updatedAt
	return nil
}

func (m *mockTicketRepo) Touch(ctx context.Context, id string, updatedAt time.Time) error {
	t, ok := m.tickets[id]
	if !ok {
		return errors.New("ticket not found")
	}
	t.UpdatedAt = updatedAt
	return nil
}

func (m *mockTicketRepo) AppendComment(ctx context.Context, comment *entity.TicketComment) error {
	c := *comment
	m.comments[comment.TicketID] = append(m.comments[comment.TicketID], &c)
	return nil
}

func (m *mockTicketRepo) ListComments(ctx context.Context, ticketID string) ([]*entity.TicketComment, error) {
	var out []*entity.TicketComment
	for _, c := range m.comments[ticketID] {
		cc := *c
		out = append(out, &cc)
	}
	return out, nil
}

// mockTxManager runs fn directly; a non-nil commitErr simulates a failed commit after fn ran
type mockTxManager struct {
	calls     int
	commitErr error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return m.commitErr
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

type fixture struct {
	users    *mockUserRepo
	leaves   *mockLeaveRepo
	expenses *mockExpenseRepo
	tickets  *mockTicketRepo
	tx       *mockTxManager
	events   []*event.Event
	logger   *recordingLogger
	clock    time.Time
	engine   Engine
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newFixture(hooks ...dispatcher.Handler) *fixture {
	f := &fixture{
		users:    newMockUserRepo(),
		leaves:   newMockLeaveRepo(),
		expenses: newMockExpenseRepo(),
		tickets:  newMockTicketRepo(),
		tx:       &mockTxManager{},
		logger:   &recordingLogger{},
		clock:    baseTime,
	}

	d := dispatcher.NewDispatcher()
	for _, typ := range event.All {
		d.Subscribe(typ, "recorder", func(ctx context.Context, evt *event.Event) error {
			f.events = append(f.events, evt)
			return nil
		})
		for i, h := range hooks {
			d.Subscribe(typ, fmt.Sprintf("hook-%d", i), h)
		}
	}

	f.engine = NewEngine(f.users, f.leaves, f.expenses, f.tickets, f.tx,
		WithDispatcher(d),
		WithLogger(f.logger),
		WithClock(func() time.Time { return f.clock }),
	)
	return f
}

func (f *fixture) eventsOf(typ event.Type) []*event.Event {
	var out []*event.Event
	for _, evt := range f.events {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

func actor(id string, role entity.Role) entity.Actor {
	return entity.Actor{ID: id, Role: role}
}

var (
	employee = actor("u1", entity.RoleEmployee)
	manager  = actor("u2", entity.RoleManager)
	hr       = actor("u3", entity.RoleHRAdmin)
	it       = actor("u4", entity.RoleITAdmin)
	finance  = actor("u5", entity.RoleFinanceAdmin)
	super    = actor("u6", entity.RoleSuperAdmin)
)
