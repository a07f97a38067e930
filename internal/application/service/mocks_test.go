package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/garyjia/servicehub/internal/domain/entity"
)

type mockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

type mockNotificationRepo struct {
	items     []*entity.Notification
	createErr error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := *n
	m.items = append(m.items, &c)
	return nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		if m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepo) forUser(userID string) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type mockAuditRepo struct {
	entries   []*entity.AuditLog
	appendErr error
}

func (m *mockAuditRepo) Append(ctx context.Context, entry *entity.AuditLog) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	c := *entry
	m.entries = append(m.entries, &c)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditLog, error) {
	if filter.Limit < 0 {
		return nil, errors.New("bad limit")
	}
	var out []*entity.AuditLog
	for _, e := range m.entries {
		if filter.EntityType != "" && e.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && e.EntityID != filter.EntityID {
			continue
		}
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
