// Package seed loads the demo user directory and leave balances.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/entity"
)

// DemoUsers returns the demo directory. Managers are listed before their reports.
func DemoUsers(createdAt time.Time) []*entity.User {
	users := []*entity.User{
		{ID: "u2", Name: "Sarah Chen", Email: "sarah.chen@example.com", Role: entity.RoleManager, Department: "Engineering", Title: "Engineering Manager"},
		{ID: "u3", Name: "Michael Torres", Email: "michael.torres@example.com", Role: entity.RoleHRAdmin, Department: "People", Title: "HR Business Partner"},
		{ID: "u4", Name: "Priya Sharma", Email: "priya.sharma@example.com", Role: entity.RoleITAdmin, Department: "IT", Title: "IT Support Lead"},
		{ID: "u5", Name: "David Kim", Email: "david.kim@example.com", Role: entity.RoleFinanceAdmin, Department: "Finance", Title: "Finance Controller"},
		{ID: "u6", Name: "Emma Wilson", Email: "emma.wilson@example.com", Role: entity.RoleSuperAdmin, Department: "Operations", Title: "Operations Director"},
		{ID: "u1", Name: "Alex Rivera", Email: "alex.rivera@example.com", Role: entity.RoleEmployee, Department: "Engineering", Title: "Software Engineer", ManagerID: "u2"},
	}
	for _, u := range users {
		u.IsActive = true
		u.CreatedAt = createdAt
	}
	return users
}

// Run inserts every user that does not exist yet and reports how many were created
func Run(ctx context.Context, repo port.UserRepository, users []*entity.User, logger *zap.Logger) (int, error) {
	created := 0
	for _, u := range users {
		existing, err := repo.GetByID(ctx, u.ID)
		if err != nil {
			return created, fmt.Errorf("lookup user %s: %w", u.ID, err)
		}
		if existing != nil {
			logger.Debug("User already present", zap.String("user_id", u.ID))
			continue
		}
		if err := repo.Create(ctx, u); err != nil {
			return created, fmt.Errorf("create user %s: %w", u.ID, err)
		}
		created++
		logger.Info("User seeded",
			zap.String("user_id", u.ID),
			zap.String("role", u.Role.String()))
	}
	return created, nil
}

// BalanceStore creates leave balances without overwriting existing ones
type BalanceStore interface {
	CreateBalance(ctx context.Context, balance *entity.LeaveBalance) (bool, error)
}

// RunBalances grants the default leave balance to every user lacking one
// and reports how many were created
func RunBalances(ctx context.Context, store BalanceStore, users []*entity.User, now time.Time, logger *zap.Logger) (int, error) {
	created := 0
	for _, u := range users {
		ok, err := store.CreateBalance(ctx, entity.NewLeaveBalance(u.ID, now))
		if err != nil {
			return created, fmt.Errorf("create leave balance %s: %w", u.ID, err)
		}
		if ok {
			created++
			logger.Debug("Leave balance seeded", zap.String("user_id", u.ID))
		}
	}
	return created, nil
}
