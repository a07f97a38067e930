package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/entity"
)

// LeaveRepository implements port.LeaveRepository
type LeaveRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLeaveRepository creates a new leave repository
func NewLeaveRepository(db *sql.DB, logger *zap.Logger) *LeaveRepository {
	return &LeaveRepository{
		db:     db,
		logger: logger,
	}
}

const leaveColumns = `id, employee_id, employee_name, manager_id, leave_type, start_date, end_date,
	reason, status, created_at, updated_at`

// Create inserts the leave row. The submit entry is appended separately.
func (r *LeaveRepository) Create(ctx context.Context, leave *entity.Leave) error {
	query := `INSERT INTO leaves (` + leaveColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		leave.ID,
		leave.EmployeeID,
		leave.EmployeeName,
		nullString(leave.ManagerID),
		leave.LeaveType,
		leave.StartDate.Format(entity.DateLayout),
		leave.EndDate.Format(entity.DateLayout),
		leave.Reason,
		leave.Status,
		leave.CreatedAt,
		leave.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create leave", zap.String("leave_id", leave.ID), zap.Error(err))
		return fmt.Errorf("failed to create leave: %w", err)
	}
	return nil
}

// GetByID returns the leave without its history, or nil when missing
func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*entity.Leave, error) {
	query := `SELECT ` + leaveColumns + ` FROM leaves WHERE id = ?`

	leave, err := scanLeave(executor(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get leave", zap.String("leave_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get leave: %w", err)
	}
	return leave, nil
}

// List returns leaves matching filter, newest first
func (r *LeaveRepository) List(ctx context.Context, filter port.LeaveFilter) ([]*entity.Leave, error) {
	var where []string
	var args []interface{}
	if filter.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.ManagerID != "" {
		where = append(where, "manager_id = ?")
		args = append(args, filter.ManagerID)
	}

	query := `SELECT ` + leaveColumns + ` FROM leaves`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list leaves", zap.Error(err))
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	defer rows.Close()

	var leaves []*entity.Leave
	for rows.Next() {
		leave, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, leave)
	}
	return leaves, rows.Err()
}

// UpdateStatus sets the status of an existing leave
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id string, status entity.LeaveStatus, updatedAt time.Time) error {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE leaves SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id,
	)
	if err != nil {
		r.logger.Error("Failed to update leave status",
			zap.String("leave_id", id),
			zap.String("status", status.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update leave status: %w", err)
	}
	return requireRow(result, "leave", id)
}

// AppendApproval appends one entry to the leave's approval chain
func (r *LeaveRepository) AppendApproval(ctx context.Context, entry *entity.ApprovalEntry) error {
	if err := leaveApprovals.appendEntry(ctx, r.db, entry); err != nil {
		r.logger.Error("Failed to append leave approval", zap.String("leave_id", entry.EntityID), zap.Error(err))
		return fmt.Errorf("failed to append leave approval: %w", err)
	}
	return nil
}

// ListApprovals returns the approval chain in append order
func (r *LeaveRepository) ListApprovals(ctx context.Context, leaveID string) ([]*entity.ApprovalEntry, error) {
	entries, err := leaveApprovals.list(ctx, r.db, leaveID)
	if err != nil {
		r.logger.Error("Failed to list leave approvals", zap.String("leave_id", leaveID), zap.Error(err))
		return nil, fmt.Errorf("failed to list leave approvals: %w", err)
	}
	return entries, nil
}

// GetBalance returns the user's leave balance, or nil when missing
func (r *LeaveRepository) GetBalance(ctx context.Context, userID string) (*entity.LeaveBalance, error) {
	var b entity.LeaveBalance
	err := executor(ctx, r.db).QueryRowContext(ctx,
		`SELECT user_id, annual, sick, personal, updated_at FROM leave_balances WHERE user_id = ?`, userID,
	).Scan(&b.UserID, &b.Annual, &b.Sick, &b.Personal, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get leave balance", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &b, nil
}

// CreateBalance inserts the balance unless the user already has one
func (r *LeaveRepository) CreateBalance(ctx context.Context, balance *entity.LeaveBalance) (bool, error) {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO leave_balances (user_id, annual, sick, personal, updated_at)
		VALUES (?, ?, ?, ?, ?) ON CONFLICT(user_id) DO NOTHING`,
		balance.UserID, balance.Annual, balance.Sick, balance.Personal, balance.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create leave balance", zap.String("user_id", balance.UserID), zap.Error(err))
		return false, fmt.Errorf("failed to create leave balance: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func scanLeave(s scanner) (*entity.Leave, error) {
	var leave entity.Leave
	var managerID sql.NullString
	var start, end string
	err := s.Scan(
		&leave.ID,
		&leave.EmployeeID,
		&leave.EmployeeName,
		&managerID,
		&leave.LeaveType,
		&start,
		&end,
		&leave.Reason,
		&leave.Status,
		&leave.CreatedAt,
		&leave.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	leave.ManagerID = managerID.String

	if leave.StartDate, err = time.Parse(entity.DateLayout, start); err != nil {
		return nil, fmt.Errorf("invalid start_date %q: %w", start, err)
	}
	if leave.EndDate, err = time.Parse(entity.DateLayout, end); err != nil {
		return nil, fmt.Errorf("invalid end_date %q: %w", end, err)
	}
	return &leave, nil
}

// Verify interface compliance
var _ port.LeaveRepository = (*LeaveRepository)(nil)
