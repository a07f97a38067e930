package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/entity"
)

// ExpenseRepository implements port.ExpenseRepository.
// Amounts are stored as fixed-point TEXT and never pass through float64.
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

const expenseColumns = `id, title, description, amount, currency, category, receipt_uri,
	submitted_by, submitter_name, manager_id, status, created_at, updated_at`

// Create inserts the expense row. The submit entry is appended separately.
func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	query := `INSERT INTO expenses (` + expenseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		expense.ID,
		expense.Title,
		expense.Description,
		expense.Amount.StringFixed(2),
		expense.Currency,
		expense.Category,
		nullString(expense.ReceiptURI),
		expense.SubmittedBy,
		expense.SubmitterName,
		nullString(expense.ManagerID),
		expense.Status,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.String("expense_id", expense.ID), zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID returns the expense without its history, or nil when missing
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

	expense, err := scanExpense(executor(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get expense", zap.String("expense_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// List returns expenses matching filter, newest first
func (r *ExpenseRepository) List(ctx context.Context, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var args []interface{}
	if filter.SubmittedBy != "" {
		query += ` WHERE submitted_by = ?`
		args = append(args, filter.SubmittedBy)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// UpdateStatus sets the status of an existing expense
func (r *ExpenseRepository) UpdateStatus(ctx context.Context, id string, status entity.ExpenseStatus, updatedAt time.Time) error {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE expenses SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id,
	)
	if err != nil {
		r.logger.Error("Failed to update expense status",
			zap.String("expense_id", id),
			zap.String("status", status.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update expense status: %w", err)
	}
	return requireRow(result, "expense", id)
}

// AppendApproval appends one entry to the expense's approval chain
func (r *ExpenseRepository) AppendApproval(ctx context.Context, entry *entity.ApprovalEntry) error {
	if err := expenseApprovals.appendEntry(ctx, r.db, entry); err != nil {
		r.logger.Error("Failed to append expense approval", zap.String("expense_id", entry.EntityID), zap.Error(err))
		return fmt.Errorf("failed to append expense approval: %w", err)
	}
	return nil
}

// ListApprovals returns the approval chain in append order
func (r *ExpenseRepository) ListApprovals(ctx context.Context, expenseID string) ([]*entity.ApprovalEntry, error) {
	entries, err := expenseApprovals.list(ctx, r.db, expenseID)
	if err != nil {
		r.logger.Error("Failed to list expense approvals", zap.String("expense_id", expenseID), zap.Error(err))
		return nil, fmt.Errorf("failed to list expense approvals: %w", err)
	}
	return entries, nil
}

func scanExpense(s scanner) (*entity.Expense, error) {
	var expense entity.Expense
	var receipt, managerID sql.NullString
	err := s.Scan(
		&expense.ID,
		&expense.Title,
		&expense.Description,
		&expense.Amount,
		&expense.Currency,
		&expense.Category,
		&receipt,
		&expense.SubmittedBy,
		&expense.SubmitterName,
		&managerID,
		&expense.Status,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.ReceiptURI = receipt.String
	expense.ManagerID = managerID.String
	return &expense, nil
}

// Verify interface compliance
var _ port.ExpenseRepository = (*ExpenseRepository)(nil)
