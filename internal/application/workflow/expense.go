package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/apperr"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/domain/event"
	"github.com/garyjia/servicehub/pkg/utils"
)

const expenseSubmitComment = "Submitted"

// maxExpenseAmount bounds amounts to the NUMERIC(12,2) range of the store
var maxExpenseAmount = decimal.RequireFromString("9999999999.99")

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.Validationf("amount must be positive, got %s", amount.String())
	}
	if !amount.Equal(amount.Truncate(2)) {
		return apperr.Validationf("amount %s has more than two decimal places", amount.String())
	}
	if amount.GreaterThan(maxExpenseAmount) {
		return apperr.Validationf("amount %s exceeds %s", amount.String(), maxExpenseAmount.String())
	}
	return nil
}

// SubmitExpense creates an expense routed to the submitter's manager, or
// straight to Finance when the submitter has none
func (e *engineImpl) SubmitExpense(ctx context.Context, in SubmitExpenseInput) (*entity.Expense, error) {
	if err := e.validateInput(in); err != nil {
		return nil, err
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = entity.DefaultCurrency
	}

	submitter, err := e.users.GetByID(ctx, in.SubmitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submitter: %w", err)
	}
	if submitter == nil {
		return nil, apperr.NotFoundf("submitter %s", in.SubmitterID)
	}

	status := entity.ExpenseStatusPendingFinance
	if submitter.HasManager() {
		status = entity.ExpenseStatusPendingManager
	}

	now := e.now()
	expense := &entity.Expense{
		ID:            uuid.NewString(),
		Title:         utils.SanitizeString(in.Title),
		Description:   utils.SanitizeString(in.Description),
		Amount:        in.Amount,
		Currency:      currency,
		Category:      in.Category,
		ReceiptURI:    in.ReceiptURI,
		SubmittedBy:   submitter.ID,
		SubmitterName: submitter.Name,
		ManagerID:     submitter.ManagerID,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	submit := &entity.ApprovalEntry{
		ID:           uuid.NewString(),
		EntityID:     expense.ID,
		ApproverID:   submitter.ID,
		ApproverName: submitter.Name,
		Action:       entity.ActionSubmit,
		Comment:      expenseSubmitComment,
		CreatedAt:    now,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.expenses.Create(txCtx, expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		if err := e.expenses.AppendApproval(txCtx, submit); err != nil {
			return fmt.Errorf("failed to append submit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	expense.History = []*entity.ApprovalEntry{submit}

	e.logger.Info("Expense submitted",
		"expense_id", expense.ID,
		"submitted_by", expense.SubmittedBy,
		"amount", expense.Amount.StringFixed(2),
		"currency", expense.Currency,
		"status", expense.Status,
	)

	e.emit(ctx, event.NewEvent(event.TypeExpenseSubmitted, entity.EntityTypeExpense, expense.ID, submitter.ID, submitter.Name, map[string]interface{}{
		event.KeyOwnerID:   expense.SubmittedBy,
		event.KeyOwnerName: expense.SubmitterName,
		event.KeyManagerID: expense.ManagerID,
		event.KeyTitle:     expense.Title,
		event.KeyAmount:    expense.Amount.StringFixed(2),
		event.KeyCurrency:  expense.Currency,
		event.KeyToStatus:  expense.Status.String(),
	}))

	return expense, nil
}

// TransitionExpense applies an approve or reject action by a manager or Finance
func (e *engineImpl) TransitionExpense(ctx context.Context, expenseID string, actor entity.Actor, action entity.ApprovalAction, comment string) (entity.ExpenseStatus, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}
	if action != entity.ActionApprove && action != entity.ActionReject {
		return "", apperr.Validationf("unsupported expense action %q", action)
	}
	if err := authorize(actor, "act on expenses", entity.RoleManager, entity.RoleFinanceAdmin); err != nil {
		return "", err
	}

	return e.fireExpense(ctx, expenseID, actor, action, comment, event.TypeExpenseTransitioned)
}

// MarkExpensePaid moves an approved expense to Paid
func (e *engineImpl) MarkExpensePaid(ctx context.Context, expenseID string, actor entity.Actor, comment string) (entity.ExpenseStatus, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}
	if err := authorize(actor, "pay expenses", entity.RoleFinanceAdmin); err != nil {
		return "", err
	}

	return e.fireExpense(ctx, expenseID, actor, entity.ActionPay, comment, event.TypeExpensePaid)
}

func (e *engineImpl) fireExpense(ctx context.Context, expenseID string, actor entity.Actor, action entity.ApprovalAction, comment string, eventType event.Type) (entity.ExpenseStatus, error) {
	expense, err := e.expenses.GetByID(ctx, expenseID)
	if err != nil {
		return "", fmt.Errorf("failed to get expense: %w", err)
	}
	if expense == nil {
		return "", apperr.NotFoundf("expense %s", expenseID)
	}
	if !expense.Status.IsValid() {
		return "", fmt.Errorf("expense %s has invalid stored status %q", expenseID, expense.Status)
	}

	from := expense.Status
	machine := BuildExpenseStateMachine(from, actor)
	if err := machine.Fire(ctx, action); err != nil {
		return "", machineError(entity.EntityTypeExpense, expenseID, machine, err)
	}
	to := machine.State()

	now := e.now()
	actorName := e.displayName(ctx, actor.ID)
	entry := &entity.ApprovalEntry{
		ID:           uuid.NewString(),
		EntityID:     expenseID,
		ApproverID:   actor.ID,
		ApproverName: actorName,
		Action:       action,
		Comment:      utils.SanitizeString(comment),
		CreatedAt:    now,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.expenses.UpdateStatus(txCtx, expenseID, to, now); err != nil {
			return fmt.Errorf("failed to update expense status: %w", err)
		}
		if err := e.expenses.AppendApproval(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append approval entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	e.logger.Info("Expense transitioned",
		"expense_id", expenseID,
		"actor_id", actor.ID,
		"action", action,
		"from", from,
		"to", to,
	)

	e.emit(ctx, event.NewEvent(eventType, entity.EntityTypeExpense, expenseID, actor.ID, actorName, map[string]interface{}{
		event.KeyOwnerID:    expense.SubmittedBy,
		event.KeyOwnerName:  expense.SubmitterName,
		event.KeyManagerID:  expense.ManagerID,
		event.KeyTitle:      expense.Title,
		event.KeyAmount:     expense.Amount.StringFixed(2),
		event.KeyCurrency:   expense.Currency,
		event.KeyFromStatus: from.String(),
		event.KeyToStatus:   to.String(),
		event.KeyAction:     action.String(),
		event.KeyComment:    entry.Comment,
	}))

	return to, nil
}

// GetExpense returns an expense with its approval history
func (e *engineImpl) GetExpense(ctx context.Context, id string) (*entity.Expense, error) {
	expense, err := e.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if expense == nil {
		return nil, apperr.NotFoundf("expense %s", id)
	}
	if expense.History, err = e.expenses.ListApprovals(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to list expense approvals: %w", err)
	}
	return expense, nil
}

// ListExpenses returns the expenses visible to the actor: Finance and
// managers see all, everyone else their own
func (e *engineImpl) ListExpenses(ctx context.Context, actor entity.Actor) ([]*entity.Expense, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var filter port.ExpenseFilter
	if !actor.Role.OneOf(entity.RoleFinanceAdmin, entity.RoleManager) {
		filter.SubmittedBy = actor.ID
	}

	expenses, err := e.expenses.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	for _, expense := range expenses {
		if expense.History, err = e.expenses.ListApprovals(ctx, expense.ID); err != nil {
			return nil, fmt.Errorf("failed to list expense approvals: %w", err)
		}
	}
	return expenses, nil
}
