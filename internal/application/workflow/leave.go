package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/apperr"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/domain/event"
	"github.com/garyjia/servicehub/pkg/utils"
)

const leaveSubmitComment = "Submitted for approval"

// SubmitLeave creates a leave routed to the employee's manager, or straight
// to HR when the employee has none
func (e *engineImpl) SubmitLeave(ctx context.Context, in SubmitLeaveInput) (*entity.Leave, error) {
	if err := e.validateInput(in); err != nil {
		return nil, err
	}

	start, err := time.Parse(entity.DateLayout, in.StartDate)
	if err != nil {
		return nil, apperr.Validationf("start_date: %v", err)
	}
	end, err := time.Parse(entity.DateLayout, in.EndDate)
	if err != nil {
		return nil, apperr.Validationf("end_date: %v", err)
	}
	if end.Before(start) {
		return nil, apperr.Validationf("end_date %s is before start_date %s", in.EndDate, in.StartDate)
	}

	employee, err := e.users.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if employee == nil {
		return nil, apperr.NotFoundf("employee %s", in.EmployeeID)
	}

	status := entity.LeaveStatusPendingHR
	if employee.HasManager() {
		status = entity.LeaveStatusPendingManager
	}

	now := e.now()
	leave := &entity.Leave{
		ID:           uuid.NewString(),
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		ManagerID:    employee.ManagerID,
		LeaveType:    in.LeaveType,
		StartDate:    start,
		EndDate:      end,
		Reason:       utils.SanitizeString(in.Reason),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	submit := &entity.ApprovalEntry{
		ID:           uuid.NewString(),
		EntityID:     leave.ID,
		ApproverID:   employee.ID,
		ApproverName: employee.Name,
		Action:       entity.ActionSubmit,
		Comment:      leaveSubmitComment,
		CreatedAt:    now,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.leaves.Create(txCtx, leave); err != nil {
			return fmt.Errorf("failed to create leave: %w", err)
		}
		if err := e.leaves.AppendApproval(txCtx, submit); err != nil {
			return fmt.Errorf("failed to append submit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	leave.History = []*entity.ApprovalEntry{submit}

	e.logger.Info("Leave submitted",
		"leave_id", leave.ID,
		"employee_id", leave.EmployeeID,
		"status", leave.Status,
	)

	e.emit(ctx, event.NewEvent(event.TypeLeaveSubmitted, entity.EntityTypeLeave, leave.ID, employee.ID, employee.Name, map[string]interface{}{
		event.KeyOwnerID:   leave.EmployeeID,
		event.KeyOwnerName: leave.EmployeeName,
		event.KeyManagerID: leave.ManagerID,
		event.KeyLeaveType: string(leave.LeaveType),
		event.KeyToStatus:  leave.Status.String(),
	}))

	return leave, nil
}

// TransitionLeave applies an approve, reject or escalate action by a manager or HR
func (e *engineImpl) TransitionLeave(ctx context.Context, leaveID string, actor entity.Actor, action entity.ApprovalAction, comment string) (entity.LeaveStatus, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}
	switch action {
	case entity.ActionApprove, entity.ActionReject, entity.ActionEscalate:
	default:
		return "", apperr.Validationf("unsupported leave action %q", action)
	}
	if err := authorize(actor, "act on leave requests", entity.RoleManager, entity.RoleHRAdmin); err != nil {
		return "", err
	}

	leave, err := e.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return "", fmt.Errorf("failed to get leave: %w", err)
	}
	if leave == nil {
		return "", apperr.NotFoundf("leave %s", leaveID)
	}
	if !leave.Status.IsValid() {
		return "", fmt.Errorf("leave %s has invalid stored status %q", leaveID, leave.Status)
	}

	from := leave.Status
	machine := BuildLeaveStateMachine(from, actor)
	if err := machine.Fire(ctx, action); err != nil {
		return "", machineError(entity.EntityTypeLeave, leaveID, machine, err)
	}
	to := machine.State()

	now := e.now()
	actorName := e.displayName(ctx, actor.ID)
	entry := &entity.ApprovalEntry{
		ID:           uuid.NewString(),
		EntityID:     leaveID,
		ApproverID:   actor.ID,
		ApproverName: actorName,
		Action:       action,
		Comment:      utils.SanitizeString(comment),
		CreatedAt:    now,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.leaves.UpdateStatus(txCtx, leaveID, to, now); err != nil {
			return fmt.Errorf("failed to update leave status: %w", err)
		}
		if err := e.leaves.AppendApproval(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append approval entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	e.logger.Info("Leave transitioned",
		"leave_id", leaveID,
		"actor_id", actor.ID,
		"action", action,
		"from", from,
		"to", to,
	)

	e.emit(ctx, event.NewEvent(event.TypeLeaveTransitioned, entity.EntityTypeLeave, leaveID, actor.ID, actorName, map[string]interface{}{
		event.KeyOwnerID:    leave.EmployeeID,
		event.KeyOwnerName:  leave.EmployeeName,
		event.KeyManagerID:  leave.ManagerID,
		event.KeyFromStatus: from.String(),
		event.KeyToStatus:   to.String(),
		event.KeyAction:     action.String(),
		event.KeyComment:    entry.Comment,
	}))

	return to, nil
}

// GetLeave returns a leave with its approval history
func (e *engineImpl) GetLeave(ctx context.Context, id string) (*entity.Leave, error) {
	leave, err := e.leaves.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave: %w", err)
	}
	if leave == nil {
		return nil, apperr.NotFoundf("leave %s", id)
	}
	if leave.History, err = e.leaves.ListApprovals(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to list leave approvals: %w", err)
	}
	return leave, nil
}

// ListLeaves returns the leaves visible to the actor: HR sees all,
// managers see leaves routed to them, everyone else their own
func (e *engineImpl) ListLeaves(ctx context.Context, actor entity.Actor) ([]*entity.Leave, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var filter port.LeaveFilter
	switch {
	case actor.Role.OneOf(entity.RoleHRAdmin):
	case actor.Role == entity.RoleManager:
		filter.ManagerID = actor.ID
	default:
		filter.EmployeeID = actor.ID
	}

	leaves, err := e.leaves.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	for _, leave := range leaves {
		if leave.History, err = e.leaves.ListApprovals(ctx, leave.ID); err != nil {
			return nil, fmt.Errorf("failed to list leave approvals: %w", err)
		}
	}
	return leaves, nil
}

// GetLeaveBalance returns the user's leave balance, granting the default
// allowances on first read
func (e *engineImpl) GetLeaveBalance(ctx context.Context, userID string) (*entity.LeaveBalance, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validationf("user id is required")
	}

	balance, err := e.leaves.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	if balance != nil {
		return balance, nil
	}

	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFoundf("user %s", userID)
	}

	created, err := e.leaves.CreateBalance(ctx, entity.NewLeaveBalance(userID, e.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create leave balance: %w", err)
	}
	if created {
		e.logger.Info("Leave balance created", "user_id", userID)
	}

	// a concurrent first read may have won the insert
	balance, err = e.leaves.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return balance, nil
}
