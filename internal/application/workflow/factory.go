package workflow

import (
	"context"

	"github.com/garyjia/servicehub/internal/domain/entity"
	domainwf "github.com/garyjia/servicehub/internal/domain/workflow"
)

// LeaveStateMachine is the leave lifecycle driven by approval actions
type LeaveStateMachine = domainwf.StateMachine[entity.LeaveStatus, entity.ApprovalAction]

// ExpenseStateMachine is the expense lifecycle driven by approval actions
type ExpenseStateMachine = domainwf.StateMachine[entity.ExpenseStatus, entity.ApprovalAction]

// TicketStateMachine is the ticket lifecycle; the trigger is the requested status
type TicketStateMachine = domainwf.StateMachine[entity.TicketStatus, entity.TicketStatus]

func hasRole(actor entity.Actor, roles ...entity.Role) domainwf.GuardFunc {
	return func(ctx context.Context) bool {
		return actor.Role.OneOf(roles...)
	}
}

func isExactly(actor entity.Actor, role entity.Role) domainwf.GuardFunc {
	return func(ctx context.Context) bool {
		return actor.Role == role
	}
}

// BuildLeaveStateMachine creates the leave machine for an actor.
// HR (or the override role) approves to Approved from any open state;
// a manager approval forwards a Pending_Manager leave to Pending_HR.
func BuildLeaveStateMachine(initial entity.LeaveStatus, actor entity.Actor) LeaveStateMachine {
	builder := domainwf.NewBuilder[entity.LeaveStatus, entity.ApprovalAction]()
	final := hasRole(actor, entity.RoleHRAdmin)
	manager := isExactly(actor, entity.RoleManager)

	for _, pending := range []entity.LeaveStatus{entity.LeaveStatusSubmitted, entity.LeaveStatusPendingManager} {
		builder.Configure(pending).
			PermitIf(entity.ActionApprove, entity.LeaveStatusApproved, final).
			PermitIf(entity.ActionApprove, entity.LeaveStatusPendingHR, manager).
			Permit(entity.ActionReject, entity.LeaveStatusRejected).
			Permit(entity.ActionEscalate, entity.LeaveStatusEscalated)
	}

	builder.Configure(entity.LeaveStatusPendingHR).
		PermitIf(entity.ActionApprove, entity.LeaveStatusApproved, final).
		Permit(entity.ActionReject, entity.LeaveStatusRejected).
		Permit(entity.ActionEscalate, entity.LeaveStatusEscalated)

	builder.Configure(entity.LeaveStatusEscalated).
		PermitIf(entity.ActionApprove, entity.LeaveStatusApproved, final).
		Permit(entity.ActionReject, entity.LeaveStatusRejected)

	// Approved and Rejected are terminal

	return builder.Build(initial)
}

// BuildExpenseStateMachine creates the expense machine for an actor.
// It mirrors the leave machine with Finance in place of HR and adds the
// Approved -> Paid payout step.
func BuildExpenseStateMachine(initial entity.ExpenseStatus, actor entity.Actor) ExpenseStateMachine {
	builder := domainwf.NewBuilder[entity.ExpenseStatus, entity.ApprovalAction]()
	final := hasRole(actor, entity.RoleFinanceAdmin)
	manager := isExactly(actor, entity.RoleManager)

	for _, pending := range []entity.ExpenseStatus{entity.ExpenseStatusSubmitted, entity.ExpenseStatusPendingManager} {
		builder.Configure(pending).
			PermitIf(entity.ActionApprove, entity.ExpenseStatusApproved, final).
			PermitIf(entity.ActionApprove, entity.ExpenseStatusPendingFinance, manager).
			Permit(entity.ActionReject, entity.ExpenseStatusRejected)
	}

	builder.Configure(entity.ExpenseStatusPendingFinance).
		PermitIf(entity.ActionApprove, entity.ExpenseStatusApproved, final).
		Permit(entity.ActionReject, entity.ExpenseStatusRejected)

	builder.Configure(entity.ExpenseStatusApproved).
		PermitIf(entity.ActionPay, entity.ExpenseStatusPaid, final)

	return builder.Build(initial)
}

var ticketTransitions = map[entity.TicketStatus][]entity.TicketStatus{
	entity.TicketStatusOpen: {
		entity.TicketStatusOpen, entity.TicketStatusAssigned, entity.TicketStatusInProgress, entity.TicketStatusEscalated,
	},
	entity.TicketStatusAssigned: {
		entity.TicketStatusAssigned, entity.TicketStatusInProgress, entity.TicketStatusEscalated,
	},
	entity.TicketStatusInProgress: {
		entity.TicketStatusInProgress, entity.TicketStatusResolved, entity.TicketStatusEscalated,
	},
	entity.TicketStatusResolved: {
		entity.TicketStatusClosed, entity.TicketStatusInProgress, entity.TicketStatusEscalated,
	},
	entity.TicketStatusEscalated: {
		entity.TicketStatusEscalated, entity.TicketStatusAssigned, entity.TicketStatusInProgress, entity.TicketStatusResolved,
	},
}

// BuildTicketStateMachine creates the ticket machine. Same-status moves are
// permitted on working states so the assignee can change alone.
func BuildTicketStateMachine(initial entity.TicketStatus) TicketStateMachine {
	builder := domainwf.NewBuilder[entity.TicketStatus, entity.TicketStatus]()

	for from, targets := range ticketTransitions {
		config := builder.Configure(from)
		for _, to := range targets {
			config.Permit(to, to)
		}
	}

	return builder.Build(initial)
}
