package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/apperr"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/domain/event"
	"github.com/garyjia/servicehub/internal/domain/sla"
	"github.com/garyjia/servicehub/pkg/utils"
)

// CreateTicket opens a ticket and fixes its SLA deadline from priority
func (e *engineImpl) CreateTicket(ctx context.Context, in CreateTicketInput) (*entity.Ticket, error) {
	if err := e.validateInput(in); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = entity.TicketPriorityMedium
	}

	creator, err := e.users.GetByID(ctx, in.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, apperr.NotFoundf("creator %s", in.CreatorID)
	}

	now := e.now()
	ticket := &entity.Ticket{
		ID:          uuid.NewString(),
		Title:       utils.SanitizeString(in.Title),
		Description: utils.SanitizeString(in.Description),
		Category:    in.Category,
		Priority:    priority,
		Status:      entity.TicketStatusOpen,
		CreatedBy:   creator.ID,
		CreatorName: creator.Name,
		SLADeadline: sla.Deadline(priority, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	e.logger.Info("Ticket created",
		"ticket_id", ticket.ID,
		"created_by", ticket.CreatedBy,
		"priority", ticket.Priority,
		"sla_deadline", ticket.SLADeadline,
	)

	e.emit(ctx, event.NewEvent(event.TypeTicketCreated, entity.EntityTypeTicket, ticket.ID, creator.ID, creator.Name, map[string]interface{}{
		event.KeyOwnerID:  ticket.CreatedBy,
		event.KeyTitle:    ticket.Title,
		event.KeyToStatus: ticket.Status.String(),
	}))

	return ticket, nil
}

// TransitionTicket moves a ticket to newStatus and optionally reassigns it.
// A nil assigneeID keeps the current assignee; an empty one clears it.
func (e *engineImpl) TransitionTicket(ctx context.Context, ticketID string, actor entity.Actor, newStatus entity.TicketStatus, assigneeID *string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !newStatus.IsValid() {
		return apperr.Validationf("unknown ticket status %q", newStatus)
	}
	if err := authorize(actor, "change ticket status", entity.RoleITAdmin); err != nil {
		return err
	}

	ticket, err := e.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return apperr.NotFoundf("ticket %s", ticketID)
	}
	if !ticket.Status.IsValid() {
		return fmt.Errorf("ticket %s has invalid stored status %q", ticketID, ticket.Status)
	}

	from := ticket.Status
	machine := BuildTicketStateMachine(from)
	if err := machine.Fire(ctx, newStatus); err != nil {
		return machineError(entity.EntityTypeTicket, ticketID, machine, err)
	}

	previousAssignee := ticket.AssigneeID
	assignee := previousAssignee
	assigneeName := ""
	if assigneeID != nil {
		assignee = strings.TrimSpace(*assigneeID)
		if assignee != "" {
			user, err := e.users.GetByID(ctx, assignee)
			if err != nil {
				return fmt.Errorf("failed to get assignee: %w", err)
			}
			if user == nil {
				return apperr.Validationf("unknown assignee %s", assignee)
			}
			assigneeName = user.Name
		}
	}

	now := e.now()
	actorName := e.displayName(ctx, actor.ID)
	record := &entity.TicketComment{
		ID:         uuid.NewString(),
		TicketID:   ticketID,
		AuthorID:   actor.ID,
		AuthorName: actorName,
		Kind:       entity.CommentKindStatusChange,
		Content:    statusChangeText(from, newStatus, previousAssignee, assignee, assigneeName),
		CreatedAt:  now,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.tickets.UpdateStatus(txCtx, ticketID, newStatus, assignee, now); err != nil {
			return fmt.Errorf("failed to update ticket status: %w", err)
		}
		if err := e.tickets.AppendComment(txCtx, record); err != nil {
			return fmt.Errorf("failed to append status change: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Info("Ticket transitioned",
		"ticket_id", ticketID,
		"actor_id", actor.ID,
		"from", from,
		"to", newStatus,
		"assignee_id", assignee,
	)

	e.emit(ctx, event.NewEvent(event.TypeTicketTransitioned, entity.EntityTypeTicket, ticketID, actor.ID, actorName, map[string]interface{}{
		event.KeyOwnerID:            ticket.CreatedBy,
		event.KeyTitle:              ticket.Title,
		event.KeyFromStatus:         from.String(),
		event.KeyToStatus:           newStatus.String(),
		event.KeyAssigneeID:         assignee,
		event.KeyPreviousAssigneeID: previousAssignee,
	}))

	return nil
}

func statusChangeText(from, to entity.TicketStatus, previousAssignee, assignee, assigneeName string) string {
	text := fmt.Sprintf("Status changed from %s to %s", from, to)
	if from == to {
		text = fmt.Sprintf("Status kept at %s", to)
	}
	switch {
	case assignee == previousAssignee:
	case assignee == "":
		text += "; unassigned"
	default:
		text += fmt.Sprintf("; assigned to %s", assigneeName)
	}
	return text
}

// commentInput carries the checked fields of a free-text ticket comment
type commentInput struct {
	AuthorID string `json:"author_id" validate:"required"`
	Content  string `json:"content" validate:"required,max=5000"`
}

// CommentOnTicket appends a user comment. Any known user may comment.
func (e *engineImpl) CommentOnTicket(ctx context.Context, ticketID, authorID, content string) (*entity.TicketComment, error) {
	in := commentInput{
		AuthorID: strings.TrimSpace(authorID),
		Content:  utils.SanitizeString(content),
	}
	if err := e.validateInput(in); err != nil {
		return nil, err
	}
	authorID, content = in.AuthorID, in.Content

	ticket, err := e.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperr.NotFoundf("ticket %s", ticketID)
	}

	now := e.now()
	comment := &entity.TicketComment{
		ID:         uuid.NewString(),
		TicketID:   ticketID,
		AuthorID:   authorID,
		AuthorName: e.displayName(ctx, authorID),
		Kind:       entity.CommentKindComment,
		Content:    content,
		CreatedAt:  now,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.tickets.AppendComment(txCtx, comment); err != nil {
			return fmt.Errorf("failed to append comment: %w", err)
		}
		if err := e.tickets.Touch(txCtx, ticketID, now); err != nil {
			return fmt.Errorf("failed to touch ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Ticket commented", "ticket_id", ticketID, "author_id", authorID)

	e.emit(ctx, event.NewEvent(event.TypeTicketCommented, entity.EntityTypeTicket, ticketID, authorID, comment.AuthorName, map[string]interface{}{
		event.KeyOwnerID:    ticket.CreatedBy,
		event.KeyTitle:      ticket.Title,
		event.KeyAssigneeID: ticket.AssigneeID,
		event.KeyComment:    content,
	}))

	return comment, nil
}

func (e *engineImpl) view(ticket *entity.Ticket) *TicketView {
	st := sla.Evaluate(ticket.SLADeadline, e.now())
	return &TicketView{
		Ticket:              ticket,
		SLARemainingSeconds: int64(st.Remaining.Seconds()),
		SLABreached:         st.Breached,
	}
}

// GetTicket returns a ticket with its comments and derived SLA state
func (e *engineImpl) GetTicket(ctx context.Context, id string) (*TicketView, error) {
	ticket, err := e.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperr.NotFoundf("ticket %s", id)
	}
	if ticket.Comments, err = e.tickets.ListComments(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to list ticket comments: %w", err)
	}
	return e.view(ticket), nil
}

// ListTickets returns the tickets visible to the actor: IT sees all,
// everyone else tickets they created or are assigned to
func (e *engineImpl) ListTickets(ctx context.Context, actor entity.Actor) ([]*TicketView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var filter port.TicketFilter
	if !actor.Role.OneOf(entity.RoleITAdmin) {
		filter.CreatedBy = actor.ID
		filter.AssigneeID = actor.ID
	}

	tickets, err := e.tickets.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	views := make([]*TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		views = append(views, e.view(ticket))
	}
	return views, nil
}
