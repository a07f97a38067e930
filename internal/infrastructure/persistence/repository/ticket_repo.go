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

// TicketRepository implements port.TicketRepository
type TicketRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB, logger *zap.Logger) *TicketRepository {
	return &TicketRepository{
		db:     db,
		logger: logger,
	}
}

const ticketColumns = `id, title, description, category, priority, status, created_by, creator_name,
	assignee_id, sla_deadline, created_at, updated_at`

// Create inserts a ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `INSERT INTO tickets (` + ticketColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedBy,
		ticket.CreatorName,
		nullString(ticket.AssigneeID),
		ticket.SLADeadline,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create ticket", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// GetByID returns the ticket without comments, or nil when missing
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`

	ticket, err := scanTicket(executor(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get ticket", zap.String("ticket_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// List returns tickets matching filter, newest first. With both fields set
// a ticket matches when either the creator or the assignee is the user.
func (r *TicketRepository) List(ctx context.Context, filter port.TicketFilter) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	var args []interface{}
	switch {
	case filter.CreatedBy != "" && filter.AssigneeID != "":
		query += ` WHERE created_by = ? OR assignee_id = ?`
		args = append(args, filter.CreatedBy, filter.AssigneeID)
	case filter.CreatedBy != "":
		query += ` WHERE created_by = ?`
		args = append(args, filter.CreatedBy)
	case filter.AssigneeID != "":
		query += ` WHERE assignee_id = ?`
		args = append(args, filter.AssigneeID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list tickets", zap.Error(err))
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

// UpdateStatus sets status and assignee. The SLA deadline is never written after creation.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status entity.TicketStatus, assigneeID string, updatedAt time.Time) error {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE tickets SET status = ?, assignee_id = ?, updated_at = ? WHERE id = ?`,
		status, nullString(assigneeID), updatedAt, id,
	)
	if err != nil {
		r.logger.Error("Failed to update ticket status",
			zap.String("ticket_id", id),
			zap.String("status", status.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	return requireRow(result, "ticket", id)
}

// Touch bumps updated_at
func (r *TicketRepository) Touch(ctx context.Context, id string, updatedAt time.Time) error {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE tickets SET updated_at = ? WHERE id = ?`, updatedAt, id)
	if err != nil {
		r.logger.Error("Failed to touch ticket", zap.String("ticket_id", id), zap.Error(err))
		return fmt.Errorf("failed to touch ticket: %w", err)
	}
	return requireRow(result, "ticket", id)
}

// AppendComment appends a comment or status-change entry
func (r *TicketRepository) AppendComment(ctx context.Context, comment *entity.TicketComment) error {
	query := `
		INSERT INTO ticket_comments (id, ticket_id, author_id, author_name, kind, content, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM ticket_comments WHERE ticket_id = ?), ?)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		comment.ID,
		comment.TicketID,
		comment.AuthorID,
		comment.AuthorName,
		comment.Kind,
		comment.Content,
		comment.TicketID,
		comment.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append ticket comment", zap.String("ticket_id", comment.TicketID), zap.Error(err))
		return fmt.Errorf("failed to append ticket comment: %w", err)
	}
	return nil
}

// ListComments returns the ticket's comments in append order
func (r *TicketRepository) ListComments(ctx context.Context, ticketID string) ([]*entity.TicketComment, error) {
	query := `
		SELECT id, ticket_id, author_id, author_name, kind, content, created_at
		FROM ticket_comments
		WHERE ticket_id = ?
		ORDER BY seq ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, ticketID)
	if err != nil {
		r.logger.Error("Failed to list ticket comments", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, fmt.Errorf("failed to list ticket comments: %w", err)
	}
	defer rows.Close()

	var comments []*entity.TicketComment
	for rows.Next() {
		var c entity.TicketComment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.AuthorName, &c.Kind, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func scanTicket(s scanner) (*entity.Ticket, error) {
	var ticket entity.Ticket
	var assignee sql.NullString
	err := s.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedBy,
		&ticket.CreatorName,
		&assignee,
		&ticket.SLADeadline,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ticket.AssigneeID = assignee.String
	return &ticket, nil
}

// Verify interface compliance
var _ port.TicketRepository = (*TicketRepository)(nil)
