package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/domain/event"
)

const (
	defaultAuditLimit      = 100
	defaultExportSheetName = "Audit Log"
	maxDetailsLength       = 500
)

var auditColumns = []string{"Time", "User ID", "User", "Action", "Entity Type", "Entity ID", "Details"}

// AuditService appends an audit entry for every workflow event and exposes
// the log for review and export
type AuditService interface {
	// HandleEvent is the post-commit hook that records evt
	HandleEvent(ctx context.Context, evt *event.Event) error

	List(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditLog, error)

	// ExportXLSX writes the filtered log as a spreadsheet to w
	ExportXLSX(ctx context.Context, filter entity.AuditFilter, w io.Writer) error
}

type auditServiceImpl struct {
	repo      port.AuditRepository
	logger    Logger
	sheetName string
}

// AuditOption configures the audit service
type AuditOption func(*auditServiceImpl)

// WithExportSheetName sets the worksheet name used by ExportXLSX
func WithExportSheetName(name string) AuditOption {
	return func(s *auditServiceImpl) {
		if name != "" {
			s.sheetName = name
		}
	}
}

// NewAuditService creates a new AuditService
func NewAuditService(repo port.AuditRepository, logger Logger, opts ...AuditOption) AuditService {
	s := &auditServiceImpl{
		repo:      repo,
		logger:    logger,
		sheetName: defaultExportSheetName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleEvent appends one audit entry describing evt
func (s *auditServiceImpl) HandleEvent(ctx context.Context, evt *event.Event) error {
	action, details, ok := describe(evt)
	if !ok {
		return nil
	}

	entry := &entity.AuditLog{
		ID:         uuid.NewString(),
		UserID:     evt.ActorID,
		UserName:   evt.ActorName,
		Action:     action,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		Details:    truncate(details, maxDetailsLength),
		CreatedAt:  evt.Timestamp,
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to append audit entry",
			"event_type", evt.Type,
			"entity_id", evt.EntityID,
			"error", err,
		)
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func describe(evt *event.Event) (entity.AuditAction, string, bool) {
	from := evt.GetPayloadString(event.KeyFromStatus)
	to := evt.GetPayloadString(event.KeyToStatus)
	comment := evt.GetPayloadString(event.KeyComment)

	switch evt.Type {
	case event.TypeLeaveSubmitted:
		return entity.AuditActionCreate, fmt.Sprintf("Created %s leave", evt.GetPayloadString(event.KeyLeaveType)), true

	case event.TypeExpenseSubmitted:
		return entity.AuditActionCreate, fmt.Sprintf("Created expense: %s (%s %s)",
			evt.GetPayloadString(event.KeyTitle), evt.GetPayloadString(event.KeyAmount), evt.GetPayloadString(event.KeyCurrency)), true

	case event.TypeTicketCreated:
		return entity.AuditActionCreate, fmt.Sprintf("Created ticket: %s", evt.GetPayloadString(event.KeyTitle)), true

	case event.TypeLeaveTransitioned, event.TypeExpenseTransitioned, event.TypeExpensePaid:
		action := entity.AuditAction(evt.GetPayloadString(event.KeyAction))
		details := fmt.Sprintf("%s %s: %s -> %s", evt.EntityType, action, from, to)
		if comment != "" {
			details += " (" + comment + ")"
		}
		return action, details, true

	case event.TypeTicketTransitioned:
		details := fmt.Sprintf("Status changed from %s to %s", from, to)
		if assignee := evt.GetPayloadString(event.KeyAssigneeID); assignee != evt.GetPayloadString(event.KeyPreviousAssigneeID) {
			details += fmt.Sprintf("; assignee %q", assignee)
		}
		return entity.AuditActionStatusChange, details, true

	case event.TypeTicketCommented:
		return entity.AuditActionComment, comment, true
	}

	return "", "", false
}

// truncate caps s at max characters, never splitting a multi-byte rune
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// List returns audit entries matching filter, newest first
func (s *auditServiceImpl) List(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditLog, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultAuditLimit
	}
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// ExportXLSX writes the audit entries matching filter to w as an XLSX workbook
func (s *auditServiceImpl) ExportXLSX(ctx context.Context, filter entity.AuditFilter, w io.Writer) (err error) {
	entries, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	file := excelize.NewFile()
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close workbook: %w", cerr))
		}
	}()

	if err := file.SetSheetName("Sheet1", s.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := file.SetSheetRow(s.sheetName, "A1", &auditColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.UserID,
			entry.UserName,
			string(entry.Action),
			string(entry.EntityType),
			entry.EntityID,
			entry.Details,
		}
		if err := file.SetSheetRow(s.sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := file.SetColWidth(s.sheetName, "A", "A", 22); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := file.SetColWidth(s.sheetName, "G", "G", 60); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Audit log exported",
		"rows", len(entries),
		"entity_type", string(filter.EntityType),
		"sheet", s.sheetName,
	)
	return nil
}
