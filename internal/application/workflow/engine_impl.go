package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/garyjia/servicehub/internal/application/dispatcher"
	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/domain/apperr"
	"github.com/garyjia/servicehub/internal/domain/entity"
	"github.com/garyjia/servicehub/internal/domain/event"
	domainwf "github.com/garyjia/servicehub/internal/domain/workflow"
	"github.com/garyjia/servicehub/pkg/utils"
)

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	users     port.UserRepository
	leaves    port.LeaveRepository
	expenses  port.ExpenseRepository
	tickets   port.TicketRepository
	txManager port.TransactionManager

	dispatcher dispatcher.Dispatcher
	validate   *validator.Validate
	logger     Logger
	now        func() time.Time
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the dispatcher that runs post-commit hooks
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithLogger sets the engine logger
func WithLogger(logger Logger) EngineOption {
	return func(e *engineImpl) {
		e.logger = logger
	}
}

// WithClock overrides the time source used for timestamps and SLA deadlines
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// WithValidator overrides the input validator
func WithValidator(v *validator.Validate) EngineOption {
	return func(e *engineImpl) {
		e.validate = v
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	users port.UserRepository,
	leaves port.LeaveRepository,
	expenses port.ExpenseRepository,
	tickets port.TicketRepository,
	txManager port.TransactionManager,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		users:     users,
		leaves:    leaves,
		expenses:  expenses,
		tickets:   tickets,
		txManager: txManager,
		validate:  utils.NewValidator(),
		logger:    nopLogger{},
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// validateInput runs struct validation and maps failures to ErrValidation
func (e *engineImpl) validateInput(in interface{}) error {
	if err := e.validate.Struct(in); err != nil {
		return apperr.Validationf("%s", strings.Join(utils.ValidationMessages(err), "; "))
	}
	return nil
}

func requireActor(actor entity.Actor) error {
	if strings.TrimSpace(actor.ID) == "" {
		return apperr.Validationf("actor id is required")
	}
	if !actor.Role.IsValid() {
		return apperr.Validationf("unknown actor role %q", actor.Role)
	}
	return nil
}

// authorize fails with ErrForbidden unless the actor holds one of roles or the override role
func authorize(actor entity.Actor, operation string, roles ...entity.Role) error {
	if !actor.Role.OneOf(roles...) {
		return apperr.Forbiddenf("role %s may not %s", actor.Role, operation)
	}
	return nil
}

// machineError maps state machine rejections to ErrConflict, naming the
// actions the current state accepts
func machineError[S domainwf.State, T domainwf.Trigger](entityType entity.EntityType, id string, m domainwf.StateMachine[S, T], err error) error {
	if !errors.Is(err, domainwf.ErrInvalidTransition) && !errors.Is(err, domainwf.ErrGuardFailed) {
		return err
	}

	permitted := m.PermittedTriggers()
	if len(permitted) == 0 {
		return apperr.Conflictf("%s %s: %v; %s is final", entityType, id, err, m.State())
	}
	names := make([]string, len(permitted))
	for i, t := range permitted {
		names[i] = t.String()
	}
	return apperr.Conflictf("%s %s: %v; %s accepts %s", entityType, id, err, m.State(), strings.Join(names, ", "))
}

// displayName resolves a user's name, falling back to UnknownName
func (e *engineImpl) displayName(ctx context.Context, userID string) string {
	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		e.logger.Error("Failed to resolve user name", "user_id", userID, "error", err)
		return entity.UnknownName
	}
	if user == nil {
		return entity.UnknownName
	}
	return user.Name
}

// emit runs the post-commit hooks for evt. Failures are logged and swallowed.
func (e *engineImpl) emit(ctx context.Context, evt *event.Event) {
	if e.dispatcher == nil {
		return
	}
	if err := e.dispatcher.Dispatch(ctx, evt); err != nil {
		e.logger.Error("Post-commit hooks failed",
			"event_type", evt.Type,
			"event_id", evt.ID,
			"entity_id", evt.EntityID,
			"error", err,
		)
	}
}
