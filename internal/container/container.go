package container

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/servicehub/internal/application/dispatcher"
	"github.com/garyjia/servicehub/internal/application/port"
	"github.com/garyjia/servicehub/internal/application/service"
	"github.com/garyjia/servicehub/internal/application/workflow"
	"github.com/garyjia/servicehub/internal/domain/event"
	"github.com/garyjia/servicehub/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/servicehub/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// Components start in dependency order and close in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure
	db           *database.DB
	txManager    *sqlite.DB
	repositories *RepositoryBundle

	// Application
	services   *ServiceBundle
	dispatcher dispatcher.Dispatcher
	engine     workflow.Engine

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	User         port.UserRepository
	Leave        port.LeaveRepository
	Expense      port.ExpenseRepository
	Ticket       port.TicketRepository
	Notification port.NotificationRepository
	Audit        port.AuditRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Notification service.NotificationService
	Audit        service.AuditService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Database, migrations and repositories
// 2. Notification and audit services
// 3. Dispatcher with the post-commit hooks
// 4. Workflow engine
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	services, err := ProvideServices(c.repositories, &c.config.Audit, c.logger)
	if err != nil {
		return c.abort(fmt.Errorf("failed to initialize services: %w", err))
	}
	c.services = services

	disp, err := ProvideDispatcher(c.services, c.logger)
	if err != nil {
		return c.abort(fmt.Errorf("failed to initialize dispatcher: %w", err))
	}
	c.dispatcher = disp

	engine, err := ProvideWorkflowEngine(&WorkflowDeps{
		Repos:      c.repositories,
		TxManager:  c.txManager,
		Dispatcher: c.dispatcher,
		Logger:     c.logger,
	})
	if err != nil {
		return c.abort(fmt.Errorf("failed to initialize workflow engine: %w", err))
	}
	c.engine = engine
	c.logger.Info("Workflow engine initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// abort releases the database after a failed Start
func (c *Container) abort(err error) error {
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
	return err
}

func (c *Container) initDatabase() error {
	bundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.db = bundle.DB
	c.txManager = bundle.TransactionMgr

	repos, err := ProvideRepositories(c.db.DB, c.logger)
	if err != nil {
		return c.abort(err)
	}
	c.repositories = repos
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return errors.Join(errs...)
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	check := func(name string, ok bool, message string) {
		h := ComponentHealth{Healthy: ok}
		if !ok {
			h.Message = message
			status.Overall = false
		}
		status.Components[name] = h
	}

	if c.db == nil || c.closed.Load() {
		check("database", false, "not initialized")
	} else if err := c.db.PingContext(ctx); err != nil {
		check("database", false, fmt.Sprintf("ping failed: %v", err))
	} else {
		check("database", true, "")
	}

	if c.dispatcher == nil {
		check("dispatcher", false, "not initialized")
	} else {
		var unhooked []string
		for _, typ := range event.All {
			if len(c.dispatcher.Handlers(typ)) == 0 {
				unhooked = append(unhooked, string(typ))
			}
		}
		check("dispatcher", len(unhooked) == 0, "no hooks for "+strings.Join(unhooked, ", "))
	}
	check("workflow", c.engine != nil, "not initialized")

	return status
}

// Engine returns the workflow engine. Nil before Start.
func (c *Container) Engine() workflow.Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

// Services returns the notification and audit services. Nil before Start.
func (c *Container) Services() *ServiceBundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services
}

// Repositories returns the repository bundle. Nil before Start.
func (c *Container) Repositories() *RepositoryBundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repositories
}

// Dispatcher returns the event dispatcher. Nil before Start.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dispatcher
}

// zapLoggerAdapter adapts zap.Logger to the Logger interfaces of the
// application packages.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// NewLoggerAdapter exposes the zap adapter to the interface layer.
func NewLoggerAdapter(logger *zap.Logger) interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
} {
	return &zapLoggerAdapter{logger: logger}
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
