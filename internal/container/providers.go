package container

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/garyjia/servicehub/internal/application/dispatcher"
	"github.com/garyjia/servicehub/internal/application/service"
	"github.com/garyjia/servicehub/internal/application/workflow"
	"github.com/garyjia/servicehub/internal/domain/event"
	"github.com/garyjia/servicehub/internal/infrastructure/persistence/repository"
	"github.com/garyjia/servicehub/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/servicehub/migrations"
	"github.com/garyjia/servicehub/pkg/database"
)

// Handler names registered on the dispatcher
const (
	NotificationHandler = "notification"
	AuditHandler        = "audit"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.DB
}

// ProvideDatabase opens the SQLite database, applies pending migrations and
// wraps the connection in a transaction manager.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	var source fs.FS = migrations.FS
	if cfg.MigrationsDir != "" {
		source = os.DirFS(cfg.MigrationsDir)
	}

	if err := database.NewMigrator(db, logger).RunMigrations(source); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		User:         repository.NewUserRepository(sqlDB, logger),
		Leave:        repository.NewLeaveRepository(sqlDB, logger),
		Expense:      repository.NewExpenseRepository(sqlDB, logger),
		Ticket:       repository.NewTicketRepository(sqlDB, logger),
		Notification: repository.NewNotificationRepository(sqlDB, logger),
		Audit:        repository.NewAuditRepository(sqlDB, logger),
	}, nil
}

// ProvideServices creates the notification and audit services.
func ProvideServices(repos *RepositoryBundle, auditCfg *AuditConfig, logger *zap.Logger) (*ServiceBundle, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}

	serviceLogger := &zapLoggerAdapter{logger: logger.Named("service")}
	return &ServiceBundle{
		Notification: service.NewNotificationService(repos.Notification, serviceLogger),
		Audit: service.NewAuditService(repos.Audit, serviceLogger,
			service.WithExportSheetName(auditCfg.ExportSheetName)),
	}, nil
}

// ProvideDispatcher creates the dispatcher and registers the notification and
// audit sinks as post-commit hooks for every event type. Notification runs
// before audit; a failure in one never prevents the other.
func ProvideDispatcher(services *ServiceBundle, logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}

	disp := dispatcher.NewDispatcher(
		dispatcher.WithLogger(&zapLoggerAdapter{logger: logger.Named("dispatcher")}),
	)
	for _, t := range event.All {
		disp.Subscribe(t, NotificationHandler, services.Notification.HandleEvent)
		disp.Subscribe(t, AuditHandler, services.Audit.HandleEvent)
	}
	return disp, nil
}

// WorkflowDeps holds dependencies required for creating the workflow engine.
type WorkflowDeps struct {
	Repos      *RepositoryBundle
	TxManager  *sqlite.DB
	Dispatcher dispatcher.Dispatcher
	Logger     *zap.Logger
}

// ProvideWorkflowEngine creates the workflow engine.
func ProvideWorkflowEngine(deps *WorkflowDeps) (workflow.Engine, error) {
	if deps == nil {
		return nil, fmt.Errorf("workflow dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	return workflow.NewEngine(
		deps.Repos.User,
		deps.Repos.Leave,
		deps.Repos.Expense,
		deps.Repos.Ticket,
		deps.TxManager,
		workflow.WithDispatcher(deps.Dispatcher),
		workflow.WithLogger(&zapLoggerAdapter{logger: deps.Logger.Named("workflow")}),
	), nil
}
