package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jasonamaral/mba.modulo4-sub001/api"
	"github.com/jasonamaral/mba.modulo4-sub001/api/health"
	apistudent "github.com/jasonamaral/mba.modulo4-sub001/api/student"
	studentapp "github.com/jasonamaral/mba.modulo4-sub001/application/student"
	"github.com/jasonamaral/mba.modulo4-sub001/config"
	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/diagnostics"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence/mocks"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence/mysql"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence/retry"
	"github.com/jasonamaral/mba.modulo4-sub001/pkg/logger"
)

// App application wiring
type App struct {
	config       *config.Config
	router       *api.Router
	server       *http.Server
	db           *gorm.DB
	outboxWorker *mysql.OutboxWorker
}

// NewApp assembles the application from configuration.
func NewApp(cfg *config.Config) (*App, error) {
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env))

	var (
		db           *gorm.DB
		repo         student.Repository
		uowFactory   shared.UnitOfWorkFactory
		outboxWorker *mysql.OutboxWorker
	)

	switch cfg.Database.Type {
	case "mysql":
		logger.Info("Using MySQL/GORM persistence layer")

		var err error
		db, err = NewMySQLConfig(cfg).Connect()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}

		if cfg.IsDevelopment() {
			if err := mysql.Migrate(db); err != nil {
				return nil, fmt.Errorf("failed to auto migrate: %w", err)
			}
		}

		repo = mysql.NewStudentRepository(db)
		uowFactory = mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg))

		if cfg.Outbox.Enabled {
			worker, err := mysql.NewOutboxWorker(
				mysql.NewOutboxRepository(db),
				&mysql.LoggingOutboxPublisher{},
				cfg.Outbox.PollInterval,
				cfg.Outbox.BatchSize,
				cfg.Outbox.MaxRetries,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create outbox worker: %w", err)
			}
			outboxWorker = worker
		}
	default:
		logger.Info("Using in-memory persistence layer")
		repo = mocks.NewMockStudentRepository()
		uowFactory = mocks.NewMockUnitOfWorkFactory()
	}

	service := studentapp.NewApplicationService(repo, uowFactory, diagnostics.NewLoggingFailureReporter())

	bus := shared.NewCommandBus()
	if err := service.RegisterHandlers(bus); err != nil {
		return nil, fmt.Errorf("failed to register command handlers: %w", err)
	}

	healthController := health.NewController(cfg, sqlDB(db))
	studentController := apistudent.NewController(bus, service)

	router := api.NewRouter(cfg, healthController, studentController)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		config:       cfg,
		router:       router,
		server:       server,
		db:           db,
		outboxWorker: outboxWorker,
	}, nil
}

// Run starts the HTTP server and the outbox worker, then blocks until a
// shutdown signal arrives.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.outboxWorker != nil {
		go func() {
			if err := a.outboxWorker.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("Outbox worker exited", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	if a.db != nil {
		if db := sqlDB(a.db); db != nil {
			_ = db.Close()
		}
	}

	logger.Info("Server stopped")
	_ = logger.Sync()
	return nil
}

// GetEngine exposes the Gin engine for tests.
func (a *App) GetEngine() *gin.Engine {
	return a.router.GetEngine()
}

func sqlDB(db *gorm.DB) *sql.DB {
	if db == nil {
		return nil
	}
	sdb, err := db.DB()
	if err != nil {
		return nil
	}
	return sdb
}
