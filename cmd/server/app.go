package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/database"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/sqlbuilder"
	"github.com/phrazzld/tasks-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	sessionStore store.SessionStore
	taskStore    store.TaskStore

	jwtService  auth.JWTService
	authService service.AuthService
	taskService service.TaskService

	janitor *service.SessionJanitor
}

// newApplication wires stores and services on top of an open database.
// The application takes ownership of db and closes it in cleanup.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect sqlbuilder.Dialect,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_expiry_hours", cfg.Auth.TokenExpiryHours))

	app.userStore = database.NewSQLUserStore(db, dialect, logger)
	app.sessionStore = database.NewSQLSessionStore(db, dialect, logger)
	app.taskStore = database.NewSQLTaskStore(db, dialect, logger)

	queryTimeout := cfg.Database.QueryTimeout()

	app.authService, err = service.NewAuthService(
		db,
		app.userStore,
		app.sessionStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		app.jwtService,
		auth.NewHMACDigester([]byte(cfg.Auth.JWTSecret)),
		queryTimeout,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.taskService, err = service.NewTaskService(db, app.taskStore, queryTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.janitor = service.NewSessionJanitor(
		app.sessionStore,
		cfg.Auth.SessionPurgeInterval(),
		queryTimeout,
		logger,
	)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts background work and serves HTTP until ctx is canceled or the
// process receives SIGINT or SIGTERM.
func (app *application) Run(ctx context.Context) error {
	app.janitor.Start(ctx)

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.janitor != nil {
		app.janitor.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.Any("error", err))
		}
	}

	app.logger.Info("application shutdown completed")
}
