package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	authpg "github.com/itcentralng/dhf-hrapp-backend/internal/auth/postgres"
	"github.com/itcentralng/dhf-hrapp-backend/internal/core/events"
	"github.com/itcentralng/dhf-hrapp-backend/internal/earlyclosure"
	earlyclosurepg "github.com/itcentralng/dhf-hrapp-backend/internal/earlyclosure/postgres"
	"github.com/itcentralng/dhf-hrapp-backend/internal/evaluation"
	evaluationpg "github.com/itcentralng/dhf-hrapp-backend/internal/evaluation/postgres"
	"github.com/itcentralng/dhf-hrapp-backend/internal/message"
	messagepg "github.com/itcentralng/dhf-hrapp-backend/internal/message/postgres"
	"github.com/itcentralng/dhf-hrapp-backend/internal/notification"
	"github.com/itcentralng/dhf-hrapp-backend/internal/storage"
	"github.com/itcentralng/dhf-hrapp-backend/internal/studyleave"
	studyleavepg "github.com/itcentralng/dhf-hrapp-backend/internal/studyleave/postgres"
	"github.com/itcentralng/dhf-hrapp-backend/internal/transport/rest"
	"github.com/itcentralng/dhf-hrapp-backend/internal/user"
	userpg "github.com/itcentralng/dhf-hrapp-backend/internal/user/postgres"
	"github.com/itcentralng/dhf-hrapp-backend/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down...", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)
	appLogger := logger.LoggerWrapper()

	if err := rest.ValidateOpenAPISpec("./api/openapi.yml"); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the already-open pgx connection pool
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)
	notification.NewNotifier(appLogger).Register(eventBus)

	userRepo := userpg.NewUserRepository(gormDB)
	authRepo := authpg.NewRepository(gormDB)
	messageRepo := messagepg.NewMessageRepository(gormDB)
	earlyClosureRepo := earlyclosurepg.NewEarlyClosureRepository(gormDB)
	studyLeaveRepo := studyleavepg.NewStudyLeaveRepository(gormDB)
	evaluationRepo := evaluationpg.NewEvaluationRepository(gormDB)

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenTTL())
	authService := auth.NewService(authRepo, tokens, appLogger)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userRepo, config.Security.HashIterations, appLogger)
	userHandler := user.NewHandler(userService)

	uploader := storage.NewClient(storage.Config{
		APIURL:        config.Storage.APIURL,
		APIKey:        config.Storage.APIKey,
		UploadTimeout: config.Storage.UploadTimeout,
	}, appLogger)

	messageService := message.NewService(messageRepo, userRepo, uploader, eventBus, appLogger)
	messageHandler := message.NewHandler(messageService)

	earlyClosureService := earlyclosure.NewService(earlyClosureRepo, eventBus, appLogger)
	earlyClosureHandler := earlyclosure.NewHandler(earlyClosureService)

	studyLeaveService := studyleave.NewService(studyLeaveRepo, eventBus, appLogger)
	studyLeaveHandler := studyleave.NewHandler(studyLeaveService)

	evaluationService := evaluation.NewService(evaluationRepo, userRepo, eventBus, appLogger)
	evaluationHandler := evaluation.NewHandler(evaluationService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(
		router,
		db.DB,
		authHandler,
		userHandler,
		messageHandler,
		earlyClosureHandler,
		studyLeaveHandler,
		evaluationHandler,
		appLogger,
	)

	return &Dependencies{
		Config: config,
		Logger: appLogger,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
