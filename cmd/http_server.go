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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/auth"
	authpostgres "github.com/raccordement/raccordement-service/internal/auth/postgres"
	"github.com/raccordement/raccordement-service/internal/core/events"
	"github.com/raccordement/raccordement-service/internal/gateway"
	"github.com/raccordement/raccordement-service/internal/payment"
	paymentpostgres "github.com/raccordement/raccordement-service/internal/payment/postgres"
	"github.com/raccordement/raccordement-service/internal/servicerequest"
	srpostgres "github.com/raccordement/raccordement-service/internal/servicerequest/postgres"
	"github.com/raccordement/raccordement-service/internal/transport/rest"
	"github.com/raccordement/raccordement-service/pkg/logger"
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
	Config         *internal.Config
	DB             *sqlx.DB
	Router         *chi.Mux
	Logger         *slog.Logger
	PaymentService *payment.Service
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
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
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

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pgx connection pool instead of opening its own
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	registerEventHandlers(eventBus, lg)

	requestRepo := srpostgres.NewServiceRequestRepository(gormDB)
	requestService := servicerequest.NewService(requestRepo, config.Payment.DefaultCurrency, lg)
	requestHandler := servicerequest.NewHandler(requestService, lg)

	gatewayClient := gateway.NewClient(gateway.Config{
		SecretKey:    config.Payment.StripeSecretKey,
		Timeout:      config.Payment.Timeout,
		SyncPageSize: config.Payment.SyncPageSize,
	}, lg)

	paymentRepo := paymentpostgres.NewPaymentRepository(gormDB)
	paymentService := payment.NewService(
		paymentRepo,
		requestService,
		gatewayClient,
		eventBus,
		config.Payment.DefaultAmount,
		config.Payment.DefaultCurrency,
		lg,
	)
	paymentHandler := payment.NewHandler(paymentService, lg)

	tokenGen := &auth.JWTTokenGenerator{
		AccessTokenSecret:  []byte(config.Security.JWTAccessSecret),
		RefreshTokenSecret: []byte(config.Security.JWTRefreshSecret),
		AccessTokenTTL:     config.Security.AccessTokenDuration,
		RefreshTokenTTL:    config.Security.RefreshTokenDuration,
	}
	agentRepo := authpostgres.NewAgentRepository(gormDB)
	authService := auth.NewService(agentRepo, tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService, lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, config.Server.AllowedOrigins, authHandler, requestHandler, paymentHandler, lg)

	return &Dependencies{
		Config:         config,
		DB:             db,
		Router:         router,
		Logger:         lg,
		PaymentService: paymentService,
	}, nil
}

// registerEventHandlers attaches the audit log subscribers. The bus is the
// seam where followups like confirmation emails would plug in.
func registerEventHandlers(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypePaymentSucceeded, func(ctx context.Context, e events.Event) error {
		lg.Info("payment succeeded", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypePaymentFailed, func(ctx context.Context, e events.Event) error {
		lg.Warn("payment failed", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeServiceRequestAutoCreated, func(ctx context.Context, e events.Event) error {
		lg.Warn("service request auto-created", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
