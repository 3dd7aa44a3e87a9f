// @title Field Booking API
// @version 1.0
// @description Pickup football booking: position slots, event lifecycle and availability discovery.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "fieldbooking/docs"

	"fieldbooking/config"
	"fieldbooking/internal/adapters/archive"
	"fieldbooking/internal/adapters/auth"
	"fieldbooking/internal/adapters/fielddirectory"
	delivery "fieldbooking/internal/delivery/http"
	"fieldbooking/internal/delivery/http/controllers"
	"fieldbooking/internal/domain"
	"fieldbooking/internal/platform/otel"
	"fieldbooking/internal/repository/memory"
	"fieldbooking/internal/repository/postgres"
	"fieldbooking/internal/services"
)

const (
	serviceName     = "fieldbooking"
	dbConnectWait   = 5 * time.Second
	shutdownTimeout = 15 * time.Second
	devJWTSecret    = "dev-secret-change-me"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a bearer token for the given player id and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of tokens printed by -issue-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}

	if *issueToken != "" {
		token, err := auth.NewJWTIssuer(secret).Issue(*issueToken, *tokenTTL)
		if err != nil {
			logger.Error("failed to issue token", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg, secret, logger); err != nil {
		logger.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(cfg *config.Config, secret string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	var db *sql.DB
	var eventRepo domain.EventRepository
	switch cfg.StoreDriver {
	case "postgres":
		db, err = postgres.Connect(cfg.DBUrl, dbConnectWait)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		eventRepo = postgres.NewEventRepository(db)
		logger.Info("postgres event store ready")
	default:
		eventRepo = memory.NewEventStore()
		logger.Info("in-memory event store ready")
	}

	fieldSource, err := newFieldSource(cfg, db, logger)
	if err != nil {
		return err
	}
	fields := services.NewFieldCache(fieldSource, cfg.FieldCacheTTL, nil)

	archiver, err := archive.NewArchiver(ctx, archive.Config{
		Provider: cfg.Archive.Provider,
		S3: archive.S3Config{
			Bucket:          cfg.Archive.Bucket,
			Prefix:          cfg.Archive.Prefix,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			UsePathStyle:    cfg.Archive.UsePathStyle,
		},
	}, logger)
	if err != nil {
		return err
	}

	policy := services.LifecyclePolicy{
		StartWindow:     cfg.StartWindow,
		MinLeadTime:     cfg.MinLeadTime,
		DefaultLocation: cfg.Location(),
	}
	roster := domain.StaticRosterCatalog()
	positionSvc := services.NewPositionService(eventRepo, nil, cfg.ContextTimeout)
	eventSvc := services.NewEventService(eventRepo, fields, positionSvc, archiver, roster, policy, nil, logger, cfg.ContextTimeout)
	availabilitySvc := services.NewAvailabilityService(eventRepo, fields, cfg.Location(), cfg.IndexRefreshInterval, nil, logger, cfg.ContextTimeout)

	maintenance := &services.Maintenance{
		Availability:    availabilitySvc,
		Events:          eventSvc,
		RefreshInterval: cfg.IndexRefreshInterval,
		ArchiveInterval: cfg.Archive.Interval,
		Retention:       cfg.Archive.Retention,
		Logger:          logger,
	}
	go maintenance.Run(ctx)

	var pinger controllers.Pinger
	if db != nil {
		pinger = db
	}
	router := delivery.NewRouter(delivery.RouterConfig{
		Logger:         logger,
		Verifier:       auth.NewJWTVerifier(secret),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Events:         controllers.NewEventController(logger, eventSvc),
		Availability:   controllers.NewAvailabilityController(logger, availabilitySvc),
		Roster:         controllers.NewRosterController(logger, roster),
		Health:         controllers.NewHealthController(logger, pinger),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr), slog.String("env", cfg.Environment))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

// newFieldSource picks where field metadata is read from: an external field
// directory, the fields table, or an in-process store seeded from FIELDS_FILE.
func newFieldSource(cfg *config.Config, db *sql.DB, logger *slog.Logger) (domain.FieldRepository, error) {
	switch {
	case cfg.FieldDirectoryURL != "":
		logger.Info("reading fields from directory", slog.String("url", cfg.FieldDirectoryURL))
		return fielddirectory.NewHTTPFieldRepository(cfg.FieldDirectoryURL, &http.Client{Timeout: cfg.ContextTimeout}), nil
	case db != nil:
		return postgres.NewFieldRepository(db), nil
	}

	store := memory.NewFieldStore()
	if cfg.FieldsFile == "" {
		logger.Warn("no field source configured, creating events will fail with field not found")
		return store, nil
	}
	f, err := os.Open(cfg.FieldsFile)
	if err != nil {
		return nil, fmt.Errorf("open fields file: %w", err)
	}
	defer f.Close()
	n, err := store.LoadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.FieldsFile, err)
	}
	logger.Info("loaded fields", slog.Int("count", n), slog.String("file", cfg.FieldsFile))
	return store, nil
}
