package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	genlangadapter "github.com/ericfisherdev/evalpanel/internal/adapter/driven/genlang"
	sqliteadapter "github.com/ericfisherdev/evalpanel/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/evalpanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/evalpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/evalpanel/internal/application"
	"github.com/ericfisherdev/evalpanel/internal/config"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"model", cfg.GenAIModel,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.KeySalt)
	prefStore := sqliteadapter.NewPrefRepo(db)
	rowStore := sqliteadapter.NewRowRepo(db)

	// 6. Resolve the API credential: a key stored via the GUI takes priority
	// over the environment.
	apiKey := cfg.GenAIAPIKey
	storedKey, err := credentialStore.Load(ctx)
	switch {
	case errors.Is(err, driven.ErrCredentialMalformed):
		slog.Warn("stored credential is malformed, falling back to environment", "error", err)
	case err != nil:
		return err
	case storedKey != "":
		apiKey = storedKey
	}

	factory := func(ctx context.Context, key string) (driven.LanguageClient, error) {
		return genlangadapter.NewClient(ctx, key, cfg.GenAIModel)
	}

	var client driven.LanguageClient
	if apiKey != "" {
		client, err = factory(ctx, apiKey)
		if err != nil {
			return err
		}
		slog.Info("language client created", "model", cfg.GenAIModel)
	} else {
		slog.Info("no API key configured, draft generation disabled until a key is provided via the GUI")
	}

	// 6b. Create ClientProvider for hot-swap on credential save.
	provider := application.NewClientProvider(client)

	// 7. Create application services.
	settingsSvc := application.NewSettingsService(credentialStore, provider, factory, cfg.CloseDelay, nil, slog.Default())
	rosterSvc := application.NewRosterService(rowStore, prefStore, provider, slog.Default())

	// 7.5. Create handlers and register routes.
	apiHandler := httphandler.NewHandler(settingsSvc, rosterSvc, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("evalpanel started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
