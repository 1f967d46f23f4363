package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/dkarpov/authgate/internal/auth"
	"github.com/dkarpov/authgate/internal/config"
	"github.com/dkarpov/authgate/internal/database"
	"github.com/dkarpov/authgate/internal/database/users"
	http_controllers "github.com/dkarpov/authgate/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain within the configured timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting authgate v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	repo := users.NewRepository(db.DB)
	authService := auth.NewService(repo, cfg.Auth)

	// Build the session registry matching the configured strategy.
	var registry auth.SessionRegistry
	switch cfg.Auth.Strategy {
	case config.StrategySession:
		registry = auth.NewMemoryRegistry()
	case config.StrategySessionExp:
		registry = auth.NewExpiringRegistry(cfg.Auth.SessionLifetime)
	case config.StrategySessionDB:
		sqlDB, err := db.SQLDB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		registry, err = auth.NewSQLiteStoreRegistry(sqlDB, cfg.Auth.SessionLifetime)
		if err != nil {
			log.Fatalf("Failed to initialize session store: %v", err)
		}
	}

	strategy := auth.ForConfig(cfg.Auth, repo, registry)
	authMiddleware := auth.NewMiddleware(strategy, cfg.Auth.ExcludedPaths)
	log.Printf("Authentication strategy: %s", cfg.Auth.Strategy)

	// Generate or use the configured CSRF secret.
	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	// Sweep expired sessions on a schedule when the registry supports it.
	var scheduler *cron.Cron
	if sweeper, ok := registry.(auth.Sweeper); ok && cfg.Auth.SweepSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Auth.SweepSchedule, func() {
			if evicted := sweeper.Sweep(); evicted > 0 {
				log.Printf("Swept %d expired sessions", evicted)
			}
		})
		if err != nil {
			log.Fatalf("Invalid sweep schedule %q: %v", cfg.Auth.SweepSchedule, err)
		}
		scheduler.Start()
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		Registry:       registry,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if scheduler != nil {
			stopped := scheduler.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
		}
	}

	Serve(router, cfg, onShutdown)
}
