package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-social-auth/internal/config"
	"go-social-auth/internal/database"
	"go-social-auth/internal/event"
	"go-social-auth/internal/handler"
	"go-social-auth/internal/middleware"
	"go-social-auth/internal/repository"
	"go-social-auth/internal/router"
	"go-social-auth/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), database.Options{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	bus := event.NewBus()
	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())

	auditEvents, unsubscribe := bus.Subscribe()
	auditService := service.NewAuditService(auditRepo)
	go auditService.Run(backgroundCtx, auditEvents)

	hasher := service.NewHasher(cfg.PasswordCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, sessionRepo, hasher, tokens, bus, cfg.RefreshTokenRotation)

	sessionService := service.NewSessionService(sessionRepo, bus, cfg.RefreshTokenTTL)
	go sessionService.RunCleanup(backgroundCtx, cfg.SessionCleanupInterval)

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo)

	appRouter := router.New(cfg,
		middleware.NewAuthMiddleware(tokens, userRepo),
		middleware.EmailAvailable(userRepo),
		router.Handlers{
			Auth:    handler.NewAuthHandler(authService),
			Session: handler.NewSessionHandler(sessionService),
			User:    handler.NewUserHandler(userService),
			Post:    handler.NewPostHandler(postService),
			Audit:   handler.NewAuditHandler(auditService),
			Health:  handler.NewHealthHandler(db),
		})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	slog.Info("auth configured",
		"access_ttl", cfg.AccessTokenTTL,
		"refresh_ttl", cfg.RefreshTokenTTL,
		"rotation", cfg.RefreshTokenRotation,
	)

	return &App{
		server: server,
		cleanupFuncs: []func(){
			backgroundCancel,
			unsubscribe,
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
	case err := <-serveErr:
		runErr = fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// Requests are drained before the pool and the audit subscriber go away.
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return runErr
}
