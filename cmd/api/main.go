// @title           Shared Todo API
// @version         1.0
// @description     CRUD backend for a shared todo list with assignable collaborators and automatic title classification.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"sharedtodo/config"
	_ "sharedtodo/docs"
	authadapter "sharedtodo/internal/adapters/auth"
	"sharedtodo/internal/adapters/classifier"
	"sharedtodo/internal/adapters/email"
	httpdelivery "sharedtodo/internal/delivery/http"
	"sharedtodo/internal/delivery/http/controllers"
	"sharedtodo/internal/delivery/http/middleware"
	"sharedtodo/internal/domain"
	"sharedtodo/internal/repository/postgres"
	"sharedtodo/internal/services"
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("database open failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("database ping failed", "err", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(context.Background(), db); err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}

	// The model is loaded once here and read-only afterwards.
	model, err := classifier.New()
	if err != nil {
		logger.Error("classifier load failed", "err", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:          cfg.Mailer.SESRegion,
			AccessKeyID:     cfg.Mailer.SESAccessKeyID,
			SecretAccessKey: cfg.Mailer.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("mailer init failed", "err", err)
		os.Exit(1)
	}

	assigneeRepo := postgres.NewAssigneeRepository(db)
	todoRepo := postgres.NewTodoRepository(db)

	notifier := services.NewEmailNotifier(mailer, logger)
	assigneeService := services.NewAssigneeService(assigneeRepo, todoRepo)
	todoService := services.NewTodoService(todoRepo, assigneeRepo, model, notifier)

	todoController := controllers.NewTodoController(logger, todoService)
	assigneeController := controllers.NewAssigneeController(logger, assigneeService)

	// Auth is optional: without a password and secret all routes are open.
	var authController *controllers.AuthController
	var verifier domain.TokenVerifier
	if cfg.AuthPassword != "" && cfg.JWTSecret != "" {
		issuer, v := authadapter.NewJWT(cfg.JWTSecret)
		authService, err := services.NewAuthService(authadapter.NewBcryptHasher(12), issuer, cfg.AuthPassword)
		if err != nil {
			logger.Error("auth init failed", "err", err)
			os.Exit(1)
		}
		authController = controllers.NewAuthController(logger, authService)
		verifier = v
	} else {
		logger.Warn("AUTH_PASSWORD or JWT_SECRET not set, running without authentication")
	}

	mux := httpdelivery.NewRouter(todoController, assigneeController, authController, verifier)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
