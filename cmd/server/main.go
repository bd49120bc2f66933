package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/blog-website/internal/api"
	"github.com/dom/blog-website/internal/config"
	"github.com/dom/blog-website/internal/logging"
	"github.com/dom/blog-website/internal/mail"
	"github.com/dom/blog-website/internal/repository/postgres"
	"github.com/dom/blog-website/internal/service"
	"github.com/dom/blog-website/internal/websocket"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := postgres.NewConnection(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access connection pool: %v", err)
	}
	defer sqlDB.Close()

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run()

	// Initialize services
	mailer := mail.NewDispatcher(newSender(cfg, log), repos.MailDelivery, log)
	services := service.NewServices(repos, cfg, mailer, hub, log)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		services.Janitor.Run(janitorCtx)
	}()

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      api.NewRouter(services, hub, cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	hub.Stop()
	stopJanitor()
	<-janitorDone

	log.Info("Server stopped")
}

func newSender(cfg *config.Config, log *logrus.Logger) mail.Sender {
	if cfg.MailProvider == "resend" {
		return mail.NewResendSender(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.MailFrom)
	}
	return mail.NewLogSender(log)
}
