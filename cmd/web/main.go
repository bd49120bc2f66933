package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/blog-website/internal/config"
	"github.com/dom/blog-website/internal/logging"
	"github.com/dom/blog-website/internal/web"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadWeb()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	frontend, err := web.New(web.Options{
		APIBaseURL:    cfg.APIBaseURL,
		SecureCookies: cfg.IsProduction(),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		HTTPClient:    &http.Client{Timeout: 15 * time.Second},
	}, log)
	if err != nil {
		log.Fatalf("failed to build frontend: %v", err)
	}

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.WebPort,
		Handler:      frontend.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.WebPort, "api": cfg.APIBaseURL}).Info("Frontend starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start frontend: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down frontend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("frontend forced to shutdown: %v", err)
	}
}
