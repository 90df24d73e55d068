package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crml-backend/config"
	"crml-backend/routes"
	"crml-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := config.NewLogger(cfg.LogLevel)
	gin.SetMode(cfg.Server.GinMode)

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := config.Migrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Reminders.Enabled() {
		sender := services.NewTwilioSender(
			cfg.Reminders.TwilioAccountSID,
			cfg.Reminders.TwilioAuthToken,
			cfg.Reminders.TwilioPhoneNumber,
			cfg.Reminders.TwilioWhatsAppNumber,
		)
		reminders := services.NewReminderService(db, sender, cfg.Reminders.Schedule, cfg.Reminders.Lead, logger)
		if err := reminders.Start(); err != nil {
			logger.Error("failed to start reminders", "error", err)
			os.Exit(1)
		}
		defer reminders.Stop()
	} else {
		logger.Info("twilio credentials not set, appointment reminders disabled")
	}

	r := routes.SetupRouter(db, routes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AttachmentRoot: cfg.Attachments.Root,
		Logger:         logger,
	})
	printRoutes(logger, r)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func printRoutes(logger *slog.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		logger.Debug("route", "method", route.Method, "path", route.Path)
	}
}
