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

	"itineraryplanner/config"
	"itineraryplanner/internal/adapters/auth"
	"itineraryplanner/internal/adapters/email"
	delivery "itineraryplanner/internal/delivery/http"
	"itineraryplanner/internal/delivery/http/controllers"
	"itineraryplanner/internal/delivery/http/middleware"
	"itineraryplanner/internal/reminder"
	"itineraryplanner/internal/repository/postgres"
	"itineraryplanner/internal/scheduling"
	"itineraryplanner/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Itinerary Planner API
// @version 1.0
// @description Scheduling backend with conflict detection, alternative slot suggestions and reminder notifications.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("opening database failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("database unreachable", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	firedSet := postgres.NewFiredReminderRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mailer.SESRegion,
			AccessKeyID:        cfg.Mailer.SESAccessKeyID,
			SecretAccessKey:    cfg.Mailer.SESSecretKey,
			InsecureSkipVerify: cfg.Mailer.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("creating mailer failed", "err", err)
		os.Exit(1)
	}

	// Every notification is persisted; reminders additionally go out by email.
	sink := services.NewFanoutSink(
		services.NewStoreSink(notificationRepo),
		services.NewEmailSink(mailer, userRepo),
	)

	detector := scheduling.NewDetector(eventRepo)
	suggester := scheduling.NewSuggester(detector)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(0)

	eventService := services.NewEventService(eventRepo, detector, suggester, sink, services.SlotConfig{
		MaxResults: cfg.MaxSuggestions,
		Horizon:    cfg.SearchHorizon,
		Step:       cfg.SlotStep,
	}, logger, serviceTimeout)
	notificationService := services.NewNotificationService(notificationRepo, serviceTimeout)
	authService := services.NewAuthService(userRepo, hasher, jwtService, cfg.TokenExpiry, serviceTimeout)

	engine := reminder.NewEngine(eventRepo, sink, firedSet, cfg.ReminderLead, cfg.MaxOccurrences, logger)
	scheduler, err := reminder.NewScheduler(engine, cfg.PollInterval, logger)
	if err != nil {
		logger.Error("creating scheduler failed", "err", err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		logger.Error("starting scheduler failed", "err", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		Events:       controllers.NewEventController(logger, eventService),
		Notification: controllers.NewNotificationController(logger, notificationService),
		Reminders:    controllers.NewReminderController(logger, engine),
	}, jwtService, logger)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
