package main

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

	"github.com/pichanga-app/pichanga-backend/config"
	"github.com/pichanga-app/pichanga-backend/db"
	"github.com/pichanga-app/pichanga-backend/handlers"
	"github.com/pichanga-app/pichanga-backend/live"
	"github.com/pichanga-app/pichanga-backend/provider"
	"github.com/pichanga-app/pichanga-backend/repositories"
	"github.com/pichanga-app/pichanga-backend/routes"
	"github.com/pichanga-app/pichanga-backend/services"
	"github.com/pichanga-app/pichanga-backend/storage"
)

const (
	dbConnectTimeout  = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	matchSweepEvery   = 5 * time.Minute
	serverIdleTimeout = 120 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL, dbConnectTimeout)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	logger.Info("database connection established")

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Error("invalid timezone", "tz", cfg.TimeZone, "error", err)
		os.Exit(1)
	}

	// Repositories
	txManager := db.NewTxManager(database)
	userRepo := repositories.NewPostgresUserRepository(database)
	sessionRepo := repositories.NewPostgresSessionRepository(database)
	matchRepo := repositories.NewPostgresMatchRepository(database)
	enrollmentRepo := repositories.NewPostgresEnrollmentRepository(database)
	paymentRepo := repositories.NewPostgresPaymentRepository(database)
	teamRepo := repositories.NewPostgresTeamRepository(database)
	membershipRepo := repositories.NewPostgresMembershipRepository(database)
	statRepo := repositories.NewPostgresStatRepository(database)
	promoRepo := repositories.NewPostgresPromoRepository(database)

	// Object storage is optional: without it photo upload is disabled
	// but everything else works.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", "error", err)
			os.Exit(1)
		}
		logger.Info("object storage configured", "bucket", cfg.R2BucketName)
	} else {
		logger.Warn("object storage not configured, photo uploads disabled")
	}

	mercadoPago, err := provider.NewMercadoPagoProvider(provider.MercadoPagoConfig{
		AccessToken: cfg.MercadoPagoAccessToken,
		BaseURL:     cfg.MercadoPagoBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize payment provider", "error", err)
		os.Exit(1)
	}

	// Services
	sessionService := services.NewSessionService(sessionRepo)
	authService := services.NewAuthService(userRepo, sessionService)
	userService := services.NewUserService(userRepo, teamRepo, sessionRepo, uploader)
	membershipService := services.NewMembershipService(txManager, membershipRepo, teamRepo, userRepo, loc)
	enrollmentService := services.NewEnrollmentService(txManager, matchRepo, enrollmentRepo, statRepo)
	matchService := services.NewMatchService(matchRepo, enrollmentRepo, paymentRepo, enrollmentService)
	paymentService := services.NewPaymentService(
		txManager, paymentRepo, matchRepo, enrollmentRepo, userRepo,
		enrollmentService, mercadoPago,
		services.PaymentURLs{
			PublicBaseURL:   cfg.PublicBaseURL,
			FrontBaseURL:    cfg.FrontBaseURL,
			FrontMatchRoute: cfg.FrontMatchRoute,
		},
	)
	statsService := services.NewStatsService(statRepo, matchRepo)
	promoService := services.NewPromoService(promoRepo)

	// Live updates hub
	hub := live.NewHub(logger)
	go hub.Run()

	// Background sweep: published matches past their end time become
	// finished.
	finisher, err := services.NewMatchFinisher(matchRepo, logger, matchSweepEvery)
	if err != nil {
		logger.Error("failed to create match finisher", "error", err)
		os.Exit(1)
	}
	if err := finisher.Start(context.Background()); err != nil {
		logger.Error("failed to start match finisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := finisher.Stop(); err != nil {
			logger.Error("failed to stop match finisher", "error", err)
		}
	}()

	router := routes.New(routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, sessionService),
		Profile:   handlers.NewProfileHandler(userService, membershipService),
		Match:     handlers.NewMatchHandler(matchService, hub),
		Payment:   handlers.NewPaymentHandler(paymentService, hub, logger),
		Stats:     handlers.NewStatsHandler(statsService),
		Promo:     handlers.NewPromoHandler(promoService),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
	}, sessionService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
