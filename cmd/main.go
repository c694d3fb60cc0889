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

	"github.com/arenapulse/esports-system/config"
	"github.com/arenapulse/esports-system/db"
	"github.com/arenapulse/esports-system/handlers"
	"github.com/arenapulse/esports-system/live"
	"github.com/arenapulse/esports-system/middleware"
	"github.com/arenapulse/esports-system/payments"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/arenapulse/esports-system/routes"
	"github.com/arenapulse/esports-system/services"
	"github.com/arenapulse/esports-system/storage"
)

// How often stale pending invitations are swept to expired.
const invitationSweepInterval = 5 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}

	gateway := payments.NewGateway(payments.GatewayConfig{
		KeyID:     cfg.GatewayKeyID,
		KeySecret: cfg.GatewayKeySecret,
	})

	hub := live.NewHub(logger)
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	transactionRepo := repositories.NewPostgresTransactionRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	prizeRepo := repositories.NewPostgresPrizeRepository(dbConn)
	roomRepo := repositories.NewPostgresRoomRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	invitationRepo := repositories.NewPostgresInvitationRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	withdrawalRepo := repositories.NewPostgresWithdrawalRepository(dbConn)
	depositRepo := repositories.NewPostgresDepositRepository(dbConn)
	siteConfigRepo := repositories.NewPostgresSiteConfigRepository(dbConn)

	walletService := services.NewWalletService(profileRepo, transactionRepo)
	authService := services.NewAuthService(dbConn, userRepo, profileRepo, cfg.JWTSecretKey, cfg.TokenTTL, logger)
	profileService := services.NewProfileService(profileRepo, uploader, logger)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, roomRepo, prizeRepo, participantRepo, logger)
	roomService := services.NewRoomService(dbConn, roomRepo, tournamentRepo, participantRepo, invitationRepo, profileRepo, walletService, gateway, hub, logger)
	settlementService := services.NewSettlementService(dbConn, roomRepo, tournamentRepo, participantRepo, resultRepo, prizeRepo, profileRepo, walletService, hub, logger)
	withdrawalService := services.NewWithdrawalService(dbConn, withdrawalRepo, profileRepo, walletService, logger)
	depositService := services.NewDepositService(dbConn, depositRepo, profileRepo, walletService, logger)
	dashboardService := services.NewDashboardService(userRepo, tournamentRepo, roomRepo, withdrawalRepo, depositRepo, resultRepo, profileRepo, siteConfigRepo)

	// Invitation expiry sweep.
	go func() {
		ticker := time.NewTicker(invitationSweepInterval)
		defer ticker.Stop()
		logger.Info("invitation expiry sweep started",
			slog.Duration("interval", invitationSweepInterval),
			slog.Duration("ttl", cfg.InvitationTTL))

		for range ticker.C {
			cutoff := time.Now().Add(-cfg.InvitationTTL)
			expired, err := invitationRepo.ExpireOlderThan(context.Background(), cutoff)
			if err != nil {
				logger.Error("invitation expiry sweep failed", slog.Any("error", err))
				continue
			}
			if expired > 0 {
				logger.Info("expired stale invitations", slog.Int64("count", expired))
			}
		}
	}()

	authenticator := middleware.NewAuthenticator(authService)
	router := routes.InitRoutes(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Room:       handlers.NewRoomHandler(roomService),
		Wallet:     handlers.NewWalletHandler(walletService),
		Withdrawal: handlers.NewWithdrawalHandler(withdrawalService),
		Deposit:    handlers.NewDepositHandler(depositService),
		Settlement: handlers.NewSettlementHandler(settlementService),
		Profile:    handlers.NewProfileHandler(profileService),
		Admin:      handlers.NewAdminHandler(dashboardService, profileService),
		Live:       handlers.NewLiveHandler(hub, logger),
	}, authenticator)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}
