package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/club-manager/brackets"
	"github.com/Dosada05/club-manager/config"
	"github.com/Dosada05/club-manager/db"
	"github.com/Dosada05/club-manager/handlers"
	"github.com/Dosada05/club-manager/middleware"
	"github.com/Dosada05/club-manager/repositories"
	"github.com/Dosada05/club-manager/routes"
	"github.com/Dosada05/club-manager/services"
	"github.com/Dosada05/club-manager/storage"
)

// @title           Club Manager API
// @version         1.0
// @description     Tournament management backend: seeding, group stages,
// @description     standings, elimination brackets and advancement.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

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

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize object storage", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("object storage is not configured, logo uploads are disabled")
	}

	hub := brackets.NewHub()
	go hub.Run()

	txRunner := repositories.NewTxRunner(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	drawRepo := repositories.NewPostgresDrawRepository(dbConn)
	stageRuleRepo := repositories.NewPostgresStageRuleRepository(dbConn)

	standingsService := services.NewStandingsService(groupRepo, participantRepo, matchRepo, stageRuleRepo)
	advancementService := services.NewAdvancementService(txRunner, participantRepo, matchRepo, standingsService, hub, logger)
	tournamentService := services.NewTournamentService(txRunner, tournamentRepo, participantRepo, groupRepo, matchRepo, uploader, logger)
	participantService := services.NewParticipantService(txRunner, participantRepo, tournamentRepo, logger)
	drawService := services.NewDrawService(txRunner, tournamentRepo, participantRepo, groupRepo, matchRepo, drawRepo, hub, logger)
	matchService := services.NewMatchService(matchRepo, participantRepo, advancementService, hub, logger)
	stageRuleService := services.NewStageRuleService(stageRuleRepo, tournamentRepo)

	// Status transitions driven by dates run in the background.
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	go runStatusScheduler(schedulerCtx, tournamentService, logger)

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := routes.NewRouter(routes.Handlers{
		Tournament:  handlers.NewTournamentHandler(tournamentService, logger),
		Participant: handlers.NewParticipantHandler(participantService, logger),
		Draw:        handlers.NewDrawHandler(drawService, logger),
		Match:       handlers.NewMatchHandler(matchService, logger),
		Advancement: handlers.NewAdvancementHandler(advancementService, logger),
		Standings:   handlers.NewStandingsHandler(standingsService, logger),
		StageRule:   handlers.NewStageRuleHandler(stageRuleService, logger),
		WebSocket:   handlers.NewWebSocketHandler(hub, logger),
	}, auth)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.ServerPort))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if err := server.Close(); err != nil {
				logger.Error("forced shutdown failed", slog.Any("error", err))
			}
		}
	}
}

func runStatusScheduler(ctx context.Context, service services.TournamentService, logger *slog.Logger) {
	if err := service.AutoUpdateStatusesByDates(ctx); err != nil {
		logger.Error("initial status update failed", slog.Any("error", err))
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := service.AutoUpdateStatusesByDates(ctx); err != nil {
				logger.Error("scheduled status update failed", slog.Any("error", err))
			}
		}
	}
}
