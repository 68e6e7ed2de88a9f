package main

import (
	"log/slog"
	"os"

	api "playtube-backend/cmd/api"
	authdomain "playtube-backend/internal/auth/domain"
	"playtube-backend/internal/auth/password"
	authRepo "playtube-backend/internal/auth/repository"
	"playtube-backend/internal/auth/token"
	authUsecase "playtube-backend/internal/auth/usecase"
	channeldomain "playtube-backend/internal/channel/domain"
	channelRepo "playtube-backend/internal/channel/repository"
	channelUsecase "playtube-backend/internal/channel/usecase"
	"playtube-backend/pkg/blob"
	"playtube-backend/pkg/config"
	"playtube-backend/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&authdomain.User{},
		&channeldomain.Subscription{},
		&channeldomain.Video{},
		&channeldomain.WatchHistoryEntry{},
	); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	blobStore, err := blob.NewS3Store(cfg)
	if err != nil {
		logger.Error("failed to initialize blob store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	userRepo := authRepo.NewUserRepository(db)
	subscriptionRepo := channelRepo.NewSubscriptionRepository(db)
	videoRepo := channelRepo.NewVideoRepository(db)

	tokens := token.NewService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	hasher := password.NewHasher(cfg.BcryptCost)

	authUc := authUsecase.NewAuthUsecase(userRepo, tokens, hasher, blobStore)
	channelUc := channelUsecase.NewChannelUsecase(userRepo, subscriptionRepo, videoRepo)

	handler := api.NewHandler(authUc, channelUc, tokens, cfg, logger)

	logger.Info("server starting", slog.String("port", cfg.Port))
	if err := handler.Start(":" + cfg.Port); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
