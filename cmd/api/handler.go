package api

import (
	"log/slog"
	"net/http"
	"time"

	"playtube-backend/internal/auth/token"
	authUsecase "playtube-backend/internal/auth/usecase"
	channelUsecase "playtube-backend/internal/channel/usecase"
	"playtube-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	channelUsecase channelUsecase.ChannelUsecase
	tokens         *token.Service
	config         *config.Config
	logger         *slog.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, channelUc channelUsecase.ChannelUsecase, tokens *token.Service, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		authUsecase:    authUc,
		channelUsecase: channelUc,
		tokens:         tokens,
		config:         cfg,
		logger:         logger,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(h.requestLogger())
	r.Use(h.cors())

	SetupRoutes(r, h)

	return r.Run(addr)
}

func (h *Handler) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", h.config.CORSOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.logger.Info("request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("ip", c.ClientIP()),
		)
	}
}
