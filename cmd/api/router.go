package api

import (
	"net/http"

	authdelivery "playtube-backend/internal/auth/delivery"
	channeldelivery "playtube-backend/internal/channel/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := authdelivery.NewAuthHandler(h.authUsecase, h.config.AccessTokenExpiry, h.config.RefreshTokenExpiry)
	channelHandler := channeldelivery.NewChannelHandler(h.channelUsecase)
	requireAuth := authdelivery.AuthMiddleware(h.tokens)

	api := r.Group("/api/v1")
	{
		api.GET("/healthcheck", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		users := api.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)
			users.POST("/refresh-token", authHandler.Refresh)

			// Protected routes
			users.POST("/logout", requireAuth, authHandler.Logout)
			users.POST("/change-password", requireAuth, authHandler.ChangePassword)
			users.GET("/current-user", requireAuth, authHandler.CurrentUser)
			users.PATCH("/update-account", requireAuth, authHandler.UpdateAccount)
			users.PATCH("/avatar", requireAuth, authHandler.UpdateAvatar)
			users.PATCH("/cover-image", requireAuth, authHandler.UpdateCoverImage)
			users.GET("/c/:username", requireAuth, channelHandler.GetChannelProfile)
			users.GET("/history", requireAuth, channelHandler.GetWatchHistory)
		}

		subscriptions := api.Group("/subscriptions")
		subscriptions.Use(requireAuth)
		{
			subscriptions.POST("/c/:channelId", channelHandler.ToggleSubscription)
		}

		videos := api.Group("/videos")
		videos.Use(requireAuth)
		{
			videos.GET("/:videoId", channelHandler.GetVideo)
		}
	}
}
