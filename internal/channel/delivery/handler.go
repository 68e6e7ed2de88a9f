package delivery

import (
	"net/http"

	authdelivery "playtube-backend/internal/auth/delivery"
	"playtube-backend/internal/channel/usecase"
	"playtube-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	channelUsecase usecase.ChannelUsecase
}

func NewChannelHandler(channelUsecase usecase.ChannelUsecase) *ChannelHandler {
	return &ChannelHandler{channelUsecase: channelUsecase}
}

// GetChannelProfile handles GET /users/c/:username.
func (h *ChannelHandler) GetChannelProfile(c *gin.Context) {
	profile, err := h.channelUsecase.GetChannelProfile(authdelivery.UserID(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, "User channel fetched successfully")
}

// GetWatchHistory handles GET /users/history.
func (h *ChannelHandler) GetWatchHistory(c *gin.Context) {
	history, err := h.channelUsecase.GetWatchHistory(authdelivery.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, history, "Watch history fetched successfully")
}

// ToggleSubscription handles POST /subscriptions/c/:channelId.
func (h *ChannelHandler) ToggleSubscription(c *gin.Context) {
	result, err := h.channelUsecase.ToggleSubscription(authdelivery.UserID(c), c.Param("channelId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Unsubscribed successfully"
	if result.Subscribed {
		message = "Subscribed successfully"
	}
	response.JSON(c, http.StatusOK, result, message)
}

// GetVideo handles GET /videos/:videoId. Fetching a video appends it to the
// viewer's watch history.
func (h *ChannelHandler) GetVideo(c *gin.Context) {
	video, err := h.channelUsecase.RecordView(authdelivery.UserID(c), c.Param("videoId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, video, "Video fetched successfully")
}
