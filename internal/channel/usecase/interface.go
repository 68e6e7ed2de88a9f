package usecase

import (
	channeldomain "playtube-backend/internal/channel/domain"
	channeldto "playtube-backend/internal/channel/dto"
)

// ChannelUsecase is the graph query engine plus the edge mutations implied
// by it: subscriber aggregates, denormalized watch history, follow toggling
// and view recording.
type ChannelUsecase interface {
	GetChannelProfile(viewerID, username string) (*channeldto.ChannelProfile, error)
	GetWatchHistory(userID string) ([]channeldomain.WatchHistoryVideo, error)
	ToggleSubscription(subscriberID, channelID string) (*channeldto.ToggleResult, error)
	// RecordView returns the video and appends it to the viewer's history.
	RecordView(viewerID, videoID string) (*channeldomain.Video, error)
}
