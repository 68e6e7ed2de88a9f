package repository

import channeldomain "playtube-backend/internal/channel/domain"

// SubscriptionRepository reads and writes edges of the follow graph.
type SubscriptionRepository interface {
	CountSubscribers(channelID string) (int64, error)
	CountSubscribedTo(subscriberID string) (int64, error)
	IsSubscribed(subscriberID, channelID string) (bool, error)
	Create(sub *channeldomain.Subscription) error
	// Delete removes the edge and reports whether it existed.
	Delete(subscriberID, channelID string) (bool, error)
}

// VideoRepository resolves videos and the denormalized watch history.
type VideoRepository interface {
	Create(video *channeldomain.Video) error
	FindByID(id string) (*channeldomain.Video, error)
	IncrementViews(id string) error
	// AppendWatchHistory adds the video at the end of the user's history.
	AppendWatchHistory(userID, videoID string) error
	// WatchHistory returns the user's history in stored (append) order, each
	// video carrying its owner projection.
	WatchHistory(userID string) ([]channeldomain.WatchHistoryVideo, error)
}
