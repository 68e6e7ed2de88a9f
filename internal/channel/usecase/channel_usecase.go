package usecase

import (
	"errors"
	"strings"

	authrepo "playtube-backend/internal/auth/repository"
	channeldomain "playtube-backend/internal/channel/domain"
	channeldto "playtube-backend/internal/channel/dto"
	"playtube-backend/internal/channel/repository"
	"playtube-backend/pkg/apperror"
)

type channelUsecase struct {
	userRepo authrepo.UserRepository
	subRepo  repository.SubscriptionRepository
	vidRepo  repository.VideoRepository
}

func NewChannelUsecase(userRepo authrepo.UserRepository, subRepo repository.SubscriptionRepository, vidRepo repository.VideoRepository) ChannelUsecase {
	return &channelUsecase{
		userRepo: userRepo,
		subRepo:  subRepo,
		vidRepo:  vidRepo,
	}
}

// GetChannelProfile aggregates, per request: subscriber count, subscribed-to
// count and whether the viewer follows the channel. Three point queries over
// the edges; no caching, so results are read-after-write consistent.
func (u *channelUsecase) GetChannelProfile(viewerID, username string) (*channeldto.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperror.Validation("username", "Username is missing")
	}

	channel, err := u.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, apperror.NotFound("Channel does not exist")
	}

	subscriberCount, err := u.subRepo.CountSubscribers(channel.ID)
	if err != nil {
		return nil, err
	}
	subscribedToCount, err := u.subRepo.CountSubscribedTo(channel.ID)
	if err != nil {
		return nil, err
	}
	isSubscribed, err := u.subRepo.IsSubscribed(viewerID, channel.ID)
	if err != nil {
		return nil, err
	}

	return &channeldto.ChannelProfile{
		FullName:                 channel.FullName,
		Username:                 channel.Username,
		SubscriberCount:          subscriberCount,
		ChannelSubscribedToCount: subscribedToCount,
		IsSubscribed:             isSubscribed,
		AvatarURL:                channel.AvatarURL,
		CoverImageURL:            channel.CoverImageURL,
		Email:                    channel.Email,
	}, nil
}

func (u *channelUsecase) GetWatchHistory(userID string) ([]channeldomain.WatchHistoryVideo, error) {
	return u.vidRepo.WatchHistory(userID)
}

// ToggleSubscription follows the channel if no edge exists and unfollows it
// otherwise. The unique index on the pair keeps a racing double-create from
// producing two edges; the loser is treated as already subscribed.
func (u *channelUsecase) ToggleSubscription(subscriberID, channelID string) (*channeldto.ToggleResult, error) {
	if channelID == "" {
		return nil, apperror.Validation("channelId", "Channel id is missing")
	}
	if subscriberID == channelID {
		return nil, apperror.Validation("channelId", "Cannot subscribe to your own channel")
	}

	channel, err := u.userRepo.FindByID(channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, apperror.NotFound("Channel does not exist")
	}

	removed, err := u.subRepo.Delete(subscriberID, channelID)
	if err != nil {
		return nil, err
	}
	if removed {
		return &channeldto.ToggleResult{Subscribed: false}, nil
	}

	err = u.subRepo.Create(&channeldomain.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return &channeldto.ToggleResult{Subscribed: true}, nil
		}
		return nil, err
	}
	return &channeldto.ToggleResult{Subscribed: true}, nil
}

func (u *channelUsecase) RecordView(viewerID, videoID string) (*channeldomain.Video, error) {
	if videoID == "" {
		return nil, apperror.Validation("videoId", "Video id is missing")
	}

	video, err := u.vidRepo.FindByID(videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperror.NotFound("Video does not exist")
	}

	if err := u.vidRepo.AppendWatchHistory(viewerID, videoID); err != nil {
		return nil, err
	}
	if err := u.vidRepo.IncrementViews(videoID); err != nil {
		return nil, err
	}
	video.Views++

	return video, nil
}
