package repository

import (
	"errors"
	"time"

	channeldomain "playtube-backend/internal/channel/domain"
	"playtube-backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CountSubscribers(channelID string) (int64, error) {
	var count int64
	err := r.db.Model(&channeldomain.Subscription{}).
		Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountSubscribedTo(subscriberID string) (int64, error) {
	var count int64
	err := r.db.Model(&channeldomain.Subscription{}).
		Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) IsSubscribed(subscriberID, channelID string) (bool, error) {
	if subscriberID == "" {
		return false, nil
	}
	var count int64
	err := r.db.Model(&channeldomain.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) Create(sub *channeldomain.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	sub.CreatedAt = time.Now()

	if err := r.db.Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("Already subscribed to this channel")
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) Delete(subscriberID, channelID string) (bool, error) {
	res := r.db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&channeldomain.Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
