package domain

import "time"

// Subscription is a directed edge in the follow graph: subscriber follows
// channel. The composite unique index forbids duplicate edges, so counts are
// edge counts and a pair either exists or it does not.
type Subscription struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	SubscriberID string    `json:"subscriberId" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    string    `json:"channelId" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
