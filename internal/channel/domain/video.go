package domain

import "time"

// Video is referenced by the watch-history flows; upload and processing of
// the media itself happen elsewhere.
type Video struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID      string    `json:"ownerId" gorm:"type:uuid;not null;index"`
	Title        string    `json:"title" gorm:"not null"`
	FileURL      string    `json:"fileUrl" gorm:"not null"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Video) TableName() string {
	return "videos"
}

// WatchHistoryEntry is one row of a user's watch history. Position preserves
// append order; the relational rows have no inherent order of their own.
type WatchHistoryEntry struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index"`
	VideoID   string    `json:"videoId" gorm:"type:uuid;not null"`
	Position  int       `json:"position" gorm:"not null"`
	WatchedAt time.Time `json:"watchedAt"`
}

func (WatchHistoryEntry) TableName() string {
	return "watch_history_entries"
}

// VideoOwner is the reduced owner projection attached to history items.
type VideoOwner struct {
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// WatchHistoryVideo is a video joined with its owner projection, in watch
// order.
type WatchHistoryVideo struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	FileURL      string     `json:"fileUrl"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	Duration     float64    `json:"duration"`
	Views        int64      `json:"views"`
	CreatedAt    time.Time  `json:"createdAt"`
	Owner        VideoOwner `json:"owner"`
}
