package repository

import (
	"errors"
	"time"

	channeldomain "playtube-backend/internal/channel/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(video *channeldomain.Video) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	video.CreatedAt = time.Now()
	return r.db.Create(video).Error
}

func (r *videoRepository) FindByID(id string) (*channeldomain.Video, error) {
	var video channeldomain.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) IncrementViews(id string) error {
	return r.db.Model(&channeldomain.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// AppendWatchHistory computes the next position inside the INSERT itself, so
// concurrent appends for the same user cannot pick the same slot after both
// reading the old maximum.
func (r *videoRepository) AppendWatchHistory(userID, videoID string) error {
	return r.db.Exec(`
		INSERT INTO watch_history_entries (user_id, video_id, position, watched_at)
		SELECT ?, ?, COALESCE(MAX(position), 0) + 1, ?
		FROM watch_history_entries WHERE user_id = ?`,
		userID, videoID, time.Now(), userID,
	).Error
}

// WatchHistory is the two-level join: history row -> video -> owner, ordered
// by stored position.
func (r *videoRepository) WatchHistory(userID string) ([]channeldomain.WatchHistoryVideo, error) {
	type row struct {
		ID             string
		Title          string
		FileURL        string
		ThumbnailURL   string
		Duration       float64
		Views          int64
		CreatedAt      time.Time
		OwnerFullName  string
		OwnerUsername  string
		OwnerAvatarURL string
	}

	var rows []row
	err := r.db.Table("watch_history_entries").
		Select(`videos.id, videos.title, videos.file_url, videos.thumbnail_url,
			videos.duration, videos.views, videos.created_at,
			users.full_name AS owner_full_name,
			users.username AS owner_username,
			users.avatar_url AS owner_avatar_url`).
		Joins("JOIN videos ON videos.id = watch_history_entries.video_id").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("watch_history_entries.user_id = ?", userID).
		Order("watch_history_entries.position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	history := make([]channeldomain.WatchHistoryVideo, 0, len(rows))
	for _, r := range rows {
		history = append(history, channeldomain.WatchHistoryVideo{
			ID:           r.ID,
			Title:        r.Title,
			FileURL:      r.FileURL,
			ThumbnailURL: r.ThumbnailURL,
			Duration:     r.Duration,
			Views:        r.Views,
			CreatedAt:    r.CreatedAt,
			Owner: channeldomain.VideoOwner{
				FullName:  r.OwnerFullName,
				Username:  r.OwnerUsername,
				AvatarURL: r.OwnerAvatarURL,
			},
		})
	}
	return history, nil
}
