package domain

import "time"

// User is the credential-store record. Username and email carry unique
// indexes so duplicates are rejected by the database, not by an existence
// probe. RefreshToken mirrors the single currently-valid refresh token for
// the user; overwriting it invalidates any previously issued one.
type User struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	Username      string    `json:"username" gorm:"uniqueIndex;not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	FullName      string    `json:"fullName" gorm:"not null"`
	AvatarURL     string    `json:"avatarUrl" gorm:"not null"`
	CoverImageURL string    `json:"coverImageUrl"`
	RefreshToken  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
