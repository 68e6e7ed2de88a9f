package repository

import authdomain "playtube-backend/internal/auth/domain"

// UserRepository is the credential store. Find methods return (nil, nil) when
// no record matches; errors are reserved for infrastructure failures.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByID(id string) (*authdomain.User, error)
	FindByUsername(username string) (*authdomain.User, error)
	FindByUsernameOrEmail(username, email string) (*authdomain.User, error)
	UpdateFields(id string, fields map[string]any) (*authdomain.User, error)

	// SetRefreshToken unconditionally overwrites the stored refresh token,
	// invalidating whatever was there before (login-time rotation).
	SetRefreshToken(id, token string) error

	// CompareAndSwapRefreshToken replaces the stored refresh token only if it
	// still equals current. Returns false when the stored value has changed,
	// which is how a rotated-then-replayed token (or the loser of a refresh
	// race) is detected.
	CompareAndSwapRefreshToken(id, current, next string) (bool, error)

	// ClearRefreshToken removes the stored token. Idempotent.
	ClearRefreshToken(id string) error
}
