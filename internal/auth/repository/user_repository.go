package repository

import (
	"errors"
	"strings"
	"time"

	authdomain "playtube-backend/internal/auth/domain"
	"playtube-backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements UserRepository on gorm/Postgres.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *authdomain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Username = strings.ToLower(user.Username)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("User with email or username already exists")
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("username = ?", strings.ToLower(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsernameOrEmail(username, email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("username = ? OR email = ?", strings.ToLower(username), email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateFields(id string, fields map[string]any) (*authdomain.User, error) {
	fields["updated_at"] = time.Now()
	err := r.db.Model(&authdomain.User{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("User with email or username already exists")
		}
		return nil, err
	}
	return r.FindByID(id)
}

func (r *userRepository) SetRefreshToken(id, token string) error {
	return r.db.Model(&authdomain.User{}).Where("id = ?", id).
		Updates(map[string]any{"refresh_token": token, "updated_at": time.Now()}).Error
}

// CompareAndSwapRefreshToken rotates in a single guarded UPDATE so two
// concurrent refresh calls cannot both succeed: the row predicate checks the
// stored token and the write happens atomically. RowsAffected tells who won.
func (r *userRepository) CompareAndSwapRefreshToken(id, current, next string) (bool, error) {
	res := r.db.Model(&authdomain.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Updates(map[string]any{"refresh_token": next, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) ClearRefreshToken(id string) error {
	return r.db.Model(&authdomain.User{}).Where("id = ?", id).
		Updates(map[string]any{"refresh_token": "", "updated_at": time.Now()}).Error
}
