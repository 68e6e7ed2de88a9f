package usecase

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"

	authdomain "playtube-backend/internal/auth/domain"
	authdto "playtube-backend/internal/auth/dto"
	"playtube-backend/internal/auth/password"
	"playtube-backend/internal/auth/token"
	"playtube-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory credential store with the same contract as
// the gorm repository: unique username/email, atomic compare-and-swap on the
// refresh token.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*authdomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*authdomain.User)}
}

func (f *fakeUserRepo) Create(user *authdomain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	username := strings.ToLower(user.Username)
	for _, u := range f.users {
		if u.Username == username || u.Email == user.Email {
			return apperror.Conflict("User with email or username already exists")
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Username = username
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByUsername(username string) (*authdomain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == strings.ToLower(username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsernameOrEmail(username, email string) (*authdomain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if (username != "" && u.Username == strings.ToLower(username)) || (email != "" && u.Email == email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateFields(id string, fields map[string]any) (*authdomain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	for column, value := range fields {
		s, _ := value.(string)
		switch column {
		case "password_hash":
			u.PasswordHash = s
		case "full_name":
			u.FullName = s
		case "email":
			u.Email = s
		case "avatar_url":
			u.AvatarURL = s
		case "cover_image_url":
			u.CoverImageURL = s
		}
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) SetRefreshToken(id, tok string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u, ok := f.users[id]; ok {
		u.RefreshToken = tok
	}
	return nil
}

func (f *fakeUserRepo) CompareAndSwapRefreshToken(id, current, next string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok || u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = next
	return true, nil
}

func (f *fakeUserRepo) ClearRefreshToken(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u, ok := f.users[id]; ok {
		u.RefreshToken = ""
	}
	return nil
}

func (f *fakeUserRepo) storedRefreshToken(t *testing.T, id string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	require.True(t, ok, "user %s not stored", id)
	return u.RefreshToken
}

type fakeBlobStore struct {
	mu      sync.Mutex
	uploads int
	err     error
}

func (f *fakeBlobStore) Upload(header *multipart.FileHeader) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return "", "", f.err
	}
	f.uploads++
	key := fmt.Sprintf("uploads/%d-%s", f.uploads, header.Filename)
	return "http://cdn.test/" + key, key, nil
}

func (f *fakeBlobStore) Delete(string) error { return nil }

type testEnv struct {
	uc     AuthUsecase
	repo   *fakeUserRepo
	blobs  *fakeBlobStore
	tokens *token.Service
	hasher *password.Hasher
}

func newTestEnv() *testEnv {
	repo := newFakeUserRepo()
	blobs := &fakeBlobStore{}
	tokens := token.NewService("test-access-secret", "test-refresh-secret", 15*time.Minute, 240*time.Hour)
	hasher := password.NewHasher(bcrypt.MinCost)

	return &testEnv{
		uc:     NewAuthUsecase(repo, tokens, hasher, blobs),
		repo:   repo,
		blobs:  blobs,
		tokens: tokens,
		hasher: hasher,
	}
}

func fileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

func registerAlice(t *testing.T, env *testEnv) *authdomain.User {
	t.Helper()
	user, err := env.uc.Register(&authdto.RegisterRequest{
		FullName: "Alice Example",
		Email:    "alice@x.com",
		Username: "Alice",
		Password: "s3cret-password",
	}, fileHeader("avatar.png"), nil)
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	t.Run("success lowercases username and hashes password", func(t *testing.T) {
		env := newTestEnv()
		user := registerAlice(t, env)

		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "s3cret-password", user.PasswordHash)
		assert.True(t, env.hasher.Verify("s3cret-password", user.PasswordHash))
		assert.NotEmpty(t, user.AvatarURL)
		assert.Empty(t, user.CoverImageURL)
	})

	t.Run("response JSON carries no credentials", func(t *testing.T) {
		env := newTestEnv()
		user := registerAlice(t, env)

		body, err := json.Marshal(user)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "password")
		assert.NotContains(t, string(body), user.PasswordHash)
		assert.NotContains(t, string(body), "refreshToken")
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		env := newTestEnv()
		registerAlice(t, env)

		_, err := env.uc.Register(&authdto.RegisterRequest{
			FullName: "Another Alice",
			Email:    "other@x.com",
			Username: "ALICE",
			Password: "different-pw",
		}, fileHeader("a.png"), nil)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		env := newTestEnv()
		registerAlice(t, env)

		_, err := env.uc.Register(&authdto.RegisterRequest{
			FullName: "Someone Else",
			Email:    "alice@x.com",
			Username: "someone",
			Password: "different-pw",
		}, fileHeader("a.png"), nil)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("missing avatar is a validation error", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Register(&authdto.RegisterRequest{
			FullName: "Bob",
			Email:    "bob@x.com",
			Username: "bob",
			Password: "pw-pw-pw",
		}, nil, nil)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("blank fields are a validation error", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Register(&authdto.RegisterRequest{
			FullName: "  ",
			Email:    "bob@x.com",
			Username: "bob",
			Password: "pw-pw-pw",
		}, fileHeader("a.png"), nil)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("optional cover image is uploaded too", func(t *testing.T) {
		env := newTestEnv()

		user, err := env.uc.Register(&authdto.RegisterRequest{
			FullName: "Bob",
			Email:    "bob@x.com",
			Username: "bob",
			Password: "pw-pw-pw",
		}, fileHeader("a.png"), fileHeader("cover.png"))
		require.NoError(t, err)
		assert.NotEmpty(t, user.CoverImageURL)
		assert.NotEqual(t, user.AvatarURL, user.CoverImageURL)
	})
}

func TestLogin(t *testing.T) {
	t.Run("by username", func(t *testing.T) {
		env := newTestEnv()
		alice := registerAlice(t, env)

		result, err := env.uc.Login(&authdto.LoginRequest{Username: "Alice", Password: "s3cret-password"})
		require.NoError(t, err)

		claims, err := env.tokens.Verify(result.AccessToken, token.KindAccess)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, claims.Subject)

		// The returned refresh token is exactly what is now stored.
		assert.Equal(t, result.RefreshToken, env.repo.storedRefreshToken(t, alice.ID))
		assert.Equal(t, alice.ID, result.User.ID)
	})

	t.Run("by email", func(t *testing.T) {
		env := newTestEnv()
		registerAlice(t, env)

		result, err := env.uc.Login(&authdto.LoginRequest{Email: "alice@x.com", Password: "s3cret-password"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("no identifier is a validation error", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Login(&authdto.LoginRequest{Password: "whatever"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Login(&authdto.LoginRequest{Username: "ghost", Password: "whatever"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("wrong password leaves stored token untouched", func(t *testing.T) {
		env := newTestEnv()
		alice := registerAlice(t, env)

		first, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)

		_, err = env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		assert.Equal(t, first.RefreshToken, env.repo.storedRefreshToken(t, alice.ID))
	})

	t.Run("second login rotates the stored refresh token", func(t *testing.T) {
		env := newTestEnv()
		alice := registerAlice(t, env)

		first, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)
		second, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)

		assert.Equal(t, second.RefreshToken, env.repo.storedRefreshToken(t, alice.ID))

		// The first session's refresh token is dead even though unexpired.
		_, err = env.uc.Refresh(first.RefreshToken)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("rotates and returns a fresh pair", func(t *testing.T) {
		env := newTestEnv()
		alice := registerAlice(t, env)
		login, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)

		pair, err := env.uc.Refresh(login.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)
		assert.Equal(t, pair.RefreshToken, env.repo.storedRefreshToken(t, alice.ID))

		claims, err := env.tokens.Verify(pair.AccessToken, token.KindAccess)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, claims.Subject)
	})

	t.Run("reuse of a rotated token fails", func(t *testing.T) {
		env := newTestEnv()
		registerAlice(t, env)
		login, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)

		_, err = env.uc.Refresh(login.RefreshToken)
		require.NoError(t, err)

		// Validly signed, not expired, but superseded.
		_, err = env.uc.Refresh(login.RefreshToken)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		assert.Contains(t, err.Error(), "expired or used")
	})

	t.Run("missing token fails", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Refresh("")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("garbage token fails", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.uc.Refresh("not-a-jwt")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		env := newTestEnv()
		registerAlice(t, env)
		login, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)

		_, err = env.uc.Refresh(login.AccessToken)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("concurrent refreshes on one token admit one winner", func(t *testing.T) {
		env := newTestEnv()
		registerAlice(t, env)
		login, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)

		const attempts = 8
		errs := make(chan error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := env.uc.Refresh(login.RefreshToken)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var wins, losses int
		for err := range errs {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, apperror.ErrUnauthorized)
				losses++
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, attempts-1, losses)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv()
	alice := registerAlice(t, env)
	login, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
	require.NoError(t, err)

	require.NoError(t, env.uc.Logout(alice.ID))
	assert.Empty(t, env.repo.storedRefreshToken(t, alice.ID))

	// Idempotent.
	require.NoError(t, env.uc.Logout(alice.ID))

	// The issued refresh token no longer matches anything stored.
	_, err = env.uc.Refresh(login.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	t.Run("wrong old password is a bad request", func(t *testing.T) {
		env := newTestEnv()
		alice := registerAlice(t, env)

		err := env.uc.ChangePassword(alice.ID, &authdto.ChangePasswordRequest{
			OldPassword: "wrong",
			NewPassword: "new-password",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("success re-hashes and keeps sessions alive", func(t *testing.T) {
		env := newTestEnv()
		alice := registerAlice(t, env)
		login, err := env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)

		err = env.uc.ChangePassword(alice.ID, &authdto.ChangePasswordRequest{
			OldPassword: "s3cret-password",
			NewPassword: "new-password",
		})
		require.NoError(t, err)

		_, err = env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "s3cret-password"})
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		_, err = env.uc.Login(&authdto.LoginRequest{Username: "alice", Password: "new-password"})
		assert.NoError(t, err)

		// Matches the reference system: changing the password does not
		// revoke the outstanding refresh token.
		_, err = env.uc.Refresh(login.RefreshToken)
		assert.NoError(t, err)
	})
}

func TestUpdateAccount(t *testing.T) {
	env := newTestEnv()
	alice := registerAlice(t, env)

	_, err := env.uc.UpdateAccount(alice.ID, &authdto.UpdateAccountRequest{FullName: "", Email: "a@x.com"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	updated, err := env.uc.UpdateAccount(alice.ID, &authdto.UpdateAccountRequest{
		FullName: "Alice Renamed",
		Email:    "renamed@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", updated.FullName)
	assert.Equal(t, "renamed@x.com", updated.Email)
}

func TestUpdateAvatarAndCover(t *testing.T) {
	env := newTestEnv()
	alice := registerAlice(t, env)
	originalAvatar := alice.AvatarURL

	_, err := env.uc.UpdateAvatar(alice.ID, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	updated, err := env.uc.UpdateAvatar(alice.ID, fileHeader("new-avatar.png"))
	require.NoError(t, err)
	assert.NotEqual(t, originalAvatar, updated.AvatarURL)

	updated, err = env.uc.UpdateCoverImage(alice.ID, fileHeader("cover.jpg"))
	require.NoError(t, err)
	assert.NotEmpty(t, updated.CoverImageURL)
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv()
	alice := registerAlice(t, env)

	user, err := env.uc.CurrentUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = env.uc.CurrentUser("missing-id")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
