package usecase

import (
	"mime/multipart"
	"strings"

	authdomain "playtube-backend/internal/auth/domain"
	authdto "playtube-backend/internal/auth/dto"
	"playtube-backend/internal/auth/password"
	"playtube-backend/internal/auth/repository"
	"playtube-backend/internal/auth/token"
	"playtube-backend/pkg/apperror"
	"playtube-backend/pkg/blob"
)

// authUsecase implements AuthUsecase.
type authUsecase struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	hasher   *password.Hasher
	blobs    blob.Store
}

func NewAuthUsecase(userRepo repository.UserRepository, tokens *token.Service, hasher *password.Hasher, blobs blob.Store) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		blobs:    blobs,
	}
}

func (u *authUsecase) Register(req *authdto.RegisterRequest, avatar, coverImage *multipart.FileHeader) (*authdomain.User, error) {
	for _, field := range []string{req.FullName, req.Email, req.Username, req.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, apperror.Validation("", "All fields are required")
		}
	}
	if avatar == nil {
		return nil, apperror.Validation("avatar", "Avatar file is required")
	}

	hash, err := u.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Validation("password", err.Error())
	}

	avatarURL, _, err := u.blobs.Upload(avatar)
	if err != nil {
		return nil, apperror.Internal("Error while uploading avatar", err)
	}
	if avatarURL == "" {
		return nil, apperror.Validation("avatar", "Avatar file is required")
	}

	var coverURL string
	if coverImage != nil {
		coverURL, _, err = u.blobs.Upload(coverImage)
		if err != nil {
			return nil, apperror.Internal("Error while uploading cover image", err)
		}
	}

	user := &authdomain.User{
		Username:      strings.ToLower(req.Username),
		Email:         req.Email,
		PasswordHash:  hash,
		FullName:      req.FullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}

	// Uniqueness is enforced by the database; a duplicate surfaces here as a
	// conflict from the repository, with no pre-insert existence probe.
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.AuthResult, error) {
	if req.Username == "" && req.Email == "" {
		return nil, apperror.Validation("", "Username or email is required")
	}

	user, err := u.userRepo.FindByUsernameOrEmail(req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User does not exist")
	}

	if !u.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, apperror.Unauthorized("Incorrect password")
	}

	pair, err := u.issueAndStoreTokens(user.ID)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = pair.RefreshToken

	return &authdto.AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout clears the stored refresh token unconditionally. Calling it twice,
// or for a session that never logged in, is a no-op.
func (u *authUsecase) Logout(userID string) error {
	return u.userRepo.ClearRefreshToken(userID)
}

// Refresh validates the presented refresh token, rotates it, and returns a
// new token pair. The presented token must equal exactly the one stored on
// the user record; the swap is a compare-and-set, so of two concurrent
// refresh calls with the same token at most one can succeed.
func (u *authUsecase) Refresh(presentedToken string) (*authdto.TokenPair, error) {
	if presentedToken == "" {
		return nil, apperror.Unauthorized("Unauthorized request")
	}

	claims, err := u.tokens.Verify(presentedToken, token.KindRefresh)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token: " + err.Error())
	}

	user, err := u.userRepo.FindByID(claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}

	accessToken, _, err := u.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating tokens", err)
	}
	refreshToken, _, err := u.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating tokens", err)
	}

	swapped, err := u.userRepo.CompareAndSwapRefreshToken(user.ID, presentedToken, refreshToken)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Validly signed but no longer the stored instance: rotated away,
		// cleared by logout, or beaten by a concurrent refresh.
		return nil, apperror.Unauthorized("Refresh token is expired or used")
	}

	return &authdto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ChangePassword re-hashes and persists the new password after verifying the
// old one. The stored refresh token is deliberately left untouched, matching
// the reference behavior; outstanding sessions stay valid.
func (u *authUsecase) ChangePassword(userID string, req *authdto.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperror.Validation("", "All fields are required")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("User does not exist")
	}

	if !u.hasher.Verify(req.OldPassword, user.PasswordHash) {
		return apperror.Validation("oldPassword", "Invalid old password")
	}

	hash, err := u.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperror.Validation("newPassword", err.Error())
	}

	_, err = u.userRepo.UpdateFields(userID, map[string]any{"password_hash": hash})
	return err
}

func (u *authUsecase) CurrentUser(userID string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User does not exist")
	}
	return user, nil
}

func (u *authUsecase) UpdateAccount(userID string, req *authdto.UpdateAccountRequest) (*authdomain.User, error) {
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, apperror.Validation("", "All fields are required")
	}
	return u.userRepo.UpdateFields(userID, map[string]any{
		"full_name": req.FullName,
		"email":     req.Email,
	})
}

func (u *authUsecase) UpdateAvatar(userID string, file *multipart.FileHeader) (*authdomain.User, error) {
	return u.updateImage(userID, file, "avatar_url", "Avatar")
}

func (u *authUsecase) UpdateCoverImage(userID string, file *multipart.FileHeader) (*authdomain.User, error) {
	return u.updateImage(userID, file, "cover_image_url", "Cover image")
}

// updateImage uploads the replacement and persists its URL. The previously
// stored object is not deleted; see DESIGN.md on the accepted orphan gap.
func (u *authUsecase) updateImage(userID string, file *multipart.FileHeader, column, label string) (*authdomain.User, error) {
	if file == nil {
		return nil, apperror.Validation(column, label+" file is missing")
	}

	url, _, err := u.blobs.Upload(file)
	if err != nil {
		return nil, apperror.Internal("Error while uploading "+strings.ToLower(label), err)
	}
	if url == "" {
		return nil, apperror.Validation(column, "Error while uploading "+strings.ToLower(label))
	}

	return u.userRepo.UpdateFields(userID, map[string]any{column: url})
}

func (u *authUsecase) issueAndStoreTokens(userID string) (*authdto.TokenPair, error) {
	accessToken, _, err := u.tokens.IssueAccess(userID)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating tokens", err)
	}
	refreshToken, _, err := u.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating tokens", err)
	}

	// Overwrites whatever token was stored before, so a fresh login always
	// invalidates the previous session's refresh token.
	if err := u.userRepo.SetRefreshToken(userID, refreshToken); err != nil {
		return nil, err
	}

	return &authdto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
