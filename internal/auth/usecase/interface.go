package usecase

import (
	"mime/multipart"

	authdomain "playtube-backend/internal/auth/domain"
	authdto "playtube-backend/internal/auth/dto"
)

// AuthUsecase is the session orchestrator: it coordinates the credential
// store, password hasher, token service and blob store for the /users flows.
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest, avatar, coverImage *multipart.FileHeader) (*authdomain.User, error)
	Login(req *authdto.LoginRequest) (*authdto.AuthResult, error)
	Logout(userID string) error
	Refresh(presentedToken string) (*authdto.TokenPair, error)
	ChangePassword(userID string, req *authdto.ChangePasswordRequest) error
	CurrentUser(userID string) (*authdomain.User, error)
	UpdateAccount(userID string, req *authdto.UpdateAccountRequest) (*authdomain.User, error)
	UpdateAvatar(userID string, file *multipart.FileHeader) (*authdomain.User, error)
	UpdateCoverImage(userID string, file *multipart.FileHeader) (*authdomain.User, error)
}
