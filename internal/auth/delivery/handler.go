package delivery

import (
	"net/http"
	"time"

	authdto "playtube-backend/internal/auth/dto"
	"playtube-backend/internal/auth/usecase"
	"playtube-backend/pkg/apperror"
	"playtube-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

// Register handles POST /users/register. Multipart form: profile fields plus
// a required avatar file and an optional coverImage file.
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, apperror.Validation("", "All fields are required"))
		return
	}

	avatar, err := c.FormFile("avatar")
	if err != nil {
		avatar = nil
	}
	coverImage, err := c.FormFile("coverImage")
	if err != nil {
		coverImage = nil
	}

	user, err := h.authUsecase.Register(&req, avatar, coverImage)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, user, "User registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("", "Username or email is required"))
		return
	}

	result, err := h.authUsecase.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setTokenCookies(c, result.AccessToken, result.RefreshToken)
	response.JSON(c, http.StatusOK, result, "User logged in successfully")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.Logout(UserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	h.clearTokenCookies(c)
	response.JSON(c, http.StatusOK, nil, "User logged out")
}

// Refresh handles POST /users/refresh-token. The refresh token may arrive as
// a cookie or in the JSON body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie("refreshToken")
	if presented == "" {
		var req authdto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.authUsecase.Refresh(presented)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	response.JSON(c, http.StatusOK, pair, "Access token refreshed")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req authdto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("", "All fields are required"))
		return
	}

	if err := h.authUsecase.ChangePassword(UserID(c), &req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, nil, "Password changed successfully")
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := h.authUsecase.CurrentUser(UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, "Current user fetched successfully")
}

func (h *AuthHandler) UpdateAccount(c *gin.Context) {
	var req authdto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("", "All fields are required"))
		return
	}

	user, err := h.authUsecase.UpdateAccount(UserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, "Account details updated successfully")
}

func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		file = nil
	}

	user, err := h.authUsecase.UpdateAvatar(UserID(c), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, "Avatar updated successfully")
}

func (h *AuthHandler) UpdateCoverImage(c *gin.Context) {
	file, err := c.FormFile("coverImage")
	if err != nil {
		file = nil
	}

	user, err := h.authUsecase.UpdateCoverImage(UserID(c), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, "Cover image updated successfully")
}

// Tokens travel as HttpOnly+Secure cookies so scripts cannot read them, and
// are additionally echoed in the JSON body for non-browser clients.
func (h *AuthHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", accessToken, int(h.accessTTL.Seconds()), "/", "", true, true)
	c.SetCookie("refreshToken", refreshToken, int(h.refreshTTL.Seconds()), "/", "", true, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", "", -1, "/", "", true, true)
	c.SetCookie("refreshToken", "", -1, "/", "", true, true)
}
