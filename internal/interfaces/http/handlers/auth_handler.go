package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/interfaces/http/middleware"
	"rawwealthy.backend/internal/interfaces/http/response"
	"rawwealthy.backend/internal/usecases"
)

type authService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*usecases.AuthResult, error)
	Login(ctx context.Context, input *entities.LoginInput) (*usecases.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*usecases.AuthResult, error)
	Logout(ctx context.Context, userID uuid.UUID, sessionID string) error
	Me(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error)
	ForgotPassword(ctx context.Context, input *entities.ForgotPasswordInput) error
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
	ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) (*usecases.AuthResult, error)
}

// CookieOptions controls the session cookie written on cookie logins
type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase authService
	cookie      CookieOptions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase authService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		cookie:      cookie,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	input.IPAddress = c.ClientIP()
	if input.Device != nil && input.Device.UserAgent == "" {
		input.Device.UserAgent = c.Request.UserAgent()
	}

	result, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.SessionID != "" {
		h.setSessionCookie(c, result.SessionID, int(h.cookie.MaxAge.Seconds()))
	}
	response.Success(c, http.StatusOK, result)
}

// Refresh exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("refresh token is required"))
		return
	}

	result, err := h.authUsecase.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Logout ends the cookie session, if the request used one
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), userID, middleware.GetSessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	h.setSessionCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// GetMe returns the current authenticated user
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	profile, err := h.authUsecase.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": profile})
}

// ForgotPassword always answers the same way so accounts cannot be enumerated
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.authUsecase.ForgotPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "If that email is registered, a reset link has been sent",
	})
}

// ResetPassword sets a new password from a reset token
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password has been reset, please log in"})
}

// ChangePassword changes the password and returns a fresh token pair
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	var input entities.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.authUsecase.ChangePassword(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	// Every session was revoked with the old password
	if middleware.GetSessionID(c) != "" {
		h.setSessionCookie(c, "", -1)
	}
	response.Success(c, http.StatusOK, result)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, value, maxAge, "/", "", h.cookie.Secure, true)
}
