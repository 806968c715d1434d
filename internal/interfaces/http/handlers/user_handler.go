package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/interfaces/http/middleware"
	"rawwealthy.backend/internal/interfaces/http/response"
	"rawwealthy.backend/internal/usecases"
)

type userService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProfile, error)
	RegisterDevice(ctx context.Context, userID uuid.UUID, info entities.DeviceInfo) ([]entities.Device, error)
	RegenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error)
	DisableTwoFactor(ctx context.Context, userID uuid.UUID, input *entities.TwoFactorCodeInput) (*entities.UserProfile, error)
	LookupReferral(ctx context.Context, code string) (*usecases.ReferralInfo, error)
}

// UserHandler serves the signed-in user's own account
type UserHandler struct {
	userUsecase userService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUsecase userService) *UserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// GetProfile
// GET /api/v1/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	profile, err := h.userUsecase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": profile})
}

// UpdateProfile applies a partial profile update
// PUT /api/v1/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	profile, err := h.userUsecase.UpdateProfile(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": profile})
}

// RegisterDevice marks the calling device as current
// POST /api/v1/users/devices
func (h *UserHandler) RegisterDevice(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	var info entities.DeviceInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	if info.IPAddress == "" {
		info.IPAddress = c.ClientIP()
	}
	if info.UserAgent == "" {
		info.UserAgent = c.Request.UserAgent()
	}

	devices, err := h.userUsecase.RegisterDevice(c.Request.Context(), userID, info)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"devices": devices})
}

// RegenerateBackupCodes returns the plaintext codes once; only hashes are kept
// POST /api/v1/users/two-factor/backup-codes
func (h *UserHandler) RegenerateBackupCodes(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	codes, err := h.userUsecase.RegenerateBackupCodes(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.Success(c, http.StatusCreated, gin.H{"backupCodes": codes})
}

// DisableTwoFactor spends one backup code to turn two-factor sign-in off
// POST /api/v1/users/two-factor/disable
func (h *UserHandler) DisableTwoFactor(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	var input entities.TwoFactorCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	profile, err := h.userUsecase.DisableTwoFactor(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": profile})
}

// LookupReferral
// GET /api/v1/users/referrals/:code
func (h *UserHandler) LookupReferral(c *gin.Context) {
	info, err := h.userUsecase.LookupReferral(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"referral": info})
}
