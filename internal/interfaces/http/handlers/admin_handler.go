package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/interfaces/http/middleware"
	"rawwealthy.backend/internal/interfaces/http/response"
	"rawwealthy.backend/internal/usecases"
)

type adminService interface {
	ListUsers(ctx context.Context, search string, page, limit int) (*usecases.UserList, error)
	TopInvestors(ctx context.Context, limit int) ([]entities.TopInvestor, error)
	Stats(ctx context.Context) (*entities.UserStats, error)
	ReviewKYC(ctx context.Context, actingUserID, userID uuid.UUID, input *entities.KYCDecisionInput) (*entities.UserProfile, error)
}

// AdminHandler handles back-office user endpoints
type AdminHandler struct {
	userUsecase adminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userUsecase adminService) *AdminHandler {
	return &AdminHandler{userUsecase: userUsecase}
}

// ListUsers lists users, optionally matching name or email
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	list, err := h.userUsecase.ListUsers(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// TopInvestors ranks users by total invested
// GET /api/v1/admin/users/top-investors
func (h *AdminHandler) TopInvestors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	investors, err := h.userUsecase.TopInvestors(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"investors": investors})
}

// GetStats
// GET /api/v1/admin/users/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.userUsecase.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// ReviewKYC approves or rejects a user's KYC submission
// PUT /api/v1/admin/users/:id/kyc
func (h *AdminHandler) ReviewKYC(c *gin.Context) {
	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user ID"))
		return
	}

	var input entities.KYCDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	profile, err := h.userUsecase.ReviewKYC(c.Request.Context(), reviewerID, userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": profile})
}
