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

type planService interface {
	CreatePlan(ctx context.Context, actingUserID uuid.UUID, input *entities.CreatePlanInput) (*entities.PlanView, error)
	UpdatePlan(ctx context.Context, actingUserID, planID uuid.UUID, input *entities.UpdatePlanInput) (*entities.PlanView, error)
	DeactivatePlan(ctx context.Context, actingUserID, planID uuid.UUID) error
	GetPlan(ctx context.Context, planID uuid.UUID) (*entities.PlanView, error)
	ListPlans(ctx context.Context, filter entities.PlanFilter, page, limit int) (*usecases.PlanList, error)
	ActivePlans(ctx context.Context) ([]entities.PlanView, error)
	FeaturedPlans(ctx context.Context) ([]entities.PlanView, error)
	PlansByRisk(ctx context.Context, risk entities.RiskLevel) ([]entities.PlanView, error)
	RecordInvestment(ctx context.Context, planID uuid.UUID, input *entities.PerformanceInput) (*entities.PlanView, error)
}

// PlanHandler serves the investment plan catalogue
type PlanHandler struct {
	planUsecase planService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planUsecase planService) *PlanHandler {
	return &PlanHandler{planUsecase: planUsecase}
}

// ListPlans lists active plans with optional filters
// GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	h.list(c, true)
}

// ListAllPlans includes inactive plans unless active=true is given
// GET /api/v1/admin/plans
func (h *PlanHandler) ListAllPlans(c *gin.Context) {
	h.list(c, c.Query("active") == "true")
}

func (h *PlanHandler) list(c *gin.Context, activeOnly bool) {
	filter := entities.PlanFilter{
		Category:     entities.PlanCategory(c.Query("category")),
		MaterialType: entities.MaterialType(c.Query("materialType")),
		RiskLevel:    entities.RiskLevel(c.Query("riskLevel")),
		ActiveOnly:   activeOnly,
	}
	var err error
	if filter.MinAmount, err = queryFloat(c, "minAmount"); err != nil {
		response.Error(c, domainerrors.NewValidationError("minAmount", "must be a number"))
		return
	}
	if filter.MaxAmount, err = queryFloat(c, "maxAmount"); err != nil {
		response.Error(c, domainerrors.NewValidationError("maxAmount", "must be a number"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	list, err := h.planUsecase.ListPlans(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// ActivePlans lists every active plan, featured and popular first
// GET /api/v1/plans/active
func (h *PlanHandler) ActivePlans(c *gin.Context) {
	plans, err := h.planUsecase.ActivePlans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

// FeaturedPlans
// GET /api/v1/plans/featured
func (h *PlanHandler) FeaturedPlans(c *gin.Context) {
	plans, err := h.planUsecase.FeaturedPlans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

// PlansByRisk
// GET /api/v1/plans/risk/:level
func (h *PlanHandler) PlansByRisk(c *gin.Context) {
	plans, err := h.planUsecase.PlansByRisk(c.Request.Context(), entities.RiskLevel(c.Param("level")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

// GetPlan returns one plan with its derived fields
// GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}

	plan, err := h.planUsecase.GetPlan(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// CreatePlan
// POST /api/v1/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	var input entities.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	plan, err := h.planUsecase.CreatePlan(c.Request.Context(), adminID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"plan": plan})
}

// UpdatePlan
// PUT /api/v1/plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}
	id, ok := planID(c)
	if !ok {
		return
	}

	var input entities.UpdatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	plan, err := h.planUsecase.UpdatePlan(c.Request.Context(), adminID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// DeactivatePlan hides a plan; plans are never hard-deleted
// DELETE /api/v1/plans/:id
func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}
	id, ok := planID(c)
	if !ok {
		return
	}

	if err := h.planUsecase.DeactivatePlan(c.Request.Context(), adminID, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordInvestment adds an investment to the plan's counters. The route is
// wrapped by the idempotency middleware so clients can retry safely.
// POST /api/v1/plans/:id/performance
func (h *PlanHandler) RecordInvestment(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}

	var input entities.PerformanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	plan, err := h.planUsecase.RecordInvestment(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

func planID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid plan ID"))
		return uuid.Nil, false
	}
	return id, true
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
