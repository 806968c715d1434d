package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rawwealthy.backend/internal/config"
	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/domain/repositories"
	"rawwealthy.backend/pkg/logger"
	"rawwealthy.backend/pkg/metrics"
	"rawwealthy.backend/pkg/utils"
)

// PlanList is one page of plans
type PlanList struct {
	Plans      []entities.PlanView  `json:"plans"`
	Pagination utils.PaginationMeta `json:"pagination"`
}

// PlanUsecase manages the plan catalogue and its performance counters
type PlanUsecase struct {
	planRepo      repositories.InvestmentPlanRepository
	userRepo      repositories.UserRepository
	policy        entities.RateReconciliationPolicy
	featuredLimit int
	metrics       *metrics.Collector
}

// NewPlanUsecase creates a new plan usecase. An unknown reconciliation
// policy falls back to overwrite.
func NewPlanUsecase(planRepo repositories.InvestmentPlanRepository, userRepo repositories.UserRepository, collector *metrics.Collector, cfg config.PlanConfig) *PlanUsecase {
	policy := entities.RateReconciliationPolicy(cfg.RateReconciliation)
	if !policy.IsValid() {
		policy = entities.ReconcileOverwrite
	}
	limit := cfg.FeaturedLimit
	if limit <= 0 {
		limit = entities.FeaturedPlansLimit
	}
	return &PlanUsecase{
		planRepo:      planRepo,
		userRepo:      userRepo,
		policy:        policy,
		featuredLimit: limit,
		metrics:       collector,
	}
}

// CreatePlan reconciles and validates a new plan before storing it
func (u *PlanUsecase) CreatePlan(ctx context.Context, actingUserID uuid.UUID, input *entities.CreatePlanInput) (*entities.PlanView, error) {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	plan := entities.NewInvestmentPlan(*input, actingUserID)
	if err := u.reconcile(ctx, plan); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := u.planRepo.Create(ctx, plan); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(fmt.Sprintf("plan %q already exists", plan.Name))
		}
		return nil, err
	}

	logger.Info(ctx, "Investment plan created",
		zap.String("planId", plan.ID.String()),
		zap.String("createdBy", actingUserID.String()),
	)
	view := plan.View()
	return &view, nil
}

// UpdatePlan applies a partial update. Rates are reconciled only when the
// daily interest or the duration changed.
func (u *PlanUsecase) UpdatePlan(ctx context.Context, actingUserID, planID uuid.UUID, input *entities.UpdatePlanInput) (*entities.PlanView, error) {
	plan, err := u.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if input.Apply(plan) {
		if err := u.reconcile(ctx, plan); err != nil {
			return nil, err
		}
	}
	plan.LastUpdatedBy = &actingUserID
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := u.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(fmt.Sprintf("plan %q already exists", plan.Name))
		}
		return nil, err
	}
	view := plan.View()
	return &view, nil
}

// DeactivatePlan hides a plan from every active listing
func (u *PlanUsecase) DeactivatePlan(ctx context.Context, actingUserID, planID uuid.UUID) error {
	plan, err := u.planRepo.GetByID(ctx, planID)
	if err != nil {
		return err
	}
	if !plan.IsActive {
		return nil
	}
	plan.IsActive = false
	plan.IsFeatured = false
	plan.LastUpdatedBy = &actingUserID
	if err := u.planRepo.Update(ctx, plan); err != nil {
		return err
	}
	logger.Info(ctx, "Investment plan deactivated",
		zap.String("planId", planID.String()),
		zap.String("by", actingUserID.String()),
	)
	return nil
}

// GetPlan returns one plan with its derived fields
func (u *PlanUsecase) GetPlan(ctx context.Context, planID uuid.UUID) (*entities.PlanView, error) {
	plan, err := u.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	view := plan.View()
	return &view, nil
}

// ListPlans returns a filtered page of plans
func (u *PlanUsecase) ListPlans(ctx context.Context, filter entities.PlanFilter, page, limit int) (*PlanList, error) {
	verr := &domainerrors.ValidationError{}
	if filter.Category != "" && !filter.Category.IsValid() {
		verr.Add("category", fmt.Sprintf("%s is not a supported value", filter.Category))
	}
	if filter.MaterialType != "" && !filter.MaterialType.IsValid() {
		verr.Add("materialType", fmt.Sprintf("%s is not a supported value", filter.MaterialType))
	}
	if filter.RiskLevel != "" && !filter.RiskLevel.IsValid() {
		verr.Add("riskLevel", fmt.Sprintf("%s is not a supported value", filter.RiskLevel))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	params := utils.GetPaginationParams(page, limit)
	plans, total, err := u.planRepo.List(ctx, filter, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}
	return &PlanList{
		Plans:      views(plans),
		Pagination: utils.CalculateMeta(total, params.Page, params.Limit),
	}, nil
}

// ActivePlans lists active plans, featured and popular first
func (u *PlanUsecase) ActivePlans(ctx context.Context) ([]entities.PlanView, error) {
	plans, err := u.planRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return views(plans), nil
}

// FeaturedPlans lists the configured number of featured plans
func (u *PlanUsecase) FeaturedPlans(ctx context.Context) ([]entities.PlanView, error) {
	plans, err := u.planRepo.ListFeatured(ctx, u.featuredLimit)
	if err != nil {
		return nil, err
	}
	return views(plans), nil
}

// PlansByRisk lists active plans of one risk level, highest daily interest first
func (u *PlanUsecase) PlansByRisk(ctx context.Context, risk entities.RiskLevel) ([]entities.PlanView, error) {
	if !risk.IsValid() {
		return nil, domainerrors.NewValidationError("riskLevel", fmt.Sprintf("%s is not a supported value", risk))
	}
	plans, err := u.planRepo.ListByRisk(ctx, risk)
	if err != nil {
		return nil, err
	}
	return views(plans), nil
}

// RecordInvestment adds one investor and the amount to the plan counters.
// Delivery is at-least-once: a retried call counts twice unless the caller
// deduplicates it.
func (u *PlanUsecase) RecordInvestment(ctx context.Context, planID uuid.UUID, input *entities.PerformanceInput) (*entities.PlanView, error) {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	plan, err := u.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, domainerrors.BadRequest("plan is not accepting investments")
	}
	if !plan.AcceptsAmount(input.Amount) {
		return nil, domainerrors.NewValidationError("amount",
			fmt.Sprintf("must be between %.2f and %.2f", plan.MinAmount, plan.MaxAmount))
	}
	if err := u.admitInvestor(ctx, plan, input.InvestorID); err != nil {
		return nil, err
	}

	if err := u.planRepo.IncrementPerformance(ctx, planID, input.Amount); err != nil {
		return nil, err
	}
	u.metrics.RecordPlanInvestment(input.Amount)

	updated, err := u.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	view := updated.View()
	return &view, nil
}

// admitInvestor enforces the plan's KYC requirement against the investing account
func (u *PlanUsecase) admitInvestor(ctx context.Context, plan *entities.InvestmentPlan, investorID *uuid.UUID) error {
	if investorID == nil {
		if plan.RequiresKYC {
			return domainerrors.NewValidationError("investorId", "is required for plans that require KYC")
		}
		return nil
	}

	investor, err := u.userRepo.GetByID(ctx, *investorID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NewValidationError("investorId", "does not match an account")
	}
	if err != nil {
		return err
	}
	if plan.RequiresKYC && !investor.MeetsKYCLevel(plan.KYCLevelRequired) {
		logger.Info(ctx, "Investment refused below plan KYC level",
			zap.String("planId", plan.ID.String()),
			zap.String("investorId", investor.ID.String()),
			zap.String("required", string(plan.KYCLevelRequired)),
		)
		return domainerrors.Forbidden(fmt.Sprintf("plan requires %s KYC verification", plan.KYCLevelRequired))
	}
	return nil
}

func (u *PlanUsecase) reconcile(ctx context.Context, plan *entities.InvestmentPlan) error {
	before := plan.TotalInterest
	changed, err := plan.ReconcileRates(u.policy)
	if err != nil {
		return err
	}
	if changed {
		logger.Info(ctx, "Total interest reconciled",
			zap.String("plan", plan.Name),
			zap.Float64("from", before),
			zap.Float64("to", plan.TotalInterest),
		)
	}
	return nil
}

func views(plans []*entities.InvestmentPlan) []entities.PlanView {
	out := make([]entities.PlanView, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.View())
	}
	return out
}
