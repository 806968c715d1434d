package repositories

import (
	"context"

	"github.com/google/uuid"

	"rawwealthy.backend/internal/domain/entities"
)

// InvestmentPlanRepository defines plan data operations
type InvestmentPlanRepository interface {
	Create(ctx context.Context, plan *entities.InvestmentPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.InvestmentPlan, error)
	GetByName(ctx context.Context, name string) (*entities.InvestmentPlan, error)
	Update(ctx context.Context, plan *entities.InvestmentPlan) error
	List(ctx context.Context, filter entities.PlanFilter, limit, offset int) ([]*entities.InvestmentPlan, int64, error)

	// ListActive orders featured first, then popular, then newest
	ListActive(ctx context.Context) ([]*entities.InvestmentPlan, error)
	// ListByRisk returns active plans of one risk level, highest daily interest first
	ListByRisk(ctx context.Context, risk entities.RiskLevel) ([]*entities.InvestmentPlan, error)
	ListFeatured(ctx context.Context, limit int) ([]*entities.InvestmentPlan, error)

	// IncrementPerformance adds one investor and amount to the plan counters in the store
	IncrementPerformance(ctx context.Context, id uuid.UUID, amount float64) error
}
