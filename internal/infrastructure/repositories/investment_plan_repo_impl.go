package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/infrastructure/models"
	"rawwealthy.backend/pkg/utils"
)

// InvestmentPlanRepository implements plan data operations
type InvestmentPlanRepository struct {
	db *gorm.DB
}

func NewInvestmentPlanRepository(db *gorm.DB) *InvestmentPlanRepository {
	return &InvestmentPlanRepository{db: db}
}

func (r *InvestmentPlanRepository) Create(ctx context.Context, plan *entities.InvestmentPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = utils.GenerateUUIDv7()
	}
	m := toPlanModel(plan)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	plan.CreatedAt = m.CreatedAt
	plan.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *InvestmentPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.InvestmentPlan, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *InvestmentPlanRepository) GetByName(ctx context.Context, name string) (*entities.InvestmentPlan, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *InvestmentPlanRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entities.InvestmentPlan, error) {
	var m models.InvestmentPlan
	if err := lockedDB(ctx, r.db).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toPlanEntity(&m), nil
}

// Update saves the plan definition. Performance counters only move through IncrementPerformance.
func (r *InvestmentPlanRepository) Update(ctx context.Context, plan *entities.InvestmentPlan) error {
	m := toPlanModel(plan)
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.InvestmentPlan{}).
		Where("id = ?", plan.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at", "created_by", "total_investors", "total_invested").
		Updates(m)
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List returns plans matching filter, featured and popular first
func (r *InvestmentPlanRepository) List(ctx context.Context, filter entities.PlanFilter, limit, offset int) ([]*entities.InvestmentPlan, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.InvestmentPlan{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}
	if filter.MaterialType != "" {
		query = query.Where("material_type = ?", string(filter.MaterialType))
	}
	if filter.RiskLevel != "" {
		query = query.Where("risk_level = ?", string(filter.RiskLevel))
	}
	// an amount filter keeps plans that can accept that amount
	if filter.MinAmount != nil {
		query = query.Where("max_amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("min_amount <= ?", *filter.MaxAmount)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvestmentPlan
	err := query.
		Order("is_featured DESC").
		Order("is_popular DESC").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return toPlanEntities(rows), total, nil
}

func (r *InvestmentPlanRepository) ListActive(ctx context.Context) ([]*entities.InvestmentPlan, error) {
	var rows []models.InvestmentPlan
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Order("is_featured DESC").
		Order("is_popular DESC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPlanEntities(rows), nil
}

func (r *InvestmentPlanRepository) ListByRisk(ctx context.Context, risk entities.RiskLevel) ([]*entities.InvestmentPlan, error) {
	var rows []models.InvestmentPlan
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("risk_level = ? AND is_active = ?", string(risk), true).
		Order("daily_interest DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPlanEntities(rows), nil
}

func (r *InvestmentPlanRepository) ListFeatured(ctx context.Context, limit int) ([]*entities.InvestmentPlan, error) {
	var rows []models.InvestmentPlan
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("is_featured = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPlanEntities(rows), nil
}

// IncrementPerformance bumps the counters in a single UPDATE so concurrent
// investments never lose an increment.
func (r *InvestmentPlanRepository) IncrementPerformance(ctx context.Context, id uuid.UUID, amount float64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.InvestmentPlan{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_investors": gorm.Expr("total_investors + ?", 1),
			"total_invested":  gorm.Expr("total_invested + ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toPlanEntities(rows []models.InvestmentPlan) []*entities.InvestmentPlan {
	plans := make([]*entities.InvestmentPlan, 0, len(rows))
	for i := range rows {
		plans = append(plans, toPlanEntity(&rows[i]))
	}
	return plans
}

func toPlanModel(p *entities.InvestmentPlan) *models.InvestmentPlan {
	features := make([]models.PlanFeature, 0, len(p.Features))
	for _, f := range p.Features {
		features = append(features, models.PlanFeature(f))
	}
	returns := make([]models.HistoricalReturn, 0, len(p.HistoricalReturns))
	for _, h := range p.HistoricalReturns {
		returns = append(returns, models.HistoricalReturn(h))
	}

	return &models.InvestmentPlan{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		MaterialType:         string(p.MaterialType),
		MaterialSubtype:      null.NewString(p.MaterialSubtype, p.MaterialSubtype != ""),
		Category:             string(p.Category),
		RiskLevel:            string(p.RiskLevel),
		MinAmount:            p.MinAmount,
		MaxAmount:            p.MaxAmount,
		DailyInterest:        p.DailyInterest,
		TotalInterest:        p.TotalInterest,
		Duration:             p.Duration,
		DurationUnit:         string(p.DurationUnit),
		CompoundingEnabled:   p.CompoundingEnabled,
		CompoundingFrequency: string(p.CompoundingFrequency),
		CurrentPrice:         p.CurrentPrice,
		PriceUnit:            p.PriceUnit,
		PriceChange24h:       p.PriceChange24h,
		MarketCap:            null.Float64FromPtr(p.MarketCap),
		DailyVolume:          null.Float64FromPtr(p.DailyVolume),
		Features:             features,
		IsActive:             p.IsActive,
		IsPopular:            p.IsPopular,
		IsFeatured:           p.IsFeatured,
		RequiresKYC:          p.RequiresKYC,
		KYCLevelRequired:     string(p.KYCLevelRequired),
		AvailableCountries:   pq.StringArray(p.AvailableCountries),
		EarlyTerminationFee:  p.EarlyTerminationFee,
		AutoRenewEnabled:     p.AutoRenewEnabled,
		TotalInvestors:       p.TotalInvestors,
		TotalInvested:        p.TotalInvested,
		SuccessRate:          p.SuccessRate,
		HistoricalReturns:    returns,
		TermsConditions:      null.NewString(p.TermsConditions, p.TermsConditions != ""),
		RiskDisclaimer:       null.NewString(p.RiskDisclaimer, p.RiskDisclaimer != ""),
		RegulatoryStatus:     string(p.RegulatoryStatus),
		LicenseNumber:        null.NewString(p.LicenseNumber, p.LicenseNumber != ""),
		Images:               models.PlanImages(p.Images),
		Color:                models.ColorScheme{Primary: p.ColorScheme.Primary, Secondary: p.ColorScheme.Secondary},
		CreatedBy:            p.CreatedBy,
		LastUpdatedBy:        p.LastUpdatedBy,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func toPlanEntity(m *models.InvestmentPlan) *entities.InvestmentPlan {
	features := make([]entities.PlanFeature, 0, len(m.Features))
	for _, f := range m.Features {
		features = append(features, entities.PlanFeature(f))
	}
	returns := make([]entities.HistoricalReturn, 0, len(m.HistoricalReturns))
	for _, h := range m.HistoricalReturns {
		returns = append(returns, entities.HistoricalReturn(h))
	}
	countries := []string(m.AvailableCountries)
	if countries == nil {
		countries = []string{}
	}

	return &entities.InvestmentPlan{
		ID:                   m.ID,
		Name:                 m.Name,
		Description:          m.Description,
		MaterialType:         entities.MaterialType(m.MaterialType),
		MaterialSubtype:      m.MaterialSubtype.String,
		Category:             entities.PlanCategory(m.Category),
		RiskLevel:            entities.RiskLevel(m.RiskLevel),
		MinAmount:            m.MinAmount,
		MaxAmount:            m.MaxAmount,
		DailyInterest:        m.DailyInterest,
		TotalInterest:        m.TotalInterest,
		Duration:             m.Duration,
		DurationUnit:         entities.DurationUnit(m.DurationUnit),
		CompoundingEnabled:   m.CompoundingEnabled,
		CompoundingFrequency: entities.CompoundingFrequency(m.CompoundingFrequency),
		CurrentPrice:         m.CurrentPrice,
		PriceUnit:            m.PriceUnit,
		PriceChange24h:       m.PriceChange24h,
		MarketCap:            m.MarketCap.Ptr(),
		DailyVolume:          m.DailyVolume.Ptr(),
		Features:             features,
		IsActive:             m.IsActive,
		IsPopular:            m.IsPopular,
		IsFeatured:           m.IsFeatured,
		RequiresKYC:          m.RequiresKYC,
		KYCLevelRequired:     entities.KYCLevel(m.KYCLevelRequired),
		AvailableCountries:   countries,
		EarlyTerminationFee:  m.EarlyTerminationFee,
		AutoRenewEnabled:     m.AutoRenewEnabled,
		TotalInvestors:       m.TotalInvestors,
		TotalInvested:        m.TotalInvested,
		SuccessRate:          m.SuccessRate,
		HistoricalReturns:    returns,
		TermsConditions:      m.TermsConditions.String,
		RiskDisclaimer:       m.RiskDisclaimer.String,
		RegulatoryStatus:     entities.RegulatoryStatus(m.RegulatoryStatus),
		LicenseNumber:        m.LicenseNumber.String,
		Images:               entities.PlanImages(m.Images),
		ColorScheme:          entities.ColorScheme{Primary: m.Color.Primary, Secondary: m.Color.Secondary},
		CreatedBy:            m.CreatedBy,
		LastUpdatedBy:        m.LastUpdatedBy,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
