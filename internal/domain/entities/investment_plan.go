package entities

import (
	"math"
	"time"

	"github.com/google/uuid"

	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/pkg/utils"
)

const (
	MinPlanAmount    = 1000
	MinTotalInterest = 5
	MaxTotalInterest = 500

	// RateTolerance is how far total_interest may drift from daily × days before reconciliation
	RateTolerance = 1.0

	DefaultPriceUnit           = "USD"
	DefaultEarlyTerminationFee = 10
	DefaultSuccessRate         = 95
	FeaturedPlansLimit         = 6
)

// DefaultAvailableCountries are the markets a plan is offered in unless restricted
var DefaultAvailableCountries = []string{"NG", "US", "UK", "CA", "AU", "ZA"}

// PlanFeature is a selling point shown on the plan card
type PlanFeature struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=300"`
	Icon        string `json:"icon,omitempty" validate:"max=50"`
}

// HistoricalReturn is the realised return of one past year
type HistoricalReturn struct {
	Year             int     `json:"year" validate:"gte=1900,lte=2200"`
	ReturnPercentage float64 `json:"returnPercentage"`
}

type PlanImages struct {
	Main    string   `json:"main,omitempty"`
	Gallery []string `json:"gallery,omitempty"`
	Chart   string   `json:"chart,omitempty"`
}

type ColorScheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// DefaultColorScheme is the palette a plan gets when none is chosen
func DefaultColorScheme() ColorScheme {
	return ColorScheme{Primary: "#fbbf24", Secondary: "#10b981"}
}

// InvestmentPlan represents an investment product
type InvestmentPlan struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name" validate:"required,max=100"`
	Description     string       `json:"description" validate:"required,max=500"`
	MaterialType    MaterialType `json:"materialType" validate:"required,enum"`
	MaterialSubtype string       `json:"materialSubtype,omitempty" validate:"max=100"`
	Category        PlanCategory `json:"category" validate:"required,enum"`
	RiskLevel       RiskLevel    `json:"riskLevel" validate:"required,enum"`

	MinAmount float64 `json:"minAmount" validate:"gte=1000"`
	MaxAmount float64 `json:"maxAmount" validate:"gt=0"`

	DailyInterest        float64              `json:"dailyInterest" validate:"gte=0.1,lte=20"`
	TotalInterest        float64              `json:"totalInterest"`
	Duration             int                  `json:"duration" validate:"gte=1,lte=3650"`
	DurationUnit         DurationUnit         `json:"durationUnit" validate:"enum"`
	CompoundingEnabled   bool                 `json:"compoundingEnabled"`
	CompoundingFrequency CompoundingFrequency `json:"compoundingFrequency" validate:"enum"`

	CurrentPrice   float64  `json:"currentPrice" validate:"gte=0"`
	PriceUnit      string   `json:"priceUnit"`
	PriceChange24h float64  `json:"priceChange24h"`
	MarketCap      *float64 `json:"marketCap,omitempty"`
	DailyVolume    *float64 `json:"dailyVolume,omitempty"`

	Features           []PlanFeature `json:"features" validate:"dive"`
	IsActive           bool          `json:"isActive"`
	IsPopular          bool          `json:"isPopular"`
	IsFeatured         bool          `json:"isFeatured"`
	RequiresKYC        bool          `json:"requiresKyc"`
	KYCLevelRequired   KYCLevel      `json:"kycLevelRequired" validate:"enum"`
	AvailableCountries []string      `json:"availableCountries" validate:"dive,len=2"`

	EarlyTerminationFee float64 `json:"earlyTerminationFee" validate:"gte=0,lte=50"`
	AutoRenewEnabled    bool    `json:"autoRenewEnabled"`

	TotalInvestors    int64              `json:"totalInvestors"`
	TotalInvested     float64            `json:"totalInvested"`
	SuccessRate       float64            `json:"successRate" validate:"gte=0,lte=100"`
	HistoricalReturns []HistoricalReturn `json:"historicalReturns" validate:"dive"`

	TermsConditions  string           `json:"termsConditions,omitempty"`
	RiskDisclaimer   string           `json:"riskDisclaimer,omitempty"`
	RegulatoryStatus RegulatoryStatus `json:"regulatoryStatus" validate:"enum"`
	LicenseNumber    string           `json:"licenseNumber,omitempty"`

	Images      PlanImages  `json:"images"`
	ColorScheme ColorScheme `json:"colorScheme"`

	CreatedBy     uuid.UUID  `json:"createdBy"`
	LastUpdatedBy *uuid.UUID `json:"lastUpdatedBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// DurationDays converts the plan duration to days
func (p *InvestmentPlan) DurationDays() int {
	switch p.DurationUnit {
	case DurationMonths:
		return p.Duration * 30
	case DurationYears:
		return p.Duration * 365
	}
	return p.Duration
}

// ProjectReturn computes the payout for principal at the end of the term.
// Simple plans accrue daily_interest per day; compounding plans compound
// total_interest at the configured frequency.
func (p *InvestmentPlan) ProjectReturn(principal float64) float64 {
	days := float64(p.DurationDays())
	if p.CompoundingEnabled {
		n := p.CompoundingFrequency.PeriodsPerYear()
		rate := p.TotalInterest / 100
		return principal * math.Pow(1+rate/n, n*(days/365))
	}
	return principal + principal*(p.DailyInterest/100)*days
}

// ExpectedReturn projects the payout on the minimum investment
func (p *InvestmentPlan) ExpectedReturn() float64 {
	return p.ProjectReturn(p.MinAmount)
}

// ImpliedTotalInterest is daily_interest accrued over the whole term
func (p *InvestmentPlan) ImpliedTotalInterest() float64 {
	return p.DailyInterest * float64(p.DurationDays())
}

// RatesDiverge reports whether total_interest is off by more than the tolerance
func (p *InvestmentPlan) RatesDiverge() bool {
	return math.Abs(p.ImpliedTotalInterest()-p.TotalInterest) > RateTolerance
}

// ReconcileRates brings total_interest in line with daily_interest × duration
// according to policy. It reports whether total_interest was rewritten.
func (p *InvestmentPlan) ReconcileRates(policy RateReconciliationPolicy) (bool, error) {
	if !p.RatesDiverge() {
		return false, nil
	}
	switch policy {
	case ReconcilePreserve:
		return false, nil
	case ReconcileReject:
		return false, domainerrors.InvariantViolation(
			"total_interest %.2f diverges from daily_interest × duration_days = %.2f",
			p.TotalInterest, p.ImpliedTotalInterest())
	}
	p.TotalInterest = utils.RoundMoney(p.ImpliedTotalInterest())
	return true, nil
}

// Validate reports every field constraint the plan breaks, then the cross-field invariants.
// A total_interest equal to the reconciled daily × duration value is always accepted.
func (p *InvestmentPlan) Validate() error {
	verr := ValidateStruct(p)
	if p.TotalInterest < MinTotalInterest ||
		(p.TotalInterest > MaxTotalInterest && p.TotalInterest != utils.RoundMoney(p.ImpliedTotalInterest())) {
		verr.Add("totalInterest", "must be between 5 and 500")
	}
	if p.CreatedBy == uuid.Nil {
		verr.Add("createdBy", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	if p.MaxAmount <= p.MinAmount {
		return domainerrors.InvariantViolation("max_amount %.2f must be greater than min_amount %.2f", p.MaxAmount, p.MinAmount)
	}
	return nil
}

// AcceptsAmount reports whether amount is inside the plan's investment bounds
func (p *InvestmentPlan) AcceptsAmount(amount float64) bool {
	return amount >= p.MinAmount && amount <= p.MaxAmount
}

// PlanView is the serialized view of a plan, including derived fields
type PlanView struct {
	*InvestmentPlan
	DurationDays   int     `json:"durationDays"`
	ExpectedReturn float64 `json:"expectedReturn"`
}

func (p *InvestmentPlan) View() PlanView {
	view := *p
	view.TotalInvested = utils.RoundMoney(p.TotalInvested)
	return PlanView{
		InvestmentPlan: &view,
		DurationDays:   p.DurationDays(),
		ExpectedReturn: utils.RoundMoney(p.ExpectedReturn()),
	}
}

// PlanFilter narrows the plan listing
type PlanFilter struct {
	Category     PlanCategory
	MaterialType MaterialType
	RiskLevel    RiskLevel
	ActiveOnly   bool
	MinAmount    *float64
	MaxAmount    *float64
}

// CreatePlanInput represents input for creating a plan
type CreatePlanInput struct {
	Name                 string               `json:"name" validate:"required,max=100"`
	Description          string               `json:"description" validate:"required,max=500"`
	MaterialType         MaterialType         `json:"materialType" validate:"required,enum"`
	MaterialSubtype      string               `json:"materialSubtype,omitempty"`
	Category             PlanCategory         `json:"category,omitempty" validate:"omitempty,enum"`
	RiskLevel            RiskLevel            `json:"riskLevel" validate:"required,enum"`
	MinAmount            float64              `json:"minAmount"`
	MaxAmount            float64              `json:"maxAmount"`
	DailyInterest        float64              `json:"dailyInterest"`
	TotalInterest        float64              `json:"totalInterest"`
	Duration             int                  `json:"duration"`
	DurationUnit         DurationUnit         `json:"durationUnit,omitempty" validate:"omitempty,enum"`
	CompoundingEnabled   bool                 `json:"compoundingEnabled"`
	CompoundingFrequency CompoundingFrequency `json:"compoundingFrequency,omitempty" validate:"omitempty,enum"`
	CurrentPrice         float64              `json:"currentPrice"`
	PriceUnit            string               `json:"priceUnit,omitempty"`
	PriceChange24h       float64              `json:"priceChange24h"`
	MarketCap            *float64             `json:"marketCap,omitempty"`
	DailyVolume          *float64             `json:"dailyVolume,omitempty"`
	Features             []PlanFeature        `json:"features,omitempty"`
	IsActive             *bool                `json:"isActive,omitempty"`
	IsPopular            bool                 `json:"isPopular"`
	IsFeatured           bool                 `json:"isFeatured"`
	RequiresKYC          bool                 `json:"requiresKyc"`
	KYCLevelRequired     KYCLevel             `json:"kycLevelRequired,omitempty" validate:"omitempty,enum"`
	AvailableCountries   []string             `json:"availableCountries,omitempty"`
	EarlyTerminationFee  *float64             `json:"earlyTerminationFee,omitempty"`
	AutoRenewEnabled     *bool                `json:"autoRenewEnabled,omitempty"`
	SuccessRate          *float64             `json:"successRate,omitempty"`
	HistoricalReturns    []HistoricalReturn   `json:"historicalReturns,omitempty"`
	TermsConditions      string               `json:"termsConditions,omitempty"`
	RiskDisclaimer       string               `json:"riskDisclaimer,omitempty"`
	RegulatoryStatus     RegulatoryStatus     `json:"regulatoryStatus,omitempty" validate:"omitempty,enum"`
	LicenseNumber        string               `json:"licenseNumber,omitempty"`
	Images               *PlanImages          `json:"images,omitempty"`
	ColorScheme          *ColorScheme         `json:"colorScheme,omitempty"`
}

// NewInvestmentPlan builds a plan from input with every default applied.
// The result still needs reconciliation and validation before persistence.
func NewInvestmentPlan(input CreatePlanInput, createdBy uuid.UUID) *InvestmentPlan {
	p := &InvestmentPlan{
		Name:                 input.Name,
		Description:          input.Description,
		MaterialType:         input.MaterialType,
		MaterialSubtype:      input.MaterialSubtype,
		Category:             input.Category,
		RiskLevel:            input.RiskLevel,
		MinAmount:            input.MinAmount,
		MaxAmount:            input.MaxAmount,
		DailyInterest:        input.DailyInterest,
		TotalInterest:        input.TotalInterest,
		Duration:             input.Duration,
		DurationUnit:         input.DurationUnit,
		CompoundingEnabled:   input.CompoundingEnabled,
		CompoundingFrequency: input.CompoundingFrequency,
		CurrentPrice:         input.CurrentPrice,
		PriceUnit:            input.PriceUnit,
		PriceChange24h:       input.PriceChange24h,
		MarketCap:            input.MarketCap,
		DailyVolume:          input.DailyVolume,
		Features:             input.Features,
		IsActive:             true,
		IsPopular:            input.IsPopular,
		IsFeatured:           input.IsFeatured,
		RequiresKYC:          input.RequiresKYC,
		KYCLevelRequired:     input.KYCLevelRequired,
		AvailableCountries:   input.AvailableCountries,
		EarlyTerminationFee:  DefaultEarlyTerminationFee,
		AutoRenewEnabled:     true,
		SuccessRate:          DefaultSuccessRate,
		HistoricalReturns:    input.HistoricalReturns,
		TermsConditions:      input.TermsConditions,
		RiskDisclaimer:       input.RiskDisclaimer,
		RegulatoryStatus:     input.RegulatoryStatus,
		LicenseNumber:        input.LicenseNumber,
		ColorScheme:          DefaultColorScheme(),
		CreatedBy:            createdBy,
	}

	if p.Category == "" {
		p.Category = p.MaterialType.DefaultCategory()
	}
	if p.DurationUnit == "" {
		p.DurationUnit = DurationDays
	}
	if p.CompoundingFrequency == "" {
		p.CompoundingFrequency = CompoundDaily
	}
	if p.PriceUnit == "" {
		p.PriceUnit = DefaultPriceUnit
	}
	if p.KYCLevelRequired == "" {
		p.KYCLevelRequired = KYCLevelBasic
	}
	if p.RegulatoryStatus == "" {
		p.RegulatoryStatus = RegulatoryApproved
	}
	if len(p.AvailableCountries) == 0 {
		p.AvailableCountries = append([]string(nil), DefaultAvailableCountries...)
	}
	if p.Features == nil {
		p.Features = []PlanFeature{}
	}
	if p.HistoricalReturns == nil {
		p.HistoricalReturns = []HistoricalReturn{}
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	if input.EarlyTerminationFee != nil {
		p.EarlyTerminationFee = *input.EarlyTerminationFee
	}
	if input.AutoRenewEnabled != nil {
		p.AutoRenewEnabled = *input.AutoRenewEnabled
	}
	if input.SuccessRate != nil {
		p.SuccessRate = *input.SuccessRate
	}
	if input.Images != nil {
		p.Images = *input.Images
	}
	if input.ColorScheme != nil {
		p.ColorScheme = *input.ColorScheme
	}
	return p
}

// UpdatePlanInput is a partial update; nil fields stay unchanged
type UpdatePlanInput struct {
	Name                 *string               `json:"name,omitempty"`
	Description          *string               `json:"description,omitempty"`
	MaterialSubtype      *string               `json:"materialSubtype,omitempty"`
	Category             *PlanCategory         `json:"category,omitempty"`
	RiskLevel            *RiskLevel            `json:"riskLevel,omitempty"`
	MinAmount            *float64              `json:"minAmount,omitempty"`
	MaxAmount            *float64              `json:"maxAmount,omitempty"`
	DailyInterest        *float64              `json:"dailyInterest,omitempty"`
	TotalInterest        *float64              `json:"totalInterest,omitempty"`
	Duration             *int                  `json:"duration,omitempty"`
	DurationUnit         *DurationUnit         `json:"durationUnit,omitempty"`
	CompoundingEnabled   *bool                 `json:"compoundingEnabled,omitempty"`
	CompoundingFrequency *CompoundingFrequency `json:"compoundingFrequency,omitempty"`
	CurrentPrice         *float64              `json:"currentPrice,omitempty"`
	PriceChange24h       *float64              `json:"priceChange24h,omitempty"`
	MarketCap            *float64              `json:"marketCap,omitempty"`
	DailyVolume          *float64              `json:"dailyVolume,omitempty"`
	Features             []PlanFeature         `json:"features,omitempty"`
	IsActive             *bool                 `json:"isActive,omitempty"`
	IsPopular            *bool                 `json:"isPopular,omitempty"`
	IsFeatured           *bool                 `json:"isFeatured,omitempty"`
	RequiresKYC          *bool                 `json:"requiresKyc,omitempty"`
	KYCLevelRequired     *KYCLevel             `json:"kycLevelRequired,omitempty"`
	AvailableCountries   []string              `json:"availableCountries,omitempty"`
	EarlyTerminationFee  *float64              `json:"earlyTerminationFee,omitempty"`
	AutoRenewEnabled     *bool                 `json:"autoRenewEnabled,omitempty"`
	SuccessRate          *float64              `json:"successRate,omitempty"`
	HistoricalReturns    []HistoricalReturn    `json:"historicalReturns,omitempty"`
	TermsConditions      *string               `json:"termsConditions,omitempty"`
	RiskDisclaimer       *string               `json:"riskDisclaimer,omitempty"`
	RegulatoryStatus     *RegulatoryStatus     `json:"regulatoryStatus,omitempty"`
	LicenseNumber        *string               `json:"licenseNumber,omitempty"`
	Images               *PlanImages           `json:"images,omitempty"`
	ColorScheme          *ColorScheme          `json:"colorScheme,omitempty"`
}

// Apply merges the update into the plan and reports whether a rate input
// (daily_interest, duration or duration_unit) changed.
func (in UpdatePlanInput) Apply(p *InvestmentPlan) (ratesChanged bool) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.MaterialSubtype != nil {
		p.MaterialSubtype = *in.MaterialSubtype
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.RiskLevel != nil {
		p.RiskLevel = *in.RiskLevel
	}
	if in.MinAmount != nil {
		p.MinAmount = *in.MinAmount
	}
	if in.MaxAmount != nil {
		p.MaxAmount = *in.MaxAmount
	}
	if in.DailyInterest != nil && *in.DailyInterest != p.DailyInterest {
		p.DailyInterest = *in.DailyInterest
		ratesChanged = true
	}
	if in.TotalInterest != nil {
		p.TotalInterest = *in.TotalInterest
	}
	if in.Duration != nil && *in.Duration != p.Duration {
		p.Duration = *in.Duration
		ratesChanged = true
	}
	if in.DurationUnit != nil && *in.DurationUnit != p.DurationUnit {
		p.DurationUnit = *in.DurationUnit
		ratesChanged = true
	}
	if in.CompoundingEnabled != nil {
		p.CompoundingEnabled = *in.CompoundingEnabled
	}
	if in.CompoundingFrequency != nil {
		p.CompoundingFrequency = *in.CompoundingFrequency
	}
	if in.CurrentPrice != nil {
		p.CurrentPrice = *in.CurrentPrice
	}
	if in.PriceChange24h != nil {
		p.PriceChange24h = *in.PriceChange24h
	}
	if in.MarketCap != nil {
		p.MarketCap = in.MarketCap
	}
	if in.DailyVolume != nil {
		p.DailyVolume = in.DailyVolume
	}
	if in.Features != nil {
		p.Features = in.Features
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsPopular != nil {
		p.IsPopular = *in.IsPopular
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.RequiresKYC != nil {
		p.RequiresKYC = *in.RequiresKYC
	}
	if in.KYCLevelRequired != nil {
		p.KYCLevelRequired = *in.KYCLevelRequired
	}
	if in.AvailableCountries != nil {
		p.AvailableCountries = in.AvailableCountries
	}
	if in.EarlyTerminationFee != nil {
		p.EarlyTerminationFee = *in.EarlyTerminationFee
	}
	if in.AutoRenewEnabled != nil {
		p.AutoRenewEnabled = *in.AutoRenewEnabled
	}
	if in.SuccessRate != nil {
		p.SuccessRate = *in.SuccessRate
	}
	if in.HistoricalReturns != nil {
		p.HistoricalReturns = in.HistoricalReturns
	}
	if in.TermsConditions != nil {
		p.TermsConditions = *in.TermsConditions
	}
	if in.RiskDisclaimer != nil {
		p.RiskDisclaimer = *in.RiskDisclaimer
	}
	if in.RegulatoryStatus != nil {
		p.RegulatoryStatus = *in.RegulatoryStatus
	}
	if in.LicenseNumber != nil {
		p.LicenseNumber = *in.LicenseNumber
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.ColorScheme != nil {
		p.ColorScheme = *in.ColorScheme
	}
	return ratesChanged
}

// PerformanceInput records one new investment into a plan. InvestorID is
// required when the plan requires KYC.
type PerformanceInput struct {
	Amount     float64    `json:"amount" validate:"gt=0"`
	InvestorID *uuid.UUID `json:"investorId,omitempty"`
}
