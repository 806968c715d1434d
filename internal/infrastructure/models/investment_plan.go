package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type InvestmentPlan struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name            string      `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description     string      `gorm:"type:varchar(500);not null"`
	MaterialType    string      `gorm:"type:varchar(32);not null;index:idx_plans_material_active,priority:1"`
	MaterialSubtype null.String `gorm:"type:varchar(100)"`
	Category        string      `gorm:"type:varchar(32);not null;index:idx_plans_category_risk,priority:1"`
	RiskLevel       string      `gorm:"type:varchar(20);not null;index:idx_plans_category_risk,priority:2"`

	MinAmount float64 `gorm:"type:numeric(20,2);not null;index:idx_plans_amounts,priority:1"`
	MaxAmount float64 `gorm:"type:numeric(20,2);not null;index:idx_plans_amounts,priority:2"`

	DailyInterest        float64 `gorm:"type:numeric(10,4);not null"`
	TotalInterest        float64 `gorm:"type:numeric(10,4);not null"`
	Duration             int     `gorm:"not null"`
	DurationUnit         string  `gorm:"type:varchar(10);not null"`
	CompoundingEnabled   bool    `gorm:"not null"`
	CompoundingFrequency string  `gorm:"type:varchar(10);not null"`

	CurrentPrice   float64      `gorm:"type:numeric(20,4);not null"`
	PriceUnit      string       `gorm:"type:varchar(10)"`
	PriceChange24h float64      `gorm:"column:price_change_24h;type:numeric(10,4)"`
	MarketCap      null.Float64 `gorm:"type:numeric(24,2)"`
	DailyVolume    null.Float64 `gorm:"type:numeric(24,2)"`

	Features           []PlanFeature  `gorm:"type:jsonb;serializer:json"`
	IsActive           bool           `gorm:"not null;index:idx_plans_material_active,priority:2;index:idx_plans_flags,priority:1"`
	IsPopular          bool           `gorm:"not null;index:idx_plans_flags,priority:2"`
	IsFeatured         bool           `gorm:"not null;index:idx_plans_flags,priority:3"`
	RequiresKYC        bool           `gorm:"not null"`
	KYCLevelRequired   string         `gorm:"type:varchar(20)"`
	AvailableCountries pq.StringArray `gorm:"type:text[]"`

	EarlyTerminationFee float64 `gorm:"type:numeric(5,2)"`
	AutoRenewEnabled    bool    `gorm:"not null"`

	TotalInvestors    int64              `gorm:"not null"`
	TotalInvested     float64            `gorm:"type:numeric(24,2);not null"`
	SuccessRate       float64            `gorm:"type:numeric(5,2)"`
	HistoricalReturns []HistoricalReturn `gorm:"type:jsonb;serializer:json"`

	TermsConditions  null.String `gorm:"type:text"`
	RiskDisclaimer   null.String `gorm:"type:text"`
	RegulatoryStatus string      `gorm:"type:varchar(20)"`
	LicenseNumber    null.String `gorm:"type:varchar(100)"`

	Images PlanImages  `gorm:"type:jsonb;serializer:json"`
	Color  ColorScheme `gorm:"embedded;embeddedPrefix:color_"`

	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null"`
	LastUpdatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

type PlanFeature struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type HistoricalReturn struct {
	Year             int     `json:"year"`
	ReturnPercentage float64 `json:"return_percentage"`
}

type PlanImages struct {
	Main    string   `json:"main,omitempty"`
	Gallery []string `json:"gallery,omitempty"`
	Chart   string   `json:"chart,omitempty"`
}

type ColorScheme struct {
	Primary   string `gorm:"type:varchar(16)"`
	Secondary string `gorm:"type:varchar(16)"`
}

func (InvestmentPlan) TableName() string {
	return "investment_plans"
}
