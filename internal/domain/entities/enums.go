package entities

// UserRole represents user roles
type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleAdmin     UserRole = "admin"
	UserRoleModerator UserRole = "moderator"
	UserRoleSupport   UserRole = "support"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin, UserRoleModerator, UserRoleSupport:
		return true
	}
	return false
}

// KYCLevel represents the depth of identity verification
type KYCLevel string

const (
	KYCLevelNone     KYCLevel = "none"
	KYCLevelBasic    KYCLevel = "basic"
	KYCLevelEnhanced KYCLevel = "enhanced"
	KYCLevelFull     KYCLevel = "full"
)

func (l KYCLevel) IsValid() bool {
	switch l {
	case KYCLevelNone, KYCLevelBasic, KYCLevelEnhanced, KYCLevelFull:
		return true
	}
	return false
}

// Rank orders KYC levels so requirements can be compared
func (l KYCLevel) Rank() int {
	switch l {
	case KYCLevelBasic:
		return 1
	case KYCLevelEnhanced:
		return 2
	case KYCLevelFull:
		return 3
	}
	return 0
}

// IDType is the kind of identity document submitted for KYC
type IDType string

const (
	IDTypeNationalID    IDType = "national_id"
	IDTypePassport      IDType = "passport"
	IDTypeDriverLicense IDType = "driver_license"
	IDTypeVoterID       IDType = "voter_id"
)

func (t IDType) IsValid() bool {
	switch t {
	case IDTypeNationalID, IDTypePassport, IDTypeDriverLicense, IDTypeVoterID:
		return true
	}
	return false
}

// RiskLevel is shared by plan risk classification and user risk tolerance
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskVeryLow, RiskLow, RiskMedium, RiskHigh, RiskVeryHigh:
		return true
	}
	return false
}

// InvestmentStrategy is a user's declared investing style
type InvestmentStrategy string

const (
	StrategyConservative InvestmentStrategy = "conservative"
	StrategyBalanced     InvestmentStrategy = "balanced"
	StrategyGrowth       InvestmentStrategy = "growth"
	StrategyAggressive   InvestmentStrategy = "aggressive"
)

func (s InvestmentStrategy) IsValid() bool {
	switch s {
	case StrategyConservative, StrategyBalanced, StrategyGrowth, StrategyAggressive:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyNGN, CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyCAD, CurrencyAUD:
		return true
	}
	return false
}

type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageFrench     Language = "fr"
	LanguageSpanish    Language = "es"
	LanguagePortuguese Language = "pt"
	LanguageArabic     Language = "ar"
)

func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageFrench, LanguageSpanish, LanguagePortuguese, LanguageArabic:
		return true
	}
	return false
}

type MembershipTier string

const (
	TierStandard MembershipTier = "standard"
	TierPremium  MembershipTier = "premium"
	TierVIP      MembershipTier = "vip"
	TierElite    MembershipTier = "elite"
)

func (t MembershipTier) IsValid() bool {
	switch t {
	case TierStandard, TierPremium, TierVIP, TierElite:
		return true
	}
	return false
}

// DurationUnit is the unit a plan's duration is expressed in
type DurationUnit string

const (
	DurationDays   DurationUnit = "days"
	DurationMonths DurationUnit = "months"
	DurationYears  DurationUnit = "years"
)

func (u DurationUnit) IsValid() bool {
	switch u {
	case DurationDays, DurationMonths, DurationYears:
		return true
	}
	return false
}

// CompoundingFrequency is how often compound interest is applied
type CompoundingFrequency string

const (
	CompoundDaily   CompoundingFrequency = "daily"
	CompoundWeekly  CompoundingFrequency = "weekly"
	CompoundMonthly CompoundingFrequency = "monthly"
)

func (f CompoundingFrequency) IsValid() bool {
	switch f {
	case CompoundDaily, CompoundWeekly, CompoundMonthly:
		return true
	}
	return false
}

// PeriodsPerYear returns the compounding periods in one year
func (f CompoundingFrequency) PeriodsPerYear() float64 {
	switch f {
	case CompoundDaily:
		return 365
	case CompoundWeekly:
		return 52
	}
	return 12
}

// PlanCategory groups plans for browsing
type PlanCategory string

const (
	CategoryPreciousMetals   PlanCategory = "precious_metals"
	CategoryEnergy           PlanCategory = "energy"
	CategoryIndustrialMetals PlanCategory = "industrial_metals"
	CategoryAgriculture      PlanCategory = "agriculture"
	CategoryLivestock        PlanCategory = "livestock"
	CategoryTechnology       PlanCategory = "technology"
	CategoryRealEstate       PlanCategory = "real_estate"
	CategoryCrypto           PlanCategory = "crypto"
	CategorySpecialty        PlanCategory = "specialty"
)

func (c PlanCategory) IsValid() bool {
	switch c {
	case CategoryPreciousMetals, CategoryEnergy, CategoryIndustrialMetals, CategoryAgriculture,
		CategoryLivestock, CategoryTechnology, CategoryRealEstate, CategoryCrypto, CategorySpecialty:
		return true
	}
	return false
}

type RegulatoryStatus string

const (
	RegulatoryApproved    RegulatoryStatus = "approved"
	RegulatoryPending     RegulatoryStatus = "pending"
	RegulatoryRestricted  RegulatoryStatus = "restricted"
	RegulatoryUnregulated RegulatoryStatus = "unregulated"
)

func (s RegulatoryStatus) IsValid() bool {
	switch s {
	case RegulatoryApproved, RegulatoryPending, RegulatoryRestricted, RegulatoryUnregulated:
		return true
	}
	return false
}

// RateReconciliationPolicy decides what happens when total_interest drifts
// away from daily_interest × duration_days.
type RateReconciliationPolicy string

const (
	// ReconcileOverwrite replaces total_interest with the implied value
	ReconcileOverwrite RateReconciliationPolicy = "overwrite"
	// ReconcilePreserve keeps an explicitly set total_interest
	ReconcilePreserve RateReconciliationPolicy = "preserve"
	// ReconcileReject refuses the change as an invariant violation
	ReconcileReject RateReconciliationPolicy = "reject"
)

func (p RateReconciliationPolicy) IsValid() bool {
	switch p {
	case ReconcileOverwrite, ReconcilePreserve, ReconcileReject:
		return true
	}
	return false
}
