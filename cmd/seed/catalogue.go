package main

import (
	"rawwealthy.backend/internal/domain/entities"
	"rawwealthy.backend/pkg/utils"
)

type planSeed struct {
	name, description string
	material          entities.MaterialType
	subtype           string
	category          entities.PlanCategory
	risk              entities.RiskLevel
	min, max          float64
	daily             float64
	days              int
	price             float64
	features          []entities.PlanFeature
	popular, featured bool
	kyc               entities.KYCLevel
}

func feature(title, description, icon string) entities.PlanFeature {
	return entities.PlanFeature{Title: title, Description: description, Icon: icon}
}

// catalogue is the launch set of plans. Prices of zero mean the asset has no
// single quoted price.
var catalogue = []planSeed{
	{
		name: "Gold Premium", description: "Invest in physical gold bullion with secure storage and insurance",
		material: entities.MaterialGold, subtype: "bullion", category: entities.CategoryPreciousMetals, risk: entities.RiskLow,
		min: 50000, max: 5000000, daily: 2.8, days: 60, price: 1950,
		features: []entities.PlanFeature{
			feature("Secure Storage", "Fully insured vault storage", "shield"),
			feature("Physical Gold", "Actual gold bullion ownership", "gem"),
			feature("Liquidity", "Easy to buy and sell", "trending-up"),
		},
		popular: true, featured: true,
	},
	{
		name: "Silver Growth", description: "High-potential silver investment with industrial demand growth",
		material: entities.MaterialSilver, subtype: "bullion", category: entities.CategoryPreciousMetals, risk: entities.RiskMedium,
		min: 25000, max: 2000000, daily: 3.2, days: 60, price: 23.5,
		features: []entities.PlanFeature{
			feature("Industrial Demand", "Growing industrial applications", "factory"),
			feature("Affordable Entry", "Lower minimum investment", "dollar-sign"),
		},
	},
	{
		name: "Platinum Elite", description: "Exclusive platinum investment for automotive and jewelry industries",
		material: entities.MaterialPlatinum, category: entities.CategoryPreciousMetals, risk: entities.RiskMedium,
		min: 100000, max: 10000000, daily: 3.0, days: 60, price: 950,
		features: []entities.PlanFeature{
			feature("Rare Metal", "30x rarer than gold", "award"),
			feature("Industrial Use", "Automotive catalyst demand", "car"),
		},
		featured: true,
	},
	{
		name: "Palladium Tech", description: "Palladium for electronics and automotive catalytic converters",
		material: entities.MaterialPalladium, category: entities.CategoryPreciousMetals, risk: entities.RiskHigh,
		min: 75000, max: 5000000, daily: 3.5, days: 60, price: 1400,
	},
	{
		name: "Rhodium Ultra", description: "Ultra-rare rhodium for high-temperature applications",
		material: entities.MaterialRhodium, category: entities.CategoryPreciousMetals, risk: entities.RiskVeryHigh,
		min: 200000, max: 20000000, daily: 4.0, days: 60, price: 10000,
		kyc: entities.KYCLevelEnhanced,
	},
	{
		name: "Crude Oil Pro", description: "West Texas Intermediate crude oil futures investment",
		material: entities.MaterialCrudeOil, subtype: "wti", category: entities.CategoryEnergy, risk: entities.RiskHigh,
		min: 100000, max: 15000000, daily: 3.8, days: 90, price: 75,
		features: []entities.PlanFeature{
			feature("Global Demand", "World's most traded commodity", "globe"),
			feature("Geopolitical", "Affected by global events", "map"),
		},
		popular: true,
	},
	{
		name: "Natural Gas", description: "Clean energy transition with natural gas investments",
		material: entities.MaterialNaturalGas, category: entities.CategoryEnergy, risk: entities.RiskMedium,
		min: 50000, max: 8000000, daily: 3.2, days: 90, price: 2.8,
	},
	{
		name: "Brent Oil", description: "International Brent crude oil benchmark",
		material: entities.MaterialBrentOil, category: entities.CategoryEnergy, risk: entities.RiskHigh,
		min: 120000, max: 18000000, daily: 3.6, days: 90, price: 78,
	},
	{
		name: "Copper Industrial", description: "Copper for electrical wiring and construction",
		material: entities.MaterialCopper, category: entities.CategoryIndustrialMetals, risk: entities.RiskMedium,
		min: 30000, max: 5000000, daily: 2.9, days: 90, price: 3.8,
		features: []entities.PlanFeature{
			feature("Electrical Use", "Best electrical conductor", "zap"),
			feature("Renewables", "Wind and solar applications", "battery"),
		},
		popular: true,
	},
	{
		name: "Aluminum Light", description: "Lightweight aluminum for automotive and aerospace",
		material: entities.MaterialAluminum, category: entities.CategoryIndustrialMetals, risk: entities.RiskMedium,
		min: 25000, max: 4000000, daily: 2.7, days: 90, price: 2.2,
	},
	{
		name: "Nickel Stainless", description: "Nickel for stainless steel and batteries",
		material: entities.MaterialNickel, category: entities.CategoryIndustrialMetals, risk: entities.RiskHigh,
		min: 40000, max: 6000000, daily: 3.3, days: 90, price: 8.5,
	},
	{
		name: "Cocoa Premium", description: "Premium cocoa beans for chocolate production",
		material: entities.MaterialCocoa, category: entities.CategoryAgriculture, risk: entities.RiskMedium,
		min: 15000, max: 2000000, daily: 3.1, days: 120, price: 3200,
		features: []entities.PlanFeature{
			feature("West Africa", "Ghana and Ivory Coast production", "map-pin"),
			feature("Seasonal", "Weather-dependent harvests", "cloud-rain"),
		},
		popular: true,
	},
	{
		name: "Coffee Arabica", description: "High-quality Arabica coffee beans",
		material: entities.MaterialCoffee, subtype: "arabica", category: entities.CategoryAgriculture, risk: entities.RiskMedium,
		min: 18000, max: 2500000, daily: 2.9, days: 120, price: 1.8,
	},
	{
		name: "Wheat Grain", description: "Wheat for bread and food production",
		material: entities.MaterialWheat, category: entities.CategoryAgriculture, risk: entities.RiskMedium,
		min: 10000, max: 1500000, daily: 2.4, days: 120, price: 6.5,
	},
	{
		name: "Cryptocurrency Bundle", description: "Diversified cryptocurrency portfolio (BTC, ETH, ADA, SOL)",
		material: entities.MaterialCryptocurrency, category: entities.CategoryCrypto, risk: entities.RiskVeryHigh,
		min: 20000, max: 10000000, daily: 4.5, days: 60, price: 45000,
		featured: true, kyc: entities.KYCLevelEnhanced,
	},
	{
		name: "Battery Metals", description: "Lithium, cobalt, and graphite for EV batteries",
		material: entities.MaterialBatteryMetals, category: entities.CategoryTechnology, risk: entities.RiskHigh,
		min: 60000, max: 9000000, daily: 3.8, days: 120,
	},
	{
		name: "Commercial Real Estate", description: "Prime commercial property investments",
		material: entities.MaterialRealEstate, subtype: "commercial", category: entities.CategoryRealEstate, risk: entities.RiskLow,
		min: 500000, max: 50000000, daily: 2.2, days: 180,
		kyc: entities.KYCLevelFull,
	},
	{
		name: "Water Rights", description: "Investment in water resources and rights",
		material: entities.MaterialWaterRights, category: entities.CategorySpecialty, risk: entities.RiskMedium,
		min: 150000, max: 25000000, daily: 2.5, days: 180,
		kyc: entities.KYCLevelBasic,
	},
	{
		name: "Orange Juice", description: "Frozen concentrated orange juice futures",
		material: entities.MaterialOrangeJuice, category: entities.CategoryAgriculture, risk: entities.RiskHigh,
		min: 20000, max: 3000000, daily: 3.2, days: 120, price: 1.8,
		popular: true,
	},
}

// input converts a catalogue row into the create payload. The total is
// derived from the daily rate so the row passes every reconciliation policy.
func (s planSeed) input() *entities.CreatePlanInput {
	total := utils.RoundMoney(s.daily * float64(s.days))
	return &entities.CreatePlanInput{
		Name:             s.name,
		Description:      s.description,
		MaterialType:     s.material,
		MaterialSubtype:  s.subtype,
		Category:         s.category,
		RiskLevel:        s.risk,
		MinAmount:        s.min,
		MaxAmount:        s.max,
		DailyInterest:    s.daily,
		TotalInterest:    total,
		Duration:         s.days,
		DurationUnit:     entities.DurationDays,
		CurrentPrice:     s.price,
		PriceUnit:        "USD",
		Features:         s.features,
		IsPopular:        s.popular,
		IsFeatured:       s.featured,
		RequiresKYC:      s.kyc != "" && s.kyc != entities.KYCLevelNone,
		KYCLevelRequired: s.kyc,
		HistoricalReturns: []entities.HistoricalReturn{
			{Year: 2022, ReturnPercentage: utils.RoundMoney(total * 0.8)},
			{Year: 2023, ReturnPercentage: utils.RoundMoney(total * 0.9)},
			{Year: 2024, ReturnPercentage: total},
		},
	}
}
