package entities

// MaterialType is the commodity or asset a plan is backed by
type MaterialType string

const (
	// Precious metals
	MaterialGold      MaterialType = "gold"
	MaterialSilver    MaterialType = "silver"
	MaterialPlatinum  MaterialType = "platinum"
	MaterialPalladium MaterialType = "palladium"
	MaterialRhodium   MaterialType = "rhodium"

	// Energy
	MaterialCrudeOil   MaterialType = "crude_oil"
	MaterialBrentOil   MaterialType = "brent_oil"
	MaterialNaturalGas MaterialType = "natural_gas"
	MaterialHeatingOil MaterialType = "heating_oil"
	MaterialGasoline   MaterialType = "gasoline"

	// Industrial metals
	MaterialCopper   MaterialType = "copper"
	MaterialAluminum MaterialType = "aluminum"
	MaterialZinc     MaterialType = "zinc"
	MaterialNickel   MaterialType = "nickel"
	MaterialLead     MaterialType = "lead"
	MaterialTin      MaterialType = "tin"
	MaterialIronOre  MaterialType = "iron_ore"

	// Agriculture
	MaterialCocoa       MaterialType = "cocoa"
	MaterialCoffee      MaterialType = "coffee"
	MaterialSugar       MaterialType = "sugar"
	MaterialWheat       MaterialType = "wheat"
	MaterialCorn        MaterialType = "corn"
	MaterialSoybeans    MaterialType = "soybeans"
	MaterialRice        MaterialType = "rice"
	MaterialCotton      MaterialType = "cotton"
	MaterialPalmOil     MaterialType = "palm_oil"
	MaterialRubber      MaterialType = "rubber"
	MaterialOrangeJuice MaterialType = "orange_juice"

	// Livestock
	MaterialLiveCattle   MaterialType = "live_cattle"
	MaterialLeanHogs     MaterialType = "lean_hogs"
	MaterialFeederCattle MaterialType = "feeder_cattle"

	// Technology and crypto
	MaterialCryptocurrency MaterialType = "cryptocurrency"
	MaterialBlockchain     MaterialType = "blockchain"
	MaterialTechMetals     MaterialType = "tech_metals"
	MaterialBatteryMetals  MaterialType = "battery_metals"

	// Real estate and infrastructure
	MaterialRealEstate  MaterialType = "real_estate"
	MaterialTimber      MaterialType = "timber"
	MaterialWaterRights MaterialType = "water_rights"
)

var materialCategories = map[MaterialType]PlanCategory{
	MaterialGold:      CategoryPreciousMetals,
	MaterialSilver:    CategoryPreciousMetals,
	MaterialPlatinum:  CategoryPreciousMetals,
	MaterialPalladium: CategoryPreciousMetals,
	MaterialRhodium:   CategoryPreciousMetals,

	MaterialCrudeOil:   CategoryEnergy,
	MaterialBrentOil:   CategoryEnergy,
	MaterialNaturalGas: CategoryEnergy,
	MaterialHeatingOil: CategoryEnergy,
	MaterialGasoline:   CategoryEnergy,

	MaterialCopper:   CategoryIndustrialMetals,
	MaterialAluminum: CategoryIndustrialMetals,
	MaterialZinc:     CategoryIndustrialMetals,
	MaterialNickel:   CategoryIndustrialMetals,
	MaterialLead:     CategoryIndustrialMetals,
	MaterialTin:      CategoryIndustrialMetals,
	MaterialIronOre:  CategoryIndustrialMetals,

	MaterialCocoa:       CategoryAgriculture,
	MaterialCoffee:      CategoryAgriculture,
	MaterialSugar:       CategoryAgriculture,
	MaterialWheat:       CategoryAgriculture,
	MaterialCorn:        CategoryAgriculture,
	MaterialSoybeans:    CategoryAgriculture,
	MaterialRice:        CategoryAgriculture,
	MaterialCotton:      CategoryAgriculture,
	MaterialPalmOil:     CategoryAgriculture,
	MaterialRubber:      CategoryAgriculture,
	MaterialOrangeJuice: CategoryAgriculture,

	MaterialLiveCattle:   CategoryLivestock,
	MaterialLeanHogs:     CategoryLivestock,
	MaterialFeederCattle: CategoryLivestock,

	MaterialCryptocurrency: CategoryCrypto,
	MaterialBlockchain:     CategoryTechnology,
	MaterialTechMetals:     CategoryTechnology,
	MaterialBatteryMetals:  CategoryTechnology,

	MaterialRealEstate:  CategoryRealEstate,
	MaterialTimber:      CategoryRealEstate,
	MaterialWaterRights: CategorySpecialty,
}

func (m MaterialType) IsValid() bool {
	_, ok := materialCategories[m]
	return ok
}

// DefaultCategory is the category a plan on this material falls under when none is given
func (m MaterialType) DefaultCategory() PlanCategory {
	if c, ok := materialCategories[m]; ok {
		return c
	}
	return CategorySpecialty
}

// MaterialTypes returns every supported material
func MaterialTypes() []MaterialType {
	return []MaterialType{
		MaterialGold, MaterialSilver, MaterialPlatinum, MaterialPalladium, MaterialRhodium,
		MaterialCrudeOil, MaterialBrentOil, MaterialNaturalGas, MaterialHeatingOil, MaterialGasoline,
		MaterialCopper, MaterialAluminum, MaterialZinc, MaterialNickel, MaterialLead, MaterialTin, MaterialIronOre,
		MaterialCocoa, MaterialCoffee, MaterialSugar, MaterialWheat, MaterialCorn, MaterialSoybeans,
		MaterialRice, MaterialCotton, MaterialPalmOil, MaterialRubber, MaterialOrangeJuice,
		MaterialLiveCattle, MaterialLeanHogs, MaterialFeederCattle,
		MaterialCryptocurrency, MaterialBlockchain, MaterialTechMetals, MaterialBatteryMetals,
		MaterialRealEstate, MaterialTimber, MaterialWaterRights,
	}
}
