package sim

import (
	"fmt"
	"strings"
)

// Category identifies the kind of subsystem that owns a gain source.
// The aggregation engine filters on categories without knowing what any of
// them model.
type Category uint8

const (
	CategoryOccupant Category = iota
	CategoryLighting
	CategoryElectricEquipment
	CategoryGasEquipment
	CategoryHotWaterEquipment
	CategorySteamEquipment
	CategoryOtherEquipment
	CategoryITEquipment
	CategoryRefrigerationCase
	CategoryRefrigerationWalkIn
	CategoryRefrigerationCompressorRack
	CategoryRefrigerationCondenser
	CategoryRefrigerationSuctionPipe
	CategoryRefrigerationSecondaryReceiver
	CategoryRefrigerationSecondaryPipe
	CategoryRefrigerationChillerSet
	CategoryWaterUseEquipment
	CategoryWaterHeaterMixed
	CategoryWaterHeaterStratified
	CategoryChilledWaterTank
	CategoryGeneratorMicroTurbine
	CategoryGeneratorFuelCell
	CategoryInverter
	CategoryElectricStorage
	CategoryTransformer
	CategoryPipeIndoor
	CategoryDuctLoss
	CategoryBaseboardOutdoorControlled
	CategoryFanSystem
	CategoryDXCondenser
	CategoryHeatPumpWaterHeater
	CategoryContaminantSource

	numCategories
)

var categoryNames = [numCategories]string{
	CategoryOccupant:                       "people",
	CategoryLighting:                       "lights",
	CategoryElectricEquipment:              "electric_equipment",
	CategoryGasEquipment:                   "gas_equipment",
	CategoryHotWaterEquipment:              "hot_water_equipment",
	CategorySteamEquipment:                 "steam_equipment",
	CategoryOtherEquipment:                 "other_equipment",
	CategoryITEquipment:                    "it_equipment",
	CategoryRefrigerationCase:              "refrigeration_case",
	CategoryRefrigerationWalkIn:            "refrigeration_walk_in",
	CategoryRefrigerationCompressorRack:    "refrigeration_compressor_rack",
	CategoryRefrigerationCondenser:         "refrigeration_condenser",
	CategoryRefrigerationSuctionPipe:       "refrigeration_suction_pipe",
	CategoryRefrigerationSecondaryReceiver: "refrigeration_secondary_receiver",
	CategoryRefrigerationSecondaryPipe:     "refrigeration_secondary_pipe",
	CategoryRefrigerationChillerSet:        "refrigeration_chiller_set",
	CategoryWaterUseEquipment:              "water_use_equipment",
	CategoryWaterHeaterMixed:               "water_heater_mixed",
	CategoryWaterHeaterStratified:          "water_heater_stratified",
	CategoryChilledWaterTank:               "chilled_water_tank",
	CategoryGeneratorMicroTurbine:          "generator_micro_turbine",
	CategoryGeneratorFuelCell:              "generator_fuel_cell",
	CategoryInverter:                       "inverter",
	CategoryElectricStorage:                "electric_storage",
	CategoryTransformer:                    "transformer",
	CategoryPipeIndoor:                     "pipe_indoor",
	CategoryDuctLoss:                       "duct_loss",
	CategoryBaseboardOutdoorControlled:     "baseboard_outdoor_controlled",
	CategoryFanSystem:                      "fan_system",
	CategoryDXCondenser:                    "dx_condenser",
	CategoryHeatPumpWaterHeater:            "heat_pump_water_heater",
	CategoryContaminantSource:              "contaminant_source",
}

func (c Category) String() string {
	if c < numCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool { return c < numCategories }

// ParseCategory maps a configuration name to its Category.
func ParseCategory(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == key {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown gain category %q", name)
}

// CategorySet is a set of categories, one bit per category.
type CategorySet uint64

// CategoriesOf builds a set from the listed categories.
func CategoriesOf(cats ...Category) CategorySet {
	var s CategorySet
	for _, c := range cats {
		s |= 1 << c
	}
	return s
}

// Contains reports whether c is in the set.
func (s CategorySet) Contains(c Category) bool { return s&(1<<c) != 0 }

// Union returns the categories in s or o.
func (s CategorySet) Union(o CategorySet) CategorySet { return s | o }

// Categories lists the members in enum order.
func (s CategorySet) Categories() []Category {
	var out []Category
	for c := Category(0); c < numCategories; c++ {
		if s.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

func categoryRange(from, to Category) CategorySet {
	var s CategorySet
	for c := from; c <= to; c++ {
		s |= 1 << c
	}
	return s
}

// Named category groups. Consumers that report or filter by group use these
// instead of listing categories at each call site.
var (
	AllCategories      = categoryRange(0, numCategories-1)
	PeopleCategories   = CategoriesOf(CategoryOccupant)
	LightingCategories = CategoriesOf(CategoryLighting)
	// EquipmentCategories is the plug and process load group, IT equipment included.
	EquipmentCategories = CategoriesOf(
		CategoryElectricEquipment,
		CategoryGasEquipment,
		CategoryHotWaterEquipment,
		CategorySteamEquipment,
		CategoryOtherEquipment,
		CategoryITEquipment,
	)
	RefrigerationCategories   = categoryRange(CategoryRefrigerationCase, CategoryRefrigerationChillerSet)
	WaterUseCategories        = categoryRange(CategoryWaterUseEquipment, CategoryChilledWaterTank)
	PowerGenerationCategories = categoryRange(CategoryGeneratorMicroTurbine, CategoryTransformer)
	HVACLossCategories        = categoryRange(CategoryPipeIndoor, CategoryHeatPumpWaterHeater)
	ContaminantCategories     = CategoriesOf(CategoryContaminantSource)
)

// NamedCategorySets lists the report groups in a fixed order.
var NamedCategorySets = []struct {
	Name string
	Set  CategorySet
}{
	{"people", PeopleCategories},
	{"lights", LightingCategories},
	{"equipment", EquipmentCategories},
	{"refrigeration", RefrigerationCategories},
	{"water_use", WaterUseCategories},
	{"power_generation", PowerGenerationCategories},
	{"hvac_losses", HVACLossCategories},
	{"contaminants", ContaminantCategories},
}
