package loads

import (
	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/schedule"
)

// EquipmentConfig describes one plug or process equipment object.
type EquipmentConfig struct {
	Name            string
	Category        sim.Category // electric, gas, hot water, steam or other equipment
	Target          Target
	Level           DesignLevel // W, W/m2 or W/person
	Schedule        schedule.Source
	LatentFraction  float64
	RadiantFraction float64
	LostFraction    float64
	// CO2Rate is CO2 generated per watt [m3/s-W]; gas equipment only.
	CO2Rate float64
	// GenericContaminantRate is the contaminant generation at full schedule [m3/s].
	GenericContaminantRate float64
}

var equipmentCategories = sim.CategoriesOf(
	sim.CategoryElectricEquipment,
	sim.CategoryGasEquipment,
	sim.CategoryHotWaterEquipment,
	sim.CategorySteamEquipment,
	sim.CategoryOtherEquipment,
)

// Equipment publishes plug and process equipment gains.
type Equipment struct {
	base
	cfg        EquipmentConfig
	design     float64
	convective float64
}

// NewEquipment checks the fraction split, resolves the design level and registers the object.
func NewEquipment(reg *sim.Registry, cfg EquipmentConfig, zonePeople float64) (*Equipment, error) {
	if !equipmentCategories.Contains(cfg.Category) {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name, "%s is not an equipment category", cfg.Category)
	}
	e := &Equipment{base: base{name: cfg.Name, category: cfg.Category}, cfg: cfg}
	conv, err := checkFractions(cfg.Name, map[string]float64{
		"latent fraction":  cfg.LatentFraction,
		"radiant fraction": cfg.RadiantFraction,
		"lost fraction":    cfg.LostFraction,
	})
	if err != nil {
		return nil, err
	}
	e.convective = conv
	if cfg.CO2Rate < 0 || cfg.GenericContaminantRate < 0 {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name, "contaminant rates must be non-negative")
	}
	if cfg.CO2Rate > 0 && cfg.Category != sim.CategoryGasEquipment {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name, "only gas equipment generates CO2")
	}
	schedMax, err := checkSchedule(cfg.Name, cfg.Category.String(), cfg.Schedule)
	if err != nil {
		return nil, err
	}
	bindings := sim.ChannelsOf(sim.ChannelConvective, sim.ChannelRadiant, sim.ChannelLatent)
	if cfg.CO2Rate > 0 {
		bindings |= sim.ChannelsOf(sim.ChannelCO2)
	}
	if cfg.GenericContaminantRate > 0 {
		bindings |= sim.ChannelsOf(sim.ChannelGenericContaminant)
	}
	if err := e.register(reg, cfg.Target, bindings, sim.NoReturnNode); err != nil {
		return nil, err
	}
	e.design, err = cfg.Level.Resolve(TargetArea(reg.Topology(), cfg.Target), zonePeople)
	if err != nil {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name, "%v", err)
	}
	e.peak = e.design * schedMax
	return e, nil
}

// DesignLevel is the resolved design power [W].
func (e *Equipment) DesignLevel() float64 { return e.design }

func (e *Equipment) Update(ZoneState) {
	frac := e.cfg.Schedule.CurrentValue()
	q := e.design * frac
	e.out = Output{
		Total:              q,
		Convective:         q * e.convective,
		Radiant:            q * e.cfg.RadiantFraction,
		Latent:             q * e.cfg.LatentFraction,
		Lost:               q * e.cfg.LostFraction,
		CO2:                q * e.cfg.CO2Rate,
		GenericContaminant: frac * e.cfg.GenericContaminantRate,
	}
	e.publish()
}
