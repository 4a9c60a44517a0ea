package loads

import (
	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/schedule"
)

// ExternalConfig describes a gain owned by a subsystem outside this core,
// such as a refrigerated case, a water heater or a duct, entered as design
// values scaled by a schedule.
type ExternalConfig struct {
	Name            string
	Category        sim.Category
	Target          Target
	Schedule        schedule.Source
	Convective      float64 // W at schedule value 1
	Radiant         float64
	ReturnAirConv   float64
	Latent          float64
	ReturnAirLatent float64
	ReturnNode      sim.ReturnNodeID
}

var externalCategories = sim.RefrigerationCategories.
	Union(sim.WaterUseCategories).
	Union(sim.PowerGenerationCategories).
	Union(sim.HVACLossCategories).
	Union(sim.ContaminantCategories)

// External publishes a scheduled fixed gain for an outside subsystem.
type External struct {
	base
	cfg ExternalConfig
}

// NewExternal registers an outside-subsystem gain.
func NewExternal(reg *sim.Registry, cfg ExternalConfig) (*External, error) {
	if !externalCategories.Contains(cfg.Category) {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name,
			"%s gains are computed by this core, not published externally", cfg.Category)
	}
	x := &External{base: base{name: cfg.Name, category: cfg.Category}, cfg: cfg}
	if cfg.Schedule == nil {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidSchedule, cfg.Name, "schedule is required")
	}
	bindings := sim.ChannelsOf(sim.ChannelConvective, sim.ChannelRadiant, sim.ChannelLatent)
	if cfg.ReturnAirConv != 0 {
		bindings |= sim.ChannelsOf(sim.ChannelReturnAirConvective)
	}
	if cfg.ReturnAirLatent != 0 {
		bindings |= sim.ChannelsOf(sim.ChannelReturnAirLatent)
	}
	if err := x.register(reg, cfg.Target, bindings, cfg.ReturnNode); err != nil {
		return nil, err
	}
	x.peak = (cfg.Convective + cfg.Radiant + cfg.ReturnAirConv + cfg.Latent + cfg.ReturnAirLatent) *
		cfg.Schedule.MaxValue()
	return x, nil
}

func (x *External) Update(ZoneState) {
	f := x.cfg.Schedule.CurrentValue()
	x.out = Output{
		Convective:      f * x.cfg.Convective,
		Radiant:         f * x.cfg.Radiant,
		ReturnAirConv:   f * x.cfg.ReturnAirConv,
		Latent:          f * x.cfg.Latent,
		ReturnAirLatent: f * x.cfg.ReturnAirLatent,
	}
	x.out.Total = x.out.Convective + x.out.Radiant + x.out.ReturnAirConv + x.out.Latent + x.out.ReturnAirLatent
	x.publish()
}
