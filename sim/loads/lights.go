package loads

import (
	"github.com/sirupsen/logrus"

	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/schedule"
)

// LightsConfig describes one lighting object.
type LightsConfig struct {
	Name              string
	Target            Target
	Level             DesignLevel // W, W/m2 or W/person
	Schedule          schedule.Source
	RadiantFraction   float64
	VisibleFraction   float64
	ReturnAirFraction float64
	// ReturnNode receives the return-air fraction; NoReturnNode picks the zone's first.
	ReturnNode sim.ReturnNodeID
}

// Lights publishes lighting gains, including heat carried to a return-air node.
type Lights struct {
	base
	cfg        LightsConfig
	design     float64
	convective float64
}

// NewLights checks the fraction split, resolves the design level and registers the object.
// zonePeople is the design occupancy used by the per-person method.
func NewLights(reg *sim.Registry, cfg LightsConfig, zonePeople float64) (*Lights, error) {
	l := &Lights{base: base{name: cfg.Name, category: sim.CategoryLighting}, cfg: cfg}
	conv, err := checkFractions(cfg.Name, map[string]float64{
		"radiant fraction":    cfg.RadiantFraction,
		"visible fraction":    cfg.VisibleFraction,
		"return air fraction": cfg.ReturnAirFraction,
	})
	if err != nil {
		return nil, err
	}
	l.convective = conv
	schedMax, err := checkSchedule(cfg.Name, "lighting", cfg.Schedule)
	if err != nil {
		return nil, err
	}
	bindings := sim.ChannelsOf(sim.ChannelConvective, sim.ChannelRadiant)
	if cfg.ReturnAirFraction > 0 {
		bindings |= sim.ChannelsOf(sim.ChannelReturnAirConvective)
	}
	if err := l.register(reg, cfg.Target, bindings, cfg.ReturnNode); err != nil {
		return nil, err
	}
	if cfg.ReturnAirFraction > 0 && len(reg.Topology().Zone(l.zone).ReturnNodes) == 0 {
		logrus.Warnf("lights %q: zone %q has no return-air node; return-air heat is reported but not routed",
			cfg.Name, reg.Topology().Zone(l.zone).Name)
	}
	l.design, err = cfg.Level.Resolve(TargetArea(reg.Topology(), cfg.Target), zonePeople)
	if err != nil {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name, "%v", err)
	}
	l.peak = l.design * schedMax
	return l, nil
}

// HasReturnAir reports whether some of this object's heat goes to return air.
func (l *Lights) HasReturnAir() bool { return l.cfg.ReturnAirFraction > 0 }

// DesignLevel is the resolved design power [W].
func (l *Lights) DesignLevel() float64 { return l.design }

func (l *Lights) Update(ZoneState) {
	q := l.design * l.cfg.Schedule.CurrentValue()
	l.out = Output{
		Total:         q,
		Convective:    q * l.convective,
		Radiant:       q * l.cfg.RadiantFraction,
		ShortWave:     q * l.cfg.VisibleFraction,
		ReturnAirConv: q * l.cfg.ReturnAirFraction,
	}
	l.publish()
}
