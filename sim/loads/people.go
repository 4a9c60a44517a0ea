package loads

import (
	"math"

	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/schedule"
)

// Sensible heat per person as a function of activity level A [W] and zone
// air temperature T [°C]:
//
//	c0 + A(c1 + c2 A) + T(c3 + A(c4 + c5 A)) + T^2(c6 + A(c7 + c8 A))
var sensibleCoeffs = [9]float64{
	6.461927, 0.946892, 0.0000255737,
	7.139322, -0.0627909, 0.0000589172,
	-0.198550, 0.000940018, -0.00000149532,
}

// PeopleConfig describes one occupant object.
type PeopleConfig struct {
	Name     string
	Target   Target
	Level    DesignLevel // people, people per m2, or m2 per person
	Schedule schedule.Source
	Activity schedule.Source // W per person
	// RadiantFraction of the sensible gain.
	RadiantFraction float64
	// SensibleFraction of the total gain; nil means use the activity/temperature correlation.
	SensibleFraction *float64
	// CO2Rate is CO2 generation per watt of activity [m3/s-W].
	CO2Rate float64
}

// People publishes occupant sensible, latent and CO2 gains.
type People struct {
	base
	cfg    PeopleConfig
	design float64 // people
	count  float64 // people this timestep
}

// NewPeople resolves the design occupancy and registers the object.
func NewPeople(reg *sim.Registry, cfg PeopleConfig) (*People, error) {
	p := &People{base: base{name: cfg.Name, category: sim.CategoryOccupant}, cfg: cfg}
	if _, err := checkFractions(cfg.Name, map[string]float64{"radiant fraction": cfg.RadiantFraction}); err != nil {
		return nil, err
	}
	if cfg.SensibleFraction != nil {
		if f := *cfg.SensibleFraction; f < 0 || f > 1 {
			return nil, sim.NewConfigError(sim.ErrCodeFractionSum, cfg.Name, "sensible fraction must be in [0,1], got %g", f)
		}
	}
	if cfg.CO2Rate < 0 {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name, "CO2 generation rate must be non-negative")
	}
	schedMax, err := checkSchedule(cfg.Name, "number of people", cfg.Schedule)
	if err != nil {
		return nil, err
	}
	actMax, err := checkSchedule(cfg.Name, "activity level", cfg.Activity)
	if err != nil {
		return nil, err
	}
	if err := p.register(reg, cfg.Target, sim.ChannelsOf(
		sim.ChannelConvective, sim.ChannelRadiant, sim.ChannelLatent, sim.ChannelCO2), sim.NoReturnNode); err != nil {
		return nil, err
	}
	area := TargetArea(reg.Topology(), cfg.Target)
	p.design, err = cfg.Level.Resolve(area, 0)
	if err != nil {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name, "%v", err)
	}
	p.peak = p.design * schedMax * actMax
	return p, nil
}

// DesignPeople is the resolved design occupancy.
func (p *People) DesignPeople() float64 { return p.design }

// Occupants is the occupancy of the latest Update.
func (p *People) Occupants() float64 { return p.count }

func (p *People) Update(zs ZoneState) {
	p.count = p.design * p.cfg.Schedule.CurrentValue()
	activity := p.cfg.Activity.CurrentValue()
	total := p.count * activity

	var sensible float64
	if p.cfg.SensibleFraction != nil {
		sensible = total * *p.cfg.SensibleFraction
	} else {
		sensible = p.count * sensiblePerPerson(activity, zs.ZoneAirTemp(p.zone))
	}
	sensible = math.Max(0, math.Min(sensible, total))

	rad := sensible * p.cfg.RadiantFraction
	p.out = Output{
		Total:      total,
		Radiant:    rad,
		Convective: sensible - rad,
		Latent:     total - sensible,
		CO2:        p.count * activity * p.cfg.CO2Rate,
	}
	p.publish()
}

func sensiblePerPerson(activity, t float64) float64 {
	c := sensibleCoeffs
	a := activity
	return c[0] + a*(c[1]+a*c[2]) +
		t*(c[3]+a*(c[4]+a*c[5])) +
		t*t*(c[6]+a*(c[7]+a*c[8]))
}
