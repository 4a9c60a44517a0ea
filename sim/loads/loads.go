// Package loads publishes the internal gains of occupants, lighting, plug and
// process equipment, and externally owned gain groups into the gain registry.
//
// Each configured object becomes one Load. A zone-level object is split over
// the zone's spaces by floor area; the Load computes whole-object values once
// per timestep and publishes them to every space instance, and the registry
// applies each instance's share fraction.
package loads

import (
	"fmt"
	"math"

	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/schedule"
)

// fractionTolerance absorbs rounding in user-entered fraction sets.
const fractionTolerance = 1e-6

// ZoneState is the part of the zone heat balance a load reads.
type ZoneState interface {
	ZoneAirTemp(zone sim.ZoneID) float64
}

// Load is one configured internal-gain object.
type Load interface {
	Name() string
	Category() sim.Category
	Zone() sim.ZoneID
	// Update computes this timestep's gains and publishes them.
	Update(zs ZoneState)
	Output() Output
	// DesignPeak is the design level times the schedule maximum [W].
	DesignPeak() float64
	Instances() []Instance
}

// Output is the whole-object result of the latest Update.
type Output struct {
	Total              float64 // W
	Convective         float64
	Radiant            float64
	ShortWave          float64 // visible lighting, reported only
	ReturnAirConv      float64
	Latent             float64
	ReturnAirLatent    float64
	Lost               float64
	CO2                float64 // m3/s
	GenericContaminant float64 // m3/s
}

// Target says where an object lives: a whole zone or one space of it.
type Target struct {
	Zone       sim.ZoneID
	Space      sim.SpaceID
	SpaceLevel bool
}

// Instance is one space's registry entry for a Load.
type Instance struct {
	Space  sim.SpaceID
	Share  float64
	Handle sim.Handle
}

// Placement pairs a space with its share of a distributed object.
type Placement struct {
	Space sim.SpaceID
	Share float64
}

// Distribute resolves a target to its space placements: a space-level
// target gets share 1, a zone-level target is split by floor area.
func Distribute(topo *sim.Topology, tgt Target) []Placement {
	if tgt.SpaceLevel {
		return []Placement{{Space: tgt.Space, Share: 1}}
	}
	spaces, shares := topo.AreaShares(tgt.Zone)
	out := make([]Placement, len(spaces))
	for i := range spaces {
		out[i] = Placement{Space: spaces[i], Share: shares[i]}
	}
	return out
}

// TargetArea is the floor area covered by tgt.
func TargetArea(topo *sim.Topology, tgt Target) float64 {
	if tgt.SpaceLevel {
		return topo.Space(tgt.Space).FloorArea
	}
	return topo.Zone(tgt.Zone).FloorArea
}

// LevelMethod selects how a design level is entered.
type LevelMethod string

const (
	LevelAbsolute      LevelMethod = "level"           // W, or people
	LevelPerArea       LevelMethod = "per_area"        // W/m2, or people/m2
	LevelPerPerson     LevelMethod = "per_person"      // W/person
	LevelAreaPerPerson LevelMethod = "area_per_person" // m2/person, occupants only
)

// DesignLevel is a design quantity and the method it is entered with.
type DesignLevel struct {
	Method LevelMethod
	Value  float64
}

// Resolve converts the level to an absolute value for an object covering
// area with people occupants.
func (d DesignLevel) Resolve(area, people float64) (float64, error) {
	if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) || d.Value < 0 {
		return 0, fmt.Errorf("design level must be a finite non-negative number, got %g", d.Value)
	}
	switch d.Method {
	case LevelAbsolute, "":
		return d.Value, nil
	case LevelPerArea:
		return d.Value * area, nil
	case LevelPerPerson:
		return d.Value * people, nil
	case LevelAreaPerPerson:
		if d.Value == 0 {
			return 0, fmt.Errorf("area per person must be positive")
		}
		return area / d.Value, nil
	default:
		return 0, fmt.Errorf("unknown design level method %q", d.Method)
	}
}

// base carries what every Load shares: identity, registry instances and the
// latest output.
type base struct {
	name      string
	category  sim.Category
	zone      sim.ZoneID
	instances []Instance
	out       Output
	peak      float64
}

func (b *base) Name() string           { return b.name }
func (b *base) Category() sim.Category { return b.category }
func (b *base) Zone() sim.ZoneID       { return b.zone }
func (b *base) Output() Output         { return b.out }
func (b *base) DesignPeak() float64    { return b.peak }
func (b *base) Instances() []Instance  { return b.instances }

// register creates one registry entry per placement of tgt.
func (b *base) register(reg *sim.Registry, tgt Target, bindings sim.ChannelMask, node sim.ReturnNodeID) error {
	topo := reg.Topology()
	if tgt.SpaceLevel {
		if !topo.ValidSpace(tgt.Space) {
			return sim.NewConfigError(sim.ErrCodeInvalidSpace, b.name, "unknown space %d", tgt.Space)
		}
		tgt.Zone = topo.Space(tgt.Space).Zone
	} else if int(tgt.Zone) < 0 || int(tgt.Zone) >= topo.NumZones() {
		return sim.NewConfigError(sim.ErrCodeInvalidZone, b.name, "unknown zone %d", tgt.Zone)
	}
	b.zone = tgt.Zone
	for _, p := range Distribute(topo, tgt) {
		h, err := reg.Register(p.Space, b.category, b.name, bindings, p.Share, node)
		if err != nil {
			return err
		}
		b.instances = append(b.instances, Instance{Space: p.Space, Share: p.Share, Handle: h})
	}
	return nil
}

// publish writes the current output to every instance.
func (b *base) publish() {
	for _, inst := range b.instances {
		inst.Handle.Publish(sim.ChannelConvective, b.out.Convective)
		inst.Handle.Publish(sim.ChannelRadiant, b.out.Radiant)
		inst.Handle.Publish(sim.ChannelReturnAirConvective, b.out.ReturnAirConv)
		inst.Handle.Publish(sim.ChannelLatent, b.out.Latent)
		inst.Handle.Publish(sim.ChannelReturnAirLatent, b.out.ReturnAirLatent)
		inst.Handle.Publish(sim.ChannelCO2, b.out.CO2)
		inst.Handle.Publish(sim.ChannelGenericContaminant, b.out.GenericContaminant)
	}
}

// checkFractions fails when the non-convective fractions exceed 1 and
// returns the convective remainder otherwise.
func checkFractions(name string, fractions map[string]float64) (float64, error) {
	sum := 0.0
	for key, f := range fractions {
		if f < 0 || f > 1 || math.IsNaN(f) {
			return 0, sim.NewConfigError(sim.ErrCodeFractionSum, name, "%s must be in [0,1], got %g", key, f)
		}
		sum += f
	}
	if sum > 1+fractionTolerance {
		return 0, sim.NewConfigError(sim.ErrCodeFractionSum, name,
			"fractions sum to %g, more than 1", sum)
	}
	return math.Max(0, 1-sum), nil
}

// checkSchedule rejects schedules that can go negative and returns their maximum.
func checkSchedule(name, field string, src schedule.Source) (float64, error) {
	if src == nil {
		return 0, sim.NewConfigError(sim.ErrCodeInvalidSchedule, name, "%s schedule is required", field)
	}
	if src.MinValue() < 0 {
		return 0, sim.NewConfigError(sim.ErrCodeInvalidSchedule, name,
			"%s schedule minimum %g is negative", field, src.MinValue())
	}
	return src.MaxValue(), nil
}
