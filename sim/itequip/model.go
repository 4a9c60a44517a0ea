package itequip

import (
	"errors"
	"math"
	"slices"

	"github.com/gainsim/gainsim/sim"
)

// ZoneReturn is the return-air temperature blended from a zone's
// approach-temperature units.
type ZoneReturn struct {
	Temp  float64 // °C
	Valid bool    // false until some unit in the zone has moved air
}

// Model holds every IT equipment unit, grouped by zone in registration order.
type Model struct {
	units   []*Unit
	byZone  map[sim.ZoneID][]*Unit
	returns map[sim.ZoneID]*ZoneReturn
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{
		byZone:  make(map[sim.ZoneID][]*Unit),
		returns: make(map[sim.ZoneID]*ZoneReturn),
	}
}

// Add appends a unit.
func (m *Model) Add(u *Unit) {
	m.units = append(m.units, u)
	m.byZone[u.zone] = append(m.byZone[u.zone], u)
}

// Units returns every unit in registration order.
func (m *Model) Units() []*Unit { return m.units }

// ZoneUnits returns the units in zone.
func (m *Model) ZoneUnits(zone sim.ZoneID) []*Unit { return m.byZone[zone] }

// AdjustedZones lists the zones whose return temperature is set by
// approach-temperature units, ascending.
func (m *Model) AdjustedZones() []sim.ZoneID {
	var out []sim.ZoneID
	seen := make(map[sim.ZoneID]bool)
	for _, u := range m.units {
		if u.cfg.Connection == ConnApproachTemperature && !seen[u.zone] {
			seen[u.zone] = true
			out = append(out, u.zone)
		}
	}
	slices.Sort(out)
	return out
}

// EvaluateZone evaluates every unit in zone, then recomputes the zone's
// return temperature from the fresh unit states.
func (m *Model) EvaluateZone(zone sim.ZoneID, c Conditions, dt float64) {
	units := m.byZone[zone]
	for _, u := range units {
		u.Evaluate(c, dt)
	}
	m.blendReturn(zone, units)
}

// EvaluateAll evaluates every zone that holds units.
func (m *Model) EvaluateAll(c Conditions, dt float64) {
	zones := make([]sim.ZoneID, 0, len(m.byZone))
	for z := range m.byZone {
		zones = append(zones, z)
	}
	slices.Sort(zones)
	for _, z := range zones {
		m.EvaluateZone(z, c, dt)
	}
}

// blendReturn sets the zone return temperature to the mass-flow weighted
// mean of (outlet + return approach) over approach-temperature units. With
// no flow the previous value is kept.
func (m *Model) blendReturn(zone sim.ZoneID, units []*Unit) {
	var flow, weighted float64
	adjusted := false
	for _, u := range units {
		if u.cfg.Connection != ConnApproachTemperature {
			continue
		}
		adjusted = true
		flow += u.State.AirMassFlow
		weighted += u.State.AirMassFlow * (u.State.OutletDryBulb + u.ReturnApproach())
	}
	if !adjusted {
		return
	}
	r, ok := m.returns[zone]
	if !ok {
		r = &ZoneReturn{Temp: math.NaN()}
		m.returns[zone] = r
	}
	if flow > 0 {
		r.Temp = weighted / flow
		r.Valid = true
	}
}

// ZoneReturnTemp reports the blended return temperature for zone. ok is
// false when no approach-temperature unit in the zone has moved air yet.
func (m *Model) ZoneReturnTemp(zone sim.ZoneID) (float64, bool) {
	r, found := m.returns[zone]
	if !found || !r.Valid {
		return 0, false
	}
	return r.Temp, true
}

// ResetCounters clears every unit's envelope counters.
func (m *Model) ResetCounters() {
	for _, u := range m.units {
		u.ResetCounters()
	}
}

// ValidateReturnAir rejects configurations in which a zone's return
// temperature is adjusted by IT equipment while another gain also claims
// that zone's return air: lighting heat to return air, or window heat
// routed to return air.
func (m *Model) ValidateReturnAir(reg *sim.Registry) error {
	topo := reg.Topology()
	var errs []error
	for _, zone := range m.AdjustedZones() {
		z := topo.Zone(zone)
		if z.WindowReturnAir {
			errs = append(errs, sim.NewConfigError(sim.ErrCodeReturnAirConflict, z.Name,
				"window heat to return air cannot be combined with approach-temperature IT equipment"))
		}
		for _, space := range z.Spaces {
			for _, i := range reg.SpaceSources(space) {
				src := reg.Source(i)
				if !sim.LightingCategories.Contains(src.Category) || !src.Bindings.Has(sim.ChannelReturnAirConvective) {
					continue
				}
				errs = append(errs, sim.NewConfigError(sim.ErrCodeReturnAirConflict, src.Name,
					"lighting return-air fraction in zone %q cannot be combined with approach-temperature IT equipment", z.Name))
			}
		}
	}
	return errors.Join(errs...)
}
