package building

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/curve"
	"github.com/gainsim/gainsim/sim/itequip"
	"github.com/gainsim/gainsim/sim/loads"
	"github.com/gainsim/gainsim/sim/psychro"
	"github.com/gainsim/gainsim/sim/schedule"
	"github.com/gainsim/gainsim/sim/trace"
)

// Model is a built, frozen gains model ready to step.
type Model struct {
	topo      *sim.Topology
	reg       *sim.Registry
	agg       *sim.Aggregator
	schedules *schedule.Set
	curves    *curve.Library
	loads     []loads.Load
	ite       *itequip.Model
	air       *conditions
	trace     *trace.SimulationTrace

	dt      float64 // hours
	perHour int
	step    int
}

// Build resolves spec into a model. Every configuration error is reported
// here; a model that builds will step without failing.
func Build(spec *ModelSpec) (*Model, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		topo:      sim.NewTopology(),
		schedules: schedule.NewSet(),
		curves:    curve.NewLibrary(),
		ite:       itequip.NewModel(),
		dt:        1 / float64(spec.Site.TimestepsPerHour),
		perHour:   spec.Site.TimestepsPerHour,
	}
	if err := m.buildSchedules(spec.Schedules); err != nil {
		return nil, err
	}
	if err := m.buildCurves(spec.Curves); err != nil {
		return nil, err
	}
	if err := m.buildTopology(spec.Zones); err != nil {
		return nil, err
	}
	m.reg = sim.NewRegistry(m.topo)
	if err := m.buildLoads(spec); err != nil {
		return nil, err
	}
	for i := range spec.ITEquipment {
		u, err := m.buildUnit(&spec.ITEquipment[i])
		if err != nil {
			return nil, err
		}
		m.ite.Add(u)
	}
	m.reg.Freeze()
	m.agg = sim.NewAggregator(m.reg)

	air, err := m.buildConditions(spec)
	if err != nil {
		return nil, err
	}
	m.air = air
	if err := m.ite.ValidateReturnAir(m.reg); err != nil {
		return nil, err
	}
	m.ite.ResetCounters()

	level := trace.TraceLevel(spec.Trace)
	if level != "" && level != trace.TraceLevelNone {
		m.trace = trace.NewSimulationTrace(level, m.dt)
	}
	logrus.Infof("built model: %d zones, %d spaces, %d gain sources, %d IT units",
		m.topo.NumZones(), m.topo.NumSpaces(), m.reg.Len(), len(m.ite.Units()))
	return m, nil
}

func (m *Model) buildSchedules(specs []ScheduleSpec) error {
	for _, sc := range specs {
		var src schedule.Source
		if sc.Constant != nil {
			src = schedule.Constant(*sc.Constant)
		} else {
			p, err := schedule.NewDailyProfile(m.schedules.Clock(), sc.Hourly)
			if err != nil {
				return sim.NewConfigError(sim.ErrCodeInvalidSchedule, sc.Name, "%v", err)
			}
			src = p
		}
		if err := m.schedules.Add(sc.Name, src); err != nil {
			return sim.NewConfigError(sim.ErrCodeInvalidSchedule, sc.Name, "%v", err)
		}
	}
	return nil
}

func (m *Model) buildCurves(specs []CurveSpec) error {
	for _, cs := range specs {
		c, err := newCurve(cs)
		if err != nil {
			return sim.NewConfigError(sim.ErrCodeInvalidCurve, cs.Name, "%v", err)
		}
		if err := m.curves.Add(c); err != nil {
			return sim.NewConfigError(sim.ErrCodeInvalidCurve, cs.Name, "%v", err)
		}
	}
	return nil
}

func newCurve(cs CurveSpec) (curve.Curve, error) {
	b := curve.Bounds{MinOut: cs.MinOutput, MaxOut: cs.MaxOutput}
	switch cs.Type {
	case "linear", "quadratic", "cubic":
		want := map[string]int{"linear": 2, "quadratic": 3, "cubic": 4}[cs.Type]
		if len(cs.Coefficients) != want {
			return nil, fmt.Errorf("%s curve needs %d coefficients, got %d", cs.Type, want, len(cs.Coefficients))
		}
		if err := requireBounds(cs, &b, false); err != nil {
			return nil, err
		}
		return curve.NewPolynomial(cs.Name, cs.Coefficients, b)
	case "biquadratic":
		if err := requireBounds(cs, &b, true); err != nil {
			return nil, err
		}
		return curve.NewBiquadratic(cs.Name, cs.Coefficients, b)
	case "table_1d":
		return curve.NewTable1D(cs.Name, cs.X, cs.Y, b)
	case "table_2d":
		return curve.NewTable2D(cs.Name, cs.X, cs.Y, cs.Values, b)
	default:
		return nil, fmt.Errorf("unknown curve type %q; valid: linear, quadratic, cubic, biquadratic, table_1d, table_2d", cs.Type)
	}
}

// requireBounds copies the input bounds of a polynomial curve into b.
// Table curves take their bounds from the grid instead.
func requireBounds(cs CurveSpec, b *curve.Bounds, twoD bool) error {
	if cs.MinX == nil || cs.MaxX == nil {
		return fmt.Errorf("%s curve needs min_x and max_x", cs.Type)
	}
	b.MinX, b.MaxX = *cs.MinX, *cs.MaxX
	if !twoD {
		return nil
	}
	if cs.MinY == nil || cs.MaxY == nil {
		return fmt.Errorf("%s curve needs min_y and max_y", cs.Type)
	}
	b.MinY, b.MaxY = *cs.MinY, *cs.MaxY
	return nil
}

func (m *Model) buildTopology(zones []ZoneSpec) error {
	for _, zs := range zones {
		z, err := m.topo.AddZone(zs.Name)
		if err != nil {
			return sim.NewConfigError(sim.ErrCodeInvalidZone, zs.Name, "%v", err)
		}
		for _, ss := range zs.Spaces {
			encName := ss.Enclosure
			if encName == "" {
				encName = zs.Name
			}
			enc, ok := m.topo.EnclosureByName(encName)
			if !ok {
				if enc, err = m.topo.AddEnclosure(encName); err != nil {
					return sim.NewConfigError(sim.ErrCodeInvalidSpace, ss.Name, "%v", err)
				}
			}
			if _, err := m.topo.AddSpace(ss.Name, z, enc, ss.FloorArea); err != nil {
				return sim.NewConfigError(sim.ErrCodeInvalidSpace, ss.Name, "%v", err)
			}
		}
		for _, rn := range zs.ReturnNodes {
			if _, err := m.topo.AddReturnNode(rn, z); err != nil {
				return sim.NewConfigError(sim.ErrCodeInvalidZone, zs.Name, "%v", err)
			}
		}
		m.topo.SetWindowReturnAir(z, zs.WindowReturnAir)
	}
	return nil
}

func (m *Model) target(object string, ts TargetSpec) (loads.Target, error) {
	switch {
	case ts.Space != "" && ts.Zone != "":
		return loads.Target{}, sim.NewConfigError(sim.ErrCodeInvalidSpace, object, "set zone or space, not both")
	case ts.Space != "":
		s, ok := m.topo.SpaceByName(ts.Space)
		if !ok {
			return loads.Target{}, sim.NewConfigError(sim.ErrCodeInvalidSpace, object, "unknown space %q", ts.Space)
		}
		return loads.Target{Space: s, Zone: m.topo.Space(s).Zone, SpaceLevel: true}, nil
	default:
		z, ok := m.topo.ZoneByName(ts.Zone)
		if !ok {
			return loads.Target{}, sim.NewConfigError(sim.ErrCodeInvalidZone, object, "unknown zone %q", ts.Zone)
		}
		return loads.Target{Zone: z}, nil
	}
}

func (m *Model) schedule(object, name string) (schedule.Source, error) {
	src, err := m.schedules.Lookup(name)
	if err != nil {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidSchedule, object, "%v", err)
	}
	return src, nil
}

func (m *Model) curve(object, name string, dims int) (curve.Curve, error) {
	if name == "" {
		return nil, nil
	}
	c, err := m.curves.Lookup(name, dims)
	if err != nil {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidCurve, object, "%v", err)
	}
	return c, nil
}

func (m *Model) returnNode(object, name string) (sim.ReturnNodeID, error) {
	if name == "" {
		return sim.NoReturnNode, nil
	}
	n, ok := m.topo.ReturnNodeByName(name)
	if !ok {
		return sim.NoReturnNode, sim.NewConfigError(sim.ErrCodeInvalidZone, object, "unknown return node %q", name)
	}
	return n, nil
}

func (m *Model) category(object, name string) (sim.Category, error) {
	c, err := sim.ParseCategory(name)
	if err != nil {
		return 0, sim.NewConfigError(sim.ErrCodeInvalidValue, object, "%v", err)
	}
	return c, nil
}

// buildLoads builds people first: the per-person design methods of the
// other objects read the zone's design occupancy.
func (m *Model) buildLoads(spec *ModelSpec) error {
	zonePeople := make(map[sim.ZoneID]float64)
	for _, ps := range spec.People {
		tgt, err := m.target(ps.Name, ps.TargetSpec)
		if err != nil {
			return err
		}
		sched, err := m.schedule(ps.Name, ps.Schedule)
		if err != nil {
			return err
		}
		activity, err := m.schedule(ps.Name, ps.Activity)
		if err != nil {
			return err
		}
		p, err := loads.NewPeople(m.reg, loads.PeopleConfig{
			Name:             ps.Name,
			Target:           tgt,
			Level:            loads.DesignLevel{Method: loads.LevelMethod(ps.Level.Method), Value: ps.Level.Value},
			Schedule:         sched,
			Activity:         activity,
			RadiantFraction:  ps.RadiantFraction,
			SensibleFraction: ps.SensibleFraction,
			CO2Rate:          ps.CO2Rate,
		})
		if err != nil {
			return err
		}
		zonePeople[p.Zone()] += p.DesignPeople()
		m.loads = append(m.loads, p)
	}

	for _, ls := range spec.Lights {
		tgt, err := m.target(ls.Name, ls.TargetSpec)
		if err != nil {
			return err
		}
		sched, err := m.schedule(ls.Name, ls.Schedule)
		if err != nil {
			return err
		}
		node, err := m.returnNode(ls.Name, ls.ReturnNode)
		if err != nil {
			return err
		}
		l, err := loads.NewLights(m.reg, loads.LightsConfig{
			Name:              ls.Name,
			Target:            tgt,
			Level:             loads.DesignLevel{Method: loads.LevelMethod(ls.Level.Method), Value: ls.Level.Value},
			Schedule:          sched,
			RadiantFraction:   ls.RadiantFraction,
			VisibleFraction:   ls.VisibleFraction,
			ReturnAirFraction: ls.ReturnAirFraction,
			ReturnNode:        node,
		}, zonePeople[tgt.Zone])
		if err != nil {
			return err
		}
		m.loads = append(m.loads, l)
	}

	for _, es := range spec.Equipment {
		tgt, err := m.target(es.Name, es.TargetSpec)
		if err != nil {
			return err
		}
		cat, err := m.category(es.Name, es.Category)
		if err != nil {
			return err
		}
		sched, err := m.schedule(es.Name, es.Schedule)
		if err != nil {
			return err
		}
		e, err := loads.NewEquipment(m.reg, loads.EquipmentConfig{
			Name:                   es.Name,
			Category:               cat,
			Target:                 tgt,
			Level:                  loads.DesignLevel{Method: loads.LevelMethod(es.Level.Method), Value: es.Level.Value},
			Schedule:               sched,
			LatentFraction:         es.LatentFraction,
			RadiantFraction:        es.RadiantFraction,
			LostFraction:           es.LostFraction,
			CO2Rate:                es.CO2Rate,
			GenericContaminantRate: es.GenericContaminantRate,
		}, zonePeople[tgt.Zone])
		if err != nil {
			return err
		}
		m.loads = append(m.loads, e)
	}

	for _, xs := range spec.External {
		tgt, err := m.target(xs.Name, xs.TargetSpec)
		if err != nil {
			return err
		}
		cat, err := m.category(xs.Name, xs.Category)
		if err != nil {
			return err
		}
		sched, err := m.schedule(xs.Name, xs.Schedule)
		if err != nil {
			return err
		}
		node, err := m.returnNode(xs.Name, xs.ReturnNode)
		if err != nil {
			return err
		}
		x, err := loads.NewExternal(m.reg, loads.ExternalConfig{
			Name:            xs.Name,
			Category:        cat,
			Target:          tgt,
			Schedule:        sched,
			Convective:      xs.Convective,
			Radiant:         xs.Radiant,
			ReturnAirConv:   xs.ReturnAirConv,
			Latent:          xs.Latent,
			ReturnAirLatent: xs.ReturnAirLatent,
			ReturnNode:      node,
		})
		if err != nil {
			return err
		}
		m.loads = append(m.loads, x)
	}
	return nil
}

func (m *Model) offset(object string, o *OffsetSpec) (itequip.Offset, error) {
	if o == nil {
		return itequip.Offset{}, nil
	}
	if o.Schedule == "" {
		return itequip.Offset{Fixed: o.Value}, nil
	}
	src, err := m.schedule(object, o.Schedule)
	if err != nil {
		return itequip.Offset{}, err
	}
	return itequip.Offset{Schedule: src}, nil
}

func (m *Model) buildUnit(is *ITEquipmentSpec) (*itequip.Unit, error) {
	tgt, err := m.target(is.Name, is.TargetSpec)
	if err != nil {
		return nil, err
	}
	design := is.PowerPerUnit * is.Units
	if is.PowerPerArea > 0 {
		design = is.PowerPerArea * loads.TargetArea(m.topo, tgt)
	}
	cfg := itequip.Config{
		Name:                 is.Name,
		Target:               tgt,
		DesignTotalPower:     design,
		FanPowerFraction:     is.FanPowerFraction,
		DesignAirFlowRate:    is.DesignAirFlowPerW * design,
		DesignInletTemp:      is.DesignInletTemp,
		DesignRecircFraction: is.DesignRecircFraction,
		UPSEfficiency:        is.UPSEfficiency,
		UPSLossToZone:        is.UPSLossToZone,
		SupplyNode:           is.SupplyNode,
	}
	if cfg.OperatingSchedule, err = m.schedule(is.Name, is.OperatingSchedule); err != nil {
		return nil, err
	}
	if cfg.CPULoadSchedule, err = m.schedule(is.Name, is.CPULoadSchedule); err != nil {
		return nil, err
	}
	if cfg.PowerCurve, err = m.curve(is.Name, is.PowerCurve, 2); err != nil {
		return nil, err
	}
	if cfg.AirflowCurve, err = m.curve(is.Name, is.AirflowCurve, 2); err != nil {
		return nil, err
	}
	if cfg.FanPowerCurve, err = m.curve(is.Name, is.FanPowerCurve, 1); err != nil {
		return nil, err
	}
	if cfg.RecircCurve, err = m.curve(is.Name, is.RecircCurve, 2); err != nil {
		return nil, err
	}
	if cfg.UPSCurve, err = m.curve(is.Name, is.UPSCurve, 1); err != nil {
		return nil, err
	}
	if cfg.Class, err = itequip.ParseClass(is.Class); err != nil {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, is.Name, "%v", err)
	}
	if cfg.Connection, err = itequip.ParseAirConnection(is.AirConnection); err != nil {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidValue, is.Name, "%v", err)
	}
	if cfg.SupplyApproach, err = m.offset(is.Name, is.SupplyApproach); err != nil {
		return nil, err
	}
	if cfg.ReturnApproach, err = m.offset(is.Name, is.ReturnApproach); err != nil {
		return nil, err
	}
	return itequip.NewUnit(m.reg, cfg)
}

// Step advances the model by one timestep: loads publish, IT equipment is
// solved zone by zone, and the step is recorded.
func (m *Model) Step() {
	hours := float64(m.step) * m.dt
	m.schedules.SetTime(hours)
	for _, l := range m.loads {
		l.Update(m.air)
	}
	m.ite.EvaluateAll(m.air, m.dt)
	if m.trace.Enabled() {
		m.record(hours)
	}
	logrus.Debugf("step %d (t=%.3f h): building convective %.1f W", m.step, hours,
		m.agg.BuildingTotal(sim.AllCategories, sim.ChannelConvective))
	m.step++
}

// Run steps the model n times.
func (m *Model) Run(n int) {
	logrus.Infof("running %d steps of %.4g h", n, m.dt)
	for i := 0; i < n; i++ {
		m.Step()
	}
}

func (m *Model) record(hours float64) {
	for z := 0; z < m.topo.NumZones(); z++ {
		zone := sim.ZoneID(z)
		rec := trace.ZoneRecord{
			Step:            m.step,
			Hours:           hours,
			Zone:            m.topo.Zone(zone).Name,
			Convective:      m.agg.SumByZone(zone, sim.AllCategories, sim.ChannelConvective),
			Radiant:         m.agg.SumByZone(zone, sim.AllCategories, sim.ChannelRadiant),
			Latent:          m.agg.SumByZone(zone, sim.AllCategories, sim.ChannelLatent),
			ReturnAirConv:   m.agg.SumReturnAirByZone(zone, sim.NoReturnNode, sim.AllCategories, sim.ChannelReturnAirConvective),
			ReturnAirLatent: m.agg.SumReturnAirByZone(zone, sim.NoReturnNode, sim.AllCategories, sim.ChannelReturnAirLatent),
			CO2:             m.agg.SumByZone(zone, sim.AllCategories, sim.ChannelCO2),
		}
		for _, u := range m.ite.ZoneUnits(zone) {
			rec.ITElectric += u.State.ElectricPower()
		}
		rec.ReturnTemp, rec.HasReturnTemp = m.ite.ZoneReturnTemp(zone)
		m.trace.RecordZone(rec)
	}
	for _, u := range m.ite.Units() {
		m.trace.RecordUnit(trace.UnitRecord{
			Step:          m.step,
			Unit:          u.Name(),
			InletDryBulb:  u.State.InletDryBulb,
			OutletDryBulb: u.State.OutletDryBulb,
			ElectricPower: u.State.ElectricPower(),
			OutOfEnvelope: u.State.Excursion != (itequip.Excursion{}),
		})
	}
}

func (m *Model) Topology() *sim.Topology       { return m.topo }
func (m *Model) Registry() *sim.Registry       { return m.reg }
func (m *Model) Aggregator() *sim.Aggregator   { return m.agg }
func (m *Model) ITEquipment() *itequip.Model   { return m.ite }
func (m *Model) Loads() []loads.Load           { return m.loads }
func (m *Model) Trace() *trace.SimulationTrace { return m.trace }
func (m *Model) StepHours() float64            { return m.dt }
func (m *Model) Steps() int                    { return m.step }

// StepsPerDay is the number of timesteps in 24 simulated hours.
func (m *Model) StepsPerDay() int { return 24 * m.perHour }

// ZoneElectricSummary reports a zone's electric design power with IT
// equipment kept apart from the other electric end uses.
type ZoneElectricSummary struct {
	Zone             string
	ITDesignPower    float64 // W
	OtherDesignPower float64 // W, lighting and electric equipment peaks
	ITElectric       float64 // W, this step
	OtherElectric    float64 // W, this step
}

// ElectricSummary returns one ZoneElectricSummary per zone.
func (m *Model) ElectricSummary() []ZoneElectricSummary {
	out := make([]ZoneElectricSummary, m.topo.NumZones())
	for z := range out {
		out[z].Zone = m.topo.Zone(sim.ZoneID(z)).Name
	}
	for _, u := range m.ite.Units() {
		out[u.Zone()].ITDesignPower += u.DesignTotalPower()
		out[u.Zone()].ITElectric += u.State.ElectricPower()
	}
	for _, l := range m.loads {
		if l.Category() != sim.CategoryLighting && l.Category() != sim.CategoryElectricEquipment {
			continue
		}
		out[l.Zone()].OtherDesignPower += l.DesignPeak()
		out[l.Zone()].OtherElectric += l.Output().Total
	}
	return out
}

// conditions serves prescribed air states from schedules.
type conditions struct {
	pressure float64
	zoneT    map[sim.ZoneID]schedule.Source
	zoneW    map[sim.ZoneID]schedule.Source
	nodeT    map[string]schedule.Source
	nodeW    map[string]schedule.Source
}

func (c *conditions) ZoneAirTemp(z sim.ZoneID) float64 { return c.zoneT[z].CurrentValue() }
func (c *conditions) ZoneHumRat(z sim.ZoneID) float64  { return c.zoneW[z].CurrentValue() }
func (c *conditions) NodeTemp(n string) float64        { return c.nodeT[n].CurrentValue() }
func (c *conditions) NodeHumRat(n string) float64      { return c.nodeW[n].CurrentValue() }
func (c *conditions) BarometricPressure() float64      { return c.pressure }

// buildConditions binds every zone and every referenced supply node to a
// temperature and humidity schedule.
func (m *Model) buildConditions(spec *ModelSpec) (*conditions, error) {
	c := &conditions{
		pressure: spec.Site.Pressure,
		zoneT:    make(map[sim.ZoneID]schedule.Source),
		zoneW:    make(map[sim.ZoneID]schedule.Source),
		nodeT:    make(map[string]schedule.Source),
		nodeW:    make(map[string]schedule.Source),
	}
	if c.pressure == 0 {
		c.pressure = psychro.StdPressure
	}
	for _, zc := range spec.Conditions.Zones {
		z, ok := m.topo.ZoneByName(zc.Zone)
		if !ok {
			return nil, sim.NewConfigError(sim.ErrCodeInvalidZone, zc.Zone, "conditions for unknown zone")
		}
		var err error
		if c.zoneT[z], err = m.schedule(zc.Zone, zc.Temperature); err != nil {
			return nil, err
		}
		if c.zoneW[z], err = m.schedule(zc.Zone, zc.HumidityRatio); err != nil {
			return nil, err
		}
	}
	for _, nc := range spec.Conditions.Nodes {
		var err error
		if c.nodeT[nc.Node], err = m.schedule(nc.Node, nc.Temperature); err != nil {
			return nil, err
		}
		if c.nodeW[nc.Node], err = m.schedule(nc.Node, nc.HumidityRatio); err != nil {
			return nil, err
		}
	}
	for z := 0; z < m.topo.NumZones(); z++ {
		if _, ok := c.zoneT[sim.ZoneID(z)]; !ok {
			name := m.topo.Zone(sim.ZoneID(z)).Name
			return nil, sim.NewConfigError(sim.ErrCodeInvalidSchedule, name, "zone has no air conditions")
		}
	}
	for _, is := range spec.ITEquipment {
		if is.SupplyNode == "" {
			continue
		}
		if _, ok := c.nodeT[is.SupplyNode]; !ok {
			return nil, sim.NewConfigError(sim.ErrCodeInvalidSchedule, is.Name,
				"supply node %q has no air conditions", is.SupplyNode)
		}
	}
	return c, nil
}
