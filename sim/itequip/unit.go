// Package itequip models air-cooled IT equipment (data-center racks): curve
// driven CPU power, airflow and fan power, UPS losses, inlet/outlet air state,
// environmental-envelope accounting, and the zone return-air temperature
// blended from approach-temperature units.
//
// Units are evaluated once per zone timestep. A zone's return blend runs only
// after every unit in that zone has been evaluated; Model enforces the order.
package itequip

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/curve"
	"github.com/gainsim/gainsim/sim/loads"
	"github.com/gainsim/gainsim/sim/psychro"
	"github.com/gainsim/gainsim/sim/schedule"
)

const (
	// SmallAirVolFlow is the volumetric flow [m3/s] below which a unit moves no air.
	SmallAirVolFlow = 0.001
	// SmallTempDiff [K] snaps the outlet temperature onto the supply temperature.
	SmallTempDiff = 1e-5
	// designCurveTolerance is how far a curve may sit from 1 at design conditions before a warning.
	designCurveTolerance = 0.05
)

// AirConnection selects where a unit draws its inlet air from.
type AirConnection int

const (
	// ConnZoneAirNode draws zone mean air.
	ConnZoneAirNode AirConnection = iota
	// ConnAdjustedSupply mixes supply air with recirculated zone air.
	ConnAdjustedSupply
	// ConnApproachTemperature offsets the supply temperature and adjusts the zone return temperature.
	ConnApproachTemperature
	// ConnRoomAirModel is evaluated as ConnZoneAirNode; only UPS heat reaches the zone air.
	ConnRoomAirModel

	numConnections
)

var connectionNames = [numConnections]string{"zone_air_node", "adjusted_supply", "approach_temperature", "room_air_model"}

func (c AirConnection) String() string {
	if c >= 0 && c < numConnections {
		return connectionNames[c]
	}
	return fmt.Sprintf("connection(%d)", int(c))
}

// ParseAirConnection maps a configuration name to its AirConnection.
func ParseAirConnection(name string) (AirConnection, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ConnZoneAirNode, nil
	}
	for i, n := range connectionNames {
		if n == key {
			return AirConnection(i), nil
		}
	}
	return 0, fmt.Errorf("unknown air connection %q; valid: zone_air_node, adjusted_supply, approach_temperature, room_air_model", name)
}

// Offset is a temperature difference that is either scheduled or fixed.
type Offset struct {
	Schedule schedule.Source
	Fixed    float64
}

// Value returns the scheduled value when a schedule is set, the fixed one otherwise.
func (o Offset) Value() float64 {
	if o.Schedule != nil {
		return o.Schedule.CurrentValue()
	}
	return o.Fixed
}

// Conditions is the air state the unit reads each timestep, supplied by the
// zone heat balance and the air system.
type Conditions interface {
	ZoneAirTemp(zone sim.ZoneID) float64
	ZoneHumRat(zone sim.ZoneID) float64
	NodeTemp(node string) float64
	NodeHumRat(node string) float64
	BarometricPressure() float64
}

// Config is one resolved IT equipment object.
type Config struct {
	Name   string
	Target loads.Target

	DesignTotalPower     float64 // W, CPU plus fans
	FanPowerFraction     float64
	DesignAirFlowRate    float64 // m3/s
	DesignInletTemp      float64 // °C, the point the curves are normalized at
	DesignRecircFraction float64
	UPSEfficiency        float64
	UPSLossToZone        float64

	OperatingSchedule schedule.Source
	CPULoadSchedule   schedule.Source

	PowerCurve    curve.Curve // f(load, inlet dry-bulb)
	AirflowCurve  curve.Curve // f(load, inlet dry-bulb)
	FanPowerCurve curve.Curve // f(airflow fraction)
	RecircCurve   curve.Curve // optional, f(load, supply temperature)
	UPSCurve      curve.Curve // optional, f(part-load ratio)

	Class      Class
	Connection AirConnection
	SupplyNode string // empty when the unit has no supply air node

	SupplyApproach Offset
	ReturnApproach Offset
}

// State is the per-timestep result of Evaluate. It is rebuilt every
// timestep; nothing carries over.
type State struct {
	OperatingFraction float64
	LoadFraction      float64

	InletDryBulb   float64 // °C
	InletHumRat    float64 // kg/kg
	InletDewpoint  float64 // °C
	InletRH        float64 // %
	SupplyTemp     float64 // °C, valid when the unit has a supply node
	OutletDryBulb  float64 // °C
	RecircFraction float64

	AirflowFraction float64
	VolumetricFlow  float64 // m3/s
	AirMassFlow     float64 // kg/s

	CPUPower         float64 // W
	FanPower         float64
	UPSInput         float64 // CPU plus fan
	UPSPartLoadRatio float64
	UPSLoss          float64
	UPSGainToZone    float64
	ConvectiveGain   float64

	SupplyHeatIndex float64
	Excursion       Excursion
}

// ElectricPower is the total electric draw: CPU, fans and UPS losses.
func (s State) ElectricPower() float64 { return s.UPSInput + s.UPSLoss }

// Unit is one IT equipment object in a zone.
type Unit struct {
	cfg       Config
	zone      sim.ZoneID
	instances []loads.Instance
	designCPU float64
	designFan float64

	State    State
	Counters Counters
}

// NewUnit validates cfg and registers the unit's convective channel in every
// space it covers.
func NewUnit(reg *sim.Registry, cfg Config) (*Unit, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	topo := reg.Topology()
	zone := cfg.Target.Zone
	if cfg.Target.SpaceLevel {
		if !topo.ValidSpace(cfg.Target.Space) {
			return nil, sim.NewConfigError(sim.ErrCodeInvalidSpace, cfg.Name, "unknown space %d", cfg.Target.Space)
		}
		zone = topo.Space(cfg.Target.Space).Zone
	} else if int(zone) < 0 || int(zone) >= topo.NumZones() {
		return nil, sim.NewConfigError(sim.ErrCodeInvalidZone, cfg.Name, "unknown zone %d", zone)
	}

	u := &Unit{
		cfg:       cfg,
		zone:      zone,
		designCPU: cfg.DesignTotalPower * (1 - cfg.FanPowerFraction),
		designFan: cfg.DesignTotalPower * cfg.FanPowerFraction,
	}
	for _, p := range loads.Distribute(topo, cfg.Target) {
		h, err := reg.Register(p.Space, sim.CategoryITEquipment, cfg.Name,
			sim.ChannelsOf(sim.ChannelConvective), p.Share, sim.NoReturnNode)
		if err != nil {
			return nil, err
		}
		u.instances = append(u.instances, loads.Instance{Space: p.Space, Share: p.Share, Handle: h})
	}

	if cfg.Connection == ConnRoomAirModel {
		logrus.Warnf("IT equipment %q: room air model inlet connection is evaluated as zone_air_node", cfg.Name)
	}
	if v := cfg.PowerCurve.Value(1, cfg.DesignInletTemp); math.Abs(v-1) > designCurveTolerance {
		logrus.Warnf("IT equipment %q: power curve %q evaluates to %.3f at design conditions, expected 1",
			cfg.Name, cfg.PowerCurve.Name(), v)
	}
	if v := cfg.AirflowCurve.Value(1, cfg.DesignInletTemp); math.Abs(v-1) > designCurveTolerance {
		logrus.Warnf("IT equipment %q: airflow curve %q evaluates to %.3f at design conditions, expected 1",
			cfg.Name, cfg.AirflowCurve.Name(), v)
	}
	for field, src := range map[string]schedule.Source{"operating": cfg.OperatingSchedule, "CPU load": cfg.CPULoadSchedule} {
		if src.MaxValue() > 1 {
			logrus.Warnf("IT equipment %q: %s schedule maximum %.3f exceeds 1", cfg.Name, field, src.MaxValue())
		}
	}
	return u, nil
}

func validateConfig(cfg Config) error {
	bad := func(format string, args ...any) error {
		return sim.NewConfigError(sim.ErrCodeInvalidValue, cfg.Name, format, args...)
	}
	if !(cfg.DesignTotalPower >= 0) || math.IsInf(cfg.DesignTotalPower, 0) {
		return bad("design total power must be a finite non-negative number, got %g", cfg.DesignTotalPower)
	}
	if !(cfg.DesignAirFlowRate >= 0) || math.IsInf(cfg.DesignAirFlowRate, 0) {
		return bad("design air flow rate must be a finite non-negative number, got %g", cfg.DesignAirFlowRate)
	}
	for name, f := range map[string]float64{
		"fan power fraction":            cfg.FanPowerFraction,
		"design recirculation fraction": cfg.DesignRecircFraction,
		"UPS loss to zone fraction":     cfg.UPSLossToZone,
	} {
		if !(f >= 0 && f <= 1) {
			return sim.NewConfigError(sim.ErrCodeFractionSum, cfg.Name, "%s must be in [0,1], got %g", name, f)
		}
	}
	if !(cfg.UPSEfficiency > 0 && cfg.UPSEfficiency <= 1) {
		return bad("UPS efficiency must be in (0,1], got %g", cfg.UPSEfficiency)
	}
	if cfg.OperatingSchedule == nil || cfg.CPULoadSchedule == nil {
		return sim.NewConfigError(sim.ErrCodeInvalidSchedule, cfg.Name, "operating and CPU load schedules are required")
	}
	required := []struct {
		field string
		c     curve.Curve
		dims  int
	}{
		{"CPU power curve", cfg.PowerCurve, 2},
		{"airflow curve", cfg.AirflowCurve, 2},
		{"fan power curve", cfg.FanPowerCurve, 1},
	}
	for _, r := range required {
		if r.c == nil {
			return sim.NewConfigError(sim.ErrCodeInvalidCurve, cfg.Name, "%s is required", r.field)
		}
		if r.c.Dims() != r.dims {
			return sim.NewConfigError(sim.ErrCodeInvalidCurve, cfg.Name, "%s %q takes %d input(s), need %d",
				r.field, r.c.Name(), r.c.Dims(), r.dims)
		}
	}
	if cfg.RecircCurve != nil && cfg.RecircCurve.Dims() != 2 {
		return sim.NewConfigError(sim.ErrCodeInvalidCurve, cfg.Name, "recirculation curve %q must take 2 inputs", cfg.RecircCurve.Name())
	}
	if cfg.UPSCurve != nil && cfg.UPSCurve.Dims() != 1 {
		return sim.NewConfigError(sim.ErrCodeInvalidCurve, cfg.Name, "UPS efficiency curve %q must take 1 input", cfg.UPSCurve.Name())
	}
	if cfg.Class < 0 || cfg.Class >= numClasses {
		return bad("unknown environmental class %d", cfg.Class)
	}
	switch cfg.Connection {
	case ConnZoneAirNode, ConnRoomAirModel:
	case ConnAdjustedSupply, ConnApproachTemperature:
		if cfg.SupplyNode == "" {
			return bad("%s air connection requires a supply air node", cfg.Connection)
		}
	default:
		return bad("unknown air connection %d", cfg.Connection)
	}
	return nil
}

func (u *Unit) Name() string              { return u.cfg.Name }
func (u *Unit) Zone() sim.ZoneID          { return u.zone }
func (u *Unit) Connection() AirConnection { return u.cfg.Connection }
func (u *Unit) Class() Class              { return u.cfg.Class }
func (u *Unit) DesignTotalPower() float64 { return u.cfg.DesignTotalPower }
func (u *Unit) Instances() []loads.Instance {
	return u.instances
}

// ReturnApproach is the current return approach offset.
func (u *Unit) ReturnApproach() float64 { return u.cfg.ReturnApproach.Value() }

// ResetCounters clears the cumulative envelope counters. Only a new run does this.
func (u *Unit) ResetCounters() { u.Counters = Counters{} }

// Evaluate solves the unit for one zone timestep of dt hours and publishes
// its convective gain.
func (u *Unit) Evaluate(c Conditions, dt float64) {
	cfg := &u.cfg
	s := State{
		OperatingFraction: cfg.OperatingSchedule.CurrentValue(),
		LoadFraction:      cfg.CPULoadSchedule.CurrentValue(),
	}
	hasSupply := cfg.SupplyNode != ""
	zoneT := c.ZoneAirTemp(u.zone)
	zoneW := c.ZoneHumRat(u.zone)
	var supplyW float64
	if hasSupply {
		s.SupplyTemp = c.NodeTemp(cfg.SupplyNode)
		supplyW = c.NodeHumRat(cfg.SupplyNode)
	}

	// Inlet state.
	switch cfg.Connection {
	case ConnAdjustedSupply:
		s.RecircFraction = cfg.DesignRecircFraction
		if cfg.RecircCurve != nil {
			s.RecircFraction = cfg.DesignRecircFraction * cfg.RecircCurve.Value(s.LoadFraction, s.SupplyTemp)
		}
		s.InletDryBulb = zoneT*s.RecircFraction + s.SupplyTemp*(1-s.RecircFraction)
		s.InletHumRat = zoneW*s.RecircFraction + supplyW*(1-s.RecircFraction)
	case ConnApproachTemperature:
		s.InletDryBulb = s.SupplyTemp + cfg.SupplyApproach.Value()
		s.InletHumRat = supplyW
	default:
		s.InletDryBulb = zoneT
		s.InletHumRat = zoneW
	}

	pb := c.BarometricPressure()
	s.InletDewpoint = psychro.Dewpoint(s.InletHumRat, pb)
	s.InletRH = 100 * psychro.RelHumidity(s.InletDryBulb, s.InletHumRat, pb)

	// Power and airflow.
	s.CPUPower = math.Max(0, u.designCPU*s.OperatingFraction*cfg.PowerCurve.Value(s.LoadFraction, s.InletDryBulb))
	s.AirflowFraction = math.Max(0, cfg.AirflowCurve.Value(s.LoadFraction, s.InletDryBulb))
	s.VolumetricFlow = cfg.DesignAirFlowRate * s.OperatingFraction * s.AirflowFraction
	if s.VolumetricFlow < SmallAirVolFlow {
		s.VolumetricFlow = 0
	}
	s.FanPower = math.Max(0, u.designFan*s.OperatingFraction*cfg.FanPowerCurve.Value(s.AirflowFraction, 0))

	// UPS.
	s.UPSInput = s.CPUPower + s.FanPower
	if cfg.DesignTotalPower > 0 {
		s.UPSPartLoadRatio = s.UPSInput / cfg.DesignTotalPower
	}
	eff := cfg.UPSEfficiency
	if cfg.UPSCurve != nil {
		eff = cfg.UPSEfficiency * math.Max(0, cfg.UPSCurve.Value(s.UPSPartLoadRatio, 0))
	}
	s.UPSLoss = s.UPSInput * (1 - eff)
	s.UPSGainToZone = s.UPSLoss * cfg.UPSLossToZone

	// Outlet state.
	s.AirMassFlow = s.VolumetricFlow * psychro.AirDensity(pb, s.InletDryBulb, s.InletHumRat)
	s.OutletDryBulb = s.InletDryBulb
	if s.AirMassFlow > 0 {
		s.OutletDryBulb = s.InletDryBulb + s.UPSInput/(s.AirMassFlow*psychro.AirSpecificHeat(s.InletHumRat))
	}
	if hasSupply && math.Abs(s.OutletDryBulb-s.SupplyTemp) < SmallTempDiff {
		s.OutletDryBulb = s.SupplyTemp
	}
	if hasSupply && s.AirMassFlow > 0 && s.OutletDryBulb != s.SupplyTemp {
		s.SupplyHeatIndex = (s.InletDryBulb - s.SupplyTemp) / (s.OutletDryBulb - s.SupplyTemp)
	}

	if cfg.Connection == ConnRoomAirModel {
		s.ConvectiveGain = s.UPSGainToZone
	} else {
		s.ConvectiveGain = s.UPSInput + s.UPSGainToZone
	}

	if cfg.Class != ClassNone {
		s.Excursion = check(cfg.Class.Envelope(), s.InletDryBulb, s.InletDewpoint, s.InletRH, dt, &u.Counters)
	}

	u.State = s
	for _, inst := range u.instances {
		inst.Handle.Publish(sim.ChannelConvective, s.ConvectiveGain)
	}
}
