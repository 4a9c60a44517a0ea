// Package building loads a zone internal-gains model from YAML, builds it
// into a registry of gain sources and IT equipment units, and steps it
// through time.
package building

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gainsim/gainsim/sim/trace"
)

// ModelSpec is the top-level model configuration.
// Loaded from YAML via LoadModelSpec(path).
type ModelSpec struct {
	Site        SiteSpec          `yaml:"site"`
	Schedules   []ScheduleSpec    `yaml:"schedules"`
	Curves      []CurveSpec       `yaml:"curves"`
	Zones       []ZoneSpec        `yaml:"zones"`
	People      []PeopleSpec      `yaml:"people,omitempty"`
	Lights      []LightsSpec      `yaml:"lights,omitempty"`
	Equipment   []EquipmentSpec   `yaml:"equipment,omitempty"`
	External    []ExternalSpec    `yaml:"external,omitempty"`
	ITEquipment []ITEquipmentSpec `yaml:"it_equipment,omitempty"`
	Conditions  ConditionsSpec    `yaml:"conditions"`
	Trace       string            `yaml:"trace,omitempty"` // none, zones or units
}

// SiteSpec holds run-wide settings.
type SiteSpec struct {
	Pressure         float64 `yaml:"pressure,omitempty"` // Pa; 0 means standard pressure
	TimestepsPerHour int     `yaml:"timesteps_per_hour"`
}

// ScheduleSpec is either a constant or a 24-value hourly profile.
type ScheduleSpec struct {
	Name     string    `yaml:"name"`
	Constant *float64  `yaml:"constant,omitempty"`
	Hourly   []float64 `yaml:"hourly,omitempty"`
}

// CurveSpec describes one performance curve.
type CurveSpec struct {
	Name         string      `yaml:"name"`
	Type         string      `yaml:"type"` // linear, quadratic, cubic, biquadratic, table_1d, table_2d
	Coefficients []float64   `yaml:"coefficients,omitempty"`
	MinX         *float64    `yaml:"min_x,omitempty"`
	MaxX         *float64    `yaml:"max_x,omitempty"`
	MinY         *float64    `yaml:"min_y,omitempty"`
	MaxY         *float64    `yaml:"max_y,omitempty"`
	MinOutput    *float64    `yaml:"min_output,omitempty"`
	MaxOutput    *float64    `yaml:"max_output,omitempty"`
	X            []float64   `yaml:"x,omitempty"`
	Y            []float64   `yaml:"y,omitempty"`
	Values       [][]float64 `yaml:"values,omitempty"`
}

// ZoneSpec declares a zone, its spaces and return-air nodes.
type ZoneSpec struct {
	Name            string      `yaml:"name"`
	Spaces          []SpaceSpec `yaml:"spaces"`
	ReturnNodes     []string    `yaml:"return_nodes,omitempty"`
	WindowReturnAir bool        `yaml:"window_return_air,omitempty"`
}

// SpaceSpec declares one space. Enclosure defaults to the zone name.
type SpaceSpec struct {
	Name      string  `yaml:"name"`
	FloorArea float64 `yaml:"floor_area"`
	Enclosure string  `yaml:"enclosure,omitempty"`
}

// TargetSpec places an object in a whole zone or a single space.
type TargetSpec struct {
	Zone  string `yaml:"zone,omitempty"`
	Space string `yaml:"space,omitempty"`
}

// LevelSpec is a design level with its entry method.
type LevelSpec struct {
	Method string  `yaml:"method,omitempty"` // level, per_area, per_person, area_per_person
	Value  float64 `yaml:"value"`
}

type PeopleSpec struct {
	Name             string `yaml:"name"`
	TargetSpec       `yaml:",inline"`
	Level            LevelSpec `yaml:"level"`
	Schedule         string    `yaml:"schedule"`
	Activity         string    `yaml:"activity_schedule"`
	RadiantFraction  float64   `yaml:"radiant_fraction"`
	SensibleFraction *float64  `yaml:"sensible_fraction,omitempty"`
	CO2Rate          float64   `yaml:"co2_rate,omitempty"`
}

type LightsSpec struct {
	Name              string `yaml:"name"`
	TargetSpec        `yaml:",inline"`
	Level             LevelSpec `yaml:"level"`
	Schedule          string    `yaml:"schedule"`
	RadiantFraction   float64   `yaml:"radiant_fraction"`
	VisibleFraction   float64   `yaml:"visible_fraction"`
	ReturnAirFraction float64   `yaml:"return_air_fraction,omitempty"`
	ReturnNode        string    `yaml:"return_node,omitempty"`
}

type EquipmentSpec struct {
	Name                   string `yaml:"name"`
	Category               string `yaml:"category"` // electric_equipment, gas_equipment, ...
	TargetSpec             `yaml:",inline"`
	Level                  LevelSpec `yaml:"level"`
	Schedule               string    `yaml:"schedule"`
	LatentFraction         float64   `yaml:"latent_fraction,omitempty"`
	RadiantFraction        float64   `yaml:"radiant_fraction,omitempty"`
	LostFraction           float64   `yaml:"lost_fraction,omitempty"`
	CO2Rate                float64   `yaml:"co2_rate,omitempty"`
	GenericContaminantRate float64   `yaml:"generic_contaminant_rate,omitempty"`
}

// ExternalSpec is a gain owned by a subsystem outside this model, given as
// fixed values scaled by a schedule.
type ExternalSpec struct {
	Name            string `yaml:"name"`
	Category        string `yaml:"category"`
	TargetSpec      `yaml:",inline"`
	Schedule        string  `yaml:"schedule"`
	Convective      float64 `yaml:"convective,omitempty"`
	Radiant         float64 `yaml:"radiant,omitempty"`
	ReturnAirConv   float64 `yaml:"return_air_convective,omitempty"`
	Latent          float64 `yaml:"latent,omitempty"`
	ReturnAirLatent float64 `yaml:"return_air_latent,omitempty"`
	ReturnNode      string  `yaml:"return_node,omitempty"`
}

// ITEquipmentSpec configures one IT equipment object. Design power is given
// either per unit (times Units) or per floor area.
type ITEquipmentSpec struct {
	Name       string `yaml:"name"`
	TargetSpec `yaml:",inline"`

	PowerPerUnit float64 `yaml:"power_per_unit,omitempty"` // W
	Units        float64 `yaml:"units,omitempty"`
	PowerPerArea float64 `yaml:"power_per_area,omitempty"` // W/m2

	FanPowerFraction     float64 `yaml:"fan_power_fraction"`
	DesignAirFlowPerW    float64 `yaml:"design_air_flow_per_watt"` // m3/s-W
	DesignInletTemp      float64 `yaml:"design_inlet_temperature"`
	DesignRecircFraction float64 `yaml:"design_recirculation_fraction,omitempty"`
	UPSEfficiency        float64 `yaml:"ups_efficiency"`
	UPSLossToZone        float64 `yaml:"ups_loss_to_zone_fraction"`

	OperatingSchedule string `yaml:"operating_schedule"`
	CPULoadSchedule   string `yaml:"cpu_load_schedule"`

	PowerCurve    string `yaml:"power_curve"`
	AirflowCurve  string `yaml:"airflow_curve"`
	FanPowerCurve string `yaml:"fan_power_curve"`
	RecircCurve   string `yaml:"recirculation_curve,omitempty"`
	UPSCurve      string `yaml:"ups_efficiency_curve,omitempty"`

	Class          string      `yaml:"class,omitempty"`
	AirConnection  string      `yaml:"air_connection,omitempty"`
	SupplyNode     string      `yaml:"supply_node,omitempty"`
	SupplyApproach *OffsetSpec `yaml:"supply_approach,omitempty"`
	ReturnApproach *OffsetSpec `yaml:"return_approach,omitempty"`
}

// OffsetSpec is a fixed temperature difference or the name of a schedule.
type OffsetSpec struct {
	Value    float64 `yaml:"value,omitempty"`
	Schedule string  `yaml:"schedule,omitempty"`
}

// ConditionsSpec prescribes the air state the model reads each step, by
// schedule name. A full simulation would take these from the zone heat
// balance and the air system.
type ConditionsSpec struct {
	Zones []ZoneConditionSpec `yaml:"zones"`
	Nodes []NodeConditionSpec `yaml:"nodes,omitempty"`
}

type ZoneConditionSpec struct {
	Zone          string `yaml:"zone"`
	Temperature   string `yaml:"temperature"`
	HumidityRatio string `yaml:"humidity_ratio"`
}

type NodeConditionSpec struct {
	Node          string `yaml:"node"`
	Temperature   string `yaml:"temperature"`
	HumidityRatio string `yaml:"humidity_ratio"`
}

// LoadModelSpec reads and parses a YAML model. Unknown keys are rejected.
func LoadModelSpec(path string) (*ModelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model spec: %w", err)
	}
	return ParseModelSpec(data)
}

// ParseModelSpec parses a YAML model held in memory.
func ParseModelSpec(data []byte) (*ModelSpec, error) {
	var spec ModelSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing model spec: %w", err)
	}
	return &spec, nil
}

// Validate checks the structural fields that do not need the built model:
// names, counts and ranges. Cross references are checked by Build.
func (s *ModelSpec) Validate() error {
	if s.Site.TimestepsPerHour < 1 || s.Site.TimestepsPerHour > 60 || 60%s.Site.TimestepsPerHour != 0 {
		return fmt.Errorf("site.timesteps_per_hour must divide 60, got %d", s.Site.TimestepsPerHour)
	}
	if s.Site.Pressure < 0 || math.IsNaN(s.Site.Pressure) || math.IsInf(s.Site.Pressure, 0) {
		return fmt.Errorf("site.pressure must be a finite non-negative number, got %f", s.Site.Pressure)
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, zones, units", s.Trace)
	}
	if len(s.Zones) == 0 {
		return fmt.Errorf("at least one zone is required")
	}
	for i, z := range s.Zones {
		if z.Name == "" {
			return fmt.Errorf("zones[%d]: name is required", i)
		}
		if len(z.Spaces) == 0 {
			return fmt.Errorf("zones[%d] %q: at least one space is required", i, z.Name)
		}
	}
	for i, sc := range s.Schedules {
		if (sc.Constant == nil) == (len(sc.Hourly) == 0) {
			return fmt.Errorf("schedules[%d] %q: exactly one of constant or hourly is required", i, sc.Name)
		}
	}
	for i, it := range s.ITEquipment {
		perUnit := it.PowerPerUnit > 0 || it.Units > 0
		if perUnit == (it.PowerPerArea > 0) {
			return fmt.Errorf("it_equipment[%d] %q: exactly one of power_per_unit/units or power_per_area is required", i, it.Name)
		}
		if err := validateFiniteNonNegative(fmt.Sprintf("it_equipment[%d].design_air_flow_per_watt", i), it.DesignAirFlowPerW); err != nil {
			return err
		}
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return fmt.Errorf("%s must be a finite non-negative number, got %f", name, val)
	}
	return nil
}
