package cmd

import (
	"encoding/json"
	"io"

	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/building"
	"github.com/gainsim/gainsim/sim/trace"
)

// Report is the JSON document printed after a run.
type Report struct {
	Steps     int                 `json:"steps"`
	StepHours float64             `json:"step_hours"`
	Zones     []ZoneReport        `json:"zones"`
	Units     []UnitReport        `json:"it_equipment,omitempty"`
	Trace     *trace.TraceSummary `json:"trace_summary,omitempty"`
}

// ZoneReport holds one zone's gains at the last step, by report group.
type ZoneReport struct {
	Name             string             `json:"name"`
	Convective       map[string]float64 `json:"convective_w"`
	Radiant          map[string]float64 `json:"radiant_w"`
	Latent           map[string]float64 `json:"latent_w"`
	ReturnAir        float64            `json:"return_air_convective_w"`
	ITReturnTemp     *float64           `json:"it_return_temperature_c,omitempty"`
	ITDesignPower    float64            `json:"it_design_power_w"`
	OtherDesignPower float64            `json:"other_electric_design_power_w"`
}

// UnitReport holds one IT unit's last state and its envelope counters.
type UnitReport struct {
	Name              string  `json:"name"`
	InletDryBulb      float64 `json:"inlet_dry_bulb_c"`
	OutletDryBulb     float64 `json:"outlet_dry_bulb_c"`
	CPUPower          float64 `json:"cpu_w"`
	FanPower          float64 `json:"fan_w"`
	UPSLoss           float64 `json:"ups_loss_w"`
	SupplyHeatIndex   float64 `json:"supply_heat_index"`
	HoursOutOfRange   float64 `json:"hours_out_of_range"`
	HoursAboveDryBulb float64 `json:"hours_above_dry_bulb"`
	HoursEvaluated    float64 `json:"hours_evaluated"`
}

// NewReport collects the report for m's current state.
func NewReport(m *building.Model) *Report {
	r := &Report{Steps: m.Steps(), StepHours: m.StepHours()}
	agg := m.Aggregator()
	electric := m.ElectricSummary()
	for z := 0; z < m.Topology().NumZones(); z++ {
		zone := sim.ZoneID(z)
		zr := ZoneReport{
			Name:             m.Topology().Zone(zone).Name,
			Convective:       agg.Breakdown(zone, sim.ChannelConvective),
			Radiant:          agg.Breakdown(zone, sim.ChannelRadiant),
			Latent:           agg.Breakdown(zone, sim.ChannelLatent),
			ReturnAir:        agg.SumReturnAirByZone(zone, sim.NoReturnNode, sim.AllCategories, sim.ChannelReturnAirConvective),
			ITDesignPower:    electric[z].ITDesignPower,
			OtherDesignPower: electric[z].OtherDesignPower,
		}
		if t, ok := m.ITEquipment().ZoneReturnTemp(zone); ok {
			zr.ITReturnTemp = &t
		}
		r.Zones = append(r.Zones, zr)
	}
	for _, u := range m.ITEquipment().Units() {
		r.Units = append(r.Units, UnitReport{
			Name:              u.Name(),
			InletDryBulb:      u.State.InletDryBulb,
			OutletDryBulb:     u.State.OutletDryBulb,
			CPUPower:          u.State.CPUPower,
			FanPower:          u.State.FanPower,
			UPSLoss:           u.State.UPSLoss,
			SupplyHeatIndex:   u.State.SupplyHeatIndex,
			HoursOutOfRange:   u.Counters.OutOfRange,
			HoursAboveDryBulb: u.Counters.AboveDryBulb,
			HoursEvaluated:    u.Counters.Evaluated,
		})
	}
	if m.Trace().Enabled() {
		r.Trace = trace.Summarize(m.Trace())
	}
	return r
}

func writeReport(w io.Writer, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
