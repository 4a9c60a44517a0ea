package loads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gainsim/gainsim/sim"
	"github.com/gainsim/gainsim/sim/schedule"
)

type fixedZones float64

func (f fixedZones) ZoneAirTemp(sim.ZoneID) float64 { return float64(f) }

// officeZone is zone "Z" with spaces "A" (60 m2) and "B" (40 m2) and one return node.
func officeZone(t *testing.T) (*sim.Topology, sim.ZoneID, sim.ReturnNodeID) {
	t.Helper()
	topo := sim.NewTopology()
	z, err := topo.AddZone("Z")
	require.NoError(t, err)
	enc, err := topo.AddEnclosure("Z")
	require.NoError(t, err)
	_, err = topo.AddSpace("A", z, enc, 60)
	require.NoError(t, err)
	_, err = topo.AddSpace("B", z, enc, 40)
	require.NoError(t, err)
	node, err := topo.AddReturnNode("Z-ret", z)
	require.NoError(t, err)
	return topo, z, node
}

func frac(v float64) *float64 { return &v }

func TestDistribute_ZoneTargetSplitsByArea(t *testing.T) {
	topo, z, _ := officeZone(t)

	got := Distribute(topo, Target{Zone: z})

	require.Len(t, got, 2)
	assert.InDelta(t, 0.6, got[0].Share, 1e-12)
	assert.InDelta(t, 0.4, got[1].Share, 1e-12)

	one := Distribute(topo, Target{Space: 1, SpaceLevel: true})
	assert.Equal(t, []Placement{{Space: 1, Share: 1}}, one)
}

func TestDesignLevel_Resolve(t *testing.T) {
	tests := []struct {
		level DesignLevel
		want  float64
	}{
		{DesignLevel{Method: LevelAbsolute, Value: 500}, 500},
		{DesignLevel{Method: LevelPerArea, Value: 10}, 1000},
		{DesignLevel{Method: LevelPerPerson, Value: 120}, 600},
		{DesignLevel{Method: LevelAreaPerPerson, Value: 20}, 5},
	}
	for _, tt := range tests {
		got, err := tt.level.Resolve(100, 5)
		require.NoError(t, err, tt.level.Method)
		assert.InDelta(t, tt.want, got, 1e-12, tt.level.Method)
	}
	_, err := DesignLevel{Method: "bogus", Value: 1}.Resolve(1, 1)
	assert.Error(t, err)
	_, err = DesignLevel{Method: LevelAbsolute, Value: -1}.Resolve(1, 1)
	assert.Error(t, err)
}

func TestLights_SplitsFractionsAndReturnAir(t *testing.T) {
	// GIVEN a 1000 W zone lighting object with 20% return air at half schedule
	topo, z, node := officeZone(t)
	reg := sim.NewRegistry(topo)
	l, err := NewLights(reg, LightsConfig{
		Name:              "Z lights",
		Target:            Target{Zone: z},
		Level:             DesignLevel{Method: LevelPerArea, Value: 10},
		Schedule:          schedule.Constant(0.5),
		RadiantFraction:   0.4,
		VisibleFraction:   0.2,
		ReturnAirFraction: 0.2,
		ReturnNode:        sim.NoReturnNode,
	}, 0)
	require.NoError(t, err)
	reg.Freeze()
	agg := sim.NewAggregator(reg)

	// WHEN the object updates
	l.Update(fixedZones(22))

	// THEN the zone sees the whole-object split
	assert.InDelta(t, 100.0, agg.SumByZone(z, sim.AllCategories, sim.ChannelConvective), 1e-9)
	assert.InDelta(t, 200.0, agg.SumByZone(z, sim.AllCategories, sim.ChannelRadiant), 1e-9)
	assert.InDelta(t, 100.0, agg.SumReturnAirByZone(z, node, sim.LightingCategories, sim.ChannelReturnAirConvective), 1e-9)
	assert.InDelta(t, 100.0, l.Output().ShortWave, 1e-9)
	assert.True(t, l.HasReturnAir())
	assert.InDelta(t, 1000.0, l.DesignPeak()*2, 1e-9)

	// AND space A carries 60% of it
	a, _ := topo.SpaceByName("A")
	assert.InDelta(t, 120.0, agg.SumBySpace(a, sim.LightingCategories, sim.ChannelRadiant), 1e-9)
}

func TestLights_FractionsAboveOne_ReturnsConfigError(t *testing.T) {
	topo, z, _ := officeZone(t)
	_, err := NewLights(sim.NewRegistry(topo), LightsConfig{
		Name:              "bad",
		Target:            Target{Zone: z},
		Level:             DesignLevel{Value: 100},
		Schedule:          schedule.Constant(1),
		RadiantFraction:   0.7,
		VisibleFraction:   0.2,
		ReturnAirFraction: 0.2,
		ReturnNode:        sim.NoReturnNode,
	}, 0)
	assert.True(t, sim.HasCode(err, sim.ErrCodeFractionSum))
}

func TestPeople_FixedSensibleFraction(t *testing.T) {
	topo, z, _ := officeZone(t)
	reg := sim.NewRegistry(topo)
	p, err := NewPeople(reg, PeopleConfig{
		Name:             "Z people",
		Target:           Target{Zone: z},
		Level:            DesignLevel{Method: LevelAreaPerPerson, Value: 10},
		Schedule:         schedule.Constant(1),
		Activity:         schedule.Constant(120),
		RadiantFraction:  0.3,
		SensibleFraction: frac(0.6),
		CO2Rate:          3.82e-8,
	})
	require.NoError(t, err)
	reg.Freeze()

	p.Update(fixedZones(24))

	// 10 people x 120 W = 1200 W; 720 sensible, 216 radiant
	assert.InDelta(t, 10.0, p.DesignPeople(), 1e-12)
	out := p.Output()
	assert.InDelta(t, 1200.0, out.Total, 1e-9)
	assert.InDelta(t, 216.0, out.Radiant, 1e-9)
	assert.InDelta(t, 504.0, out.Convective, 1e-9)
	assert.InDelta(t, 480.0, out.Latent, 1e-9)
	assert.InDelta(t, 1200*3.82e-8, out.CO2, 1e-15)

	agg := sim.NewAggregator(reg)
	assert.InDelta(t, 480.0, agg.SumByZone(z, sim.PeopleCategories, sim.ChannelLatent), 1e-9)
}

func TestPeople_CorrelationSensibleFallsWithTemperature(t *testing.T) {
	topo, z, _ := officeZone(t)
	reg := sim.NewRegistry(topo)
	p, err := NewPeople(reg, PeopleConfig{
		Name:            "Z people",
		Target:          Target{Zone: z},
		Level:           DesignLevel{Value: 1},
		Schedule:        schedule.Constant(1),
		Activity:        schedule.Constant(120),
		RadiantFraction: 0.3,
	})
	require.NoError(t, err)
	reg.Freeze()

	p.Update(fixedZones(20))
	cool := p.Output()
	p.Update(fixedZones(28))
	warm := p.Output()

	assert.Greater(t, cool.Convective+cool.Radiant, warm.Convective+warm.Radiant)
	assert.Less(t, cool.Latent, warm.Latent)
	for _, out := range []Output{cool, warm} {
		sensible := out.Convective + out.Radiant
		assert.GreaterOrEqual(t, sensible, 0.0)
		assert.LessOrEqual(t, sensible, out.Total)
	}
}

func TestEquipment_GasCO2AndLostFraction(t *testing.T) {
	topo, z, _ := officeZone(t)
	reg := sim.NewRegistry(topo)
	e, err := NewEquipment(reg, EquipmentConfig{
		Name:            "range",
		Category:        sim.CategoryGasEquipment,
		Target:          Target{Space: 1, SpaceLevel: true},
		Level:           DesignLevel{Value: 2000},
		Schedule:        schedule.Constant(0.5),
		LatentFraction:  0.1,
		RadiantFraction: 0.2,
		LostFraction:    0.3,
		CO2Rate:         1e-8,
	}, 0)
	require.NoError(t, err)
	reg.Freeze()
	agg := sim.NewAggregator(reg)

	e.Update(fixedZones(22))

	assert.InDelta(t, 400.0, agg.SumByZone(z, sim.EquipmentCategories, sim.ChannelConvective), 1e-9)
	assert.InDelta(t, 100.0, agg.SumByZone(z, sim.EquipmentCategories, sim.ChannelLatent), 1e-9)
	assert.InDelta(t, 1e-5, agg.SumByZone(z, sim.AllCategories, sim.ChannelCO2), 1e-15)
	assert.InDelta(t, 300.0, e.Output().Lost, 1e-9)
	assert.Equal(t, 0.0, agg.SumBySpace(0, sim.AllCategories, sim.ChannelConvective), "space A has no equipment")
}

func TestEquipment_ElectricWithCO2_Rejected(t *testing.T) {
	topo, z, _ := officeZone(t)
	_, err := NewEquipment(sim.NewRegistry(topo), EquipmentConfig{
		Name:     "plug",
		Category: sim.CategoryElectricEquipment,
		Target:   Target{Zone: z},
		Level:    DesignLevel{Value: 100},
		Schedule: schedule.Constant(1),
		CO2Rate:  1e-8,
	}, 0)
	assert.True(t, sim.HasCode(err, sim.ErrCodeInvalidValue))
}

func TestEquipment_NegativeSchedule_Rejected(t *testing.T) {
	topo, z, _ := officeZone(t)
	_, err := NewEquipment(sim.NewRegistry(topo), EquipmentConfig{
		Name:     "plug",
		Category: sim.CategoryElectricEquipment,
		Target:   Target{Zone: z},
		Level:    DesignLevel{Value: 100},
		Schedule: schedule.Constant(-1),
	}, 0)
	assert.True(t, sim.HasCode(err, sim.ErrCodeInvalidSchedule))
}

func TestExternal_PublishesReturnAirLatent(t *testing.T) {
	topo, z, node := officeZone(t)
	reg := sim.NewRegistry(topo)
	x, err := NewExternal(reg, ExternalConfig{
		Name:            "case",
		Category:        sim.CategoryRefrigerationCase,
		Target:          Target{Zone: z},
		Schedule:        schedule.Constant(1),
		Convective:      -800,
		Latent:          -150,
		ReturnAirLatent: -50,
		ReturnNode:      node,
	})
	require.NoError(t, err)
	reg.Freeze()
	agg := sim.NewAggregator(reg)

	x.Update(fixedZones(22))

	assert.InDelta(t, -800.0, agg.SumByZone(z, sim.RefrigerationCategories, sim.ChannelConvective), 1e-9)
	assert.InDelta(t, -50.0, agg.SumReturnAirByZone(z, node, sim.AllCategories, sim.ChannelReturnAirLatent), 1e-9)
	assert.InDelta(t, -1000.0, x.Output().Total, 1e-9)

	_, err = NewExternal(sim.NewRegistry(topo), ExternalConfig{
		Name: "lamp", Category: sim.CategoryLighting, Target: Target{Zone: z}, Schedule: schedule.Constant(1),
	})
	assert.Error(t, err, "core-owned categories are not external")
}
