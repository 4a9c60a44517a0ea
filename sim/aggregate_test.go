package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vals(conv, rad, retConv, lat, retLat, co2, gc float64) [NumChannels]float64 {
	return [NumChannels]float64{conv, rad, retConv, lat, retLat, co2, gc}
}

func mixedFixtures() []fixtureSource {
	return []fixtureSource{
		{space: "A", category: CategoryOccupant, name: "people-a", values: vals(70.5, 40.25, 0, 55, 0, 3.8e-6, 0)},
		{space: "A", category: CategoryLighting, name: "lights-a", values: vals(120, 360, 240, 0, 0, 0, 0), node: "Z-ret-2"},
		{space: "A", category: CategoryElectricEquipment, name: "plug-a", values: vals(333.3, 111.1, 0, 12.5, 0, 0, 1e-7)},
		{space: "B", category: CategoryLighting, name: "lights-b", values: vals(40, 120, 80, 0, 0, 0, 0)},
		{space: "B", category: CategoryRefrigerationCase, name: "case-b", values: vals(-500, 0, 0, -120, 0, 0, 0)},
		{space: "B", category: CategoryGasEquipment, name: "range-b", values: vals(800, 200, 0, 300, 0, 2.1e-5, 0)},
		{space: "C", category: CategoryLighting, name: "lights-c", values: vals(10, 30, 0, 0, 0, 0, 0)},
		{space: "C", category: CategoryITEquipment, name: "rack-c", values: vals(5000, 0, 0, 0, 0, 0, 0)},
	}
}

func TestSumByZone_CategoryPartition(t *testing.T) {
	// GIVEN zone Z populated with devices of five distinct categories
	topo := twoSpaceZone(t)
	agg := NewAggregator(registerAll(t, topo, mixedFixtures()))
	z, _ := topo.ZoneByName("Z")

	// THEN for every channel the all-category sum equals the sum of single-category sums
	for c := Channel(0); c < NumChannels; c++ {
		total := agg.SumByZone(z, AllCategories, c)
		parts := 0.0
		for _, cat := range AllCategories.Categories() {
			parts += agg.SumByZone(z, CategoriesOf(cat), c)
		}
		assert.InDelta(t, total, parts, 1e-9, c.String())
	}
}

func TestSumBySpace_ScopeContainment(t *testing.T) {
	// GIVEN spaces A and B of zone Z each with their own lighting device
	topo := twoSpaceZone(t)
	agg := NewAggregator(registerAll(t, topo, mixedFixtures()))
	a, _ := topo.SpaceByName("A")
	b, _ := topo.SpaceByName("B")
	z, _ := topo.ZoneByName("Z")

	// THEN space sums only see their own devices and the zone sum is their total
	assert.Equal(t, 360.0, agg.SumBySpace(a, LightingCategories, ChannelRadiant))
	assert.Equal(t, 120.0, agg.SumBySpace(b, LightingCategories, ChannelRadiant))
	for c := Channel(0); c < NumChannels; c++ {
		want := agg.SumBySpace(a, AllCategories, c) + agg.SumBySpace(b, AllCategories, c)
		assert.Equal(t, want, agg.SumByZone(z, AllCategories, c), c.String())
	}
}

func TestSumBySpace_NoCategoryLeakage(t *testing.T) {
	topo := twoSpaceZone(t)
	agg := NewAggregator(registerAll(t, topo, mixedFixtures()))
	z, _ := topo.ZoneByName("Z")

	// equipment group excludes people, lights and refrigeration
	assert.InDelta(t, 333.3+800, agg.SumByZone(z, EquipmentCategories, ChannelConvective), 1e-9)
	assert.Equal(t, -500.0, agg.SumByZone(z, RefrigerationCategories, ChannelConvective))
	assert.Equal(t, 0.0, agg.SumByZone(z, HVACLossCategories, ChannelConvective))
	assert.Equal(t, 0.0, agg.SumByZone(z, CategorySet(0), ChannelConvective))
}

func TestAggregation_OrderIndependent(t *testing.T) {
	// GIVEN the same devices registered in many different orders
	topo := twoSpaceZone(t)
	base := mixedFixtures()
	ref := NewAggregator(registerAll(t, topo, base))

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		perm := append([]fixtureSource(nil), base...)
		rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		agg := NewAggregator(registerAll(t, topo, perm))

		// THEN every query returns bit-identical results
		for z := 0; z < topo.NumZones(); z++ {
			for c := Channel(0); c < NumChannels; c++ {
				assert.Equal(t, ref.SumByZone(ZoneID(z), AllCategories, c), agg.SumByZone(ZoneID(z), AllCategories, c))
			}
		}
		for s := 0; s < topo.NumSpaces(); s++ {
			assert.Equal(t, ref.SumBySpace(SpaceID(s), EquipmentCategories, ChannelLatent),
				agg.SumBySpace(SpaceID(s), EquipmentCategories, ChannelLatent))
		}
		for e := 0; e < topo.NumEnclosures(); e++ {
			assert.Equal(t, ref.SumByEnclosure(EnclosureID(e), AllCategories), agg.SumByEnclosure(EnclosureID(e), AllCategories))
		}
	}
}

func TestSumByEnclosure_SpansZones(t *testing.T) {
	// GIVEN an enclosure joining space A of zone Z and space C of zone Y
	topo := NewTopology()
	z, _ := topo.AddZone("Z")
	y, _ := topo.AddZone("Y")
	shared, _ := topo.AddEnclosure("shared")
	other, _ := topo.AddEnclosure("other")
	_, err := topo.AddSpace("A", z, shared, 10)
	require.NoError(t, err)
	_, err = topo.AddSpace("B", z, other, 10)
	require.NoError(t, err)
	_, err = topo.AddSpace("C", y, shared, 10)
	require.NoError(t, err)

	agg := NewAggregator(registerAll(t, topo, []fixtureSource{
		{space: "A", category: CategoryLighting, name: "l", values: vals(1, 100, 0, 0, 0, 0, 0)},
		{space: "B", category: CategoryLighting, name: "l", values: vals(1, 7, 0, 0, 0, 0, 0)},
		{space: "C", category: CategoryOccupant, name: "p", values: vals(1, 25, 0, 0, 0, 0, 0)},
	}))

	// THEN the enclosure radiant sum covers both zones' spaces and nothing else
	assert.Equal(t, 125.0, agg.SumByEnclosure(shared, AllCategories))
	assert.Equal(t, 100.0, agg.SumByEnclosure(shared, LightingCategories))
	assert.Equal(t, 7.0, agg.SumByEnclosure(other, AllCategories))
}

func TestSumReturnAir_FiltersByNode(t *testing.T) {
	topo := twoSpaceZone(t)
	agg := NewAggregator(registerAll(t, topo, mixedFixtures()))
	z, _ := topo.ZoneByName("Z")
	ret1, _ := topo.ReturnNodeByName("Z-ret-1")
	ret2, _ := topo.ReturnNodeByName("Z-ret-2")
	b, _ := topo.SpaceByName("B")

	// lights-a is pinned to ret-2; lights-b has no affinity and adopts ret-1
	assert.Equal(t, 320.0, agg.SumReturnAirByZone(z, NoReturnNode, LightingCategories, ChannelReturnAirConvective))
	assert.Equal(t, 240.0, agg.SumReturnAirByZone(z, ret2, LightingCategories, ChannelReturnAirConvective))
	assert.Equal(t, 80.0, agg.SumReturnAirByZone(z, ret1, LightingCategories, ChannelReturnAirConvective))
	assert.Equal(t, 80.0, agg.SumReturnAirBySpace(b, NoReturnNode, AllCategories, ChannelReturnAirConvective))
	assert.Equal(t, 0.0, agg.SumReturnAirBySpace(b, ret2, AllCategories, ChannelReturnAirConvective))
}

func TestSumReturnAir_NonReturnChannel_Panics(t *testing.T) {
	topo := twoSpaceZone(t)
	agg := NewAggregator(registerAll(t, topo, nil))
	assert.Panics(t, func() { agg.SumReturnAirByZone(0, NoReturnNode, AllCategories, ChannelConvective) })
}

func TestShareFraction_ScalesEveryChannel(t *testing.T) {
	// GIVEN a zone object split 75/25 across spaces A and B
	topo := twoSpaceZone(t)
	reg := NewRegistry(topo)
	z, _ := topo.ZoneByName("Z")
	spaces, shares := topo.AreaShares(z)
	require.Equal(t, []float64{0.75, 0.25}, shares)
	for i, s := range spaces {
		h, err := reg.Register(s, CategoryElectricEquipment, "E", ChannelsOf(ChannelConvective, ChannelLatent), shares[i], NoReturnNode)
		require.NoError(t, err)
		h.Publish(ChannelConvective, 1000)
		h.Publish(ChannelLatent, 200)
	}
	reg.Freeze()
	agg := NewAggregator(reg)

	// THEN each space sees its share and the zone sees the whole object
	assert.Equal(t, 750.0, agg.SumBySpace(spaces[0], AllCategories, ChannelConvective))
	assert.Equal(t, 50.0, agg.SumBySpace(spaces[1], AllCategories, ChannelLatent))
	assert.Equal(t, 1000.0, agg.SumByZone(z, AllCategories, ChannelConvective))
}

func TestNewAggregator_UnfrozenRegistry_Panics(t *testing.T) {
	reg := NewRegistry(twoSpaceZone(t))
	assert.Panics(t, func() { NewAggregator(reg) })
}

func TestBreakdown_AndBuildingTotal(t *testing.T) {
	topo := twoSpaceZone(t)
	agg := NewAggregator(registerAll(t, topo, mixedFixtures()))
	y, _ := topo.ZoneByName("Y")

	b := agg.Breakdown(y, ChannelConvective)
	assert.Equal(t, 10.0, b["lights"])
	assert.Equal(t, 5000.0, b["equipment"])
	assert.Equal(t, 0.0, b["people"])

	assert.InDelta(t, 5000.0, agg.BuildingTotal(CategoriesOf(CategoryITEquipment), ChannelConvective), 1e-12)
	assert.Len(t, agg.ZoneTotals(y, AllCategories), int(NumChannels))
}

func TestBreakdown_IncludesContaminantSources(t *testing.T) {
	// GIVEN zone Z with a contaminant source alongside the mixed devices
	topo := twoSpaceZone(t)
	fixtures := append(mixedFixtures(), fixtureSource{
		space: "A", category: CategoryContaminantSource, name: "voc-a", values: vals(0, 0, 0, 0, 0, 0, 2e-6),
	})
	agg := NewAggregator(registerAll(t, topo, fixtures))
	z, _ := topo.ZoneByName("Z")

	// WHEN the generic-contaminant channel is broken down
	b := agg.Breakdown(z, ChannelGenericContaminant)

	// THEN the source has its own group and the groups add up to the zone total
	assert.InDelta(t, 2e-6, b["contaminants"], 1e-18)
	sum := 0.0
	for _, v := range b {
		sum += v
	}
	assert.InDelta(t, agg.SumByZone(z, AllCategories, ChannelGenericContaminant), sum, 1e-18)
}
