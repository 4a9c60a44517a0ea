package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_InvalidSpace_ReturnsConfigError(t *testing.T) {
	reg := NewRegistry(twoSpaceZone(t))

	_, err := reg.Register(SpaceID(99), CategoryLighting, "L1", allChannels, 1, NoReturnNode)

	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeInvalidSpace))
}

func TestRegister_ShareFractionOutOfRange_ReturnsError(t *testing.T) {
	reg := NewRegistry(twoSpaceZone(t))
	for _, share := range []float64{0, -0.5, 1.01} {
		_, err := reg.Register(0, CategoryLighting, "L1", allChannels, share, NoReturnNode)
		assert.True(t, HasCode(err, ErrCodeInvalidValue), "share %g", share)
	}
}

func TestRegister_DuplicateSource_ReturnsError(t *testing.T) {
	reg := NewRegistry(twoSpaceZone(t))
	_, err := reg.Register(0, CategoryLighting, "L1", allChannels, 1, NoReturnNode)
	require.NoError(t, err)

	_, err = reg.Register(0, CategoryLighting, "L1", allChannels, 1, NoReturnNode)
	assert.True(t, HasCode(err, ErrCodeDuplicateSource))

	// same name under another category is a different source
	_, err = reg.Register(0, CategoryElectricEquipment, "L1", allChannels, 1, NoReturnNode)
	assert.NoError(t, err)
}

func TestRegister_ReturnNodeFromOtherZone_ReturnsError(t *testing.T) {
	topo := twoSpaceZone(t)
	reg := NewRegistry(topo)
	c, _ := topo.SpaceByName("C")
	node, _ := topo.ReturnNodeByName("Z-ret-1")

	_, err := reg.Register(c, CategoryLighting, "L1", allChannels, 1, node)
	assert.True(t, HasCode(err, ErrCodeInvalidValue))
}

func TestRegister_AfterFreeze_ReturnsFrozenError(t *testing.T) {
	reg := NewRegistry(twoSpaceZone(t))
	reg.Freeze()

	_, err := reg.Register(0, CategoryLighting, "L1", allChannels, 1, NoReturnNode)

	assert.True(t, HasCode(err, ErrCodeRegistryFrozen))
	assert.Equal(t, 0, reg.Len())
}

func TestHandle_UnboundChannel_ReadsZero(t *testing.T) {
	// GIVEN a source that only binds the convective channel
	reg := NewRegistry(twoSpaceZone(t))
	h, err := reg.Register(0, CategoryElectricEquipment, "E1", ChannelsOf(ChannelConvective), 1, NoReturnNode)
	require.NoError(t, err)
	reg.Freeze()

	// WHEN the publisher writes to a channel it did not bind
	h.Publish(ChannelConvective, 100)
	h.Publish(ChannelLatent, 50)

	// THEN the unbound channel stays at the semantic zero
	agg := NewAggregator(reg)
	assert.Equal(t, 100.0, agg.SumBySpace(0, AllCategories, ChannelConvective))
	assert.Equal(t, 0.0, agg.SumBySpace(0, AllCategories, ChannelLatent))
}

func TestHandle_ResetZeroesAllChannels(t *testing.T) {
	reg := NewRegistry(twoSpaceZone(t))
	h, err := reg.Register(0, CategoryOccupant, "P1", allChannels, 1, NoReturnNode)
	require.NoError(t, err)
	h.Publish(ChannelConvective, 10)
	h.Publish(ChannelCO2, 1e-6)

	h.Reset()

	for c := Channel(0); c < NumChannels; c++ {
		assert.Equal(t, 0.0, h.Value(c), c.String())
	}
}

func TestFreeze_AssignsFirstReturnNodeToReturnAirSources(t *testing.T) {
	topo := twoSpaceZone(t)
	reg := NewRegistry(topo)
	h, err := reg.Register(0, CategoryLighting, "L1", ChannelsOf(ChannelReturnAirConvective), 1, NoReturnNode)
	require.NoError(t, err)
	plain, err := reg.Register(0, CategoryElectricEquipment, "E1", ChannelsOf(ChannelConvective), 1, NoReturnNode)
	require.NoError(t, err)

	reg.Freeze()

	first, _ := topo.ReturnNodeByName("Z-ret-1")
	assert.Equal(t, first, h.Source().ReturnNode)
	assert.Equal(t, NoReturnNode, plain.Source().ReturnNode, "sources without return-air channels keep no affinity")
}

func TestFreeze_CanonicalOrderIndependentOfRegistration(t *testing.T) {
	topo := twoSpaceZone(t)
	forward := registerAll(t, topo, []fixtureSource{
		{space: "A", category: CategoryLighting, name: "b"},
		{space: "A", category: CategoryOccupant, name: "a"},
		{space: "A", category: CategoryLighting, name: "a"},
	})
	names := func(reg *Registry) []string {
		var out []string
		for _, i := range reg.SpaceSources(0) {
			s := reg.Source(i)
			out = append(out, s.Category.String()+"/"+s.Name)
		}
		return out
	}
	assert.Equal(t, []string{"people/a", "lights/a", "lights/b"}, names(forward))
}
