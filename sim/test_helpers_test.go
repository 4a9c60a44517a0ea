package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// twoSpaceZone builds one zone "Z" with spaces "A" (30 m2) and "B" (10 m2)
// in a shared enclosure, plus a second zone "Y" with one space "C" in its own
// enclosure. Zone Z has return nodes "Z-ret-1" and "Z-ret-2".
func twoSpaceZone(t *testing.T) *Topology {
	t.Helper()
	topo := NewTopology()
	z, err := topo.AddZone("Z")
	require.NoError(t, err)
	y, err := topo.AddZone("Y")
	require.NoError(t, err)
	encZ, err := topo.AddEnclosure("enc-Z")
	require.NoError(t, err)
	encY, err := topo.AddEnclosure("enc-Y")
	require.NoError(t, err)
	_, err = topo.AddSpace("A", z, encZ, 30)
	require.NoError(t, err)
	_, err = topo.AddSpace("B", z, encZ, 10)
	require.NoError(t, err)
	_, err = topo.AddSpace("C", y, encY, 20)
	require.NoError(t, err)
	_, err = topo.AddReturnNode("Z-ret-1", z)
	require.NoError(t, err)
	_, err = topo.AddReturnNode("Z-ret-2", z)
	require.NoError(t, err)
	return topo
}

var allChannels = ChannelsOf(
	ChannelConvective, ChannelRadiant, ChannelReturnAirConvective, ChannelLatent,
	ChannelReturnAirLatent, ChannelCO2, ChannelGenericContaminant,
)

type fixtureSource struct {
	space    string
	category Category
	name     string
	values   [NumChannels]float64
	node     string // return node name, empty for none
}

func registerAll(t *testing.T, topo *Topology, fixtures []fixtureSource) *Registry {
	t.Helper()
	reg := NewRegistry(topo)
	for _, f := range fixtures {
		space, ok := topo.SpaceByName(f.space)
		require.True(t, ok, "space %s", f.space)
		node := NoReturnNode
		if f.node != "" {
			node, ok = topo.ReturnNodeByName(f.node)
			require.True(t, ok, "return node %s", f.node)
		}
		h, err := reg.Register(space, f.category, f.name, allChannels, 1, node)
		require.NoError(t, err)
		for c := Channel(0); c < NumChannels; c++ {
			h.Publish(c, f.values[c])
		}
	}
	reg.Freeze()
	return reg
}
