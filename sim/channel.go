package sim

import "fmt"

// Channel is one kind of quantity a gain source publishes each timestep.
type Channel uint8

const (
	ChannelConvective          Channel = iota // W
	ChannelRadiant                            // W, long-wave
	ChannelReturnAirConvective                // W, delivered to a return-air node
	ChannelLatent                             // W
	ChannelReturnAirLatent                    // W, delivered to a return-air node
	ChannelCO2                                // m3/s
	ChannelGenericContaminant                 // m3/s

	NumChannels
)

var channelNames = [NumChannels]string{
	"convective",
	"radiant",
	"return_air_convective",
	"latent",
	"return_air_latent",
	"co2",
	"generic_contaminant",
}

func (c Channel) String() string {
	if c < NumChannels {
		return channelNames[c]
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

// IsReturnAir reports whether c carries heat to a return-air node.
func (c Channel) IsReturnAir() bool {
	return c == ChannelReturnAirConvective || c == ChannelReturnAirLatent
}

// ChannelMask is the set of channels a source populates.
type ChannelMask uint8

// ChannelsOf builds a mask from the listed channels.
func ChannelsOf(chs ...Channel) ChannelMask {
	var m ChannelMask
	for _, c := range chs {
		m |= 1 << c
	}
	return m
}

// Has reports whether c is bound.
func (m ChannelMask) Has(c Channel) bool { return m&(1<<c) != 0 }

// HasReturnAir reports whether any return-air channel is bound.
func (m ChannelMask) HasReturnAir() bool {
	return m.Has(ChannelReturnAirConvective) || m.Has(ChannelReturnAirLatent)
}
