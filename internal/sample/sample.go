// Package sample defines the decoded multi-channel sample used throughout the capture pipeline.
package sample

import (
	"fmt"
	"strings"
)

// MaxChannels is the number of channels a single byte can carry.
const MaxChannels = 8

// Levels holds one decoded level per channel. Channel 0 is the least
// significant bit of the source byte. Entries at or above the configured
// channel count are always false.
type Levels [MaxChannels]bool

// Bits returns the first n levels as 0/1 values.
func (l Levels) Bits(n int) []uint8 {
	if n > MaxChannels {
		n = MaxChannels
	}
	if n < 0 {
		n = 0
	}
	out := make([]uint8, n)
	for c := 0; c < n; c++ {
		if l[c] {
			out[c] = 1
		}
	}
	return out
}

// String renders all channels, channel 0 first.
func (l Levels) String() string {
	var sb strings.Builder
	for _, b := range l.Bits(MaxChannels) {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// Decoder turns raw capture bytes into channel levels.
type Decoder struct {
	channels int
}

// NewDecoder creates a decoder for the given channel count.
// One byte carries one sample, so channels must be within [1, MaxChannels].
func NewDecoder(channels int) (Decoder, error) {
	if channels < 1 || channels > MaxChannels {
		return Decoder{}, fmt.Errorf("decoder: channels must be between 1 and %d, got %d", MaxChannels, channels)
	}
	return Decoder{channels: channels}, nil
}

// Channels returns the number of decoded channels.
func (d Decoder) Channels() int {
	return d.channels
}

// Decode extracts bit c of b into channel c.
func (d Decoder) Decode(b byte) Levels {
	var l Levels
	for c := 0; c < d.channels; c++ {
		l[c] = (b>>c)&1 == 1
	}
	return l
}
