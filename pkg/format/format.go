// Package format describes the PCM wire format negotiated between
// the engine's mixer and the host audio hardware.
package format

import "fmt"

// Speaker position bits, laid out the way WAVEFORMATEXTENSIBLE
// channel masks are.
const (
	SpeakerFrontLeft uint32 = 1 << iota
	SpeakerFrontRight
	SpeakerFrontCenter
	SpeakerLowFrequency
	SpeakerBackLeft
	SpeakerBackRight
	SpeakerFrontLeftOfCenter
	SpeakerFrontRightOfCenter
	SpeakerBackCenter
	SpeakerSideLeft
	SpeakerSideRight
)

// Named layouts for the channel counts the mixer can produce.
const (
	MaskMono    = SpeakerFrontCenter
	MaskStereo  = SpeakerFrontLeft | SpeakerFrontRight
	Mask2Point1 = MaskStereo | SpeakerLowFrequency
	MaskQuad    = MaskStereo | SpeakerBackLeft | SpeakerBackRight
	Mask4Point1 = MaskQuad | SpeakerLowFrequency
	Mask5Point1 = MaskQuad | SpeakerFrontCenter | SpeakerLowFrequency
	Mask7Point1 = Mask5Point1 | SpeakerFrontLeftOfCenter | SpeakerFrontRightOfCenter
)

// Subtype tags the sample encoding of a stream.
type Subtype uint8

const (
	SubtypePCM Subtype = iota
	SubtypeIEEEFloat
)

// WaveFormat describes one interleaved PCM stream. BlockAlign and
// AvgBytesPerSec are derived from the other fields and never stored
// independently; construct values through New so they cannot drift.
type WaveFormat struct {
	SampleRate     int
	Channels       int
	BitsPerSample  int
	BlockAlign     int
	AvgBytesPerSec int
	ChannelMask    uint32
	Subtype        Subtype
}

// Mask returns the speaker assignment for a channel count. Counts
// outside {1, 2, 3, 4, 5, 6, 8} are a caller contract violation and
// panic; callers validate channel counts before requesting formats.
func Mask(channels int) uint32 {
	switch channels {
	case 1:
		return MaskMono
	case 2:
		return MaskStereo
	case 3:
		return Mask2Point1
	case 4:
		return MaskQuad
	case 5:
		return Mask4Point1
	case 6:
		return Mask5Point1
	case 8:
		return Mask7Point1
	}
	panic(fmt.Sprintf("format: unrecognized speaker layout for %d channels", channels))
}

// New builds the canonical 32-bit IEEE float format for a channel
// count and sample rate.
func New(channels, sampleRate int) WaveFormat {
	f := WaveFormat{
		SampleRate:    sampleRate,
		Channels:      channels,
		BitsPerSample: 32,
		ChannelMask:   Mask(channels),
		Subtype:       SubtypeIEEEFloat,
	}
	f.BlockAlign = f.Channels * (f.BitsPerSample / 8)
	f.AvgBytesPerSec = f.SampleRate * f.BlockAlign
	return f
}
