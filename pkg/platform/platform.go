// Package platform is the host-facing boundary of the audio engine.
// It owns physical device lifecycle, negotiates the stream format
// between the engine's mixer and the hardware backend, and bridges
// the hardware clock to the engine's render function.
package platform

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/sys/cpu"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/internal/hostapi"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/format"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/wstr"
)

// NameLength is the capacity of the wide-string buffers in a
// DeviceDescriptor, in 16-bit units, terminator included.
const NameLength = 256

// DeviceRole tags how an enumerated device relates to the host's
// defaults.
type DeviceRole uint8

const (
	RoleNotDefault DeviceRole = iota
	RoleDefault
	RoleGlobalDefault
)

// DeviceDescriptor describes one enumerable output device. The wide
// name buffers are fixed-size and always NUL terminated; names that
// do not fit are silently truncated. OutputFormat is a guess derived
// from environment hints, since a true capability query is not
// available through the backend interface.
type DeviceDescriptor struct {
	DeviceID     [NameLength]uint16
	DisplayName  [NameLength]uint16
	Role         DeviceRole
	OutputFormat format.WaveFormat
}

// Context is the process-scoped state of the platform layer: the
// hardware backend plus a subsystem reference count. Contexts are
// injected into callers rather than held in a package singleton, so
// independent contexts can coexist (and be instantiated per test).
type Context struct {
	logger *slog.Logger
	uuid   uuid.UUID
	host   hostapi.HostAPI
	refs   atomic.Int32
}

func NewContext(host hostapi.HostAPI) *Context {
	uuid := uuid.New()
	logger := slog.Default().With(
		"platform context uuid", uuid,
	)
	return &Context{
		logger: logger,
		uuid:   uuid,
		host:   host,
	}
}

// AddRef takes one reference on the audio subsystem. The first
// reference initializes it and records the SIMD capability available
// to the mixer's inner loops.
func (c *Context) AddRef() {
	if c.refs.Add(1) == 1 {
		c.logger.Info(
			"audio subsystem initialized",
			"sse2", cpu.X86.HasSSE2,
			"avx2", cpu.X86.HasAVX2,
			"neon", cpu.ARM64.HasASIMD,
		)
	}
}

// Release drops one reference; the last reference tears the
// subsystem down.
func (c *Context) Release() {
	if c.refs.Add(-1) == 0 {
		c.logger.Info("audio subsystem released")
	}
}

// DeviceCount reports the number of addressable output devices.
// Always at least 1: index 0 is reserved for the default device, and
// higher indices address the backend's enumerated devices.
func (c *Context) DeviceCount() uint32 {
	return uint32(c.host.DeviceCount()) + 1
}

// DeviceDetails describes the device at index. An out-of-range index
// yields a zeroed descriptor, not an error. Descriptors are
// recomputed fresh on every call, never cached.
func (c *Context) DeviceDetails(index uint32) DeviceDescriptor {
	var details DeviceDescriptor
	if index > c.DeviceCount() {
		return details
	}

	details.DeviceID[0] = uint16('0') + uint16(index)

	var name string
	if index == 0 {
		name = "Default Device"
		details.Role = RoleGlobalDefault
	} else {
		name = c.host.DeviceName(int(index) - 1)
		details.Role = RoleNotDefault
	}
	wstr.UTF8ToUTF16([]byte(name), details.DisplayName[:])

	details.OutputFormat = format.New(defaultChannels(), defaultSampleRate())
	return details
}

// Default format hints, fed from the environment (AUDIO_FREQUENCY,
// AUDIO_CHANNELS) or config through viper; see utils.SetViperDefaults.
// The fallbacks apply even when no defaults were seeded.

func defaultSampleRate() int {
	if rate := viper.GetInt("defaultsamplerate"); rate > 0 {
		return rate
	}
	return 48000
}

func defaultChannels() int {
	if channels := viper.GetInt("defaultchannels"); channels > 0 {
		return channels
	}
	return 2
}
