package platform

import (
	"fmt"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/internal/hostapi"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/format"
)

// DeviceSession is one open hardware stream, owned exclusively by the
// engine that opened it. Created by Context.Open, destroyed by
// Context.Close.
type DeviceSession struct {
	stream hostapi.Stream

	// BufferFrames is the buffer size the hardware actually granted,
	// in frames.
	BufferFrames int

	// Format is the negotiated wave format the device runs at.
	Format format.WaveFormat
}

// Open negotiates a stream on the device at deviceIndex for the
// engine and starts the hardware clock. Index 0 requests the host
// default device; higher indices address enumerated devices.
//
// The engine's requested rate and channel count are a starting point
// only: hardware is authoritative, and the granted rate, channels and
// buffer size are written back into the engine so downstream
// rendering always targets the format the device actually honors.
//
// On failure nothing is left half-initialized: the engine keeps its
// previous configuration and has no session.
func (c *Context) Open(e *Engine, deviceIndex uint32) error {
	if e.session != nil {
		return ErrSessionOpen
	}

	want := hostapi.StreamSpec{
		SampleRate: e.SampleRate,
		Channels:   e.OutputChannels,
	}

	// The mixing bridge. The hardware clock thread lands here once
	// per device buffer: silence the whole buffer first so stale
	// samples can never reach the device, then let the engine render
	// over it if it is running. No locks, no allocation.
	bridge := func(out []float32) {
		for i := range out {
			out[i] = 0
		}
		if e.active.Load() {
			e.renderer.Render(out)
		}
	}

	stream, granted, err := c.host.OpenStream(int(deviceIndex)-1, want, bridge)
	if err != nil {
		c.logger.Error(
			"device open failed",
			"deviceIndex", deviceIndex,
			"err", err,
		)
		return fmt.Errorf("%w: %w", ErrDeviceOpenFailed, err)
	}

	session := &DeviceSession{
		stream:       stream,
		BufferFrames: granted.BufferFrames,
		Format:       format.New(granted.Channels, granted.SampleRate),
	}

	// Write the grant back before the clock starts, so the first
	// callback already sees the format the device runs at.
	e.UpdateSize = session.BufferFrames
	e.MixFormat = &session.Format
	e.OutputChannels = granted.Channels
	e.SampleRate = granted.SampleRate

	stream.Pause(false)
	e.session = session

	e.logger.Info(
		"device session opened",
		"deviceIndex", deviceIndex,
		"sampleRate", granted.SampleRate,
		"channels", granted.Channels,
		"bufferFrames", granted.BufferFrames,
	)
	return nil
}

// Close tears down the engine's device session. It blocks until the
// render callback can no longer be invoked, then releases session
// state; this ordering is what makes it safe for the engine to free
// renderer resources afterwards. Closing an engine with no open
// session is a no-op.
func (c *Context) Close(e *Engine) {
	if e.session == nil {
		return
	}
	e.session.stream.Close()
	e.session = nil
	e.logger.Info("device session closed")
}
