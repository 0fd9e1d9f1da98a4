package platform

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/format"
)

// Renderer is the engine's render collaborator. The platform layer
// does not know or care what it computes beyond "fills the buffer
// with interleaved float samples".
type Renderer interface {
	// Render fills out in place. It is called on the hardware clock
	// thread, synchronously once per device buffer, and must not
	// block: there is no backpressure mechanism and no way to ask the
	// hardware to slow down.
	Render(out []float32)
}

// Engine is the mixer-facing half of the platform boundary: the
// render collaborator, the active flag the mixing bridge consults,
// and the output configuration the format negotiation writes back.
//
// SampleRate, OutputChannels, UpdateSize and MixFormat hold the
// engine's request until Open succeeds, after which they hold
// whatever the hardware actually granted.
type Engine struct {
	logger *slog.Logger
	uuid   uuid.UUID

	renderer Renderer

	// The single piece of state shared between the application thread
	// and the hardware clock thread. The bridge only ever does an
	// atomic load; no lock is taken inside the callback.
	active atomic.Bool

	SampleRate     int
	OutputChannels int
	UpdateSize     int // frames per render callback
	MixFormat      *format.WaveFormat

	session *DeviceSession
}

// NewEngine wraps a render collaborator with the output format the
// engine would like: sampleRate Hz and channels output channels. The
// hardware gets the final say when a device is opened.
func NewEngine(renderer Renderer, sampleRate, channels int) *Engine {
	uuid := uuid.New()
	logger := slog.Default().With(
		"engine uuid", uuid,
	)
	return &Engine{
		logger:         logger,
		uuid:           uuid,
		renderer:       renderer,
		SampleRate:     sampleRate,
		OutputChannels: channels,
	}
}

// SetActive toggles rendering. While inactive the mixing bridge
// keeps running on the hardware clock but emits pure silence. This is
// the only way to stop rendering short of closing the device.
func (e *Engine) SetActive(active bool) {
	e.active.Store(active)
}

func (e *Engine) Active() bool {
	return e.active.Load()
}

// Session returns the live device session, or nil when no device is
// open.
func (e *Engine) Session() *DeviceSession {
	return e.session
}
