package hostapi

import (
	"errors"
	"sync"
)

var errForcedOpenFailure = errors.New("forced open failure")

// DummyDevice describes one fake output device served by a DummyAPI.
// Zero fields in Grant fall back to the requested value at open time.
type DummyDevice struct {
	Name  string
	Grant StreamSpec
}

// DummyAPI is a scriptable backend for tests: the device list, the
// granted formats and the clock are all under the caller's control.
// The hardware clock is driven by calling Tick on the opened stream.
//
// This backend is intended for testing only!
type DummyAPI struct {
	// Devices are the enumerable named devices.
	Devices []DummyDevice

	// DefaultGrant is what opening the default device yields.
	DefaultGrant StreamSpec

	// FailOpen forces every OpenStream call to fail.
	FailOpen bool

	mu   sync.Mutex
	last *DummyStream
}

func (api *DummyAPI) DeviceCount() int {
	return len(api.Devices)
}

func (api *DummyAPI) DeviceName(index int) string {
	if index < 0 || index >= len(api.Devices) {
		return ""
	}
	return api.Devices[index].Name
}

func (api *DummyAPI) OpenStream(deviceIndex int, want StreamSpec, render RenderFunc) (Stream, StreamSpec, error) {
	if api.FailOpen {
		return nil, StreamSpec{}, errForcedOpenFailure
	}

	var grant StreamSpec
	if deviceIndex < 0 {
		grant = api.DefaultGrant
	} else {
		if deviceIndex >= len(api.Devices) {
			return nil, StreamSpec{}, ErrNoSuchDevice
		}
		grant = api.Devices[deviceIndex].Grant
	}
	if grant.SampleRate == 0 {
		grant.SampleRate = want.SampleRate
	}
	if grant.Channels == 0 {
		grant.Channels = want.Channels
	}
	if grant.BufferFrames == 0 {
		grant.BufferFrames = 1024
	}

	stream := &DummyStream{
		render: render,
		spec:   grant,
		paused: true,
	}
	api.mu.Lock()
	api.last = stream
	api.mu.Unlock()
	return stream, grant, nil
}

// LastStream returns the most recently opened stream so tests can
// drive its clock.
func (api *DummyAPI) LastStream() *DummyStream {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.last
}

// DummyStream is the stream half of DummyAPI. The mutex makes Close
// block while a Tick is mid-callback, matching the real backends'
// guarantee that no callback runs once Close has returned.
type DummyStream struct {
	mu     sync.Mutex
	render RenderFunc
	spec   StreamSpec
	paused bool
	closed bool
}

func (s *DummyStream) Pause(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

func (s *DummyStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.render = nil
}

func (s *DummyStream) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *DummyStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Tick invokes the render callback once for the given frame count,
// as the hardware clock would, and returns the rendered buffer. The
// buffer is deliberately pre-filled with junk so callers can verify
// it was fully written. Returns nil when the stream is paused or
// closed.
func (s *DummyStream) Tick(frames int) []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.paused || s.render == nil {
		return nil
	}

	buf := make([]float32, frames*s.spec.Channels)
	for i := range buf {
		buf[i] = -12345
	}
	s.render(buf)
	return buf
}
