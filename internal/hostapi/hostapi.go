// Package hostapi abstracts the host audio backend behind a narrow
// capability interface: enumerate output devices, open one stream on
// a device with a render callback, pause it and close it.
//
// Implementations include a real backend over oto and a scriptable
// dummy backend for tests.
package hostapi

import "errors"

var ErrNoSuchDevice = errors.New("no device with specified index")

// StreamSpec carries the negotiable half of a stream format. The
// sample encoding is not negotiable: streams are always interleaved
// 32-bit IEEE float.
type StreamSpec struct {
	SampleRate   int
	Channels     int
	BufferFrames int
}

// RenderFunc fills out with interleaved float32 samples. It is
// invoked on the backend's clock thread and must not block or
// allocate; any stall here is an audible glitch.
type RenderFunc func(out []float32)

// Stream is one open hardware stream. Streams start paused; call
// Pause(false) to start the clock. Close blocks until the render
// callback can no longer be invoked, then releases the stream.
type Stream interface {
	Pause(paused bool)
	Close()
}

// HostAPI is the capability surface a backend must provide.
type HostAPI interface {
	// DeviceCount reports how many named output devices the backend
	// can enumerate. Zero is valid; a backend may still be able to
	// open the default device.
	DeviceCount() int

	// DeviceName reports the display name of an enumerated device,
	// or "" when the index is out of range.
	DeviceName(index int) string

	// OpenStream opens the device at deviceIndex (negative for the
	// host default) as close to want as the hardware allows, and
	// reports what was actually granted: rate, channel count and
	// buffer size may all differ from the request. The callback is
	// not invoked before OpenStream returns.
	OpenStream(deviceIndex int, want StreamSpec, render RenderFunc) (Stream, StreamSpec, error)
}
