package platform

import "errors"

var (
	// ErrDeviceOpenFailed wraps the backend cause when no stream
	// could be opened on the requested device. Fatal for that open
	// attempt; there is no fallback format to retry with.
	ErrDeviceOpenFailed = errors.New("could not open audio device")

	// ErrSessionOpen is returned when opening an engine that already
	// has a live device session. Each engine owns at most one.
	ErrSessionOpen = errors.New("engine already has an open device session")
)
