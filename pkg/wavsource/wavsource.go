// Package wavsource renders audio decoded from WAV streams. A Source
// implements the platform render collaborator: each callback is
// satisfied from the decoded samples, and anything past the end of
// the data comes out as silence (or wraps around when looping).
package wavsource

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

var errInvalidWav = errors.New("error while decoding audio stream")

// Source holds fully decoded interleaved float32 samples plus a read
// cursor. The mutex guards the cursor and the close path, so a Source
// may be closed while a render is in flight.
type Source struct {
	logger *slog.Logger
	uuid   uuid.UUID

	mu      sync.Mutex
	closer  io.Closer // nil for memory-backed sources
	samples []float32
	pos     int
	loop    bool

	sampleRate int
	channels   int

	shutdownOnce sync.Once
}

// NewFileSource decodes a .WAV file into a render source. With loop
// set the samples repeat forever; otherwise playback runs once and
// then renders silence.
func NewFileSource(audioFilePath string, loop bool) (*Source, error) {
	f, err := os.Open(audioFilePath)
	if err != nil {
		slog.Error(
			"could not open audio file",
			"audioFile", audioFilePath,
			"err", err,
		)
		return nil, err
	}
	src, err := newSource(f, f, loop)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// NewMemSource decodes WAV data held in memory into a render source.
func NewMemSource(data []byte, loop bool) (*Source, error) {
	return newSource(bytes.NewReader(data), nil, loop)
}

func newSource(r io.ReadSeeker, closer io.Closer, loop bool) (*Source, error) {
	uuid := uuid.New()
	logger := slog.Default().With(
		"wav source uuid", uuid,
	)

	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		logger.Error("could not decode audio stream", "err", decoder.Err())
		return nil, errInvalidWav
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		logger.Error("could not read PCM data", "err", err)
		return nil, err
	}

	scale := float32(int(1) << (decoder.BitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}

	logger.Debug(
		"loaded audio stream",
		"sampleRate", decoder.SampleRate,
		"channels", decoder.NumChans,
		"samples", len(samples),
		"loop", loop,
	)

	return &Source{
		logger:     logger,
		uuid:       uuid,
		closer:     closer,
		samples:    samples,
		loop:       loop,
		sampleRate: int(decoder.SampleRate),
		channels:   int(decoder.NumChans),
	}, nil
}

// Render fills out with the next samples from the stream, wrapping
// around when looping and zero-filling once the data runs out.
func (s *Source) Render(out []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for n < len(out) {
		if s.pos >= len(s.samples) {
			if !s.loop || len(s.samples) == 0 {
				break
			}
			s.pos = 0
		}
		c := copy(out[n:], s.samples[s.pos:])
		n += c
		s.pos += c
	}
	for ; n < len(out); n++ {
		out[n] = 0
	}
}

func (s *Source) SampleRate() int {
	return s.sampleRate
}

func (s *Source) Channels() int {
	return s.channels
}

// Duration reports how long one pass over the decoded data plays for.
func (s *Source) Duration() time.Duration {
	frames := len(s.samples) / s.channels
	return time.Duration(frames) * time.Second / time.Duration(s.sampleRate)
}

// Done reports whether a non-looping source has rendered all its
// data. A looping source is never done.
func (s *Source) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loop && s.pos >= len(s.samples)
}

// Close releases the backing stream. Renders after Close produce
// silence.
func (s *Source) Close() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.samples = nil
		if s.closer != nil {
			s.closer.Close()
		}
		s.logger.Debug("wav source closed")
	})
}
