package hostapi

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const fallbackBufferDuration = 20 * time.Millisecond

// OtoAPI drives the host's default output device through oto.
//
// oto cannot enumerate named devices, so DeviceCount is zero and only
// the default stream can be opened. oto also allows a single context
// per process: the first open fixes the hardware format, and later
// opens are granted that same format regardless of the request, which
// is exactly the "hardware is authoritative" contract callers already
// have to honor.
type OtoAPI struct {
	logger *slog.Logger
	uuid   uuid.UUID

	mu   sync.Mutex
	ctx  *oto.Context
	spec StreamSpec
}

func NewOtoAPI() *OtoAPI {
	uuid := uuid.New()
	logger := slog.Default().With(
		"oto backend uuid", uuid,
	)
	return &OtoAPI{
		logger: logger,
		uuid:   uuid,
	}
}

func (api *OtoAPI) DeviceCount() int {
	return 0
}

func (api *OtoAPI) DeviceName(index int) string {
	return ""
}

func (api *OtoAPI) OpenStream(deviceIndex int, want StreamSpec, render RenderFunc) (Stream, StreamSpec, error) {
	if deviceIndex >= 0 {
		return nil, StreamSpec{}, ErrNoSuchDevice
	}

	api.mu.Lock()
	defer api.mu.Unlock()

	if api.ctx == nil {
		granted := want
		if granted.SampleRate <= 0 {
			granted.SampleRate = viper.GetInt("defaultsamplerate")
		}
		if granted.Channels <= 0 {
			granted.Channels = viper.GetInt("defaultchannels")
		}
		if granted.Channels > 2 {
			// oto renders mono or stereo only; the caller is told so
			// through the granted spec.
			granted.Channels = 2
		}

		bufferDuration := viper.GetDuration("bufferduration")
		if bufferDuration <= 0 {
			bufferDuration = fallbackBufferDuration
		}
		granted.BufferFrames = int(granted.SampleRate) * int(bufferDuration) / int(time.Second)

		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   granted.SampleRate,
			ChannelCount: granted.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   bufferDuration,
		})
		if err != nil {
			api.logger.Error("failed to create oto context", "err", err)
			return nil, StreamSpec{}, fmt.Errorf("opening default output device: %w", err)
		}
		<-ready

		api.ctx = ctx
		api.spec = granted
		api.logger.Debug(
			"opened oto context",
			"sampleRate", granted.SampleRate,
			"channels", granted.Channels,
			"bufferFrames", granted.BufferFrames,
		)
	}

	granted := api.spec
	reader := &renderReader{
		render:   render,
		channels: granted.Channels,
	}
	stream := &otoStream{
		logger: api.logger,
		reader: reader,
		player: api.ctx.NewPlayer(reader),
	}
	return stream, granted, nil
}

// --------------------------------------------------------------------------------

// otoStream is one oto player wired to a render callback.
type otoStream struct {
	logger *slog.Logger
	reader *renderReader

	mu           sync.Mutex
	player       *oto.Player
	playing      bool
	shutdownOnce sync.Once
}

func (s *otoStream) Pause(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return
	}
	if paused && s.playing {
		s.player.Pause()
		s.playing = false
	} else if !paused && !s.playing {
		s.player.Play()
		s.playing = true
	}
}

func (s *otoStream) Close() {
	s.shutdownOnce.Do(func() {
		// Detach first: once detach returns, no render callback is
		// running and none can start, so session state behind the
		// callback is safe to release.
		s.reader.detach()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.player != nil {
			if err := s.player.Close(); err != nil {
				s.logger.Error("error closing oto player", "err", err)
			}
			s.player = nil
		}
		s.playing = false
		s.logger.Debug("oto stream closed")
	})
}

// renderReader adapts oto's pull model to the render callback. Read
// runs on oto's playback goroutine: it is the hardware clock thread
// of this backend.
type renderReader struct {
	mu       sync.Mutex
	render   RenderFunc
	channels int
	scratch  []float32
}

func (r *renderReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.render == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	samples := len(p) / 4
	if cap(r.scratch) < samples {
		r.scratch = make([]float32, samples)
	}
	buf := r.scratch[:samples]
	r.render(buf)

	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(s))
	}
	return samples * 4, nil
}

func (r *renderReader) detach() {
	r.mu.Lock()
	r.render = nil
	r.mu.Unlock()
}
