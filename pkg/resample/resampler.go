// Package resample converts interleaved float32 streams between two
// fixed sample rates with an explicit push/pull buffering contract.
//
// The conversion itself is delegated to the oov resampler; this
// package only owns the buffering discipline: input pushed through
// Push is converted as the filter allows and held until drained by
// Pull, so output is not guaranteed to be available in the same call
// that pushed its input, and Pull may return fewer samples than asked
// for. That is ordinary conversion latency, not an error.
package resample

import (
	"github.com/oov/audio/resampler"
	"github.com/spf13/viper"
)

const defaultQuality = 10

// Resampler wraps one directional conversion context, fixed to its
// channel count and rate pair for its lifetime. Not safe for
// concurrent use. Internal buffering grows without bound if Pull is
// never called.
type Resampler struct {
	channels int
	inRate   int
	outRate  int

	rs *resampler.Resampler

	// Deinterleaved input the filter has not consumed yet, one slice
	// per channel, all the same length.
	pending [][]float32

	// Per-channel conversion scratch, interleaved into queue.
	planar [][]float32

	// Converted interleaved samples awaiting Pull.
	queue []float32
}

// New creates a resampler converting interleaved float32 samples with
// the given channel count from inRate to outRate. The filter quality
// comes from the "resamplequality" viper key when set.
func New(channels, inRate, outRate int) *Resampler {
	quality := viper.GetInt("resamplequality")
	if quality <= 0 {
		quality = defaultQuality
	}
	return &Resampler{
		channels: channels,
		inRate:   inRate,
		outRate:  outRate,
		rs:       resampler.New(channels, inRate, outRate, quality),
		pending:  make([][]float32, channels),
		planar:   make([][]float32, channels),
	}
}

// Push feeds interleaved input samples into the resampler and runs as
// much conversion as the filter will take. A short final frame (fewer
// samples than channels) is dropped.
func (r *Resampler) Push(in []float32) {
	frames := len(in) / r.channels
	for ch := 0; ch < r.channels; ch++ {
		for i := 0; i < frames; i++ {
			r.pending[ch] = append(r.pending[ch], in[i*r.channels+ch])
		}
	}
	r.convert()
}

// Pull drains up to len(out) converted samples and returns the count
// actually written, which may be zero and may be less than asked for.
func (r *Resampler) Pull(out []float32) int {
	n := copy(out, r.queue)
	r.queue = r.queue[:copy(r.queue, r.queue[n:])]
	return n
}

// Resample pushes the input and immediately drains whatever output is
// available into out, returning the number of samples written.
func (r *Resampler) Resample(in, out []float32) int {
	r.Push(in)
	return r.Pull(out)
}

// Available reports how many converted samples a Pull could return
// right now.
func (r *Resampler) Available() int {
	return len(r.queue)
}

// Close releases the conversion context and any buffered samples. The
// resampler must not be used afterwards.
func (r *Resampler) Close() {
	r.rs = nil
	r.pending = nil
	r.planar = nil
	r.queue = nil
}

func (r *Resampler) convert() {
	frames := len(r.pending[0])
	if frames == 0 {
		return
	}

	// One extra frame of headroom for ratio rounding.
	outFrames := frames*r.outRate/r.inRate + 1
	for ch := 0; ch < r.channels; ch++ {
		if cap(r.planar[ch]) < outFrames {
			r.planar[ch] = make([]float32, outFrames)
		}
	}

	// The filter state is identical across channels, so every channel
	// consumes and produces the same counts; the first channel's
	// counts drive the reinterleave.
	read, written := 0, 0
	for ch := 0; ch < r.channels; ch++ {
		read, written = r.rs.ProcessFloat32(ch, r.pending[ch], r.planar[ch][:outFrames])
	}

	for i := 0; i < written; i++ {
		for ch := 0; ch < r.channels; ch++ {
			r.queue = append(r.queue, r.planar[ch][i])
		}
	}
	for ch := 0; ch < r.channels; ch++ {
		r.pending[ch] = r.pending[ch][:copy(r.pending[ch], r.pending[ch][read:])]
	}
}
