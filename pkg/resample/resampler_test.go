package resample

import "testing"

func TestPullWithoutPush(t *testing.T) {
	r := New(1, 48000, 48000)
	defer r.Close()

	out := make([]float32, 64)
	if n := r.Pull(out); n != 0 {
		t.Errorf("Pull before any Push returned %d samples, want 0", n)
	}
}

func TestPushZeroSamples(t *testing.T) {
	r := New(2, 48000, 44100)
	defer r.Close()

	r.Push(nil)
	r.Push([]float32{})
	out := make([]float32, 32)
	if n := r.Pull(out); n != 0 {
		t.Errorf("Pull after empty pushes returned %d samples, want 0", n)
	}
}

func TestPullRespectsCapacity(t *testing.T) {
	r := New(1, 48000, 48000)
	defer r.Close()

	in := make([]float32, 2048)
	for i := range in {
		in[i] = 1
	}
	r.Push(in)

	out := make([]float32, 100)
	for i := 0; i < 50; i++ {
		if n := r.Pull(out); n > len(out) {
			t.Fatalf("Pull wrote %d samples into capacity %d", n, len(out))
		}
	}
}

func TestNeverReturnsMoreThanPushed(t *testing.T) {
	const pushed = 2048
	r := New(1, 48000, 48000)
	defer r.Close()

	in := make([]float32, pushed)
	for i := range in {
		in[i] = 0.5
	}
	r.Push(in)

	total := 0
	out := make([]float32, 256)
	for {
		n := r.Pull(out)
		if n == 0 {
			break
		}
		total += n
	}
	if total > pushed {
		t.Errorf("pulled %d samples from %d pushed at a 1:1 ratio", total, pushed)
	}
	if total == 0 {
		t.Error("pulled nothing after a large 1:1 push")
	}
}

func TestStereoOutputStaysFrameAligned(t *testing.T) {
	r := New(2, 24000, 48000)
	defer r.Close()

	in := make([]float32, 1024) // 512 frames
	for i := range in {
		in[i] = float32(i%2) - 0.5
	}
	r.Push(in)

	out := make([]float32, 4096)
	total := 0
	for {
		n := r.Pull(out)
		if n == 0 {
			break
		}
		total += n
	}
	if total%2 != 0 {
		t.Errorf("pulled %d samples, not a whole number of stereo frames", total)
	}
	if total == 0 {
		t.Error("upsampling 512 frames produced nothing")
	}
}

func TestResampleCombinedCall(t *testing.T) {
	r := New(1, 44100, 22050)
	defer r.Close()

	in := make([]float32, 512)
	out := make([]float32, 512)
	n := r.Resample(in, out)
	if n > len(out) {
		t.Fatalf("Resample wrote %d samples into capacity %d", n, len(out))
	}
	if n > r.Available()+n {
		t.Fatal("Available went negative")
	}
}

func TestAvailableMatchesPull(t *testing.T) {
	r := New(1, 48000, 48000)
	defer r.Close()

	r.Push(make([]float32, 1024))
	avail := r.Available()
	out := make([]float32, avail+64)
	if n := r.Pull(out); n != avail {
		t.Errorf("Pull returned %d samples, Available promised %d", n, avail)
	}
	if r.Available() != 0 {
		t.Errorf("Available = %d after a full drain, want 0", r.Available())
	}
}
