package mfcc

import (
	"math"
	"testing"
)

func sine(rate int, freq float64, seconds float64) []float64 {
	n := int(float64(rate) * seconds)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
	}
	return out
}

func TestComputeFrameCount(t *testing.T) {
	e := New(DefaultConfig())
	samples := sine(16000, 220, 1.0) // 16000 samples

	frames := e.Compute(samples)
	want := (16000-400)/160 + 1
	if len(frames) != want {
		t.Fatalf("frames = %d, want %d", len(frames), want)
	}
	for _, fr := range frames {
		if len(fr) != 13 {
			t.Fatalf("coefficients per frame = %d, want 13", len(fr))
		}
	}
}

func TestComputeShortInput(t *testing.T) {
	e := New(DefaultConfig())
	if frames := e.Compute(make([]float64, 100)); frames != nil {
		t.Errorf("expected nil for sub-frame input, got %d frames", len(frames))
	}
}

func TestComputeDeterministic(t *testing.T) {
	e := New(DefaultConfig())
	samples := sine(16000, 330, 0.5)

	a := e.Compute(samples)
	b := e.Compute(samples)
	for f := range a {
		for c := range a[f] {
			if a[f][c] != b[f][c] {
				t.Fatalf("frame %d coeff %d differs between runs", f, c)
			}
		}
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	e := New(DefaultConfig())
	samples := sine(16000, 220, 0.2)
	orig := make([]float64, len(samples))
	copy(orig, samples)

	e.Compute(samples)
	for i := range samples {
		if samples[i] != orig[i] {
			t.Fatal("Compute mutated its input")
		}
	}
}

func TestDistinctTonesDistinctCepstra(t *testing.T) {
	e := New(DefaultConfig())
	low := PoolMeanStd(e.Compute(sine(16000, 150, 0.5)))
	high := PoolMeanStd(e.Compute(sine(16000, 2500, 0.5)))

	if len(low) != 26 || len(high) != 26 {
		t.Fatalf("pooled lengths = %d, %d, want 26", len(low), len(high))
	}
	diff := 0.0
	for i := range low {
		diff += math.Abs(low[i] - high[i])
	}
	if diff < 1.0 {
		t.Errorf("pooled cepstra for 150Hz and 2.5kHz tones nearly identical (L1 diff %v)", diff)
	}
}

func TestPoolMeanStd(t *testing.T) {
	frames := [][]float64{
		{1, 10},
		{3, 10},
	}
	got := PoolMeanStd(frames)
	want := []float64{2, 10, 1, 0} // means then stds
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("pooled[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if PoolMeanStd(nil) != nil {
		t.Error("PoolMeanStd(nil) != nil")
	}
}

func TestSpectraPeakAtToneFrequency(t *testing.T) {
	e := New(DefaultConfig())
	const freq = 1000.0
	spectra := e.Spectra(sine(16000, freq, 0.5))
	if len(spectra) == 0 {
		t.Fatal("no spectra")
	}

	// The strongest bin of a mid-signal frame should sit near 1 kHz.
	frame := spectra[len(spectra)/2]
	maxBin := 0
	for k, p := range frame {
		if p > frame[maxBin] {
			maxBin = k
		}
	}
	got := e.BinFreq(maxBin)
	if math.Abs(got-freq) > 50 {
		t.Errorf("spectral peak at %.0f Hz, want ~%.0f Hz", got, freq)
	}
}
