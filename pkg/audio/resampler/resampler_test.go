package resampler

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

func TestResampleSameRate(t *testing.T) {
	in := sine(16000, 220, 0.1)
	out := Resample(in, 16000, 16000)
	if len(out) != len(in) {
		t.Fatalf("same-rate length changed: %d -> %d", len(in), len(out))
	}
}

func TestResampleDownLength(t *testing.T) {
	in := sine(48000, 220, 0.5)
	out := Resample(in, 48000, 16000)
	want := len(in) / 3
	// Resampler latency may shave a few samples off either end.
	if math.Abs(float64(len(out)-want)) > float64(want)/10 {
		t.Errorf("48k->16k length = %d, want ~%d", len(out), want)
	}
}

func TestResampleUpLength(t *testing.T) {
	in := sine(8000, 220, 0.5)
	out := Resample(in, 8000, 16000)
	want := len(in) * 2
	if math.Abs(float64(len(out)-want)) > float64(want)/10 {
		t.Errorf("8k->16k length = %d, want ~%d", len(out), want)
	}
}

func TestResamplePreservesAmplitude(t *testing.T) {
	in := sine(44100, 220, 0.5)
	out := Resample(in, 44100, 16000)

	peak := 0.0
	for _, v := range out {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak < 0.8 || peak > 1.2 {
		t.Errorf("peak after resample = %v, want ~1.0", peak)
	}
}

func TestLinear(t *testing.T) {
	in := sine(16000, 220, 0.25)

	down := Linear(in, 16000, 8000)
	if got, want := len(down), len(in)/2; got != want {
		t.Errorf("linear 16k->8k length = %d, want %d", got, want)
	}

	up := Linear(in, 8000, 16000)
	if got, want := len(up), len(in)*2; got != want {
		t.Errorf("linear 8k->16k length = %d, want %d", got, want)
	}

	// Interpolated values stay within the input range.
	for _, v := range up {
		if v > 1.0 || v < -1.0 {
			t.Fatalf("interpolated sample %v out of range", v)
		}
	}
}

func TestLinearEdgeCases(t *testing.T) {
	if out := Linear(nil, 16000, 8000); len(out) != 0 {
		t.Error("Linear(nil) returned samples")
	}
	in := []float64{0.5}
	if out := Linear(in, 16000, 16000); &out[0] != &in[0] {
		t.Error("same-rate input was copied")
	}
}
