package voiceprint

import (
	"math"
	"strings"
	"testing"
)

func TestCompareSelf(t *testing.T) {
	e := NewExtractor(Config{})
	v := e.Features(wavBytes(t, 16000, 3.0, voiceLike(16000, 140)))

	c := Compare(v, v)
	if c.Score < 0.99 {
		t.Errorf("self score = %v, want ~1", c.Score)
	}
	if !c.Match {
		t.Error("self comparison did not match")
	}
	if c.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %v, want %v", c.Confidence, ConfidenceHigh)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"both empty", nil, nil, 0.5},
		{"all zeros", []float64{0, 0, 0}, []float64{0, 0, 0}, 0.5},
		{"one zero", []float64{1, 2}, []float64{0, 0}, 0.5},
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite clamped", []float64{1, 0}, []float64{-1, 0}, 0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"nan treated as zero", []float64{math.NaN(), 1}, []float64{0, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarityPadsShorterVector(t *testing.T) {
	a := []float64{1, 1, 0, 0}
	b := []float64{1, 1}

	got := Similarity(a, b)
	want := Similarity(a, []float64{1, 1, 0, 0})
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("padded similarity = %v, want %v", got, want)
	}
}

func TestSimilarityRange(t *testing.T) {
	vecs := [][]float64{
		{0.3, -0.2, 0.9},
		{-1, -1, -1},
		{5, 0, 0},
		{0.001, 0.002, -0.003},
	}
	for _, a := range vecs {
		for _, b := range vecs {
			s := Similarity(a, b)
			if s < 0 || s > 1 {
				t.Errorf("Similarity(%v, %v) = %v, out of [0,1]", a, b, s)
			}
		}
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Confidence
	}{
		{0.0, ConfidenceVeryLow},
		{0.09, ConfidenceVeryLow},
		{0.10, ConfidenceLow},
		{0.14, ConfidenceLow},
		{0.15, ConfidenceMedium},
		{0.49, ConfidenceMedium},
		{0.50, ConfidenceHigh},
		{1.0, ConfidenceHigh},
	}
	for _, tt := range tests {
		if got := ConfidenceFor(tt.score); got != tt.want {
			t.Errorf("ConfidenceFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestConfidenceText(t *testing.T) {
	for _, c := range []Confidence{
		ConfidenceVeryLow, ConfidenceLow, ConfidenceMedium, ConfidenceHigh, ConfidenceError,
	} {
		text, err := c.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", c, err)
		}
		var back Confidence
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != c {
			t.Errorf("round trip %v -> %q -> %v", c, text, back)
		}
	}

	var c Confidence
	if err := c.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText accepted unknown level")
	}
}

func TestFingerprint(t *testing.T) {
	f := NewFingerprinter()
	audio := wavBytes(t, 16000, 3.0, voiceLike(16000, 140))

	a := f.Fingerprint(audio)
	if len(a) != FingerprintLength {
		t.Fatalf("fingerprint length = %d, want %d", len(a), FingerprintLength)
	}
	if a != f.Fingerprint(audio) {
		t.Error("fingerprint is not deterministic")
	}

	// A spectrally distinct recording must not collide.
	other := f.Fingerprint(wavBytes(t, 16000, 3.0, func(i int) float64 {
		return 0.6 + 0.25*math.Sin(2*math.Pi*2500*float64(i)/16000)
	}))
	if a == other {
		t.Error("distinct recordings produced identical fingerprints")
	}

	// Non-audio bytes still fingerprint, stably.
	junk := f.Fingerprint([]byte("junk"))
	if len(junk) != FingerprintLength || junk != f.Fingerprint([]byte("junk")) {
		t.Error("corrupt input fingerprint unstable")
	}
}

func TestMatchFingerprints(t *testing.T) {
	a := strings.Repeat("a", 64)
	prefix := a[:16] + strings.Repeat("f", 48)

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", a, a, true},
		{"empty left", "", a, false},
		{"empty right", a, "", false},
		{"shared prefix", a, prefix, true},
		{"majority agreement", "aaaaaaaabb", "aaaaaaaacc", true},
		{"half agreement", "aaaaabbbbb", "aaaaaccccc", false},
		{"disjoint", strings.Repeat("0", 64), strings.Repeat("f", 64), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchFingerprints(tt.a, tt.b); got != tt.want {
				t.Errorf("MatchFingerprints = %v, want %v", got, tt.want)
			}
		})
	}
}
