package voiceprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// FingerprintLength is the length of a voice fingerprint in hex chars.
const FingerprintLength = 64

// fingerprintPrefix is how many leading hex chars two fingerprints may
// share to be considered the same voice despite differing tails.
const fingerprintPrefix = 16

// Fingerprinter derives deterministic voice codes from recordings. It
// extracts a wider cepstral vector than the comparison path (20
// coefficients instead of 13) so small recordings still produce
// well-separated codes.
type Fingerprinter struct {
	ex *Extractor
}

// NewFingerprinter creates a Fingerprinter with default parameters.
func NewFingerprinter() *Fingerprinter {
	cfg := DefaultConfig()
	cfg.NumCoeffs = 20
	return &Fingerprinter{ex: NewExtractor(cfg)}
}

// Fingerprint returns the 64-char hex voice code of the recording.
// The same bytes always yield the same code, including bytes that do
// not decode as audio.
func (f *Fingerprinter) Fingerprint(audio []byte) string {
	v := f.ex.Features(audio)

	// Rounding before hashing gives the code a little tolerance: tiny
	// numeric drift between otherwise identical recordings collapses
	// onto the same canonical string.
	parts := make([]string, 0, 16)
	for i, c := range v.Cepstral {
		if i >= 13 {
			break
		}
		parts = append(parts, fmt.Sprintf("cc%d:%.2f", i, c))
	}
	for _, s := range []struct {
		key string
		val float64
	}{
		{"pitch_mean", v.Pitch},
		{"spectral_centroid", v.Centroid},
		{"rms_energy", v.RMSEnergy},
	} {
		if math.IsNaN(s.val) || math.IsInf(s.val, 0) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%.1f", s.key, s.val))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// MatchFingerprints reports whether two voice codes plausibly belong
// to the same voice. Codes match when they are identical, share the
// first 16 hex chars, or agree on more than half of their positions.
// Empty codes never match.
func MatchFingerprints(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if len(a) >= fingerprintPrefix && len(b) >= fingerprintPrefix &&
		a[:fingerprintPrefix] == b[:fingerprintPrefix] {
		return true
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	same := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same)/float64(len(a)) > 0.50
}
