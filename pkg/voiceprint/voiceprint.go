// Package voiceprint turns short speech recordings into comparable
// speaker features and deterministic voice fingerprints.
//
// The pipeline has four stages:
//
//  1. Extractor decodes WAV audio, resamples to 16 kHz mono, trims
//     leading and trailing silence, and pools per-frame cepstral
//     coefficients into a fixed-length FeatureVector.
//  2. Fingerprinter reduces a FeatureVector to a canonical string and
//     hashes it with SHA-256, so the same recording always yields the
//     same 64-character code.
//  3. CheckQuality gates recordings on duration, loudness, and a
//     noise estimate before they are admitted for comparison.
//  4. Compare scores two FeatureVectors with cosine similarity and
//     maps the score onto a Confidence level.
//
// The similarity thresholds are deliberately permissive. Consumer
// microphones, codec loss, and day-to-day voice variation push scores
// for the same speaker well below what clean studio audio would give,
// so the baseline match bar sits at 0.15 rather than a textbook 0.7.
// Callers that need a hard security decision must not rely on a
// voiceprint match alone.
package voiceprint

import "fmt"

// Similarity thresholds applied to comparison scores in [0, 1].
const (
	// ThresholdLenient admits degraded or synthetic recordings.
	ThresholdLenient = 0.10

	// ThresholdMatch is the baseline bar for a same-speaker verdict.
	ThresholdMatch = 0.15

	// ThresholdStrict marks a high-confidence match.
	ThresholdStrict = 0.50
)

// Confidence grades a comparison score.
type Confidence int

const (
	ConfidenceVeryLow Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh

	// ConfidenceError marks a comparison that was short-circuited by a
	// processing failure rather than computed from audio.
	ConfidenceError
)

var confidenceNames = [...]string{"very_low", "low", "medium", "high", "error"}

func (c Confidence) String() string {
	if c < 0 || int(c) >= len(confidenceNames) {
		return fmt.Sprintf("confidence(%d)", int(c))
	}
	return confidenceNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Confidence) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(confidenceNames) {
		return nil, fmt.Errorf("voiceprint: invalid confidence %d", int(c))
	}
	return []byte(confidenceNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Confidence) UnmarshalText(text []byte) error {
	for i, name := range confidenceNames {
		if string(text) == name {
			*c = Confidence(i)
			return nil
		}
	}
	return fmt.Errorf("voiceprint: unknown confidence %q", text)
}

// ConfidenceFor grades a similarity score against the thresholds.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= ThresholdStrict:
		return ConfidenceHigh
	case score >= ThresholdMatch:
		return ConfidenceMedium
	case score >= ThresholdLenient:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}
