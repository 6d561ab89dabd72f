package voiceprint

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// neutralScore is returned when similarity cannot be computed, leaving
// the accept decision to the caller's policy rather than forcing a
// rejection.
const neutralScore = 0.5

// Comparison is the outcome of scoring two recordings.
type Comparison struct {
	Score      float64    `json:"score"`
	Match      bool       `json:"match"`
	Confidence Confidence `json:"confidence"`
}

// Compare scores two FeatureVectors and applies the match threshold.
func Compare(a, b *FeatureVector) Comparison {
	score := Similarity(a.Flatten(), b.Flatten())
	return Comparison{
		Score:      score,
		Match:      score >= ThresholdMatch,
		Confidence: ConfidenceFor(score),
	}
}

// Similarity returns the cosine similarity of two feature vectors,
// clamped to [0, 1]. Vectors of unequal length are zero-padded to the
// longer one. Degenerate inputs (all zeros, or a numerically unstable
// cosine) fall back to Pearson correlation and finally to the neutral
// score.
func Similarity(a, b []float64) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return neutralScore
	}

	x := padSanitized(a, n)
	y := padSanitized(b, n)
	if allZero(x) || allZero(y) {
		return neutralScore
	}

	score := floats.Dot(x, y) / (floats.Norm(x, 2) * floats.Norm(y, 2))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		score = stat.Correlation(x, y, nil)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return neutralScore
		}
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// padSanitized copies v into a length-n slice, replacing NaN and Inf
// with zero.
func padSanitized(v []float64, n int) []float64 {
	out := make([]float64, n)
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		out[i] = x
	}
	return out
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
