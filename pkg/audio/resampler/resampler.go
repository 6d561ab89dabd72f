// Package resampler converts mono float64 audio between sample rates.
//
// The primary path uses the pure Go soxr-style resampler from
// github.com/tphakala/go-audio-resampling at high quality. When that
// fails (unsupported ratio, internal error), Resample falls back to
// linear interpolation, which is crude but never fails; voice
// verification prefers a degraded signal over no signal.
package resampler

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts mono samples from srcRate to dstRate.
// Same-rate input is returned as is.
func Resample(samples []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	out, err := resampleSoxr(samples, srcRate, dstRate)
	if err != nil {
		return Linear(samples, srcRate, dstRate)
	}
	return out
}

func resampleSoxr(samples []float64, srcRate, dstRate int) ([]float64, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("resampler: invalid rates %d -> %d", srcRate, dstRate)
	}
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("resampler: create: %w", err)
	}
	out, err := rs.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resampler: process: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("resampler: empty output")
	}
	return out, nil
}

// Linear resamples by linear interpolation. Used as the fallback path and
// exported for callers that want deterministic, dependency-free conversion.
func Linear(samples []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || len(samples) == 0 || srcRate <= 0 || dstRate <= 0 {
		return samples
	}
	ratio := float64(srcRate) / float64(dstRate)
	n := int(float64(len(samples)) / ratio)
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out
}
