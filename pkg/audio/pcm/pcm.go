// Package pcm provides sample-level helpers for 16-bit mono PCM audio:
// int16/float conversion, energy measures, peak normalization, and
// energy-based silence trimming. All float samples are in [-1, 1).
package pcm

import "math"

// Samples converts little-endian int16 PCM bytes to float64 samples.
// A trailing odd byte is ignored.
func Samples(data []byte) []float64 {
	n := len(data) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(data[i*2]) | int16(data[i*2+1])<<8
		out[i] = float64(s) / 32768.0
	}
	return out
}

// Bytes converts float64 samples back to little-endian int16 PCM bytes,
// clamping values outside [-1, 1).
func Bytes(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		s := int16(v * 32767.0)
		if v > 1.0 {
			s = 32767
		} else if v < -1.0 {
			s = -32768
		}
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

// Seconds returns the duration in seconds of n samples at the given rate.
func Seconds(n, rate int) float64 {
	if rate <= 0 {
		return 0
	}
	return float64(n) / float64(rate)
}

// RMS returns the root-mean-square energy of the samples.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// MeanPower returns the mean of the squared samples.
func MeanPower(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += v * v
	}
	return sum / float64(len(samples))
}

// Variance returns the population variance of the samples.
func Variance(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	sum := 0.0
	for _, v := range samples {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(samples))
}

// PeakNormalize scales the samples in place so the largest magnitude
// becomes 1. Silent input is left untouched.
func PeakNormalize(samples []float64) {
	peak := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	inv := 1.0 / peak
	for i := range samples {
		samples[i] *= inv
	}
}

// TrimSilence removes leading and trailing low-energy audio. The signal is
// scanned in 20 ms frames; a frame counts as active when its RMS exceeds
// one tenth of the loudest frame's RMS (a 20 dB drop from peak). One frame
// of padding is kept on each side. Signals shorter than three frames are
// returned unchanged.
func TrimSilence(samples []float64, rate int) []float64 {
	frame := rate / 50 // 20ms
	if frame <= 0 {
		return samples
	}
	numFrames := len(samples) / frame
	if numFrames < 3 {
		return samples
	}

	energies := make([]float64, numFrames)
	peak := 0.0
	for f := 0; f < numFrames; f++ {
		e := RMS(samples[f*frame : (f+1)*frame])
		energies[f] = e
		if e > peak {
			peak = e
		}
	}
	if peak == 0 {
		return samples
	}
	thresh := peak * 0.1

	first := 0
	for f := 0; f < numFrames; f++ {
		if energies[f] > thresh {
			first = f
			break
		}
	}
	last := numFrames - 1
	for f := numFrames - 1; f >= first; f-- {
		if energies[f] > thresh {
			last = f
			break
		}
	}

	// One frame of padding on each side.
	if first > 0 {
		first--
	}
	if last < numFrames-1 {
		last++
	}

	end := (last + 1) * frame
	if end > len(samples) {
		end = len(samples)
	}
	return samples[first*frame : end]
}
