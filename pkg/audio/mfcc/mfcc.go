// Package mfcc computes mel-frequency cepstral coefficients from mono
// float audio.
//
// The pipeline is the standard speaker-recognition front end: pre-emphasis,
// overlapping Hamming-windowed frames, power spectrum via FFT, triangular
// mel filterbank, log compression, and a DCT-II that decorrelates the log
// mel energies into cepstral coefficients. The lower coefficients capture
// vocal-tract shape (speaker timbre) rather than phonetic content, which
// is what voice verification compares.
//
// Default parameters for 16 kHz audio:
//
//	FrameLength: 400 (25 ms)
//	FrameShift:  160 (10 ms)
//	NumMels:     40
//	NumCoeffs:   13
//	PreEmphasis: 0.97
package mfcc

import "math"

// Config controls cepstral feature extraction.
type Config struct {
	SampleRate  int     // audio sample rate in Hz (default 16000)
	FrameLength int     // frame length in samples (default 400 = 25ms)
	FrameShift  int     // hop between frames in samples (default 160 = 10ms)
	NumMels     int     // mel filterbank channels (default 40)
	NumCoeffs   int     // cepstral coefficients kept after the DCT (default 13)
	PreEmphasis float64 // pre-emphasis coefficient (default 0.97)
	EnergyFloor float64 // floor applied before the log (default 1e-10)
}

// DefaultConfig returns the standard config for 16 kHz speech.
func DefaultConfig() Config {
	return Config{
		SampleRate:  16000,
		FrameLength: 400,
		FrameShift:  160,
		NumMels:     40,
		NumCoeffs:   13,
		PreEmphasis: 0.97,
		EnergyFloor: 1e-10,
	}
}

// Extractor computes cepstral coefficients from float64 samples.
type Extractor struct {
	cfg     Config
	fftSize int
	window  []float64
	melBank [][]float64
	dct     [][]float64
}

// New creates an Extractor with the given config.
func New(cfg Config) *Extractor {
	fftSize := nextPow2(cfg.FrameLength)
	return &Extractor{
		cfg:     cfg,
		fftSize: fftSize,
		window:  hammingWindow(cfg.FrameLength),
		melBank: melFilterbank(cfg.NumMels, fftSize, cfg.SampleRate),
		dct:     dctMatrix(cfg.NumCoeffs, cfg.NumMels),
	}
}

// Config returns the extractor's configuration.
func (e *Extractor) Config() Config { return e.cfg }

// BinFreq returns the center frequency in Hz of FFT bin k.
func (e *Extractor) BinFreq(k int) float64 {
	return float64(k) * float64(e.cfg.SampleRate) / float64(e.fftSize)
}

// Spectra returns the per-frame power spectrum of the samples:
// [numFrames][fftSize/2+1]. Returns nil when the input is shorter than
// one frame.
func (e *Extractor) Spectra(samples []float64) [][]float64 {
	cfg := e.cfg
	if len(samples) < cfg.FrameLength {
		return nil
	}

	// Pre-emphasis on a copy; the caller's samples are never mutated.
	emph := make([]float64, len(samples))
	copy(emph, samples)
	if cfg.PreEmphasis > 0 {
		for i := len(emph) - 1; i > 0; i-- {
			emph[i] -= cfg.PreEmphasis * emph[i-1]
		}
		emph[0] *= 1 - cfg.PreEmphasis
	}

	numFrames := (len(emph)-cfg.FrameLength)/cfg.FrameShift + 1
	half := e.fftSize/2 + 1
	spectra := make([][]float64, numFrames)
	buf := make([]complex128, e.fftSize)

	for f := 0; f < numFrames; f++ {
		off := f * cfg.FrameShift
		for i := range buf {
			buf[i] = 0
		}
		for i := 0; i < cfg.FrameLength; i++ {
			buf[i] = complex(emph[off+i]*e.window[i], 0)
		}
		fft(buf)

		power := make([]float64, half)
		for k := 0; k < half; k++ {
			re := real(buf[k])
			im := imag(buf[k])
			power[k] = re*re + im*im
		}
		spectra[f] = power
	}
	return spectra
}

// Compute returns per-frame cepstral coefficients: [numFrames][NumCoeffs].
// Returns nil when the input is shorter than one frame.
func (e *Extractor) Compute(samples []float64) [][]float64 {
	spectra := e.Spectra(samples)
	if spectra == nil {
		return nil
	}
	cfg := e.cfg

	out := make([][]float64, len(spectra))
	logMel := make([]float64, cfg.NumMels)
	for f, power := range spectra {
		for m := 0; m < cfg.NumMels; m++ {
			sum := 0.0
			for k, w := range e.melBank[m] {
				sum += w * power[k]
			}
			if sum < cfg.EnergyFloor {
				sum = cfg.EnergyFloor
			}
			logMel[m] = math.Log(sum)
		}

		coeffs := make([]float64, cfg.NumCoeffs)
		for c := 0; c < cfg.NumCoeffs; c++ {
			sum := 0.0
			for m, w := range e.dct[c] {
				sum += w * logMel[m]
			}
			coeffs[c] = sum
		}
		out[f] = coeffs
	}
	return out
}

// PoolMeanStd reduces per-frame coefficients to a single fixed-length
// vector: the per-coefficient mean followed by the per-coefficient
// standard deviation. Returns nil for empty input.
func PoolMeanStd(frames [][]float64) []float64 {
	if len(frames) == 0 {
		return nil
	}
	dim := len(frames[0])
	n := float64(len(frames))

	out := make([]float64, 2*dim)
	for c := 0; c < dim; c++ {
		sum := 0.0
		for _, fr := range frames {
			sum += fr[c]
		}
		mean := sum / n

		varSum := 0.0
		for _, fr := range frames {
			d := fr[c] - mean
			varSum += d * d
		}

		out[c] = mean
		out[dim+c] = math.Sqrt(varSum / n)
	}
	return out
}

// nextPow2 returns the smallest power of 2 >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// hammingWindow computes a Hamming window of the given length.
func hammingWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}
