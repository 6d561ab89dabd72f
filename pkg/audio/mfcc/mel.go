package mfcc

import "math"

// hzToMel converts frequency in Hz to mel scale.
func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// melToHz converts mel scale to frequency in Hz.
func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// melFilterbank computes triangular mel filterbank weights spanning
// 0 Hz to the Nyquist frequency. Returns [numMels][fftSize/2+1] weights.
func melFilterbank(numMels, fftSize, sampleRate int) [][]float64 {
	half := fftSize/2 + 1

	melLow := hzToMel(0)
	melHigh := hzToMel(float64(sampleRate) / 2)

	// Equally spaced points on the mel scale.
	melPoints := make([]float64, numMels+2)
	for i := range melPoints {
		melPoints[i] = melLow + float64(i)*(melHigh-melLow)/float64(numMels+1)
	}

	// Convert back to Hz and then to FFT bin indices.
	bins := make([]int, numMels+2)
	for i := range melPoints {
		hz := melToHz(melPoints[i])
		bins[i] = int(math.Floor(hz * float64(fftSize) / float64(sampleRate)))
		if bins[i] >= half {
			bins[i] = half - 1
		}
	}

	fb := make([][]float64, numMels)
	for m := 0; m < numMels; m++ {
		fb[m] = make([]float64, half)
		left := bins[m]
		center := bins[m+1]
		right := bins[m+2]

		for k := left; k <= center; k++ {
			if center > left {
				fb[m][k] = float64(k-left) / float64(center-left)
			}
		}
		for k := center; k <= right; k++ {
			if right > center {
				fb[m][k] = float64(right-k) / float64(right-center)
			}
		}
	}
	return fb
}
