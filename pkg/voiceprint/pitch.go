package voiceprint

// defaultPitch stands in when no voiced frames are found, roughly the
// midpoint of adult speaking pitch.
const defaultPitch = 150.0

// Fundamental frequency search range in Hz. Covers adult speech with
// margin; anything outside is treated as unvoiced.
const (
	pitchFloor   = 50.0
	pitchCeiling = 400.0
)

// estimatePitch returns the mean fundamental frequency of the voiced
// frames, estimated by normalized autocorrelation over 64 ms frames.
// Returns defaultPitch when nothing voiced is found.
func estimatePitch(samples []float64, rate int) float64 {
	frameLen := 1024
	hop := 512
	minLag := int(float64(rate) / pitchCeiling)
	maxLag := int(float64(rate) / pitchFloor)
	if maxLag >= frameLen {
		maxLag = frameLen - 1
	}
	if len(samples) < frameLen || minLag < 1 || minLag >= maxLag {
		return defaultPitch
	}

	var sum float64
	voiced := 0
	for off := 0; off+frameLen <= len(samples); off += hop {
		frame := samples[off : off+frameLen]

		energy := 0.0
		for _, s := range frame {
			energy += s * s
		}
		if energy < 1e-9 {
			continue
		}

		bestLag := 0
		bestCorr := 0.0
		for lag := minLag; lag <= maxLag; lag++ {
			corr := 0.0
			for i := 0; i+lag < frameLen; i++ {
				corr += frame[i] * frame[i+lag]
			}
			corr /= energy
			if corr > bestCorr {
				bestCorr = corr
				bestLag = lag
			}
		}

		// A weak autocorrelation peak means the frame is unvoiced.
		if bestCorr > 0.3 && bestLag > 0 {
			sum += float64(rate) / float64(bestLag)
			voiced++
		}
	}

	if voiced == 0 {
		return defaultPitch
	}
	return sum / float64(voiced)
}
