package voiceprint

// rolloffFraction is the share of spectral energy below the rolloff
// frequency.
const rolloffFraction = 0.85

// spectralMoments returns the mean spectral centroid and mean rolloff
// frequency over the given power spectra. Frames with no energy are
// skipped; if every frame is empty both moments are zero.
func spectralMoments(spectra [][]float64, binFreq func(int) float64) (centroid, rolloff float64) {
	if len(spectra) == 0 {
		return 0, 0
	}

	var centroidSum, rolloffSum float64
	voiced := 0
	for _, power := range spectra {
		total := 0.0
		for _, p := range power {
			total += p
		}
		if total < 1e-12 {
			continue
		}

		weighted := 0.0
		for k, p := range power {
			weighted += binFreq(k) * p
		}
		centroidSum += weighted / total

		// Lowest bin whose cumulative energy reaches the rolloff share.
		target := rolloffFraction * total
		cum := 0.0
		for k, p := range power {
			cum += p
			if cum >= target {
				rolloffSum += binFreq(k)
				break
			}
		}
		voiced++
	}

	if voiced == 0 {
		return 0, 0
	}
	n := float64(voiced)
	return centroidSum / n, rolloffSum / n
}
