package voiceprint

import (
	"math"

	"github.com/AdityaAneNenu/setu/pkg/audio/pcm"
)

// Admission thresholds for the quality gate.
const (
	MinDuration  = 2.0  // seconds of audio required
	MinRMSEnergy = 0.01 // quietest admissible recording
	MinSNR       = 5.0  // dB, signal power over variance
)

// QualityReport describes whether a recording is usable for
// verification and why not when it is not.
type QualityReport struct {
	Admissible bool     `json:"admissible"`
	Duration   float64  `json:"duration"`   // seconds, after truncation
	RMSEnergy  float64  `json:"rms_energy"`
	SNR        float64  `json:"snr"` // dB
	Reasons    []string `json:"reasons"`
}

// CheckQuality gates a recording on duration, loudness, and a simple
// noise estimate. Audio that does not decode is inadmissible.
func (e *Extractor) CheckQuality(audio []byte) QualityReport {
	samples, err := e.decode(audio)
	if err != nil || len(samples) == 0 {
		return QualityReport{
			Reasons: []string{"Audio could not be processed."},
		}
	}

	r := QualityReport{
		Duration:  pcm.Seconds(len(samples), e.cfg.TargetRate),
		RMSEnergy: pcm.RMS(samples),
		SNR:       snrDB(samples),
	}

	if r.Duration < MinDuration {
		r.Reasons = append(r.Reasons, "Recording too short. Please record at least 2-3 seconds.")
	}
	if r.RMSEnergy <= MinRMSEnergy {
		r.Reasons = append(r.Reasons, "Audio too quiet. Speak closer to microphone.")
	}
	if r.SNR <= MinSNR {
		r.Reasons = append(r.Reasons, "Too much background noise. Find a quieter location.")
	}

	if len(r.Reasons) == 0 {
		r.Admissible = true
		r.Reasons = []string{"Audio quality is good for verification."}
	}
	return r
}

// snrDB estimates signal-to-noise as the ratio of mean power to sample
// variance in dB. Steady signal level raises it, level fluctuation
// lowers it.
func snrDB(samples []float64) float64 {
	power := pcm.MeanPower(samples)
	variance := pcm.Variance(samples)
	if variance <= 0 {
		if power > 0 {
			return 100 // constant nonzero signal, effectively noiseless
		}
		return 0
	}
	return 10 * math.Log10(power/variance)
}
