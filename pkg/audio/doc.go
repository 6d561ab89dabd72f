// Package audio is an umbrella for the audio processing sub-packages:
//
//   - wav: RIFF/WAVE decoding and encoding of PCM16 audio
//   - pcm: sample conversion, level measurement, silence trimming
//   - resampler: sample rate conversion
//   - mfcc: mel-frequency cepstral features for speaker comparison
//
// The sub-packages operate on mono float64 samples in [-1, 1] and know
// nothing about voiceprints or verification; see pkg/voiceprint for the
// layer that composes them.
package audio
