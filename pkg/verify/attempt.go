package verify

import (
	"time"

	"github.com/AdityaAneNenu/setu/pkg/voiceprint"
)

// Attempt is one audit row: a single verification of a subject's voice
// against their enrolled recording. Rows are append-only; the only
// mutation ever applied is marking an accepted attempt consumed.
type Attempt struct {
	ID        string    `msgpack:"id" json:"id"`
	Subject   string    `msgpack:"subject" json:"subject"`
	CreatedAt time.Time `msgpack:"created_at" json:"created_at"`

	// SamplePath is where the attempt recording was stored, empty if
	// persisting the sample failed.
	SamplePath string `msgpack:"sample_path" json:"sample_path"`

	Score      float64               `msgpack:"score" json:"score"`
	Verified   bool                  `msgpack:"verified" json:"verified"`
	Confidence voiceprint.Confidence `msgpack:"confidence" json:"confidence"`

	// Fingerprint is the attempt's voice code; FingerprintMatch records
	// whether it matched the subject's enrolled code.
	Fingerprint      string `msgpack:"fingerprint" json:"fingerprint"`
	FingerprintMatch bool   `msgpack:"fingerprint_match" json:"fingerprint_match"`

	// Notes is a free-text summary of how the verdict was reached.
	Notes string `msgpack:"notes" json:"notes,omitempty"`

	// Consumed marks the attempt as spent on an account closure. At
	// most one attempt per subject is ever consumed.
	Consumed   bool      `msgpack:"consumed" json:"consumed"`
	ConsumedAt time.Time `msgpack:"consumed_at,omitempty" json:"consumed_at,omitzero"`
}
