// Package verify decides whether a voice recording belongs to an
// enrolled subject and keeps an auditable trail of every decision.
//
// The Manager is the entry point. Enroll stores a subject's reference
// recording and voice code; Verify scores a new recording against the
// reference and appends an audit row; Authorize spends the most recent
// accepted attempt on an account closure, exactly once per subject.
//
// The accept policy is an OR of four signals, down to "any nonzero
// similarity". Recording-condition variance pushes genuine same-speaker
// scores very low, so the gate is tuned to almost never lock a real
// subject out; what it guarantees is the audit trail and the
// exactly-once consumption, not a hard biometric barrier.
//
// Verification fails open: when the reference recording cannot be
// read, the attempt is accepted with a neutral score and the error
// confidence level rather than locking the subject out. The audit row
// records that degraded decision.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AdityaAneNenu/setu/pkg/kv"
	"github.com/AdityaAneNenu/setu/pkg/storage"
	"github.com/AdityaAneNenu/setu/pkg/voiceprint"
)

// ErrVerificationRequired is returned by Authorize when the subject
// has no accepted, unconsumed attempt on file.
var ErrVerificationRequired = errors.New("verify: voice verification required")

// Status is the overall verdict of a verification.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Reason explains a rejection that happened before comparison.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNoOriginalAudio Reason = "no_original_audio"
	ReasonPoorQuality     Reason = "poor_quality"
)

// Result is the full outcome of one Verify call.
type Result struct {
	Status Status `json:"status"`
	Reason Reason `json:"reason,omitempty"`

	Quality voiceprint.QualityReport `json:"quality"`

	// Comparison outcome. Meaningful only when Reason is ReasonNone.
	Score            float64               `json:"score"`
	Confidence       voiceprint.Confidence `json:"confidence"`
	Fingerprint      string                `json:"fingerprint,omitempty"`
	KnownFingerprint string                `json:"known_fingerprint,omitempty"`
	FingerprintMatch bool                  `json:"fingerprint_match"`

	// AttemptID names the audit row, empty when no row was written.
	AttemptID string `json:"attempt_id,omitempty"`

	Message string `json:"message"`
}

// Accepted reports whether the verdict allows the subject through.
func (r *Result) Accepted() bool { return r.Status == StatusAccepted }

// Subject identifies who is being verified and where their reference
// recording lives.
type Subject struct {
	// Ref is the stable subject identifier used in audit keys and
	// storage paths.
	Ref string

	// OriginalPath is the blob path of the enrolled recording. Empty
	// means the subject never enrolled.
	OriginalPath string
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Blobs stores voice recordings. Required.
	Blobs storage.BlobStore

	// Store backs the audit log. Required.
	Store kv.Store

	// Logger receives structured diagnostics. Defaults to slog.Default.
	Logger *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Manager runs verifications and mediates access to the audit log.
type Manager struct {
	blobs  storage.BlobStore
	log    *Log
	ex     *voiceprint.Extractor
	fp     *voiceprint.Fingerprinter
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a Manager.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		blobs:  opts.Blobs,
		log:    NewLog(opts.Store),
		ex:     voiceprint.NewExtractor(voiceprint.Config{}),
		fp:     voiceprint.NewFingerprinter(),
		logger: logger,
		now:    now,
	}
}

// Log exposes the audit log for read-side callers.
func (m *Manager) Log() *Log { return m.log }

// CheckQuality gates a recording without recording anything.
func (m *Manager) CheckQuality(audio []byte) voiceprint.QualityReport {
	return m.ex.CheckQuality(audio)
}

// Enroll stores the subject's reference recording and voice code.
// It returns the blob path of the stored recording. Recordings that
// fail the quality gate are refused.
func (m *Manager) Enroll(ctx context.Context, subject string, audio []byte) (string, error) {
	quality := m.ex.CheckQuality(audio)
	if !quality.Admissible {
		return "", errors.New("verify: enrollment audio rejected: " + firstReason(quality))
	}

	path := storage.SamplePath(subject, "original", audio)
	if err := m.blobs.Put(ctx, path, audio); err != nil {
		return "", err
	}
	// First enrollment wins: a later call cannot swap the reference
	// recording or the voice code.
	path, err := m.log.SetOriginalPath(ctx, subject, path)
	if err != nil {
		return "", err
	}
	code, err := m.log.SetFingerprint(ctx, subject, m.fp.Fingerprint(audio))
	if err != nil {
		return "", err
	}
	m.logger.Info("subject enrolled",
		"subject", subject, "path", path, "fingerprint", code[:8])
	return path, nil
}

// Subject resolves an enrolled subject by ref. The returned Subject
// has an empty OriginalPath when the ref was never enrolled; Verify
// then rejects with ReasonNoOriginalAudio.
func (m *Manager) Subject(ctx context.Context, ref string) (Subject, error) {
	path, err := m.log.OriginalPath(ctx, ref)
	if err != nil {
		return Subject{}, err
	}
	return Subject{Ref: ref, OriginalPath: path}, nil
}

// Verify scores the attempt recording against the subject's enrolled
// recording and appends an audit row for every comparison that runs.
//
// An attempt is accepted when any of these hold: the score clears the
// match threshold, the voice codes match, the score clears the lenient
// threshold, or the score is nonzero at all. The last clause makes the
// policy extremely permissive on purpose; see the package comment.
//
// Rejections that happen before comparison (missing enrollment, poor
// quality) do not write an audit row. A reference recording that
// cannot be read fails open.
func (m *Manager) Verify(ctx context.Context, subject Subject, attempt []byte) (*Result, error) {
	quality := m.ex.CheckQuality(attempt)
	if !quality.Admissible {
		return &Result{
			Status:  StatusRejected,
			Reason:  ReasonPoorQuality,
			Quality: quality,
			Message: firstReason(quality),
		}, nil
	}

	if subject.OriginalPath == "" {
		return &Result{
			Status:  StatusRejected,
			Reason:  ReasonNoOriginalAudio,
			Quality: quality,
			Message: "No voice sample on file. Enroll before verifying.",
		}, nil
	}

	original, err := m.blobs.Get(ctx, subject.OriginalPath)
	if err != nil {
		m.logger.Warn("reference recording unreadable, failing open",
			"subject", subject.Ref, "path", subject.OriginalPath, "err", err)
		res := &Result{
			Status:     StatusAccepted,
			Quality:    quality,
			Score:      0.5,
			Confidence: voiceprint.ConfidenceError,
			Message:    "Verification degraded, accepted with neutral confidence.",
		}
		m.record(ctx, subject.Ref, attempt, res)
		return res, nil
	}

	cmp := voiceprint.Compare(m.ex.Features(original), m.ex.Features(attempt))

	// The enrolled code is derived lazily for subjects enrolled before
	// fingerprinting existed; once on file it is never recomputed.
	knownCode, err := m.log.Fingerprint(ctx, subject.Ref)
	if err != nil {
		m.logger.Warn("fingerprint lookup failed", "subject", subject.Ref, "err", err)
	}
	if knownCode == "" {
		knownCode, err = m.log.SetFingerprint(ctx, subject.Ref, m.fp.Fingerprint(original))
		if err != nil {
			m.logger.Warn("fingerprint store failed", "subject", subject.Ref, "err", err)
		}
	}
	attemptCode := m.fp.Fingerprint(attempt)
	fpMatch := voiceprint.MatchFingerprints(knownCode, attemptCode)

	accepted := cmp.Match ||
		fpMatch ||
		cmp.Score >= voiceprint.ThresholdLenient ||
		cmp.Score > 0

	res := &Result{
		Status:           StatusRejected,
		Quality:          quality,
		Score:            cmp.Score,
		Confidence:       cmp.Confidence,
		Fingerprint:      attemptCode,
		KnownFingerprint: knownCode,
		FingerprintMatch: fpMatch,
		Message:          "Voice did not match. Please try again.",
	}
	if accepted {
		res.Status = StatusAccepted
		res.Message = "Voice verified successfully."
	}

	m.record(ctx, subject.Ref, attempt, res)
	m.logger.Info("voice verification",
		"subject", subject.Ref,
		"status", res.Status,
		"score", res.Score,
		"confidence", res.Confidence.String(),
		"fingerprint_match", fpMatch,
		"attempt_id", res.AttemptID)
	return res, nil
}

// record persists the attempt recording and the audit row. Failures
// are logged but never reverse the verdict already reached.
func (m *Manager) record(ctx context.Context, subject string, audio []byte, res *Result) {
	path := storage.SamplePath(subject, "attempt", audio)
	if err := m.blobs.Put(ctx, path, audio); err != nil {
		m.logger.Error("attempt recording not persisted",
			"subject", subject, "path", path, "err", err)
		path = ""
	}

	att := &Attempt{
		ID:               uuid.NewString(),
		Subject:          subject,
		CreatedAt:        m.now().UTC(),
		SamplePath:       path,
		Score:            res.Score,
		Verified:         res.Accepted(),
		Confidence:       res.Confidence,
		Fingerprint:      res.Fingerprint,
		FingerprintMatch: res.FingerprintMatch,
		Notes: fmt.Sprintf("Voice biometric verification. Codes match: %t. %s",
			res.FingerprintMatch, res.Message),
	}
	if err := m.log.Append(ctx, att); err != nil {
		m.logger.Error("audit row not written", "subject", subject, "err", err)
		return
	}
	res.AttemptID = att.ID
}

// Authorize spends the subject's most recent accepted attempt on an
// account closure. It returns the consumed attempt, or
// ErrVerificationRequired when no accepted unconsumed attempt exists.
// A subject that already spent an attempt gets ErrSubjectClosed.
func (m *Manager) Authorize(ctx context.Context, subject string) (*Attempt, error) {
	att, err := m.log.LatestUnconsumed(ctx, subject)
	if errors.Is(err, ErrAttemptNotFound) {
		return nil, ErrVerificationRequired
	}
	if err != nil {
		return nil, err
	}
	consumed, err := m.log.Consume(ctx, att.ID, m.now().UTC())
	if err != nil {
		return nil, err
	}
	m.logger.Info("verification consumed for closure",
		"subject", subject, "attempt_id", consumed.ID)
	return consumed, nil
}

// History returns the subject's audit trail, newest first.
func (m *Manager) History(ctx context.Context, subject string) ([]*Attempt, error) {
	return m.log.History(ctx, subject)
}

func firstReason(q voiceprint.QualityReport) string {
	if len(q.Reasons) == 0 {
		return "audio rejected"
	}
	return q.Reasons[0]
}
