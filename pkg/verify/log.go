package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/AdityaAneNenu/setu/pkg/kv"
)

// Sentinel errors for audit log operations.
var (
	// ErrAttemptNotFound is returned when no attempt has the given ID.
	ErrAttemptNotFound = errors.New("verify: attempt not found")

	// ErrAlreadyConsumed is returned when consuming an attempt twice.
	ErrAlreadyConsumed = errors.New("verify: attempt already consumed")

	// ErrSubjectClosed is returned when a subject already spent a
	// different attempt on closure.
	ErrSubjectClosed = errors.New("verify: subject already consumed an attempt")

	// ErrNotVerified is returned when consuming a rejected attempt.
	ErrNotVerified = errors.New("verify: attempt was not verified")
)

// nsAudit is the top-level key segment for all audit log state.
const nsAudit = "va"

// Log is the verification audit trail over a kv.Store.
//
// Key layout:
//
//	va:att:{subject}:{ts} -> attempt ID, zero-padded UnixNano for order
//	va:aid:{id}           -> msgpack Attempt
//	va:fp:{subject}       -> enrolled voice code, write-once
//	va:orig:{subject}     -> blob path of the enrolled recording, write-once
//	va:closed:{subject}   -> ID of the attempt consumed for closure
//
// The closed marker is what makes consumption exactly-once: it is
// checked and written in the same transaction that flips the attempt's
// Consumed flag.
type Log struct {
	store kv.Store
}

// NewLog creates a Log over the given store.
func NewLog(store kv.Store) *Log {
	return &Log{store: store}
}

func attemptKey(id string) kv.Key {
	return kv.Key{nsAudit, "aid", id}
}

func subjectKey(subject string, at time.Time) kv.Key {
	return kv.Key{nsAudit, "att", subject, fmt.Sprintf("%020d", at.UnixNano())}
}

// Append records a new attempt under both the chronological subject
// index and the ID lookup key.
func (l *Log) Append(ctx context.Context, a *Attempt) error {
	data, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("verify: encode attempt: %w", err)
	}
	return l.store.BatchSet(ctx, []kv.Entry{
		{Key: subjectKey(a.Subject, a.CreatedAt), Value: []byte(a.ID)},
		{Key: attemptKey(a.ID), Value: data},
	})
}

// ByID loads one attempt.
func (l *Log) ByID(ctx context.Context, id string) (*Attempt, error) {
	data, err := l.store.Get(ctx, attemptKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	var a Attempt
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("verify: decode attempt %s: %w", id, err)
	}
	return &a, nil
}

// History returns the subject's attempts, newest first.
func (l *Log) History(ctx context.Context, subject string) ([]*Attempt, error) {
	var out []*Attempt
	for entry, err := range l.store.List(ctx, kv.Key{nsAudit, "att", subject}) {
		if err != nil {
			return nil, err
		}
		a, err := l.ByID(ctx, string(entry.Value))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	// List yields oldest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// LatestUnconsumed returns the subject's most recent verified attempt
// that has not been consumed, or ErrAttemptNotFound.
func (l *Log) LatestUnconsumed(ctx context.Context, subject string) (*Attempt, error) {
	history, err := l.History(ctx, subject)
	if err != nil {
		return nil, err
	}
	for _, a := range history {
		if a.Verified && !a.Consumed {
			return a, nil
		}
	}
	return nil, ErrAttemptNotFound
}

// Consume marks a verified attempt as spent on closure. The check and
// the write happen in one transaction, so under any interleaving at
// most one attempt per subject ever ends up consumed, and each attempt
// is consumed at most once.
func (l *Log) Consume(ctx context.Context, id string, at time.Time) (*Attempt, error) {
	var out *Attempt
	err := l.store.Update(ctx, func(tx kv.Tx) error {
		data, err := tx.Get(attemptKey(id))
		if errors.Is(err, kv.ErrNotFound) {
			return ErrAttemptNotFound
		}
		if err != nil {
			return err
		}
		var a Attempt
		if err := msgpack.Unmarshal(data, &a); err != nil {
			return fmt.Errorf("verify: decode attempt %s: %w", id, err)
		}

		if !a.Verified {
			return ErrNotVerified
		}
		if a.Consumed {
			return ErrAlreadyConsumed
		}
		closedKey := kv.Key{nsAudit, "closed", a.Subject}
		if _, err := tx.Get(closedKey); err == nil {
			return ErrSubjectClosed
		} else if !errors.Is(err, kv.ErrNotFound) {
			return err
		}

		a.Consumed = true
		a.ConsumedAt = at
		updated, err := msgpack.Marshal(&a)
		if err != nil {
			return fmt.Errorf("verify: encode attempt %s: %w", id, err)
		}
		if err := tx.Set(attemptKey(id), updated); err != nil {
			return err
		}
		if err := tx.Set(closedKey, []byte(id)); err != nil {
			return err
		}
		out = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Fingerprint returns the subject's enrolled voice code, or "" when
// none is stored.
func (l *Log) Fingerprint(ctx context.Context, subject string) (string, error) {
	return l.getString(ctx, kv.Key{nsAudit, "fp", subject})
}

// SetFingerprint stores the subject's voice code on first call and
// returns the code that is authoritative afterwards. A code already on
// file wins over the argument, so re-enrollment cannot silently swap
// the reference voice.
func (l *Log) SetFingerprint(ctx context.Context, subject, code string) (string, error) {
	return l.setOnce(ctx, kv.Key{nsAudit, "fp", subject}, code)
}

// OriginalPath returns the blob path of the subject's enrolled
// recording, or "" when the subject never enrolled.
func (l *Log) OriginalPath(ctx context.Context, subject string) (string, error) {
	return l.getString(ctx, kv.Key{nsAudit, "orig", subject})
}

// SetOriginalPath records where the enrolled recording lives, first
// write wins.
func (l *Log) SetOriginalPath(ctx context.Context, subject, path string) (string, error) {
	return l.setOnce(ctx, kv.Key{nsAudit, "orig", subject}, path)
}

func (l *Log) getString(ctx context.Context, key kv.Key) (string, error) {
	data, err := l.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// setOnce writes val under key unless a value already exists, and
// returns whichever value is authoritative afterwards.
func (l *Log) setOnce(ctx context.Context, key kv.Key, val string) (string, error) {
	out := val
	err := l.store.Update(ctx, func(tx kv.Tx) error {
		existing, err := tx.Get(key)
		if err == nil {
			out = string(existing)
			return nil
		}
		if !errors.Is(err, kv.ErrNotFound) {
			return err
		}
		return tx.Set(key, []byte(val))
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
