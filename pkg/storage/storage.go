// Package storage persists voice recordings as opaque blobs. It
// abstracts the backend so callers can swap between local disk, an
// S3-compatible object store, or an in-memory implementation without
// changing application code.
//
// Recordings are addressed by content: SamplePath derives a stable
// path from the subject, the sample kind, and a digest of the audio
// bytes, so re-uploading the same recording never creates duplicates.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// BlobStore reads and writes whole blobs by path.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Get returns the contents of the named blob.
	// If the blob does not exist, an error wrapping os.ErrNotExist is
	// returned.
	Get(ctx context.Context, path string) ([]byte, error)

	// Put stores data under the named path, replacing any existing blob.
	Put(ctx context.Context, path string, data []byte) error

	// Delete removes the named blob. Deleting a missing blob is not an
	// error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named blob exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// SamplePath returns the canonical storage path for a voice sample:
// voice_samples/{subject}/{kind}_{digest}.wav, where digest is the
// first 32 hex chars of the SHA-256 of the audio.
func SamplePath(subject, kind string, audio []byte) string {
	sum := sha256.Sum256(audio)
	return fmt.Sprintf("voice_samples/%s/%s_%s.wav",
		subject, kind, hex.EncodeToString(sum[:16]))
}

// notExist wraps os.ErrNotExist with the offending path.
func notExist(path string) error {
	return fmt.Errorf("storage: %s: %w", path, os.ErrNotExist)
}
