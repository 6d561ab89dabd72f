// Package kv provides a key-value store with hierarchical path keys.
// Keys are string slices (e.g. ["va", "att", "subject-1"]) joined with
// a separator byte (default ':') for storage.
//
// Two implementations are provided: a BadgerDB-backed store for
// production and an in-memory store for tests. Both support
// serializable read-modify-write transactions via Update, which the
// verification audit log relies on for its exactly-once semantics.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("kv: not found")
)

// Key is a hierarchical path represented as a slice of string segments.
// Segments must not contain the configured separator character.
type Key []string

// String returns the key joined with ':' for display and debug output.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Entry is a key-value pair returned by List and consumed by BatchSet.
type Entry struct {
	Key   Key
	Value []byte
}

// Tx is the view a transaction function gets of the store. Reads
// observe earlier writes in the same transaction.
type Tx interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(key Key) ([]byte, error)

	// Set stores a key-value pair. Overwrites any existing value.
	Set(key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(key Key) error
}

// Store is the interface for a key-value store with path-based keys.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair. Overwrites any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key Key) error

	// List iterates over all entries whose key starts with the given prefix.
	// The iteration order is lexicographic by encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// BatchSet atomically stores multiple key-value pairs.
	BatchSet(ctx context.Context, entries []Entry) error

	// Update runs fn inside a serializable transaction. The writes fn
	// makes are committed only if fn returns nil; an error from fn
	// aborts the transaction and is returned unchanged. Conflicting
	// concurrent transactions are retried until ctx is done.
	Update(ctx context.Context, fn func(Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// DefaultSeparator is the default separator byte used to encode key segments.
const DefaultSeparator byte = ':'

// Options configures store behavior.
type Options struct {
	// Separator is the byte used to join key segments when encoding to
	// storage. Default is ':' if zero.
	Separator byte
}

func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

// encode converts a Key to its stored byte representation.
func (o *Options) encode(k Key) []byte {
	return []byte(strings.Join(k, string(o.sep())))
}

// decode converts a stored byte representation back to a Key.
func (o *Options) decode(b []byte) Key {
	return Key(strings.Split(string(b), string(o.sep())))
}
