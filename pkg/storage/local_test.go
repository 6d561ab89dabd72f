package storage_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/AdityaAneNenu/setu/pkg/storage"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	path := "voice_samples/alice/original_abc.wav"
	data := []byte("riff bytes")

	if _, err := s.Get(ctx, path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Get missing: err = %v, want os.ErrNotExist", err)
	}
	ok, err := s.Exists(ctx, path)
	if err != nil || ok {
		t.Fatalf("Exists before Put = %v, %v", ok, err)
	}

	if err := s.Put(ctx, path, data); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("Get = %q, want %q", got, data)
	}
	ok, err = s.Exists(ctx, path)
	if err != nil || !ok {
		t.Fatalf("Exists after Put = %v, %v", ok, err)
	}

	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if _, err := s.Get(ctx, path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Get after delete: err = %v, want os.ErrNotExist", err)
	}
}

func TestLocalOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	if err := s.Put(ctx, "a/b.wav", []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "a/b.wav", []byte("two")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := s.Get(ctx, "a/b.wav")
	if err != nil || string(got) != "two" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}

func TestSamplePath(t *testing.T) {
	audio := []byte("some audio")

	p1 := storage.SamplePath("alice", "original", audio)
	p2 := storage.SamplePath("alice", "original", audio)
	if p1 != p2 {
		t.Fatalf("SamplePath not stable: %q vs %q", p1, p2)
	}
	if !strings.HasPrefix(p1, "voice_samples/alice/original_") || !strings.HasSuffix(p1, ".wav") {
		t.Fatalf("unexpected shape: %q", p1)
	}

	if storage.SamplePath("alice", "original", []byte("other")) == p1 {
		t.Error("different audio mapped to same path")
	}
	if storage.SamplePath("alice", "attempt", audio) == p1 {
		t.Error("different kind mapped to same path")
	}
	if storage.SamplePath("bob", "original", audio) == p1 {
		t.Error("different subject mapped to same path")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()

	if err := s.Put(ctx, "p", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "p")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	// Mutating the returned slice must not affect the store.
	got[0] = 'x'
	again, _ := s.Get(ctx, "p")
	if string(again) != "v" {
		t.Fatal("stored blob mutated through returned slice")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Get missing: err = %v, want os.ErrNotExist", err)
	}
}
