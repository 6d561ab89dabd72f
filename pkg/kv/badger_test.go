package kv_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/AdityaAneNenu/setu/pkg/kv"
)

func newBadgerStore(t *testing.T) kv.Store {
	t.Helper()
	s, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newBadgerStore(t)

	key := kv.Key{"va", "att", "alice", "001"}
	if err := s.Set(ctx, key, []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBadgerList(t *testing.T) {
	ctx := context.Background()
	s := newBadgerStore(t)

	if err := s.BatchSet(ctx, []kv.Entry{
		{Key: kv.Key{"va", "att", "alice", "001"}, Value: []byte("1")},
		{Key: kv.Key{"va", "att", "alice", "002"}, Value: []byte("2")},
		{Key: kv.Key{"va", "att", "alicia", "001"}, Value: []byte("x")},
	}); err != nil {
		t.Fatalf("BatchSet: %v", err)
	}

	var got []string
	for entry, err := range s.List(ctx, kv.Key{"va", "att", "alice"}) {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		got = append(got, entry.Key.String())
	}
	if len(got) != 2 {
		t.Fatalf("List = %v, want exactly alice's 2 entries", got)
	}
}

func TestBadgerUpdate(t *testing.T) {
	ctx := context.Background()
	s := newBadgerStore(t)

	key := kv.Key{"counter"}
	if err := s.Set(ctx, key, []byte("0")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Conflicting transactions must retry, not lose increments.
	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(ctx, func(tx kv.Tx) error {
				v, err := tx.Get(key)
				if err != nil {
					return err
				}
				n, err := strconv.Atoi(string(v))
				if err != nil {
					return err
				}
				return tx.Set(key, []byte(strconv.Itoa(n+1)))
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		}()
	}
	wg.Wait()

	v, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != strconv.Itoa(workers) {
		t.Fatalf("counter = %s, want %d", v, workers)
	}

	// An aborted transaction leaves no trace.
	boom := errors.New("boom")
	err = s.Update(ctx, func(tx kv.Tx) error {
		if err := tx.Set(key, []byte("999")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want boom", err)
	}
	v, _ = s.Get(ctx, key)
	if string(v) == "999" {
		t.Fatal("aborted write leaked")
	}
}

func TestBadgerRequiresDir(t *testing.T) {
	if _, err := kv.NewBadger(kv.BadgerOptions{}); err == nil {
		t.Fatal("expected error for on-disk mode without Dir")
	}
}
