package commands

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AdityaAneNenu/setu/pkg/audio/pcm"
	"github.com/AdityaAneNenu/setu/pkg/audio/wav"
	"github.com/AdityaAneNenu/setu/pkg/kv"
	"github.com/AdityaAneNenu/setu/pkg/storage"
	"github.com/AdityaAneNenu/setu/pkg/verify"
)

// wavFixture writes a quality-gate-passing recording to dir and
// returns its path.
func wavFixture(t *testing.T, dir, name string, f0 float64) string {
	t.Helper()
	const rate = 16000
	samples := make([]float64, 3*rate)
	for i := range samples {
		ts := float64(i) / rate
		samples[i] = 0.6 +
			0.15*math.Sin(2*math.Pi*f0*ts) +
			0.08*math.Sin(2*math.Pi*2*f0*ts)
	}
	var buf bytes.Buffer
	a := &wav.Audio{SampleRate: rate, Channels: 1, Data: pcm.Bytes(samples)}
	if err := wav.Encode(&buf, a); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func setupOverrides(t *testing.T) {
	t.Helper()
	testStoreOverride = kv.NewMemory(nil)
	testBlobsOverride = storage.NewMemory()
	t.Cleanup(func() {
		testStoreOverride = nil
		testBlobsOverride = nil
	})
}

// run executes a command with JSON output into a temp file and
// returns the output.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out := filepath.Join(dir, "out.json")
	rootCmd.SetArgs(append(args, "--format", "json", "-o", out))
	err := Execute()
	data, _ := os.ReadFile(out)
	os.Remove(out)
	return string(data), err
}

func TestEnrollVerifyConsumeFlow(t *testing.T) {
	setupOverrides(t)
	dir := t.TempDir()
	voice := wavFixture(t, dir, "voice.wav", 140)

	got, err := run(t, dir, "enroll", "alice", voice)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if !strings.Contains(got, "fingerprint") {
		t.Fatalf("enroll output = %q", got)
	}

	got, err = run(t, dir, "verify", "alice", voice)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	var res verify.Result
	if err := json.Unmarshal([]byte(got), &res); err != nil {
		t.Fatalf("decode verify output %q: %v", got, err)
	}
	if res.Status != verify.StatusAccepted || res.AttemptID == "" {
		t.Fatalf("verify result = %+v", res)
	}

	got, err = run(t, dir, "attempts", "alice")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	var history []verify.Attempt
	if err := json.Unmarshal([]byte(got), &history); err != nil {
		t.Fatalf("decode attempts output %q: %v", got, err)
	}
	if len(history) != 1 || history[0].ID != res.AttemptID {
		t.Fatalf("history = %+v", history)
	}

	got, err = run(t, dir, "consume", "alice")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	var att verify.Attempt
	if err := json.Unmarshal([]byte(got), &att); err != nil {
		t.Fatalf("decode consume output %q: %v", got, err)
	}
	if !att.Consumed || att.ID != res.AttemptID {
		t.Fatalf("consumed attempt = %+v", att)
	}

	// The verification is spent; a second consume must fail.
	if _, err := run(t, dir, "consume", "alice"); err == nil {
		t.Fatal("second consume succeeded")
	}
}

func TestVerifyUnenrolledSubject(t *testing.T) {
	setupOverrides(t)
	dir := t.TempDir()
	voice := wavFixture(t, dir, "voice.wav", 140)

	got, err := run(t, dir, "verify", "ghost", voice)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	var res verify.Result
	if err := json.Unmarshal([]byte(got), &res); err != nil {
		t.Fatalf("decode %q: %v", got, err)
	}
	if res.Status != verify.StatusRejected || res.Reason != verify.ReasonNoOriginalAudio {
		t.Fatalf("result = %+v", res)
	}
}

func TestStatelessCommands(t *testing.T) {
	dir := t.TempDir()
	a := wavFixture(t, dir, "a.wav", 140)
	b := wavFixture(t, dir, "b.wav", 2500)

	got, err := run(t, dir, "quality", a)
	if err != nil {
		t.Fatalf("quality: %v", err)
	}
	if !strings.Contains(got, `"admissible": true`) {
		t.Fatalf("quality output = %q", got)
	}

	got, err = run(t, dir, "fingerprint", a)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if !strings.Contains(got, "fingerprint") {
		t.Fatalf("fingerprint output = %q", got)
	}

	got, err = run(t, dir, "compare", a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(got, "score") {
		t.Fatalf("compare output = %q", got)
	}

	if _, err := run(t, dir, "quality", filepath.Join(dir, "missing.wav")); err == nil {
		t.Fatal("quality accepted a missing file")
	}
}
