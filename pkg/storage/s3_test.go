package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/AdityaAneNenu/setu/pkg/storage"
)

// fakeS3 implements storage.S3Client over a map, keyed by bucket/key.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "no such key"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := storage.NewS3(fake, "bucket", "setu")

	path := "voice_samples/alice/original_abc.wav"
	if _, err := s.Get(ctx, path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Get missing: err = %v, want os.ErrNotExist", err)
	}

	if err := s.Put(ctx, path, []byte("audio")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Prefix must be applied to the object key.
	if _, ok := fake.objects["bucket/setu/"+path]; !ok {
		t.Fatalf("object stored under unexpected key: %v", keys(fake))
	}

	got, err := s.Get(ctx, path)
	if err != nil || string(got) != "audio" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	ok, err := s.Exists(ctx, path)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = s.Exists(ctx, path)
	if err != nil || ok {
		t.Fatalf("Exists after delete = %v, %v", ok, err)
	}
}

func TestS3NoPrefix(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := storage.NewS3(fake, "bucket", "")

	if err := s.Put(ctx, "a.wav", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.objects["bucket/a.wav"]; !ok {
		t.Fatalf("object stored under unexpected key: %v", keys(fake))
	}
}

func keys(f *fakeS3) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for k := range f.objects {
		out = append(out, k)
	}
	return out
}
