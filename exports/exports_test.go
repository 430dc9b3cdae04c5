package exports

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ByLCY/cvpress/config"
)

func TestKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 10, 4, 5, 0, time.UTC)
	if got := Key("abc", at); got != "abc/20240305T100405.000000000Z.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Key(" ", at); got != "adhoc/20240305T100405.000000000Z.pdf" {
		t.Fatalf("unexpected adhoc key %q", got)
	}
}

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)
	where, err := store.Save(context.Background(), "abc/1.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if where != filepath.Join(dir, "abc", "1.pdf") {
		t.Fatalf("unexpected path %q", where)
	}
	data, err := os.ReadFile(where)
	if err != nil || string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
	if _, err := store.Save(context.Background(), "../escape.pdf", nil); err == nil {
		t.Fatalf("expected error for key escaping the base dir")
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3StoreSave(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "bucket", prefix: normalizePrefix("/exports/")}

	where, err := store.Save(context.Background(), "abc/1.pdf", []byte("pdf"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if where != "s3://bucket/exports/abc/1.pdf" {
		t.Fatalf("unexpected location %q", where)
	}
	if aws.ToString(fake.input.Key) != "exports/abc/1.pdf" || aws.ToString(fake.input.ContentType) != "application/pdf" {
		t.Fatalf("unexpected input %+v", fake.input)
	}
	if !bytes.Equal(fake.body, []byte("pdf")) {
		t.Fatalf("unexpected body %q", fake.body)
	}

	fake.err = errors.New("denied")
	if _, err := store.Save(context.Background(), "abc/2.pdf", []byte("pdf")); err == nil {
		t.Fatalf("expected upload error")
	}
}

func TestFromConfig(t *testing.T) {
	store, err := FromConfig(context.Background(), config.Config{ExportStore: config.ExportNone})
	if err != nil || store != nil {
		t.Fatalf("expected nil store for none, got %v %v", store, err)
	}
	store, err = FromConfig(context.Background(), config.Config{ExportStore: config.ExportLocal, ExportDir: t.TempDir()})
	if err != nil {
		t.Fatalf("FromConfig local: %v", err)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Fatalf("expected *LocalStore, got %T", store)
	}
	if _, err := FromConfig(context.Background(), config.Config{ExportStore: config.ExportS3}); err == nil {
		t.Fatalf("expected error for s3 without bucket")
	}
}
