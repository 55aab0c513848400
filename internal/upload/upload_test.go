package upload

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStorageKey(t *testing.T) {
	if got := StorageKey("receipt.jpg"); !strings.HasSuffix(got, ".jpg") {
		t.Errorf("StorageKey(receipt.jpg) = %q, want .jpg suffix", got)
	}
	if got := StorageKey("IMG_0042.HEIC"); !strings.HasSuffix(got, ".HEIC") {
		t.Errorf("StorageKey(IMG_0042.HEIC) = %q, want .HEIC suffix", got)
	}
	if got := StorageKey("noext"); strings.Contains(got, ".") {
		t.Errorf("StorageKey(noext) = %q, want no extension", got)
	}

	// Two keys minted in a row must not collide.
	a := StorageKey("a.png")
	time.Sleep(time.Nanosecond)
	b := StorageKey("a.png")
	if a == b {
		t.Errorf("consecutive keys collided: %q", a)
	}
}

func TestMemoryUploader(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	url, err := mem.Upload(ctx, bytes.NewReader([]byte("bytes")), "photo.jpg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !strings.HasPrefix(url, "mem://uploads/") || !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q, want mem://uploads/<key>.jpg", url)
	}
	if mem.Len() != 1 {
		t.Errorf("stored objects = %d, want 1", mem.Len())
	}

	t.Run("configured error surfaces and stores nothing", func(t *testing.T) {
		mem.Err = errors.New("storage unavailable")
		if _, err := mem.Upload(ctx, bytes.NewReader(nil), "x.png"); err == nil {
			t.Fatal("expected upload to fail")
		}
		if mem.Len() != 1 {
			t.Errorf("stored objects = %d, want still 1", mem.Len())
		}
	})

	t.Run("a gated upload honors cancellation", func(t *testing.T) {
		gated := NewMemory()
		gated.Gate = make(chan struct{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := gated.Upload(ctx, bytes.NewReader(nil), "x.png"); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestTrackerInFlight(t *testing.T) {
	mem := NewMemory()
	mem.Gate = make(chan struct{})
	tracker := NewTracker(mem)

	if tracker.InFlight() {
		t.Fatal("fresh tracker reports an upload in flight")
	}

	done := make(chan error, 1)
	go func() {
		_, err := tracker.Upload(context.Background(), bytes.NewReader([]byte("x")), "a.jpg")
		done <- err
	}()

	deadline := time.After(2 * time.Second)
	for !tracker.InFlight() {
		select {
		case <-deadline:
			t.Fatal("upload never entered flight")
		case <-time.After(time.Millisecond):
		}
	}

	close(mem.Gate)
	if err := <-done; err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if tracker.InFlight() {
		t.Error("tracker still reports in flight after completion")
	}
}

func TestTrackerReleasesOnFailure(t *testing.T) {
	mem := NewMemory()
	mem.Err = errors.New("rejected")
	tracker := NewTracker(mem)

	if _, err := tracker.Upload(context.Background(), bytes.NewReader(nil), "a.jpg"); err == nil {
		t.Fatal("expected upload to fail")
	}
	if tracker.InFlight() {
		t.Error("a failed upload must not leak the in-flight count")
	}
}
