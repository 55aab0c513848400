// Package upload sends receipt and item photos to external binary storage
// and hands back durable public URLs.
package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"
)

// Uploader stores one binary object and returns its durable public URL.
type Uploader interface {
	// Upload reads the object from r and stores it under a key derived
	// from suggestedName. The returned URL is what gets persisted as
	// image_url or receipt_url.
	Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error)
}

// StorageKey builds a collision-resistant object key: a nanosecond
// timestamp plus the original file extension.
func StorageKey(suggestedName string) string {
	return fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(suggestedName))
}

// Tracker wraps an Uploader and counts uploads in flight. Forms that
// depend on an upload must refuse to submit while InFlight reports true:
// the image field has to be fully resolved or intentionally absent before
// save.
type Tracker struct {
	inner Uploader

	mu       sync.Mutex
	inFlight int
}

// NewTracker wraps the given uploader.
func NewTracker(inner Uploader) *Tracker {
	return &Tracker{inner: inner}
}

// Upload delegates to the wrapped uploader, holding the in-flight count up
// for the duration of the call.
func (t *Tracker) Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	t.mu.Lock()
	t.inFlight++
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.inFlight--
		t.mu.Unlock()
	}()
	return t.inner.Upload(ctx, r, suggestedName)
}

// InFlight reports whether any upload is still pending.
func (t *Tracker) InFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight > 0
}
