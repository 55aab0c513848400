package upload

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryUploader keeps uploaded bytes in memory and mints fake URLs. Test
// double; also usable in dev mode where no external storage is configured.
type MemoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Err, when set, is returned by every Upload call.
	Err error

	// Gate, when non-nil, is received from before the upload completes,
	// letting tests hold an upload in flight deliberately.
	Gate chan struct{}
}

// NewMemory returns an empty in-memory uploader.
func NewMemory() *MemoryUploader {
	return &MemoryUploader{objects: make(map[string][]byte)}
}

// Upload stores the bytes under a timestamp-derived key and returns a
// mem:// URL.
func (u *MemoryUploader) Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	if u.Gate != nil {
		select {
		case <-u.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if u.Err != nil {
		return "", u.Err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := StorageKey(suggestedName)
	u.mu.Lock()
	u.objects[key] = data
	u.mu.Unlock()
	return fmt.Sprintf("mem://uploads/%s", key), nil
}

// Len reports how many objects have been stored.
func (u *MemoryUploader) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.objects)
}
