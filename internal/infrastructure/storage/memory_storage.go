package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process memory and hands out fake URLs.
// Used in development and tests.
type MemoryStorage struct {
	mu                sync.RWMutex
	objects           map[string]memoryObject
	baseURL           string
	presignExpiration time.Duration
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryStorage creates an empty store. baseURL defaults to memory://documents.
func NewMemoryStorage(baseURL string, presignExpiration time.Duration) *MemoryStorage {
	if baseURL == "" {
		baseURL = "memory://documents"
	}
	if presignExpiration <= 0 {
		presignExpiration = 15 * time.Minute
	}
	return &MemoryStorage{
		objects:           make(map[string]memoryObject),
		baseURL:           baseURL,
		presignExpiration: presignExpiration,
	}
}

// EnsureBucket is a no-op
func (m *MemoryStorage) EnsureBucket(ctx context.Context) error {
	return nil
}

// Upload stores a copy of data
func (m *MemoryStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// GenerateDownloadURL returns baseURL/key with the expiry as a query parameter
func (m *MemoryStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = m.presignExpiration
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{}
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return m.baseURL + "/" + key + "?" + q.Encode(), expiresAt, nil
}

// ObjectExists reports whether key was uploaded
func (m *MemoryStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// DeleteObject removes key
func (m *MemoryStorage) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Object returns the stored bytes and content type of key
func (m *MemoryStorage) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.data, obj.contentType, ok
}

var _ ObjectStorage = (*MemoryStorage)(nil)
