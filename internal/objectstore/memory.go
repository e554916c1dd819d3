package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Memory keeps uploads in process. It backs local runs without cloud
// credentials and the handler tests.
type Memory struct {
	mu      sync.Mutex
	baseURL string
	objects map[string][]byte
}

func NewMemory(baseURL string) *Memory {
	return &Memory{baseURL: baseURL, objects: map[string][]byte{}}
}

func (m *Memory) Put(ctx context.Context, r io.Reader, contentType, folder string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", m.baseURL, folder, uuid.NewString())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[url] = data
	return url, nil
}

func (m *Memory) Delete(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[url]; !ok {
		return false, nil
	}
	delete(m.objects, url)
	return true, nil
}

// Has reports whether url is currently stored.
func (m *Memory) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[url]
	return ok
}
