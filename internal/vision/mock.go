package vision

import (
	"context"
	"os"
	"sync"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/imaging"
)

// MockExtractor permite tests sin un modelo de vision real.
type MockExtractor struct {
	Record domain.AttributeRecord
	Err    error

	mu        sync.Mutex
	Calls     int
	LastPath  string
	PathAlive bool
}

func (m *MockExtractor) Extract(ctx context.Context, art *imaging.Artifact) (domain.AttributeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if art != nil {
		m.LastPath = art.Path
		m.PathAlive = fileExists(art.Path)
	}
	return m.Record, m.Err
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
