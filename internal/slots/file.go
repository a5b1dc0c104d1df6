package slots

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rpggio/byggkoll/internal/repository"
)

// FileBackend stores each slot as <dir>/<slot>.json.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend creates the directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slot directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(slot string) string {
	return filepath.Join(f.dir, slot+".json")
}

func (f *FileBackend) Get(_ context.Context, slot string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(slot))
	if os.IsNotExist(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put replaces the slot file through a rename so readers never see a
// partially written document.
func (f *FileBackend) Put(_ context.Context, slot string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, slot+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(slot))
}

func (f *FileBackend) Delete(_ context.Context, slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(slot))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
