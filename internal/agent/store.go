package agent

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// TableSaver persists a value table.
type TableSaver interface {
	Save(t *Table) error
}

// FileStore reads and writes the value table as a flat float64 matrix file
// in gonum's binary matrix encoding (a small shape header followed by the
// row-major values).
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store for the given path. The path is used as-is.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file path of the store.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the table. It always returns a usable table: a missing file
// yields a zero table and a nil error, a corrupt or mis-shaped file yields
// a zero table and an error describing why it was discarded.
func (f *FileStore) Load(bins int) (*Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fresh := NewTable(bins)

	// The encoding of a zero table has exactly the expected length, so a
	// length check rejects foreign shapes before the header is trusted.
	want, err := fresh.m.MarshalBinary()
	if err != nil {
		return fresh, fmt.Errorf("agent: encode empty table: %w", err)
	}

	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fresh, nil
	}
	if err != nil {
		return fresh, fmt.Errorf("agent: cannot stat value table %s: %w", f.path, err)
	}
	if info.Size() != int64(len(want)) {
		return fresh, fmt.Errorf("agent: value table %s is %d bytes, want %d for %d bins",
			f.path, info.Size(), len(want), bins)
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fresh, fmt.Errorf("agent: cannot read value table %s: %w", f.path, err)
	}

	var m mat.Dense
	if err := m.UnmarshalBinary(data); err != nil {
		return fresh, fmt.Errorf("agent: corrupt value table %s: %w", f.path, err)
	}

	rows, cols := m.Dims()
	if rows != fresh.States() || cols != NumActions {
		return fresh, fmt.Errorf("agent: value table %s has shape %dx%d, want %dx%d",
			f.path, rows, cols, fresh.States(), NumActions)
	}

	return &Table{bins: bins, m: &m}, nil
}

// Save writes the table atomically: to a temp file in the same directory,
// then renamed over the previous file.
func (f *FileStore) Save(t *Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("agent: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("agent: cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // No-op after a successful rename

	w := bufio.NewWriter(tmp)
	if _, err := t.m.MarshalBinaryTo(w); err != nil {
		tmp.Close()
		return fmt.Errorf("agent: cannot encode value table: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("agent: cannot write value table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("agent: cannot write value table: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("agent: cannot replace value table %s: %w", f.path, err)
	}
	return nil
}

// Remove deletes the table file. A missing file is not an error.
func (f *FileStore) Remove() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("agent: cannot remove value table %s: %w", f.path, err)
	}
	return nil
}
