package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSlot stores each slot as <dir>/<name>.json.
type FileSlot struct {
	dir string
}

var _ Slot = (*FileSlot)(nil)

func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileSlot{dir: dir}, nil
}

func (f *FileSlot) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

func (f *FileSlot) Get(_ context.Context, name string) ([]byte, bool, error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", name, err)
	}
	return data, true, nil
}

// Put writes to a temp file and renames it over the slot so readers never
// see a partial payload.
func (f *FileSlot) Put(_ context.Context, name string, payload []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync slot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), f.path(name)); err != nil {
		return fmt.Errorf("replace slot %s: %w", name, err)
	}
	return nil
}
