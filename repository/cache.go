package repository

import (
	"errors"
	"fmt"
	"github.com/csnewman/craftlauncher/integrity"
	"github.com/goccy/go-json"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadCache reads the locally persisted manifest. A missing cache returns nil without error.
func LoadCache(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &integrity.IoError{Op: "read", Path: path, Err: err}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode cached manifest: %w", err)
	}

	if st, err := os.Stat(path); err == nil {
		m.RetrievedAt = st.ModTime()
	}

	return &m, nil
}

// SaveCache replaces the cached manifest. The previous file stays intact if writing fails.
func SaveCache(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &integrity.IoError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &integrity.IoError{Op: "create", Path: path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &integrity.IoError{Op: "write", Path: path, Err: err}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &integrity.IoError{Op: "sync", Path: path, Err: err}
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &integrity.IoError{Op: "close", Path: path, Err: err}
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &integrity.IoError{Op: "rename", Path: path, Err: err}
	}

	return nil
}
