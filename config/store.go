package config

import (
	"errors"
	"fmt"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store persists Config in an ini file.
type Store struct {
	log  *zap.SugaredLogger
	path string

	mu  sync.Mutex
	cfg Config
}

// Open loads the file at path. A missing or unreadable file is replaced with defaults.
func Open(log *zap.SugaredLogger, path string) (*Store, error) {
	s := &Store{
		log:  log,
		path: path,
		cfg:  Default(),
	}

	cfg, err := load(path)
	switch {
	case err == nil:
		s.cfg = cfg
		return s, nil
	case errors.Is(err, fs.ErrNotExist):
		log.Infow("Creating default configuration", "path", path)
	default:
		log.Warnw("Configuration unreadable, restoring defaults", "path", path, "error", err)
	}

	if err := save(path, s.cfg); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Set validates and persists cfg.
func (s *Store) Set(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := save(s.path, cfg); err != nil {
		return err
	}

	s.cfg = cfg
	s.log.Infow("Configuration saved", "path", s.path)
	return nil
}

func load(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, err
	}

	file, err := ini.Load(path)
	if err != nil {
		return Config{}, err
	}

	section := file.Section("")
	cfg := Default()

	for _, key := range Keys {
		if !section.HasKey(key) {
			continue
		}

		cfg, err = cfg.With(key, section.Key(key).String())
		if err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func save(path string, cfg Config) error {
	file := ini.Empty()
	section := file.Section("")

	for _, key := range Keys {
		value, err := cfg.Value(key)
		if err != nil {
			return err
		}
		section.Key(key).SetValue(value)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := file.SaveTo(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}

	return os.Rename(tmp, path)
}
