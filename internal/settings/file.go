package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	AutoDistribute bool `yaml:"auto_distribute"`
}

// FileStore хранит флаг в YAML-файле. Подходит для одной реплики.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore создаёт хранилище поверх файла path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// EnsureDefaults создаёт файл с auto_distribute: false, если его нет.
func (s *FileStore) EnsureDefaults(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat settings file failed: %w", err)
	}
	return s.writeLocked(fileDocument{})
}

// AutoDistribution читает флаг. Отсутствующий файл означает false.
func (s *FileStore) AutoDistribution(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readLocked()
	if err != nil {
		return false, err
	}
	return doc.AutoDistribute, nil
}

// SetAutoDistribution записывает флаг.
func (s *FileStore) SetAutoDistribution(_ context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeLocked(fileDocument{AutoDistribute: enabled})
}

// ToggleAutoDistribution инвертирует флаг под мьютексом.
func (s *FileStore) ToggleAutoDistribution(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readLocked()
	if err != nil {
		return false, err
	}
	doc.AutoDistribute = !doc.AutoDistribute
	if err := s.writeLocked(doc); err != nil {
		return false, err
	}
	return doc.AutoDistribute, nil
}

func (s *FileStore) readLocked() (fileDocument, error) {
	var doc fileDocument

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read settings file failed: %w", err)
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse settings file failed: %w", err)
	}
	return doc, nil
}

// writeLocked пишет во временный файл и переименовывает его поверх старого.
func (s *FileStore) writeLocked(doc fileDocument) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode settings failed: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir failed: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file failed: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write settings failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close settings failed: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace settings file failed: %w", err)
	}
	return nil
}
