package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempStore holds uploads staged by the intake endpoint until the
// pipeline has consumed them. Paths in job payloads are relative to the
// store root and are rejected if they try to escape it.
type TempStore struct {
	Root string
}

func NewTempStore(root string) (*TempStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("temp store root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create temp root: %w", err)
	}
	return &TempStore{Root: root}, nil
}

func (s *TempStore) Exists(_ context.Context, relPath string) (bool, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat temp file %s: %w", relPath, err)
}

func (s *TempStore) Read(_ context.Context, relPath string) ([]byte, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read temp file %s: %w", relPath, err)
	}
	return data, nil
}

func (s *TempStore) Remove(_ context.Context, relPath string) error {
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove temp file %s: %w", relPath, err)
	}
	return nil
}

// Stage copies raw upload bytes into the store under relPath, creating
// parent directories as needed. Used by the producer side.
func (s *TempStore) Stage(_ context.Context, relPath string, data []byte) error {
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("stage temp file %s: %w", relPath, err)
	}
	return nil
}

func (s *TempStore) resolve(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid temp path %q", relPath)
	}
	return filepath.Join(s.Root, clean), nil
}
