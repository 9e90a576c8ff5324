// Package files stores uploaded receipt images on the local filesystem.
package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tabsplit/tabsplit/internal/model"
)

// Store persists receipt images and cleans up old ones
type Store interface {
	// Save writes a receipt image and returns the stored filename
	Save(filename string, data []byte) (string, error)

	// Get retrieves a stored receipt image
	Get(filename string) ([]byte, error)

	// Delete removes a stored receipt image
	Delete(filename string) error

	// CleanupOlderThan removes receipt files last modified before the
	// cutoff, returning how many were removed
	CleanupOlderThan(cutoff time.Time) (int, error)
}

// LocalStore implements Store using a single directory on disk
type LocalStore struct {
	basePath string
	logger   *slog.Logger
}

// NewLocalStore creates the storage directory if needed
func NewLocalStore(basePath string, logger *slog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating receipt directory: %w", err)
	}
	return &LocalStore{
		basePath: basePath,
		logger:   logger,
	}, nil
}

// Ensure LocalStore implements Store
var _ Store = (*LocalStore)(nil)

// Save writes a receipt image to the store directory
func (s *LocalStore) Save(filename string, data []byte) (string, error) {
	filename = sanitize(filename)
	path := filepath.Join(s.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing receipt file: %w", err)
	}
	return filename, nil
}

// Get reads a receipt image from the store directory
func (s *LocalStore) Get(filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, sanitize(filename)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("reading receipt file: %w", err)
	}
	return data, nil
}

// Delete removes a receipt image
func (s *LocalStore) Delete(filename string) error {
	err := os.Remove(filepath.Join(s.basePath, sanitize(filename)))
	if err != nil {
		if os.IsNotExist(err) {
			return model.ErrReceiptNotFound
		}
		return fmt.Errorf("deleting receipt file: %w", err)
	}
	return nil
}

// CleanupOlderThan removes receipt files last modified before the cutoff
func (s *LocalStore) CleanupOlderThan(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("listing receipt directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.basePath, entry.Name())); err != nil {
			s.logger.Warn("failed to remove old receipt file",
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("cleaned up old receipt files", slog.Int("removed", removed))
	}
	return removed, nil
}

// sanitize strips any path components so stored names stay inside the
// base directory
func sanitize(filename string) string {
	filename = filepath.Base(filename)
	return strings.TrimPrefix(filename, ".")
}
