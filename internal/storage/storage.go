package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExportStore keeps rendered plan exports on disk, one versioned file per plan and format.
type ExportStore struct {
	basePath string
}

// NewExportStore creates a new ExportStore and ensures the base directory exists.
func NewExportStore(basePath string) (*ExportStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &ExportStore{basePath: basePath}, nil
}

// BasePath returns the directory exports are written to.
func (s *ExportStore) BasePath() string {
	return s.basePath
}

// PlanKey names the exports of a saved plan.
func PlanKey(planID int64) string {
	return fmt.Sprintf("plan-%d", planID)
}

// NewKey names the exports of a plan that was never saved.
func NewKey() string {
	return "draft-" + uuid.NewString()
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9-]+`)

func sanitizeKey(key string) string {
	return unsafeKeyChars.ReplaceAllString(key, "-")
}

// sanitizeTimestamp makes the timestamp safe for filenames.
func sanitizeTimestamp(ts time.Time) string {
	return strings.ReplaceAll(ts.UTC().Format("2006-01-02T15:04:05Z"), ":", "-")
}

// getVersionedPath returns the full path for a given key, version and extension.
func (s *ExportStore) getVersionedPath(key string, version time.Time, ext string) string {
	filename := fmt.Sprintf("%s_%s%s", sanitizeKey(key), sanitizeTimestamp(version), ext)
	return filepath.Join(s.basePath, filename)
}

// Save writes one rendered export and returns its path.
func (s *ExportStore) Save(key string, version time.Time, ext string, data []byte) (string, error) {
	filePath := s.getVersionedPath(key, version, ext)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return filePath, nil
}

// Load reads a specific export version.
func (s *ExportStore) Load(key string, version time.Time, ext string) ([]byte, error) {
	data, err := os.ReadFile(s.getVersionedPath(key, version, ext))
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	return data, nil
}

// Exists checks if a specific export version exists.
func (s *ExportStore) Exists(key string, version time.Time, ext string) bool {
	_, err := os.Stat(s.getVersionedPath(key, version, ext))
	return !os.IsNotExist(err)
}

// Versions lists the export files kept for key, oldest first.
func (s *ExportStore) Versions(key string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, sanitizeKey(key)+"_*"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob export files: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// RemoveStaleVersions removes every export of key except those of the keep version.
func (s *ExportStore) RemoveStaleVersions(key string, keep time.Time) error {
	matches, err := s.Versions(key)
	if err != nil {
		return err
	}
	prefix := filepath.Join(s.basePath, sanitizeKey(key)+"_"+sanitizeTimestamp(keep))
	for _, match := range matches {
		if strings.HasPrefix(match, prefix) {
			continue
		}
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
	}
	return nil
}
