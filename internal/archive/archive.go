package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveCache moves the synthesis cache directory aside with a timestamp
// instead of deleting it, so a fresh cache starts empty but old audio can be
// recovered.
func ArchiveCache(cacheDir string) error {
	// Check if cache directory exists
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		return fmt.Errorf("cache directory does not exist: %s", cacheDir)
	}

	// Get parent directory and create archive path
	parentDir := filepath.Dir(cacheDir)
	archiveDir := filepath.Join(parentDir, "archive")

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archiveName := fmt.Sprintf("cache-%s", timestamp)
	archivePath := filepath.Join(archiveDir, archiveName)

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archiveName = fmt.Sprintf("cache-%s", timestamp)
		archivePath = filepath.Join(archiveDir, archiveName)
	}

	// Rename cache directory to archive
	if err := os.Rename(cacheDir, archivePath); err != nil {
		return fmt.Errorf("failed to archive cache directory: %w", err)
	}

	fmt.Printf("Cache directory archived to: %s\n", archivePath)
	return nil
}
