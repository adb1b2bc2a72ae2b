// utils/files.go - Upload staging helpers
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, os.ModePerm)
}

// StagedFileName builds a collision-free on-disk name for an uploaded file,
// keeping the original extension. The client-supplied base name never
// reaches the filesystem.
func StagedFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s%s", uuid.New().String(), ext)
}
