package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputManager handles output file organization for a batch run: one
// directory per star under the base output directory.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// EnsureOutputDirExists ensures the base output directory exists.
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}

// CreateStarOutputDir creates the per-star directory for fit artifacts.
func (om *OutputManager) CreateStarOutputDir(starID string) (string, error) {
	starDir := filepath.Join(om.BaseOutputDir, filepath.Base(starID))

	if err := os.MkdirAll(starDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create star output directory: %w", err)
	}

	return starDir, nil
}

// OutputFilePath generates a full path for a file in the base output
// directory, stripping any path separators from the name.
func (om *OutputManager) OutputFilePath(fileName string) string {
	return filepath.Join(om.BaseOutputDir, filepath.Base(fileName))
}
