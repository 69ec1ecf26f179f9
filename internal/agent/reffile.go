package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// RefFileSizeThreshold is the diff size (in bytes) above which the diff is
// written to a temp file instead of being embedded in the prompt. This
// keeps prompts manageable and stays clear of stdin pipe pressure on very
// large diffs; the agent has file system access and reads the file when
// instructed via the prompt.
const RefFileSizeThreshold = 100 * 1024

// WriteDiffToTempFile writes the diff to a uniquely named temp file inside
// workDir so sandboxed agent tools can reach it. The caller cleans up with
// CleanupTempFile.
func WriteDiffToTempFile(workDir, diff string) (string, error) {
	tempPath := filepath.Join(workDir, fmt.Sprintf(".azr-diff-%s.patch", uuid.New().String()))
	if err := os.WriteFile(tempPath, []byte(diff), 0600); err != nil {
		return "", fmt.Errorf("failed to write diff to temp file: %w", err)
	}

	absPath, err := filepath.Abs(tempPath)
	if err != nil {
		if rmErr := os.Remove(tempPath); rmErr != nil && !os.IsNotExist(rmErr) {
			fmt.Fprintf(os.Stderr, "Warning: failed to clean up temp file %s: %v\n", tempPath, rmErr)
		}
		return "", fmt.Errorf("failed to resolve temp file path: %w", err)
	}
	return absPath, nil
}

// CleanupTempFile removes a temp file. Cleanup failures are non-fatal and
// only produce a warning.
func CleanupTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to clean up temp file %s: %v\n", path, err)
	}
}
