package util

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// CreateTempFile returns a fresh scratch file path under the test's
// temp dir, plus a cleanup func.
func CreateTempFile(t *testing.T) (string, func()) {
	t.Helper()
	tempDir := t.TempDir()
	tempFile := filepath.Join(tempDir, fmt.Sprintf("buffercore-test-%d.dat", rand.Intn(1_000_000)))
	return tempFile, func() {
		os.Remove(tempFile)
	}
}
