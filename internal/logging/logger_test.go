package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger_CreatesLogDirAndWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("logger_ready")
	_ = logger.Sync()

	if _, err := os.Stat(filepath.Join(dir, "controllermon.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}
