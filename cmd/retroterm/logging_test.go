package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// restoreLog puts the standard logger back after a test redirects it
func restoreLog(t *testing.T) {
	t.Helper()
	w, flags := log.Writer(), log.Flags()
	t.Cleanup(func() {
		log.SetOutput(w)
		log.SetFlags(flags)
	})
}

// TestSetupLoggingDisabledByDefault verifies logs are discarded without -debug
func TestSetupLoggingDisabledByDefault(t *testing.T) {
	restoreLog(t)
	t.Chdir(t.TempDir())

	if f := setupLogging(false); f != nil {
		f.Close()
		t.Error("Expected nil log file when debug=false")
	}
	if log.Writer() != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", log.Writer())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory without debug")
	}
}

// TestSetupLoggingWritesFile verifies -debug routes the logger to the log file
func TestSetupLoggingWritesFile(t *testing.T) {
	restoreLog(t)
	t.Chdir(t.TempDir())

	f := setupLogging(true)
	if f == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer f.Close()

	if w := log.Writer(); w == os.Stdout || w == os.Stderr {
		t.Error("Log output must not reach the terminal")
	}
	log.Println("sink degraded")

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "sink degraded") {
		t.Errorf("log file = %q, want the logged line", data)
	}
}

// TestSetupLoggingRotation verifies oversized logs are rotated aside
func TestSetupLoggingRotation(t *testing.T) {
	restoreLog(t)
	t.Chdir(t.TempDir())

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatalf("Failed to write large log: %v", err)
	}

	f := setupLogging(true)
	if f == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer f.Close()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotated := 0
	for _, e := range entries {
		if e.Name() != logFileName && strings.HasPrefix(e.Name(), "retroterm-") {
			rotated++
		}
	}
	if rotated != 1 {
		t.Errorf("rotated files = %d, want 1", rotated)
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("new log size = %d, want <= %d", info.Size(), maxLogSize)
	}
}
