package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil

	// Must not panic.
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	Printer("progress")
}

func TestInitWritesLogFile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	Info("record saved", "date", "2024-01-10")
	Debug("hidden outside debug mode")

	data, err := os.ReadFile(filepath.Join(LogDir(configDir), "pdcaflow.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "record saved") {
		t.Errorf("expected info line in log, got %q", content)
	}
	if strings.Contains(content, "hidden outside debug mode") {
		t.Errorf("debug line written without debug mode: %q", content)
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := t.TempDir()

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Init failed in debug mode: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger.GetLevel().String() != "debug" {
		t.Errorf("expected debug level, got %s", Logger.GetLevel())
	}
}
