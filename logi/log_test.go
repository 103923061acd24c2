package logi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetLogger_BeforeInit(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("GetLogger() returned nil before NewLog")
	}
}

func TestBuild_InvalidSettings(t *testing.T) {
	dir := t.TempDir()

	if _, err := build(&Config{Level: "banana"}, filepath.Join(dir, "a.log")); err == nil {
		t.Fatal("expected error for invalid level")
	}
	if _, err := build(&Config{Format: "xml"}, filepath.Join(dir, "a.log")); err == nil {
		t.Fatal("expected error for invalid format")
	}
}

func TestNewLog_WritesToFile(t *testing.T) {
	dir := t.TempDir()

	l, err := NewLog(&Config{LogDir: dir, LogFileName: "test.log", Level: "debug"})
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	if l != GetLogger() {
		t.Fatal("GetLogger() should return the logger built by NewLog")
	}

	l.Info("hello from test")
	_ = l.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file does not contain message, got %q", string(data))
	}

	again, err := NewLog(&Config{LogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("second NewLog: %v", err)
	}
	if again != l {
		t.Error("second NewLog call should return the singleton")
	}
}
