package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupLogger(t *testing.T) {
	defer SetupLogger("info")

	levels := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"unknown": logrus.InfoLevel,
	}
	for name, want := range levels {
		SetupLogger(name)
		if Logger.GetLevel() != want {
			t.Errorf("Expected level %v for %q, got %v", want, name, Logger.GetLevel())
		}
	}
}

func TestSetupLogFile(t *testing.T) {
	if closer := SetupLogFile(""); closer != nil {
		t.Errorf("Expected nil closer for empty path")
	}

	path := filepath.Join(t.TempDir(), "bridge.log")
	closer := SetupLogFile(path)
	if closer == nil {
		t.Fatalf("Expected closer for %s", path)
	}
	defer func() {
		Logger.SetOutput(os.Stderr)
		closer.Close()
	}()

	Logger.Info("device connected")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "device connected") {
		t.Errorf("Expected log file to contain message, got %q", string(data))
	}
}
