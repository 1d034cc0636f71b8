package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"taste-bridge/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		TimeoutSeconds:    1,
		Timeout:           time.Second,
		MaxQueueLength:    8,
		TickInterval:      5 * time.Millisecond,
		Transport:         config.TransportSerial,
		SerialPort:        filepath.Join(t.TempDir(), "ttyMISSING"),
		SerialBaud:        9600,
		SerialReadTimeout: 10 * time.Millisecond,
		ReconnectInterval: 10 * time.Millisecond,
		MaxUnreadMessages: 8,
		HTTPAddr:          "127.0.0.1:0",
		LogLevel:          "error",
	}
}

func TestNewContainer(t *testing.T) {
	t.Run("Minimal Wiring", func(t *testing.T) {
		container, err := NewContainer(testConfig(t))
		if err != nil {
			t.Fatalf("NewContainer failed: %v", err)
		}
		defer container.Cleanup()

		if container.Controller == nil || container.BridgeService == nil || container.APIServer == nil {
			t.Errorf("Expected core services to be wired")
		}
		if container.Redis != nil || container.DB != nil {
			t.Errorf("Expected redis and database to stay disabled")
		}
		if container.History != nil || container.Mirror != nil {
			t.Errorf("Expected no storage sinks")
		}
	})

	t.Run("Presets File", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.PresetsFile = filepath.Join(t.TempDir(), "presets.yaml")
		data := "presets:\n  salty:\n    dac_value: 30\n    duty_cycle: 60\n    frequency: 20\n"
		if err := os.WriteFile(cfg.PresetsFile, []byte(data), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		container, err := NewContainer(cfg)
		if err != nil {
			t.Fatalf("NewContainer failed: %v", err)
		}
		defer container.Cleanup()

		if _, ok := container.Presets.Get("salty"); !ok {
			t.Errorf("Expected salty preset to be loaded")
		}
	})

	t.Run("Missing Presets File", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.PresetsFile = filepath.Join(t.TempDir(), "missing.yaml")

		if _, err := NewContainer(cfg); err == nil {
			t.Errorf("Expected error for missing presets file")
		}
	})

	t.Run("Unknown Transport", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Transport = "usb"

		if _, err := NewContainer(cfg); err == nil {
			t.Errorf("Expected error for unknown transport")
		}
	})
}

func TestContainerStartAndCleanup(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := container.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// 포트가 없어도 틱 루프는 돌아야 함
	status, err := container.BridgeService.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Connected {
		t.Errorf("Expected device to be disconnected")
	}

	container.Cleanup()
}
