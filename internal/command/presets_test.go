package command

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPresetRegistry(t *testing.T) {
	t.Run("Built In Presets", func(t *testing.T) {
		r := NewPresetRegistry()

		sour, ok := r.Get("sour")
		if !ok || sour != PresetSour {
			t.Errorf("Expected sour preset %v, got %v", PresetSour, sour)
		}
		bitter, ok := r.Get("bitter")
		if !ok || bitter != PresetBitter {
			t.Errorf("Expected bitter preset %v, got %v", PresetBitter, bitter)
		}

		names := r.Names()
		if len(names) != 2 || names[0] != "bitter" || names[1] != "sour" {
			t.Errorf("Expected [bitter sour], got %v", names)
		}
	})

	t.Run("Load YAML File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.yaml")
		data := "presets:\n  salty:\n    dac_value: 30\n    duty_cycle: 60\n    frequency: 20\n  sour:\n    dac_value: 40\n    duty_cycle: 40\n    frequency: 40\n"
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		r := NewPresetRegistry()
		if err := r.LoadFile(path); err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}

		salty, ok := r.Get("salty")
		if !ok || salty != (Params{DacValue: 30, DutyCycle: 60, Frequency: 20}) {
			t.Errorf("Unexpected salty preset: %v", salty)
		}
		sour, _ := r.Get("sour")
		if sour != (Params{DacValue: 40, DutyCycle: 40, Frequency: 40}) {
			t.Errorf("Expected sour to be overridden, got %v", sour)
		}
	})

	t.Run("Out Of Range Preset Rejects Whole File", func(t *testing.T) {
		r := NewPresetRegistry()
		data := []byte("presets:\n  ok:\n    dac_value: 1\n    duty_cycle: 1\n    frequency: 1\n  bad:\n    dac_value: 150\n    duty_cycle: 1\n    frequency: 1\n")

		err := r.Load(data)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Expected ErrInvalidArgument, got %v", err)
		}
		if _, ok := r.Get("ok"); ok {
			t.Errorf("Expected no preset to be registered from an invalid file")
		}
	})

	t.Run("Unknown Field Is Rejected", func(t *testing.T) {
		r := NewPresetRegistry()
		if err := r.Load([]byte("presets:\n  x:\n    volume: 3\n")); err == nil {
			t.Errorf("Expected error for unknown field")
		}
	})
}
