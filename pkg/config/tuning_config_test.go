package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTuningConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *TuningConfig)
	}{
		{
			name:        "empty document keeps defaults",
			yamlContent: ``,
			validate: func(t *testing.T, cfg *TuningConfig) {
				if cfg.Player.RunningSpeed != 8 {
					t.Errorf("expected runningSpeed = 8, got %f", cfg.Player.RunningSpeed)
				}
				if cfg.Slots.Count != 5 {
					t.Errorf("expected 5 slots, got %d", cfg.Slots.Count)
				}
				if cfg.Round.SafeZoneStartMs != 5000 || cfg.Round.DurationMs != 30000 {
					t.Errorf("unexpected round timing: %+v", cfg.Round)
				}
			},
		},
		{
			name: "partial override",
			yamlContent: `
round:
  durationMs: 12000
  scoreThreshold: 2
bot:
  orbit:
    radius: 2.5
`,
			validate: func(t *testing.T, cfg *TuningConfig) {
				if cfg.Round.DurationMs != 12000 {
					t.Errorf("expected durationMs = 12000, got %d", cfg.Round.DurationMs)
				}
				if cfg.Round.ScoreThreshold != 2 {
					t.Errorf("expected scoreThreshold = 2, got %d", cfg.Round.ScoreThreshold)
				}
				// 未覆盖的字段保持默认
				if cfg.Round.SafeZoneStartMs != 5000 {
					t.Errorf("expected safeZoneStartMs default 5000, got %d", cfg.Round.SafeZoneStartMs)
				}
				if cfg.Bot.Orbit.Radius != 2.5 {
					t.Errorf("expected bot orbit radius 2.5, got %f", cfg.Bot.Orbit.Radius)
				}
				if cfg.Bot.Orbit.AngularSpeed != 1.5 {
					t.Errorf("expected bot angular speed default 1.5, got %f", cfg.Bot.Orbit.AngularSpeed)
				}
			},
		},
		{
			name: "duration shorter than safe zone",
			yamlContent: `
round:
  safeZoneStartMs: 8000
  durationMs: 6000
`,
			wantErr:     true,
			errContains: "durationMs(6000) < safeZoneStartMs(8000)",
		},
		{
			name: "zero orbit radius",
			yamlContent: `
player:
  jog:
    radius: 0
`,
			wantErr:     true,
			errContains: "player.jog radius must be positive",
		},
		{
			name: "non positive threshold",
			yamlContent: `
round:
  scoreThreshold: 0
`,
			wantErr:     true,
			errContains: "scoreThreshold must be positive",
		},
		{
			name:        "malformed yaml",
			yamlContent: "round: [1, 2",
			wantErr:     true,
			errContains: "failed to parse tuning config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseTuningConfig([]byte(tt.yamlContent))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestTuningValidationIsSentinel(t *testing.T) {
	cfg := DefaultTuning()
	cfg.Bot.Seek.ArriveDistance = 0

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidTuning) {
		t.Fatalf("expected ErrInvalidTuning, got %v", err)
	}
}

func TestLoadTuningConfig(t *testing.T) {
	t.Run("repository data file is valid", func(t *testing.T) {
		cfg, err := LoadTuningConfig(filepath.Join("..", "..", "data", "tuning.yaml"))
		if err != nil {
			t.Fatalf("failed to load data/tuning.yaml: %v", err)
		}
		if cfg.Bot.Seek.ArrivedHeight != 11.75 {
			t.Errorf("expected arrivedHeight 11.75, got %f", cfg.Bot.Seek.ArrivedHeight)
		}
		if cfg.Animations.Bot.Celebrating != "Victory" {
			t.Errorf("expected bot celebrating clip Victory, got %q", cfg.Animations.Bot.Celebrating)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil || !strings.Contains(err.Error(), "failed to read tuning config") {
			t.Errorf("expected read error, got %v", err)
		}
	})

	t.Run("file override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tuning.yaml")
		if err := os.WriteFile(path, []byte("player:\n  runningSpeed: 6\n"), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
		cfg, err := LoadTuningConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Player.RunningSpeed != 6 {
			t.Errorf("expected runningSpeed 6, got %f", cfg.Player.RunningSpeed)
		}
	})
}

func TestPentagonSlots(t *testing.T) {
	layout := DefaultTuning().Slots
	slots := PentagonSlots(layout)

	if len(slots) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(slots))
	}

	// 0 号槽位位于 (6, 10.6, 0)
	if math.Abs(slots[0].X()-6) > 1e-9 || slots[0].Y() != 10.6 || math.Abs(slots[0].Z()) > 1e-9 {
		t.Errorf("slot 0 expected (6, 10.6, 0), got %v", slots[0])
	}

	for i, p := range slots {
		r := math.Hypot(p.X(), p.Z())
		if math.Abs(r-6) > 1e-9 {
			t.Errorf("slot %d: expected radius 6, got %f", i, r)
		}
	}

	if got := PentagonSlots(SlotLayoutConfig{Count: 0}); got != nil {
		t.Errorf("expected nil for empty layout, got %v", got)
	}
}
