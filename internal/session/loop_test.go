package session

import (
	"context"
	"image/color"
	"testing"
	"time"
)

func TestLoopConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LoopConfig)
		wantErr bool
	}{
		{"defaults", func(c *LoopConfig) {}, false},
		{"zero render", func(c *LoopConfig) { c.RenderHz = 0 }, true},
		{"render too fast", func(c *LoopConfig) { c.RenderHz = 5000 }, true},
		{"negative detect", func(c *LoopConfig) { c.DetectHz = -1 }, true},
		{"stats disabled", func(c *LoopConfig) { c.StatsInterval = 0 }, false},
		{"negative stats", func(c *LoopConfig) { c.StatsInterval = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLoopConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	rig := newRig(t, staticSource(solidImage(32, 32, color.Black)))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- rig.session.Run(ctx, LoopConfig{RenderHz: 200, DetectHz: 100, StatsInterval: 20 * time.Millisecond})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	stats := rig.session.Snapshot().Stats
	if stats.Cycles == 0 || stats.RenderTicks == 0 {
		t.Errorf("loop made no progress: %+v", stats)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	rig := newRig(t, nil)
	if err := rig.session.Run(context.Background(), LoopConfig{}); err == nil {
		t.Error("expected error for zero loop config")
	}
}
