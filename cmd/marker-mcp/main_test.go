package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/marker-overlay-mcp/internal/config"
	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    cliArgs
		wantErr bool
	}{
		{"empty", nil, cliArgs{}, false},
		{"config", []string{"--config", "a.yaml"}, cliArgs{configPath: "a.yaml"}, false},
		{"config equals", []string{"--config=b.yaml", "detect", "x.png"}, cliArgs{configPath: "b.yaml", command: "detect", rest: []string{"x.png"}}, false},
		{"short config after command", []string{"detect", "x.png", "-c", "c.yaml"}, cliArgs{configPath: "c.yaml", command: "detect", rest: []string{"x.png"}}, false},
		{"missing config value", []string{"--config"}, cliArgs{}, true},
		{"unknown option", []string{"--frobnicate"}, cliArgs{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.configPath != tt.want.configPath || got.command != tt.want.command || strings.Join(got.rest, ",") != strings.Join(tt.want.rest, ",") {
				t.Errorf("parseArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	usage(&buf)
	for _, want := range []string{"detect <image>", "--config", config.LogLevelEnv} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage should mention %q", want)
		}
	}
}

func TestRunDetect(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 10; y <= 60; y++ {
		for x := 10; x <= 60; x++ {
			img.Set(x, y, color.White)
		}
	}
	in := filepath.Join(dir, "in.png")
	if err := imaging.SavePNG(in, img); err != nil {
		t.Fatal(err)
	}
	annotated := filepath.Join(dir, "out.png")

	cfg := config.Default()
	cfg.Seed = 9

	var buf bytes.Buffer
	if err := runDetect(cfg, []string{in, annotated}, &buf); err != nil {
		t.Fatalf("runDetect: %v", err)
	}

	var out struct {
		Image     string            `json:"image"`
		Seed      int64             `json:"seed"`
		Annotated string            `json:"annotated"`
		Width     int               `json:"width"`
		Markers   []json.RawMessage `json:"markers"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if out.Image != in || out.Seed != 9 || out.Width != 100 || out.Annotated != annotated {
		t.Errorf("output: %+v", out)
	}
	if len(out.Markers) > cfg.Detection.MaxMarkers {
		t.Errorf("too many markers: %d", len(out.Markers))
	}
	if _, err := os.Stat(annotated); err != nil {
		t.Errorf("annotated image not written: %v", err)
	}
}

func TestRunDetect_Errors(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	if err := runDetect(cfg, nil, &buf); err == nil {
		t.Error("expected usage error without arguments")
	}
	if err := runDetect(cfg, []string{"a", "b", "c"}, &buf); err == nil {
		t.Error("expected usage error with too many arguments")
	}
	if err := runDetect(cfg, []string{filepath.Join(t.TempDir(), "missing.png")}, &buf); err == nil {
		t.Error("expected error for missing image")
	}
}
