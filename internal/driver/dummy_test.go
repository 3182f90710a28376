package driver

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lmercat/scango/internal/config"
)

func dummyConfig() *config.Namespace {
	cfg := config.New()
	NewDummy().Template().ApplyDefaults(cfg, "device")
	return cfg
}

func TestDummy_DevicesFromConfig(t *testing.T) {
	cfg := dummyConfig()
	devices, err := NewDummy().Devices(context.Background(), cfg, t.TempDir(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].Orientation() != "odd" || devices[1].Orientation() != "even" {
		t.Errorf("orientations = %s/%s, want odd/even",
			devices[0].Orientation(), devices[1].Orientation())
	}
}

func TestDummy_UnassignedOrientationIsEmpty(t *testing.T) {
	cfg := dummyConfig()
	cfg.Set("device.devices", 3)
	devices, err := NewDummy().Devices(context.Background(), cfg, t.TempDir(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if got := devices[2].Orientation(); got != "" {
		t.Errorf("third device orientation = %q, want empty (unconfigured)", got)
	}
}

func TestDummy_CaptureWritesStubPages(t *testing.T) {
	dir := t.TempDir()
	cfg := dummyConfig()
	cfg.Set("device.image_format", "png")
	devices, err := NewDummy().Devices(context.Background(), cfg, dir, log.New(io.Discard))
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}

	ctx := context.Background()
	for _, d := range devices {
		if err := d.PrepareCapture(ctx); err != nil {
			t.Fatalf("PrepareCapture: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		for _, d := range devices {
			if err := d.Capture(ctx); err != nil {
				t.Fatalf("Capture: %v", err)
			}
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "raw"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d files, want 4", len(entries))
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".png") {
			t.Errorf("file %s does not use the configured format", e.Name())
		}
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"odd,even", []string{"odd", "even"}},
		{" odd , even ", []string{"odd", "even"}},
		{"", nil},
		{",", nil},
	}
	for _, tc := range cases {
		got := splitList(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("splitList(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitList(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}
