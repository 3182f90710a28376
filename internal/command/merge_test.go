package command

import (
	"context"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/lmercat/scango/internal/config"
	"github.com/lmercat/scango/internal/plugin"
)

// runMerge parses args against the specs' flags and merges the result.
func runMerge(t *testing.T, cfg *config.Namespace, specs []FlagSpec, args ...string) {
	t.Helper()
	flags := make([]cli.Flag, 0, len(specs))
	for _, s := range specs {
		flags = append(flags, s.Flag)
	}
	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(_ context.Context, c *cli.Command) error {
			Merge(cfg, c, specs)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"test"}, args...)); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestMerge_CLIOverridesPersistedValue(t *testing.T) {
	cfg := config.New()
	cfg.Set("device.orientation", "portrait") // as loaded from the file

	specs, _ := SynthesizeFlags("device", plugin.Template{
		plugin.EnumOption("orientation", "Device orientation", "portrait", "landscape"),
	})
	runMerge(t, cfg, specs, "--orientation", "landscape")

	if got := cfg.String("device.orientation"); got != "landscape" {
		t.Errorf("device.orientation = %q, want landscape (CLI wins)", got)
	}
}

func TestMerge_UnsuppliedFlagsAreSkipped(t *testing.T) {
	cfg := config.New()
	cfg.Set("device.image_format", "tif") // file value differs from flag default

	specs, _ := SynthesizeFlags("device", plugin.Template{
		plugin.EnumOption("image_format", "Stub format", "jpg", "png", "tif"),
		plugin.IntOption("devices", "Device count", 2),
	})
	runMerge(t, cfg, specs, "--devices", "3")

	if got := cfg.String("device.image_format"); got != "tif" {
		t.Errorf("image_format = %q, want tif (unsupplied flag must not merge its default)", got)
	}
	if got := cfg.Int("device.devices"); got != 3 {
		t.Errorf("devices = %d, want 3", got)
	}
}

func TestMerge_NegatedFlagStoresFalse(t *testing.T) {
	cfg := config.New()
	cfg.Set("capture.parallel_capture", true)

	specs := []FlagSpec{noParallelSpec()}
	runMerge(t, cfg, specs, "--no-parallel-capture")

	if cfg.Bool("capture.parallel_capture") {
		t.Error("capture.parallel_capture = true, want false after --no-parallel-capture")
	}
}

func TestMerge_BareKeySetAtTopLevel(t *testing.T) {
	cfg := config.New()
	specs := []FlagSpec{jobsSpec()}
	runMerge(t, cfg, specs, "--jobs", "4")

	if got := cfg.Int("jobs"); got != 4 {
		t.Errorf("jobs = %d, want 4", got)
	}
	if _, ok := cfg.Get("jobs.jobs"); ok {
		t.Error("bare key must not create a section")
	}
}

func TestMerge_DefaultTrueBooleanUntouchedWithoutFlag(t *testing.T) {
	cfg := config.New()
	cfg.Set("capture.parallel_capture", true)

	runMerge(t, cfg, []FlagSpec{noParallelSpec()})

	if !cfg.Bool("capture.parallel_capture") {
		t.Error("parallel_capture flipped without the flag being supplied")
	}
}
