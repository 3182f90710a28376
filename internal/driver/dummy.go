package driver

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lmercat/scango/internal/config"
	"github.com/lmercat/scango/internal/plugin"
)

// Dummy simulates a scanner rig by writing stub page files into the
// project directory. It exists for development and for exercising the
// capture workflow without hardware.
type Dummy struct{}

// NewDummy returns the dummy driver.
func NewDummy() *Dummy { return &Dummy{} }

func (d *Dummy) Name() string { return "dummy" }

func (d *Dummy) Template() plugin.Template {
	return plugin.Template{
		plugin.IntOption("devices", "Number of simulated devices", 2),
		plugin.TextOption("orientations", "Comma-separated orientations assigned to the devices", "odd,even"),
		plugin.EnumOption("image_format", "File format of the stub pages", "jpg", "png", "tif"),
		plugin.FloatOption("failure_rate", "Probability that a simulated capture fails", 0),
	}
}

func (d *Dummy) Devices(ctx context.Context, cfg *config.Namespace, projectPath string, logger *log.Logger) ([]plugin.Device, error) {
	count := cfg.Int("device.devices")
	if count < 0 {
		return nil, fmt.Errorf("device count must be >= 0, got %d", count)
	}
	orientations := splitList(cfg.String("device.orientations"))
	format := cfg.String("device.image_format")
	failureRate := cfg.Float("device.failure_rate")

	rawDir := filepath.Join(projectPath, "raw")
	devices := make([]plugin.Device, 0, count)
	for i := 0; i < count; i++ {
		orientation := ""
		if i < len(orientations) {
			orientation = orientations[i]
		}
		devices = append(devices, &dummyDevice{
			name:        fmt.Sprintf("dummy-%d", i+1),
			orientation: orientation,
			dir:         rawDir,
			format:      format,
			failureRate: failureRate,
			logger:      logger.With("device", fmt.Sprintf("dummy-%d", i+1)),
		})
	}
	return devices, nil
}

type dummyDevice struct {
	name        string
	orientation string
	dir         string
	format      string
	failureRate float64
	logger      *log.Logger
	shots       int
}

func (d *dummyDevice) Name() string        { return d.name }
func (d *dummyDevice) Orientation() string { return d.orientation }

func (d *dummyDevice) PrepareCapture(ctx context.Context) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create capture dir: %w", err)
	}
	d.logger.Debug("prepared for capture", "dir", d.dir)
	return nil
}

func (d *dummyDevice) Capture(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.failureRate > 0 && rand.Float64() < d.failureRate {
		return fmt.Errorf("simulated capture failure on %s", d.name)
	}
	d.shots++
	name := fmt.Sprintf("%s-%s-%04d.%s", d.name, d.orientation, d.shots, d.format)
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, []byte("stub page\n"), 0o644); err != nil {
		return fmt.Errorf("write stub page: %w", err)
	}
	d.logger.Debug("captured stub page", "path", path)
	return nil
}

func (d *dummyDevice) FinishCapture(ctx context.Context) error {
	d.logger.Debug("capture finished", "shots", d.shots)
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
