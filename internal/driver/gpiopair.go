package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lmercat/scango/internal/config"
	"github.com/lmercat/scango/internal/hw/camera"
	"github.com/lmercat/scango/internal/hw/gpio"
	"github.com/lmercat/scango/internal/plugin"
)

// GPIOPair drives a two-camera book-scanner rig where both DSLRs hang off
// one controller's GPIO header via their wired remote connectors. The left
// camera shoots odd pages, the right camera even pages.
type GPIOPair struct{}

// NewGPIOPair returns the gpiopair driver.
func NewGPIOPair() *GPIOPair { return &GPIOPair{} }

func (g *GPIOPair) Name() string { return "gpiopair" }

func (g *GPIOPair) Template() plugin.Template {
	return plugin.Template{
		plugin.IntOption("left_focus_pin", "GPIO pin for the left camera FOCUS line", 17),
		plugin.IntOption("left_shutter_pin", "GPIO pin for the left camera SHUTTER line", 27),
		plugin.IntOption("right_focus_pin", "GPIO pin for the right camera FOCUS line", 23),
		plugin.IntOption("right_shutter_pin", "GPIO pin for the right camera SHUTTER line", 24),
		plugin.IntOption("focus_delay_ms", "Autofocus delay in milliseconds", 500),
		plugin.IntOption("shutter_delay_ms", "Shutter hold time in milliseconds", 200),
		plugin.BoolOption("autofocus", "Trigger autofocus before each shot", true),
		plugin.BoolOption("mock_gpio", "Use the mock GPIO backend", false),
	}
}

func (g *GPIOPair) Devices(ctx context.Context, cfg *config.Namespace, projectPath string, logger *log.Logger) ([]plugin.Device, error) {
	gpioDriver, err := gpio.NewDriver(cfg.Bool("device.mock_gpio"), logger)
	if err != nil {
		return nil, fmt.Errorf("init GPIO: %w", err)
	}

	focusDelay := time.Duration(cfg.Int("device.focus_delay_ms")) * time.Millisecond
	shutterDelay := time.Duration(cfg.Int("device.shutter_delay_ms")) * time.Millisecond
	autofocus := cfg.Bool("device.autofocus")

	shared := &rig{gpio: gpioDriver}
	left := &gpioDevice{
		name:        "left",
		orientation: "odd",
		cam: camera.NewTrigger(gpioDriver,
			cfg.Int("device.left_focus_pin"), cfg.Int("device.left_shutter_pin"),
			focusDelay, shutterDelay, autofocus, logger.With("camera", "left")),
		rig: shared,
	}
	right := &gpioDevice{
		name:        "right",
		orientation: "even",
		cam: camera.NewTrigger(gpioDriver,
			cfg.Int("device.right_focus_pin"), cfg.Int("device.right_shutter_pin"),
			focusDelay, shutterDelay, autofocus, logger.With("camera", "right")),
		rig: shared,
	}
	return []plugin.Device{left, right}, nil
}

// rig holds the GPIO driver shared by both devices; the first
// FinishCapture releases it.
type rig struct {
	gpio gpio.Driver
	once sync.Once
	err  error
}

func (r *rig) close() error {
	r.once.Do(func() {
		r.err = r.gpio.Close()
	})
	return r.err
}

type gpioDevice struct {
	name        string
	orientation string
	cam         *camera.Trigger
	rig         *rig
}

func (d *gpioDevice) Name() string        { return d.name }
func (d *gpioDevice) Orientation() string { return d.orientation }

func (d *gpioDevice) PrepareCapture(ctx context.Context) error {
	// Trigger lines were already driven HIGH (inactive) at construction.
	return nil
}

func (d *gpioDevice) Capture(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.cam.Shoot()
}

func (d *gpioDevice) FinishCapture(ctx context.Context) error {
	return d.rig.close()
}
