// Package workflow bundles the project path, merged configuration, open
// devices and registered extensions behind the single object the command
// handlers operate on.
package workflow

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lmercat/scango/internal/config"
	"github.com/lmercat/scango/internal/plugin"
)

// Workflow orchestrates devices and extensions for one project.
type Workflow struct {
	path     string
	cfg      *config.Namespace
	registry *plugin.Registry
	devices  []plugin.Device
	logger   *log.Logger
}

// New resolves the configured driver, opens its devices and returns the
// assembled workflow.
func New(ctx context.Context, path string, cfg *config.Namespace, registry *plugin.Registry, logger *log.Logger) (*Workflow, error) {
	name := cfg.String("driver")
	drv, ok := registry.Driver(name)
	if !ok {
		return nil, fmt.Errorf("unknown driver %q", name)
	}
	devices, err := drv.Devices(ctx, cfg, path, logger)
	if err != nil {
		return nil, fmt.Errorf("open devices for driver %q: %w", name, err)
	}
	logger.Debug("workflow assembled", "driver", name, "devices", len(devices), "path", path)
	return &Workflow{
		path:     path,
		cfg:      cfg,
		registry: registry,
		devices:  devices,
		logger:   logger,
	}, nil
}

// Path returns the project path.
func (w *Workflow) Path() string { return w.path }

// Config returns the merged configuration namespace.
func (w *Workflow) Config() *config.Namespace { return w.cfg }

// Devices returns the open devices in driver order.
func (w *Workflow) Devices() []plugin.Device { return w.devices }

// PrepareCapture readies every device and dispatches the prepare_capture
// hook to interested extensions.
func (w *Workflow) PrepareCapture(ctx context.Context) error {
	for _, d := range w.devices {
		if err := d.PrepareCapture(ctx); err != nil {
			return fmt.Errorf("prepare %s: %w", d.Name(), err)
		}
	}
	return w.dispatch(ctx, plugin.HookPrepareCapture, 0)
}

// Capture triggers one shot on every device. When capture.parallel_capture
// is enabled the devices are triggered concurrently.
func (w *Workflow) Capture(ctx context.Context) error {
	if w.cfg.Bool("capture.parallel_capture") {
		g, gctx := errgroup.WithContext(ctx)
		for _, d := range w.devices {
			d := d
			g.Go(func() error {
				if err := d.Capture(gctx); err != nil {
					return fmt.Errorf("capture on %s: %w", d.Name(), err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, d := range w.devices {
			if err := d.Capture(ctx); err != nil {
				return fmt.Errorf("capture on %s: %w", d.Name(), err)
			}
		}
	}
	return w.dispatch(ctx, plugin.HookCapture, 0)
}

// FinishCapture tears down every device and dispatches the finish_capture
// hook.
func (w *Workflow) FinishCapture(ctx context.Context) error {
	for _, d := range w.devices {
		if err := d.FinishCapture(ctx); err != nil {
			return fmt.Errorf("finish %s: %w", d.Name(), err)
		}
	}
	return w.dispatch(ctx, plugin.HookFinishCapture, 0)
}

// Process dispatches the process hook to postprocessing extensions. jobs
// caps their concurrency; 0 leaves the choice to each extension.
func (w *Workflow) Process(ctx context.Context, jobs int) error {
	return w.dispatch(ctx, plugin.HookProcess, jobs)
}

// Output dispatches the output hook to output extensions.
func (w *Workflow) Output(ctx context.Context) error {
	return w.dispatch(ctx, plugin.HookOutput, 0)
}

func (w *Workflow) dispatch(ctx context.Context, hook plugin.Hook, jobs int) error {
	hc := plugin.HookContext{
		ProjectPath: w.path,
		Config:      w.cfg,
		Logger:      w.logger,
		Jobs:        jobs,
	}
	for _, ext := range w.registry.Relevant(hook) {
		w.logger.Debug("dispatching hook", "hook", hook, "extension", ext.Name())
		if err := ext.Invoke(ctx, hook, hc); err != nil {
			return fmt.Errorf("extension %s (%s): %w", ext.Name(), hook, err)
		}
	}
	return nil
}
