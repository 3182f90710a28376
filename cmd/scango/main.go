package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/lmercat/scango/internal/command"
	"github.com/lmercat/scango/internal/config"
	"github.com/lmercat/scango/internal/driver"
	"github.com/lmercat/scango/internal/ext/archive"
	"github.com/lmercat/scango/internal/logic/capture"
	"github.com/lmercat/scango/internal/plugin"
	"github.com/lmercat/scango/internal/status"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "scango"})
	printer := status.NewPrinter(os.Stdout)

	registry := plugin.NewRegistry()
	registry.RegisterDriver(driver.NewDummy())
	registry.RegisterDriver(driver.NewGPIOPair())
	registry.RegisterExtension(archive.New())

	cfg, err := loadConfig(registry, logger)
	if err != nil {
		logger.Fatal("configuration failed", "err", err)
	}

	app := &command.App{
		Registry: registry,
		Config:   cfg,
		Logger:   logger,
		Printer:  printer,
		Reader:   capture.NewTerminalReader(os.Stdin),
	}

	if err := app.Build().Run(context.Background(), os.Args); err != nil {
		var devErr *plugin.DeviceError
		if errors.As(err, &devErr) {
			logger.Error("capture preconditions not met", "reason", devErr.Reason)
		} else {
			logger.Error(err.Error())
		}
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

// loadConfig assembles the configuration namespace: core defaults, then
// the persisted file, then the templates declared by the configured driver
// and the registered extensions. When no file exists yet the defaults are
// persisted right away, before any command-line override is merged, so the
// file never captures session-only values.
func loadConfig(registry *plugin.Registry, logger *log.Logger) (*config.Namespace, error) {
	cfg := config.New()
	cfg.SetDefault("driver", "dummy")
	cfg.SetDefault("loglevel", "info")
	cfg.SetDefault("capture.capture_keys", []string{"b", " "})
	cfg.SetDefault("capture.parallel_capture", true)

	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	// Declared defaults never overwrite file values.
	if drv, ok := registry.Driver(cfg.String("driver")); ok {
		drv.Template().ApplyDefaults(cfg, "device")
	}
	for _, ext := range registry.Extensions() {
		ext.Template().ApplyDefaults(cfg, ext.Name())
	}

	created, err := cfg.EnsureFile(path)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("wrote default configuration", "path", path)
	}
	return cfg, nil
}
