// Package plugin defines the contracts drivers and extensions implement and
// the registry that holds them. Drivers expose capture devices; extensions
// contribute behavior at named lifecycle hooks. Both declare an ordered
// template of typed options that the command layer turns into flags and
// configuration defaults.
package plugin

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lmercat/scango/internal/config"
)

// Hook is a named lifecycle point used to decide which extensions apply to
// which subcommand.
type Hook string

const (
	HookPrepareCapture Hook = "prepare_capture"
	HookCapture        Hook = "capture"
	HookFinishCapture  Hook = "finish_capture"
	HookProcess        Hook = "process"
	HookOutput         Hook = "output"
)

// CaptureHooks are the hooks relevant to capture-capable subcommands.
var CaptureHooks = []Hook{HookPrepareCapture, HookCapture, HookFinishCapture}

// Device is a single physical (or simulated) capture device.
type Device interface {
	Name() string
	// Orientation reports which page side the device shoots ("odd" or
	// "even"); empty means the device has not been configured yet.
	Orientation() string
	PrepareCapture(ctx context.Context) error
	Capture(ctx context.Context) error
	FinishCapture(ctx context.Context) error
}

// Driver is a device-specific hardware abstraction. Its template is
// registered under the "device" configuration section.
type Driver interface {
	Name() string
	Template() Template
	// Devices opens the driver's devices for a project. The configuration
	// holds the merged "device" section values.
	Devices(ctx context.Context, cfg *config.Namespace, projectPath string, logger *log.Logger) ([]Device, error)
}

// HookContext carries the state an extension needs at dispatch time.
type HookContext struct {
	ProjectPath string
	Config      *config.Namespace
	Logger      *log.Logger
	// Jobs is the requested postprocessing concurrency; 0 means the
	// extension decides.
	Jobs int
}

// Extension contributes behavior at one or more hooks. Its template is
// registered under a section named after the extension.
type Extension interface {
	Name() string
	Hooks() []Hook
	Template() Template
	Invoke(ctx context.Context, hook Hook, hc HookContext) error
}

// DeviceError reports unmet capture preconditions (wrong device count,
// unconfigured orientation). It is fatal to the running subcommand.
type DeviceError struct {
	Reason string
}

func (e *DeviceError) Error() string { return e.Reason }

// Registry holds the drivers and extensions compiled into the binary.
// Registration order is preserved so synthesized flags and defaults are
// deterministic.
type Registry struct {
	drivers  map[string]Driver
	driverNs []string
	exts     map[string]Extension
	extNs    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[string]Driver),
		exts:    make(map[string]Extension),
	}
}

// RegisterDriver adds a driver. Registering the same name twice is a
// programming error and panics.
func (r *Registry) RegisterDriver(d Driver) {
	if _, exists := r.drivers[d.Name()]; exists {
		panic(fmt.Sprintf("driver %q already registered", d.Name()))
	}
	r.drivers[d.Name()] = d
	r.driverNs = append(r.driverNs, d.Name())
}

// RegisterExtension adds an extension. Duplicate names panic.
func (r *Registry) RegisterExtension(e Extension) {
	if _, exists := r.exts[e.Name()]; exists {
		panic(fmt.Sprintf("extension %q already registered", e.Name()))
	}
	r.exts[e.Name()] = e
	r.extNs = append(r.extNs, e.Name())
}

// Driver returns the driver registered under name.
func (r *Registry) Driver(name string) (Driver, bool) {
	d, ok := r.drivers[name]
	return d, ok
}

// Extensions returns all extensions in registration order.
func (r *Registry) Extensions() []Extension {
	out := make([]Extension, 0, len(r.extNs))
	for _, name := range r.extNs {
		out = append(out, r.exts[name])
	}
	return out
}

// Relevant returns the extensions whose declared hook set intersects the
// given hooks, in registration order.
func (r *Registry) Relevant(hooks ...Hook) []Extension {
	want := make(map[Hook]struct{}, len(hooks))
	for _, h := range hooks {
		want[h] = struct{}{}
	}
	var out []Extension
	for _, name := range r.extNs {
		e := r.exts[name]
		for _, h := range e.Hooks() {
			if _, ok := want[h]; ok {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// ApplyDefaults registers the template's declared defaults under the given
// configuration section, without overwriting values already present.
func (t Template) ApplyDefaults(ns *config.Namespace, section string) {
	for _, opt := range t {
		ns.SetDefault(section+"."+opt.Key, opt.Default())
	}
}
