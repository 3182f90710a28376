// Package command synthesizes the command-line surface from the registered
// drivers' and extensions' option templates, merges parsed values into the
// configuration namespace and dispatches subcommands to their handlers.
package command

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/lmercat/scango/internal/config"
	"github.com/lmercat/scango/internal/logic/capture"
	"github.com/lmercat/scango/internal/plugin"
	"github.com/lmercat/scango/internal/status"
	"github.com/lmercat/scango/internal/workflow"
)

// App bundles the dependencies the command handlers need. The command tree
// is built once per invocation, after defaults and the persisted file have
// been loaded, so flag synthesis sees the configured driver.
type App struct {
	Registry *plugin.Registry
	Config   *config.Namespace
	Logger   *log.Logger
	Printer  *status.Printer
	Reader   capture.KeyReader
}

// Build constructs the root command with the wizard, capture, postprocess
// and output subcommands, each carrying its synthesized flag surface.
func (a *App) Build() *cli.Command {
	captureSpecs := a.captureSpecs()
	processSpecs := a.processSpecs()
	outputSpecs := a.outputSpecs()

	wizardSpecs := dedupe(append(append(append([]FlagSpec{}, captureSpecs...), processSpecs...), outputSpecs...))
	processSpecs = append([]FlagSpec{jobsSpec()}, processSpecs...)

	return &cli.Command{
		Name:  "scango",
		Usage: "Scanning tool for DIY book scanners",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable debug logging"},
		},
		Commands: []*cli.Command{
			a.command("wizard", "Interactive mode", wizardSpecs, a.runWizard),
			a.command("capture", "Start the capturing workflow", captureSpecs, a.runCapture),
			a.command("postprocess", "Postprocess scanned images", processSpecs, a.runPostprocess),
			a.command("output", "Generate output files", outputSpecs, a.runOutput),
		},
	}
}

// captureSpecs collects the flags of every owner interested in the capture
// lifecycle: the static parallel-capture toggle, the configured driver and
// the extensions declaring a capture hook.
func (a *App) captureSpecs() []FlagSpec {
	specs := []FlagSpec{noParallelSpec()}
	if drv, ok := a.Registry.Driver(a.Config.String("driver")); ok {
		specs = append(specs, a.synthesize("device", drv.Template())...)
	}
	for _, ext := range a.Registry.Relevant(plugin.CaptureHooks...) {
		specs = append(specs, a.synthesize(ext.Name(), ext.Template())...)
	}
	return specs
}

func (a *App) processSpecs() []FlagSpec {
	var specs []FlagSpec
	for _, ext := range a.Registry.Relevant(plugin.HookProcess) {
		specs = append(specs, a.synthesize(ext.Name(), ext.Template())...)
	}
	return specs
}

func (a *App) outputSpecs() []FlagSpec {
	var specs []FlagSpec
	for _, ext := range a.Registry.Relevant(plugin.HookOutput) {
		specs = append(specs, a.synthesize(ext.Name(), ext.Template())...)
	}
	return specs
}

func (a *App) synthesize(owner string, tmpl plugin.Template) []FlagSpec {
	specs, errs := SynthesizeFlags(owner, tmpl)
	for _, err := range errs {
		a.Logger.Warn("skipping option", "owner", owner, "err", err)
	}
	return specs
}

// command wires a subcommand: it requires the project path argument,
// merges supplied flags into the namespace, assembles the workflow and
// invokes the handler.
func (a *App) command(name, usage string, specs []FlagSpec, handler func(context.Context, *workflow.Workflow) error) *cli.Command {
	flags := make([]cli.Flag, 0, len(specs))
	for _, s := range specs {
		flags = append(flags, s.Flag)
	}
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<project-path>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return cli.Exit("project path argument is required", 2)
			}
			Merge(a.Config, cmd, specs)
			a.Config.Set("path", path)
			if cmd.Bool("verbose") {
				a.Config.Set("loglevel", "debug")
			}
			a.applyLogLevel()

			wf, err := workflow.New(ctx, path, a.Config, a.Registry, a.Logger)
			if err != nil {
				return err
			}
			return handler(ctx, wf)
		},
	}
}

func (a *App) runCapture(ctx context.Context, wf *workflow.Workflow) error {
	keys := a.Config.Strings("capture.capture_keys")
	ctl := capture.NewController(wf, keys, a.Reader, a.Printer, a.Logger)
	_, err := ctl.Run(ctx)
	return err
}

func (a *App) runPostprocess(ctx context.Context, wf *workflow.Workflow) error {
	return wf.Process(ctx, a.Config.Int("jobs"))
}

func (a *App) runOutput(ctx context.Context, wf *workflow.Workflow) error {
	return wf.Output(ctx)
}

// runWizard chains capture, postprocess and output over one workflow. A
// stage failure stops the chain; completed stages are not rolled back.
func (a *App) runWizard(ctx context.Context, wf *workflow.Workflow) error {
	a.Printer.Banner("Starting capturing process")
	if err := a.runCapture(ctx, wf); err != nil {
		return err
	}
	a.Printer.Banner("Starting postprocessing")
	if err := a.runPostprocess(ctx, wf); err != nil {
		return err
	}
	a.Printer.Banner("Generating output")
	return a.runOutput(ctx, wf)
}

func (a *App) applyLogLevel() {
	switch a.Config.String("loglevel") {
	case "debug":
		a.Logger.SetLevel(log.DebugLevel)
	case "info":
		a.Logger.SetLevel(log.InfoLevel)
	case "warning":
		a.Logger.SetLevel(log.WarnLevel)
	case "error":
		a.Logger.SetLevel(log.ErrorLevel)
	case "none":
		a.Logger.SetLevel(log.FatalLevel)
	}
}

func noParallelSpec() FlagSpec {
	return FlagSpec{
		FlagName: "no-parallel-capture",
		DestKey:  "capture.parallel_capture",
		Kind:     plugin.KindBool,
		Default:  true,
		Negated:  true,
		Flag: &cli.BoolFlag{
			Name:  "no-parallel-capture",
			Usage: "Do not trigger capture on multiple devices at once",
		},
	}
}

func jobsSpec() FlagSpec {
	return FlagSpec{
		FlagName: "jobs",
		DestKey:  "jobs",
		Kind:     plugin.KindInt,
		Metavar:  "<int>",
		Flag: &cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "Number of concurrent processes",
		},
	}
}

// dedupe keeps the first spec per destination key. The wizard aggregates
// the flag surfaces of all three stages, and an extension declaring both a
// capture and an output hook must still contribute each flag only once.
func dedupe(specs []FlagSpec) []FlagSpec {
	seen := make(map[string]struct{}, len(specs))
	out := specs[:0]
	for _, s := range specs {
		if _, dup := seen[s.DestKey]; dup {
			continue
		}
		seen[s.DestKey] = struct{}{}
		out = append(out, s)
	}
	return out
}
