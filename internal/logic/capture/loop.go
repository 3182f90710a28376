// Package capture contains the interactive capture loop: a small state
// machine that arms the devices, shoots on configured keypresses and
// tracks throughput until a non-capture key ends the session.
package capture

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/lmercat/scango/internal/plugin"
	"github.com/lmercat/scango/internal/status"
)

// State is the capture loop's position in its lifecycle.
type State int

const (
	Idle State = iota
	Armed
	Capturing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Capturing:
		return "capturing"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Workflow is the slice of the workflow layer the loop drives.
type Workflow interface {
	Devices() []plugin.Device
	PrepareCapture(ctx context.Context) error
	Capture(ctx context.Context) error
	FinishCapture(ctx context.Context) error
}

// Session tracks one armed capture run.
type Session struct {
	Devices     []plugin.Device
	ShotCount   int
	StartTime   time.Time
	Rate        float64 // pages per hour
	CaptureKeys map[rune]struct{}
	Stopped     bool
}

// Controller drives the capture state machine.
type Controller struct {
	wf      Workflow
	keys    []string
	reader  KeyReader
	printer *status.Printer
	logger  *log.Logger
	now     func() time.Time

	state   State
	session *Session
}

// NewController returns an idle controller. keys are the configured
// capture keys (single characters; matching is case-insensitive).
func NewController(wf Workflow, keys []string, reader KeyReader, printer *status.Printer, logger *log.Logger) *Controller {
	return &Controller{
		wf:      wf,
		keys:    keys,
		reader:  reader,
		printer: printer,
		logger:  logger,
		now:     time.Now,
	}
}

// State returns the controller's current state.
func (c *Controller) State() State { return c.state }

// Session returns the active session, or nil before arming.
func (c *Controller) Session() *Session { return c.session }

// Arm validates the capture preconditions and creates the session
// (IDLE -> ARMED). Exactly two devices must be present and each must have
// its orientation configured; otherwise a DeviceError aborts the
// subcommand with no retry.
func (c *Controller) Arm() error {
	if c.state != Idle {
		return fmt.Errorf("cannot arm from state %s", c.state)
	}
	devices := c.wf.Devices()
	if len(devices) != 2 {
		return &plugin.DeviceError{Reason: fmt.Sprintf(
			"please connect and turn on two pre-configured devices (%d were found)", len(devices))}
	}
	for _, d := range devices {
		if d.Orientation() == "" {
			return &plugin.DeviceError{Reason: fmt.Sprintf(
				"device %s has no orientation configured, please configure it and re-run", d.Name())}
		}
	}

	captureKeys := make(map[rune]struct{}, len(c.keys))
	for _, k := range c.keys {
		for _, r := range k {
			captureKeys[unicode.ToLower(r)] = struct{}{}
		}
	}

	c.session = &Session{
		Devices:     devices,
		StartTime:   c.now(),
		CaptureKeys: captureKeys,
	}
	c.state = Armed
	c.printer.Infof("Found %d devices!", len(devices))
	return nil
}

// Run executes the full capture lifecycle: arm (when still idle), prepare
// the devices, loop on keypresses and finish. It returns the completed
// session.
func (c *Controller) Run(ctx context.Context) (*Session, error) {
	if c.state == Idle {
		if err := c.Arm(); err != nil {
			return nil, err
		}
	}
	if c.state != Armed {
		return nil, fmt.Errorf("cannot run from state %s", c.state)
	}

	c.printer.Infof("Setting up devices for capturing.")
	if err := c.wf.PrepareCapture(ctx); err != nil {
		return nil, fmt.Errorf("prepare capture: %w", err)
	}
	c.state = Capturing
	c.session.StartTime = c.now()
	c.printer.Promptf("Press %s to capture.", firstKeyLabel(c.keys))

	for {
		key, err := c.reader.ReadKey()
		if err != nil {
			return nil, fmt.Errorf("read keypress: %w", err)
		}
		if _, ok := c.session.CaptureKeys[unicode.ToLower(key)]; !ok {
			break
		}
		if err := c.wf.Capture(ctx); err != nil {
			return nil, err
		}
		c.session.ShotCount += len(c.session.Devices)
		elapsed := c.now().Sub(c.session.StartTime)
		c.session.Rate = Rate(c.session.ShotCount, elapsed)
		c.printer.Progressf("Shot %s pages [%.0f/h]",
			c.printer.Accent(fmt.Sprintf("%d", c.session.ShotCount)), c.session.Rate)
	}

	c.session.Stopped = true
	if err := c.wf.FinishCapture(ctx); err != nil {
		return nil, fmt.Errorf("finish capture: %w", err)
	}
	c.state = Finished

	elapsed := c.now().Sub(c.session.StartTime)
	c.printer.Donef("Shot %s pages in %.1f minutes, average speed was %.0f pages per hour",
		c.printer.Accent(fmt.Sprintf("%d", c.session.ShotCount)),
		elapsed.Minutes(), c.session.Rate)
	c.logger.Debug("capture session finished", "shots", c.session.ShotCount, "elapsed", elapsed)
	return c.session, nil
}

// Rate computes pages per hour from a shot count and elapsed time. When
// the elapsed time rounds to zero seconds the rate is defined as 0, so the
// very first shot never divides by zero.
func Rate(shots int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if math.Round(secs) == 0 {
		return 0
	}
	return 3600 / secs * float64(shots)
}

func firstKeyLabel(keys []string) string {
	if len(keys) == 0 {
		return "a capture key"
	}
	if keys[0] == " " {
		return "'space'"
	}
	return "'" + keys[0] + "'"
}
