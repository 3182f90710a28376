package camera

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/lmercat/scango/internal/hw/gpio"
)

// Trigger is a Camera implementation for a DSLR driven through its wired
// remote connector:
// - GND: connected to controller ground
// - FOCUS: autofocus (activate by setting to LOW)
// - SHUTTER: trigger (activate by setting to LOW)
//
// Trigger sequence:
// 1. FOCUS to LOW (activates autofocus, skipped when autofocus is off)
// 2. Wait for autofocus to complete
// 3. SHUTTER to LOW (triggers the shot)
// 4. Hold for a moment
// 5. Set SHUTTER and FOCUS back to HIGH
type Trigger struct {
	gpio         gpio.Driver
	focusPin     int
	shutterPin   int
	focusDelay   time.Duration // time for autofocus
	shutterDelay time.Duration // shutter hold time
	autofocus    bool
	logger       *log.Logger
}

// NewTrigger creates a GPIO-controlled remote trigger.
// focusPin and shutterPin are the GPIO pin numbers for the FOCUS and
// SHUTTER lines; focusDelay is the wait time for autofocus and
// shutterDelay the shutter hold time.
func NewTrigger(g gpio.Driver, focusPin, shutterPin int, focusDelay, shutterDelay time.Duration, autofocus bool, logger *log.Logger) *Trigger {
	// Configure pins as outputs
	_ = g.SetupPin(focusPin, gpio.Output)
	_ = g.SetupPin(shutterPin, gpio.Output)

	// By default, lines are HIGH (inactive)
	_ = g.WritePin(focusPin, gpio.High)
	_ = g.WritePin(shutterPin, gpio.High)

	return &Trigger{
		gpio:         g,
		focusPin:     focusPin,
		shutterPin:   shutterPin,
		focusDelay:   focusDelay,
		shutterDelay: shutterDelay,
		autofocus:    autofocus,
		logger:       logger,
	}
}

// Shoot triggers a photo.
// Sequence: FOCUS -> wait for AF -> SHUTTER -> hold -> release
func (t *Trigger) Shoot() error {
	t.logger.Debug("triggering shot", "focus", t.focusPin, "shutter", t.shutterPin)

	if t.autofocus {
		// 1. Activate FOCUS (autofocus)
		if err := t.gpio.WritePin(t.focusPin, gpio.Low); err != nil {
			return err
		}

		// 2. Wait for autofocus to complete
		time.Sleep(t.focusDelay)
	}

	// 3. Activate SHUTTER (trigger)
	if err := t.gpio.WritePin(t.shutterPin, gpio.Low); err != nil {
		// Release FOCUS on error
		_ = t.gpio.WritePin(t.focusPin, gpio.High)
		return err
	}

	// 4. Hold shutter
	time.Sleep(t.shutterDelay)

	// 5. Release SHUTTER then FOCUS
	if err := t.gpio.WritePin(t.shutterPin, gpio.High); err != nil {
		return err
	}
	if err := t.gpio.WritePin(t.focusPin, gpio.High); err != nil {
		return err
	}

	t.logger.Debug("shot triggered")
	return nil
}
