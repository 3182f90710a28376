package gpio

import (
	"github.com/charmbracelet/log"
)

// Level represents the logical state of a GPIO pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// PinMode indicates whether a GPIO is input or output.
type PinMode int

const (
	Input PinMode = iota
	Output
)

// Driver defines the abstract interface for controlling GPIOs.
// This allows plugging in a real Raspberry Pi implementation
// or a mock for development on PC.
type Driver interface {
	SetupPin(pin int, mode PinMode) error
	WritePin(pin int, level Level) error
	ReadPin(pin int) (Level, error)
	Close() error
}

// MockDriver is a development implementation that only logs actions.
type MockDriver struct {
	logger *log.Logger
}

// NewDriver creates a GPIO driver based on the chosen mode.
// If mock is true, returns a MockDriver (for dev/test).
// If mock is false, returns a real RPiDriver (for Raspberry Pi).
func NewDriver(mock bool, logger *log.Logger) (Driver, error) {
	if mock {
		logger.Info("using mock GPIO driver (development mode)")
		return &MockDriver{logger: logger}, nil
	}
	return NewRPiRealDriver(logger)
}

func (m *MockDriver) SetupPin(pin int, mode PinMode) error {
	m.logger.Debug("gpio setup", "pin", pin, "mode", mode)
	return nil
}

func (m *MockDriver) WritePin(pin int, level Level) error {
	m.logger.Debug("gpio write", "pin", pin, "level", level)
	return nil
}

func (m *MockDriver) ReadPin(pin int) (Level, error) {
	m.logger.Debug("gpio read", "pin", pin)
	return Low, nil
}

func (m *MockDriver) Close() error {
	m.logger.Debug("gpio close (mock)")
	return nil
}
