package otf

import (
	"runtime"
	"time"
)

const (
	// DefaultBaudRate is fixed by the filter's serial interface.
	DefaultBaudRate = Baud9600

	// DefaultReadTimeout bounds each blocking read on the port.
	DefaultReadTimeout = 100 * time.Millisecond
)

// Config holds the serial parameters for a filter connection.
type Config struct {
	// PortName is the path to the serial device, e.g. /dev/ttyUSB0 on
	// Linux or COM3 on Windows. Empty selects the platform default.
	PortName string `mapstructure:"port" validate:"required"`

	BaudRate BaudRate `mapstructure:"baud" validate:"baudrate"`
	DataBits int      `mapstructure:"data_bits" validate:"min=5,max=8"`
	Parity   Parity   `mapstructure:"-"`
	StopBits StopBits `mapstructure:"-"`

	// ReadTimeout is the underlying port read timeout.
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"min=0"`

	// Verify probes the port with the identification command after
	// opening and fails unless a filter answers.
	Verify bool `mapstructure:"verify"`
}

// DefaultConfig returns the fixed filter link parameters (9600 8N1) for
// the given port. An empty port name selects DefaultPortName.
func DefaultConfig(portName string) Config {
	return Config{
		PortName:    portName,
		BaudRate:    DefaultBaudRate,
		DataBits:    8,
		Parity:      ParityNone,
		StopBits:    StopBits1,
		ReadTimeout: DefaultReadTimeout,
	}.withDefaults()
}

// DefaultPortName returns the conventional USB serial adapter path for
// the host operating system.
func DefaultPortName() string {
	switch runtime.GOOS {
	case "windows":
		return "COM3"
	case "darwin":
		return "/dev/cu.usbserial"
	default:
		return "/dev/ttyUSB0"
	}
}

// withDefaults fills unset fields. Parity and StopBits zero values are
// already NoParity and OneStopBit.
func (c Config) withDefaults() Config {
	if c.PortName == "" {
		c.PortName = DefaultPortName()
	}
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.DataBits == 0 {
		c.DataBits = 8
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	return c
}
