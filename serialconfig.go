package devcmd

import (
	"errors"
	"slices"
	"time"
)

var (
	// ErrSerialClosed is reported by SerialSource.Err after Close.
	ErrSerialClosed = errors.New("serial source closed")
	// ErrReadTimeout is reported by SerialSource.Err when no byte arrived
	// within SerialConfig.ReadTimeout.
	ErrReadTimeout = errors.New("serial source read timeout")
	// ErrUnsupportedBaud is returned by OpenSerial for a baud rate the port
	// cannot be configured with.
	ErrUnsupportedBaud = errors.New("unsupported baud rate")
)

// DefaultBaudRate is used when SerialConfig.BaudRate is zero.
const DefaultBaudRate = 115200

var supportedBaudRates = []int{9600, 19200, 38400, 57600, 115200, 230400}

// SerialConfig holds configuration parameters for opening a serial port.
type SerialConfig struct {
	Device   string
	BaudRate int // default 115200
	// ReadTimeout bounds each wait for input. Zero waits forever.
	ReadTimeout time.Duration
}

// SupportedBaudRate reports whether OpenSerial accepts baud.
func SupportedBaudRate(baud int) bool {
	return slices.Contains(supportedBaudRates, baud)
}
