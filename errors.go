package otf

import (
	"errors"
	"fmt"
)

var (
	ErrClosed       = errors.New("otf: device closed")
	ErrPortNotFound = errors.New("otf: serial port not found")
	ErrOutOfRange   = errors.New("otf: value out of range")
	ErrBadReply     = errors.New("otf: unexpected device reply")
)

// ConnectionError reports a failure to establish the serial link.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("otf: connect %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IOError reports a failed exchange on an established connection.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("otf: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func connErr(port string, err error) error { return &ConnectionError{Port: port, Err: err} }

func ioErr(op string, err error) error { return &IOError{Op: op, Err: err} }
