package errcode

import (
	"errors"

	"seeprom-go/drivers/seeprom"
)

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"

	ZeroLength  Code = "zero_length"
	NotResolved Code = "device_not_resolved"
	OutOfRange  Code = "out_of_range"
	Timeout     Code = "timeout"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap tags err with the code derived from it. Nil stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: Of(err), Op: op, Msg: err.Error(), Err: err}
}

// Invalid tags err as a caller mistake. Nil stays nil.
func Invalid(op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: InvalidParams, Op: op, Msg: err.Error(), Err: err}
}

// Of extracts a Code from an error, defaulting to the driver mapping.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return MapDriverErr(err)
}

// MapDriverErr maps low-level driver errors to a Code.
func MapDriverErr(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, seeprom.ErrZeroLength):
		return ZeroLength
	case errors.Is(err, seeprom.ErrNotResolved), errors.Is(err, seeprom.ErrUnknownChip):
		return NotResolved
	case errors.Is(err, seeprom.ErrOutOfRange):
		return OutOfRange
	case errors.Is(err, seeprom.ErrTimeout):
		return Timeout
	}
	return Error
}
