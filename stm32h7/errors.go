package stm32h7

import (
	"errors"
	"fmt"
)

var ErrRegionNotFound = errors.New("region not found")

// ConfigError reports a malformed region or section definition. The catalog
// rejects these before any placement is attempted.
type ConfigError struct {
	Subject string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Subject, e.Reason)
}

func configErr(subject, format string, args ...any) *ConfigError {
	return &ConfigError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

// OutOfSpaceError reports a section that cannot fit in its assigned region.
// Requested is the section size after alignment of the cursor; Available is
// what the region had left at that point.
type OutOfSpaceError struct {
	Region    string
	Section   string
	Requested uint32
	Available uint32
}

func (e *OutOfSpaceError) Error() string {
	return fmt.Sprintf("out of space in %s: %s needs %#x, %#x available",
		e.Region, e.Section, e.Requested, e.Available)
}

// TransportError wraps a failure of the external programming transport.
type TransportError struct {
	Device string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: device %s: %v", e.Device, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
