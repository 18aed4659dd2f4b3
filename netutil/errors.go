package netutil

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatchingInterface indicates no active interface carries the
	// requested address.
	ErrNoMatchingInterface = errors.New("netutil: no matching network interface")

	// ErrMaskLengthMismatch indicates the address and the interface subnet
	// mask differ in byte length, so a broadcast address cannot be derived.
	ErrMaskLengthMismatch = errors.New("netutil: address and subnet mask length mismatch")

	// ErrNotIPv4 indicates an operation that requires an IPv4 address was
	// given something else.
	ErrNotIPv4 = errors.New("netutil: not an IPv4 address")

	// ErrHostEmpty indicates a blank hostname was supplied.
	ErrHostEmpty = errors.New("netutil: hostname is empty")
)

// InterfaceError wraps a failure reported by the OS while enumerating
// network interfaces or their addresses. Callers must handle it explicitly;
// it is never downgraded to a nil result.
type InterfaceError struct {
	Op  string
	Err error
}

func (e *InterfaceError) Error() string {
	return fmt.Sprintf("netutil: %s: %v", e.Op, e.Err)
}

func (e *InterfaceError) Unwrap() error { return e.Err }
