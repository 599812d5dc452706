//go:build !linux
// +build !linux

package input

import "errors"

// OpenDevice is only supported on Linux.
func OpenDevice(index int) (Device, error) {
	return nil, errors.New("joystick not supported on this platform")
}
