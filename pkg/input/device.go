package input

import (
	"errors"
	"os"
)

// ErrNoDevice indicates no joystick device was found.
var ErrNoDevice = errors.New("no joystick detected")

// maxDeviceIndex bounds device detection.
const maxDeviceIndex = 32

// DetectAndOpen opens the first device from startIndex that exists.
func DetectAndOpen(open func(int) (Device, error), startIndex int) (Device, error) {
	for index := startIndex; index < maxDeviceIndex; index++ {
		d, err := open(index)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return d, nil
	}
	return nil, ErrNoDevice
}
