package input

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/relay.go/pkg/framework"
)

// Device is an opened joystick-class device.
type Device interface {
	io.Closer
	Index() int
	Name() string
	// ReadEvent blocks for the next raw event.
	ReadEvent() (RawEvent, error)
}

// RawEvent is an axis or button change as reported by the device.
type RawEvent struct {
	Init   bool
	Axis   bool
	Number int
	Value  int
}

// DefaultAxisThreshold is the deflection counted as one detent.
const DefaultAxisThreshold = 16384

// Joystick uses a joystick as an encoder: each deflection of the
// selected axis past the threshold is one detent, the selected button
// is the push button.
type Joystick struct {
	DeviceIndex int
	Axis        int
	Button      int
	Threshold   int
	RetryDelay  time.Duration

	// Open defaults to OpenDevice.
	Open func(index int) (Device, error)

	deflected int
}

// NewJoystick creates a Joystick with defaults, auto-detecting the device.
func NewJoystick() *Joystick {
	return &Joystick{
		DeviceIndex: -1,
		Threshold:   DefaultAxisThreshold,
		RetryDelay:  time.Second,
	}
}

// Translate converts a raw device event into an encoder event.
func (j *Joystick) Translate(raw RawEvent) *Event {
	if raw.Init {
		return nil
	}
	if !raw.Axis {
		if raw.Number != j.Button {
			return nil
		}
		if raw.Value != 0 {
			return &Event{Button: ButtonPressed}
		}
		return &Event{Button: ButtonReleased}
	}
	if raw.Number != j.Axis {
		return nil
	}
	threshold := j.Threshold
	if threshold <= 0 {
		threshold = DefaultAxisThreshold
	}
	dir := 0
	switch {
	case raw.Value >= threshold:
		dir = 1
	case raw.Value <= -threshold:
		dir = -1
	}
	// one detent per deflection, counted on the edge.
	if dir == j.deflected {
		return nil
	}
	j.deflected = dir
	if dir == 0 {
		return nil
	}
	return &Event{Delta: dir}
}

// Run implements Runnable. The device is re-opened after errors.
func (j *Joystick) Run(ctx context.Context) error {
	ctl := fx.LoopCtlFrom(ctx)
	open := j.Open
	if open == nil {
		open = OpenDevice
	}
	for {
		dev, err := j.openDevice(open)
		if err != nil {
			glog.Warningf("open joystick: %v", err)
		} else if dev != nil {
			glog.Infof("joystick %d %q opened", dev.Index(), dev.Name())
			err = fx.RunWithContextCloser(ctx, dev, func() error {
				for {
					raw, err := dev.ReadEvent()
					if err != nil {
						return err
					}
					if ev := j.Translate(raw); ev != nil {
						post(ctl, ev)
					}
				}
			})
			if ctx.Err() != nil {
				return ctx.Err()
			}
			glog.Warningf("joystick read error: %v", err)
			j.deflected = 0
		}
		delay := j.RetryDelay
		if delay <= 0 {
			delay = time.Second
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (j *Joystick) openDevice(open func(int) (Device, error)) (Device, error) {
	if j.DeviceIndex >= 0 {
		return open(j.DeviceIndex)
	}
	return DetectAndOpen(open, 0)
}
