//go:build linux
// +build linux

package input

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

// jsDevice reads the Linux joystick API (/dev/input/jsN).
type jsDevice struct {
	file  *os.File
	index int
	name  string
}

type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

const (
	jsIocGName uint = 0x80ff6a13

	jsEventButton uint8 = 0x01
	jsEventAxis   uint8 = 0x02
	jsEventInit   uint8 = 0x80
)

// OpenDevice opens /dev/input/js<index>.
func OpenDevice(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &jsDevice{file: f, index: index}
	var buf [256]byte
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uintptr(jsIocGName), uintptr(unsafe.Pointer(&buf)))
	if errno != 0 {
		f.Close()
		return nil, errno
	}
	if pos := bytes.IndexByte(buf[:], 0); pos >= 0 {
		d.name = string(buf[:pos])
	} else {
		d.name = string(buf[:])
	}
	return d, nil
}

func (d *jsDevice) Close() error { return d.file.Close() }
func (d *jsDevice) Index() int   { return d.index }
func (d *jsDevice) Name() string { return d.name }

func (d *jsDevice) ReadEvent() (RawEvent, error) {
	var ev jsEvent
	if err := binary.Read(d.file, binary.LittleEndian, &ev); err != nil {
		return RawEvent{}, err
	}
	return RawEvent{
		Init:   ev.Type&jsEventInit != 0,
		Axis:   ev.Type&jsEventAxis != 0,
		Number: int(ev.Number),
		Value:  int(ev.Value),
	}, nil
}
