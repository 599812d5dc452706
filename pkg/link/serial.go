package link

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// DefaultSerialReadTimeout bounds each Read on a serial port so that the
// Framer observes idle gaps and cancellation.
const DefaultSerialReadTimeout = 100 * time.Millisecond

// OpenSerial opens a serial port in 8N1 mode. Radio modules on a UART
// and Bluetooth SPP modules (or /dev/rfcommN) are both plain ports.
func OpenSerial(portName string, baudRate int) (serial.Port, error) {
	if portName == "" {
		return nil, fmt.Errorf("serial port is empty")
	}
	if baudRate <= 0 {
		return nil, fmt.Errorf("invalid serial baud rate: %d", baudRate)
	}
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %v", portName, err)
	}
	if err := port.SetReadTimeout(DefaultSerialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set serial read timeout: %v", err)
	}
	return port, nil
}
