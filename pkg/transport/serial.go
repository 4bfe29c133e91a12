package transport

import (
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/erpc-go/erpc/pkg/errkind"
)

// SerialRawIO is a RawIO over a UART link opened with go.bug.st/serial.
// Reads use a short inner port timeout polled in a loop up to the outer
// per-operation timeout.
type SerialRawIO struct {
	mu        sync.Mutex
	port      serial.Port
	timeout   time.Duration
	connected bool
}

// OpenSerial opens portName at baudRate and wraps it as a Framed transport.
func OpenSerial(portName string, baudRate int) (*Framed, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, errkind.NewTransportError(errkind.ConnectionFailed, err.Error())
	}
	if err := port.SetReadTimeout(time.Second); err != nil {
		_ = port.Close()
		return nil, errkind.NewTransportError(errkind.ConnectionFailed, err.Error())
	}
	return NewFramed(&SerialRawIO{port: port, timeout: 30 * time.Second, connected: true}), nil
}

func (s *SerialRawIO) BaseSend(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return errkind.NewTransportError(errkind.Closed, "")
	}
	if _, err := s.port.Write(data); err != nil {
		return errkind.NewTransportError(errkind.SendFailed, err.Error())
	}
	return nil
}

func (s *SerialRawIO) BaseReceive(length int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, errkind.NewTransportError(errkind.Closed, "")
	}

	data := make([]byte, length)
	read := 0
	deadline := time.Now().Add(s.timeout)

	for read < length {
		n, err := s.port.Read(data[read:])
		if err != nil && err != io.EOF {
			s.connected = false
			return nil, errkind.NewTransportError(errkind.ReceiveFailed, err.Error())
		}
		read += n
		if read >= length {
			break
		}
		if time.Now().After(deadline) {
			s.connected = false
			return nil, errkind.NewTransportError(errkind.Timeout, "")
		}
		// n == 0 means the port's read timeout elapsed with nothing
		// available; keep polling until the overall deadline.
	}
	return data, nil
}

func (s *SerialRawIO) IsConnected() bool { return s.connected }

func (s *SerialRawIO) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return s.port.Close()
}

func (s *SerialRawIO) SetTimeout(timeout time.Duration) { s.timeout = timeout }
