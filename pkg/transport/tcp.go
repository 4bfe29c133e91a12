package transport

import (
	"net"
	"time"

	"github.com/erpc-go/erpc/pkg/errkind"
)

// TCPRawIO is a RawIO backed by a net.TCPConn (or any net.Conn dialed/accepted
// over TCP); deadlines implement the per-operation timeout.
type TCPRawIO struct {
	conn      net.Conn
	timeout   time.Duration
	connected bool
}

// DialTCP connects to addr and wraps the connection as a Framed transport.
func DialTCP(addr string) (*Framed, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errkind.NewTransportError(errkind.ConnectionFailed, err.Error())
	}
	return NewFramed(NewTCPRawIO(conn)), nil
}

// NewTCPRawIO wraps an already-established TCP connection (e.g. from
// net.Listener.Accept) as a RawIO.
func NewTCPRawIO(conn net.Conn) *TCPRawIO {
	return &TCPRawIO{conn: conn, timeout: 30 * time.Second, connected: true}
}

func (t *TCPRawIO) BaseSend(data []byte) error {
	if !t.connected {
		return errkind.NewTransportError(errkind.Closed, "")
	}
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
		return errkind.NewTransportError(errkind.SendFailed, err.Error())
	}
	if _, err := t.conn.Write(data); err != nil {
		if isTimeout(err) {
			return errkind.NewTransportError(errkind.Timeout, "")
		}
		return errkind.NewTransportError(errkind.SendFailed, err.Error())
	}
	return nil
}

func (t *TCPRawIO) BaseReceive(length int) ([]byte, error) {
	if !t.connected {
		return nil, errkind.NewTransportError(errkind.Closed, "")
	}
	if err := t.conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
		return nil, errkind.NewTransportError(errkind.ReceiveFailed, err.Error())
	}

	buffer := make([]byte, length)
	total := 0
	for total < length {
		n, err := t.conn.Read(buffer[total:])
		if n == 0 && err != nil {
			if isTimeout(err) {
				return nil, errkind.NewTransportError(errkind.Timeout, "")
			}
			t.connected = false
			return nil, errkind.NewTransportError(errkind.ConnectionFailed, "connection closed by peer")
		}
		total += n
		if err != nil {
			return nil, errkind.NewTransportError(errkind.ReceiveFailed, err.Error())
		}
	}
	return buffer, nil
}

func (t *TCPRawIO) IsConnected() bool { return t.connected }

func (t *TCPRawIO) Close() error {
	if !t.connected {
		return nil
	}
	t.connected = false
	return t.conn.Close()
}

func (t *TCPRawIO) SetTimeout(timeout time.Duration) { t.timeout = timeout }

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
