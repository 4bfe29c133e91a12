package transport

import (
	"net"
	"os"
	"time"

	"github.com/erpc-go/erpc/pkg/errkind"
)

// UnixRawIO is a RawIO backed by a Unix domain socket connection.
type UnixRawIO struct {
	conn      net.Conn
	timeout   time.Duration
	connected bool
}

// DialUnix connects to the Unix domain socket at path.
func DialUnix(path string) (*Framed, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, errkind.NewTransportError(errkind.ConnectionFailed, err.Error())
	}
	return NewFramed(NewUnixRawIO(conn)), nil
}

// ListenUnix binds a Unix domain socket listener at path, removing any
// stale socket file left behind by a previous run.
func ListenUnix(path string) (net.Listener, error) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, errkind.NewTransportError(errkind.ConnectionFailed, "failed to remove existing socket: "+err.Error())
		}
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, errkind.NewTransportError(errkind.ConnectionFailed, err.Error())
	}
	return listener, nil
}

// NewUnixRawIO wraps an already-accepted Unix socket connection as a RawIO.
func NewUnixRawIO(conn net.Conn) *UnixRawIO {
	return &UnixRawIO{conn: conn, timeout: 30 * time.Second, connected: true}
}

func (u *UnixRawIO) BaseSend(data []byte) error {
	if !u.connected {
		return errkind.NewTransportError(errkind.Closed, "")
	}
	if err := u.conn.SetWriteDeadline(time.Now().Add(u.timeout)); err != nil {
		return errkind.NewTransportError(errkind.SendFailed, err.Error())
	}
	if _, err := u.conn.Write(data); err != nil {
		if isTimeout(err) {
			return errkind.NewTransportError(errkind.Timeout, "")
		}
		return errkind.NewTransportError(errkind.SendFailed, err.Error())
	}
	return nil
}

func (u *UnixRawIO) BaseReceive(length int) ([]byte, error) {
	if !u.connected {
		return nil, errkind.NewTransportError(errkind.Closed, "")
	}
	if err := u.conn.SetReadDeadline(time.Now().Add(u.timeout)); err != nil {
		return nil, errkind.NewTransportError(errkind.ReceiveFailed, err.Error())
	}

	buffer := make([]byte, length)
	total := 0
	for total < length {
		n, err := u.conn.Read(buffer[total:])
		if n == 0 && err != nil {
			if isTimeout(err) {
				return nil, errkind.NewTransportError(errkind.Timeout, "")
			}
			u.connected = false
			return nil, errkind.NewTransportError(errkind.ConnectionFailed, "connection closed by peer")
		}
		total += n
		if err != nil {
			return nil, errkind.NewTransportError(errkind.ReceiveFailed, err.Error())
		}
	}
	return buffer, nil
}

func (u *UnixRawIO) IsConnected() bool { return u.connected }

func (u *UnixRawIO) Close() error {
	if !u.connected {
		return nil
	}
	u.connected = false
	return u.conn.Close()
}

func (u *UnixRawIO) SetTimeout(timeout time.Duration) { u.timeout = timeout }
