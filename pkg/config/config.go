// Package config loads the JSON document describing which TCP listeners,
// Unix socket listeners, and serial ports a MultiTransportServer should
// bind.
package config

import (
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spiral/errors"

	"github.com/erpc-go/erpc/pkg/server"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SerialPort describes one serial endpoint to open and supervise.
type SerialPort struct {
	Port string `json:"port"`
	Baud int    `json:"baud"`
}

// Server is the on-disk shape of a MultiTransportServer's endpoints. Every
// field is optional; an entirely empty document is valid and describes a
// server with no endpoints (which MultiTransportServer.Run then rejects at
// start time with errkind.ErrNoEndpoints).
type Server struct {
	TCPListeners  []string     `json:"tcp_listeners,omitempty"`
	UnixListeners []string     `json:"unix_listeners,omitempty"`
	SerialPorts   []SerialPort `json:"serial_ports,omitempty"`
	TimeoutMS     int          `json:"timeout_ms,omitempty"`
}

// Timeout returns TimeoutMS as a Duration, defaulting to the runtime's
// standard 30-second transport timeout when unset.
func (s Server) Timeout() time.Duration {
	if s.TimeoutMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// Load reads and parses a Server configuration document from path.
func Load(path string) (Server, error) {
	const op = errors.Op("config: load")

	data, err := os.ReadFile(path)
	if err != nil {
		return Server{}, errors.E(op, err)
	}

	var cfg Server
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Server{}, errors.E(op, err)
	}
	return cfg, nil
}

// Builder assembles a server.MultiBuilder pre-populated with this
// configuration's endpoints, so the caller only needs to register services
// before calling Build.
func (s Server) Builder() *server.MultiBuilder {
	b := server.NewMultiBuilder().Timeout(s.Timeout())
	for _, addr := range s.TCPListeners {
		b = b.TCPListener(addr)
	}
	for _, path := range s.UnixListeners {
		b = b.UnixListener(path)
	}
	for _, sp := range s.SerialPorts {
		b = b.SerialPort(sp.Port, sp.Baud)
	}
	return b
}
