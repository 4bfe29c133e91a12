package server

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spiral/errors"

	"github.com/erpc-go/erpc/pkg/codec"
)

// MultiBuilder assembles a MultiTransportServer from any combination of TCP
// listeners, Unix listeners, serial ports, and services.
type MultiBuilder struct {
	factory     codec.Factory
	tcpAddrs    []string
	unixPaths   []string
	serialPorts []serialEndpoint
	services    []Service
	timeout     time.Duration
	log         *logrus.Logger
}

// NewMultiBuilder starts a MultiBuilder with the Basic codec and no endpoints.
func NewMultiBuilder() *MultiBuilder {
	return &MultiBuilder{factory: codec.NewBasicCodecFactory()}
}

// Codec overrides the codec factory; the Basic codec is the default.
func (b *MultiBuilder) Codec(factory codec.Factory) *MultiBuilder {
	b.factory = factory
	return b
}

// TCPListener queues a TCP address to be bound on Build.
func (b *MultiBuilder) TCPListener(addr string) *MultiBuilder {
	b.tcpAddrs = append(b.tcpAddrs, addr)
	return b
}

// UnixListener queues a Unix domain socket path to be bound on Build.
func (b *MultiBuilder) UnixListener(path string) *MultiBuilder {
	b.unixPaths = append(b.unixPaths, path)
	return b
}

// SerialPort queues a serial port to be opened (and supervised) once Run starts.
func (b *MultiBuilder) SerialPort(port string, baudRate int) *MultiBuilder {
	b.serialPorts = append(b.serialPorts, serialEndpoint{port: port, baudRate: baudRate})
	return b
}

// Service registers a service to add once the server is built.
func (b *MultiBuilder) Service(service Service) *MultiBuilder {
	b.services = append(b.services, service)
	return b
}

// Timeout sets the per-operation timeout applied to every connection the
// built server accepts; the 30-second default applies when unset.
func (b *MultiBuilder) Timeout(timeout time.Duration) *MultiBuilder {
	b.timeout = timeout
	return b
}

// Logger routes the built server's logging through log instead of the
// standard logrus logger.
func (b *MultiBuilder) Logger(log *logrus.Logger) *MultiBuilder {
	b.log = log
	return b
}

// Build binds every queued TCP/Unix listener and assembles the server. On
// any bind failure, it closes the listeners already bound and returns.
func (b *MultiBuilder) Build() (*MultiTransportServer, error) {
	const op = errors.Op("server: build multi-transport")

	srv := NewMultiTransportServer(b.factory)
	if b.log != nil {
		srv.UseLogger(b.log)
	}
	srv.SetTimeout(b.timeout)

	for _, addr := range b.tcpAddrs {
		if err := srv.AddTCPListener(addr); err != nil {
			_ = srv.closeListeners()
			return nil, errors.E(op, err)
		}
	}
	for _, path := range b.unixPaths {
		if err := srv.AddUnixListener(path); err != nil {
			_ = srv.closeListeners()
			return nil, errors.E(op, err)
		}
	}
	for _, sp := range b.serialPorts {
		srv.AddSerialPort(sp.port, sp.baudRate)
	}
	for _, service := range b.services {
		srv.AddService(service)
	}
	return srv, nil
}
