package client

import (
	"time"

	"github.com/spiral/errors"

	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/errkind"
	"github.com/erpc-go/erpc/pkg/transport"
)

// endpoint is the deferred transport choice configured on a Builder: exactly
// one dial function is kept, set by whichever *Connection method was called
// last.
type endpoint func() (*transport.Framed, error)

// Builder assembles a Manager from a transport endpoint and codec choice,
// dialing the transport only on Connect.
type Builder struct {
	endpoint endpoint
	factory  codec.Factory
	timeout  time.Duration
}

// NewBuilder starts a Builder with no transport and the Basic codec.
func NewBuilder() *Builder {
	return &Builder{factory: codec.NewBasicCodecFactory()}
}

// TCPConnection configures the builder to dial a TCP address on Connect.
func (b *Builder) TCPConnection(address string) *Builder {
	b.endpoint = func() (*transport.Framed, error) { return transport.DialTCP(address) }
	return b
}

// UnixConnection configures the builder to dial a Unix domain socket on Connect.
func (b *Builder) UnixConnection(path string) *Builder {
	b.endpoint = func() (*transport.Framed, error) { return transport.DialUnix(path) }
	return b
}

// SerialConnection configures the builder to open a serial port at the
// default 115200 baud rate on Connect.
func (b *Builder) SerialConnection(port string) *Builder {
	return b.SerialConnectionWithBaud(port, 115200)
}

// SerialConnectionWithBaud configures the builder to open a serial port at
// the given baud rate on Connect.
func (b *Builder) SerialConnectionWithBaud(port string, baudRate int) *Builder {
	b.endpoint = func() (*transport.Framed, error) { return transport.OpenSerial(port, baudRate) }
	return b
}

// Codec overrides the codec factory used by the built Manager. The Basic
// codec is the default and currently the only implementation shipped.
func (b *Builder) Codec(factory codec.Factory) *Builder {
	b.factory = factory
	return b
}

// Timeout sets the per-operation timeout applied to the dialed transport;
// the transport's 30-second default applies when unset.
func (b *Builder) Timeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// Connect dials the configured endpoint and returns a ready Manager. It
// fails with errkind.ErrNoEndpoints if no *Connection method was called,
// rather than overloading a request-error variant as a sentinel.
func (b *Builder) Connect() (*Manager, error) {
	const op = errors.Op("client: connect")

	if b.endpoint == nil {
		return nil, errkind.ErrNoEndpoints
	}

	t, err := b.endpoint()
	if err != nil {
		return nil, errors.E(op, err)
	}
	if b.timeout > 0 {
		t.SetTimeout(b.timeout)
	}
	return New(t, b.factory), nil
}
