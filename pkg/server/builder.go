package server

import (
	"github.com/sirupsen/logrus"
	"github.com/spiral/errors"

	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/errkind"
	"github.com/erpc-go/erpc/pkg/transport"
)

// Builder assembles a SimpleServer from a transport, codec factory, and a
// set of services to register at build time.
type Builder struct {
	transport transport.Transport
	factory   codec.Factory
	services  []Service
	log       *logrus.Logger
}

// NewBuilder starts a Builder with no transport and the Basic codec.
func NewBuilder() *Builder {
	return &Builder{factory: codec.NewBasicCodecFactory()}
}

// Transport sets the transport the built server will serve requests over.
func (b *Builder) Transport(t transport.Transport) *Builder {
	b.transport = t
	return b
}

// Codec overrides the codec factory; the Basic codec is the default.
func (b *Builder) Codec(factory codec.Factory) *Builder {
	b.factory = factory
	return b
}

// Service registers a service to add once the server is built.
func (b *Builder) Service(service Service) *Builder {
	b.services = append(b.services, service)
	return b
}

// Logger routes the built server's logging through log instead of the
// standard logrus logger.
func (b *Builder) Logger(log *logrus.Logger) *Builder {
	b.log = log
	return b
}

// Build constructs the SimpleServer, failing if no transport was configured.
func (b *Builder) Build() (*SimpleServer, error) {
	const op = errors.Op("server: build")

	if b.transport == nil {
		return nil, errors.E(op, errkind.ConfigErrorf("transport not set"))
	}

	srv := NewSimpleServer(b.transport, b.factory)
	if b.log != nil {
		srv.UseLogger(b.log)
	}
	for _, service := range b.services {
		srv.AddService(service)
	}
	return srv, nil
}
