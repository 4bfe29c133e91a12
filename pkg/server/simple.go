package server

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/transport"
)

// SimpleServer runs a single request/reply loop over one transport,
// dispatching every decoded message to the matching registered service.
type SimpleServer struct {
	transport    transport.Transport
	codecFactory codec.Factory
	services     *serviceTable

	mu      sync.Mutex
	running bool
}

// NewSimpleServer wires a transport and codec factory into a ready server
// with no services registered yet.
func NewSimpleServer(t transport.Transport, factory codec.Factory) *SimpleServer {
	return &SimpleServer{
		transport:    t,
		codecFactory: factory,
		services:     newServiceTable(defaultLogger()),
	}
}

// UseLogger redirects the server's logging through log. Call it before Run.
func (s *SimpleServer) UseLogger(log *logrus.Logger) { s.services.log = componentLogger(log) }

// AddService registers service, replacing any existing service at the same id.
func (s *SimpleServer) AddService(service Service) { s.services.add(service) }

// RemoveService unregisters the service at id.
func (s *SimpleServer) RemoveService(id uint8) error { return s.services.remove(id) }

// Run processes requests until the transport disconnects or Stop is called.
func (s *SimpleServer) Run() error {
	s.setRunning(true)
	s.services.log.Infof("server started")

	for s.isRunning() && s.transport.IsConnected() {
		data, err := s.transport.Receive()
		if err != nil {
			s.services.log.Errorf("transport error: %s", err)
			break
		}

		response, err := dispatch(s.services, s.codecFactory, data)
		if err != nil {
			s.services.log.Errorf("error processing request: %s", err)
			continue
		}
		if response == nil {
			continue
		}
		if err := s.transport.Send(response); err != nil {
			s.services.log.Errorf("failed to send response: %s", err)
			break
		}
	}

	s.services.log.Infof("server stopped")
	return nil
}

// Stop requests the run loop exit and closes the transport.
func (s *SimpleServer) Stop() error {
	s.setRunning(false)
	return s.transport.Close()
}

func (s *SimpleServer) IsRunning() bool { return s.isRunning() }

func (s *SimpleServer) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *SimpleServer) setRunning(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = v
}
