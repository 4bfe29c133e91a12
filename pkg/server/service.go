// Package server implements eRPC's request dispatch: service registration,
// method routing, and two server loops (a single-transport SimpleServer and
// a MultiTransportServer fanning out over many TCP/Unix listeners and
// serial ports at once).
package server

import (
	"sync"

	"github.com/spiral/errors"

	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/erpc"
	"github.com/erpc-go/erpc/pkg/errkind"
)

// Service dispatches method invocations for one service id.
type Service interface {
	ServiceID() uint8
	HandleInvocation(methodID uint8, sequence uint32, c codec.Codec) error
	SupportedMethods() []uint8
}

// MethodHandler implements a single RPC method body. It reads its
// parameters from c's read cursor and, unless the call is oneway, writes
// the reply header and payload back into the same codec.
type MethodHandler interface {
	Handle(sequence uint32, c codec.Codec) error
}

// MethodHandlerFunc adapts a plain function to MethodHandler.
type MethodHandlerFunc func(sequence uint32, c codec.Codec) error

func (f MethodHandlerFunc) Handle(sequence uint32, c codec.Codec) error { return f(sequence, c) }

// BaseService routes method ids to registered handlers for a single
// service id.
type BaseService struct {
	id      uint8
	mu      sync.RWMutex
	methods map[uint8]MethodHandler
}

// NewBaseService creates an empty service under id.
func NewBaseService(id uint8) *BaseService {
	return &BaseService{id: id, methods: make(map[uint8]MethodHandler)}
}

// AddMethod registers handler for methodID, replacing any prior handler.
func (s *BaseService) AddMethod(methodID uint8, handler MethodHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods[methodID] = handler
}

// AddMethodFunc is a convenience wrapper registering a plain function.
func (s *BaseService) AddMethodFunc(methodID uint8, fn func(sequence uint32, c codec.Codec) error) {
	s.AddMethod(methodID, MethodHandlerFunc(fn))
}

func (s *BaseService) ServiceID() uint8 { return s.id }

func (s *BaseService) HandleInvocation(methodID uint8, sequence uint32, c codec.Codec) error {
	s.mu.RLock()
	handler, ok := s.methods[methodID]
	s.mu.RUnlock()
	if !ok {
		return errkind.NewInvalidMethodID(uint32(methodID))
	}
	return handler.Handle(sequence, c)
}

func (s *BaseService) SupportedMethods() []uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint8, 0, len(s.methods))
	for id := range s.methods {
		ids = append(ids, id)
	}
	return ids
}

// serviceTable is the RWMutex-guarded service registry shared by
// SimpleServer and MultiTransportServer.
type serviceTable struct {
	mu       sync.RWMutex
	services map[uint8]Service
	log      logger
}

func newServiceTable(log logger) *serviceTable {
	return &serviceTable{services: make(map[uint8]Service), log: log}
}

func (t *serviceTable) add(service Service) {
	id := service.ServiceID()

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.services[id]; exists {
		t.log.Warnf("service %d already exists, replacing", id)
	}
	t.services[id] = service
	t.log.Infof("added service %d", id)
}

func (t *serviceTable) remove(id uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.services[id]; !exists {
		return errkind.NewInvalidServiceID(uint32(id))
	}
	delete(t.services, id)
	t.log.Infof("removed service %d", id)
	return nil
}

func (t *serviceTable) get(id uint8) (Service, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	service, ok := t.services[id]
	return service, ok
}

// dispatch decodes one framed request payload, routes it to the matching
// service/method, and returns the reply bytes to send back (nil for oneway
// requests, which produce no reply).
func dispatch(table *serviceTable, factory codec.Factory, data []byte) ([]byte, error) {
	const op = errors.Op("server: dispatch")

	c := factory.CreateFromData(data)

	info, err := c.StartReadMessage()
	if err != nil {
		return nil, errors.E(op, err)
	}

	table.log.Debugf("processing request: type=%s, service=%d, method=%d, sequence=%d",
		info.Type, info.Service, info.Request, info.Sequence)

	if info.Type != erpc.Invocation && info.Type != erpc.Oneway {
		return nil, errors.E(op, errkind.NewInvalidMessageType())
	}

	service, ok := table.get(info.Service)
	if !ok {
		return nil, errors.E(op, errkind.NewInvalidServiceID(uint32(info.Service)))
	}

	if err := service.HandleInvocation(info.Request, info.Sequence, c); err != nil {
		return nil, errors.E(op, err)
	}

	if info.Type != erpc.Invocation {
		return nil, nil
	}
	return c.Bytes(), nil
}

// logger is the narrow logging surface the server package depends on,
// satisfied by *logrus.Entry/*logrus.Logger.
type logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
