// Package client implements the eRPC call path: sequence-number bookkeeping,
// request encoding, and strict reply validation (message type + sequence)
// on top of any codec.Factory and transport.Transport pair.
package client

import (
	"sync/atomic"

	"github.com/spiral/errors"

	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/erpc"
	"github.com/erpc-go/erpc/pkg/errkind"
	"github.com/erpc-go/erpc/pkg/transport"
)

// Manager performs RPC calls over a single transport/codec pair, handing
// out monotonically increasing sequence numbers and validating that every
// reply matches the request that solicited it.
type Manager struct {
	transport    transport.Transport
	codecFactory codec.Factory
	sequence     uint32
}

// New wraps an existing transport/codec pair in a call-issuing Manager.
func New(t transport.Transport, factory codec.Factory) *Manager {
	return &Manager{transport: t, codecFactory: factory}
}

func (m *Manager) nextSequence() uint32 {
	return atomic.AddUint32(&m.sequence, 1)
}

// CreateRequest reserves a sequence number for a call with no known service id.
func (m *Manager) CreateRequest(oneway bool) erpc.RequestContext {
	return erpc.NewRequestContext(m.nextSequence(), oneway)
}

// CreateRequestWithService reserves a sequence number for a call bound to a service id.
func (m *Manager) CreateRequestWithService(serviceID uint32, oneway bool) erpc.RequestContext {
	return erpc.NewRequestContextWithService(m.nextSequence(), serviceID, oneway)
}

// PerformRequest encodes, sends, and (unless oneway) awaits and validates
// the reply for a single method invocation, returning the reply's payload
// bytes (the portion of the wire message after the header).
func (m *Manager) PerformRequest(serviceID, methodID uint8, oneway bool, requestData []byte) ([]byte, error) {
	const op = errors.Op("client: perform request")

	sequence := m.nextSequence()

	messageType := erpc.Invocation
	if oneway {
		messageType = erpc.Oneway
	}

	info := erpc.NewMessageInfo(messageType, serviceID, methodID, sequence)

	requestCodec := m.codecFactory.Create()
	if err := requestCodec.StartWriteMessage(info); err != nil {
		return nil, errors.E(op, err)
	}
	if err := requestCodec.WriteBytes(requestData); err != nil {
		return nil, errors.E(op, err)
	}

	if err := m.transport.Send(requestCodec.Bytes()); err != nil {
		return nil, errors.E(op, err)
	}

	if oneway {
		return nil, nil
	}

	responseData, err := m.transport.Receive()
	if err != nil {
		return nil, errors.E(op, err)
	}

	responseCodec := m.codecFactory.CreateFromData(responseData)
	responseInfo, err := responseCodec.StartReadMessage()
	if err != nil {
		return nil, errors.E(op, err)
	}

	if responseInfo.Type != erpc.Reply {
		return nil, errkind.NewInvalidMessageType()
	}
	if responseInfo.Sequence != sequence {
		return nil, errkind.NewUnexpectedSequence(sequence, responseInfo.Sequence)
	}

	payload, err := responseCodec.GetRemainingBytes()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return payload, nil
}

// SendRawRequest writes request data directly to the transport (bypassing
// message-header framing) and, unless oneway, waits for a raw reply.
func (m *Manager) SendRawRequest(requestData []byte, oneway bool) ([]byte, error) {
	const op = errors.Op("client: send raw request")

	_ = m.CreateRequest(oneway)

	if err := m.transport.Send(requestData); err != nil {
		return nil, errors.E(op, err)
	}
	if oneway {
		return nil, nil
	}
	return m.transport.Receive()
}

// SendRequest fires a raw oneway request without waiting for a response.
func (m *Manager) SendRequest(requestData []byte) error {
	_, err := m.SendRawRequest(requestData, true)
	return err
}

// ReceiveResponse blocks for a pending raw response.
func (m *Manager) ReceiveResponse() ([]byte, error) {
	return m.transport.Receive()
}

// CodecFactory returns the codec factory this manager encodes/decodes with.
func (m *Manager) CodecFactory() codec.Factory { return m.codecFactory }

// IsConnected reports whether the underlying transport is still usable.
func (m *Manager) IsConnected() bool { return m.transport.IsConnected() }

// Close closes the underlying transport.
func (m *Manager) Close() error { return m.transport.Close() }
