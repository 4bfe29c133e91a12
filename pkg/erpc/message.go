// Package erpc holds the wire-level data model shared by the codec,
// transport, client and server packages: message types, message headers,
// and the request bookkeeping a call needs on both ends of the wire.
package erpc

import "fmt"

// MessageType identifies the purpose of a framed eRPC message.
type MessageType uint8

const (
	// Invocation is a request that expects a Reply.
	Invocation MessageType = 0
	// Oneway is a request that expects no reply.
	Oneway MessageType = 1
	// Reply answers a prior Invocation.
	Reply MessageType = 2
	// Notification is reserved for future server-initiated pushes; the
	// wire format carries it, but SimpleServer/MultiTransportServer never
	// emit it and reject it as an incoming request type.
	Notification MessageType = 3
)

func (t MessageType) String() string {
	switch t {
	case Invocation:
		return "Invocation"
	case Oneway:
		return "Oneway"
	case Reply:
		return "Reply"
	case Notification:
		return "Notification"
	default:
		return fmt.Sprintf("MessageType(%d)", uint8(t))
	}
}

// MessageTypeFromByte converts a wire byte into a MessageType, reporting ok
// = false for any value outside the known taxonomy.
func MessageTypeFromByte(v uint8) (MessageType, bool) {
	switch MessageType(v) {
	case Invocation, Oneway, Reply, Notification:
		return MessageType(v), true
	default:
		return 0, false
	}
}

// MessageInfo is the decoded form of a BasicCodec message header.
type MessageInfo struct {
	Type     MessageType
	Service  uint8
	Request  uint8
	Sequence uint32
}

// NewMessageInfo builds a MessageInfo from its fields.
func NewMessageInfo(t MessageType, service, request uint8, sequence uint32) MessageInfo {
	return MessageInfo{Type: t, Service: service, Request: request, Sequence: sequence}
}

// RequestContext tracks client-side bookkeeping for a single call.
type RequestContext struct {
	Sequence  uint32
	Oneway    bool
	ServiceID *uint32
	buffer    []byte
}

// NewRequestContext creates a request context without a known service id.
func NewRequestContext(sequence uint32, oneway bool) RequestContext {
	return RequestContext{Sequence: sequence, Oneway: oneway}
}

// NewRequestContextWithService creates a request context for a specific service.
func NewRequestContextWithService(sequence uint32, serviceID uint32, oneway bool) RequestContext {
	sid := serviceID
	return RequestContext{Sequence: sequence, Oneway: oneway, ServiceID: &sid}
}

// SetCodecData stores the encoded request/response bytes on the context.
func (c *RequestContext) SetCodecData(data []byte) { c.buffer = data }

// CodecData returns the stored encoded bytes.
func (c *RequestContext) CodecData() []byte { return c.buffer }
