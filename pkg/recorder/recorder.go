// Package recorder wraps a transport.Transport and appends every framed
// message it sends or receives to an io.Writer for offline replay and
// debugging, without altering protocol semantics. The on-disk format is
// selectable: JSON lines or back-to-back MessagePack documents.
package recorder

import (
	"io"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack"

	"github.com/erpc-go/erpc/pkg/transport"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Direction identifies which side of a Transport.Send/Receive call produced
// a recorded Entry.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Entry is one recorded wire frame: which direction it travelled, when, and
// its raw (unframed) payload bytes.
type Entry struct {
	Direction Direction `json:"direction" msgpack:"direction"`
	UnixNano  int64     `json:"unix_nano" msgpack:"unix_nano"`
	Payload   []byte    `json:"payload" msgpack:"payload"`
}

// Encoding selects the on-disk format a Recorder appends Entry values in.
type Encoding int

const (
	// EncodingJSON appends one JSON object per line.
	EncodingJSON Encoding = iota
	// EncodingMsgPack appends one MessagePack document per entry; documents
	// are self-delimiting, so a stream decoder reads them back-to-back.
	EncodingMsgPack
)

// Transport wraps an existing transport.Transport, recording every Send and
// Receive call's payload to out before/after delegating to the underlying
// transport.
type Transport struct {
	transport.Transport
	out      io.Writer
	encoding Encoding

	mu sync.Mutex
}

// Wrap returns a recording Transport that writes captured frames to out
// using the given encoding, delegating all protocol behavior to t.
func Wrap(t transport.Transport, out io.Writer, encoding Encoding) *Transport {
	return &Transport{Transport: t, out: out, encoding: encoding}
}

// Send records data as a sent Entry, then forwards it unchanged.
func (r *Transport) Send(data []byte) error {
	if err := r.record(DirectionSent, data); err != nil {
		return err
	}
	return r.Transport.Send(data)
}

// Receive forwards to the underlying transport and records whatever payload
// it returns before handing it back to the caller.
func (r *Transport) Receive() ([]byte, error) {
	data, err := r.Transport.Receive()
	if err != nil {
		return nil, err
	}
	if recErr := r.record(DirectionReceived, data); recErr != nil {
		return data, recErr
	}
	return data, nil
}

func (r *Transport) record(direction Direction, payload []byte) error {
	entry := Entry{
		Direction: direction,
		UnixNano:  time.Now().UnixNano(),
		Payload:   append([]byte(nil), payload...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.encoding {
	case EncodingMsgPack:
		encoded, err := msgpack.Marshal(entry)
		if err != nil {
			return err
		}
		_, err = r.out.Write(encoded)
		return err
	default:
		encoded, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		encoded = append(encoded, '\n')
		_, err = r.out.Write(encoded)
		return err
	}
}
