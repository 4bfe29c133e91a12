// Package transport implements eRPC's wire-level transports: a generic
// length+CRC framing layer over pluggable raw byte streams (TCP, Unix
// domain sockets, serial ports, and an in-memory pair for tests).
package transport

import (
	"time"

	"github.com/spiral/errors"

	"github.com/erpc-go/erpc/internal/crc16"
	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/erpc"
	"github.com/erpc-go/erpc/pkg/errkind"
)

// headerLen is the 6-byte frame header: crc_header(u16) + length(u16) + crc_body(u16).
const headerLen = 6

// Transport is the blocking, length-framed byte-stream abstraction every
// client and server speaks against: one logical message per Send/Receive
// call, each protected end-to-end by the frame CRC.
type Transport interface {
	Send(data []byte) error
	Receive() ([]byte, error)
	IsConnected() bool
	Close() error
	SetTimeout(timeout time.Duration)
}

// RawIO is implemented by a concrete, unframed byte stream. Framed wraps a
// RawIO to add the length+CRC envelope, so TCP/Unix/Serial/Memory each only
// need to implement this narrow interface.
type RawIO interface {
	BaseSend(data []byte) error
	BaseReceive(length int) ([]byte, error)
	IsConnected() bool
	Close() error
	SetTimeout(timeout time.Duration)
}

// Framed adds length+CRC framing on top of any RawIO: anything that
// implements BaseSend/BaseReceive gets the full Transport contract for
// free.
type Framed struct {
	RawIO
}

// NewFramed wraps raw in a Framed transport.
func NewFramed(raw RawIO) *Framed { return &Framed{RawIO: raw} }

// Send writes the 6-byte frame header followed by data. The frame length
// field is 16 bits, so payloads over 65535 bytes are rejected outright.
func (f *Framed) Send(data []byte) error {
	const op = errors.Op("transport: send")

	if err := erpc.CheckUint16(uint64(len(data))); err != nil {
		return errors.E(op, err)
	}
	messageLength := uint16(len(data))
	crcBody := crc16.Calculate(data)

	lengthBytes := erpc.Uint16ToBytes(messageLength)
	crcBodyBytes := erpc.Uint16ToBytes(crcBody)

	crcLength := crc16.Calculate(lengthBytes[:])
	crcBodyCRC := crc16.Calculate(crcBodyBytes[:])
	crcHeader := crcLength + crcBodyCRC // wrapping add: uint16 overflow wraps naturally

	header := codec.NewBasicCodec()
	if err := header.WriteUint16(crcHeader); err != nil {
		return errors.E(op, err)
	}
	if err := header.WriteUint16(messageLength); err != nil {
		return errors.E(op, err)
	}
	if err := header.WriteUint16(crcBody); err != nil {
		return errors.E(op, err)
	}

	if err := f.BaseSend(header.Bytes()); err != nil {
		return errors.E(op, err)
	}
	if err := f.BaseSend(data); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// Receive reads and validates a frame header, then the body it describes.
func (f *Framed) Receive() ([]byte, error) {
	const op = errors.Op("transport: receive")

	headerData, err := f.BaseReceive(headerLen)
	if err != nil {
		return nil, errors.E(op, err)
	}

	h := codec.BasicCodecFromData(headerData)
	crcHeader, err := h.ReadUint16()
	if err != nil {
		return nil, errors.E(op, err)
	}
	messageLength, err := h.ReadUint16()
	if err != nil {
		return nil, errors.E(op, err)
	}
	crcBody, err := h.ReadUint16()
	if err != nil {
		return nil, errors.E(op, err)
	}

	lengthBytes := erpc.Uint16ToBytes(messageLength)
	crcBodyBytes := erpc.Uint16ToBytes(crcBody)

	computedCRCLength := crc16.Calculate(lengthBytes[:])
	computedCRCBodyCRC := crc16.Calculate(crcBodyBytes[:])
	computedHeaderCRC := computedCRCLength + computedCRCBodyCRC

	if computedHeaderCRC != crcHeader {
		return nil, errors.E(op, errkind.NewTransportError(errkind.ReceiveFailed, "invalid message (header) CRC"))
	}

	data, err := f.BaseReceive(int(messageLength))
	if err != nil {
		return nil, errors.E(op, err)
	}

	if computed := crc16.Calculate(data); computed != crcBody {
		return nil, errors.E(op, errkind.NewTransportError(errkind.ReceiveFailed, "invalid message (body) CRC"))
	}

	return data, nil
}
