// Package codec implements eRPC's wire serialization: a versioned,
// little-endian binary encoding for primitive values, binary/string blobs,
// lists, unions and null flags, plus the 8-byte message header every
// BasicCodec message carries.
package codec

import (
	"github.com/erpc-go/erpc/pkg/erpc"
)

// Codec serializes and deserializes eRPC messages. Implementations keep an
// independent write cursor (append-only) and read cursor (sequential);
// BasicCodec's read cursor works over its own copy of the installed data,
// so a server can decode a request and then reuse the same codec to encode
// its reply without disturbing the bytes still to be read.
type Codec interface {
	Reset()
	Bytes() []byte
	SetBuffer(data []byte)

	StartWriteMessage(info erpc.MessageInfo) error
	WriteBool(value bool) error
	WriteInt8(value int8) error
	WriteInt16(value int16) error
	WriteInt32(value int32) error
	WriteInt64(value int64) error
	WriteUint8(value uint8) error
	WriteUint16(value uint16) error
	WriteUint32(value uint32) error
	WriteUint64(value uint64) error
	WriteFloat(value float32) error
	WriteDouble(value float64) error
	WriteString(value string) error
	WriteBinary(value []byte) error
	WriteBytes(value []byte) error
	StartWriteList(length uint32) error
	StartWriteUnion(discriminator uint32) error
	WriteNullFlag(value bool) error

	GetRemainingBytes() ([]byte, error)

	StartReadMessage() (erpc.MessageInfo, error)
	ReadBool() (bool, error)
	ReadInt8() (int8, error)
	ReadInt16() (int16, error)
	ReadInt32() (int32, error)
	ReadInt64() (int64, error)
	ReadUint8() (uint8, error)
	ReadUint16() (uint16, error)
	ReadUint32() (uint32, error)
	ReadUint64() (uint64, error)
	ReadFloat() (float32, error)
	ReadDouble() (float64, error)
	ReadString() (string, error)
	ReadBinary() ([]byte, error)
	StartReadList() (uint32, error)
	StartReadUnion() (uint32, error)
	ReadNullFlag() (bool, error)
}

// Factory constructs Codec instances, letting a server or client stay
// generic over the wire encoding without committing to BasicCodec by name.
type Factory interface {
	Create() Codec
	CreateFromData(data []byte) Codec
}

// BasicCodecFactory produces BasicCodec instances.
type BasicCodecFactory struct{}

func NewBasicCodecFactory() BasicCodecFactory { return BasicCodecFactory{} }

func (BasicCodecFactory) Create() Codec { return NewBasicCodec() }

func (BasicCodecFactory) CreateFromData(data []byte) Codec { return BasicCodecFromData(data) }
