package codec

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/spiral/errors"

	"github.com/erpc-go/erpc/pkg/erpc"
	"github.com/erpc-go/erpc/pkg/errkind"
)

const (
	basicCodecVersion = 1
	defaultBufferSize = 256
	maxBinaryLength   = 1024 * 1024
)

// BasicCodec is the runtime's sole wire encoding: a little-endian binary
// codec with a versioned 8-byte message header, int/float primitives, length-
// prefixed binary/string blobs (capped at 1 MiB on read), counted lists,
// discriminated unions and a uint32 null flag.
type BasicCodec struct {
	buffer      []byte
	writePos    int
	readPos     int
	readOverall []byte // immutable snapshot read cursor operates over
}

// NewBasicCodec returns an empty codec ready for writing.
func NewBasicCodec() *BasicCodec {
	return &BasicCodec{buffer: make([]byte, 0, defaultBufferSize)}
}

// BasicCodecFromData wraps existing bytes for reading. The read cursor
// operates over its own copy of data, so a server that has decoded a
// request can encode its reply from the start of the same codec (the write
// position starts at 0) without corrupting bytes still being read.
func BasicCodecFromData(data []byte) *BasicCodec {
	return &BasicCodec{buffer: data, readOverall: append([]byte(nil), data...)}
}

func (c *BasicCodec) Reset() {
	c.buffer = make([]byte, 0, defaultBufferSize)
	c.writePos = 0
	c.readPos = 0
	c.readOverall = nil
}

func (c *BasicCodec) Bytes() []byte { return c.buffer[:c.writePos] }

// SetBuffer installs data as the read source; the read cursor gets an
// independent copy and the write position resets to 0.
func (c *BasicCodec) SetBuffer(data []byte) {
	c.buffer = data
	c.readOverall = append([]byte(nil), data...)
	c.writePos = 0
	c.readPos = 0
}

func (c *BasicCodec) ensureCapacity(additional int) {
	required := c.writePos + additional
	if len(c.buffer) < required {
		grown := make([]byte, required)
		copy(grown, c.buffer)
		c.buffer = grown
	}
}

func (c *BasicCodec) WriteBytes(value []byte) error {
	c.ensureCapacity(len(value))
	end := c.writePos + len(value)
	copy(c.buffer[c.writePos:end], value)
	c.writePos = end
	return nil
}

func (c *BasicCodec) StartWriteMessage(info erpc.MessageInfo) error {
	const op = errors.Op("codec: start write message")

	header := (uint32(basicCodecVersion) << 24) |
		(uint32(info.Service) << 16) |
		(uint32(info.Request) << 8) |
		uint32(info.Type)

	if err := c.WriteUint32(header); err != nil {
		return errors.E(op, err)
	}
	if err := c.WriteUint32(info.Sequence); err != nil {
		return errors.E(op, err)
	}
	return nil
}

func (c *BasicCodec) WriteBool(value bool) error {
	if value {
		return c.WriteUint8(1)
	}
	return c.WriteUint8(0)
}

func (c *BasicCodec) WriteInt8(value int8) error { return c.WriteBytes([]byte{byte(value)}) }

func (c *BasicCodec) WriteInt16(value int16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(value))
	return c.WriteBytes(b[:])
}

func (c *BasicCodec) WriteInt32(value int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(value))
	return c.WriteBytes(b[:])
}

func (c *BasicCodec) WriteInt64(value int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(value))
	return c.WriteBytes(b[:])
}

func (c *BasicCodec) WriteUint8(value uint8) error { return c.WriteBytes([]byte{value}) }

func (c *BasicCodec) WriteUint16(value uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], value)
	return c.WriteBytes(b[:])
}

func (c *BasicCodec) WriteUint32(value uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	return c.WriteBytes(b[:])
}

func (c *BasicCodec) WriteUint64(value uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return c.WriteBytes(b[:])
}

func (c *BasicCodec) WriteFloat(value float32) error {
	return c.WriteUint32(math.Float32bits(value))
}

func (c *BasicCodec) WriteDouble(value float64) error {
	return c.WriteUint64(math.Float64bits(value))
}

func (c *BasicCodec) WriteString(value string) error {
	return c.WriteBinary([]byte(value))
}

func (c *BasicCodec) WriteBinary(value []byte) error {
	const op = errors.Op("codec: write binary")
	if err := c.WriteInt32(int32(len(value))); err != nil {
		return errors.E(op, err)
	}
	return c.WriteBytes(value)
}

func (c *BasicCodec) StartWriteList(length uint32) error { return c.WriteUint32(length) }

func (c *BasicCodec) StartWriteUnion(discriminator uint32) error {
	return c.WriteUint32(discriminator)
}

func (c *BasicCodec) WriteNullFlag(value bool) error {
	if value {
		return c.WriteUint32(1)
	}
	return c.WriteUint32(0)
}

func (c *BasicCodec) GetRemainingBytes() ([]byte, error) {
	if c.readPos > len(c.readOverall) {
		return nil, nil
	}
	return append([]byte(nil), c.readOverall[c.readPos:]...), nil
}

func (c *BasicCodec) readBytes(n int) ([]byte, error) {
	if c.readPos+n > len(c.readOverall) {
		return nil, errkind.NewBufferUnderflow()
	}
	b := c.readOverall[c.readPos : c.readPos+n]
	c.readPos += n
	return b, nil
}

func (c *BasicCodec) StartReadMessage() (erpc.MessageInfo, error) {
	const op = errors.Op("codec: start read message")

	header, err := c.ReadUint32()
	if err != nil {
		return erpc.MessageInfo{}, errors.E(op, err)
	}
	sequence, err := c.ReadUint32()
	if err != nil {
		return erpc.MessageInfo{}, errors.E(op, err)
	}

	version := uint8((header >> 24) & 0xff)
	if version != basicCodecVersion {
		return erpc.MessageInfo{}, errors.E(op, errkind.NewUnsupportedVersion(version))
	}

	service := uint8((header >> 16) & 0xff)
	request := uint8((header >> 8) & 0xff)
	rawType := uint8(header & 0xff)

	msgType, ok := erpc.MessageTypeFromByte(rawType)
	if !ok {
		return erpc.MessageInfo{}, errors.E(op, errkind.NewInvalidFormat("invalid message type: %d", rawType))
	}

	return erpc.NewMessageInfo(msgType, service, request, sequence), nil
}

func (c *BasicCodec) ReadBool() (bool, error) {
	v, err := c.ReadUint8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (c *BasicCodec) ReadInt8() (int8, error) {
	b, err := c.readBytes(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (c *BasicCodec) ReadInt16() (int16, error) {
	b, err := c.readBytes(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (c *BasicCodec) ReadInt32() (int32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (c *BasicCodec) ReadInt64() (int64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (c *BasicCodec) ReadUint8() (uint8, error) {
	b, err := c.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *BasicCodec) ReadUint16() (uint16, error) {
	b, err := c.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *BasicCodec) ReadUint32() (uint32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *BasicCodec) ReadUint64() (uint64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *BasicCodec) ReadFloat() (float32, error) {
	v, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (c *BasicCodec) ReadDouble() (float64, error) {
	v, err := c.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (c *BasicCodec) ReadString() (string, error) {
	const op = errors.Op("codec: read string")

	data, err := c.ReadBinary()
	if err != nil {
		return "", errors.E(op, err)
	}
	if !utf8.Valid(data) {
		return "", errors.E(op, errkind.NewInvalidFormat("invalid UTF-8"))
	}
	return string(data), nil
}

func (c *BasicCodec) ReadBinary() ([]byte, error) {
	const op = errors.Op("codec: read binary")

	length, err := c.ReadInt32()
	if err != nil {
		return nil, errors.E(op, err)
	}
	if length < 0 || int(length) > maxBinaryLength {
		return nil, errors.E(op, errkind.NewInvalidFormat("Binary data too large"))
	}

	data, err := c.readBytes(int(length))
	if err != nil {
		return nil, errors.E(op, err)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (c *BasicCodec) StartReadList() (uint32, error) { return c.ReadUint32() }

func (c *BasicCodec) StartReadUnion() (uint32, error) { return c.ReadUint32() }

func (c *BasicCodec) ReadNullFlag() (bool, error) {
	v, err := c.ReadUint32()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
