package erpc

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/erpc-go/erpc/pkg/errkind"
)

// CheckUint8 reports whether value fits in an unsigned 8-bit field.
func CheckUint8(value uint64) error {
	if value > 0xFF {
		return errkind.InvalidValuef("value has to be in range from 0 to 2^8, but was %d", value)
	}
	return nil
}

// CheckUint16 reports whether value fits in an unsigned 16-bit field.
func CheckUint16(value uint64) error {
	if value > 0xFFFF {
		return errkind.InvalidValuef("value has to be in range from 0 to 2^16, but was %d", value)
	}
	return nil
}

// CheckUint32 reports whether value fits in an unsigned 32-bit field.
func CheckUint32(value uint64) error {
	if value > 0xFFFFFFFF {
		return errkind.InvalidValuef("value has to be in range from 0 to 2^32, but was %d", value)
	}
	return nil
}

// Uint16ToBytes renders v as little-endian bytes, as used for the framed
// transport's additive header-CRC composition.
func Uint16ToBytes(v uint16) [2]byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b
}

// ByteArrayToHex renders data as lowercase hex.
func ByteArrayToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// HexToByteArray parses a hex string, rejecting odd-length input.
func HexToByteArray(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errkind.InvalidValuef("hex string must have even length")
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errkind.InvalidValuef("invalid hex string: %s", s)
	}
	return data, nil
}
