package erpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xDE, 0xAD, 0xBE, 0xEF},
		{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF},
	}
	for _, data := range cases {
		hexStr := ByteArrayToHex(data)
		back, err := HexToByteArray(hexStr)
		require.NoError(t, err)
		assert.Equal(t, data, back)
	}
}

func TestHexToByteArrayAcceptsUppercase(t *testing.T) {
	data, err := HexToByteArray("DEADBEEF")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, data)
}

func TestHexToByteArrayRejectsOddLength(t *testing.T) {
	_, err := HexToByteArray("abc")
	assert.Error(t, err)
}

func TestCheckUintBounds(t *testing.T) {
	assert.NoError(t, CheckUint8(255))
	assert.Error(t, CheckUint8(256))
	assert.NoError(t, CheckUint16(65535))
	assert.Error(t, CheckUint16(65536))
	assert.NoError(t, CheckUint32(4294967295))
}

func TestUint16ToBytesLittleEndian(t *testing.T) {
	b := Uint16ToBytes(0x1234)
	assert.Equal(t, [2]byte{0x34, 0x12}, b)
}
