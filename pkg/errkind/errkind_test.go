package errkind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnexpectedSequenceCarriesFields(t *testing.T) {
	err := NewUnexpectedSequence(1, 2)
	assert.Equal(t, uint32(1), err.Expected)
	assert.Equal(t, uint32(2), err.Actual)
	assert.Contains(t, err.Error(), "expected 1")
	assert.Contains(t, err.Error(), "got 2")
}

func TestUnsupportedVersionCarriesByte(t *testing.T) {
	err := NewUnsupportedVersion(9)
	assert.Equal(t, uint8(9), err.Version)
	assert.Contains(t, err.Error(), "9")
}

func TestInvalidServiceAndMethodID(t *testing.T) {
	assert.Contains(t, NewInvalidServiceID(99).Error(), "99")
	assert.Contains(t, NewInvalidMethodID(250).Error(), "250")
}

func TestTransportErrorKindStrings(t *testing.T) {
	cases := map[TransportKind]string{
		ConnectionFailed: "connection failed",
		SendFailed:       "send failed",
		ReceiveFailed:    "receive failed",
		Closed:           "transport is closed",
		Timeout:          "timeout occurred",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestErrNoEndpointsIsConfigError(t *testing.T) {
	var ce *ConfigError
	assert.ErrorAs(t, error(ErrNoEndpoints), &ce)
}
