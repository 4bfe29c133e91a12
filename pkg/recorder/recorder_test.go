package recorder

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpc-go/erpc/pkg/transport"
)

func TestRecorderJSONCapturesSendAndReceive(t *testing.T) {
	a, b := transport.NewMemoryTransportPair()

	var buf bytes.Buffer
	rec := Wrap(a, &buf, EncodingJSON)

	require.NoError(t, rec.Send([]byte("ping")))
	got, err := b.Receive()
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), got)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry Entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, DirectionSent, entry.Direction)
	assert.Equal(t, []byte("ping"), entry.Payload)
	assert.NotZero(t, entry.UnixNano)
}

func TestRecorderMsgPackCapturesReceive(t *testing.T) {
	a, b := transport.NewMemoryTransportPair()

	var buf bytes.Buffer
	rec := Wrap(b, &buf, EncodingMsgPack)

	require.NoError(t, a.Send([]byte("pong")))
	got, err := rec.Receive()
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), got)
	assert.NotEmpty(t, buf.Bytes())
}
