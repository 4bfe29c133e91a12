package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/erpc"
	"github.com/erpc-go/erpc/pkg/errkind"
	"github.com/erpc-go/erpc/pkg/transport"
)

func echoService() *BaseService {
	svc := NewBaseService(1)
	svc.AddMethodFunc(1, func(sequence uint32, c codec.Codec) error {
		input, err := c.ReadString()
		if err != nil {
			return err
		}
		if err := c.StartWriteMessage(erpc.NewMessageInfo(erpc.Reply, 1, 1, sequence)); err != nil {
			return err
		}
		return c.WriteString("Echo: " + input)
	})
	svc.AddMethodFunc(3, func(sequence uint32, c codec.Codec) error {
		_, err := c.ReadString()
		return err
	})
	return svc
}

func sendInvocation(t *testing.T, tr transport.Transport, serviceID, methodID uint8, msgType erpc.MessageType, sequence uint32, payload string) {
	t.Helper()
	c := codec.NewBasicCodec()
	require.NoError(t, c.StartWriteMessage(erpc.NewMessageInfo(msgType, serviceID, methodID, sequence)))
	require.NoError(t, c.WriteString(payload))
	require.NoError(t, tr.Send(c.Bytes()))
}

func TestSimpleServerEchoInvocation(t *testing.T) {
	clientSide, serverSide := transport.NewMemoryTransportPair()

	srv := NewSimpleServer(serverSide, codec.NewBasicCodecFactory())
	srv.AddService(echoService())

	go func() { _ = srv.Run() }()
	defer srv.Stop()

	sendInvocation(t, clientSide, 1, 1, erpc.Invocation, 7, "hi")

	data, err := clientSide.Receive()
	require.NoError(t, err)

	respCodec := codec.BasicCodecFromData(data)
	info, err := respCodec.StartReadMessage()
	require.NoError(t, err)
	assert.Equal(t, erpc.Reply, info.Type)
	assert.Equal(t, uint32(7), info.Sequence)

	reply, err := respCodec.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "Echo: hi", reply)
}

func TestSimpleServerOnewayProducesNoReply(t *testing.T) {
	clientSide, serverSide := transport.NewMemoryTransportPair()

	srv := NewSimpleServer(serverSide, codec.NewBasicCodecFactory())
	srv.AddService(echoService())

	go func() { _ = srv.Run() }()
	defer srv.Stop()

	sendInvocation(t, clientSide, 1, 3, erpc.Oneway, 1, "fire and forget")

	// A second, real invocation should still be answered, proving the
	// oneway call above didn't wedge the server loop waiting to reply.
	sendInvocation(t, clientSide, 1, 1, erpc.Invocation, 2, "after oneway")

	clientSide.SetTimeout(2 * time.Second)
	data, err := clientSide.Receive()
	require.NoError(t, err)

	respCodec := codec.BasicCodecFromData(data)
	info, err := respCodec.StartReadMessage()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), info.Sequence)
}

func TestDispatchRejectsUnknownService(t *testing.T) {
	table := newServiceTable(defaultLogger())

	c := codec.NewBasicCodec()
	require.NoError(t, c.StartWriteMessage(erpc.NewMessageInfo(erpc.Invocation, 99, 1, 1)))
	require.NoError(t, c.WriteString("x"))

	_, err := dispatch(table, codec.NewBasicCodecFactory(), c.Bytes())
	require.Error(t, err)
}

func TestDispatchRejectsUnknownMethod(t *testing.T) {
	table := newServiceTable(defaultLogger())
	table.add(echoService())

	c := codec.NewBasicCodec()
	require.NoError(t, c.StartWriteMessage(erpc.NewMessageInfo(erpc.Invocation, 1, 250, 1)))
	require.NoError(t, c.WriteString("x"))

	_, err := dispatch(table, codec.NewBasicCodecFactory(), c.Bytes())
	require.Error(t, err)
}

func TestDispatchRejectsReplyAsIncomingType(t *testing.T) {
	table := newServiceTable(defaultLogger())
	table.add(echoService())

	c := codec.NewBasicCodec()
	require.NoError(t, c.StartWriteMessage(erpc.NewMessageInfo(erpc.Reply, 1, 1, 1)))
	require.NoError(t, c.WriteString("x"))

	_, err := dispatch(table, codec.NewBasicCodecFactory(), c.Bytes())
	require.Error(t, err)
}

func TestDispatchRejectsNotificationAsIncomingType(t *testing.T) {
	table := newServiceTable(defaultLogger())
	table.add(echoService())

	c := codec.NewBasicCodec()
	require.NoError(t, c.StartWriteMessage(erpc.NewMessageInfo(erpc.Notification, 1, 1, 1)))
	require.NoError(t, c.WriteString("x"))

	_, err := dispatch(table, codec.NewBasicCodecFactory(), c.Bytes())
	require.Error(t, err)
}

func TestServiceTableReplacesDuplicateRegistration(t *testing.T) {
	table := newServiceTable(defaultLogger())
	table.add(echoService())
	table.add(echoService())

	_, ok := table.get(1)
	assert.True(t, ok)
}

func TestServiceTableRemoveUnknownFails(t *testing.T) {
	table := newServiceTable(defaultLogger())
	err := table.remove(250)
	require.Error(t, err)
}

func TestSimpleBuilderRequiresTransport(t *testing.T) {
	_, err := NewBuilder().Build()
	require.Error(t, err)
}

func TestMultiBuilderRejectsUnboundPort(t *testing.T) {
	_, err := NewMultiBuilder().TCPListener("256.256.256.256:0").Build()
	require.Error(t, err)
}

func TestMultiTransportServerRunRequiresEndpoints(t *testing.T) {
	srv := NewMultiTransportServer(codec.NewBasicCodecFactory())
	err := srv.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, errkind.ErrNoEndpoints)
}

func TestMultiTransportServerTCPEchoRoundTrip(t *testing.T) {
	srv, err := NewMultiBuilder().
		TCPListener("127.0.0.1:0").
		Service(echoService()).
		Build()
	require.NoError(t, err)

	addrs := srv.TCPAddresses()
	require.Len(t, addrs, 1)

	done := make(chan struct{})
	go func() {
		_ = srv.Run()
		close(done)
	}()
	defer func() {
		srv.Stop()
		<-done
	}()

	conn, err := transport.DialTCP(addrs[0].String())
	require.NoError(t, err)
	defer conn.Close()

	sendInvocation(t, conn, 1, 1, erpc.Invocation, 3, "hello tcp")

	data, err := conn.Receive()
	require.NoError(t, err)

	respCodec := codec.BasicCodecFromData(data)
	info, err := respCodec.StartReadMessage()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), info.Sequence)

	reply, err := respCodec.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello tcp", reply)
}
