// Command erpc-echo-client dials erpc-echo-server, performs a blocking
// echo invocation, then fires a oneway notification that returns
// immediately with no reply bytes.
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/erpc-go/erpc/pkg/client"
	"github.com/erpc-go/erpc/pkg/codec"
)

var addr = flag.String("addr", "127.0.0.1:9000", "TCP address to dial")

func main() {
	flag.Parse()
	log := logrus.WithField("component", "erpc-echo-client")

	mgr, err := client.NewBuilder().TCPConnection(*addr).Connect()
	if err != nil {
		log.Fatalf("failed to connect: %s", err)
	}
	defer mgr.Close()

	request := codec.NewBasicCodec()
	if err := request.WriteString("Hello, TCP server!"); err != nil {
		log.Fatalf("failed to encode request: %s", err)
	}

	reply, err := mgr.PerformRequest(1, 1, false, request.Bytes())
	if err != nil {
		log.Fatalf("echo call failed: %s", err)
	}

	replyCodec := codec.BasicCodecFromData(reply)
	echoed, err := replyCodec.ReadString()
	if err != nil {
		log.Fatalf("failed to decode reply: %s", err)
	}
	log.Infof("received: %s", echoed)

	notification := codec.NewBasicCodec()
	if err := notification.WriteString("going away now"); err != nil {
		log.Fatalf("failed to encode notification: %s", err)
	}
	if _, err := mgr.PerformRequest(1, 3, true, notification.Bytes()); err != nil {
		log.Fatalf("oneway notification failed: %s", err)
	}
	log.Infof("oneway notification sent")
}
