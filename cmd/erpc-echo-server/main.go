// Command erpc-echo-server runs service 1 of the echo example: method 1
// reads a string and replies "Echo: "+s; method 3 reads a string oneway and
// logs it without replying.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/erpc"
	"github.com/erpc-go/erpc/pkg/server"
)

var addr = flag.String("addr", "127.0.0.1:9000", "TCP address to listen on")

func main() {
	flag.Parse()
	log := logrus.WithField("component", "erpc-echo-server")

	echo := server.NewBaseService(1)
	echo.AddMethodFunc(1, func(sequence uint32, c codec.Codec) error {
		s, err := c.ReadString()
		if err != nil {
			return err
		}
		if err := c.StartWriteMessage(erpc.NewMessageInfo(erpc.Reply, 1, 1, sequence)); err != nil {
			return err
		}
		return c.WriteString("Echo: " + s)
	})
	echo.AddMethodFunc(3, func(sequence uint32, c codec.Codec) error {
		s, err := c.ReadString()
		if err != nil {
			return err
		}
		log.WithField("sequence", sequence).Infof("received notification: %s", s)
		return nil
	})

	srv, err := server.NewMultiBuilder().
		TCPListener(*addr).
		Service(echo).
		Build()
	if err != nil {
		log.Fatalf("failed to build server: %s", err)
	}

	log.Infof("listening on %s", *addr)

	done := make(chan struct{})
	go func() {
		if err := srv.Run(); err != nil {
			log.Errorf("server exited: %s", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Infof("shutting down")
	if err := srv.Stop(); err != nil {
		log.Errorf("error during shutdown: %s", err)
	}
	<-done
}
