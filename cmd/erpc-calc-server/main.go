// Command erpc-calc-server runs service 42 of the calculator example:
// method 1 adds two float32s, method 2 multiplies two int32s.
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

var addr = flag.String("addr", "127.0.0.1:9042", "TCP address to listen on")

const calculatorServiceID = 42

func main() {
	flag.Parse()
	log := logrus.WithField("component", "erpc-calc-server")

	calc := server.NewBaseService(calculatorServiceID)
	calc.AddMethodFunc(1, func(sequence uint32, c codec.Codec) error {
		a, err := c.ReadFloat()
		if err != nil {
			return err
		}
		b, err := c.ReadFloat()
		if err != nil {
			return err
		}
		if err := c.StartWriteMessage(erpc.NewMessageInfo(erpc.Reply, calculatorServiceID, 1, sequence)); err != nil {
			return err
		}
		return c.WriteFloat(a + b)
	})
	calc.AddMethodFunc(2, func(sequence uint32, c codec.Codec) error {
		a, err := c.ReadInt32()
		if err != nil {
			return err
		}
		b, err := c.ReadInt32()
		if err != nil {
			return err
		}
		if err := c.StartWriteMessage(erpc.NewMessageInfo(erpc.Reply, calculatorServiceID, 2, sequence)); err != nil {
			return err
		}
		return c.WriteInt32(a * b)
	})

	srv, err := server.NewMultiBuilder().
		TCPListener(*addr).
		Service(calc).
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
