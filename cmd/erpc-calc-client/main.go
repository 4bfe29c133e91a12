// Command erpc-calc-client dials erpc-calc-server and performs a float32
// add and an int32 multiply, or with -stress, 50 sequential float32 adds
// verified against the expected sums.
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/erpc-go/erpc/pkg/client"
	"github.com/erpc-go/erpc/pkg/codec"
)

var (
	addr   = flag.String("addr", "127.0.0.1:9042", "TCP address to dial")
	stress = flag.Bool("stress", false, "run 50 sequential add requests instead of the single-call demo")
)

const calculatorServiceID = 42

func add(mgr *client.Manager, a, b float32) (float32, error) {
	request := codec.NewBasicCodec()
	if err := request.WriteFloat(a); err != nil {
		return 0, err
	}
	if err := request.WriteFloat(b); err != nil {
		return 0, err
	}
	reply, err := mgr.PerformRequest(calculatorServiceID, 1, false, request.Bytes())
	if err != nil {
		return 0, err
	}
	return codec.BasicCodecFromData(reply).ReadFloat()
}

func multiply(mgr *client.Manager, a, b int32) (int32, error) {
	request := codec.NewBasicCodec()
	if err := request.WriteInt32(a); err != nil {
		return 0, err
	}
	if err := request.WriteInt32(b); err != nil {
		return 0, err
	}
	reply, err := mgr.PerformRequest(calculatorServiceID, 2, false, request.Bytes())
	if err != nil {
		return 0, err
	}
	return codec.BasicCodecFromData(reply).ReadInt32()
}

func main() {
	flag.Parse()
	log := logrus.WithField("component", "erpc-calc-client")

	mgr, err := client.NewBuilder().TCPConnection(*addr).Connect()
	if err != nil {
		log.Fatalf("failed to connect: %s", err)
	}
	defer mgr.Close()

	if *stress {
		runStress(mgr, log)
		return
	}

	sum, err := add(mgr, 3.14, 2.86)
	if err != nil {
		log.Fatalf("add call failed: %s", err)
	}
	log.Infof("3.14 + 2.86 = %.2f", sum)

	product, err := multiply(mgr, 7, 6)
	if err != nil {
		log.Fatalf("multiply call failed: %s", err)
	}
	log.Infof("7 * 6 = %d", product)
}

func runStress(mgr *client.Manager, log *logrus.Entry) {
	for i := 1; i <= 50; i++ {
		sum, err := add(mgr, float32(i), 2.0)
		if err != nil {
			log.Fatalf("request %d failed: %s", i, err)
		}
		expected := float32(i) + 2.0
		if diff := sum - expected; diff < -0.001 || diff > 0.001 {
			log.Fatalf("request %d: expected %.3f, got %.3f", i, expected, sum)
		}
	}
	log.Infof("completed 50 sequential requests")
}
