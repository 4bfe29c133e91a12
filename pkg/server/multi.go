package server

import (
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/erpc-go/erpc/pkg/codec"
	"github.com/erpc-go/erpc/pkg/errkind"
	"github.com/erpc-go/erpc/pkg/transport"
)

const (
	acceptRetryDelay = 100 * time.Millisecond
	runPollInterval  = 100 * time.Millisecond
	serialRetryDelay = 5 * time.Second
	defaultTimeout   = 30 * time.Second
)

type serialEndpoint struct {
	port     string
	baudRate int
}

// MultiTransportServer fans a single service table out over any number of
// TCP listeners, Unix domain socket listeners, and serial ports at once,
// each running its own accept/read loop, all sharing one codec factory and
// service registry.
type MultiTransportServer struct {
	codecFactory codec.Factory
	services     *serviceTable

	tcpListeners  []net.Listener
	unixListeners []net.Listener
	serialPorts   []serialEndpoint
	timeout       time.Duration

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// NewMultiTransportServer creates an empty multi-transport server; listeners
// and serial ports are added with AddTCPListener/AddUnixListener/AddSerialPort.
func NewMultiTransportServer(factory codec.Factory) *MultiTransportServer {
	return &MultiTransportServer{
		codecFactory: factory,
		services:     newServiceTable(defaultLogger()),
		timeout:      defaultTimeout,
	}
}

// UseLogger redirects the server's logging through log. Call it before Run.
func (s *MultiTransportServer) UseLogger(log *logrus.Logger) {
	s.services.log = componentLogger(log)
}

// SetTimeout sets the per-operation timeout applied to every accepted
// connection and supervised serial port. Call it before Run.
func (s *MultiTransportServer) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.timeout = timeout
	}
}

// AddService registers service, replacing any existing service at the same id.
func (s *MultiTransportServer) AddService(service Service) { s.services.add(service) }

// RemoveService unregisters the service at id.
func (s *MultiTransportServer) RemoveService(id uint8) error { return s.services.remove(id) }

// AddTCPListener binds addr and registers it to be served once Run starts.
func (s *MultiTransportServer) AddTCPListener(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errkind.NewTransportError(errkind.ConnectionFailed, "failed to bind "+addr+": "+err.Error())
	}
	s.services.log.Infof("added TCP listener on %s", addr)
	s.tcpListeners = append(s.tcpListeners, listener)
	return nil
}

// AddUnixListener binds the Unix domain socket at path and registers it.
func (s *MultiTransportServer) AddUnixListener(path string) error {
	listener, err := transport.ListenUnix(path)
	if err != nil {
		return err
	}
	s.services.log.Infof("added socket listener on %s", path)
	s.unixListeners = append(s.unixListeners, listener)
	return nil
}

// AddSerialPort registers a serial port to be opened (and, on disconnect,
// reopened) once Run starts.
func (s *MultiTransportServer) AddSerialPort(port string, baudRate int) {
	s.services.log.Infof("added serial port %s at %d baud", port, baudRate)
	s.serialPorts = append(s.serialPorts, serialEndpoint{port: port, baudRate: baudRate})
}

// TCPAddresses returns the bound local addresses of every registered TCP listener.
func (s *MultiTransportServer) TCPAddresses() []net.Addr {
	addrs := make([]net.Addr, 0, len(s.tcpListeners))
	for _, l := range s.tcpListeners {
		addrs = append(addrs, l.Addr())
	}
	return addrs
}

// Run starts an accept/read loop per registered endpoint and blocks until
// Stop is called. It fails immediately with errkind.ErrNoEndpoints if no
// TCP listener, Unix listener, or serial port has been registered.
func (s *MultiTransportServer) Run() error {
	if len(s.tcpListeners) == 0 && len(s.unixListeners) == 0 && len(s.serialPorts) == 0 {
		return errkind.ErrNoEndpoints
	}

	s.setRunning(true)
	s.services.log.Infof("multi-transport server started with %d TCP listeners, %d socket listeners, and %d serial ports",
		len(s.tcpListeners), len(s.unixListeners), len(s.serialPorts))

	for i, listener := range s.tcpListeners {
		s.wg.Add(1)
		go s.acceptLoop(i, "TCP", listener, func(conn net.Conn) transport.RawIO {
			return transport.NewTCPRawIO(conn)
		})
	}
	for i, listener := range s.unixListeners {
		s.wg.Add(1)
		go s.acceptLoop(i, "socket", listener, func(conn net.Conn) transport.RawIO {
			return transport.NewUnixRawIO(conn)
		})
	}
	for i, endpoint := range s.serialPorts {
		s.wg.Add(1)
		go s.serialSupervisor(i, endpoint)
	}

	for s.isRunning() {
		time.Sleep(runPollInterval)
	}

	s.wg.Wait()

	s.services.log.Infof("multi-transport server stopped")
	return nil
}

// Stop requests every accept/read loop exit and closes all bound listeners
// (which unblocks any Accept call currently in progress), aggregating every
// listener's close error into one.
func (s *MultiTransportServer) Stop() error {
	s.services.log.Infof("stopping multi-transport server")
	s.setRunning(false)

	return s.closeListeners()
}

func (s *MultiTransportServer) closeListeners() error {
	var err error
	for _, l := range s.tcpListeners {
		err = multierr.Append(err, l.Close())
	}
	for _, l := range s.unixListeners {
		err = multierr.Append(err, l.Close())
	}
	return err
}

func (s *MultiTransportServer) IsRunning() bool { return s.isRunning() }

func (s *MultiTransportServer) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *MultiTransportServer) setRunning(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = v
}

func (s *MultiTransportServer) acceptLoop(index int, kind string, listener net.Listener, wrap func(net.Conn) transport.RawIO) {
	defer s.wg.Done()
	s.services.log.Infof("%s listener %d started on %s", kind, index, listener.Addr())

	for s.isRunning() {
		conn, err := listener.Accept()
		if err != nil {
			if !s.isRunning() {
				return
			}
			s.services.log.Errorf("%s listener %d accept error: %s", kind, index, err)
			time.Sleep(acceptRetryDelay)
			continue
		}

		s.services.log.Infof("%s listener %d accepted connection from %s", kind, index, conn.RemoteAddr())
		framed := transport.NewFramed(wrap(conn))
		framed.SetTimeout(s.timeout)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConnection(kind, conn.RemoteAddr().String(), framed)
		}()
	}
}

func (s *MultiTransportServer) serveConnection(kind, peer string, t transport.Transport) {
	for s.isRunning() && t.IsConnected() {
		data, err := t.Receive()
		if err != nil {
			s.services.log.Errorf("transport error from %s: %s", peer, err)
			break
		}

		response, err := dispatch(s.services, s.codecFactory, data)
		if err != nil {
			s.services.log.Errorf("error processing request from %s: %s", peer, err)
			continue
		}
		if response == nil {
			continue
		}
		if err := t.Send(response); err != nil {
			s.services.log.Errorf("failed to send response to %s: %s", peer, err)
			break
		}
	}
	s.services.log.Infof("%s connection from %s closed", kind, peer)
}

func (s *MultiTransportServer) serialSupervisor(index int, endpoint serialEndpoint) {
	defer s.wg.Done()
	s.services.log.Infof("serial port %d starting on %s at %d baud", index, endpoint.port, endpoint.baudRate)

	for s.isRunning() {
		framed, err := transport.OpenSerial(endpoint.port, endpoint.baudRate)
		if err != nil {
			s.services.log.Errorf("failed to open serial port %s: %s", endpoint.port, err)
		} else {
			s.services.log.Infof("serial port %s connected successfully", endpoint.port)
			framed.SetTimeout(s.timeout)
			s.serveConnection("serial", endpoint.port, framed)
		}

		if !s.isRunning() {
			return
		}
		s.services.log.Infof("retrying connection to serial port %s in %s", endpoint.port, serialRetryDelay)
		time.Sleep(serialRetryDelay)
	}
}
