package transport

import (
	"sync"
	"time"

	"github.com/erpc-go/erpc/pkg/errkind"
)

// memoryQueue is a mutex-guarded FIFO of byte chunks.
type memoryQueue struct {
	mu     sync.Mutex
	chunks [][]byte
}

func (q *memoryQueue) pushBack(data []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.chunks = append(q.chunks, data)
}

func (q *memoryQueue) pushFront(data []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.chunks = append([][]byte{data}, q.chunks...)
}

func (q *memoryQueue) popFront() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.chunks) == 0 {
		return nil, false
	}
	head := q.chunks[0]
	q.chunks = q.chunks[1:]
	return head, true
}

// MemoryRawIO is an in-process, allocation-backed RawIO pair for tests and
// local (in-process) communication; it needs no real socket.
type MemoryRawIO struct {
	sendQueue *memoryQueue
	recvQueue *memoryQueue
	timeout   time.Duration
	connected bool
}

// NewMemoryPair returns two linked MemoryRawIO endpoints: anything sent on
// one arrives on the other.
func NewMemoryPair() (*MemoryRawIO, *MemoryRawIO) {
	aToB := &memoryQueue{}
	bToA := &memoryQueue{}

	a := &MemoryRawIO{sendQueue: aToB, recvQueue: bToA, timeout: 30 * time.Second, connected: true}
	b := &MemoryRawIO{sendQueue: bToA, recvQueue: aToB, timeout: 30 * time.Second, connected: true}
	return a, b
}

func (m *MemoryRawIO) BaseSend(data []byte) error {
	if !m.connected {
		return errkind.NewTransportError(errkind.Closed, "")
	}
	cp := append([]byte(nil), data...)
	m.sendQueue.pushBack(cp)
	return nil
}

func (m *MemoryRawIO) BaseReceive(length int) ([]byte, error) {
	if !m.connected {
		return nil, errkind.NewTransportError(errkind.Closed, "")
	}

	deadline := time.Now().Add(m.timeout)
	buffer := make([]byte, 0, length)

	for len(buffer) < length {
		if chunk, ok := m.recvQueue.popFront(); ok {
			buffer = append(buffer, chunk...)
		}
		if len(buffer) >= length {
			break
		}
		if time.Now().After(deadline) {
			return nil, errkind.NewTransportError(errkind.Timeout, "")
		}
		time.Sleep(time.Millisecond)
	}

	if len(buffer) > length {
		excess := append([]byte(nil), buffer[length:]...)
		m.recvQueue.pushFront(excess)
		buffer = buffer[:length]
	}
	return buffer, nil
}

func (m *MemoryRawIO) IsConnected() bool { return m.connected }

func (m *MemoryRawIO) Close() error {
	m.connected = false
	return nil
}

func (m *MemoryRawIO) SetTimeout(timeout time.Duration) { m.timeout = timeout }

// NewMemoryTransportPair returns two Framed transports wired to each other,
// for use in client/server and codec round-trip tests without a real socket.
func NewMemoryTransportPair() (*Framed, *Framed) {
	a, b := NewMemoryPair()
	return NewFramed(a), NewFramed(b)
}
