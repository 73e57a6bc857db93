// Package fake provides a Medium and per-node Transceiver for host-side
// tests: an addressed, in-memory radio that can drop, duplicate, or fail
// deliveries under test control. Grounded on the teacher's
// driver/stub/stub_driver.go ring buffer and the MockDriver/ConnectDrivers
// pattern in transport/transport_test.go, generalized from a single
// point-to-point pair to an addressed multi-node medium so that
// forwarding topologies (scenario S4) can be built directly.
package fake

import (
	"sync"
	"time"

	cclock "github.com/ystepanoff/cubenet/internal/clock"
	"github.com/ystepanoff/cubenet/protocol"
)

const inboxCapacity = 64

// Action describes what a Filter decides to do with one transmission.
type Action int

const (
	// Pass delivers the payload unchanged.
	Pass Action = iota
	// Drop discards the payload; the receiver never sees it.
	Drop
	// Duplicate delivers the payload twice.
	Duplicate
)

// Filter inspects an in-flight transmission and decides its fate. Tests
// use this to model a lost ACK (S3) and to capture the wire trace (S1, S2).
type Filter func(from, to uint32, payload [protocol.TRXPayloadLength]byte) Action

// Medium is a shared in-memory radio channel connecting any number of
// addressed Transceivers.
type Medium struct {
	mu     sync.Mutex
	clock  cclock.Clock
	nodes  map[uint32]*Transceiver
	filter Filter
}

// NewMedium returns an empty medium driven by c.
func NewMedium(c cclock.Clock) *Medium {
	return &Medium{clock: c, nodes: make(map[uint32]*Transceiver)}
}

// SetFilter installs f as the medium-wide delivery filter. Pass nil to
// clear it.
func (m *Medium) SetFilter(f Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = f
}

// NewTransceiver registers and returns a Transceiver at addr.
func (m *Medium) NewTransceiver(addr uint32) *Transceiver {
	t := &Transceiver{
		medium: m,
		addr:   addr,
		clock:  m.clock,
		ch:     make(chan [protocol.TRXPayloadLength]byte, inboxCapacity),
	}
	m.mu.Lock()
	m.nodes[addr] = t
	m.mu.Unlock()
	return t
}

func (m *Medium) deliver(from, to uint32, payload [protocol.TRXPayloadLength]byte) error {
	m.mu.Lock()
	filter := m.filter
	target, ok := m.nodes[to]
	m.mu.Unlock()

	if !ok {
		// No such node on the medium: on a real radio this is simply
		// never heard, not a transmit error.
		return nil
	}

	action := Pass
	if filter != nil {
		action = filter(from, to, payload)
	}

	switch action {
	case Drop:
		return nil
	case Duplicate:
		target.enqueue(payload)
		target.enqueue(payload)
	default:
		target.enqueue(payload)
	}
	return nil
}

// Transceiver is one node's addressed endpoint on a Medium.
type Transceiver struct {
	medium *Medium
	addr   uint32
	clock  cclock.Clock

	ch chan [protocol.TRXPayloadLength]byte

	mu        sync.Mutex
	txFailure error
	rxFailure error
}

// SetTxFailure makes every subsequent TransmitPayload return err (or clears
// the failure when err is nil). Models an unrecoverable transceiver fault.
func (t *Transceiver) SetTxFailure(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.txFailure = err
}

// SetRxFailure makes every subsequent ReceivePayload return err (or clears
// the failure when err is nil).
func (t *Transceiver) SetRxFailure(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rxFailure = err
}

func (t *Transceiver) Init(myAddr uint32) { t.addr = myAddr }

func (t *Transceiver) TransmitPayload(addr uint32, payload [protocol.TRXPayloadLength]byte) error {
	t.mu.Lock()
	failure := t.txFailure
	t.mu.Unlock()
	if failure != nil {
		return failure
	}
	return t.medium.deliver(t.addr, addr, payload)
}

func (t *Transceiver) ReceivePayload(out *[protocol.TRXPayloadLength]byte, timeout time.Duration) error {
	t.mu.Lock()
	failure := t.rxFailure
	t.mu.Unlock()
	if failure != nil {
		return failure
	}

	if timeout < 0 {
		*out = <-t.ch
		return nil
	}

	select {
	case payload := <-t.ch:
		*out = payload
		return nil
	case <-t.clock.After(timeout):
		return protocol.ErrTimeout
	}
}

func (t *Transceiver) enqueue(payload [protocol.TRXPayloadLength]byte) {
	select {
	case t.ch <- payload:
	default:
		select {
		case <-t.ch:
		default:
		}
		t.ch <- payload
	}
}
