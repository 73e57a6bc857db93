package transport

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ystepanoff/cubenet/dll"
	"github.com/ystepanoff/cubenet/driver/fake"
	"github.com/ystepanoff/cubenet/internal/clock"
	"github.com/ystepanoff/cubenet/netlayer"
)

// testRouter is a map-backed netlayer.Router for wiring small test
// topologies without a real config file.
type testRouter struct {
	nextHop  map[byte]byte
	dlAddrs  map[byte]uint32
	portNets map[byte]byte
}

func (r testRouter) NextHop(dest byte) (byte, bool)        { n, ok := r.nextHop[dest]; return n, ok }
func (r testRouter) ResolveDLAddr(net byte) (uint32, bool) { a, ok := r.dlAddrs[net]; return a, ok }
func (r testRouter) ResolveNetAddr(port byte) (byte, bool) { n, ok := r.portNets[port]; return n, ok }

func discardEntry() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// pumpVirtualClock repeatedly advances vc so that tests exercising
// AttemptLimit-scale retry timing (tens of seconds of protocol time) finish
// in milliseconds of wall-clock time. Grounded on the goroutine-plus-Advance
// pattern in internal/clock/virtual_test.go.
func pumpVirtualClock(vc *clock.Virtual, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			vc.Advance(50 * time.Millisecond)
		}
	}
}

// directPair wires two adjacent nodes (no forwarder in between) sharing one
// routing table, and returns their transport endpoints.
func directPair(c clock.Clock) (epA, epB *Endpoint) {
	medium := fake.NewMedium(c)
	trxA := medium.NewTransceiver(0xA1)
	trxB := medium.NewTransceiver(0xB1)

	router := testRouter{
		nextHop:  map[byte]byte{0x01: 0x01, 0x02: 0x02},
		dlAddrs:  map[byte]uint32{0x01: 0xA1, 0x02: 0xB1},
		portNets: map[byte]byte{0x3C: 0x01, 0x0A: 0x02},
	}

	netA := netlayer.New(0x01, dll.New(trxA, nil), router, c, discardEntry())
	netB := netlayer.New(0x02, dll.New(trxB, nil), router, c, discardEntry())

	epA = New(0x3C, 0x01, netA, router, c, discardEntry())
	epB = New(0x0A, 0x02, netB, router, c, discardEntry())
	return epA, epB
}
