// Package netlayer implements the network layer: it adds the (dest, src)
// network header, resolves the next hop for outgoing packets, and
// dispatches received packets either upward (if addressed to this node)
// or onward via the same forwarding path (if not). Grounded on the
// receive-then-dispatch loop in the teacher's transport/receiver.go
// (Listen/ProcessFrame), generalized from "dispatch by frame type" to
// "dispatch by destination address".
package netlayer

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ystepanoff/cubenet/dll"
	"github.com/ystepanoff/cubenet/internal/clock"
	"github.com/ystepanoff/cubenet/protocol"
)

// Layer is the network layer bound to one data-link layer and routing
// table.
type Layer struct {
	myNetAddr byte
	dll       *dll.Layer
	router    Router
	clock     clock.Clock
	log       *logrus.Entry
}

// New returns a network layer for myNetAddr, sending and receiving frames
// through d and resolving routes through r.
func New(myNetAddr byte, d *dll.Layer, r Router, c clock.Clock, log *logrus.Entry) *Layer {
	return &Layer{myNetAddr: myNetAddr, dll: d, router: r, clock: c, log: log}
}

// Tx builds a packet from payload and sends it toward destNet, resolving
// the next hop and its data-link address via the routing table.
func (l *Layer) Tx(payload []byte, destNet, srcNet byte) error {
	if len(payload) > protocol.MaxSegmentLen {
		return protocol.ErrPayloadTooLarge
	}

	nextNet, ok := l.router.NextHop(destNet)
	if !ok {
		return protocol.ErrNoRoute
	}
	dlAddr, ok := l.router.ResolveDLAddr(nextNet)
	if !ok {
		return protocol.ErrNoRoute
	}

	packet := protocol.EncodePacket(destNet, srcNet, payload)
	return l.dll.Tx(packet, dlAddr)
}

// forward re-emits a packet not addressed to this node, preserving its
// header and payload byte-for-byte. Failures are swallowed: the forwarder
// is best-effort and must never surface as a local receive error.
func (l *Layer) forward(destNet, srcNet byte, segment []byte) {
	nextNet, ok := l.router.NextHop(destNet)
	if !ok {
		if l.log != nil {
			l.log.WithField("dest", destNet).Debug("netlayer: no route, dropping forwarded packet")
		}
		return
	}
	dlAddr, ok := l.router.ResolveDLAddr(nextNet)
	if !ok {
		if l.log != nil {
			l.log.WithField("next_hop", nextNet).Debug("netlayer: no data-link address, dropping forwarded packet")
		}
		return
	}

	packet := protocol.EncodePacket(destNet, srcNet, segment)
	if err := l.dll.Tx(packet, dlAddr); err != nil && l.log != nil {
		l.log.WithError(err).WithField("dest", destNet).Debug("netlayer: forward failed")
	}
}

// Rx blocks up to timeout receiving packets, forwarding anything not
// addressed to this node and returning the payload of the first packet
// that is.
func (l *Layer) Rx(buf []byte, timeout time.Duration) (int, error) {
	indefinite := timeout == clock.Indefinite
	deadline := l.clock.Now().Add(timeout)

	for {
		remaining := clock.Remaining(l.clock, deadline, indefinite)

		var frameBuf [protocol.MaxPacketLen]byte
		n, err := l.dll.Rx(frameBuf[:], remaining)
		if err != nil {
			return 0, err
		}

		destNet, srcNet, segment, err := protocol.DecodePacket(frameBuf[:n])
		if err != nil {
			// Corrupt packet: not addressed to anyone we can trust: skip
			// it and keep waiting within the remaining budget.
			continue
		}

		if destNet == l.myNetAddr {
			return copy(buf, segment), nil
		}

		l.forward(destNet, srcNet, segment)
	}
}
