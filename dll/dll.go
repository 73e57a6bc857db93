// Package dll implements the data-link layer: it wraps a network packet
// inside one transceiver payload, zero-padded, and unwraps it on receive.
// It does not interpret its payload and performs no retry — a timeout here
// is a normal, propagated outcome. Grounded on the framing logic in the
// teacher's driver/nrf/nrf_driver.go Tx/Rx (length-byte-then-payload,
// pointer-free here since this stack targets a host process rather than
// nRF peripheral registers).
package dll

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ystepanoff/cubenet/driver"
	"github.com/ystepanoff/cubenet/protocol"
)

// Layer is the data-link layer bound to one transceiver.
type Layer struct {
	trx driver.Transceiver
	log *logrus.Entry
}

// New returns a data-link layer driving trx.
func New(trx driver.Transceiver, log *logrus.Entry) *Layer {
	return &Layer{trx: trx, log: log}
}

// Tx sends payload (a network packet) to dlAddr in one frame.
func (l *Layer) Tx(payload []byte, dlAddr uint32) error {
	if len(payload) > protocol.MaxPacketLen {
		return protocol.ErrPayloadTooLarge
	}
	frame := protocol.EncodeFrame(payload)
	if err := l.trx.TransmitPayload(dlAddr, frame); err != nil {
		if l.log != nil {
			l.log.WithError(err).Debug("dll: transmit failed")
		}
		return err
	}
	return nil
}

// Rx blocks up to timeout for one frame and copies its packet bytes into
// buf, returning the number of bytes written.
func (l *Layer) Rx(buf []byte, timeout time.Duration) (int, error) {
	var raw [protocol.TRXPayloadLength]byte
	if err := l.trx.ReceivePayload(&raw, timeout); err != nil {
		return 0, err
	}

	packet, err := protocol.DecodeFrame(raw[:])
	if err != nil {
		return 0, err
	}

	n := copy(buf, packet)
	return n, nil
}
