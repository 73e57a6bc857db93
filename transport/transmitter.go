package transport

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ystepanoff/cubenet/protocol"
)

// The three retryable transmit outcomes. None of these is ever surfaced to
// the application; the keep-trying wrapper retries on all three until
// Success or the attempt limit.
var (
	errNotAcknowledged = errors.New("transport: not acknowledged")
	errNotAnAck        = errors.New("transport: reply was not an ack")
	errOldAck          = errors.New("transport: ack for prior segment")
)

func isRetryableTxError(err error) bool {
	return err == errNotAcknowledged || err == errNotAnAck || err == errOldAck
}

// attemptTx sends one segment and waits for its acknowledgement. A net_tx
// failure is not fatal here: stop-and-wait relies solely on whether an ACK
// comes back.
func (e *Endpoint) attemptTx(segment []byte, destNet, currentSeq byte) error {
	_ = e.net.Tx(segment, destNet, e.myNetAddr)

	buf := make([]byte, protocol.MaxSegmentLen)
	n, err := e.net.Rx(buf, ackTimeout)
	if err == protocol.ErrTimeout {
		return errNotAcknowledged
	}
	if err != nil {
		return err
	}

	ack, err := protocol.DecodeSegment(buf[:n])
	if err != nil || ack.Kind != protocol.KindAck {
		return errNotAnAck
	}
	switch ack.Seq {
	case currentSeq:
		return errOldAck
	case currentSeq ^ 1:
		return nil
	default:
		return errNotAnAck
	}
}

// txKeepTrying retries attemptTx up to AttemptLimit times, waiting
// RetryDelay between attempts, and gives up with ErrReachedAttemptLimit.
// An unrecoverable error propagates immediately without exhausting the
// attempt budget.
func (e *Endpoint) txKeepTrying(segment []byte, destNet, currentSeq byte) error {
	for attempt := 0; attempt < protocol.AttemptLimit; attempt++ {
		err := e.attemptTx(segment, destNet, currentSeq)
		if err == nil {
			return nil
		}
		if !isRetryableTxError(err) {
			return err
		}
		e.log.WithFields(logrus.Fields{
			"dest_net": destNet,
			"attempt":  attempt + 1,
			"reason":   err,
		}).Debug("transport: retrying segment")
		e.clock.Sleep(retryDelay)
	}
	e.log.WithField("dest_net", destNet).Info("transport: reached attempt limit")
	return protocol.ErrReachedAttemptLimit
}

// Tx segments message and sends it to destPort: a SOM announcing the
// message length, one or more DATA segments covering the message in order,
// then an EOM, each acknowledged and paced by SegmentSpacing.
func (e *Endpoint) Tx(message []byte, destPort byte) error {
	destNet, ok := e.router.ResolveNetAddr(destPort)
	if !ok {
		return protocol.ErrNoRoute
	}

	e.log.WithFields(logrus.Fields{
		"dest_port": destPort,
		"length":    len(message),
	}).Info("transport: message send starting")

	e.setCurrentSeq(0)

	som := protocol.EncodeSOM(e.getCurrentSeq(), destPort, e.myPort, uint16(len(message)))
	if err := e.txKeepTrying(som, destNet, e.getCurrentSeq()); err != nil {
		return err
	}
	e.toggleCurrentSeq()
	e.clock.Sleep(segmentSpacing)

	remaining := len(message)
	for remaining > 0 {
		n := remaining
		if n > protocol.MaxDataPayloadLen {
			n = protocol.MaxDataPayloadLen
		}
		offset := len(message) - remaining

		seq := e.getCurrentSeq()
		data := protocol.EncodeData(seq, destPort, e.myPort, uint16(offset), message[offset:offset+n])
		if err := e.txKeepTrying(data, destNet, seq); err != nil {
			return err
		}
		e.toggleCurrentSeq()
		e.clock.Sleep(segmentSpacing)
		remaining -= n
	}

	seq := e.getCurrentSeq()
	eom := protocol.EncodeEOM(seq, destPort, e.myPort)
	if err := e.txKeepTrying(eom, destNet, seq); err != nil {
		return err
	}
	e.toggleCurrentSeq()

	e.log.WithField("dest_port", destPort).Info("transport: message send complete")
	return nil
}
