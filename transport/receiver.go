package transport

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ystepanoff/cubenet/protocol"
)

// errOutdated marks a received segment as a duplicate of one already
// acknowledged: never surfaced to the caller, but distinguished from a
// transient decode error so the caller can tell "saw traffic" apart from
// "saw nothing usable" if it ever wants to (it currently doesn't).
var errOutdated = errors.New("transport: outdated segment")

// receiverState is the {Idle, Receiving} machine driving transport_rx.
type receiverState int

const (
	stateIdle receiverState = iota
	stateReceiving
)

// isRetryableRxError reports whether an attemptRx failure should be retried
// by the keep-trying wrapper rather than surfaced to the caller. Decode
// failures are treated the same as a duplicate: garbage on the air is not
// grounds for aborting a message that is otherwise progressing.
func isRetryableRxError(err error) bool {
	return err == errOutdated || err == protocol.ErrCorrupt || err == protocol.ErrShortBuffer
}

// attemptRx receives and ACKs exactly one segment. It returns the decoded
// segment on both Success and Outdated (err distinguishes the two);
// Timeout and unrecoverable network-layer errors propagate unchanged.
func (e *Endpoint) attemptRx(timeout time.Duration) (*protocol.Segment, error) {
	buf := make([]byte, protocol.MaxSegmentLen)
	n, err := e.net.Rx(buf, timeout)
	if err != nil {
		return nil, err
	}

	seg, err := protocol.DecodeSegment(buf[:n])
	if err != nil {
		return nil, err
	}

	if seg.Kind == protocol.KindSOM {
		e.setExpectedSeq(seg.Seq)
	}

	e.clock.Sleep(ackDelay)
	e.sendAck(seg)

	if seg.Seq != e.getExpectedSeq() {
		return seg, errOutdated
	}
	e.toggleExpectedSeq()
	return seg, nil
}

// sendAck transmits an ACK carrying the complement of seg's sequence number
// back toward seg's source port. Errors are swallowed: if the peer misses
// this ACK it will retransmit and attemptRx will ACK it again.
func (e *Endpoint) sendAck(seg *protocol.Segment) {
	destNet, ok := e.router.ResolveNetAddr(seg.SrcPort)
	if !ok {
		return
	}
	ack := protocol.EncodeAck(seg.Seq^1, seg.SrcPort, e.myPort)
	_ = e.net.Tx(ack, destNet, e.myNetAddr)
}

// rxKeepTrying calls attemptRx until it returns a non-duplicate segment,
// retrying on Outdated and on a transient decode error. Timeout and
// unrecoverable errors are returned immediately.
func (e *Endpoint) rxKeepTrying(timeout time.Duration) (*protocol.Segment, error) {
	for {
		seg, err := e.attemptRx(timeout)
		if err == nil {
			return seg, nil
		}
		if !isRetryableRxError(err) {
			return nil, err
		}
		e.log.WithError(err).Debug("transport: discarding segment, retrying receive")
	}
}

// Rx reassembles one message, blocking up to timeout on each underlying
// receive. It returns the message length and the sender's port on success.
func (e *Endpoint) Rx(buf []byte, timeout time.Duration) (n int, sourcePort byte, err error) {
	for i := range buf {
		buf[i] = 0
	}

	state := stateIdle
	var messageLen uint16

	for {
		seg, err := e.rxKeepTrying(timeout)
		if err != nil {
			return 0, 0, err
		}

		switch state {
		case stateIdle:
			if seg.Kind != protocol.KindSOM {
				continue
			}
			sourcePort = seg.SrcPort
			messageLen = seg.LenOff
			state = stateReceiving
			e.log.WithFields(logrus.Fields{
				"source_port": sourcePort,
				"length":      messageLen,
			}).Info("transport: message receive starting")

		case stateReceiving:
			switch seg.Kind {
			case protocol.KindSOM:
				// Peer restarted the message: resync and continue
				// reassembling from scratch.
				sourcePort = seg.SrcPort
				messageLen = seg.LenOff
				e.log.WithField("source_port", sourcePort).Debug("transport: peer restarted message")
			case protocol.KindData:
				offset := int(seg.LenOff)
				if offset > len(buf) {
					offset = len(buf)
				}
				copy(buf[offset:], seg.Payload)
			case protocol.KindEOM:
				e.log.WithField("source_port", sourcePort).Info("transport: message receive complete")
				return int(messageLen), sourcePort, nil
			case protocol.KindAck:
				// Stray ACK from a prior conversation: ignore.
			}
		}
	}
}
