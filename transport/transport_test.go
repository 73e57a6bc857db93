package transport

import (
	"testing"
	"time"

	"github.com/ystepanoff/cubenet/internal/clock"
	"github.com/ystepanoff/cubenet/protocol"
)

func TestAttemptTxClassifiesTimeoutAsNotAcknowledged(t *testing.T) {
	epA, _ := directPair(clock.Real{})

	seg := protocol.EncodeSOM(0, 0x0A, 0x3C, 1)
	// Nobody on the other end ever answers: destNet 0x02 exists on the
	// medium but its endpoint never calls Rx.
	err := epA.attemptTx(seg, 0x02, 0)
	if err != errNotAcknowledged {
		t.Fatalf("attemptTx() error = %v, want errNotAcknowledged", err)
	}
}

func TestAttemptTxClassifiesOldAck(t *testing.T) {
	epA, epB := directPair(clock.Real{})

	seg := protocol.EncodeSOM(0, 0x0A, 0x3C, 1)
	done := make(chan error, 1)
	go func() { done <- epA.attemptTx(seg, 0x02, 0) }()

	// epB answers manually with an ACK for the *old* sequence number
	// (matching currentSeq rather than its complement), simulating a
	// stale re-ACK of the prior segment.
	buf := make([]byte, protocol.MaxSegmentLen)
	n, err := epB.net.Rx(buf, 2*time.Second)
	if err != nil {
		t.Fatalf("net.Rx() error = %v", err)
	}
	got, err := protocol.DecodeSegment(buf[:n])
	if err != nil {
		t.Fatalf("DecodeSegment() error = %v", err)
	}
	ack := protocol.EncodeAck(0 /* == currentSeq, i.e. old */, got.SrcPort, got.DstPort)
	if err := epB.net.Tx(ack, 0x01, 0x02); err != nil {
		t.Fatalf("net.Tx(ack) error = %v", err)
	}

	if err := <-done; err != errOldAck {
		t.Fatalf("attemptTx() error = %v, want errOldAck", err)
	}
}

func TestAttemptTxSuccessOnComplementAck(t *testing.T) {
	epA, epB := directPair(clock.Real{})

	seg := protocol.EncodeSOM(0, 0x0A, 0x3C, 1)
	done := make(chan error, 1)
	go func() { done <- epA.attemptTx(seg, 0x02, 0) }()

	buf := make([]byte, protocol.MaxSegmentLen)
	n, err := epB.net.Rx(buf, 2*time.Second)
	if err != nil {
		t.Fatalf("net.Rx() error = %v", err)
	}
	got, err := protocol.DecodeSegment(buf[:n])
	if err != nil {
		t.Fatalf("DecodeSegment() error = %v", err)
	}
	ack := protocol.EncodeAck(got.Seq^1, got.SrcPort, got.DstPort)
	if err := epB.net.Tx(ack, 0x01, 0x02); err != nil {
		t.Fatalf("net.Tx(ack) error = %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("attemptTx() error = %v, want nil", err)
	}
}

func TestAttemptRxOutdatedOnDuplicateSeq(t *testing.T) {
	epA, epB := directPair(clock.Real{})
	epB.setExpectedSeq(1)

	seg := protocol.EncodeData(1, 0x0A, 0x3C, 0, []byte{0x42})
	if err := epA.net.Tx(seg, 0x02, 0x01); err != nil {
		t.Fatalf("net.Tx() error = %v", err)
	}

	got, err := epB.attemptRx(2 * time.Second)
	if err != nil {
		t.Fatalf("attemptRx() error = %v, want nil (matches expectedSeq)", err)
	}
	if got.Kind != protocol.KindData {
		t.Fatalf("attemptRx() kind = %v, want KindData", got.Kind)
	}
	if epB.getExpectedSeq() != 0 {
		t.Errorf("expectedSeq = %d, want 0 (toggled)", epB.getExpectedSeq())
	}

	// Same segment again: now a duplicate against the toggled expectedSeq.
	if err := epA.net.Tx(seg, 0x02, 0x01); err != nil {
		t.Fatalf("net.Tx() error = %v", err)
	}
	_, err = epB.attemptRx(2 * time.Second)
	if err != errOutdated {
		t.Fatalf("attemptRx() error = %v, want errOutdated", err)
	}
}
