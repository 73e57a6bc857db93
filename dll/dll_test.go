package dll

import (
	"bytes"
	"testing"
	"time"

	"github.com/ystepanoff/cubenet/driver/fake"
	"github.com/ystepanoff/cubenet/internal/clock"
	"github.com/ystepanoff/cubenet/protocol"
)

func TestLayerTxRxRoundTrip(t *testing.T) {
	medium := fake.NewMedium(clock.Real{})
	a := medium.NewTransceiver(1)
	b := medium.NewTransceiver(2)

	dllA := New(a, nil)
	dllB := New(b, nil)

	packet := protocol.EncodePacket(0x0A, 0x3C, protocol.EncodeEOM(0, 0x0A, 0x3C))
	if err := dllA.Tx(packet, 2); err != nil {
		t.Fatalf("Tx() error = %v", err)
	}

	buf := make([]byte, protocol.MaxPacketLen)
	n, err := dllB.Rx(buf, time.Second)
	if err != nil {
		t.Fatalf("Rx() error = %v", err)
	}
	if !bytes.Equal(buf[:n], packet) {
		t.Errorf("Rx() = %v, want %v", buf[:n], packet)
	}
}

func TestLayerRxTimeout(t *testing.T) {
	medium := fake.NewMedium(clock.Real{})
	a := medium.NewTransceiver(1)
	dllA := New(a, nil)

	buf := make([]byte, protocol.MaxPacketLen)
	_, err := dllA.Rx(buf, 10*time.Millisecond)
	if err != protocol.ErrTimeout {
		t.Fatalf("Rx() error = %v, want ErrTimeout", err)
	}
}

func TestLayerTxRejectsOversizedPayload(t *testing.T) {
	medium := fake.NewMedium(clock.Real{})
	a := medium.NewTransceiver(1)
	dllA := New(a, nil)

	oversized := make([]byte, protocol.MaxPacketLen+1)
	if err := dllA.Tx(oversized, 2); err != protocol.ErrPayloadTooLarge {
		t.Fatalf("Tx() error = %v, want ErrPayloadTooLarge", err)
	}
}
