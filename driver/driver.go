// Package driver defines the transceiver contract the data-link layer is
// built against. The physical radio driver itself is out of scope for this
// stack (spec: "the physical radio driver ... specified only at their
// interface"); this package exists so dll can be written against an
// interface instead of a concrete radio, the way transport/driver.go's
// RadioDriver let the teacher's transport layer run against either the
// real nRF peripheral or a host-side stub.
package driver

import (
	"time"

	"github.com/ystepanoff/cubenet/protocol"
)

// Transceiver is the addressed, fixed-length-payload radio contract.
type Transceiver interface {
	// Init sets the transceiver's own low-level address.
	Init(myAddr uint32)

	// TransmitPayload sends one fixed-size payload to addr. It returns
	// protocol.ErrTransceiverFailure on an unrecoverable hardware error.
	TransmitPayload(addr uint32, payload [protocol.TRXPayloadLength]byte) error

	// ReceivePayload blocks up to timeout for one payload. A negative
	// timeout blocks indefinitely. It returns protocol.ErrTimeout if no
	// payload arrives in time.
	ReceivePayload(out *[protocol.TRXPayloadLength]byte, timeout time.Duration) error
}
