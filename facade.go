// Package cubenet re-exports the pieces of the layered cube network stack
// most callers need in one place, and provides NewEndpoint, a single
// convenience constructor wiring driver/fake through dll, netlayer and
// transport for one config.Node — the same shape as the teacher's
// package-level NewTransmitter/NewReceiver, generalized from one radio
// driver call to the full four-layer stack.
package cubenet

import (
	"github.com/ystepanoff/cubenet/config"
	"github.com/ystepanoff/cubenet/dll"
	"github.com/ystepanoff/cubenet/driver/fake"
	"github.com/ystepanoff/cubenet/internal/clock"
	"github.com/ystepanoff/cubenet/internal/logging"
	"github.com/ystepanoff/cubenet/netlayer"
	"github.com/ystepanoff/cubenet/protocol"
	"github.com/ystepanoff/cubenet/transport"
)

// Re-exported wire-format and error constants for callers that only need
// the protocol vocabulary, not the layer implementations.
const (
	MaxDataPayloadLen = protocol.MaxDataPayloadLen
	MaxSegmentLen     = protocol.MaxSegmentLen
	AttemptLimit      = protocol.AttemptLimit
)

var (
	ErrNoRoute             = protocol.ErrNoRoute
	ErrTimeout             = protocol.ErrTimeout
	ErrReachedAttemptLimit = protocol.ErrReachedAttemptLimit
	ErrTransceiverFailure  = protocol.ErrTransceiverFailure
)

// NewEndpoint registers node on medium and wires a full DLL -> NET ->
// TRANSPORT stack for it, driven by c. node also supplies the routing
// table both the network and transport layers resolve against.
func NewEndpoint(node *config.Node, medium *fake.Medium, c clock.Clock) *transport.Endpoint {
	trx := medium.NewTransceiver(node.DataLinkAddr)
	dllLayer := dll.New(trx, logging.New(node.NetworkAddr, "dll"))
	netLayer := netlayer.New(node.NetworkAddr, dllLayer, node, c, logging.New(node.NetworkAddr, "net"))
	return transport.New(node.Port, node.NetworkAddr, netLayer, node, c, logging.New(node.NetworkAddr, "transport"))
}
