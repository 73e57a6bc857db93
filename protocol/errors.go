package protocol

import "errors"

var (
	// ErrTimeout means no frame/packet/segment arrived within the caller's
	// timeout. Recoverable by the caller.
	ErrTimeout = errors.New("protocol: timeout")

	// ErrReachedAttemptLimit means a transmit made AttemptLimit attempts
	// without an acknowledgement.
	ErrReachedAttemptLimit = errors.New("protocol: reached attempt limit")

	// ErrTransceiverFailure means the transceiver reported an
	// unrecoverable hardware error.
	ErrTransceiverFailure = errors.New("protocol: transceiver failure")

	// ErrNoRoute means the routing table has no next hop for a
	// destination network address.
	ErrNoRoute = errors.New("protocol: no route to destination")

	// ErrPayloadTooLarge means a caller tried to send more bytes than a
	// single frame/packet/segment can carry.
	ErrPayloadTooLarge = errors.New("protocol: payload too large")

	// ErrShortBuffer means a decode was attempted on too few bytes to
	// contain a valid header.
	ErrShortBuffer = errors.New("protocol: buffer too short")

	// ErrCorrupt means a decode saw an internally inconsistent length or
	// an unrecognized segment identifier.
	ErrCorrupt = errors.New("protocol: corrupt data")

	// ErrInvalidChannel means a node's configured radio channel falls
	// outside the valid range (0-125).
	ErrInvalidChannel = errors.New("protocol: invalid channel (valid range: 0-125)")
)
