package protocol

// EncodeFrame wraps a network packet in the data-link layer's one-byte
// length prefix and zero-pads the result to a full transceiver payload.
//
// Convention: frame[0] holds the number of packet bytes that follow it
// (not that number plus one). DecodeFrame uses this byte to decide how
// many bytes to hand up and rejects a frame whose count exceeds the
// payload; the network packet's own length field then bounds the segment.
func EncodeFrame(packet []byte) [TRXPayloadLength]byte {
	var frame [TRXPayloadLength]byte
	n := len(packet)
	if n > MaxPacketLen {
		n = MaxPacketLen
	}
	frame[0] = byte(n)
	copy(frame[FrameHeaderLen:], packet[:n])
	return frame
}

// DecodeFrame extracts the packet bytes carried by one transceiver
// payload.
func DecodeFrame(raw []byte) ([]byte, error) {
	if len(raw) < FrameHeaderLen {
		return nil, ErrShortBuffer
	}

	n := int(raw[0])
	if n > len(raw)-FrameHeaderLen {
		return nil, ErrCorrupt
	}

	return append([]byte(nil), raw[FrameHeaderLen:FrameHeaderLen+n]...), nil
}
