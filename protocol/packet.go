package protocol

// EncodePacket wraps a segment in the network layer's 3-byte header:
// total length, final destination network address, original source
// network address.
func EncodePacket(destNet, srcNet byte, segment []byte) []byte {
	total := PacketHeaderLen + len(segment)
	buf := make([]byte, total)
	buf[0] = byte(total)
	buf[1] = destNet
	buf[2] = srcNet
	copy(buf[PacketHeaderLen:], segment)
	return buf
}

// DecodePacket splits a packet into its header fields and segment bytes.
func DecodePacket(data []byte) (destNet, srcNet byte, segment []byte, err error) {
	if len(data) < PacketHeaderLen {
		return 0, 0, nil, ErrShortBuffer
	}

	total := int(data[0])
	if total < PacketHeaderLen || total > len(data) {
		return 0, 0, nil, ErrCorrupt
	}

	destNet = data[1]
	srcNet = data[2]
	segment = append([]byte(nil), data[PacketHeaderLen:total]...)
	return destNet, srcNet, segment, nil
}
