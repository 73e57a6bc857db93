package netlayer

// Router is the per-node routing and address-resolution contract the
// network layer is built against: a compiled-in next-hop table and the
// two pure address-resolution tables from spec §4.5. Implementations are
// expected to be immutable for the life of the process (spec §3
// "Lifecycles": "a single routing/address table is static for the life of
// the process").
type Router interface {
	// NextHop returns the next-hop network address for a final
	// destination, or ok=false if the destination is not in the table.
	NextHop(destNet byte) (nextNet byte, ok bool)

	// ResolveDLAddr maps a network address to the transceiver's low-level
	// address.
	ResolveDLAddr(netAddr byte) (dlAddr uint32, ok bool)

	// ResolveNetAddr maps a port to the network address hosting it.
	ResolveNetAddr(port byte) (netAddr byte, ok bool)
}
