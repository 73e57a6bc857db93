// Package config loads a cube's per-node identity and routing tables from
// a YAML file, with environment-variable overrides, via viper.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/ystepanoff/cubenet/protocol"
)

// Node is one cube's static identity and routing tables (spec §3
// "Lifecycles": immutable for the life of the process).
type Node struct {
	Port         byte   `mapstructure:"port"`
	NetworkAddr  byte   `mapstructure:"network_addr"`
	DataLinkAddr uint32 `mapstructure:"data_link_addr"`
	Channel      byte   `mapstructure:"channel"`

	// NextHopTable maps a destination network address to the network
	// address of the next hop toward it.
	NextHopTable map[byte]byte `mapstructure:"next_hop"`

	// PortToNetAddr maps a local transport port to the network address
	// hosting it (spec §4.5).
	PortToNetAddr map[byte]byte `mapstructure:"port_to_net_addr"`

	// NetToDataLink maps a network address to its transceiver-level
	// data-link address (spec §4.5).
	NetToDataLink map[byte]uint32 `mapstructure:"net_to_data_link"`
}

// Load reads path as YAML, letting CUBE_-prefixed environment variables
// (CUBE_PORT, CUBE_NETWORK_ADDR, CUBE_DATA_LINK_ADDR, ...) override keys
// present in the file, and validates the result.
func Load(path string) (*Node, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("cube")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var n Node
	decodeWeak := viper.DecoderConfigOption(func(c *mapstructure.DecoderConfig) {
		c.WeaklyTypedInput = true
	})
	if err := v.Unmarshal(&n, decodeWeak); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &n, nil
}

// Validate checks internal consistency of the routing tables, aggregating
// every problem found rather than stopping at the first.
func (n *Node) Validate() error {
	var result *multierror.Error

	if _, ok := n.NetToDataLink[n.NetworkAddr]; !ok {
		result = multierror.Append(result, fmt.Errorf(
			"own network address 0x%02X has no data-link mapping in net_to_data_link", n.NetworkAddr))
	}
	if got, ok := n.PortToNetAddr[n.Port]; !ok {
		result = multierror.Append(result, fmt.Errorf(
			"own port 0x%02X has no entry in port_to_net_addr", n.Port))
	} else if got != n.NetworkAddr {
		result = multierror.Append(result, fmt.Errorf(
			"port_to_net_addr[0x%02X] = 0x%02X, want own network address 0x%02X", n.Port, got, n.NetworkAddr))
	}

	for dest, next := range n.NextHopTable {
		if _, ok := n.NetToDataLink[next]; !ok {
			result = multierror.Append(result, fmt.Errorf(
				"next_hop[0x%02X] = 0x%02X has no data-link mapping in net_to_data_link", dest, next))
		}
	}
	for port, netAddr := range n.PortToNetAddr {
		if _, ok := n.NetToDataLink[netAddr]; !ok {
			result = multierror.Append(result, fmt.Errorf(
				"port_to_net_addr[0x%02X] = 0x%02X has no data-link mapping in net_to_data_link", port, netAddr))
		}
	}

	if n.Channel > 125 {
		result = multierror.Append(result, fmt.Errorf("channel %d: %w", n.Channel, protocol.ErrInvalidChannel))
	}

	return result.ErrorOrNil()
}

// NextHop implements netlayer.Router.
func (n *Node) NextHop(destNet byte) (byte, bool) {
	next, ok := n.NextHopTable[destNet]
	return next, ok
}

// ResolveDLAddr implements netlayer.Router.
func (n *Node) ResolveDLAddr(netAddr byte) (uint32, bool) {
	addr, ok := n.NetToDataLink[netAddr]
	return addr, ok
}

// ResolveNetAddr implements netlayer.Router.
func (n *Node) ResolveNetAddr(port byte) (byte, bool) {
	netAddr, ok := n.PortToNetAddr[port]
	return netAddr, ok
}
