package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/cubenet/protocol"
)

const validYAML = `
port: 0x3C
network_addr: 0x01
data_link_addr: 0xE7E7E7E7
channel: 76
next_hop:
  0x01: 0x01
  0x02: 0x02
port_to_net_addr:
  0x3C: 0x01
  0x0A: 0x02
net_to_data_link:
  0x01: 0xE7E7E7E7
  0x02: 0xB1
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeTemp(t, validYAML)

	n, err := Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 0x3C, n.Port)
	assert.EqualValues(t, 0x01, n.NetworkAddr)
	assert.EqualValues(t, 0xE7E7E7E7, n.DataLinkAddr)
	assert.EqualValues(t, 0x01, n.NextHopTable[0x02])

	next, ok := n.NextHop(0x02)
	assert.True(t, ok)
	assert.EqualValues(t, 0x02, next)

	dl, ok := n.ResolveDLAddr(0x02)
	assert.True(t, ok)
	assert.EqualValues(t, 0xB1, dl)

	netAddr, ok := n.ResolveNetAddr(0x0A)
	assert.True(t, ok)
	assert.EqualValues(t, 0x02, netAddr)

	_, ok = n.ResolveNetAddr(0xFF)
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestValidateAggregatesMultipleFailures(t *testing.T) {
	n := &Node{
		Port:        0x3C,
		NetworkAddr: 0x01,
		NextHopTable: map[byte]byte{
			0x02: 0x02, // 0x02 not in NetToDataLink
		},
		PortToNetAddr: map[byte]byte{
			0x3C: 0x09, // wrong network address, and 0x09 not in NetToDataLink either
		},
		NetToDataLink: map[byte]uint32{
			// own network address 0x01 missing
		},
	}

	err := n.Validate()
	require.Error(t, err)

	merr, ok := err.(interface{ Len() int })
	require.True(t, ok, "Validate() error should support Len() (hashicorp/go-multierror)")
	assert.GreaterOrEqual(t, merr.Len(), 3)
}

func TestValidateRejectsChannelOutOfRange(t *testing.T) {
	n := &Node{
		Port:          0x3C,
		NetworkAddr:   0x01,
		Channel:       126,
		NextHopTable:  map[byte]byte{0x01: 0x01},
		PortToNetAddr: map[byte]byte{0x3C: 0x01},
		NetToDataLink: map[byte]uint32{0x01: 0xA1},
	}

	err := n.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrInvalidChannel)
}

func TestValidateAcceptsConsistentTables(t *testing.T) {
	n := &Node{
		Port:          0x3C,
		NetworkAddr:   0x01,
		NextHopTable:  map[byte]byte{0x01: 0x01},
		PortToNetAddr: map[byte]byte{0x3C: 0x01},
		NetToDataLink: map[byte]uint32{0x01: 0xA1},
	}

	assert.NoError(t, n.Validate())
}
