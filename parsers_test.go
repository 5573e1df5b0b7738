package hcicore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// nonZeroStatus is an arbitrary failure status (Hardware Failure).
const nonZeroStatus = 0x03

func TestParseReadLocalVersionInfoIgnoresNonZeroStatus(t *testing.T) {
	st := &ControllerState{}
	params := []byte{nonZeroStatus, 0x0b, 0x01, 0x00, 0x00, 0x02, 0x00, 0x03}
	parseReadLocalVersionInfo(st, params)

	version, revision, manufacturer := st.HCIVersion()
	require.Zero(t, version)
	require.Zero(t, revision)
	require.Zero(t, manufacturer)
}

func TestParseReadBufferSizeIgnoresNonZeroStatus(t *testing.T) {
	st := &ControllerState{}
	params := []byte{nonZeroStatus, 0xfb, 0x00, 0x00, 0x08, 0x00, 0x08}
	parseReadBufferSize(st, params)

	mtu, pkts := st.LEBufferSize()
	require.Zero(t, mtu)
	require.Zero(t, pkts)
}

func TestParseReadBDAddrIgnoresNonZeroStatus(t *testing.T) {
	st := &ControllerState{}
	params := []byte{nonZeroStatus, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	parseReadBDAddr(st, params)

	require.Equal(t, [6]byte{}, st.BDAddr())
}

func TestParseLEReadBufferSizeIgnoresNonZeroStatus(t *testing.T) {
	st := &ControllerState{}
	params := []byte{nonZeroStatus, 0xfb, 0x00, 0x04}
	parseLEReadBufferSize(st, params)

	mtu, pkts := st.LEBufferSize()
	require.Zero(t, mtu)
	require.Zero(t, pkts)
}

// parseReadLocalFeatures and parseLEReadLocalFeatures are specified as
// unconditional: a non-zero status still updates the feature page.
func TestParseReadLocalFeaturesAppliesRegardlessOfStatus(t *testing.T) {
	st := &ControllerState{}
	params := make([]byte, 9)
	params[0] = nonZeroStatus
	params[1] = 0xff
	parseReadLocalFeatures(st, params)

	require.Equal(t, uint8(0xff), st.Features()[0])
}

func TestParseLEReadLocalFeaturesAppliesRegardlessOfStatus(t *testing.T) {
	st := &ControllerState{}
	params := make([]byte, 9)
	params[0] = nonZeroStatus
	params[1] = 0xff
	parseLEReadLocalFeatures(st, params)

	require.Equal(t, uint8(0xff), st.LEFeatures()[0])
}
