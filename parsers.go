package hcicore

import "encoding/binary"

// responseParser decodes the return parameters of one Command Complete
// event (params[0] is always status; params[1:] is the command's
// return data) into ControllerState.
type responseParser func(st *ControllerState, params []byte)

// responseParsers is the §4.5 table: every bring-up command that
// populates ControllerState on completion.
var responseParsers = map[uint16]responseParser{
	opReadLocalVersionInfo: parseReadLocalVersionInfo,
	opReadLocalFeatures:    parseReadLocalFeatures,
	opReadBufferSize:       parseReadBufferSize,
	opReadBDAddr:           parseReadBDAddr,
	opLEReadBufferSize:     parseLEReadBufferSize,
	opLEReadLocalFeatures:  parseLEReadLocalFeatures,
}

// parseReadLocalVersionInfo: status, hci_version, hci_revision(2),
// lmp_version, manufacturer(2), lmp_subversion(2).
func parseReadLocalVersionInfo(st *ControllerState, params []byte) {
	if len(params) < 8 {
		return
	}
	if params[0] != 0 {
		return
	}
	version := params[1]
	revision := binary.LittleEndian.Uint16(params[2:4])
	manufacturer := binary.LittleEndian.Uint16(params[5:7])
	st.setVersion(version, revision, manufacturer)
}

// parseReadLocalFeatures: status, features(8).
func parseReadLocalFeatures(st *ControllerState, params []byte) {
	if len(params) < 9 {
		return
	}
	var features [8]byte
	copy(features[:], params[1:9])
	st.setFeatures(features)
}

// parseReadBufferSize: status, acl_mtu(2), sco_mtu, acl_max_pkt(2),
// sco_max_pkt(2). On a controller without a separate LE pool this is
// also the buffer the LE stack draws from, so it only fills LE buffer
// state when LE_READ_BUFFER_SIZE hasn't already reported a nonzero
// MTU.
func parseReadBufferSize(st *ControllerState, params []byte) {
	if len(params) < 7 {
		return
	}
	if params[0] != 0 {
		return
	}
	aclMTU := binary.LittleEndian.Uint16(params[1:3])
	aclMaxPkt := binary.LittleEndian.Uint16(params[4:6])
	pkts := uint8(aclMaxPkt)
	if aclMaxPkt > 0xff {
		pkts = 0xff
	}
	st.setLEBufferSizeIfUnset(aclMTU, pkts)
}

// parseReadBDAddr: status, bd_addr(6).
func parseReadBDAddr(st *ControllerState, params []byte) {
	if len(params) < 7 {
		return
	}
	if params[0] != 0 {
		return
	}
	var addr [6]byte
	copy(addr[:], params[1:7])
	st.setBDAddr(addr)
}

// parseLEReadBufferSize: status, le_mtu(2), le_max_pkt(1).
func parseLEReadBufferSize(st *ControllerState, params []byte) {
	if len(params) < 4 {
		return
	}
	if params[0] != 0 {
		return
	}
	leMTU := binary.LittleEndian.Uint16(params[1:3])
	lePkts := params[3]
	st.setLEBufferSize(leMTU, lePkts)
}

// parseLEReadLocalFeatures: status, le_features(8).
func parseLEReadLocalFeatures(st *ControllerState, params []byte) {
	if len(params) < 9 {
		return
	}
	var features [8]byte
	copy(features[:], params[1:9])
	st.setLEFeatures(features)
}
