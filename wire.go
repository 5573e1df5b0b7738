package hcicore

import "encoding/binary"

// writeCommandHeader writes the 3-byte command header (opcode:u16,
// param_len:u8) at the start of dst.
func writeCommandHeader(dst []byte, opcode uint16, paramLen uint8) {
	binary.LittleEndian.PutUint16(dst[0:2], opcode)
	dst[2] = paramLen
}

// aclHeader is the parsed form of the 4-byte ACL header.
type aclHeader struct {
	handle uint16 // 12-bit connection handle
	flags  uint8  // 4-bit packet-boundary + broadcast flags
	length uint16
}

func parseACLHeader(data []byte) aclHeader {
	handleFlags := binary.LittleEndian.Uint16(data[0:2])
	length := binary.LittleEndian.Uint16(data[2:4])
	return aclHeader{
		handle: handleFlags & 0x0fff,
		flags:  uint8(handleFlags >> 12),
		length: length,
	}
}

// eventHeader is the parsed form of the 2-byte event header.
type eventHeader struct {
	evt      uint8
	paramLen uint8
}

func parseEventHeader(data []byte) eventHeader {
	return eventHeader{evt: data[0], paramLen: data[1]}
}

// cmdCompletePrologue is the parsed form of the Command Complete
// payload prologue (ncmd:u8, opcode:u16).
type cmdCompletePrologue struct {
	ncmd   uint8
	opcode uint16
}

func parseCmdCompletePrologue(data []byte) cmdCompletePrologue {
	return cmdCompletePrologue{
		ncmd:   data[0],
		opcode: binary.LittleEndian.Uint16(data[1:3]),
	}
}

// cmdStatusEvent is the parsed form of the Command Status payload
// (status:u8, ncmd:u8, opcode:u16).
type cmdStatusEvent struct {
	status uint8
	ncmd   uint8
	opcode uint16
}

func parseCmdStatus(data []byte) cmdStatusEvent {
	return cmdStatusEvent{
		status: data[0],
		ncmd:   data[1],
		opcode: binary.LittleEndian.Uint16(data[2:4]),
	}
}
