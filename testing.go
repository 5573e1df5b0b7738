package hcicore

import (
	"encoding/binary"
	"sync"
)

// StubTransport is an in-memory Driver double: it records every opcode
// handed to Send and can be scripted to synthesize the Command
// Complete/Command Status event that a real controller would return,
// delivered back through the owning Stack's BtRecv exactly as a real
// transport's read loop would. Grounded on the teacher's MockBackend
// (call counters, scriptable behavior, in-package test double
// satisfying the real interface).
type StubTransport struct {
	mu sync.Mutex

	stack       *Stack
	headReserve int

	opened  bool
	openErr error
	sendErr error

	sent      []uint16
	responses map[uint16]StubResponse
}

// StubResponse scripts the event a StubTransport synthesizes in
// response to one opcode.
type StubResponse struct {
	// Status is the event's status byte.
	Status uint8
	// NCmd is the controller's reported command-credit count.
	NCmd uint8
	// Params is the Command Complete return data following status.
	// Ignored when StatusOnly is set.
	Params []byte
	// StatusOnly synthesizes a Command Status event instead of a
	// Command Complete.
	StatusOnly bool
}

// NewStubTransport returns a StubTransport bound to stack. headReserve
// defaults to 1, matching a typical single-byte H4 type-octet prefix.
func NewStubTransport(stack *Stack) *StubTransport {
	return &StubTransport{
		stack:       stack,
		headReserve: 1,
		responses:   make(map[uint16]StubResponse),
	}
}

// Script registers the response Send should synthesize for opcode.
func (t *StubTransport) Script(opcode uint16, resp StubResponse) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[opcode] = resp
}

// SetHeadReserve overrides the default head-room reservation.
func (t *StubTransport) SetHeadReserve(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.headReserve = n
}

// FailOpen makes every subsequent Open call return err.
func (t *StubTransport) FailOpen(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.openErr = err
}

// FailSend makes every subsequent Send call return err instead of
// synthesizing a response.
func (t *StubTransport) FailSend(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErr = err
}

// SentOpcodes returns the opcodes handed to Send, in call order.
func (t *StubTransport) SentOpcodes() []uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]uint16, len(t.sent))
	copy(out, t.sent)
	return out
}

func (t *StubTransport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opened = true
	return t.openErr
}

func (t *StubTransport) HeadReserve() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.headReserve
}

func (t *StubTransport) Send(buf *Buffer) error {
	t.mu.Lock()
	t.sent = append(t.sent, buf.Opcode)
	resp, scripted := t.responses[buf.Opcode]
	sendErr := t.sendErr
	t.mu.Unlock()

	if sendErr != nil {
		return sendErr
	}
	if scripted {
		t.stack.BtRecv(buildScriptedEvent(buf.Opcode, resp))
	}
	return nil
}

func buildScriptedEvent(opcode uint16, resp StubResponse) *Buffer {
	var payload []byte
	if resp.StatusOnly {
		payload = make([]byte, evtHeaderLen+cmdStatusLen)
		payload[0] = evtCmdStatus
		payload[1] = cmdStatusLen
		payload[2] = resp.Status
		payload[3] = resp.NCmd
		binary.LittleEndian.PutUint16(payload[4:6], opcode)
	} else {
		params := cmdCompletePrologueLen + 1 + len(resp.Params)
		payload = make([]byte, evtHeaderLen+params)
		payload[0] = evtCmdComplete
		payload[1] = uint8(params)
		payload[2] = resp.NCmd
		binary.LittleEndian.PutUint16(payload[3:5], opcode)
		payload[5] = resp.Status
		copy(payload[6:], resp.Params)
	}

	b := &Buffer{buf: payload, len: len(payload), Type: PacketEvent}
	return b
}
