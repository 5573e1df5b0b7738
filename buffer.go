package hcicore

import "errors"

// Buffer is a fixed-capacity packet buffer with head-room/tail-room
// discipline, re-expressed from the original pointer-arithmetic packet
// view as a checked (head, len) offset pair into a statically sized
// backing array.
//
// A Buffer is owned by exactly one of: the free pool, the command
// queue, the RX queue, the sent-command slot, or a handler's call
// stack. Ownership transfers on pool Acquire/Release and on queue
// send/receive.
type Buffer struct {
	buf  []byte // fixed backing array, capacity == pool's MaxPacketSize
	head int    // offset of the live payload within buf
	len  int    // current payload length

	Type   PacketType
	Opcode uint16 // meaningful only when Type == PacketCommand

	sync signal // one-shot handle attached by a synchronous sender

	// pooled is true only for a Buffer drawn from a bufferPool's own
	// storage. Buffers built directly (NewRxBuffer, or a transport's
	// own scripted event) never pass through acquire and must not be
	// fed back into a pool's free FIFO on release.
	pooled bool
}

// Headroom returns the number of unused bytes before the payload.
func (b *Buffer) Headroom() int {
	return b.head
}

// Tailroom returns the number of unused bytes after the payload.
func (b *Buffer) Tailroom() int {
	return len(b.buf) - b.head - b.len
}

// Len returns the current payload length.
func (b *Buffer) Len() int {
	return b.len
}

// Data returns the live payload. The returned slice is only valid
// until the next Add/Push/Pull call.
func (b *Buffer) Data() []byte {
	return b.buf[b.head : b.head+b.len]
}

// Add appends n uninitialized bytes at the tail and returns them for
// the caller to fill in. Requires Tailroom() >= n.
func (b *Buffer) Add(n int) ([]byte, error) {
	if n > b.Tailroom() {
		return nil, WrapError("buf_add", ErrCodeInvalid, errOutOfRoom)
	}
	tail := b.head + b.len
	b.len += n
	return b.buf[tail : tail+n], nil
}

// Push prepends n bytes at the head, for the transport layer to write
// its own framing into the reserved head-room, and returns them.
// Requires Headroom() >= n.
func (b *Buffer) Push(n int) ([]byte, error) {
	if n > b.Headroom() {
		return nil, WrapError("buf_push", ErrCodeInvalid, errOutOfRoom)
	}
	b.head -= n
	b.len += n
	return b.buf[b.head : b.head+n], nil
}

// Pull consumes n bytes from the head and returns them. Requires
// Len() >= n.
func (b *Buffer) Pull(n int) ([]byte, error) {
	if n > b.len {
		return nil, WrapError("buf_pull", ErrCodeInvalid, errOutOfRoom)
	}
	consumed := b.buf[b.head : b.head+n]
	b.head += n
	b.len -= n
	return consumed, nil
}

var errOutOfRoom = errors.New("requested length exceeds available room")

// NewRxBuffer wraps a fully framed HCI event or ACL packet (everything
// after the transport's own type-octet prefix, if any) as a Buffer
// ready for Stack.BtRecv. External Driver implementations that can't
// reach the core's pool use this to hand received bytes to the stack.
func NewRxBuffer(typ PacketType, payload []byte) *Buffer {
	b := &Buffer{buf: make([]byte, len(payload)), len: len(payload), Type: typ}
	copy(b.buf, payload)
	return b
}
