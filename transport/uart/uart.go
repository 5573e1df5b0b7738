// Package uart implements hcicore.Driver over a real serial port,
// framing packets the way the H4 UART transport does: a one-byte
// packet-type octet followed by the HCI command/event/ACL framing the
// core already understands.
package uart

import (
	"encoding/binary"
	"fmt"
	"sync"

	serial "github.com/daedaluz/goserial"

	"github.com/tjrong/hcicore"
	"github.com/tjrong/hcicore/internal/logging"
)

const typeOctetLen = 1

// Transport is an hcicore.Driver backed by a UART device node.
type Transport struct {
	path   string
	stack  *hcicore.Stack
	logger *logging.Logger

	mu     sync.Mutex
	port   *serial.Port
	closed bool
}

// New returns a Transport that will open path on Open and deliver
// received packets to stack via BtRecv.
func New(path string, stack *hcicore.Stack) *Transport {
	return &Transport{path: path, stack: stack, logger: logging.Default()}
}

// Open opens the serial port and starts the background read loop.
func (t *Transport) Open() error {
	port, err := serial.Open(t.path, serial.NewOptions())
	if err != nil {
		return fmt.Errorf("uart: open %s: %w", t.path, err)
	}

	t.mu.Lock()
	t.port = port
	t.mu.Unlock()

	go t.readLoop()
	return nil
}

// HeadReserve reserves one byte for the packet-type octet.
func (t *Transport) HeadReserve() int {
	return typeOctetLen
}

// Send prepends the packet-type octet and writes buf's full framing to
// the wire.
func (t *Transport) Send(buf *hcicore.Buffer) error {
	hdr, err := buf.Push(typeOctetLen)
	if err != nil {
		return err
	}
	hdr[0] = byte(buf.Type)

	t.mu.Lock()
	port := t.port
	t.mu.Unlock()

	_, err = port.Write(buf.Data())
	return err
}

// Close shuts down the serial port, ending the read loop.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	port := t.port
	t.mu.Unlock()

	return port.Close()
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// readLoop reframes the raw byte stream into whole HCI packets and
// hands each to the stack. It exits once the port is closed or a read
// fails for any other reason.
func (t *Transport) readLoop() {
	var typeOctet [1]byte

	for {
		if !t.readFull(typeOctet[:]) {
			return
		}

		switch hcicore.PacketType(typeOctet[0]) {
		case hcicore.PacketEvent:
			t.readEvent()
		case hcicore.PacketACL:
			t.readACL()
		default:
			t.logger.Warnf("uart: dropping byte with unknown type octet %#02x", typeOctet[0])
		}
	}
}

func (t *Transport) readEvent() {
	hdr := make([]byte, 2)
	if !t.readFull(hdr) {
		return
	}
	paramLen := int(hdr[1])
	payload := make([]byte, 2+paramLen)
	copy(payload, hdr)
	if paramLen > 0 && !t.readFull(payload[2:]) {
		return
	}
	t.stack.BtRecv(hcicore.NewRxBuffer(hcicore.PacketEvent, payload))
}

func (t *Transport) readACL() {
	hdr := make([]byte, 4)
	if !t.readFull(hdr) {
		return
	}
	length := int(binary.LittleEndian.Uint16(hdr[2:4]))
	payload := make([]byte, 4+length)
	copy(payload, hdr)
	if length > 0 && !t.readFull(payload[4:]) {
		return
	}
	t.stack.BtRecv(hcicore.NewRxBuffer(hcicore.PacketACL, payload))
}

func (t *Transport) readFull(buf []byte) bool {
	t.mu.Lock()
	port := t.port
	t.mu.Unlock()

	read := 0
	for read < len(buf) {
		n, err := port.Read(buf[read:])
		if err != nil {
			if !t.isClosed() {
				t.logger.Errorf("uart: read failed: %v", err)
			}
			return false
		}
		read += n
	}
	return true
}
