package hcicore

import (
	"context"
	"sync"

	"github.com/tjrong/hcicore/internal/logging"
)

// Stack is a single HCI core instance: one buffer pool, one pair of
// queues, one command-credit gate, one transport driver slot and one
// controller state record. Scoping all of this on a value (rather than
// a package-level global, as the original source did) is the spec's
// own Design Notes recommendation, and is what would let a caller run
// more than one in the same process should a future multi-controller
// need arise — today's callers still only ever build one.
type Stack struct {
	cfg    Config
	logger *logging.Logger

	pool     *bufferPool
	cmdQueue chan *Buffer
	rxQueue  chan *Buffer
	credit   creditGate

	driverMu sync.RWMutex
	driver   Driver

	// cmdMu serializes every touch of sentCmd/ncmd: the command worker
	// writes sentCmd after handing a buffer to the transport, and the
	// RX worker's completion correlator reads/clears it and refills
	// credit. See SPEC_FULL.md's concurrency re-grounding section.
	cmdMu   sync.Mutex
	sentCmd *Buffer
	ncmd    uint8

	State *ControllerState

	ctx     context.Context
	cancel  context.CancelFunc
	workers sync.WaitGroup
	started bool
}

// New builds a Stack with its static buffer pool, queues and credit
// gate allocated up front. No goroutines run and no driver I/O happens
// until Init is called.
func New(cfg Config) *Stack {
	if cfg.NumBuffers <= 0 {
		cfg.NumBuffers = DefaultNumBuffers
	}
	if cfg.MaxPacketSize <= 0 {
		cfg.MaxPacketSize = DefaultMaxPacketSize
	}

	return &Stack{
		cfg:      cfg,
		logger:   cfg.logger(),
		pool:     newBufferPool(cfg.NumBuffers, cfg.MaxPacketSize),
		cmdQueue: make(chan *Buffer, cfg.NumBuffers),
		rxQueue:  make(chan *Buffer, cfg.NumBuffers),
		credit:   newCreditGate(),
		State:    &ControllerState{},
	}
}

// Init requires a registered driver; it starts the command and RX
// workers (if not already running), opens the transport, and runs the
// bring-up sequence. It returns the driver's open error or the
// bring-up error, if either occurs.
func (s *Stack) Init(ctx context.Context) error {
	const op = "bt_init"

	drv := s.registeredDriver()
	if drv == nil {
		return WrapError(op, ErrCodeNoDevice, nil)
	}

	if !s.started {
		s.ctx, s.cancel = context.WithCancel(ctx)
		s.workers.Add(2)
		go s.cmdWorker()
		go s.rxWorker()
		s.started = true
	}

	if err := drv.Open(); err != nil {
		return WrapError(op, ErrCodeNoDevice, err)
	}

	return s.bringUp(ctx)
}

// Reset re-runs the bring-up sequence (RESET, interrogation, event
// mask, dual-mode negotiation) without restarting the workers or
// reopening the transport. This is bt_hci_reset.
func (s *Stack) Reset(ctx context.Context) error {
	return s.bringUp(ctx)
}

// BtRecv is the single ingress point from the transport. It returns at
// once while the RX queue (capacity NumBuffers) has room; when the
// queue is full it blocks until the RX worker takes a buffer from it.
// The driver must set buf.Type and the payload before calling, and
// must not touch buf afterward.
func (s *Stack) BtRecv(buf *Buffer) {
	s.rxQueue <- buf
}

// Close stops the worker goroutines. It does not release or touch any
// in-flight buffers; callers should ensure no traffic is in flight
// first, matching the driver_unregister contract.
func (s *Stack) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.workers.Wait()
}
