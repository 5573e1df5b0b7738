package hcicore

import (
	"github.com/tjrong/hcicore/internal/logging"
)

// Config holds the static, compile-time-ish parameters of a Stack.
// NumBuffers and MaxPacketSize correspond to NUM_BUFS and
// BT_BUF_MAX_DATA in the spec: fixed-size, not tunable at runtime once
// a Stack is built.
type Config struct {
	// NumBuffers is the size of the static buffer pool.
	NumBuffers int

	// MaxPacketSize is the fixed capacity of each pooled buffer.
	MaxPacketSize int

	// Logger receives protocol-anomaly and debug diagnostics. If nil,
	// the package default logger is used.
	Logger *logging.Logger

	// CPUAffinity optionally pins the command and RX worker goroutines
	// to specific CPUs, one each, round-robin over this list. Nil means
	// no affinity is set and the scheduler is left free to place them.
	CPUAffinity []int
}

// DefaultConfig returns the spec's default sizing: 5 buffers of 256
// bytes each.
func DefaultConfig() Config {
	return Config{
		NumBuffers:    DefaultNumBuffers,
		MaxPacketSize: DefaultMaxPacketSize,
	}
}

func (c Config) logger() *logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Default()
}
