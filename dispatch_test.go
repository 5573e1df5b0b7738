package hcicore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errTestSendFailure = errors.New("simulated transport send failure")

func TestCmdSendWithoutDriverReturnsNoDevice(t *testing.T) {
	stack := New(DefaultConfig())
	err := stack.CmdSend(opReset, nil)
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeNoDevice))
}

func TestCmdSendSyncCompletesOnMatchingEvent(t *testing.T) {
	stack := New(DefaultConfig())
	transport := NewStubTransport(stack)
	transport.Script(opReadBDAddr, StubResponse{NCmd: 1, Params: []byte{1, 2, 3, 4, 5, 6}})

	require.NoError(t, stack.RegisterDriver(transport))

	stack.ctx, stack.cancel = context.WithCancel(context.Background())
	stack.workers.Add(2)
	go stack.cmdWorker()
	go stack.rxWorker()
	defer stack.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, stack.CmdSendSync(ctx, opReadBDAddr, nil))
	require.Equal(t, [6]byte{1, 2, 3, 4, 5, 6}, stack.State.BDAddr())
}

func TestCmdSendSyncTimesOutWithoutResponse(t *testing.T) {
	stack := New(DefaultConfig())
	transport := NewStubTransport(stack)
	// opReset is deliberately left unscripted: Send succeeds but no
	// event is ever delivered back.

	require.NoError(t, stack.RegisterDriver(transport))

	stack.ctx, stack.cancel = context.WithCancel(context.Background())
	stack.workers.Add(2)
	go stack.cmdWorker()
	go stack.rxWorker()
	defer stack.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := stack.CmdSendSync(ctx, opReset, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCmdSendRecoversCreditAfterTransportSendFailure(t *testing.T) {
	stack := New(DefaultConfig())
	transport := NewStubTransport(stack)
	transport.FailSend(errTestSendFailure)

	require.NoError(t, stack.RegisterDriver(transport))

	stack.ctx, stack.cancel = context.WithCancel(context.Background())
	stack.workers.Add(2)
	go stack.cmdWorker()
	go stack.rxWorker()
	defer stack.Close()

	require.NoError(t, stack.CmdSend(opReset, nil))
	// The idle command worker takes any refilled credit itself, so the
	// recovered credit shows as the second command reaching Send.
	require.NoError(t, stack.CmdSend(opReadBDAddr, nil))

	require.Eventually(t, func() bool {
		return len(transport.SentOpcodes()) == 2
	}, time.Second, 20*time.Millisecond, "a failed transport send must not permanently consume the command credit")
}

func TestCmdSendPoolExhaustion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBuffers = 1
	stack := New(cfg)
	transport := NewStubTransport(stack)
	require.NoError(t, stack.RegisterDriver(transport))

	// Hold the only buffer so the next acquire fails.
	held, err := stack.pool.acquire("test", 0)
	require.NoError(t, err)
	defer stack.pool.release(held)

	err = stack.CmdSend(opReset, nil)
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeNoBuffer))
}
