package hcicore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreditGateStartsWithOneCredit(t *testing.T) {
	g := newCreditGate()

	ctx := context.Background()
	require.NoError(t, g.acquire(ctx))

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, g.acquire(ctx2))
}

func TestCreditGateGiveIsIdempotentAtCapacity(t *testing.T) {
	g := newCreditGate()
	g.give()
	g.give()

	require.NoError(t, g.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, g.acquire(ctx))
}

func TestSignalWaitUnblocksOnDone(t *testing.T) {
	s := newSignal()
	go s.done()

	require.NoError(t, s.wait(context.Background()))
}

func TestSignalWaitRespectsContextCancellation(t *testing.T) {
	s := newSignal()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.wait(ctx))
}
