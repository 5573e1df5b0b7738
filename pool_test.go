package hcicore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferPoolAcquireRelease(t *testing.T) {
	p := newBufferPool(2, 32)

	b1, err := p.acquire("test", 1)
	require.NoError(t, err)
	require.Equal(t, 1, b1.Headroom())
	require.Equal(t, 0, b1.Len())

	b2, err := p.acquire("test", 0)
	require.NoError(t, err)

	_, err = p.acquire("test", 0)
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeNoBuffer))

	p.release(b1)
	b3, err := p.acquire("test", 0)
	require.NoError(t, err)
	require.Same(t, b1, b3)

	p.release(b2)
	p.release(b3)
}

func TestBufferPoolAcquireResetsState(t *testing.T) {
	p := newBufferPool(1, 32)

	b, err := p.acquire("test", 2)
	require.NoError(t, err)
	if _, err := b.Add(4); err != nil {
		t.Fatalf("Add: %v", err)
	}
	b.Type = PacketCommand
	b.Opcode = 0x1234
	b.sync = newSignal()
	p.release(b)

	b, err = p.acquire("test", 0)
	require.NoError(t, err)
	require.Equal(t, 0, b.Len())
	require.Equal(t, PacketUnknown, b.Type)
	require.Equal(t, uint16(0), b.Opcode)
	require.Nil(t, b.sync)
}
