package hcicore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterDriverRejectsNilAndDuplicate(t *testing.T) {
	stack := New(DefaultConfig())

	err := stack.RegisterDriver(nil)
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeInvalid))

	drv := NewStubTransport(stack)
	require.NoError(t, stack.RegisterDriver(drv))

	err = stack.RegisterDriver(NewStubTransport(stack))
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeAlreadyRegistered))
}

func TestUnregisterDriverRejectsMismatch(t *testing.T) {
	stack := New(DefaultConfig())
	drv := NewStubTransport(stack)
	require.NoError(t, stack.RegisterDriver(drv))

	other := NewStubTransport(stack)
	err := stack.UnregisterDriver(other)
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeInvalid))

	require.NoError(t, stack.UnregisterDriver(drv))

	err = stack.UnregisterDriver(drv)
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeInvalid))
}
