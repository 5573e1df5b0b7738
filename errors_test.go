package hcicore

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewErrorMapsErrno(t *testing.T) {
	err := NewError("cmd_send", ErrCodeNoBuffer)
	require.Equal(t, syscall.ENOBUFS, err.Errno)
	require.Equal(t, "hcicore: cmd_send: no free buffer", err.Error())
}

func TestWrapErrorPreservesInner(t *testing.T) {
	inner := errors.New("short read")
	err := WrapError("buf_add", ErrCodeInvalid, inner)

	require.ErrorIs(t, err, inner)
	require.Equal(t, inner, err.Unwrap())
}

func TestIsCode(t *testing.T) {
	err := WrapError("driver_register", ErrCodeAlreadyRegistered, nil)
	require.True(t, IsCode(err, ErrCodeAlreadyRegistered))
	require.False(t, IsCode(err, ErrCodeInvalid))
	require.False(t, IsCode(errors.New("plain"), ErrCodeInvalid))
}

func TestErrorIsComparesByCode(t *testing.T) {
	a := NewError("op1", ErrCodeNoDevice)
	b := NewError("op2", ErrCodeNoDevice)
	require.True(t, errors.Is(a, b))
	require.True(t, errors.Is(a, ErrNoDevice))
	require.False(t, errors.Is(a, ErrInvalid))
}
