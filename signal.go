package hcicore

import "context"

// signal is a one-shot wake-up handle attached to a synchronously-sent
// command buffer. It is the Go restatement of the original nano_sem
// used by bt_hci_cmd_send_sync: closing it is the "exactly one
// wake-up" give, and every waiter (there is ever only one) unblocks
// when it observes the close.
type signal chan struct{}

func newSignal() signal {
	return make(signal)
}

// done wakes the waiter. Must be called at most once.
func (s signal) done() {
	close(s)
}

// wait blocks until done is called or ctx is canceled.
func (s signal) wait(ctx context.Context) error {
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
