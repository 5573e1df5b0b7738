package hcicore

import "context"

// creditGate is the ncmd counting semaphore: it tracks how many HCI
// commands the controller is currently ready to accept. This core
// caps the controller-advertised ncmd at 1 regardless of what the
// controller offers, serializing command issuance so completion
// correlation never has to disambiguate between two outstanding
// commands.
type creditGate chan struct{}

// newCreditGate returns a gate with one credit available, matching the
// spec's initial ncmd of 1 (one RESET may be issued before any
// completion has been observed).
func newCreditGate() creditGate {
	g := make(creditGate, 1)
	g <- struct{}{}
	return g
}

// acquire blocks until a credit is available or ctx is canceled.
func (g creditGate) acquire(ctx context.Context) error {
	select {
	case <-g:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// give returns one credit. Callers must only give after verifying the
// gate doesn't already hold a credit (see refillCredit in
// correlator.go) — a redundant give is silently dropped rather than
// blocking or panicking, since the gate's capacity is exactly 1.
func (g creditGate) give() {
	select {
	case g <- struct{}{}:
	default:
	}
}
