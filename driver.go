package hcicore

// Driver is the transport-driver contract the core drives: byte I/O to
// the controller over UART/USB/SPI, implemented by a collaborator
// outside this module's scope.
type Driver interface {
	// Open initializes the link. Called once from Init, before bring-up.
	Open() error

	// Send transmits one Command or ACL packet. The driver prepends its
	// own framing using the reserved head-room and must not retain buf
	// past return.
	Send(buf *Buffer) error

	// HeadReserve is the number of head-room bytes every freshly
	// acquired buffer must leave at Data() for the driver's prefix.
	HeadReserve() int
}

// RegisterDriver binds drv as the single active transport driver.
// Returns ErrAlreadyRegistered if a driver is already bound, or
// ErrInvalid if drv is nil.
func (s *Stack) RegisterDriver(drv Driver) error {
	const op = "driver_register"
	if drv == nil {
		return WrapError(op, ErrCodeInvalid, nil)
	}

	s.driverMu.Lock()
	defer s.driverMu.Unlock()

	if s.driver != nil {
		return WrapError(op, ErrCodeAlreadyRegistered, nil)
	}
	s.driver = drv
	return nil
}

// UnregisterDriver clears the transport slot. Per the spec's Open
// Question, unregistering a driver that does not match the one
// currently registered is an explicit error rather than a silent
// no-op. Callers must ensure no traffic is in flight.
func (s *Stack) UnregisterDriver(drv Driver) error {
	const op = "driver_unregister"

	s.driverMu.Lock()
	defer s.driverMu.Unlock()

	if s.driver == nil || s.driver != drv {
		return WrapError(op, ErrCodeInvalid, nil)
	}
	s.driver = nil
	return nil
}

func (s *Stack) registeredDriver() Driver {
	s.driverMu.RLock()
	defer s.driverMu.RUnlock()
	return s.driver
}
