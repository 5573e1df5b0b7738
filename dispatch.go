package hcicore

import (
	"context"
	"runtime"
)

// newCommandBuffer acquires a buffer reserving the driver's head-room
// and writes a zero-parameter command header into it, the Go
// restatement of bt_hci_cmd_create.
func (s *Stack) newCommandBuffer(op string, opcode uint16) (*Buffer, error) {
	drv := s.registeredDriver()
	if drv == nil {
		return nil, WrapError(op, ErrCodeNoDevice, nil)
	}

	buf, err := s.pool.acquire(op, drv.HeadReserve())
	if err != nil {
		return nil, err
	}

	hdr, err := buf.Add(cmdHeaderLen)
	if err != nil {
		s.pool.release(buf)
		return nil, WrapError(op, ErrCodeInvalid, err)
	}
	writeCommandHeader(hdr, opcode, 0)

	buf.Type = PacketCommand
	buf.Opcode = opcode
	return buf, nil
}

// CmdSend enqueues opcode for asynchronous issuance to the controller
// and returns immediately. If buf is nil, a fresh zero-parameter
// command buffer is created; otherwise buf is assumed to already carry
// its encoded parameters and is only stamped with Type/Opcode.
func (s *Stack) CmdSend(opcode uint16, buf *Buffer) error {
	const op = "cmd_send"

	if buf == nil {
		created, err := s.newCommandBuffer(op, opcode)
		if err != nil {
			return err
		}
		buf = created
	} else {
		buf.Type = PacketCommand
		buf.Opcode = opcode
	}

	s.logger.Debugf("cmd_send opcode=%#04x len=%d", opcode, buf.Len())
	s.cmdQueue <- buf
	return nil
}

// CmdSendSync behaves like CmdSend, but attaches a one-shot signal to
// the buffer and blocks until the completion correlator has observed a
// matching Command Complete or Command Status for this opcode.
func (s *Stack) CmdSendSync(ctx context.Context, opcode uint16, buf *Buffer) error {
	const op = "cmd_send_sync"

	if buf == nil {
		created, err := s.newCommandBuffer(op, opcode)
		if err != nil {
			return err
		}
		buf = created
	} else {
		buf.Type = PacketCommand
		buf.Opcode = opcode
	}

	sig := newSignal()
	buf.sync = sig

	s.logger.Debugf("cmd_send_sync opcode=%#04x len=%d", opcode, buf.Len())
	s.cmdQueue <- buf

	return sig.wait(ctx)
}

// cmdWorker is the single command dispatch task: it waits for credit,
// pops the next queued command, hands it to the transport, and records
// it as the outstanding command. It is not released here — the
// completion correlator (in the RX worker) owns that.
func (s *Stack) cmdWorker() {
	defer s.workers.Done()
	s.pinWorkerCPU("cmd_worker", 0)
	defer runtime.UnlockOSThread()

	for {
		if err := s.credit.acquire(s.ctx); err != nil {
			return
		}

		var buf *Buffer
		select {
		case buf = <-s.cmdQueue:
		case <-s.ctx.Done():
			return
		}

		drv := s.registeredDriver()
		if drv == nil {
			// No driver to hand the buffer to; drop it back into the
			// pool rather than leaking it, and keep the credit consumed
			// until a completion would normally refill it. This should
			// not happen in practice: Init requires a driver before
			// starting the workers.
			s.pool.release(buf)
			continue
		}

		s.cmdMu.Lock()
		s.ncmd = 0
		s.cmdMu.Unlock()

		if err := drv.Send(buf); err != nil {
			// The controller never saw this command, so no completion
			// will ever arrive to release the buffer or refill credit.
			// Do both here instead of recording a phantom outstanding
			// command that would otherwise wedge the gate forever.
			s.logger.Errorf("transport send failed for opcode=%#04x: %v", buf.Opcode, err)
			s.pool.release(buf)
			s.refillCredit(1)
			continue
		}

		s.cmdMu.Lock()
		s.sentCmd = buf
		s.cmdMu.Unlock()
	}
}
