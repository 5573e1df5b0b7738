package hcicore

// handleCmdComplete parses the Command Complete prologue (ncmd, opcode)
// and hands the remaining return parameters to the matching response
// parser before releasing both the event buffer and the outstanding
// command buffer.
func (s *Stack) handleCmdComplete(buf *Buffer) {
	prologue, err := buf.Pull(cmdCompletePrologueLen)
	if err != nil {
		s.logger.Errorf("rx: truncated command complete: %v", err)
		s.pool.release(buf)
		return
	}
	cc := parseCmdCompletePrologue(prologue)

	sent := s.takeMatchingCommand(cc.opcode)
	if sent == nil {
		// No matching outstanding command: log and stop here. Crucially,
		// do not refill credit or touch ncmd — an opcode mismatch means
		// this event cannot be trusted to describe the command this
		// core actually has in flight.
		s.logger.Warnf("rx: command complete for opcode=%#04x with no outstanding command", cc.opcode)
		s.pool.release(buf)
		return
	}

	if parser, ok := responseParsers[cc.opcode]; ok {
		parser(s.State, buf.Data())
	}
	s.completeCommand(sent)

	s.refillCredit(cc.ncmd)
	s.pool.release(buf)
}

// handleCmdStatus parses a Command Status event. It carries no return
// parameters of its own, so there is nothing to hand to a response
// parser; a matching Command Status completes the outstanding command
// (waking its synchronous waiter and releasing its buffer) and refills
// credit exactly as a Command Complete does. A non-zero status is
// logged as a failure of that command.
func (s *Stack) handleCmdStatus(buf *Buffer) {
	data, err := buf.Pull(cmdStatusLen)
	if err != nil {
		s.logger.Errorf("rx: truncated command status: %v", err)
		s.pool.release(buf)
		return
	}
	cs := parseCmdStatus(data)

	if !s.sentCmdOpcodeMatches(cs.opcode) {
		s.logger.Warnf("rx: command status for opcode=%#04x with no outstanding command", cs.opcode)
		s.pool.release(buf)
		return
	}

	if cs.status != 0 {
		s.logger.Warnf("rx: command status opcode=%#04x status=%#02x", cs.opcode, cs.status)
	}
	if sent := s.takeMatchingCommand(cs.opcode); sent != nil {
		s.completeCommand(sent)
	}
	s.refillCredit(cs.ncmd)

	s.pool.release(buf)
}

// takeMatchingCommand atomically clears and returns sentCmd if its
// opcode matches, or nil otherwise. This is the correlation step the
// concurrency re-grounding section in SPEC_FULL.md describes: it is
// always called from the RX worker, but sentCmd is also written by the
// command worker, so cmdMu guards every touch.
func (s *Stack) takeMatchingCommand(opcode uint16) *Buffer {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	sent := s.sentCmd
	if sent == nil || sent.Opcode != opcode {
		return nil
	}
	s.sentCmd = nil
	return sent
}

// sentCmdOpcodeMatches reports whether sentCmd is set and its opcode
// matches, without clearing it.
func (s *Stack) sentCmdOpcodeMatches(opcode uint16) bool {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.sentCmd != nil && s.sentCmd.Opcode == opcode
}

// completeCommand wakes a synchronous waiter, if any, and releases the
// command buffer back to the pool.
func (s *Stack) completeCommand(sent *Buffer) {
	if sent.sync != nil {
		sent.sync.done()
	}
	s.pool.release(sent)
}

// refillCredit adopts the controller-reported ncmd, capped at this
// core's single-outstanding-command policy: an ncmd > 0 while no credit
// is held (s.ncmd == 0) records ncmd as 1 and gives back exactly the
// one credit the gate can hold.
func (s *Stack) refillCredit(ncmd uint8) {
	s.cmdMu.Lock()
	give := ncmd > 0 && s.ncmd == 0
	if give {
		s.ncmd = 1
	}
	s.cmdMu.Unlock()

	if give {
		s.credit.give()
	}
}
