package hcicore

import "runtime"

// rxWorker is the single RX dispatch task: every buffer the transport
// hands to BtRecv is drained here and routed by packet type. A buffer
// of a type this core doesn't know how to route is a fatal driver bug
// — the transport handed BtRecv something it was never told to
// produce — so the buffer is released and the worker loop terminates
// rather than continuing to process a queue it can no longer trust.
func (s *Stack) rxWorker() {
	defer s.workers.Done()
	s.pinWorkerCPU("rx_worker", 1)
	defer runtime.UnlockOSThread()

	for {
		var buf *Buffer
		select {
		case buf = <-s.rxQueue:
		case <-s.ctx.Done():
			return
		}

		switch buf.Type {
		case PacketEvent:
			s.handleEvent(buf)
		case PacketACL:
			s.handleACL(buf)
		default:
			s.logger.Errorf("rx: unknown buffer type %s, terminating rx worker", buf.Type)
			s.pool.release(buf)
			return
		}
	}
}

func (s *Stack) handleEvent(buf *Buffer) {
	hdr, err := buf.Pull(evtHeaderLen)
	if err != nil {
		s.logger.Errorf("rx: truncated event header: %v", err)
		s.pool.release(buf)
		return
	}
	evt := parseEventHeader(hdr)

	switch evt.evt {
	case evtCmdComplete:
		s.handleCmdComplete(buf)
	case evtCmdStatus:
		s.handleCmdStatus(buf)
	default:
		s.logger.Debugf("rx: unhandled event code=%#02x", evt.evt)
		s.pool.release(buf)
	}
}

// handleACL validates framing on an inbound ACL packet. This core does
// not hand ACL data to an upper layer (out of scope, per spec.md's
// Non-goals); the buffer is released once the header has been checked.
func (s *Stack) handleACL(buf *Buffer) {
	hdr, err := buf.Pull(aclHeaderLen)
	if err != nil {
		s.logger.Errorf("rx: truncated ACL header: %v", err)
		s.pool.release(buf)
		return
	}
	acl := parseACLHeader(hdr)
	if int(acl.length) != buf.Len() {
		s.logger.Warnf("rx: ACL length mismatch: header=%d actual=%d", acl.length, buf.Len())
	}
	s.pool.release(buf)
}
