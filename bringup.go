package hcicore

import "context"

// buildEventMask assembles the 8-byte SET_EVENT_MASK parameter block.
// Byte 0 and byte 5 pick up extra bits when the controller's LE
// feature page reports encryption support.
func buildEventMask(leFeatures [8]byte) [8]byte {
	leEncryption := leFeatures[0]&leFeatureEncryption != 0

	var mask [8]byte
	mask[0] = 0x10
	if leEncryption {
		mask[0] |= 0x80
	}
	mask[1] = 0x08 | 0x20 | 0x40 | 0x80
	mask[2] = 0x04
	mask[3] = 0x02
	if leEncryption {
		mask[5] = 0x80
	}
	mask[7] = 0x20
	return mask
}

// commandWithParams builds a command buffer carrying an already
// encoded parameter block, for bring-up commands that take arguments
// (unlike newCommandBuffer, used for the zero-parameter commands).
func (s *Stack) commandWithParams(op string, opcode uint16, params []byte) (*Buffer, error) {
	drv := s.registeredDriver()
	if drv == nil {
		return nil, WrapError(op, ErrCodeNoDevice, nil)
	}

	buf, err := s.pool.acquire(op, drv.HeadReserve())
	if err != nil {
		return nil, err
	}

	hdr, err := buf.Add(cmdHeaderLen + len(params))
	if err != nil {
		s.pool.release(buf)
		return nil, WrapError(op, ErrCodeInvalid, err)
	}
	writeCommandHeader(hdr, opcode, uint8(len(params)))
	copy(hdr[cmdHeaderLen:], params)

	buf.Type = PacketCommand
	buf.Opcode = opcode
	return buf, nil
}

// bringUp runs the interrogation and negotiation sequence shared by
// Init and Reset: reset the controller, read its identity and
// capabilities, confirm it is LE-capable, negotiate the event mask and
// dual-mode buffer sharing. Commands that do not gate a later step are
// issued asynchronously; the sequence only blocks at the barriers
// needed to read back their results.
func (s *Stack) bringUp(ctx context.Context) error {
	const op = "bt_hci_reset"

	if err := s.CmdSend(opReset, nil); err != nil {
		return err
	}
	if err := s.CmdSend(opReadLocalFeatures, nil); err != nil {
		return err
	}
	if err := s.CmdSend(opReadLocalVersionInfo, nil); err != nil {
		return err
	}

	// Barrier: by the time this completes, RESET and the two preceding
	// reads have also completed, since the credit gate admits only one
	// outstanding command at a time and the queue is FIFO.
	if err := s.CmdSendSync(ctx, opReadBDAddr, nil); err != nil {
		return WrapError(op, ErrCodeNoDevice, err)
	}

	features := s.State.Features()
	noBREDR := features[4]&lmpFeatureNoBREDR != 0
	leCapable := features[4]&lmpFeatureLE != 0
	if !noBREDR && !leCapable {
		return WrapError(op, ErrCodeNoDevice, nil)
	}

	if err := s.CmdSend(opLEReadLocalFeatures, nil); err != nil {
		return err
	}
	// Barrier, for the same reason as the READ_BD_ADDR one above: by
	// the time this returns, LE_READ_LOCAL_FEATURES has also completed,
	// so le_features is populated before the event mask below is built
	// from it.
	if err := s.CmdSendSync(ctx, opLEReadBufferSize, nil); err != nil {
		return err
	}

	mask := buildEventMask(s.State.LEFeatures())
	maskBuf, err := s.commandWithParams(op, opSetEventMask, mask[:])
	if err != nil {
		return err
	}
	if err := s.CmdSendSync(ctx, opSetEventMask, maskBuf); err != nil {
		return err
	}

	if !noBREDR {
		leMTU, _ := s.State.LEBufferSize()
		if leMTU == 0 {
			if err := s.CmdSend(opReadBufferSize, nil); err != nil {
				return err
			}
		}

		hostSupportedBuf, err := s.commandWithParams(op, opWriteLEHostSupported, []byte{0x01, 0x00})
		if err != nil {
			return err
		}
		if err := s.CmdSendSync(ctx, opWriteLEHostSupported, hostSupportedBuf); err != nil {
			return err
		}
	}

	return nil
}
