package hcicore

import "sync"

// ControllerState is the populated capability/identity record consumed
// by upper layers after bring-up. It is written exclusively by the RX
// worker and the bring-up controller; all other readers see it only
// after bring-up completes.
type ControllerState struct {
	mu sync.RWMutex

	bdAddr [6]byte

	hciVersion  uint8
	hciRevision uint16
	manufacturer uint16

	features   [8]byte
	leFeatures [8]byte

	leMTU  uint16
	lePkts uint8
}

// BDAddr returns the local Bluetooth device address.
func (c *ControllerState) BDAddr() [6]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bdAddr
}

// HCIVersion returns the controller's HCI version, revision and
// manufacturer id, as reported by Read Local Version Information.
func (c *ControllerState) HCIVersion() (version uint8, revision uint16, manufacturer uint16) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hciVersion, c.hciRevision, c.manufacturer
}

// Features returns BR/EDR feature page 0.
func (c *ControllerState) Features() [8]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.features
}

// LEFeatures returns the LE feature page.
func (c *ControllerState) LEFeatures() [8]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.leFeatures
}

// LEBufferSize returns the negotiated LE ACL MTU and packet count.
func (c *ControllerState) LEBufferSize() (mtu uint16, pkts uint8) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.leMTU, c.lePkts
}

func (c *ControllerState) setBDAddr(addr [6]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bdAddr = addr
}

func (c *ControllerState) setVersion(version uint8, revision, manufacturer uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hciVersion = version
	c.hciRevision = revision
	c.manufacturer = manufacturer
}

func (c *ControllerState) setFeatures(features [8]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.features = features
}

func (c *ControllerState) setLEFeatures(features [8]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leFeatures = features
}

func (c *ControllerState) setLEBufferSizeIfUnset(mtu uint16, pkts uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.leMTU != 0 {
		return
	}
	c.leMTU = mtu
	c.lePkts = pkts
}

func (c *ControllerState) setLEBufferSize(mtu uint16, pkts uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leMTU = mtu
	c.lePkts = pkts
}
