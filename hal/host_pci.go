//go:build !tinygo

package hal

import "sync"

// hostConfigSpace is an in-memory PCI configuration space. Reads of absent
// registers float high like a real bus; writes stick, so MSI programming is
// observable.
type hostConfigSpace struct {
	mu   sync.Mutex
	addr uint32
	regs map[uint32]uint32
}

func newHostConfigSpace(regs map[uint32]uint32) *hostConfigSpace {
	return &hostConfigSpace{regs: regs}
}

func (c *hostConfigSpace) WriteAddress(addr uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addr = addr
}

func (c *hostConfigSpace) ReadData() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.regs[c.addr]
	if !ok {
		return 0xffffffff
	}
	return v
}

func (c *hostConfigSpace) WriteData(v uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[c.addr] = v
}

func confAddr(bus, device, function, reg uint8) uint32 {
	return 1<<31 | uint32(bus)<<16 | uint32(device)<<11 | uint32(function)<<8 | uint32(reg&0xfc)
}

// defaultTopology is the stock machine: a host bridge, an xHCI controller
// with an MSI capability, and a PCI-PCI bridge leading to a NIC on bus 1.
func defaultTopology() map[uint32]uint32 {
	regs := make(map[uint32]uint32)
	put := func(bus, device, function, reg uint8, v uint32) {
		regs[confAddr(bus, device, function, reg)] = v
	}

	// 00:00.0 host bridge.
	put(0, 0, 0, 0x00, 0x1237<<16|0x8086)
	put(0, 0, 0, 0x08, 0x06<<24)
	put(0, 0, 0, 0x0c, 0x00<<16)

	// 00:01.0 xHCI controller, MSI capability at 0x50 (64-bit capable,
	// up to 4 vectors).
	put(0, 1, 0, 0x00, 0x31a8<<16|0x8086)
	put(0, 1, 0, 0x08, 0x0c<<24|0x03<<16|0x30<<8)
	put(0, 1, 0, 0x0c, 0x00<<16)
	put(0, 1, 0, 0x10, 0xfebf0004) // BAR0 low, 64-bit memory BAR
	put(0, 1, 0, 0x14, 0x00000000) // BAR0 high
	put(0, 1, 0, 0x34, 0x50)
	put(0, 1, 0, 0x50, 1<<23|2<<17|0x05)
	put(0, 1, 0, 0x54, 0)
	put(0, 1, 0, 0x58, 0)
	put(0, 1, 0, 0x5c, 0)

	// 00:02.0 PCI-PCI bridge, secondary bus 1.
	put(0, 2, 0, 0x00, 0x0001<<16|0x8086)
	put(0, 2, 0, 0x08, 0x06<<24|0x04<<16)
	put(0, 2, 0, 0x0c, 0x01<<16)
	put(0, 2, 0, 0x18, 1<<16|1<<8)

	// 01:00.0 virtio network device.
	put(1, 0, 0, 0x00, 0x1000<<16|0x1af4)
	put(1, 0, 0, 0x08, 0x02<<24)
	put(1, 0, 0, 0x0c, 0x00<<16)
	put(1, 0, 0, 0x10, 0x0000c001) // BAR0, I/O space

	return regs
}
