package syscon

import "github.com/Davidslv/zigpod-sub003/zigpod/addr"

// Cache is a stub cache controller: every flush/invalidate completes
// instantly, so the firmware's `while (CACHE_CTL & BUSY) {}` polling loop
// always terminates on its first iteration (spec §4.12).
type Cache struct {
	ctl uint32
}

// NewCache returns a Cache with the busy bit already clear.
func NewCache() *Cache {
	return &Cache{}
}

// Read implements the bus Peripheral contract.
func (c *Cache) Read(offset uint32) uint32 {
	if offset == addr.CacheCtl {
		// BUSY is bit 15; always report clear regardless of prior writes.
		return c.ctl &^ (1 << addr.CacheBusyBit)
	}
	return 0
}

// Write implements the bus Peripheral contract. Flush/invalidate commands
// are accepted and ignored; operations are modelled as already complete.
func (c *Cache) Write(offset uint32, value uint32) {
	if offset == addr.CacheCtl {
		c.ctl = value
	}
}
