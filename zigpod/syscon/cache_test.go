package syscon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
)

func TestCacheBusyBitAlwaysClear(t *testing.T) {
	c := NewCache()
	c.Write(addr.CacheCtl, 1<<addr.CacheBusyBit)
	assert.Equal(t, uint32(0), c.Read(addr.CacheCtl)&(1<<addr.CacheBusyBit))
}

func TestCacheUnknownOffsetReadsZero(t *testing.T) {
	c := NewCache()
	assert.Equal(t, uint32(0), c.Read(0xFF))
}
