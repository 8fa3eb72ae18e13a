package pipeline

import (
	"fmt"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/timing/cache"
)

// CachedMemoryStage performs memory access through an L1 data cache.
// The cache writes through, so main memory contents are identical to the
// uncached stage; the cache only adds hit/miss latency.
type CachedMemoryStage struct {
	cache  *cache.Cache
	memory *emu.Memory
}

// NewCachedMemoryStage creates a memory stage backed by dcache.
func NewCachedMemoryStage(dcache *cache.Cache, memory *emu.Memory) *CachedMemoryStage {
	return &CachedMemoryStage{
		cache:  dcache,
		memory: memory,
	}
}

// Access reads the EX/MEM read side, performs the load or store through
// the cache and fills the MEM/WB write side.
func (s *CachedMemoryStage) Access(in *EXMEMRegister, out *MEMWBRegister) (MemoryResult, error) {
	passThrough(in, out)

	result := MemoryResult{}

	if !in.MemRead && !in.MemWrite {
		return result, nil
	}

	addr := in.ALUResult
	if !s.memory.Contains(addr) {
		op := "read"
		if !in.MemRead {
			op = "write"
		}
		return result, fmt.Errorf("%s at %d (size %d): %w",
			op, addr, s.memory.Size(), emu.ErrAddressOutOfRange)
	}

	var access cache.AccessResult
	if in.MemRead {
		access = s.cache.Read(uint64(addr))
		out.LoadValue = access.Data
	} else {
		access = s.cache.Write(uint64(addr), in.StoreValue)
		out.LoadValue = 0
	}

	result.Accessed = true
	result.Hit = access.Hit
	result.Latency = access.Latency

	return result, nil
}

// Reset invalidates the cache.
func (s *CachedMemoryStage) Reset() {
	s.cache.Reset()
}

// CacheStats returns the underlying cache statistics.
func (s *CachedMemoryStage) CacheStats() cache.Statistics {
	return s.cache.Stats()
}
