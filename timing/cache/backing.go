package cache

import (
	"github.com/sarchlab/pipesim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore. Words outside memory
// read as zero and writes to them are dropped; callers check the range
// before touching the cache.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// ReadBlock fetches n words starting at addr.
func (m *MemoryBacking) ReadBlock(addr uint64, n int) []int32 {
	data := make([]int32, n)
	for i := 0; i < n; i++ {
		a := addr + uint64(i)
		if a >= uint64(m.memory.Size()) {
			break
		}
		data[i], _ = m.memory.Read(int32(a))
	}
	return data
}

// WriteWord stores one word at addr.
func (m *MemoryBacking) WriteWord(addr uint64, value int32) {
	if addr >= uint64(m.memory.Size()) {
		return
	}
	_ = m.memory.Write(int32(addr), value)
}
