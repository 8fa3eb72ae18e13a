// Package cache provides a data cache model using Akita cache components.
package cache

import (
	"errors"
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// ErrInvalidConfig is returned by Config.Validate for an unusable geometry.
var ErrInvalidConfig = errors.New("invalid cache config")

// Config holds cache configuration parameters. Sizes are counted in 32-bit
// words because main memory is word addressed.
type Config struct {
	// Size in words
	Size int `json:"size"`
	// Associativity (number of ways)
	Associativity int `json:"associativity"`
	// BlockSize in words (cache line size)
	BlockSize int `json:"block_size"`
	// HitLatency in cycles
	HitLatency uint64 `json:"hit_latency"`
	// MissLatency in cycles (includes memory access time)
	MissLatency uint64 `json:"miss_latency"`
}

// DefaultL1DConfig returns the default data cache configuration:
// 64 words, 2-way, 4-word lines. That is 8 sets over a 1024-word memory.
func DefaultL1DConfig() Config {
	return Config{
		Size:          64,
		Associativity: 2,
		BlockSize:     4,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// Validate checks that the geometry describes at least one set of
// non-empty blocks and that Size is a whole number of sets.
func (c Config) Validate() error {
	switch {
	case c.BlockSize <= 0:
		return fmt.Errorf("block_size must be > 0: %w", ErrInvalidConfig)
	case c.Associativity <= 0:
		return fmt.Errorf("associativity must be > 0: %w", ErrInvalidConfig)
	case c.Size < c.Associativity*c.BlockSize:
		return fmt.Errorf("size %d is below one set of %d words: %w",
			c.Size, c.Associativity*c.BlockSize, ErrInvalidConfig)
	case c.Size%(c.Associativity*c.BlockSize) != 0:
		return fmt.Errorf("size %d is not a multiple of the set size %d: %w",
			c.Size, c.Associativity*c.BlockSize, ErrInvalidConfig)
	case c.MissLatency < c.HitLatency:
		return fmt.Errorf("miss_latency must be >= hit_latency: %w", ErrInvalidConfig)
	}
	return nil
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access takes.
	Latency uint64
	// Data is the word read (for load operations).
	Data int32
	// Evicted is true if a valid block was replaced.
	Evicted bool
	// EvictedAddr is the address of the evicted block (if Evicted is true).
	EvictedAddr uint64
}

// Cache is a write-through, write-allocate data cache. Stores update the
// backing store immediately, so the backing store never holds stale data.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]int32

	stats Statistics

	backing BackingStore
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads     uint64
	Writes    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the fraction of accesses that hit.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// BackingStore is the next level in the memory hierarchy.
type BackingStore interface {
	// ReadBlock fetches n words starting at addr.
	ReadBlock(addr uint64, n int) []int32
	// WriteWord stores one word at addr.
	WriteWord(addr uint64, value int32)
}

// New creates a new cache with the given configuration. It panics if the
// configuration does not pass Validate.
func New(config Config, backing BackingStore) *Cache {
	if err := config.Validate(); err != nil {
		panic(err)
	}

	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]int32, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]int32, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint64) uint64 {
	return (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
}

// Read performs a cache read of the word at addr.
func (c *Cache) Read(addr uint64) AccessResult {
	c.stats.Reads++

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr % uint64(c.config.BlockSize)
		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
			Data:    c.dataStore[c.blockIndex(block)][offset],
		}
	}

	c.stats.Misses++
	return c.handleMiss(addr, false, 0)
}

// Write performs a cache write of value at addr. The word is always written
// through to the backing store.
func (c *Cache) Write(addr uint64, value int32) AccessResult {
	c.stats.Writes++

	if c.backing != nil {
		c.backing.WriteWord(addr, value)
	}

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr % uint64(c.config.BlockSize)
		c.dataStore[c.blockIndex(block)][offset] = value

		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
		}
	}

	c.stats.Misses++
	return c.handleMiss(addr, true, value)
}

// handleMiss fills a block from the backing store.
func (c *Cache) handleMiss(addr uint64, isWrite bool, value int32) AccessResult {
	result := AccessResult{
		Hit:     false,
		Latency: c.config.MissLatency,
	}

	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = victim.Tag
	}

	victimData := c.dataStore[c.blockIndex(victim)]
	if c.backing != nil {
		copy(victimData, c.backing.ReadBlock(blockAddr, c.config.BlockSize))
	} else {
		for i := range victimData {
			victimData[i] = 0
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false

	offset := addr % uint64(c.config.BlockSize)
	if isWrite {
		victimData[offset] = value
	} else {
		result.Data = victimData[offset]
	}

	c.directory.Visit(victim)

	return result
}

// Reset invalidates all cache lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
