// Package core provides the instruction-at-a-time simulation driver.
// It wraps the pipeline to feed a word sequence and hand out snapshots.
package core

import (
	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

// DrainDepth is the number of no-op words needed after the last real word
// for it to reach write-back.
const DrainDepth = 4

// Stats holds performance statistics for the core.
type Stats struct {
	// Steps is the number of words fed into the pipeline.
	Steps uint64
	// Cycles is the modeled cycle count.
	Cycles uint64
	// Instructions is the number of decoded loads, stores and ALU ops.
	Instructions uint64
	// Unrecognized is the number of unknown opcodes and functions seen.
	Unrecognized uint64
	// MemStalls is the number of extra cycles spent in memory access.
	MemStalls uint64
}

// CPI returns the cycles per instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Observer receives the snapshot taken after every step.
type Observer interface {
	Observe(snap pipeline.Snapshot) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(snap pipeline.Snapshot) error

// Observe calls f(snap).
func (f ObserverFunc) Observe(snap pipeline.Snapshot) error {
	return f(snap)
}

// Core drives the 5-stage pipeline one instruction word per step.
type Core struct {
	// Pipeline is the underlying 5-stage pipeline.
	Pipeline *pipeline.Pipeline

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory
}

// NewCore creates a new Core with the given register file and memory.
func NewCore(regFile *emu.RegFile, memory *emu.Memory, opts ...pipeline.PipelineOption) *Core {
	return &Core{
		Pipeline: pipeline.NewPipeline(regFile, memory, opts...),
		regFile:  regFile,
		memory:   memory,
	}
}

// Tick feeds one word through the pipeline.
func (c *Core) Tick(word uint32) (pipeline.Snapshot, error) {
	return c.Pipeline.Tick(word)
}

// Run feeds every word in order and passes each snapshot to obs, which may
// be nil. It stops at the first error from the pipeline or the observer.
func (c *Core) Run(words []uint32, obs Observer) error {
	for _, w := range words {
		snap, err := c.Tick(w)
		if err != nil {
			return err
		}

		if obs == nil {
			continue
		}
		if err := obs.Observe(snap); err != nil {
			return err
		}
	}

	return nil
}

// Drain feeds n no-op words, so that with n = DrainDepth every word already
// supplied completes write-back.
func (c *Core) Drain(n int, obs Observer) error {
	return c.Run(make([]uint32, n), obs)
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Steps:        pipeStats.Steps,
		Cycles:       pipeStats.Cycles,
		Instructions: pipeStats.Instructions,
		Unrecognized: pipeStats.UnknownOpcodes + pipeStats.UnknownFunctions,
		MemStalls:    pipeStats.MemStalls,
	}
}

// RegFile returns the register file.
func (c *Core) RegFile() *emu.RegFile {
	return c.regFile
}

// Memory returns main memory.
func (c *Core) Memory() *emu.Memory {
	return c.memory
}

// Reset restores the register file and memory to their startup state and
// clears the pipeline.
func (c *Core) Reset() {
	c.regFile.Reset()
	c.memory.Reset()
	c.Pipeline.Reset()
}
