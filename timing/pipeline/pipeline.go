package pipeline

import (
	"fmt"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
	"github.com/sarchlab/pipesim/timing/cache"
	"github.com/sarchlab/pipesim/timing/latency"
)

// Statistics holds pipeline statistics.
type Statistics struct {
	// Steps is the number of instruction words fed into the pipeline.
	Steps uint64
	// Cycles is the modeled cycle count. Without a latency table or data
	// cache every step takes one cycle.
	Cycles uint64
	// Instructions is the number of decoded loads, stores and ALU ops.
	Instructions uint64
	// NoOps is the number of decoded all-zero words.
	NoOps uint64
	// ALUOps is the number of decoded register-format instructions.
	ALUOps uint64
	// Loads is the number of decoded loads.
	Loads uint64
	// Stores is the number of decoded stores.
	Stores uint64
	// UnknownOpcodes is the number of words decoded with no control entry.
	UnknownOpcodes uint64
	// UnknownFunctions is the number of register-format instructions whose
	// function the ALU does not implement.
	UnknownFunctions uint64
	// ExecStalls is the number of extra cycles spent in execute.
	ExecStalls uint64
	// MemStalls is the number of extra cycles spent in memory access.
	MemStalls uint64
	// DCacheHits is the number of memory accesses that hit the data cache.
	DCacheHits uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLatencyTable sets a latency table for cycle accounting.
func WithLatencyTable(table *latency.Table) PipelineOption {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// WithDCache enables an L1 data cache with the given configuration. The
// option panics if config does not pass cache.Config.Validate.
func WithDCache(config cache.Config) PipelineOption {
	return func(p *Pipeline) {
		backing := cache.NewMemoryBacking(p.memory)
		dcache := cache.New(config, backing)
		p.cachedMemoryStage = NewCachedMemoryStage(dcache, p.memory)
		p.useDCache = true
	}
}

// Snapshot is a value copy of every latch, both sides, and the register
// file, taken after write-back and before the clock edge.
type Snapshot struct {
	// Step is the 1-based number of the step the snapshot was taken in.
	Step uint64
	// Word is the instruction word fetched in this step.
	Word uint32

	IFID  Latch[IFIDRegister]
	IDEX  Latch[IDEXRegister]
	EXMEM Latch[EXMEMRegister]
	MEMWB Latch[MEMWBRegister]

	Regs [emu.NumRegs]int32
}

// Pipeline implements the 5-stage data path.
// Stages: Fetch (IF) -> Decode (ID) -> Execute (EX) -> Memory (MEM) -> Writeback (WB)
//
// One word is supplied per step. Every stage reads the read side of its
// input latch and writes the write side of its output latch, so a stage
// always sees what its upstream neighbour produced one step earlier.
type Pipeline struct {
	// Pipeline registers
	ifid  Latch[IFIDRegister]
	idex  Latch[IDEXRegister]
	exmem Latch[EXMEMRegister]
	memwb Latch[MEMWBRegister]

	// Pipeline stages
	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage

	// Cached memory stage (optional)
	cachedMemoryStage *CachedMemoryStage
	useDCache         bool

	// Instruction timing
	latencyTable *latency.Table

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory

	lastWord uint32

	stats Statistics
}

// NewPipeline creates a new 5-stage pipeline over the given register file
// and memory.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fetchStage:     NewFetchStage(),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(memory),
		writebackStage: NewWritebackStage(regFile),
		regFile:        regFile,
		memory:         memory,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// IFID returns the IF/ID latch pair.
func (p *Pipeline) IFID() *Latch[IFIDRegister] {
	return &p.ifid
}

// IDEX returns the ID/EX latch pair.
func (p *Pipeline) IDEX() *Latch[IDEXRegister] {
	return &p.idex
}

// EXMEM returns the EX/MEM latch pair.
func (p *Pipeline) EXMEM() *Latch[EXMEMRegister] {
	return &p.exmem
}

// MEMWB returns the MEM/WB latch pair.
func (p *Pipeline) MEMWB() *Latch[MEMWBRegister] {
	return &p.memwb
}

// RegFile returns the register file.
func (p *Pipeline) RegFile() *emu.RegFile {
	return p.regFile
}

// Memory returns main memory.
func (p *Pipeline) Memory() *emu.Memory {
	return p.memory
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Step runs the five stages once for word. The snapshot of this step can be
// taken with Snapshot afterwards, and Advance must be called before the
// next Step. If memory access fails, write-back does not run and the error
// is returned.
func (p *Pipeline) Step(word uint32) error {
	p.stats.Steps++
	p.lastWord = word

	p.fetchStage.Fetch(word, &p.ifid.Write)

	class := p.decodeStage.Decode(&p.ifid.Read, &p.idex.Write)
	p.countDecoded(class)

	exClass := classOf(&p.idex.Read)
	if !p.executeStage.Execute(&p.idex.Read, &p.exmem.Write) {
		p.stats.UnknownFunctions++
	}
	// Memory-format latency is charged in the memory stage.
	if p.latencyTable != nil && !p.latencyTable.IsMemoryOp(exClass) {
		p.stats.ExecStalls += p.latencyTable.GetLatency(exClass) - 1
	}

	result, err := p.memoryUnit().Access(&p.exmem.Read, &p.memwb.Write)
	if err != nil {
		return fmt.Errorf("step %d: memory stage: %w", p.stats.Steps, err)
	}
	p.countMemory(result)

	p.writebackStage.Writeback(&p.memwb.Read)

	p.stats.Cycles = p.stats.Steps + p.stats.ExecStalls + p.stats.MemStalls

	return nil
}

// Snapshot returns a copy of every latch and the register file.
func (p *Pipeline) Snapshot() Snapshot {
	return Snapshot{
		Step:  p.stats.Steps,
		Word:  p.lastWord,
		IFID:  p.ifid,
		IDEX:  p.idex,
		EXMEM: p.exmem,
		MEMWB: p.memwb,
		Regs:  p.regFile.Values(),
	}
}

// Advance copies the write side of every latch into its read side. It
// models the clock edge at the end of a step.
func (p *Pipeline) Advance() {
	p.ifid.Advance()
	p.idex.Advance()
	p.exmem.Advance()
	p.memwb.Advance()
}

// Tick runs one full step for word: the five stages, the snapshot and the
// clock edge. On error the latches are not advanced.
func (p *Pipeline) Tick(word uint32) (Snapshot, error) {
	if err := p.Step(word); err != nil {
		return Snapshot{}, err
	}

	snap := p.Snapshot()
	p.Advance()

	return snap, nil
}

// Reset clears all latches and statistics. The register file and memory
// are owned by the caller and are left alone.
func (p *Pipeline) Reset() {
	p.ifid.Write.Clear()
	p.ifid.Read.Clear()
	p.idex.Write.Clear()
	p.idex.Read.Clear()
	p.exmem.Write.Clear()
	p.exmem.Read.Clear()
	p.memwb.Write.Clear()
	p.memwb.Read.Clear()
	p.lastWord = 0
	p.stats = Statistics{}

	if p.cachedMemoryStage != nil {
		p.cachedMemoryStage.Reset()
	}
}

// LatencyTable returns the latency table, or nil if none is set.
func (p *Pipeline) LatencyTable() *latency.Table {
	return p.latencyTable
}

// UseDCache returns true if the data cache is enabled.
func (p *Pipeline) UseDCache() bool {
	return p.useDCache
}

// DCacheStats returns data cache statistics (zero if the cache is disabled).
func (p *Pipeline) DCacheStats() cache.Statistics {
	if p.cachedMemoryStage == nil {
		return cache.Statistics{}
	}
	return p.cachedMemoryStage.CacheStats()
}

func (p *Pipeline) memoryUnit() MemoryUnit {
	if p.useDCache {
		return p.cachedMemoryStage
	}
	return p.memoryStage
}

func (p *Pipeline) countDecoded(class insts.Class) {
	switch class {
	case insts.ClassNoOp:
		p.stats.NoOps++
	case insts.ClassRFormat:
		p.stats.ALUOps++
		p.stats.Instructions++
	case insts.ClassLoad:
		p.stats.Loads++
		p.stats.Instructions++
	case insts.ClassStore:
		p.stats.Stores++
		p.stats.Instructions++
	default:
		p.stats.UnknownOpcodes++
	}
}

func (p *Pipeline) countMemory(result MemoryResult) {
	if !result.Accessed {
		return
	}

	if result.Hit {
		p.stats.DCacheHits++
	}

	switch {
	case result.Latency > 0:
		p.stats.MemStalls += result.Latency - 1
	case p.latencyTable != nil:
		class := insts.ClassStore
		if p.exmem.Read.MemRead {
			class = insts.ClassLoad
		}
		p.stats.MemStalls += p.latencyTable.GetLatency(class) - 1
	}
}
