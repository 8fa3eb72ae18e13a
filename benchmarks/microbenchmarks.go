package benchmarks

import (
	"math"

	"github.com/sarchlab/pipesim/emu"
)

// producerGap is the number of words that must separate an instruction
// from the first one that reads its result. There is no forwarding, so the
// reader has to decode after the producer has written back.
const producerGap = 3

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each benchmark targets one part of the data path.
//
// There is no hazard detection, so every program pads dependent
// instructions with no-ops itself.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		arithmeticWraparound(),
		memorySequential(),
		memoryReuse(),
		mixedOperations(),
	}
}

// GetCoreBenchmarks returns a minimal set of benchmarks for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		memorySequential(),
		mixedOperations(),
	}
}

// 1. Arithmetic Sequential - Tests ALU throughput with independent operations
func arithmeticSequential() Benchmark {
	var parts [][]uint32
	for i := uint8(0); i < 8; i++ {
		parts = append(parts, EncodeADD(20+i, 2*i+1, 2*i+2))
	}

	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "8 independent adds - one instruction per step, no padding",
		Program:     BuildProgram(parts...),
		ResultReg:   27,
		Expected:    0x10F + 0x110,
	}
}

// 2. Dependency Chain - Tests the cost of padding a RAW chain
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "10 dependent adds ($3 = $3 + $1) - each padded to clear write-back",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.WriteReg(1, 1) // $1 = 1 (increment)
			regFile.WriteReg(3, 0) // $3 = 0 (start value)
		},
		Program:   buildDependencyChain(10),
		ResultReg: 3,
		Expected:  10,
	}
}

func buildDependencyChain(n int) []uint32 {
	parts := make([][]uint32, 0, 2*n)
	for i := 0; i < n; i++ {
		parts = append(parts, EncodeADD(3, 3, 1), Nops(producerGap))
	}
	return BuildProgram(parts...)
}

// 3. Arithmetic Wraparound - Tests two's complement overflow
func arithmeticWraparound() Benchmark {
	return Benchmark{
		Name:        "arithmetic_wraparound",
		Description: "add past the largest positive value wraps to the most negative",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.WriteReg(1, math.MaxInt32)
			regFile.WriteReg(2, 1)
		},
		Program:   BuildProgram(EncodeADD(3, 1, 2)),
		ResultReg: 3,
		Expected:  math.MinInt32,
	}
}

// 4. Memory Sequential - Tests store/load pairs
func memorySequential() Benchmark {
	var parts [][]uint32
	for i := int16(0); i < 10; i++ {
		// A load right after a store to the same word sees the stored value
		// because the store reaches memory one step earlier.
		parts = append(parts, EncodeSB(2, i, 1), EncodeLB(3, i, 1))
	}

	return Benchmark{
		Name:        "memory_sequential",
		Description: "10 store/load pairs to sequential addresses - measures memory latency",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.WriteReg(1, 0x40) // $1 = base address
			regFile.WriteReg(2, 42)   // $2 = value to store
		},
		Program:   BuildProgram(parts...),
		ResultReg: 3,
		Expected:  42,
	}
}

// 5. Memory Reuse - Tests data cache hits on one block
func memoryReuse() Benchmark {
	var parts [][]uint32
	for i := 0; i < 16; i++ {
		offset := int16(i % 4)
		parts = append(parts, EncodeLB(4+uint8(offset), offset, 0))
	}

	return Benchmark{
		Name:        "memory_reuse",
		Description: "16 loads from the first 4 words - one cold miss, the rest hit",
		Program:     BuildProgram(parts...),
		ResultReg:   7,
		Expected:    3,
	}
}

// 6. Mixed Operations - Combination of loads, ALU and a store
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "load two words, add them, store and reload the sum",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.WriteReg(1, 0x80) // $1 = buffer address
		},
		Program: BuildProgram(
			EncodeLB(2, 0, 1), // $2 = mem[0x80]
			EncodeLB(3, 1, 1), // $3 = mem[0x81]
			Nops(producerGap),
			EncodeADD(4, 2, 3), // $4 = $2 + $3
			Nops(producerGap),
			EncodeSB(4, 2, 1), // mem[0x82] = $4
			EncodeLB(5, 2, 1), // $5 = mem[0x82]
		),
		ResultReg: 5,
		Expected:  0x80 + 0x81,
	}
}
