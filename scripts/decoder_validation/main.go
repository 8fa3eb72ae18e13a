// Validate decode stage performance - measures allocations per decode
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

func main() {
	regFile := emu.NewRegFile()
	decodeStage := pipeline.NewDecodeStage(regFile)

	words := []uint32{
		insts.EncodeRFormat(7, 5, 6, insts.FunctAdd),        // add $7, $5, $6
		insts.EncodeRFormat(9, 10, 11, insts.FunctSub),      // sub $9, $10, $11
		insts.EncodeIFormat(insts.OpcodeLoad, 15, 8, 4),     // lb $15, 4($8)
		insts.EncodeIFormat(insts.OpcodeStore, 4, 5, -0x10), // sb $4, -16($5)
		0x00000000,                                          // nop
		0xFC000000,                                          // unknown opcode
	}

	var in pipeline.IFIDRegister
	var out pipeline.IDEXRegister

	// Warm up
	for i := 0; i < 1000; i++ {
		in.Instruction = words[i%len(words)]
		decodeStage.Decode(&in, &out)
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	classes := map[insts.Class]int{}
	for i := 0; i < iterations; i++ {
		for _, w := range words {
			in.Instruction = w
			classes[decodeStage.Decode(&in, &out)]++
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(words)
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Decode Stage Validation Results:\n")
	fmt.Printf("================================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))

	fmt.Printf("\nDecoded classes:\n")
	for _, class := range []insts.Class{
		insts.ClassRFormat, insts.ClassLoad, insts.ClassStore, insts.ClassNoOp, insts.ClassUnknown,
	} {
		fmt.Printf("  %-8s %d\n", class, classes[class])
	}

	if float64(allocations)/float64(totalDecodes) < 0.1 {
		fmt.Printf("\nGOOD: Low allocation rate (< 0.1 per decode)\n")
	} else {
		fmt.Printf("\nWARNING: High allocation rate detected\n")
	}
}
