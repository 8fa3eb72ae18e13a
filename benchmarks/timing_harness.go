// Package benchmarks provides timing benchmark infrastructure for pipesim.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
	"github.com/sarchlab/pipesim/timing/cache"
	"github.com/sarchlab/pipesim/timing/core"
	"github.com/sarchlab/pipesim/timing/latency"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Steps is the number of words supplied, drain no-ops included
	Steps uint64 `json:"steps"`

	// SimulatedCycles is the total cycle count from the timing model
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// Instructions is the number of decoded loads, stores and ALU ops
	Instructions uint64 `json:"instructions"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// ExecStalls is stalls due to multi-cycle execution
	ExecStalls uint64 `json:"exec_stalls"`

	// MemStalls is stalls due to memory latency
	MemStalls uint64 `json:"mem_stalls"`

	// DCacheHits/Misses (if cache enabled)
	DCacheHits   uint64 `json:"dcache_hits,omitempty"`
	DCacheMisses uint64 `json:"dcache_misses,omitempty"`

	// Result is the final value of the benchmark's result register
	Result int32 `json:"result"`

	// Passed is true if Result matched the expected value
	Passed bool `json:"passed"`

	// Error is set if the run stopped early
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the register file and memory before the run
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Program is the instruction word sequence
	Program []uint32

	// ResultReg is the register holding the benchmark result after drain
	ResultReg uint8

	// Expected is the value ResultReg must hold
	Expected int32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableDCache enables data cache simulation
	EnableDCache bool

	// DCache is the data cache geometry used when EnableDCache is set
	DCache cache.Config

	// Timing is the latency configuration, nil for one cycle per step
	Timing *latency.TimingConfig

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableDCache: true,
		DCache:       cache.DefaultL1DConfig(),
		Timing:       latency.DefaultTimingConfig(),
		Output:       os.Stdout,
		Verbose:      false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark and drains the pipeline so that
// every instruction completes.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	// Create fresh state
	regFile := emu.NewRegFile()
	memory := emu.NewMemory()

	// Run setup if provided
	if bench.Setup != nil {
		bench.Setup(regFile, memory)
	}

	// Create core with options
	opts := []pipeline.PipelineOption{}
	if h.config.Timing != nil {
		opts = append(opts, pipeline.WithLatencyTable(latency.NewTableWithConfig(h.config.Timing)))
	}
	if h.config.EnableDCache {
		dcacheConfig := h.config.DCache
		if h.config.Timing != nil {
			dcacheConfig = h.config.Timing.ConfigureDCache(dcacheConfig)
		}
		if err := dcacheConfig.Validate(); err != nil {
			return BenchmarkResult{
				Name:        bench.Name,
				Description: bench.Description,
				Error:       err.Error(),
			}
		}
		opts = append(opts, pipeline.WithDCache(dcacheConfig))
	}

	c := core.NewCore(regFile, memory, opts...)

	// Run simulation and measure time
	start := time.Now()
	err := c.Run(bench.Program, nil)
	if err == nil {
		err = c.Drain(core.DrainDepth, nil)
	}
	wallTime := time.Since(start)

	// Collect statistics
	stats := c.Pipeline.Stats()
	result := BenchmarkResult{
		Name:            bench.Name,
		Description:     bench.Description,
		Steps:           stats.Steps,
		SimulatedCycles: stats.Cycles,
		Instructions:    stats.Instructions,
		CPI:             stats.CPI(),
		ExecStalls:      stats.ExecStalls,
		MemStalls:       stats.MemStalls,
		Result:          regFile.ReadReg(bench.ResultReg),
		WallTime:        wallTime,
	}
	result.Passed = err == nil && result.Result == bench.Expected
	if err != nil {
		result.Error = err.Error()
	}

	// Collect cache stats if enabled
	if c.Pipeline.UseDCache() {
		dcStats := c.Pipeline.DCacheStats()
		result.DCacheHits = dcStats.Hits
		result.DCacheMisses = dcStats.Misses
	}

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d steps, $%d = 0x%X\n",
			bench.Name, result.Steps, bench.ResultReg, uint32(result.Result))
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== pipesim Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Result: 0x%X (passed: %t)\n", uint32(r.Result), r.Passed)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Steps:            %d\n", r.Steps)
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles: %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions:     %d\n", r.Instructions)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:              %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Exec Stalls:      %d\n", r.ExecStalls)
		_, _ = fmt.Fprintf(h.config.Output, "  Mem Stalls:       %d\n", r.MemStalls)

		if r.DCacheHits > 0 || r.DCacheMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- D-Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:   %d\n", r.DCacheHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses: %d\n", r.DCacheMisses)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,steps,cycles,instructions,cpi,exec_stalls,mem_stalls,dcache_hits,dcache_misses,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.3f,%d,%d,%d,%d,%t\n",
			r.Name,
			r.Steps,
			r.SimulatedCycles,
			r.Instructions,
			r.CPI,
			r.ExecStalls,
			r.MemStalls,
			r.DCacheHits,
			r.DCacheMisses,
			r.Passed,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	Timestamp     string                `json:"timestamp"`
	DCacheEnabled bool                  `json:"dcache_enabled"`
	Timing        *latency.TimingConfig `json:"timing,omitempty"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	TotalBenchmarks   int           `json:"total_benchmarks"`
	Passed            int           `json:"passed"`
	TotalCycles       uint64        `json:"total_cycles"`
	TotalInstructions uint64        `json:"total_instructions"`
	AverageCPI        float64       `json:"average_cpi"`
	TotalWallTime     time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		summary.TotalCycles += r.SimulatedCycles
		summary.TotalInstructions += r.Instructions
		summary.TotalWallTime += r.WallTime
		if r.Passed {
			summary.Passed++
		}
	}

	if summary.TotalInstructions > 0 {
		summary.AverageCPI = float64(summary.TotalCycles) / float64(summary.TotalInstructions)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			DCacheEnabled: h.config.EnableDCache,
			Timing:        h.config.Timing,
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// Helper functions for building programs

// Nops returns n no-op words.
func Nops(n int) []uint32 {
	return make([]uint32, n)
}

// BuildProgram concatenates instruction words and word groups.
func BuildProgram(parts ...[]uint32) []uint32 {
	var program []uint32
	for _, part := range parts {
		program = append(program, part...)
	}
	return program
}

// EncodeADD encodes add $rd, $rs, $rt.
func EncodeADD(rd, rs, rt uint8) []uint32 {
	return []uint32{insts.EncodeRFormat(rd, rs, rt, insts.FunctAdd)}
}

// EncodeSUB encodes sub $rd, $rs, $rt.
func EncodeSUB(rd, rs, rt uint8) []uint32 {
	return []uint32{insts.EncodeRFormat(rd, rs, rt, insts.FunctSub)}
}

// EncodeLB encodes lb $rt, offset($rs).
func EncodeLB(rt uint8, offset int16, rs uint8) []uint32 {
	return []uint32{insts.EncodeIFormat(insts.OpcodeLoad, rt, rs, offset)}
}

// EncodeSB encodes sb $rt, offset($rs).
func EncodeSB(rt uint8, offset int16, rs uint8) []uint32 {
	return []uint32{insts.EncodeIFormat(insts.OpcodeStore, rt, rs, offset)}
}
