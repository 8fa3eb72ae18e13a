// Package main provides the entry point for pipesim.
// pipesim is a step-accurate model of a 5-stage pipelined data path.
//
// Usage:
//
//	pipesim [options] <program.txt>
//
// The program file holds one hex instruction word per line. After every
// word the full latch and register state is written in the reference text
// layout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/loader"
	"github.com/sarchlab/pipesim/report"
	"github.com/sarchlab/pipesim/timing/cache"
	"github.com/sarchlab/pipesim/timing/core"
	"github.com/sarchlab/pipesim/timing/latency"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

// options holds the parsed command line.
type options struct {
	output     string
	configPath string
	timing     bool
	dcache     bool
	drain      int
	dump       bool
	graphPath  string
	verbose    bool
	lines      bool
	program    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the simulator and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 1
	}

	load := loader.Load
	if opts.lines {
		load = loader.LoadLines
	}

	prog, err := load(opts.program)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	if opts.verbose {
		fmt.Fprintf(stderr, "Loaded: %s\n", prog.Path)
		fmt.Fprintf(stderr, "Words: %d\n", prog.Len())
	}

	pipeOpts, err := pipelineOptions(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading timing config: %v\n", err)
		return 1
	}

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating output file: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	c := core.NewCore(emu.NewRegFile(), emu.NewMemory(), pipeOpts...)
	obs := &observer{
		printer: report.NewPrinter(out),
		dump:    opts.dump,
		debug:   stderr,
	}

	err = c.Run(prog.Words, obs)
	if err == nil && opts.drain > 0 {
		err = c.Drain(opts.drain, obs)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.graphPath != "" && obs.seen {
		if err := writeGraph(opts.graphPath, obs.last); err != nil {
			fmt.Fprintf(stderr, "Error writing graph: %v\n", err)
			return 1
		}
	}

	if opts.verbose {
		printStats(stderr, c)
	}

	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("pipesim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.output, "o", "", "Write the report to this file instead of stdout")
	fs.StringVar(&opts.configPath, "config", "", "Path to timing configuration JSON file (implies -timing)")
	fs.BoolVar(&opts.timing, "timing", false, "Enable latency-based cycle accounting")
	fs.BoolVar(&opts.dcache, "dcache", false, "Model an L1 data cache")
	fs.IntVar(&opts.drain, "drain", 0, "Feed this many no-op words after the program")
	fs.BoolVar(&opts.dump, "dump", false, "Pretty-print every snapshot to stderr")
	fs.StringVar(&opts.graphPath, "graph", "", "Write a Graphviz rendering of the last snapshot to this file")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.BoolVar(&opts.lines, "lines", false, "Run one step per file line, blank lines and a trailing newline included")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pipesim [options] <program.txt>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return nil, fmt.Errorf("missing program file")
	}

	if opts.drain < 0 {
		fmt.Fprintf(stderr, "Error: -drain must not be negative\n")
		return nil, fmt.Errorf("negative drain")
	}

	opts.program = fs.Arg(0)

	return opts, nil
}

func pipelineOptions(opts *options) ([]pipeline.PipelineOption, error) {
	var pipeOpts []pipeline.PipelineOption
	var timingConfig *latency.TimingConfig

	if opts.timing || opts.configPath != "" {
		timingConfig = latency.DefaultTimingConfig()
		if opts.configPath != "" {
			var err error
			timingConfig, err = latency.LoadConfig(opts.configPath)
			if err != nil {
				return nil, err
			}
		}
		pipeOpts = append(pipeOpts, pipeline.WithLatencyTable(latency.NewTableWithConfig(timingConfig)))
	}

	if opts.dcache {
		dcacheConfig := cache.DefaultL1DConfig()
		if timingConfig != nil {
			dcacheConfig = timingConfig.ConfigureDCache(dcacheConfig)
		}
		if err := dcacheConfig.Validate(); err != nil {
			return nil, err
		}
		pipeOpts = append(pipeOpts, pipeline.WithDCache(dcacheConfig))
	}

	return pipeOpts, nil
}

// observer prints every snapshot and remembers the last one.
type observer struct {
	printer *report.Printer
	dump    bool
	debug   io.Writer

	last pipeline.Snapshot
	seen bool
}

func (o *observer) Observe(snap pipeline.Snapshot) error {
	o.last = snap
	o.seen = true

	if o.dump {
		if err := report.Dump(o.debug, snap); err != nil {
			return err
		}
	}

	return o.printer.Print(snap)
}

func writeGraph(path string, snap pipeline.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	report.Graph(f, snap)

	return f.Close()
}

func printStats(w io.Writer, c *core.Core) {
	stats := c.Pipeline.Stats()

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Steps: %d\n", stats.Steps)
	fmt.Fprintf(w, "Total Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "CPI: %.2f\n", stats.CPI())
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Breakdown:\n")
	fmt.Fprintf(w, "  No-ops:            %d\n", stats.NoOps)
	fmt.Fprintf(w, "  ALU ops:           %d\n", stats.ALUOps)
	fmt.Fprintf(w, "  Loads:             %d\n", stats.Loads)
	fmt.Fprintf(w, "  Stores:            %d\n", stats.Stores)
	fmt.Fprintf(w, "  Unknown opcodes:   %d\n", stats.UnknownOpcodes)
	fmt.Fprintf(w, "  Unknown functions: %d\n", stats.UnknownFunctions)
	fmt.Fprintf(w, "  Execute stalls:    %d\n", stats.ExecStalls)
	fmt.Fprintf(w, "  Memory stalls:     %d\n", stats.MemStalls)

	if c.Pipeline.UseDCache() {
		dc := c.Pipeline.DCacheStats()
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "D-Cache:\n")
		fmt.Fprintf(w, "  Hits:     %d\n", dc.Hits)
		fmt.Fprintf(w, "  Misses:   %d\n", dc.Misses)
		fmt.Fprintf(w, "  Hit rate: %.1f%%\n", 100*dc.HitRate())
	}
}
