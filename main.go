// Package main provides the entry point for pipesim.
// pipesim is a step-accurate model of a 5-stage pipelined data path.
//
// For the full CLI, use: go run ./cmd/pipesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("pipesim - 5-stage pipelined data path simulator")
	fmt.Println("")
	fmt.Println("Usage: pipesim [options] <program.txt>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -o         Write the report to a file instead of stdout")
	fmt.Println("  -timing    Enable latency-based cycle accounting")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -dcache    Model an L1 data cache")
	fmt.Println("  -drain     Feed N no-op words after the program")
	fmt.Println("  -dump      Pretty-print every snapshot to stderr")
	fmt.Println("  -graph     Write a Graphviz rendering of the last snapshot")
	fmt.Println("  -lines     Run one step per file line, like the legacy simulator")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/pipesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/pipesim' instead.")
	}
}
