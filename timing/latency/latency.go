// Package latency provides instruction timing models for cycle accounting.
//
// The latency values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/pipesim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the latency in cycles for an instruction class.
// No-ops and unrecognized words take one cycle.
func (t *Table) GetLatency(class insts.Class) uint64 {
	switch class {
	case insts.ClassRFormat:
		return t.config.ALULatency
	case insts.ClassLoad:
		return t.config.LoadLatency
	case insts.ClassStore:
		return t.config.StoreLatency
	default:
		return 1
	}
}

// IsMemoryOp returns true if the class accesses memory.
func (t *Table) IsMemoryOp(class insts.Class) bool {
	return class == insts.ClassLoad || class == insts.ClassStore
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
