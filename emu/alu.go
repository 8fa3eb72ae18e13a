package emu

import "github.com/sarchlab/pipesim/insts"

// ALU implements the register-format arithmetic operations.
// Results wrap around in 32-bit two's complement.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Compute applies the operation selected by function to a and b.
// ok is false for a function the ALU does not implement.
func (a *ALU) Compute(function uint8, op1, op2 int32) (result int32, ok bool) {
	switch function {
	case insts.FunctAdd:
		return a.Add(op1, op2), true
	case insts.FunctSub:
		return a.Sub(op1, op2), true
	default:
		return 0, false
	}
}

// Add returns op1 + op2.
func (a *ALU) Add(op1, op2 int32) int32 {
	return op1 + op2
}

// Sub returns op1 - op2.
func (a *ALU) Sub(op1, op2 int32) int32 {
	return op1 - op2
}

// EffectiveAddress computes base + sign-extended offset for load/store.
func (a *ALU) EffectiveAddress(base int32, seOffset uint32) int32 {
	return int32(uint32(base) + seOffset)
}
