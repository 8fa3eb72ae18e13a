// Package emu provides the functional state of the simulated data path:
// the register file, main memory and the ALU.
package emu

// NumRegs is the number of general-purpose registers.
const NumRegs = 32

// regSeedBase is added to a register's index to give its startup value.
const regSeedBase = 0x100

// RegFile represents the general-purpose register file.
// R[0] starts at zero but is not hard-wired; a write-back targeting it
// overwrites it.
type RegFile struct {
	R [NumRegs]int32
}

// NewRegFile creates a register file in its deterministic startup state:
// R[0] = 0 and R[i] = 0x100 + i for the others.
func NewRegFile() *RegFile {
	r := &RegFile{}
	r.Reset()
	return r
}

// Reset restores the startup state.
func (r *RegFile) Reset() {
	r.R[0] = 0
	for i := 1; i < NumRegs; i++ {
		r.R[i] = SeedValue(uint8(i))
	}
}

// SeedValue returns the startup value of register reg.
func SeedValue(reg uint8) int32 {
	if reg == 0 {
		return 0
	}
	return regSeedBase + int32(reg&0x1F)
}

// ReadReg reads a register value. Only the low 5 bits of reg are used,
// like the 5-bit register fields of an instruction word.
func (r *RegFile) ReadReg(reg uint8) int32 {
	return r.R[reg&0x1F]
}

// WriteReg writes a value to a register. Register 0 is writable.
func (r *RegFile) WriteReg(reg uint8, value int32) {
	r.R[reg&0x1F] = value
}

// Values returns a copy of all register values.
func (r *RegFile) Values() [NumRegs]int32 {
	return r.R
}
