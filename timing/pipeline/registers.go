// Package pipeline provides the 5-stage data path model: the inter-stage
// latch registers, the stages that read and write them, and the clock edge
// that advances every latch at once.
package pipeline

// Latch is one pipeline boundary. Write is being produced by the upstream
// stage during the current step. Read is what the downstream stage consumes
// during the current step and always holds the previous step's Write.
type Latch[R any] struct {
	Write R
	Read  R
}

// Advance copies the write side into the read side. It models the clock
// edge and is the only place the read side changes.
func (l *Latch[R]) Advance() {
	l.Read = l.Write
}

// IFIDRegister holds state between Fetch and Decode stages.
type IFIDRegister struct {
	// Instruction is the raw 32-bit instruction word.
	Instruction uint32
}

// Clear resets the IF/ID register to empty state.
func (r *IFIDRegister) Clear() {
	r.Instruction = 0
}

// IDEXRegister holds state between Decode and Execute stages.
type IDEXRegister struct {
	// Control signals.
	ALUSrc   bool // True if the second ALU operand is the offset
	MemRead  bool // True for load instructions
	MemToReg bool // True if result comes from memory (load)
	MemWrite bool // True for store instructions
	RegDst   bool // True if the destination is bits [15:11]
	RegWrite bool // True if instruction writes to register

	// Decoded fields.
	ALUOp         uint32
	SignExtOffset uint32
	Function      uint32
	WriteRegRd    uint32 // bits [15:11]
	WriteRegRt    uint32 // bits [20:16]

	// Register values read from the register file at decode time.
	ReadReg1Value int32
	ReadReg2Value int32
}

// Clear resets the ID/EX register to empty state.
func (r *IDEXRegister) Clear() {
	*r = IDEXRegister{}
}

// EXMEMRegister holds state between Execute and Memory stages.
type EXMEMRegister struct {
	// Control signals (propagated from ID/EX).
	MemRead  bool
	MemToReg bool
	MemWrite bool
	RegWrite bool

	// ALU result (address for load/store, result for ALU ops).
	ALUResult int32

	// Value to store for store instructions.
	StoreValue int32

	// Destination register number.
	WriteRegNum uint32
}

// Clear resets the EX/MEM register to empty state.
func (r *EXMEMRegister) Clear() {
	*r = EXMEMRegister{}
}

// MEMWBRegister holds state between Memory and Writeback stages.
type MEMWBRegister struct {
	// Control signals.
	MemToReg bool
	RegWrite bool

	// Data read from memory (for load instructions).
	LoadValue int32

	// ALU result (for ALU instructions).
	ALUResult int32

	// Destination register number.
	WriteRegNum uint32
}

// Clear resets the MEM/WB register to empty state.
func (r *MEMWBRegister) Clear() {
	*r = MEMWBRegister{}
}
