package pipeline

import (
	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
)

// FetchStage places the supplied instruction word into IF/ID.
type FetchStage struct{}

// NewFetchStage creates a new fetch stage.
func NewFetchStage() *FetchStage {
	return &FetchStage{}
}

// Fetch writes word into the IF/ID write side.
func (s *FetchStage) Fetch(word uint32, out *IFIDRegister) {
	out.Instruction = word
}

// DecodeStage handles instruction decode and register read.
type DecodeStage struct {
	regFile *emu.RegFile
	decoder *insts.Decoder
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{
		regFile: regFile,
		decoder: insts.NewDecoder(),
	}
}

// Decode decodes the instruction held in the IF/ID read side, samples the
// register file and fills the ID/EX write side. For an unrecognized opcode
// the fields and operand values are still written but the control signals
// keep whatever the register held before. The returned class tells the
// caller which case applied.
func (s *DecodeStage) Decode(in *IFIDRegister, out *IDEXRegister) insts.Class {
	inst := s.decoder.Decode(in.Instruction)

	out.ReadReg1Value = s.regFile.ReadReg(inst.ReadReg1)
	out.ReadReg2Value = s.regFile.ReadReg(inst.ReadReg2)
	out.WriteRegRd = uint32(inst.WriteRegR)
	out.WriteRegRt = uint32(inst.WriteRegI)
	out.Function = uint32(inst.Function)
	out.SignExtOffset = inst.SignExtOffset

	if ctrl, ok := LookupControl(inst.Class); ok {
		ctrl.apply(out)
	}

	return inst.Class
}

// ExecuteStage handles ALU operations and address calculation.
type ExecuteStage struct {
	alu *emu.ALU
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{
		alu: emu.NewALU(),
	}
}

// Execute reads the ID/EX read side and fills the EX/MEM write side.
// It returns false if a register-format instruction carries a function the
// ALU does not implement; the ALU result is then left untouched.
func (s *ExecuteStage) Execute(in *IDEXRegister, out *EXMEMRegister) bool {
	out.MemRead = in.MemRead
	out.MemToReg = in.MemToReg
	out.MemWrite = in.MemWrite
	out.RegWrite = in.RegWrite

	ok := true
	if in.ALUOp == ALUOpRFormat && !in.ALUSrc {
		out.WriteRegNum = in.WriteRegRd

		var result int32
		result, ok = s.alu.Compute(uint8(in.Function), in.ReadReg1Value, in.ReadReg2Value)
		if ok {
			out.ALUResult = result
		}
	} else {
		out.WriteRegNum = in.WriteRegRt
		out.ALUResult = s.alu.EffectiveAddress(in.ReadReg1Value, in.SignExtOffset)
	}

	out.StoreValue = in.ReadReg2Value

	return ok
}

// MemoryResult holds the outcome of the memory stage.
type MemoryResult struct {
	// Accessed is true if a load or store was performed.
	Accessed bool
	// Hit is true if the access hit in the data cache.
	Hit bool
	// Latency is the access latency in cycles, zero when no cache models it.
	Latency uint64
}

// MemoryUnit is implemented by the uncached and cached memory stages.
type MemoryUnit interface {
	Access(in *EXMEMRegister, out *MEMWBRegister) (MemoryResult, error)
}

// MemoryStage handles memory load/store operations.
type MemoryStage struct {
	memory *emu.Memory
}

// NewMemoryStage creates a new memory stage.
func NewMemoryStage(memory *emu.Memory) *MemoryStage {
	return &MemoryStage{
		memory: memory,
	}
}

// Access reads the EX/MEM read side, performs the load or store and fills
// the MEM/WB write side. When neither a load nor a store is requested the
// loaded value keeps its previous content.
func (s *MemoryStage) Access(in *EXMEMRegister, out *MEMWBRegister) (MemoryResult, error) {
	passThrough(in, out)

	result := MemoryResult{}

	if in.MemRead {
		value, err := s.memory.Read(in.ALUResult)
		if err != nil {
			return result, err
		}
		out.LoadValue = value
		result.Accessed = true
	} else if in.MemWrite {
		if err := s.memory.Write(in.ALUResult, in.StoreValue); err != nil {
			return result, err
		}
		out.LoadValue = 0
		result.Accessed = true
	}

	return result, nil
}

// passThrough copies the fields the memory stage forwards unchanged.
func passThrough(in *EXMEMRegister, out *MEMWBRegister) {
	out.MemToReg = in.MemToReg
	out.RegWrite = in.RegWrite
	out.WriteRegNum = in.WriteRegNum
	out.ALUResult = in.ALUResult
}

// WritebackStage handles register file writeback.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{
		regFile: regFile,
	}
}

// Writeback commits the MEM/WB read side into the register file.
// Register 0 is not protected.
func (s *WritebackStage) Writeback(in *MEMWBRegister) {
	if !in.RegWrite {
		return
	}

	value := in.ALUResult
	if in.MemToReg {
		value = in.LoadValue
	}

	s.regFile.WriteReg(uint8(in.WriteRegNum), value)
}
