package insts

import "fmt"

// Field masks.
const (
	OpcodeMask    uint32 = 0xFC000000
	ReadReg1Mask  uint32 = 0x03E00000
	ReadReg2Mask  uint32 = 0x001F0000
	WriteRegRMask uint32 = 0x0000F800
	WriteRegIMask uint32 = 0x001F0000
	FunctionMask  uint32 = 0x0000003F
	OffsetMask    uint32 = 0x0000FFFF
	SignMask      uint32 = 0x00008000
)

// Field shifts.
const (
	OpcodeShift    = 26
	ReadReg1Shift  = 21
	ReadReg2Shift  = 16
	WriteRegRShift = 11
	WriteRegIShift = 16
)

// Opcodes understood by the decode logic.
const (
	OpcodeRFormat uint8 = 0x00
	OpcodeLoad    uint8 = 0x20
	OpcodeStore   uint8 = 0x28
)

// Function field values for register-format instructions.
const (
	FunctAdd uint8 = 0x20
	FunctSub uint8 = 0x22
)

// signExtension is added to a 16-bit offset whose sign bit is set.
const signExtension uint32 = 0xFFFF0000

// Class represents the instruction class selected by the decode logic.
type Class uint8

// Instruction classes.
const (
	ClassUnknown Class = iota
	ClassNoOp          // The all-zero word
	ClassRFormat       // Register-format arithmetic
	ClassLoad          // Load word from memory
	ClassStore         // Store word to memory
)

func (c Class) String() string {
	switch c {
	case ClassNoOp:
		return "nop"
	case ClassRFormat:
		return "r-format"
	case ClassLoad:
		return "load"
	case ClassStore:
		return "store"
	default:
		return "unknown"
	}
}

// Instruction represents a decoded instruction word. Every field is extracted
// regardless of class, matching what the hardware latches.
type Instruction struct {
	Word  uint32 // Raw instruction word
	Class Class  // Instruction class

	Opcode    uint8  // bits [31:26]
	ReadReg1  uint8  // bits [25:21]
	ReadReg2  uint8  // bits [20:16]
	WriteRegR uint8  // bits [15:11], destination for register format
	WriteRegI uint8  // bits [20:16], destination for load
	Function  uint8  // bits [5:0]
	Offset    uint16 // bits [15:0], raw immediate

	// SignExtOffset is Offset sign-extended to 32 bits.
	SignExtOffset uint32
}

// Decoder decodes instruction words into instructions.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Word:          word,
		Opcode:        Opcode(word),
		ReadReg1:      uint8((word & ReadReg1Mask) >> ReadReg1Shift),
		ReadReg2:      uint8((word & ReadReg2Mask) >> ReadReg2Shift),
		WriteRegR:     uint8((word & WriteRegRMask) >> WriteRegRShift),
		WriteRegI:     uint8((word & WriteRegIMask) >> WriteRegIShift),
		Function:      uint8(word & FunctionMask),
		Offset:        uint16(word & OffsetMask),
		SignExtOffset: SignExtend16(word),
	}
	inst.Class = Classify(word)

	return inst
}

// Opcode extracts bits [31:26] of an instruction word.
func Opcode(word uint32) uint8 {
	return uint8((word & OpcodeMask) >> OpcodeShift)
}

// Classify returns the instruction class of a word. The no-op check comes
// first because the no-op word also carries the register-format opcode.
func Classify(word uint32) Class {
	if word == 0 {
		return ClassNoOp
	}

	switch Opcode(word) {
	case OpcodeRFormat:
		return ClassRFormat
	case OpcodeLoad:
		return ClassLoad
	case OpcodeStore:
		return ClassStore
	default:
		return ClassUnknown
	}
}

// SignExtend16 sign-extends the low 16 bits of word into 32 bits using
// bit 15 as the sign.
func SignExtend16(word uint32) uint32 {
	offset := word & OffsetMask
	if word&SignMask != 0 {
		offset += signExtension
	}
	return offset
}

// String returns the assembly form of the instruction.
func (i *Instruction) String() string {
	switch i.Class {
	case ClassNoOp:
		return "nop"
	case ClassRFormat:
		switch i.Function {
		case FunctAdd:
			return fmt.Sprintf("add $%d, $%d, $%d", i.WriteRegR, i.ReadReg1, i.ReadReg2)
		case FunctSub:
			return fmt.Sprintf("sub $%d, $%d, $%d", i.WriteRegR, i.ReadReg1, i.ReadReg2)
		}
	case ClassLoad:
		return fmt.Sprintf("lb $%d, %d($%d)", i.WriteRegI, int16(i.Offset), i.ReadReg1)
	case ClassStore:
		return fmt.Sprintf("sb $%d, %d($%d)", i.ReadReg2, int16(i.Offset), i.ReadReg1)
	}

	return fmt.Sprintf("unknown 0x%08X", i.Word)
}

// EncodeRFormat assembles a register-format instruction word.
func EncodeRFormat(rd, rs, rt, funct uint8) uint32 {
	return uint32(rs&0x1F)<<ReadReg1Shift |
		uint32(rt&0x1F)<<ReadReg2Shift |
		uint32(rd&0x1F)<<WriteRegRShift |
		uint32(funct)&FunctionMask
}

// EncodeIFormat assembles a load or store instruction word.
func EncodeIFormat(opcode, rt, rs uint8, offset int16) uint32 {
	return uint32(opcode&0x3F)<<OpcodeShift |
		uint32(rs&0x1F)<<ReadReg1Shift |
		uint32(rt&0x1F)<<ReadReg2Shift |
		uint32(uint16(offset))
}
