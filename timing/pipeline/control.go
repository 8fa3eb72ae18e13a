package pipeline

import "github.com/sarchlab/pipesim/insts"

// ALUOpRFormat is the aluOp value that tells Execute to use the function
// field. Memory-format instructions use ALUOpAdd.
const (
	ALUOpAdd     uint32 = 0
	ALUOpRFormat uint32 = 10
)

// Control is the set of control signals decoded from one instruction class.
type Control struct {
	ALUOp    uint32
	ALUSrc   bool
	MemRead  bool
	MemToReg bool
	MemWrite bool
	RegDst   bool
	RegWrite bool
}

// controlTable maps each known instruction class to its control signals.
// Store's memToReg and regDst are don't-cares and are written as false.
var controlTable = map[insts.Class]Control{
	insts.ClassNoOp: {},
	insts.ClassRFormat: {
		ALUOp:    ALUOpRFormat,
		RegDst:   true,
		RegWrite: true,
	},
	insts.ClassLoad: {
		ALUOp:    ALUOpAdd,
		ALUSrc:   true,
		MemRead:  true,
		MemToReg: true,
		RegWrite: true,
	},
	insts.ClassStore: {
		ALUOp:    ALUOpAdd,
		ALUSrc:   true,
		MemWrite: true,
	},
}

// LookupControl returns the control signals for class. ok is false for a
// class with no table entry.
func LookupControl(class insts.Class) (ctrl Control, ok bool) {
	ctrl, ok = controlTable[class]
	return ctrl, ok
}

// apply writes the control signals into an ID/EX register.
func (c Control) apply(r *IDEXRegister) {
	r.ALUOp = c.ALUOp
	r.ALUSrc = c.ALUSrc
	r.MemRead = c.MemRead
	r.MemToReg = c.MemToReg
	r.MemWrite = c.MemWrite
	r.RegDst = c.RegDst
	r.RegWrite = c.RegWrite
}

// classOf infers the instruction class an ID/EX register carries from its
// control signals.
func classOf(r *IDEXRegister) insts.Class {
	switch {
	case r.MemRead:
		return insts.ClassLoad
	case r.MemWrite:
		return insts.ClassStore
	case r.ALUOp == ALUOpRFormat && !r.ALUSrc:
		return insts.ClassRFormat
	default:
		return insts.ClassNoOp
	}
}
