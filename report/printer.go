// Package report renders pipeline snapshots.
//
// Printer writes the fixed-layout text report that is compared line by line
// against reference output. Dump and Graph are debugging aids.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/pipesim/timing/pipeline"
)

// separatorWidth is the number of '*' characters that open every snapshot.
const separatorWidth = 79

// registersPerRow is the number of registers printed on one line.
const registersPerRow = 4

// Printer writes snapshots in the reference text layout.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter creates a printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes one snapshot. It returns the first write error; after an
// error every later Print is a no-op that returns the same error.
func (p *Printer) Print(snap pipeline.Snapshot) error {
	p.printf("%s\n\n\n", strings.Repeat("*", separatorWidth))

	p.printIFID("Write", snap.IFID.Write)
	p.printf("\n\n\n")
	p.printIFID("Read", snap.IFID.Read)
	p.printf("\n\n\n\n")

	p.printIDEX("Write", snap.IDEX.Write)
	p.printIDEX("Read", snap.IDEX.Read)

	p.printEXMEM("Write", snap.EXMEM.Write)
	p.printEXMEM("Read", snap.EXMEM.Read)

	p.printMEMWB("Write", snap.MEMWB.Write)
	p.printMEMWB("Read", snap.MEMWB.Read)

	p.printRegisters(snap.Regs[:])

	return p.err
}

// Observe lets a Printer be used as a run observer.
func (p *Printer) Observe(snap pipeline.Snapshot) error {
	return p.Print(snap)
}

// Err returns the first write error, if any.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) printIFID(side string, r pipeline.IFIDRegister) {
	p.printf("IF/ID %s: \n\n", side)
	p.printf("\t Instruction: 0x%08X", r.Instruction)
}

func (p *Printer) printIDEX(side string, r pipeline.IDEXRegister) {
	p.printf("ID/EX %s: \n\n", side)
	p.printf("\t signExtendedOffset: 0x%08X\n", r.SignExtOffset)
	p.printf("\t function: 0x%X\n", r.Function)
	p.printf("\t readReg1Value: 0x%X", uint32(r.ReadReg1Value))
	p.printf("\t readReg2Value: 0x%X\n", uint32(r.ReadReg2Value))
	p.printf("\t writeReg15_11: %d", r.WriteRegRd)
	p.printf("\t writeReg20_16: %d\n", r.WriteRegRt)
	p.printf("\n\t control: aluOp: %d, aluSrc: %d, memRead: %d, memToReg: %d\n",
		r.ALUOp, flag(r.ALUSrc), flag(r.MemRead), flag(r.MemToReg))
	p.printf("\t\t  memWrite: %d, regDst: %d, regWrite: %d",
		flag(r.MemWrite), flag(r.RegDst), flag(r.RegWrite))
	p.printf("\n\n\n")
}

func (p *Printer) printEXMEM(side string, r pipeline.EXMEMRegister) {
	p.printf("EX/MEM %s: \n\n", side)
	p.printf("\t aluResult: %X, storeByteValue: %X, writeRegNum: %d\n",
		uint32(r.ALUResult), uint32(r.StoreValue), r.WriteRegNum)
	p.printf("\t control: memRead: %d, memToReg: %d, memWrite: %d, regWrite: %d",
		flag(r.MemRead), flag(r.MemToReg), flag(r.MemWrite), flag(r.RegWrite))
	p.printf("\n\n\n")
}

func (p *Printer) printMEMWB(side string, r pipeline.MEMWBRegister) {
	p.printf("MEM/WB %s: \n\n", side)
	p.printf("\t aluResult: %X, loadByteValue: %X, writeRegNum: %d\n\n",
		uint32(r.ALUResult), uint32(r.LoadValue), r.WriteRegNum)
	p.printf("\t control: memToReg: %d, regWrite: %d", flag(r.MemToReg), flag(r.RegWrite))
	p.printf("\n\n\n")
}

// printRegisters pads values below 0x10 with two spaces and values below
// 0x100 with one. Negative values count as small.
func (p *Printer) printRegisters(regs []int32) {
	p.printf("Registers: \n\n")

	for i, value := range regs {
		if i%registersPerRow == 0 {
			p.printf("\n")
		}

		pad := ""
		switch {
		case value < 0x10:
			pad = "  "
		case value < 0x100:
			pad = " "
		}

		p.printf("%6d: 0x%X%s", i, uint32(value), pad)
	}

	p.printf("\n\n\n")
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
