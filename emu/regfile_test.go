package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = emu.NewRegFile()
	})

	It("should start with register 0 at zero", func() {
		Expect(regFile.ReadReg(0)).To(Equal(int32(0)))
	})

	It("should seed every other register with 0x100 + index", func() {
		for i := uint8(1); i < emu.NumRegs; i++ {
			Expect(regFile.ReadReg(i)).To(Equal(int32(0x100) + int32(i)))
		}
		Expect(regFile.ReadReg(3)).To(Equal(emu.SeedValue(3)))
	})

	It("should write and read back a register", func() {
		regFile.WriteReg(7, -42)
		Expect(regFile.ReadReg(7)).To(Equal(int32(-42)))
	})

	It("should allow register 0 to be overwritten", func() {
		regFile.WriteReg(0, 99)
		Expect(regFile.ReadReg(0)).To(Equal(int32(99)))
	})

	It("should only use the low 5 bits of the index", func() {
		regFile.WriteReg(33, 5)
		Expect(regFile.ReadReg(1)).To(Equal(int32(5)))
	})

	It("should return a copy of the values", func() {
		values := regFile.Values()
		values[4] = 0
		Expect(regFile.ReadReg(4)).To(Equal(int32(0x104)))
	})

	It("should restore the startup state on reset", func() {
		regFile.WriteReg(0, 1)
		regFile.WriteReg(5, 1)
		regFile.Reset()
		Expect(regFile.ReadReg(0)).To(Equal(int32(0)))
		Expect(regFile.ReadReg(5)).To(Equal(int32(0x105)))
	})
})
