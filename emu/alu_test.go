package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
)

var _ = Describe("ALU", func() {
	var alu *emu.ALU

	BeforeEach(func() {
		alu = emu.NewALU()
	})

	DescribeTable("add",
		func(a, b, expected int32) {
			result, ok := alu.Compute(insts.FunctAdd, a, b)
			Expect(ok).To(BeTrue())
			Expect(result).To(Equal(expected))
		},
		Entry("small values", int32(5), int32(7), int32(12)),
		Entry("negative operand", int32(-3), int32(1), int32(-2)),
		Entry("wraps on overflow", int32(math.MaxInt32), int32(1), int32(math.MinInt32)),
	)

	DescribeTable("sub",
		func(a, b, expected int32) {
			result, ok := alu.Compute(insts.FunctSub, a, b)
			Expect(ok).To(BeTrue())
			Expect(result).To(Equal(expected))
		},
		Entry("small values", int32(7), int32(5), int32(2)),
		Entry("negative result", int32(5), int32(7), int32(-2)),
		Entry("wraps on underflow", int32(math.MinInt32), int32(1), int32(math.MaxInt32)),
	)

	It("should reject an unknown function", func() {
		_, ok := alu.Compute(0x24, 1, 2)
		Expect(ok).To(BeFalse())
	})

	It("should add a sign-extended offset to a base", func() {
		Expect(alu.EffectiveAddress(0x105, 4)).To(Equal(int32(0x109)))
		Expect(alu.EffectiveAddress(0x105, 0xFFFFFFFC)).To(Equal(int32(0x101)))
	})
})
