package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should hold 1024 words", func() {
		Expect(memory.Size()).To(Equal(1024))
	})

	It("should be initialized with i mod 256", func() {
		value, err := memory.Read(300)
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal(int32(44)))

		for i, w := range memory.Words() {
			Expect(w).To(Equal(int32(i % 256)))
		}
	})

	It("should store and load a word", func() {
		Expect(memory.Write(10, -7)).To(Succeed())
		value, err := memory.Read(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal(int32(-7)))
	})

	It("should only change the addressed word on a store", func() {
		before := memory.Words()
		Expect(memory.Write(512, 12345)).To(Succeed())
		after := memory.Words()

		for i := range before {
			if i == 512 {
				Expect(after[i]).To(Equal(int32(12345)))
				continue
			}
			Expect(after[i]).To(Equal(before[i]))
		}
	})

	Context("out-of-range addresses", func() {
		It("should fail a read past the end", func() {
			_, err := memory.Read(1024)
			Expect(err).To(MatchError(emu.ErrAddressOutOfRange))
		})

		It("should fail a read at a negative address", func() {
			_, err := memory.Read(-1)
			Expect(err).To(MatchError(emu.ErrAddressOutOfRange))
		})

		It("should fail a write without touching memory", func() {
			before := memory.Words()
			err := memory.Write(2000, 1)
			Expect(err).To(MatchError(emu.ErrAddressOutOfRange))
			Expect(memory.Words()).To(Equal(before))
		})
	})

	It("should honor a custom size", func() {
		small := emu.NewMemoryWithSize(8)
		Expect(small.Size()).To(Equal(8))
		Expect(small.Contains(7)).To(BeTrue())
		Expect(small.Contains(8)).To(BeFalse())
	})

	It("should refill the startup pattern on reset", func() {
		Expect(memory.Write(1, 77)).To(Succeed())
		memory.Reset()
		value, _ := memory.Read(1)
		Expect(value).To(Equal(int32(1)))
	})
})
