package core_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
	"github.com/sarchlab/pipesim/timing/core"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

var _ = Describe("Core", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		c       *core.Core
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		memory = emu.NewMemory()
		c = core.NewCore(regFile, memory)
	})

	It("should create a core with pipeline", func() {
		Expect(c).NotTo(BeNil())
		Expect(c.Pipeline).NotTo(BeNil())
		Expect(c.RegFile()).To(BeIdenticalTo(regFile))
		Expect(c.Memory()).To(BeIdenticalTo(memory))
	})

	It("should hand one snapshot per word to the observer", func() {
		var steps []uint64
		obs := core.ObserverFunc(func(snap pipeline.Snapshot) error {
			steps = append(steps, snap.Step)
			return nil
		})

		Expect(c.Run([]uint32{0x00221820, 0, 0}, obs)).To(Succeed())
		Expect(steps).To(Equal([]uint64{1, 2, 3}))
	})

	It("should run without an observer", func() {
		Expect(c.Run([]uint32{0, 0}, nil)).To(Succeed())
		Expect(c.Stats().Steps).To(Equal(uint64(2)))
	})

	It("should complete the last instruction after a drain", func() {
		regFile.WriteReg(1, 5)
		regFile.WriteReg(2, 7)

		Expect(c.Run([]uint32{insts.EncodeRFormat(3, 1, 2, insts.FunctAdd)}, nil)).To(Succeed())
		Expect(regFile.ReadReg(3)).To(Equal(int32(0x103)))

		Expect(c.Drain(core.DrainDepth, nil)).To(Succeed())
		Expect(regFile.ReadReg(3)).To(Equal(int32(12)))
	})

	It("should stop at an observer error", func() {
		sentinel := errors.New("stop")
		count := 0
		obs := core.ObserverFunc(func(pipeline.Snapshot) error {
			count++
			return sentinel
		})

		err := c.Run([]uint32{0, 0, 0}, obs)
		Expect(err).To(MatchError(sentinel))
		Expect(count).To(Equal(1))
	})

	It("should stop at a pipeline error", func() {
		load := insts.EncodeIFormat(insts.OpcodeLoad, 1, 0, -1)

		err := c.Run([]uint32{load, 0, 0, 0, 0}, nil)
		Expect(err).To(MatchError(emu.ErrAddressOutOfRange))
		Expect(c.Stats().Steps).To(Equal(uint64(4)))
	})

	It("should return stats", func() {
		bad := insts.EncodeRFormat(3, 1, 2, 0x3F)
		unknown := uint32(0x8C220004)
		Expect(c.Run([]uint32{bad, 0, 0, 0, unknown}, nil)).To(Succeed())

		// The last word has only been fetched, not decoded.
		Expect(c.Stats().Unrecognized).To(Equal(uint64(1)))

		_, err := c.Tick(0)
		Expect(err).NotTo(HaveOccurred())

		stats := c.Stats()
		Expect(stats.Steps).To(Equal(uint64(6)))
		Expect(stats.Cycles).To(Equal(uint64(6)))
		Expect(stats.Instructions).To(Equal(uint64(1)))
		Expect(stats.Unrecognized).To(Equal(uint64(2)))
		Expect(stats.CPI()).To(BeNumerically("==", 6.0))
	})

	It("should never decode a word fetched in the final step", func() {
		Expect(c.Run([]uint32{0, 0xFC000000}, nil)).To(Succeed())

		stats := c.Pipeline.Stats()
		Expect(stats.UnknownOpcodes).To(BeZero())
		// Step 1 decodes the empty IF/ID latch as a no-op.
		Expect(stats.NoOps).To(Equal(uint64(2)))
		Expect(c.Pipeline.IFID().Read.Instruction).To(Equal(uint32(0xFC000000)))
	})

	It("should reset core state", func() {
		Expect(c.Run([]uint32{insts.EncodeIFormat(insts.OpcodeStore, 4, 5, 0), 0, 0, 0}, nil)).To(Succeed())
		value, _ := memory.Read(0x105)
		Expect(value).To(Equal(int32(0x104)))

		regFile.WriteReg(0, 1)
		c.Reset()

		value, _ = memory.Read(0x105)
		Expect(value).To(Equal(int32(5)))
		Expect(regFile.ReadReg(0)).To(Equal(int32(0)))
		Expect(c.Stats()).To(Equal(core.Stats{}))
	})
})
