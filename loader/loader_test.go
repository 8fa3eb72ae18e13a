package loader_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/loader"
)

var _ = Describe("Loader", func() {
	Describe("ParseWord", func() {
		It("should accept words with and without a prefix", func() {
			for text, want := range map[string]uint32{
				"00a63820":   0x00A63820,
				"0x8d0f0004": 0x8D0F0004,
				"0XFFFFFFFF": 0xFFFFFFFF,
				"0":          0,
			} {
				word, err := loader.ParseWord(text)
				Expect(err).NotTo(HaveOccurred())
				Expect(word).To(Equal(want))
			}
		})

		It("should reject words that do not fit in 32 bits", func() {
			_, err := loader.ParseWord("0x123456789")
			Expect(err).To(MatchError(loader.ErrMalformedWord))
		})

		It("should strip only one prefix", func() {
			_, err := loader.ParseWord("0x0X1F")
			Expect(err).To(MatchError(loader.ErrMalformedWord))

			_, err = loader.ParseWord("0X0x1F")
			Expect(err).To(MatchError(loader.ErrMalformedWord))
		})

		It("should reject non-hex text", func() {
			_, err := loader.ParseWord("0xZZ")
			Expect(err).To(MatchError(loader.ErrMalformedWord))

			_, err = loader.ParseWord("0x")
			Expect(err).To(MatchError(loader.ErrMalformedWord))
		})
	})

	Describe("Parse", func() {
		It("should skip blank lines and comments", func() {
			src := strings.Join([]string{
				"# reference sequence",
				"0x00a63820",
				"",
				"  8d0f0004   # lb $15, 4($8)",
				"#0xdeadbeef",
				"0x00000000",
			}, "\n")

			prog, err := loader.Parse(strings.NewReader(src))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x00A63820, 0x8D0F0004, 0}))
			Expect(prog.Lines).To(Equal([]int{2, 4, 6}))
			Expect(prog.Len()).To(Equal(3))
			Expect(prog.Path).To(BeEmpty())
		})

		It("should report the line of a malformed word", func() {
			_, err := loader.Parse(strings.NewReader("0x0\n\nnot-a-word\n"))
			Expect(err).To(MatchError(loader.ErrMalformedWord))
			Expect(err.Error()).To(HavePrefix("line 3: "))
		})

		It("should return an empty program for empty input", func() {
			prog, err := loader.Parse(strings.NewReader(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Len()).To(BeZero())
		})
	})

	Describe("ParseLines", func() {
		It("should turn the line after a trailing newline into a no-op", func() {
			prog, err := loader.ParseLines(strings.NewReader("0x00a63820\n0x8d0f0004\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x00A63820, 0x8D0F0004, 0}))
			Expect(prog.Lines).To(Equal([]int{1, 2, 3}))
		})

		It("should keep blank and comment-only lines as no-ops", func() {
			prog, err := loader.ParseLines(strings.NewReader("# header\n\n0x1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0, 0, 1}))
		})

		It("should drop nothing that Parse keeps", func() {
			src := "0x1\n0x2"
			lines, err := loader.ParseLines(strings.NewReader(src))
			Expect(err).NotTo(HaveOccurred())
			words, err := loader.Parse(strings.NewReader(src))
			Expect(err).NotTo(HaveOccurred())
			Expect(lines.Words).To(Equal(words.Words))
		})
	})

	Describe("Load", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "loader-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should load a program file", func() {
			path := filepath.Join(tempDir, "prog.txt")
			Expect(os.WriteFile(path, []byte("0x00a63820\n0x8d0f0004\n"), 0o644)).To(Succeed())

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Path).To(Equal(path))
			Expect(prog.Words).To(Equal([]uint32{0x00A63820, 0x8D0F0004}))
		})

		It("should load a program file one step per line", func() {
			path := filepath.Join(tempDir, "prog.txt")
			Expect(os.WriteFile(path, []byte("0x00a63820\n"), 0o644)).To(Succeed())

			prog, err := loader.LoadLines(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Path).To(Equal(path))
			Expect(prog.Words).To(Equal([]uint32{0x00A63820, 0}))
		})

		It("should name the file in parse errors", func() {
			path := filepath.Join(tempDir, "bad.txt")
			Expect(os.WriteFile(path, []byte("xyz\n"), 0o644)).To(Succeed())

			_, err := loader.Load(path)
			Expect(err).To(MatchError(loader.ErrMalformedWord))
			Expect(err.Error()).To(ContainSubstring("bad.txt: line 1"))
		})

		It("should return an error for a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing.txt"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to open program file"))
		})
	})
})
