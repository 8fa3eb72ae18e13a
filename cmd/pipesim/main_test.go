package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var separator = strings.Repeat("*", 79)

var _ = Describe("pipesim", func() {
	var (
		tempDir string
		stdout  *bytes.Buffer
		stderr  *bytes.Buffer
	)

	writeProgram := func(name, content string) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "pipesim-cli")
		Expect(err).NotTo(HaveOccurred())

		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should print one report block per word", func() {
		path := writeProgram("prog.txt", "0x00a63820\n0x8d0f0004\n0x00000000\n")

		Expect(run([]string{path}, stdout, stderr)).To(Equal(0))
		Expect(strings.Count(stdout.String(), separator)).To(Equal(3))
		Expect(stdout.String()).To(HavePrefix(separator + "\n\n\nIF/ID Write: \n\n\t Instruction: 0x00A63820"))
		Expect(stderr.String()).To(BeEmpty())
	})

	It("should feed drain words after the program", func() {
		path := writeProgram("prog.txt", "0x00221820\n")

		Expect(run([]string{"-drain", "4", path}, stdout, stderr)).To(Equal(0))
		Expect(strings.Count(stdout.String(), separator)).To(Equal(5))
		// $3 = $1 + $2 = 0x101 + 0x102 after write-back
		Expect(stdout.String()).To(ContainSubstring("     3: 0x203"))
	})

	It("should run one step per line with -lines", func() {
		path := writeProgram("prog.txt", "0x00a63820\n0\n")

		Expect(run([]string{path}, stdout, stderr)).To(Equal(0))
		Expect(strings.Count(stdout.String(), separator)).To(Equal(2))

		stdout.Reset()
		Expect(run([]string{"-lines", path}, stdout, stderr)).To(Equal(0))
		Expect(strings.Count(stdout.String(), separator)).To(Equal(3))
	})

	It("should write the report to a file", func() {
		path := writeProgram("prog.txt", "0\n")
		outPath := filepath.Join(tempDir, "out.txt")

		Expect(run([]string{"-o", outPath, path}, stdout, stderr)).To(Equal(0))
		Expect(stdout.String()).To(BeEmpty())

		data, err := os.ReadFile(outPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix(separator))
	})

	It("should write a graph of the last snapshot", func() {
		path := writeProgram("prog.txt", "0\n0\n")
		graphPath := filepath.Join(tempDir, "last.dot")

		Expect(run([]string{"-graph", graphPath, path}, stdout, stderr)).To(Equal(0))

		data, err := os.ReadFile(graphPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("digraph"))
	})

	It("should dump snapshots and statistics to stderr", func() {
		// lb $15, 4($8)
		path := writeProgram("prog.txt", "0x810f0004\n")

		Expect(run([]string{"-dump", "-v", "-timing", "-dcache", "-drain", "4", path}, stdout, stderr)).To(Equal(0))
		Expect(stderr.String()).To(ContainSubstring("IFID"))
		Expect(stderr.String()).To(ContainSubstring("Steps: 5"))
		Expect(stderr.String()).To(ContainSubstring("D-Cache:"))
	})

	It("should fail without a program file", func() {
		Expect(run(nil, stdout, stderr)).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("Usage: pipesim"))
	})

	It("should fail on a malformed program", func() {
		path := writeProgram("bad.txt", "0x0\nnope\n")

		Expect(run([]string{path}, stdout, stderr)).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("line 2"))
	})

	It("should fail on a missing timing config", func() {
		path := writeProgram("prog.txt", "0\n")

		Expect(run([]string{"-config", filepath.Join(tempDir, "none.json"), path}, stdout, stderr)).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("Error loading timing config"))
	})

	It("should stop at an out of range access", func() {
		// lb $1, -1($0)
		path := writeProgram("prog.txt", "0x8001ffff\n0\n0\n0\n0\n")

		Expect(run([]string{path}, stdout, stderr)).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("step 4: memory stage"))
		Expect(strings.Count(stdout.String(), separator)).To(Equal(3))
	})
})
