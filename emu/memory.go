package emu

import (
	"errors"
	"fmt"
)

// DefaultMemoryWords is the size of main memory in 32-bit words.
const DefaultMemoryWords = 1024

// memoryPattern is the period of the startup fill pattern.
const memoryPattern = 256

// ErrAddressOutOfRange is returned for an access outside main memory.
var ErrAddressOutOfRange = errors.New("memory address out of range")

// Memory is a flat, word-addressed array of 32-bit signed words.
type Memory struct {
	words []int32
}

// NewMemory creates main memory with DefaultMemoryWords words, initialized
// with the startup pattern.
func NewMemory() *Memory {
	return NewMemoryWithSize(DefaultMemoryWords)
}

// NewMemoryWithSize creates main memory with the given number of words,
// initialized with the startup pattern.
func NewMemoryWithSize(words int) *Memory {
	m := &Memory{words: make([]int32, words)}
	m.Reset()
	return m
}

// Reset refills memory with the startup pattern mem[i] = i mod 256.
func (m *Memory) Reset() {
	for i := range m.words {
		m.words[i] = int32(i % memoryPattern)
	}
}

// Size returns the number of words in memory.
func (m *Memory) Size() int {
	return len(m.words)
}

// Contains reports whether addr is a valid word address.
func (m *Memory) Contains(addr int32) bool {
	return addr >= 0 && int(addr) < len(m.words)
}

// Read returns the word at addr.
func (m *Memory) Read(addr int32) (int32, error) {
	if !m.Contains(addr) {
		return 0, fmt.Errorf("read at %d (size %d): %w", addr, len(m.words), ErrAddressOutOfRange)
	}
	return m.words[addr], nil
}

// Write stores value at addr.
func (m *Memory) Write(addr int32, value int32) error {
	if !m.Contains(addr) {
		return fmt.Errorf("write at %d (size %d): %w", addr, len(m.words), ErrAddressOutOfRange)
	}
	m.words[addr] = value
	return nil
}

// Words returns a copy of the memory contents.
func (m *Memory) Words() []int32 {
	out := make([]int32, len(m.words))
	copy(out, m.words)
	return out
}
