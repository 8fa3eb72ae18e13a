// Package loader reads instruction words from text files.
//
// The format is one 32-bit hexadecimal word per line. A line may carry an
// optional 0x prefix. Blank lines and everything after a '#' are ignored.
//
// The legacy simulator instead runs one step per line, counting newlines
// plus one, so a blank line (including the empty line after a trailing
// newline) becomes an all-zero word. Parse drops those lines and therefore
// produces one snapshot fewer for a file that ends in a newline.
// ParseLines and LoadLines keep them to reproduce the legacy step count.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedWord is returned for a line that is not a 32-bit hex word.
var ErrMalformedWord = errors.New("malformed instruction word")

// Program is an ordered sequence of instruction words.
type Program struct {
	// Path is the file the words were read from, empty for Parse.
	Path string
	// Words contains the instruction words in supply order.
	Words []uint32
	// Lines holds the 1-based source line of each word.
	Lines []int
}

// Len returns the number of instruction words.
func (p *Program) Len() int {
	return len(p.Words)
}

// Parse reads a program from r, skipping blank and comment-only lines.
func Parse(r io.Reader) (*Program, error) {
	return parse(r, false)
}

// ParseLines reads a program from r with one word per line. Blank and
// comment-only lines, and the empty line after a trailing newline, become
// no-op words.
func ParseLines(r io.Reader) (*Program, error) {
	return parse(r, true)
}

func parse(r io.Reader, keepBlank bool) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	prog := &Program{}
	for i, line := range strings.Split(string(data), "\n") {
		lineNum := i + 1

		text := line
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)

		if text == "" {
			if keepBlank {
				prog.Words = append(prog.Words, 0)
				prog.Lines = append(prog.Lines, lineNum)
			}
			continue
		}

		word, err := ParseWord(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		prog.Words = append(prog.Words, word)
		prog.Lines = append(prog.Lines, lineNum)
	}

	return prog, nil
}

// ParseWord parses a single hex word with an optional 0x or 0X prefix.
func ParseWord(text string) (uint32, error) {
	digits := text
	if strings.HasPrefix(strings.ToLower(text), "0x") {
		digits = text[2:]
	}
	if digits == "" || len(digits) > 8 {
		return 0, fmt.Errorf("%q: %w", text, ErrMalformedWord)
	}

	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", text, ErrMalformedWord)
	}

	return uint32(value), nil
}

// Load reads a program from the file at path with Parse.
func Load(path string) (*Program, error) {
	return load(path, Parse)
}

// LoadLines reads a program from the file at path with ParseLines.
func LoadLines(path string) (*Program, error) {
	return load(path, ParseLines)
}

func load(path string, parse func(io.Reader) (*Program, error)) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}
