// Package register implements the 37-register yank/put machine.
package register

import (
	"fmt"

	"github.com/xvi-go/xvi/buffer"
)

// Kind is the representation a register currently holds.
type Kind int

const (
	None Kind = iota
	Chars
	Lines
)

// Direction selects where Put inserts relative to the cursor, mirroring
// the original's do_put.
type Direction int

const (
	Backward Direction = iota // before cursor
	Forward                   // after cursor
)

// Register holds either a possibly-multiline char-based selection or a
// whole-line list.
type Register struct {
	Kind Kind

	// Chars representation.
	FirstSegment []byte       // text from the yank's start to end-of-line (or end of yank, if single-line)
	LastSegment  []byte       // text from start-of-line to the yank's end; nil if the yank didn't span a line boundary
	MidLines     []*buffer.Line // whole intermediate lines, owned independently of any buffer

	// Lines representation: the full list of whole lines.
	WholeLines []*buffer.Line
}

// IsEmpty reports whether the register holds nothing.
func (r *Register) IsEmpty() bool { return r == nil || r.Kind == None }

// Bank is the full set of 37 addressable registers.
type Bank struct {
	regs map[byte]*Register
}

// New creates an empty register bank.
func New() *Bank {
	return &Bank{regs: make(map[byte]*Register)}
}

// normalize validates a register name and reports whether it names the
// uppercase (append) alias of a lowercase user register.
func normalize(name byte) (lower byte, append bool, ok bool) {
	switch {
	case name >= '1' && name <= '9':
		return name, false, true
	case name >= 'a' && name <= 'z':
		return name, false, true
	case name >= 'A' && name <= 'Z':
		return name - 'A' + 'a', true, true
	case name == '@' || name == '<' || name == '/' || name == '?' || name == ':' || name == '!':
		return name, false, true
	default:
		return 0, false, false
	}
}

// Get returns the register for name (the lowercase target if name is an
// uppercase append alias), creating it empty on first reference.
func (b *Bank) Get(name byte) (*Register, error) {
	lower, _, ok := normalize(name)
	if !ok {
		return nil, fmt.Errorf("register: invalid name %q", name)
	}
	r, exists := b.regs[lower]
	if !exists {
		r = &Register{}
		b.regs[lower] = r
	}
	return r, nil
}

// Unnamed returns the default register '@'.
func (b *Bank) Unnamed() *Register {
	r, _ := b.Get('@')
	return r
}

// SetChars overwrites name's content with a flat chars-mode run of text,
// splitting it into lines at '\n'. The automatic registers '<', '/', '?',
// ':', '!' are written wholesale like this rather than built up through
// Yank's range-based append logic.
func (b *Bank) SetChars(name byte, text []byte) error {
	r, err := b.Get(name)
	if err != nil {
		return err
	}
	lines := splitLines(text)
	switch len(lines) {
	case 0:
		*r = Register{}
	case 1:
		*r = Register{Kind: Chars, FirstSegment: lines[0]}
	default:
		mid := make([]*buffer.Line, len(lines)-2)
		for i, l := range lines[1 : len(lines)-1] {
			mid[i] = &buffer.Line{Text: l}
		}
		*r = Register{Kind: Chars, FirstSegment: lines[0], MidLines: mid, LastSegment: lines[len(lines)-1]}
	}
	return nil
}

func splitLines(text []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, c := range text {
		if c == '\n' {
			out = append(out, append([]byte(nil), text[start:i]...))
			start = i + 1
		}
	}
	out = append(out, append([]byte(nil), text[start:]...))
	return out
}

// set replaces r's content in place with src's content, a value copy so
// callers retain independent ownership.
func (r *Register) set(src *Register) {
	*r = *src
}

func cloneLines(ls []*buffer.Line) []*buffer.Line {
	out := make([]*buffer.Line, len(ls))
	for i, l := range ls {
		out[i] = l.Clone()
	}
	return out
}
