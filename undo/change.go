// Package undo implements the bracketed composite-change undo/redo engine.
// It is the sole implementation of buffer.ChangeRecorder: all buffer
// mutation funnels through here.
package undo

import "github.com/xvi-go/xvi/buffer"

// Kind distinguishes the four change record shapes.
type Kind int

const (
	// KindLine: n consecutive lines at Lineno were replaced. Lines holds
	// the pre-change lines (stashed so undo can restitch them).
	KindLine Kind = iota
	// KindChar: n chars were inserted at (Lineno, Index). No text is
	// stored — undoing an insert just deletes.
	KindChar
	// KindDelChar: n chars were deleted at (Lineno, Index). Chars holds
	// the deleted bytes.
	KindDelChar
	// KindPosition: not a buffer change; records the cursor position at
	// the start of a composite command.
	KindPosition
)

// Change is one primitive change record.
type Change struct {
	Kind   Kind
	Lineno uint64

	// KindLine
	NLines int
	Lines  []*buffer.Line

	// KindChar / KindDelChar
	Index  int
	NChars int
	Chars  []byte

	// KindPosition
	Pos buffer.Position
}
