package undo

import (
	"fmt"

	"github.com/xvi-go/xvi/buffer"
)

// MaxUndo is the hard cap on retained composite changes per stack.
const MaxUndo = 100

// composite is one user-visible change: a POSITION sentinel followed by
// zero or more primitive changes, in the order they were applied.
type composite []*Change

// Engine is the undo/redo engine for one buffer. It implements
// buffer.ChangeRecorder, so it is the only thing that may call
// buffer.Buffer's line-splicing primitives.
type Engine struct {
	buf *buffer.Buffer

	undoStack []composite
	redoStack []composite

	current  composite
	depth    int
	total    int64 // net lines added minus removed, current composite

	maxUndo int
	pool    *changePool

	// Report, when non-zero, is the threshold (in absolute net lines)
	// above which EndCommand's LastReport is populated (the "report"
	// parameter).
	Report int

	// LastReport holds the most recent "N fewer/more lines" style
	// message, or "" if the last composite didn't cross Report.
	LastReport string
}

// New creates an Engine for buf and installs it as buf's ChangeRecorder.
// maxUndo is clamped to [1, MaxUndo].
func New(buf *buffer.Buffer, maxUndo int) *Engine {
	if maxUndo < 1 {
		maxUndo = 1
	}
	if maxUndo > MaxUndo {
		maxUndo = MaxUndo
	}
	e := &Engine{buf: buf, maxUndo: maxUndo, pool: newChangePool(), Report: 5}
	buf.Changes = e
	return e
}

// StartCommand opens (or re-enters, if nested) a bracketed composite
// change. pos is the cursor position to return to on undo.
func (e *Engine) StartCommand(pos buffer.Position) {
	e.depth++
	if e.depth == 1 {
		e.current = composite{&Change{Kind: KindPosition, Pos: pos}}
		e.total = 0
	}
}

// EndCommand closes one bracketing level. Only the outermost call
// finalises the composite: it is pushed onto the undo stack (oldest
// dropped once maxUndo is exceeded), and the redo stack is cleared.
func (e *Engine) EndCommand() {
	if e.depth == 0 {
		return
	}
	e.depth--
	if e.depth > 0 {
		return
	}
	if len(e.current) <= 1 {
		// Sentinel only: no actual mutation happened.
		e.current = nil
		return
	}
	e.undoStack = append(e.undoStack, e.current)
	if len(e.undoStack) > e.maxUndo {
		e.undoStack = e.undoStack[1:]
	}
	e.redoStack = nil
	e.current = nil

	e.LastReport = ""
	if e.Report > 0 {
		n := e.total
		if n < 0 {
			n = -n
		}
		if n >= int64(e.Report) {
			if e.total < 0 {
				e.LastReport = fmt.Sprintf("%d fewer lines", -e.total)
			} else {
				e.LastReport = fmt.Sprintf("%d more lines", e.total)
			}
		}
	}
}

// Depth reports the current bracketing nesting depth.
func (e *Engine) Depth() int { return e.depth }

// ReplChars implements buffer.ChangeRecorder.
func (e *Engine) ReplChars(line *buffer.Line, index, nDel int, insert []byte) error {
	if e.depth == 0 {
		return fmt.Errorf("undo: ReplChars called outside start_command/end_command")
	}
	if index < 0 || index > len(line.Text) || index+nDel > len(line.Text) {
		return fmt.Errorf("undo: ReplChars out of range")
	}

	deleted := append([]byte(nil), line.Text[index:index+nDel]...)
	newText := make([]byte, 0, len(line.Text)-nDel+len(insert))
	newText = append(newText, line.Text[:index]...)
	newText = append(newText, insert...)
	newText = append(newText, line.Text[index+nDel:]...)
	line.SetText(newText)

	e.shiftMarks(line, index, nDel, len(insert))

	if nDel > 0 {
		e.push(&Change{Kind: KindDelChar, Lineno: line.Number, Index: index, NChars: nDel, Chars: deleted})
	}
	if len(insert) > 0 {
		e.push(&Change{Kind: KindChar, Lineno: line.Number, Index: index, NChars: len(insert)})
	}
	return nil
}

func (e *Engine) shiftMarks(line *buffer.Line, index, nDel, nIns int) {
	delta := nIns - nDel
	if delta == 0 {
		return
	}
	e.buf.Marks.ShiftLine(line, index, nDel, delta)
}

// ReplLines implements buffer.ChangeRecorder.
func (e *Engine) ReplLines(anchor *buffer.Line, nDel int, newLines []*buffer.Line) error {
	if e.depth == 0 {
		return fmt.Errorf("undo: ReplLines called outside start_command/end_command")
	}
	old := e.buf.SpliceLines(anchor, nDel, newLines)
	for _, l := range old {
		e.buf.ClearLineMarks(l)
	}
	for _, l := range newLines {
		e.buf.RestoreLineMarks(l)
	}
	e.total += int64(len(newLines)) - int64(len(old))
	e.push(&Change{Kind: KindLine, Lineno: anchor.Number, NLines: len(newLines), Lines: old})
	return nil
}

// ReplBuffer implements buffer.ChangeRecorder. It replaces the whole
// visible buffer as a single LINE change spanning everything between
// file and lastline.
func (e *Engine) ReplBuffer(newFirst *buffer.Line) error {
	if e.depth == 0 {
		return fmt.Errorf("undo: ReplBuffer called outside start_command/end_command")
	}
	var newLines []*buffer.Line
	for l := newFirst; l != nil; l = l.Next {
		newLines = append(newLines, l)
	}
	nOld := e.buf.Count()
	return e.ReplLines(e.buf.File(), nOld, newLines)
}

func (e *Engine) push(c *Change) {
	e.current = append(e.current, c)
}

// CanUndo reports whether there is a composite to undo.
func (e *Engine) CanUndo() bool { return len(e.undoStack) > 0 }

// CanRedo reports whether there is a composite to redo.
func (e *Engine) CanRedo() bool { return len(e.redoStack) > 0 }

// Undo pops the most recent composite, applies the inverse of each
// primitive in LIFO order, pushes the inverses onto the redo stack, and
// returns the cursor position to restore (the POSITION sentinel).
func (e *Engine) Undo() (buffer.Position, bool) {
	if !e.CanUndo() {
		return buffer.Position{}, false
	}
	c := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]

	inverse := e.replay(c)
	e.redoStack = append(e.redoStack, inverse)

	sentinel := c[0]
	return sentinel.Pos, true
}

// Redo pops the most recent undone composite and reapplies it.
func (e *Engine) Redo() (buffer.Position, bool) {
	if !e.CanRedo() {
		return buffer.Position{}, false
	}
	c := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]

	inverse := e.replay(c)
	e.undoStack = append(e.undoStack, inverse)

	sentinel := c[0]
	return sentinel.Pos, true
}

// replay applies the inverse of every primitive in c, from last-pushed to
// first (LIFO), and returns the composite of inverse primitives (itself
// replayable to reverse this replay).
func (e *Engine) replay(c composite) composite {
	savedDepth := e.depth
	e.depth = 1 // force primitives below to be accepted without re-bracketing
	defer func() { e.depth = savedDepth }()

	inverse := composite{&Change{Kind: KindPosition, Pos: c[0].Pos}}
	e.current = nil // primitives pushed via e.push below would otherwise land on e.current; we build inverse manually instead

	for i := len(c) - 1; i >= 1; i-- {
		prim := c[i]
		switch prim.Kind {
		case KindChar:
			// Undo an insert: delete the NChars that were inserted.
			line := e.lineByNumber(prim.Lineno)
			if line == nil {
				continue
			}
			deleted := append([]byte(nil), line.Text[prim.Index:prim.Index+prim.NChars]...)
			newText := append(append([]byte(nil), line.Text[:prim.Index]...), line.Text[prim.Index+prim.NChars:]...)
			line.SetText(newText)
			e.buf.Marks.ShiftLine(line, prim.Index, prim.NChars, -prim.NChars)
			inverse = append(inverse, &Change{Kind: KindDelChar, Lineno: prim.Lineno, Index: prim.Index, NChars: prim.NChars, Chars: deleted})

		case KindDelChar:
			// Undo a delete: reinsert the stashed bytes.
			line := e.lineByNumber(prim.Lineno)
			if line == nil {
				continue
			}
			newText := append(append(append([]byte(nil), line.Text[:prim.Index]...), prim.Chars...), line.Text[prim.Index:]...)
			line.SetText(newText)
			e.buf.Marks.ShiftLine(line, prim.Index, 0, len(prim.Chars))
			inverse = append(inverse, &Change{Kind: KindChar, Lineno: prim.Lineno, Index: prim.Index, NChars: len(prim.Chars)})

		case KindLine:
			anchor := e.lineForSplice(prim)
			old := e.buf.SpliceLines(anchor, prim.NLines, prim.Lines)
			for _, l := range old {
				e.buf.ClearLineMarks(l)
			}
			for _, l := range prim.Lines {
				e.buf.RestoreLineMarks(l)
			}
			inverse = append(inverse, &Change{Kind: KindLine, Lineno: anchor.Number, NLines: len(old), Lines: old})
		}
	}
	return inverse
}

// lineForSplice finds the line currently at prim's recorded start point —
// i.e. the first of the NLines lines that were spliced in when this change
// was originally applied, which we must now remove to restore prim.Lines.
func (e *Engine) lineForSplice(prim *Change) *buffer.Line {
	if prim.NLines == 0 {
		// Pure insertion originally: find insertion point by number.
		for l := e.buf.File(); !buffer.IsLastline(l); l = l.Next {
			if l.Number >= prim.Lineno {
				return l
			}
		}
		return e.buf.Lastline()
	}
	for l := e.buf.File(); !buffer.IsLastline(l); l = l.Next {
		if l.Number == prim.Lineno {
			return l
		}
	}
	return e.buf.File()
}

func (e *Engine) lineByNumber(n uint64) *buffer.Line {
	for l := e.buf.File(); !buffer.IsLastline(l); l = l.Next {
		if l.Number == n {
			return l
		}
	}
	return nil
}
