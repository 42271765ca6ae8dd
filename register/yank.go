package register

import "github.com/xvi-go/xvi/buffer"

// parts is chars-representation broken into head/mid/tail the way
// Register stores it, but normalised so tail==nil means "single segment,
// no line break" (head is then the whole content).
type parts struct {
	head []byte
	mid  []*buffer.Line
	tail []byte
}

func extract(r *Register) parts {
	return parts{head: r.FirstSegment, mid: r.MidLines, tail: r.LastSegment}
}

func build(p parts) *Register {
	return &Register{Kind: Chars, FirstSegment: p.head, MidLines: p.mid, LastSegment: p.tail}
}

// join concatenates a then b as chars content, merging the line where a's
// content ends and b's content begins — register append semantics,
// preserving yank(X) then append-yank(Y) == yank(X∥Y).
func join(a, b parts) parts {
	aLast := a.tail
	if aLast == nil {
		aLast = a.head
	}
	joined := append(append([]byte(nil), aLast...), b.head...)

	switch {
	case a.tail == nil && b.tail == nil:
		return parts{head: joined}
	case a.tail == nil:
		return parts{head: joined, mid: b.mid, tail: b.tail}
	case b.tail == nil:
		return parts{head: a.head, mid: a.mid, tail: joined}
	default:
		mid := make([]*buffer.Line, 0, len(a.mid)+1+len(b.mid))
		mid = append(mid, a.mid...)
		mid = append(mid, &buffer.Line{Text: joined})
		mid = append(mid, b.mid...)
		return parts{head: a.head, mid: mid, tail: b.tail}
	}
}

func yankChars(from, to buffer.Position) *Register {
	if from.Line == to.Line {
		return &Register{Kind: Chars, FirstSegment: append([]byte(nil), from.Line.Text[from.Index:to.Index]...)}
	}
	var mid []*buffer.Line
	for l := from.Line.Next; l != to.Line; l = l.Next {
		mid = append(mid, l.Clone())
	}
	return &Register{
		Kind:         Chars,
		FirstSegment: append([]byte(nil), from.Line.Text[from.Index:]...),
		MidLines:     mid,
		LastSegment:  append([]byte(nil), to.Line.Text[:to.Index]...),
	}
}

func yankLines(from, to *buffer.Line) *Register {
	r := &Register{Kind: Lines}
	for l := from; ; l = l.Next {
		r.WholeLines = append(r.WholeLines, l.Clone())
		if l == to {
			break
		}
	}
	return r
}

// linesToChars converts a Lines register into an equivalent Chars one:
// each whole line becomes first-segment/mid/last-segment with empty
// head/tail. Appending a chars-mode yank onto a line-mode register forces
// this conversion.
func linesToChars(r *Register) *Register {
	if len(r.WholeLines) == 0 {
		return &Register{Kind: Chars}
	}
	if len(r.WholeLines) == 1 {
		return &Register{Kind: Chars, FirstSegment: append([]byte(nil), r.WholeLines[0].Text...)}
	}
	first := r.WholeLines[0]
	last := r.WholeLines[len(r.WholeLines)-1]
	mid := make([]*buffer.Line, 0, len(r.WholeLines)-2)
	for _, l := range r.WholeLines[1 : len(r.WholeLines)-1] {
		mid = append(mid, l.Clone())
	}
	return &Register{
		Kind:         Chars,
		FirstSegment: append([]byte(nil), first.Text...),
		MidLines:     mid,
		LastSegment:  append([]byte(nil), last.Text...),
	}
}

// charsToLines converts a Chars register into a Lines one by treating
// head/mid/tail each as a whole line.
func charsToLines(r *Register) *Register {
	out := &Register{Kind: Lines}
	out.WholeLines = append(out.WholeLines, &buffer.Line{Text: append([]byte(nil), r.FirstSegment...)})
	for _, l := range r.MidLines {
		out.WholeLines = append(out.WholeLines, l.Clone())
	}
	if r.LastSegment != nil {
		out.WholeLines = append(out.WholeLines, &buffer.Line{Text: append([]byte(nil), r.LastSegment...)})
	}
	return out
}

// Yank fills the named register from [from, to], mirroring the
// original's do_yank. If name is uppercase, the yank is appended to its
// lowercase register
// instead of replacing it; the unnamed register always mirrors the most
// recent lettered (a-z/A-Z) yank.
func (b *Bank) Yank(from, to buffer.Position, charBased bool, name byte) error {
	lower, doAppend, ok := normalize(name)
	if !ok {
		return errInvalidName(name)
	}
	dst, _ := b.Get(lower)

	var src *Register
	if charBased {
		src = yankChars(from, to)
	} else {
		src = yankLines(from.Line, to.Line)
	}

	if doAppend && dst.Kind != None {
		dst.set(mergeAppend(dst, src))
	} else {
		dst.set(src)
	}

	if isLetterReg(lower) {
		un, _ := b.Get('@')
		un.set(dst)
	}
	return nil
}

func isLetterReg(name byte) bool { return name >= 'a' && name <= 'z' }

func mergeAppend(dst, src *Register) *Register {
	d, s := dst, src
	if s.Kind == Chars && d.Kind == Lines {
		d = linesToChars(d)
	}
	if s.Kind == Lines && d.Kind == Chars {
		d = charsToLines(d)
	}
	if d.Kind == Chars {
		return build(join(extract(d), extract(s)))
	}
	out := &Register{Kind: Lines}
	out.WholeLines = append(append([]*buffer.Line{}, d.WholeLines...), s.WholeLines...)
	return out
}

type invalidNameError struct{ name byte }

func (e invalidNameError) Error() string { return "register: invalid name '" + string(e.name) + "'" }

func errInvalidName(name byte) error { return invalidNameError{name} }
