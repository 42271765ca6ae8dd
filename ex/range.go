package ex

import (
	"fmt"
	"strconv"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/search"
)

// skipSpace returns the index of the first non-blank byte at or after pos.
func skipSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}

// searchDialect reports the pattern dialect the `magic`/`regextype`
// parameters currently select, for the '/pat/' and '?pat?' address forms.
func (h *Handler) searchDialect() search.Dialect {
	switch h.Params.Str("regextype") {
	case "egrep":
		return search.DialectEgrep
	case "none":
		return search.DialectNone
	default:
		return search.DialectGrep
	}
}

// scanDelim reads up to the next unescaped delim, or the end of s,
// unescaping "\delim" to a literal delim along the way, as the '/pat/'
// and '?pat?' address forms require.
func scanDelim(s string, pos int, delim byte) (string, int, error) {
	var out []byte
	for pos < len(s) {
		c := s[pos]
		if c == '\\' && pos+1 < len(s) && s[pos+1] == delim {
			out = append(out, delim)
			pos += 2
			continue
		}
		if c == delim {
			return string(out), pos + 1, nil
		}
		out = append(out, c)
		pos++
	}
	return string(out), pos, nil
}

// stepLines walks n real lines forward (n>0) or backward (n<0) from l,
// erroring if that would cross the line0/lastline sentinels, backing the
// "+count/-count" address offset forms.
func stepLines(l *buffer.Line, n int) (*buffer.Line, error) {
	cur := l
	for n > 0 {
		if cur.Next == nil || buffer.IsLastline(cur.Next) {
			return nil, fmt.Errorf("ex: no such line")
		}
		cur = cur.Next
		n--
	}
	for n < 0 {
		if cur.Prev == nil || buffer.IsLine0(cur.Prev) {
			return nil, fmt.Errorf("ex: no such line")
		}
		cur = cur.Prev
		n++
	}
	return cur, nil
}

// parseAddr parses one `addr` production: a base (pattern, mark, '.',
// '$', line number, or 0) followed by any number of +/-count offsets.
// present is false when nothing addr-shaped was found at pos, letting the
// caller treat a missing address as "not given" rather than an error.
func (h *Handler) parseAddr(s string, pos int) (line *buffer.Line, newPos int, present bool, err error) {
	pos = skipSpace(s, pos)
	switch {
	case pos < len(s) && s[pos] == '.':
		line, pos, present = h.Win.Cursor.Line, pos+1, true

	case pos < len(s) && s[pos] == '$':
		line, pos, present = h.Buf.Lastline().Prev, pos+1, true

	case pos < len(s) && (s[pos] == '\'' || s[pos] == '`'):
		if pos+1 >= len(s) {
			return nil, pos, false, fmt.Errorf("ex: mark name expected")
		}
		mk := s[pos+1]
		p, ok := h.Buf.Marks.Get(mk)
		if !ok {
			return nil, pos, false, fmt.Errorf("ex: mark '%c' not set", mk)
		}
		line, pos, present = p.Line, pos+2, true

	case pos < len(s) && s[pos] == '/':
		pat, next, serr := scanDelim(s, pos+1, '/')
		if serr != nil {
			return nil, pos, false, serr
		}
		l, found, serr := h.Search.LineSearch(h.Win.Cursor.Line, search.Forward, pat, h.searchDialect())
		if serr != nil {
			return nil, pos, false, serr
		}
		if !found {
			return nil, pos, false, fmt.Errorf("ex: pattern not found: %s", pat)
		}
		line, pos, present = l, next, true

	case pos < len(s) && s[pos] == '?':
		pat, next, serr := scanDelim(s, pos+1, '?')
		if serr != nil {
			return nil, pos, false, serr
		}
		l, found, serr := h.Search.LineSearch(h.Win.Cursor.Line, search.Backward, pat, h.searchDialect())
		if serr != nil {
			return nil, pos, false, serr
		}
		if !found {
			return nil, pos, false, fmt.Errorf("ex: pattern not found: %s", pat)
		}
		line, pos, present = l, next, true

	case pos < len(s) && s[pos] == '0' && (pos+1 >= len(s) || s[pos+1] < '0' || s[pos+1] > '9'):
		line, pos, present = h.Buf.Line0(), pos+1, true

	case pos < len(s) && s[pos] >= '1' && s[pos] <= '9':
		start := pos
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			pos++
		}
		n, _ := strconv.Atoi(s[start:pos])
		l := h.Buf.LineAt(n)
		if l == nil {
			return nil, pos, false, fmt.Errorf("ex: line %d out of range", n)
		}
		line, present = l, true
	}

	for {
		p2 := skipSpace(s, pos)
		if p2 >= len(s) || (s[p2] != '+' && s[p2] != '-') {
			break
		}
		sign := 1
		if s[p2] == '-' {
			sign = -1
		}
		p2 = skipSpace(s, p2+1)
		start := p2
		for p2 < len(s) && s[p2] >= '0' && s[p2] <= '9' {
			p2++
		}
		count := 1
		if p2 > start {
			count, _ = strconv.Atoi(s[start:p2])
		}
		if line == nil {
			line = h.Win.Cursor.Line
		}
		nl, serr := stepLines(line, sign*count)
		if serr != nil {
			return nil, p2, false, serr
		}
		line, pos, present = nl, p2, true
	}

	return line, pos, present, nil
}

// parseRange parses the `range` production: '%', a single addr (which
// addresses just that one line), or two addrs joined by ',' or ';'. A ';'
// separator sets the current line to the first address before the second
// is parsed, exactly like the original, which lets ".;/pat/" search
// relative to the first address rather than the line the command started
// on.
func (h *Handler) parseRange(s string, pos int) (first, last *buffer.Line, have bool, newPos int, err error) {
	pos = skipSpace(s, pos)
	if pos < len(s) && s[pos] == '%' {
		return h.Buf.File(), h.Buf.Lastline().Prev, true, pos + 1, nil
	}

	a1, p1, present1, err := h.parseAddr(s, pos)
	if err != nil {
		return nil, nil, false, pos, err
	}
	if !present1 {
		return nil, nil, false, pos, nil
	}
	pos = p1
	first, last = a1, a1

	if pos < len(s) && (s[pos] == ',' || s[pos] == ';') {
		sep := s[pos]
		pos++
		if sep == ';' {
			h.Win.Cursor = buffer.Position{Line: a1}
		}
		a2, p2, present2, aerr := h.parseAddr(s, pos)
		if aerr != nil {
			return nil, nil, false, pos, aerr
		}
		if present2 {
			last = a2
			pos = p2
		}
	}

	return first, last, true, pos, nil
}
