package search

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/xvi-go/xvi/buffer"
)

// SetLastSubst installs re/src/replacement as the last substitution used,
// so a bare `~` in a later replacement can refer back to it.
func (e *Engine) SetLastSubst(re *regexp.Regexp, src, replacement string) {
	e.lastSubst, e.lastSubstSrc, e.lastReplace = re, src, replacement
}

// LastSubstitution returns the pattern source and replacement text from
// the most recent Substitute call, for ":s" and ":&" with no arguments of
// their own.
func (e *Engine) LastSubstitution() (lhsSrc, rhs string, ok bool) {
	if e.lastSubst == nil {
		return "", "", false
	}
	return e.lastSubstSrc, e.lastReplace, true
}

// Substitute runs `:[range]s/lhs/rhs/[g]` over [first,last] inclusive,
// replacing at most one match per line unless global is set.
// `\#` in rhs expands to the line number of the line being processed.
func (e *Engine) Substitute(buf *buffer.Buffer, first, last *buffer.Line, lhs, rhs string, dialect Dialect, global bool) (int, error) {
	re, srcPattern, err := e.resolveOrLast(lhs, dialect)
	if err != nil {
		return 0, err
	}
	e.SetLastSubst(re, srcPattern, rhs)

	count := 0
	lineNo := uint64(buf.LineNo(first))
	for l := first; ; {
		next := l.Next
		changed, newText := substituteLine(re, l.Text, rhs, lineNo, global, e.lastReplace)
		if changed {
			if err := buf.ReplChars(l, 0, len(l.Text), newText); err != nil {
				return count, fmt.Errorf("search: substitute: %w", err)
			}
			count++
		}
		if l == last {
			break
		}
		l = next
		lineNo++
	}
	return count, nil
}

// substituteLine applies re/rhs to text once (or globally), expanding
// rhs's special sequences per match. Zero-width matches advance one byte
// to avoid looping forever.
func substituteLine(re *regexp.Regexp, text []byte, rhs string, lineNo uint64, global bool, lastReplace string) (bool, []byte) {
	out := make([]byte, 0, len(text))
	pos := 0
	changed := false
	for pos <= len(text) {
		loc := re.FindSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		out = append(out, text[pos:start]...)
		groups := make([][]byte, len(loc)/2)
		for i := range groups {
			if loc[2*i] < 0 {
				continue
			}
			groups[i] = text[pos+loc[2*i] : pos+loc[2*i+1]]
		}
		out = append(out, expandReplacement(rhs, groups, lineNo, lastReplace)...)
		changed = true

		if end == start {
			if start < len(text) {
				out = append(out, text[start])
			}
			pos = start + 1
		} else {
			pos = end
		}
		if !global {
			out = append(out, text[pos:]...)
			return true, out
		}
	}
	out = append(out, text[pos:]...)
	return changed, out
}

// expandReplacement interprets rhs's special sequences: &/\0 (whole
// match), \1-\9 (groups), \# (line number), \u \U \l \L \e \E
// (case-folding toggles), ~ / \~ (last replacement, recursively
// expanded).
func expandReplacement(rhs string, groups [][]byte, lineNo uint64, lastReplace string) []byte {
	var out []byte
	var foldOne byte // 0, 'u' or 'l': fold exactly the next emitted byte
	var foldSticky byte // 0, 'U' or 'L': fold until \e/\E

	emit := func(b byte) {
		if foldOne == 'u' {
			out = append(out, upper(b))
			foldOne = 0
			return
		}
		if foldOne == 'l' {
			out = append(out, lower(b))
			foldOne = 0
			return
		}
		switch foldSticky {
		case 'U':
			out = append(out, upper(b))
		case 'L':
			out = append(out, lower(b))
		default:
			out = append(out, b)
		}
	}
	emitBytes := func(bs []byte) {
		for _, b := range bs {
			emit(b)
		}
	}

	for i := 0; i < len(rhs); i++ {
		c := rhs[i]
		if c == '&' {
			if len(groups) > 0 {
				emitBytes(groups[0])
			}
			continue
		}
		if c == '~' {
			emitBytes(expandReplacement(lastReplace, groups, lineNo, lastReplace))
			continue
		}
		if c != '\\' || i+1 >= len(rhs) {
			emit(c)
			continue
		}
		i++
		switch n := rhs[i]; {
		case n == '0':
			if len(groups) > 0 {
				emitBytes(groups[0])
			}
		case n >= '1' && n <= '9':
			idx := int(n - '0')
			if idx < len(groups) {
				emitBytes(groups[idx])
			}
		case n == '#':
			emitBytes([]byte(strconv.FormatUint(lineNo, 10)))
		case n == 'u', n == 'l':
			foldOne = n
		case n == 'U', n == 'L':
			foldSticky = n
		case n == 'e', n == 'E':
			foldSticky = 0
		case n == '~':
			emitBytes(expandReplacement(lastReplace, groups, lineNo, lastReplace))
		default:
			emit(n)
		}
	}
	return out
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}
