// Package search implements regex search, substitution and the `:g`
// global command, translating between the tags/grep/egrep user-facing
// dialects and Go's RE2 syntax before handing off to the standard regexp
// package, the role an external Spencer-style NFA library plays in the
// original.
package search

import (
	"fmt"
	"regexp"

	"github.com/xvi-go/xvi/buffer"
)

// Dialect is one of the three user-facing pattern syntaxes
// (`tags`, `grep`, `egrep`); `magic` off maps to the fourth,
// "none" (literal), via param's magic/regextype cross-update.
type Dialect int

const (
	DialectGrep Dialect = iota
	DialectEgrep
	DialectTags
	DialectNone
)

// Direction is the search direction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Engine holds the compiled-pattern state search/substitute require: the
// last search pattern, and separately the last substitution pattern and
// replacement string (so `~` in a later :s can refer back to it).
type Engine struct {
	WrapScan bool

	lastSearch    *regexp.Regexp
	lastSearchSrc string
	lastDir       Direction

	lastSubst    *regexp.Regexp
	lastSubstSrc string
	lastReplace  string
}

// New creates an Engine with wrapscan enabled, the param store's default.
func New() *Engine { return &Engine{WrapScan: true} }

// Compile translates pattern from dialect into Go regexp syntax and
// compiles it.
func Compile(pattern string, dialect Dialect) (*regexp.Regexp, error) {
	translated := translate(pattern, dialect)
	re, err := regexp.Compile(translated)
	if err != nil {
		return nil, fmt.Errorf("search: bad pattern %q: %w", pattern, err)
	}
	return re, nil
}

// translate maps a dialect's escaping conventions onto RE2 syntax. grep
// (basic regex) uses backslash for grouping metacharacters; egrep and
// tags are already close to RE2 and pass through with minimal changes.
func translate(pattern string, dialect Dialect) string {
	switch dialect {
	case DialectNone:
		return regexp.QuoteMeta(pattern)
	case DialectGrep:
		return bre2ere(pattern)
	default:
		return pattern
	}
}

// bre2ere converts basic-regex escaping (\( \) \{ \} \+ \? meaning
// "metacharacter") into extended-regex/RE2 escaping (bare ( ) { } + ?
// meaning metacharacter, backslash meaning literal).
func bre2ere(pattern string) string {
	out := make([]byte, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			switch next {
			case '(', ')', '{', '}', '+', '?', '|':
				out = append(out, next)
				i++
				continue
			}
		}
		switch c {
		case '(', ')', '{', '}', '+', '?', '|':
			out = append(out, '\\', c)
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// SetLastSearch installs re/src as the last-used search pattern, as
// Search/xvFindPattern's "becomes the new last pattern" rule requires.
func (e *Engine) SetLastSearch(re *regexp.Regexp, src string) {
	e.lastSearch, e.lastSearchSrc = re, src
}

// LastSearchPattern returns the most recent search pattern's source text,
// for ":~"'s "substitute using the last search pattern as lhs" rule.
func (e *Engine) LastSearchPattern() (src string, ok bool) {
	if e.lastSearch == nil {
		return "", false
	}
	return e.lastSearchSrc, true
}

// resolveOrLast compiles pattern if non-empty, else reuses the last
// search pattern.
func (e *Engine) resolveOrLast(pattern string, dialect Dialect) (*regexp.Regexp, string, error) {
	if pattern == "" {
		if e.lastSearch == nil {
			return nil, "", fmt.Errorf("search: no previous pattern")
		}
		return e.lastSearch, e.lastSearchSrc, nil
	}
	re, err := Compile(pattern, dialect)
	if err != nil {
		return nil, "", err
	}
	return re, pattern, nil
}

// Search performs a direction-aware search from (startLine,startIndex),
// honouring wrapscan, and becomes the new last pattern on success.
func (e *Engine) Search(start buffer.Position, dir Direction, pattern string, dialect Dialect) (buffer.Position, bool, error) {
	re, src, err := e.resolveOrLast(pattern, dialect)
	if err != nil {
		return buffer.Position{}, false, err
	}
	pos, ok := scan(start, dir, re, e.WrapScan)
	if ok {
		e.SetLastSearch(re, src)
		e.lastDir = dir
	}
	return pos, ok, nil
}

// LastDirection returns the direction of the most recent successful
// Search, the direction `n` repeats and `N` reverses.
func (e *Engine) LastDirection() Direction { return e.lastDir }

// FindPattern is a one-shot search that does not update the last
// pattern, the role of the original's xvFindPattern.
func (e *Engine) FindPattern(start buffer.Position, dir Direction, pattern string, dialect Dialect) (buffer.Position, bool, error) {
	re, err := Compile(pattern, dialect)
	if err != nil {
		return buffer.Position{}, false, err
	}
	pos, ok := scan(start, dir, re, e.WrapScan)
	return pos, ok, nil
}

// LineSearch is the line-granular wrapper range addresses use: it
// returns the line containing the first match, not the exact position.
func (e *Engine) LineSearch(start *buffer.Line, dir Direction, pattern string, dialect Dialect) (*buffer.Line, bool, error) {
	pos, ok, err := e.Search(buffer.Position{Line: start, Index: 0}, dir, pattern, dialect)
	if err != nil || !ok {
		return nil, false, err
	}
	return pos.Line, true, nil
}

// scan walks the buffer's line list from start in the given direction,
// returning the first match position; it wraps once if wrapScan is set.
func scan(start buffer.Position, dir Direction, re *regexp.Regexp, wrapScan bool) (buffer.Position, bool) {
	if pos, ok := scanOnce(start, dir, re, nil); ok {
		return pos, true
	}
	if !wrapScan {
		return buffer.Position{}, false
	}
	from := start.Line
	if dir == Forward {
		for from.Prev != nil && !buffer.IsLine0(from.Prev) {
			from = from.Prev
		}
		return scanOnce(buffer.Position{Line: from, Index: 0}, dir, re, start.Line.Next)
	}
	for from.Next != nil && !buffer.IsLastline(from.Next) {
		from = from.Next
	}
	return scanOnce(buffer.Position{Line: from, Index: len(from.Text)}, dir, re, start.Line.Prev)
}

// scanOnce scans from start to the buffer's boundary (or, on the wrap
// pass, back around to stopAt) in one direction.
func scanOnce(start buffer.Position, dir Direction, re *regexp.Regexp, stopAt *buffer.Line) (buffer.Position, bool) {
	if dir == Forward {
		line := start.Line
		idx := start.Index
		first := true
		for line != nil {
			if !first || idx < len(line.Text) {
				if loc := re.FindIndex(line.Text[idx:]); loc != nil {
					return buffer.Position{Line: line, Index: idx + loc[0]}, true
				}
			}
			first = false
			idx = 0
			next := line.Next
			if stopAt != nil && next == stopAt {
				return buffer.Position{}, false
			}
			line = next
		}
		return buffer.Position{}, false
	}

	line := start.Line
	idx := start.Index
	for line != nil {
		if loc := lastMatchBefore(re, line.Text, idx); loc != nil {
			return buffer.Position{Line: line, Index: loc[0]}, true
		}
		prev := line.Prev
		if stopAt != nil && prev == stopAt {
			return buffer.Position{}, false
		}
		line = prev
		if line != nil {
			idx = len(line.Text)
		}
	}
	return buffer.Position{}, false
}

// lastMatchBefore finds the rightmost match entirely within text[:limit].
func lastMatchBefore(re *regexp.Regexp, text []byte, limit int) []int {
	if limit > len(text) {
		limit = len(text)
	}
	matches := re.FindAllIndex(text[:limit], -1)
	if len(matches) == 0 {
		return nil
	}
	return matches[len(matches)-1]
}
