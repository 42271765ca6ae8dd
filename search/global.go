package search

import (
	"fmt"

	"github.com/xvi-go/xvi/buffer"
)

// GlobalCmd is one of the commands `:g`/`:v` may run per matched line:
// d, p, l, s, &, ~.
type GlobalCmd func(buf *buffer.Buffer, line *buffer.Line) error

// Global marks every line in [first,last] matching pattern (or, if
// negate, every line NOT matching it), then runs cmd on each marked line
// in turn — ":[range]g/pat/cmd", "v" for negated. Lines are marked up
// front so a command that deletes or inserts lines doesn't perturb which
// original lines get processed.
func (e *Engine) Global(buf *buffer.Buffer, first, last *buffer.Line, pattern string, dialect Dialect, negate bool, cmd GlobalCmd) (int, error) {
	re, src, err := e.resolveOrLast(pattern, dialect)
	if err != nil {
		return 0, err
	}
	e.SetLastSearch(re, src)

	var marked []*buffer.Line
	for l := first; ; l = l.Next {
		if re.Match(l.Text) != negate {
			marked = append(marked, l)
		}
		if l == last {
			break
		}
	}

	count := 0
	for _, l := range marked {
		if err := cmd(buf, l); err != nil {
			return count, fmt.Errorf("search: global: %w", err)
		}
		count++
	}
	return count, nil
}
