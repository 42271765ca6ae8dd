package ex

import (
	"os"
	"path/filepath"
	"strings"
)

// expandSpecials expands '%' to the current filename and '#' to the
// alternate filename, honouring a leading backslash to suppress expansion.
// Only commands whose table entry carries INTEXP run this.
func (h *Handler) expandSpecials(arg string) string {
	var b strings.Builder
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if c == '\\' && i+1 < len(arg) && (arg[i+1] == '%' || arg[i+1] == '#') {
			b.WriteByte(arg[i+1])
			i++
			continue
		}
		switch c {
		case '%':
			b.WriteString(h.Buf.Filename)
		case '#':
			b.WriteString(h.AltFile)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// expandGlob resolves '~' to the user's home directory and, if path
// contains any other glob metacharacters, to its first filesystem match.
// This is the FILEXP stage, which runs after INTEXP. An unmatched
// pattern, or a plain literal path, is returned unchanged.
func expandGlob(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	if strings.ContainsAny(path, "*?[") {
		matches, err := filepath.Glob(path)
		if err == nil && len(matches) > 0 {
			return matches[0]
		}
	}
	return path
}
