package main

import (
	"fmt"
	"strconv"
	"strings"
)

// startupOptions is the parsed result of an argv, grounded on the
// original's xvi_startup argument loop: a run of "-t tag" /
// "-ttag" / "-s param=value" / "-sparam=value" options, optionally one
// trailing "+n" / "+/pat" / "+$" / bare "+" applying to exactly one
// following file, then the file list.
type startupOptions struct {
	Tag     string
	SetOpts []string // raw "param=value"/"param" strings, in argv order

	HaveLine bool
	Line     int // meaningful only if HaveLine; 0 means "last line"
	Pattern  string

	Files []string
}

func parseArgs(args []string) (*startupOptions, error) {
	opts := &startupOptions{}
	i := 0
	for i < len(args) {
		a := args[i]
		if len(a) == 0 || (a[0] != '-' && a[0] != '+') {
			break
		}
		if a[0] == '-' {
			n, err := parseDashOpt(args, i, opts)
			if err != nil {
				return nil, err
			}
			i = n
			continue
		}
		if err := parsePlusOpt(args, i, opts); err != nil {
			return nil, err
		}
		i += 2
		if i < len(args) {
			return nil, fmt.Errorf("xvi: no file names allowed after %q", a)
		}
		return opts, nil
	}

	if opts.Tag != "" && i < len(args) {
		return nil, fmt.Errorf("xvi: no file names allowed after -t")
	}
	if opts.Tag == "" {
		opts.Files = args[i:]
	}
	return opts, nil
}

// parseDashOpt handles one "-t"/"-s" option at args[i], returning the
// index of the next unconsumed argument.
func parseDashOpt(args []string, i int, opts *startupOptions) (int, error) {
	a := args[i]
	if len(a) < 2 {
		return 0, fmt.Errorf("xvi: unknown option %q", a)
	}
	switch a[1] {
	case 't':
		if len(opts.Files) != 0 {
			return 0, fmt.Errorf("xvi: -t cannot follow a file name")
		}
		if len(a) > 2 {
			opts.Tag = a[2:]
			return i + 1, nil
		}
		if i+1 >= len(args) {
			return 0, fmt.Errorf("xvi: -t needs an argument")
		}
		opts.Tag = args[i+1]
		return i + 2, nil

	case 's':
		if len(a) > 2 {
			opts.SetOpts = append(opts.SetOpts, a[2:])
			return i + 1, nil
		}
		if i+1 >= len(args) {
			return 0, fmt.Errorf("xvi: -s needs an argument")
		}
		opts.SetOpts = append(opts.SetOpts, args[i+1])
		return i + 2, nil

	default:
		return 0, fmt.Errorf("xvi: unknown option %q", a)
	}
}

// parsePlusOpt handles the single "+..." option at args[i], which must be
// immediately followed by exactly one filename.
func parsePlusOpt(args []string, i int, opts *startupOptions) error {
	a := args[i]
	if i+1 >= len(args) {
		return fmt.Errorf("xvi: %q must be followed by a file name", a)
	}
	rest := a[1:]
	switch {
	case rest == "", rest == "$":
		opts.HaveLine, opts.Line = true, 0
	case rest[0] == '/':
		opts.Pattern = rest[1:]
	default:
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("xvi: bad option %q", a)
		}
		opts.HaveLine, opts.Line = true, n
	}
	opts.Files = []string{args[i+1]}
	return nil
}

// splitXVInit splits an XVINIT-style init string into individual ex
// command lines on unescaped '|'/'\n', the same escaping rule the
// original's xvi_startup applies: a '\' immediately before one of those
// two characters makes it literal instead of a separator.
func splitXVInit(s string) []string {
	var out []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			if c != '|' && c != '\n' {
				cur.WriteByte('\\')
			}
			cur.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '|', '\n':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 || len(out) > 0 {
		out = append(out, cur.String())
	}
	return out
}
