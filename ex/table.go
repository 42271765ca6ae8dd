package ex

// Flag is a bitmask of per-command parsing behaviours.
type Flag int

const (
	// EXCLAM means the command accepts a trailing '!' to force it.
	EXCLAM Flag = 1 << iota
	// FILEXP means the argument undergoes OS-level filename expansion
	// (glob/tilde) after INTEXP.
	FILEXP
	// INTEXP means '%'/'#' filename expansion runs on the argument.
	INTEXP
	// RANGE0 means an address of 0 is legal for this command, e.g.
	// :read, :put.
	RANGE0
)

// ArgShape names the argument grammar a command expects, mirroring the
// original's ec_arg_type enum.
type ArgShape int

const (
	ArgNone     ArgShape = iota // no arguments after the command
	ArgStrings                  // whitespace-separated strings
	Arg1String                  // like Strings but only one
	ArgFilecmd                  // a filename, or a "!command" to pipe through
	ArgLine                     // a line number or mark, naming a destination
	ArgRest                     // the rest of the line, verbatim
	ArgNonAlnum                 // arbitrary text up to a non-alphanumeric delimiter
	Arg1Lower                   // a single lower-case letter
)

// Command is one entry in the ex command table: its full name, a
// disambiguation priority (higher wins when several names share a
// prefix), its flags and argument shape, and the operation it runs.
type Command struct {
	Name     string
	Priority int
	Flags    Flag
	Arg      ArgShape
	Run      func(h *Handler, ctx *Context) error
}

// commandTable is grounded on cmdline.c's cmdtable[], carrying over name,
// priority and flags verbatim; Run wires each entry to this port's own
// operation, implemented across ops_*.go.
var commandTable = []Command{
	{Name: "!", Flags: INTEXP, Arg: ArgRest, Run: runShellFilter},

	{Name: "&", Arg: ArgRest, Run: runAmpersand},
	{Name: "~", Arg: ArgRest, Run: runTilde},
	{Name: "<", Run: runShiftLeft},
	{Name: "=", Run: runEquals},
	{Name: ">", Run: runShiftRight},
	{Name: "@", Arg: ArgRest, Run: runAtRegister},

	{Name: "args", Run: runArgs},

	{Name: "cd", Priority: 1, Flags: INTEXP | FILEXP, Arg: Arg1String, Run: runChdir},
	{Name: "chdir", Priority: 1, Flags: INTEXP | FILEXP, Arg: Arg1String, Run: runChdir},
	{Name: "close", Priority: 1, Flags: EXCLAM, Run: runClose},
	{Name: "copy", Priority: 1, Arg: ArgLine, Run: runCopy},

	{Name: "delete", Arg: ArgStrings, Run: runDelete},

	{Name: "edit", Priority: 1, Flags: EXCLAM | INTEXP | FILEXP, Arg: Arg1String, Run: runEdit},

	{Name: "global", Flags: EXCLAM, Arg: ArgNonAlnum, Run: runGlobal},

	{Name: "help", Run: runHelp},

	{Name: "join", Flags: EXCLAM, Arg: ArgStrings, Run: runJoin},

	{Name: "k", Arg: Arg1Lower, Run: runMark},

	{Name: "map", Flags: EXCLAM, Arg: ArgNonAlnum, Run: runMap},
	{Name: "mark", Arg: Arg1Lower, Run: runMark},
	{Name: "move", Priority: 1, Arg: ArgLine, Run: runMove},

	{Name: "next", Priority: 1, Flags: EXCLAM | INTEXP | FILEXP, Arg: ArgStrings, Run: runNext},

	{Name: "preserve", Run: runPreserve},
	{Name: "put", Flags: RANGE0, Arg: ArgStrings, Run: runPut},

	{Name: "quit", Flags: EXCLAM, Run: runQuit},

	{Name: "read", Priority: 1, Flags: INTEXP | FILEXP | RANGE0, Arg: ArgFilecmd, Run: runRead},
	{Name: "redo", Run: runRedo},
	{Name: "rewind", Flags: EXCLAM, Run: runRewind},

	{Name: "set", Arg: ArgStrings, Run: runSet},
	{Name: "source", Flags: INTEXP | FILEXP, Arg: Arg1String, Run: runSource},
	{Name: "split", Run: runSplit},
	{Name: "stop", Run: runSuspend},
	{Name: "substitute", Priority: 1, Arg: ArgNonAlnum, Run: runSubstitute},
	{Name: "suspend", Run: runSuspend},

	{Name: "t", Priority: 1, Arg: ArgLine, Run: runCopy},
	{Name: "tag", Flags: EXCLAM, Arg: Arg1String, Run: runTag},

	{Name: "undo", Priority: 1, Run: runUndo},
	{Name: "unmap", Flags: EXCLAM, Arg: ArgStrings, Run: runUnmap},

	{Name: "v", Priority: 1, Arg: ArgNonAlnum, Run: runV},
	{Name: "version", Run: runVersion},

	{Name: "wq", Flags: EXCLAM | INTEXP | FILEXP, Arg: ArgFilecmd, Run: runWriteQuit},
	{Name: "write", Priority: 1, Flags: EXCLAM | INTEXP | FILEXP, Arg: ArgFilecmd, Run: runWrite},

	{Name: "xit", Run: runXit},

	{Name: "yank", Arg: ArgStrings, Run: runYank},
}

// matchResult carries the outcome of resolving a typed command word
// against commandTable. Prefix matches are accepted if unambiguous or if
// priority distinguishes them.
type matchResult struct {
	cmd       *Command
	nameLen   int // bytes of the input consumed as the command name
	sawExclam bool
}

// lookupCommand ports the original's parsecmd() disambiguation: every
// table entry whose full Name the typed text is a (possibly partial)
// prefix of is a candidate — this is what lets ":s" mean substitute and
// ":co" mean copy without the whole word — provided a plausible
// delimiter follows the matched portion (end of text, whitespace, '!',
// or — for ArgNonAlnum/ArgRest/Arg1Lower/ArgLine/INTEXP commands — a byte
// shaped the way their argument grammar expects). Among candidates, the
// highest Priority wins; ties at that priority are ambiguous.
func lookupCommand(text string) (*matchResult, error) {
	var best *Command
	var bestLen int
	nmatches := 0

	consider := func(c *Command, n int, exclam bool) {
		if best == nil || c.Priority > best.Priority {
			best, bestLen, nmatches = c, n, 1
			return
		}
		if c.Priority == best.Priority {
			nmatches++
		}
	}

	for i := range commandTable {
		c := &commandTable[i]
		n := 0
		for n < len(c.Name) && n < len(text) && text[n] == c.Name[n] {
			n++
		}
		if n == 0 {
			continue // text doesn't even start this entry's name
		}
		rest := text[n:]
		switch {
		case rest == "":
			consider(c, n, false)
		case rest[0] == ' ' || rest[0] == '\t':
			consider(c, n, false)
		case rest[0] == '!' && (c.Flags&EXCLAM != 0 || c.Arg == ArgFilecmd):
			consider(c, n, true)
		case c.Arg == ArgNonAlnum && !isAlnum(rest[0]):
			consider(c, n, false)
		case c.Arg == ArgRest:
			consider(c, n, false)
		case c.Arg == Arg1Lower && n == len(c.Name) && isLower(rest[0]):
			consider(c, n, false)
		case c.Arg == ArgLine && !isAlpha(rest[0]):
			consider(c, n, false)
		case c.Flags&INTEXP != 0 && !isAlnum(rest[0]):
			consider(c, n, false)
		}
	}

	if best == nil {
		return nil, errUnknownCommand(text)
	}
	if nmatches != 1 {
		return nil, errAmbiguousCommand(text)
	}
	sawExclam := bestLen < len(text) && text[bestLen] == '!'
	return &matchResult{cmd: best, nameLen: bestLen, sawExclam: sawExclam}, nil
}

func isAlnum(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9')
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}
