// Package pipeline implements the `!` filter operator: pipe a range of
// lines through a shell command, replacing them with its output, grounded
// on the original's pipe.c.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/xvi-go/xvi/buffer"
)

// LastCmd remembers the most recent filter command, so a bare "!!"
// repeats it, the original's `lastcmd`/p_write `!` handling.
type LastCmd struct {
	cmd string
}

// Resolve returns command unchanged unless it is exactly "!" (the
// repeat-last-command shorthand), in which case it substitutes the
// remembered command. It always records the resolved command as the new
// last command.
func (l *LastCmd) Resolve(command string) (string, error) {
	if command == "!" {
		if l.cmd == "" {
			return "", fmt.Errorf("pipeline: no previous command")
		}
		return l.cmd, nil
	}
	l.cmd = command
	return command, nil
}

// Filter pipes the lines [first,last] through shell, replacing them with
// the command's stdout, split into lines, mirroring the original's
// do_pipe. If the command produces no output, the original lines are
// left untouched and ok is false so the caller can surface "command
// produced no output".
func Filter(ctx context.Context, buf *buffer.Buffer, shell string, first, last *buffer.Line, command string) (ok bool, err error) {
	var input bytes.Buffer
	n := 0
	for l := first; ; l = l.Next {
		input.Write(l.Text)
		input.WriteByte('\n')
		n++
		if l == last {
			break
		}
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stdin = &input
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("pipeline: run %q: %w", command, err)
	}

	newLines := splitLines(stdout.Bytes())
	if len(newLines) == 0 {
		return false, nil
	}

	if err := buf.ReplLines(first, n, newLines); err != nil {
		return false, fmt.Errorf("pipeline: %w", err)
	}
	return true, nil
}

func splitLines(data []byte) []*buffer.Line {
	var out []*buffer.Line
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		l := &buffer.Line{}
		l.SetText(append([]byte(nil), sc.Bytes()...))
		out = append(out, l)
	}
	return out
}
