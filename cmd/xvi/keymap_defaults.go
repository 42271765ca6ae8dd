package main

import "github.com/xvi-go/xvi/keymap"

// defaultKeyMap builds the fixed escape-sequence key map, a fixed key
// map populated by the backend: the handful of ANSI cursor/editing
// sequences a raw terminal sends for keys with no vi-command byte of
// their own, folded down to the nearest vi-normal-mode equivalent so
// normal-mode parsing never has to know about ESC-prefixed sequences.
func defaultKeyMap() *keymap.Map {
	m := keymap.NewMap()
	add := func(seq, rhs string) { m.Define(seq, rhs) }

	add("\x1b[A", "k") // Up
	add("\x1b[B", "j") // Down
	add("\x1b[C", "l") // Right
	add("\x1b[D", "h") // Left
	add("\x1bOA", "k")
	add("\x1bOB", "j")
	add("\x1bOC", "l")
	add("\x1bOD", "h")

	add("\x1b[H", "^") // Home
	add("\x1b[F", "$") // End
	add("\x1b[1~", "^")
	add("\x1b[4~", "$")

	add("\x1b[5~", "\x02") // PageUp -> ^B
	add("\x1b[6~", "\x06") // PageDown -> ^F

	add("\x1b[3~", "x") // Delete -> delete char under cursor

	return m
}
