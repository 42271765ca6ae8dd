package register

// PushDeleted rotates the numbered kill ring — registers '1'..'9' shift to
// '2'..'9' (the old '9' is dropped), then the unnamed register's content
// becomes the new '1', mirroring the original's yp_push_deleted.
// Callers invoke this once before any destructive operation that fills the
// unnamed register.
func (b *Bank) PushDeleted() {
	for name := byte('9'); name > '1'; name-- {
		src, _ := b.Get(name - 1)
		dst, _ := b.Get(name)
		dst.set(src)
	}
	one, _ := b.Get('1')
	un := b.Unnamed()
	one.set(un)
}

// StuffInput renders a register's content as a byte stream suitable for
// re-injection into the mapped keystroke stream, e.g. for "@a" macro
// playback, mirroring the original's yp_stuff_input. Line-mode registers
// get a trailing newline appended after every line so that each becomes
// its own input line.
func (b *Bank) StuffInput(name byte) ([]byte, error) {
	r, err := b.Get(name)
	if err != nil {
		return nil, err
	}
	if r.IsEmpty() {
		return nil, nil
	}

	var out []byte
	switch r.Kind {
	case Chars:
		out = append(out, r.FirstSegment...)
		for _, l := range r.MidLines {
			out = append(out, '\n')
			out = append(out, l.Text...)
		}
		if r.LastSegment != nil {
			out = append(out, '\n')
			out = append(out, r.LastSegment...)
		}
	case Lines:
		for _, l := range r.WholeLines {
			out = append(out, l.Text...)
			out = append(out, '\n')
		}
	}
	return out, nil
}
