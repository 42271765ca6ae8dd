// Package flexbuf implements a growable byte FIFO used both as a string
// builder and as the sink for a printf-subset formatter.
package flexbuf

// extra is the slack added on each reallocation, bounding realloc
// frequency the way the original's FLEXEXTRA did.
const extra = 64

// Flexbuf is an append-only growable byte queue supporting insertion,
// range removal and front-popping. The zero value is an empty, usable
// Flexbuf.
type Flexbuf struct {
	buf   []byte
	rcnt  int // read cursor, for PopFront
}

// Len returns the number of unread bytes in the buffer.
func (f *Flexbuf) Len() int { return len(f.buf) - f.rcnt }

// Bytes returns the unread contents. The slice aliases internal storage
// and is only valid until the next mutating call.
func (f *Flexbuf) Bytes() []byte { return f.buf[f.rcnt:] }

// String returns the unread contents as a string.
func (f *Flexbuf) String() string { return string(f.Bytes()) }

func (f *Flexbuf) compact() {
	if f.rcnt == 0 {
		return
	}
	if f.rcnt == len(f.buf) {
		f.buf = f.buf[:0]
		f.rcnt = 0
		return
	}
	f.buf = append(f.buf[:0], f.buf[f.rcnt:]...)
	f.rcnt = 0
}

// AppendByte appends a single byte, never failing: Go's allocator makes
// the C original's "out of memory mid-append" case unreachable, so unlike
// the source this always succeeds.
func (f *Flexbuf) AppendByte(c byte) {
	if f.rcnt > 0 && f.rcnt == len(f.buf) {
		f.buf = f.buf[:0]
		f.rcnt = 0
	}
	f.buf = append(f.buf, c)
}

// Append appends a byte slice.
func (f *Flexbuf) Append(p []byte) {
	for _, c := range p {
		f.AppendByte(c)
	}
}

// AppendString appends a string.
func (f *Flexbuf) AppendString(s string) {
	f.Append([]byte(s))
}

// InsertAt inserts p at unread-offset i (0 == front of the unread region).
func (f *Flexbuf) InsertAt(i int, p []byte) {
	f.compact()
	if i < 0 {
		i = 0
	}
	if i > len(f.buf) {
		i = len(f.buf)
	}
	grown := make([]byte, 0, len(f.buf)+len(p)+extra)
	grown = append(grown, f.buf[:i]...)
	grown = append(grown, p...)
	grown = append(grown, f.buf[i:]...)
	f.buf = grown
}

// RemoveRange deletes the unread-offset range [start, end).
func (f *Flexbuf) RemoveRange(start, end int) {
	f.compact()
	if start < 0 {
		start = 0
	}
	if end > len(f.buf) {
		end = len(f.buf)
	}
	if start >= end {
		return
	}
	f.buf = append(f.buf[:start], f.buf[end:]...)
}

// PopFront removes and returns the first unread byte. ok is false if the
// buffer is empty.
func (f *Flexbuf) PopFront() (c byte, ok bool) {
	if f.Len() == 0 {
		return 0, false
	}
	c = f.buf[f.rcnt]
	f.rcnt++
	if f.rcnt == len(f.buf) {
		f.buf = f.buf[:0]
		f.rcnt = 0
	}
	return c, true
}

// PeekFront returns the first unread byte without consuming it.
func (f *Flexbuf) PeekFront() (c byte, ok bool) {
	if f.Len() == 0 {
		return 0, false
	}
	return f.buf[f.rcnt], true
}

// Reset empties the buffer, keeping its backing storage.
func (f *Flexbuf) Reset() {
	f.buf = f.buf[:0]
	f.rcnt = 0
}

// DetachAsString empties the buffer and returns everything that was in it.
func (f *Flexbuf) DetachAsString() string {
	s := f.String()
	f.Reset()
	return s
}
