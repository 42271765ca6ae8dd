// Package clipboard mirrors the unnamed register to the host OS clipboard
// over OSC 52, the optional sibling of the register bank — the original
// has no such mirror. Mirroring is entirely best-effort: a Provider
// failure never stops a yank or put from completing, it only keeps the
// register bank's own copy authoritative.
package clipboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/xvi-go/xvi/register"
)

// Provider is anything that can accept a blob of text for the host
// clipboard. OSC52Provider is the only implementation; tests use a fake.
type Provider interface {
	Write(data []byte) error
}

// Entry is one historical mirror event: the flattened register text that
// was sent to the clipboard, identified by a session/entry uuid the same
// way preserve disambiguates its own temp files.
//
// Invariants:
//   - ID is a non-empty uuid, stable for the lifetime of the entry
//   - Data is a private copy; callers may retain and mutate their own slice
type Entry struct {
	ID        string
	Register  byte
	Data      []byte
	Timestamp time.Time
}

func newEntry(reg byte, data []byte) Entry {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Entry{
		ID:        uuid.New().String(),
		Register:  reg,
		Data:      cp,
		Timestamp: time.Now(),
	}
}

// Mirror watches register writes and pushes the flattened text out to a
// Provider, keeping a capped history of what it sent.
type Mirror struct {
	provider   Provider
	maxHistory int
	history    []Entry
}

// NewMirror builds a Mirror over provider. maxHistory <= 0 means
// unbounded.
func NewMirror(provider Provider, maxHistory int) *Mirror {
	return &Mirror{provider: provider, maxHistory: maxHistory}
}

// History returns the mirror's recent entries, oldest first.
func (m *Mirror) History() []Entry {
	out := make([]Entry, len(m.history))
	copy(out, m.history)
	return out
}

// Sync flattens the named register's current content and writes it to
// the clipboard provider. It reports whether anything was sent (a register
// with Kind == None sends nothing) and any Provider error, which callers
// should log and otherwise ignore since mirroring is best-effort.
func (m *Mirror) Sync(bank *register.Bank, name byte) (bool, error) {
	reg, err := bank.Get(name)
	if err != nil {
		return false, err
	}
	if reg.IsEmpty() {
		return false, nil
	}

	data := flatten(reg)
	if len(data) == 0 {
		return false, nil
	}

	entry := newEntry(name, data)
	m.push(entry)

	if err := m.provider.Write(data); err != nil {
		return true, err
	}
	return true, nil
}

func (m *Mirror) push(e Entry) {
	m.history = append(m.history, e)
	if m.maxHistory > 0 && len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
}

// flatten turns a register's char or line representation into plain text,
// the same shape `register.Put` would insert into a buffer.
func flatten(r *register.Register) []byte {
	switch r.Kind {
	case register.Lines:
		var out []byte
		for _, l := range r.WholeLines {
			out = append(out, l.Text...)
			out = append(out, '\n')
		}
		return out
	case register.Chars:
		var out []byte
		out = append(out, r.FirstSegment...)
		for _, l := range r.MidLines {
			out = append(out, '\n')
			out = append(out, l.Text...)
		}
		if r.LastSegment != nil {
			out = append(out, '\n')
			out = append(out, r.LastSegment...)
		}
		return out
	default:
		return nil
	}
}
