package keymap

import "time"

// stageState tracks one translation stage's partial match: the bytes held
// so far and how many matched some entry's lhs prefix.
type stageState struct {
	held    []byte // bytes consumed toward the current partial match
	matched int     // how many of held's bytes matched some entry's lhs prefix
}

func (s *stageState) reset() { s.held = s.held[:0]; s.matched = 0 }

// Translator runs the raw -> canonical -> mapped pipeline: a fixed key
// map (escape-sequence folding) feeds the active user map (Cmd or Ins,
// selected by the caller per mode).
type Translator struct {
	KeyMap  *Map // fixed, backend-populated
	UserMap *Map // cmd_map or ins_map, whichever is active

	Remap   bool          // expanded rhs re-scanned (true) or appended downstream (false)
	Timeout time.Duration // forces step 3 on a stalled partial match; 0 disables

	key  stageState
	user stageState

	pending []byte // bytes ready to deliver to the caller (downstream of both stages)
	lastRX  time.Time
}

// NewTranslator creates a Translator with the given maps. A nil KeyMap or
// UserMap is treated as empty (pass-through).
func NewTranslator(keyMap, userMap *Map) *Translator {
	if keyMap == nil {
		keyMap = NewMap()
	}
	if userMap == nil {
		userMap = NewMap()
	}
	return &Translator{KeyMap: keyMap, UserMap: userMap, Remap: true, Timeout: 0}
}

// Feed consumes one raw input byte and returns any keycodes now ready for
// the caller (the mode machine). Most calls return 0 or 1 bytes; a
// completed multi-byte mapping can return several at once.
func (t *Translator) Feed(b byte) []byte {
	t.lastRX = time.Now()
	t.pending = t.pending[:0]
	t.advance(&t.key, t.KeyMap, b, t.feedToUser)
	out := t.pending
	t.pending = nil
	return out
}

// feedToUser is the continuation the key-map stage calls with each
// canonical byte it emits, feeding stage two (the user map).
func (t *Translator) feedToUser(b byte) {
	t.advance(&t.user, t.UserMap, b, t.deliverMapped)
}

// deliverMapped is the final sink: a mapped byte is ready for the caller.
func (t *Translator) deliverMapped(b byte) {
	t.pending = append(t.pending, b)
}

// advance implements the matching contract for one stage: consume b, and
// either extend/complete the held partial match, or flush
// it (re-driving bytes through the very same stage) and start fresh.
func (t *Translator) advance(st *stageState, m *Map, b byte, emit func(byte)) {
	candidate := append(append([]byte(nil), st.held...), b)
	exact, couldExtend := m.lookup(string(candidate))

	switch {
	case couldExtend:
		// Matches so far, and a longer entry could still extend it
		// (including when candidate is already itself a complete
		// mapping): hold. A Timeout or Flush call resolves the
		// ambiguity if the user pauses mid-sequence.
		st.held = candidate
		st.matched = len(candidate)
	case exact != nil:
		// Complete, unambiguous match: substitute rhs and reset.
		t.expand(st, exact.Rhs, emit)
	default:
		if len(st.held) == 0 {
			// No partial match active: pass b straight through.
			emit(b)
			return
		}
		// b breaks the current partial match: flush its first byte
		// downstream, push the rest back through this same stage, and
		// reset.
		first := st.held[0]
		rest := append(append([]byte(nil), st.held[1:]...), b)
		st.reset()
		emit(first)
		for _, rb := range rest {
			t.advance(st, m, rb, emit)
		}
	}
}

// expand substitutes rhs for a completed match. If Remap is set, rhs is
// re-scanned through this same stage (so nested mappings expand); else
// each rhs byte is emitted straight downstream.
func (t *Translator) expand(st *stageState, rhs string, emit func(byte)) {
	st.reset()
	if t.Remap {
		for i := 0; i < len(rhs); i++ {
			t.advance(st, mapFor(st, t), rhs[i], emit)
		}
		return
	}
	for i := 0; i < len(rhs); i++ {
		emit(rhs[i])
	}
}

// mapFor recovers which Map a stage belongs to, since expand is shared
// code for both stages but only has the stageState pointer to go on.
func mapFor(st *stageState, t *Translator) *Map {
	if st == &t.key {
		return t.KeyMap
	}
	return t.UserMap
}

// Flush forces resolution of any currently-held partial match, emitting
// its bytes through the normal "broken match" path. Callers invoke this
// when Timeout has elapsed since the last byte with no resolution — a
// per-keystroke timeout forcing the break-match path when the user
// pauses mid-sequence.
func (t *Translator) Flush() []byte {
	t.pending = t.pending[:0]
	if len(t.key.held) > 0 {
		held := append([]byte(nil), t.key.held...)
		t.key.reset()
		t.feedToUser(held[0])
		for _, b := range held[1:] {
			t.advance(&t.key, t.KeyMap, b, t.feedToUser)
		}
	}
	if len(t.user.held) > 0 {
		held := append([]byte(nil), t.user.held...)
		t.user.reset()
		t.deliverMapped(held[0])
		for _, b := range held[1:] {
			t.advance(&t.user, t.UserMap, b, t.deliverMapped)
		}
	}
	out := t.pending
	t.pending = nil
	return out
}

// Pending reports whether either stage is mid-match, i.e. whether the
// caller should be polling with the keymap timeout rather than blocking
// indefinitely.
func (t *Translator) Pending() bool {
	return len(t.key.held) > 0 || len(t.user.held) > 0
}

// TimedOut reports whether Timeout has elapsed since the last Feed call
// while a partial match is still held, i.e. whether the caller should
// invoke Flush now.
func (t *Translator) TimedOut() bool {
	if t.Timeout <= 0 {
		return false
	}
	if len(t.key.held) == 0 && len(t.user.held) == 0 {
		return false
	}
	return time.Since(t.lastRX) >= t.Timeout
}
