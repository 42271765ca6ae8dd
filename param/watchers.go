package param

import "fmt"

// Hooks lets other components subscribe to the handful of parameter
// changes that invalidate their own caches, without param importing them
// directly: setting tags/taglength invalidates derived caches; setting
// magic/regextype cross-updates each other.
type Hooks struct {
	// InvalidateTags is called after "tags" or "taglength" changes.
	InvalidateTags func(s *Store)
	// SetUndoLevels is called after "undolevels" changes, with the new cap.
	SetUndoLevels func(n int)
	// SetTabstop is called after "tabstop" changes, with the new width.
	SetTabstop func(n int)
	// SetEdit is called after "edit" changes, with the new value.
	SetEdit func(on bool)
	// SetPreservePolicy is called after "preserve" changes, with the enum
	// value mapped to its preserve.Policy ordinal (watchPreserve does the
	// string->ordinal mapping so this package stays free of an import on
	// the preserve package).
	SetPreservePolicy func(policy int)
}

// Attach installs h as s's hook set. A Store has at most one Hooks; a
// later Attach replaces the previous one.
func (s *Store) Attach(h *Hooks) { s.hook = h }

func (s *Store) hooks() *Hooks { return s.hook }

// watchMagic implements the magic/regextype cross-update (original
// xvpSetMagic): turning magic on selects "grep" (the magic regex dialect),
// turning it off selects the literal dialect. Conversely watchRegextype
// flips magic to match an explicitly chosen dialect.
func watchMagic(s *Store, p *Param, old, new Value) error {
	rt, err := s.resolve("regextype")
	if err != nil {
		return err
	}
	if new.B {
		rt.Value = Value{Kind: Enum, S: "grep"}
	} else {
		rt.Value = Value{Kind: Enum, S: "none"}
	}
	return nil
}

func watchRegextype(s *Store, p *Param, old, new Value) error {
	magic, err := s.resolve("magic")
	if err != nil {
		return err
	}
	magic.Value = Value{Kind: Bool, B: new.S != "none"}
	return nil
}

func watchTagParam(s *Store, p *Param, old, new Value) error {
	if h := s.hooks(); h != nil && h.InvalidateTags != nil {
		h.InvalidateTags(s)
	}
	return nil
}

func watchUndoLevels(s *Store, p *Param, old, new Value) error {
	if new.N < 0 {
		return fmt.Errorf("param: undolevels cannot be negative")
	}
	if h := s.hooks(); h != nil && h.SetUndoLevels != nil {
		h.SetUndoLevels(new.N)
	}
	return nil
}

func watchTabstop(s *Store, p *Param, old, new Value) error {
	if new.N < 1 {
		return fmt.Errorf("param: tabstop must be positive")
	}
	if h := s.hooks(); h != nil && h.SetTabstop != nil {
		h.SetTabstop(new.N)
	}
	return nil
}

func watchEdit(s *Store, p *Param, old, new Value) error {
	if h := s.hooks(); h != nil && h.SetEdit != nil {
		h.SetEdit(new.B)
	}
	return nil
}

// preservePolicyOrdinals maps the "preserve" enum's spelling to
// preserve.Policy's ordinal values (0 Unsafe, 1 Standard, 2 Safe, 3
// Paranoid); kept here as plain ints so param has no import on preserve.
var preservePolicyOrdinals = map[string]int{
	"never":    0,
	"interval": 1,
	"always":   2,
	"exit":     3,
}

func watchPreserve(s *Store, p *Param, old, new Value) error {
	if h := s.hooks(); h != nil && h.SetPreservePolicy != nil {
		h.SetPreservePolicy(preservePolicyOrdinals[new.S])
	}
	return nil
}
