// Package param implements the closed set of named editor options: type,
// current value, change-watcher and abbreviation resolution.
package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is a parameter's value type.
type Kind int

const (
	Bool Kind = iota
	Int
	Enum
	String
	StringList
)

// Watcher is invoked after a successful Set, with the old and new value.
type Watcher func(s *Store, p *Param, old, new Value) error

// Value is a tagged union over a parameter's possible value, the
// original's duck-typed Paramval union turned into a tagged variant.
type Value struct {
	Kind Kind
	B    bool
	N    int
	S    string
	L    []string
}

func (v Value) String() string {
	switch v.Kind {
	case Bool:
		if v.B {
			return "on"
		}
		return "off"
	case Int:
		return strconv.Itoa(v.N)
	case Enum, String:
		return v.S
	case StringList:
		return strings.Join(v.L, ",")
	}
	return ""
}

// Param is one named option.
type Param struct {
	Name    string
	Short   string
	Kind    Kind
	Enum    []string // valid values, for Kind==Enum
	Value   Value
	Changed bool
	Watcher Watcher
}

// Store is the full closed set of parameters, keyed by full name.
type Store struct {
	byName map[string]*Param
	order  []string
	hook   *Hooks
}

// New creates a Store pre-populated with the default option set
// (defaults.go).
func New() *Store {
	s := &Store{byName: make(map[string]*Param)}
	registerDefaults(s)
	return s
}

// define registers one parameter. Called only from defaults.go.
func (s *Store) define(p *Param) {
	s.byName[p.Name] = p
	s.order = append(s.order, p.Name)
}

// resolve finds the Param matching name, accepting either the full name,
// the short name, or an unambiguous prefix of the full name. Abbreviations
// are accepted by partial-prefix match with priority resolution when
// ambiguous.
func (s *Store) resolve(name string) (*Param, error) {
	if p, ok := s.byName[name]; ok {
		return p, nil
	}
	for _, n := range s.order {
		if s.byName[n].Short == name {
			return s.byName[n], nil
		}
	}
	var matches []*Param
	for _, n := range s.order {
		if strings.HasPrefix(n, name) {
			matches = append(matches, s.byName[n])
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("param: unknown option %q", name)
	case 1:
		return matches[0], nil
	default:
		// Priority resolution: prefer the shortest matching name, since
		// that is the option whose abbreviation space is most exhausted
		// by this prefix.
		best := matches[0]
		for _, m := range matches[1:] {
			if len(m.Name) < len(best.Name) {
				best = m
			}
		}
		return best, nil
	}
}

// Get returns the current value of name.
func (s *Store) Get(name string) (Value, error) {
	p, err := s.resolve(name)
	if err != nil {
		return Value{}, err
	}
	return p.Value, nil
}

// Bool is a convenience accessor; it panics if name isn't a Bool param,
// since that indicates a programming error at the call site.
func (s *Store) Bool(name string) bool {
	p, err := s.resolve(name)
	if err != nil || p.Kind != Bool {
		panic(fmt.Sprintf("param: %q is not a bool option", name))
	}
	return p.Value.B
}

// Int is the Int-kind convenience accessor.
func (s *Store) Int(name string) int {
	p, err := s.resolve(name)
	if err != nil || p.Kind != Int {
		panic(fmt.Sprintf("param: %q is not an int option", name))
	}
	return p.Value.N
}

// Str is the String/Enum-kind convenience accessor.
func (s *Store) Str(name string) string {
	p, err := s.resolve(name)
	if err != nil {
		panic(fmt.Sprintf("param: %q is unknown", name))
	}
	return p.Value.S
}

// Set parses raw per the parameter's kind, installs it, runs the
// change-watcher, and records Changed.
// A leading "no" prefix on a Bool name's raw-less form clears it
// (handled by cmd/xvi's -s parsing, not here: Set always takes an
// explicit raw string).
func (s *Store) Set(name, raw string) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	old := p.Value
	var nv Value
	switch p.Kind {
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("param: bad bool for %q: %v", p.Name, err)
		}
		nv = Value{Kind: Bool, B: b}
	case Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("param: bad int for %q: %v", p.Name, err)
		}
		nv = Value{Kind: Int, N: n}
	case Enum:
		ok := false
		for _, e := range p.Enum {
			if e == raw {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("param: %q is not a valid value for %q (want one of %v)", raw, p.Name, p.Enum)
		}
		nv = Value{Kind: Enum, S: raw}
	case String:
		nv = Value{Kind: String, S: raw}
	case StringList:
		var l []string
		if raw != "" {
			l = strings.Split(raw, ",")
		}
		nv = Value{Kind: StringList, L: l}
	}

	p.Value = nv
	p.Changed = true

	if p.Watcher != nil {
		if err := p.Watcher(s, p, old, nv); err != nil {
			p.Value = old
			p.Changed = false
			return err
		}
	}
	return nil
}

// SetBool is a typed convenience wrapper over Set for Bool options.
func (s *Store) SetBool(name string, v bool) error {
	if v {
		return s.Set(name, "true")
	}
	return s.Set(name, "false")
}
