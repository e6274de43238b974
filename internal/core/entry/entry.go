// Package entry manages the sampler id rows of the new kit form
// State is a value: every command returns a fresh State and never mutates its input
package entry

import (
	"slices"
	"unicode/utf8"
)

// Type is the kind of sample a row describes
type Type string

const (
	// TypeUnset means the technician has not picked a type yet
	TypeUnset Type = ""
	// TypeSample is a field sample
	TypeSample Type = "Sample"
	// TypeBlank is a field blank
	TypeBlank Type = "Blank"
)

// Valid reports whether t is one of the known row types
func (t Type) Valid() bool {
	switch t {
	case TypeUnset, TypeSample, TypeBlank:
		return true
	}
	return false
}

// Row is one sampler id input. Index is an identity, not a position
type Row struct {
	Index    int    `json:"index"`
	Value    string `json:"value"`
	Type     Type   `json:"type"`
	Editable bool   `json:"editable"`
}

// Policy holds the auto-grow knobs
type Policy struct {
	// CompletionLen is the text length at which the last row counts as full
	CompletionLen int
}

// DefaultCompletionLen matches the ECCC#### sampler id shape
const DefaultCompletionLen = 8

// DefaultPolicy returns the policy observed in the field app
func DefaultPolicy() Policy { return Policy{CompletionLen: DefaultCompletionLen} }

// State is the ordered row collection plus the next index to hand out
type State struct {
	Rows []Row `json:"rows"`
	Next int   `json:"next"`
}

// Start returns the state of a freshly opened form: one empty row at index 1
func Start() State {
	return State{
		Rows: []Row{{Index: 1, Editable: true}},
		Next: 2,
	}
}

// Closed returns the state after the form is dismissed
func Closed() State { return State{Rows: []Row{}, Next: 1} }

// Op names a row command
type Op uint8

const (
	// OpInput sets the text of a row
	OpInput Op = iota + 1
	// OpSelect sets the type of a row
	OpSelect
	// OpAdd appends an empty row
	OpAdd
	// OpDelete removes a row
	OpDelete
)

// Command is a single user interaction on the form
type Command struct {
	Op    Op
	Index int
	Value string
	Type  Type
}

// Input builds an OpInput command
func Input(index int, value string) Command { return Command{Op: OpInput, Index: index, Value: value} }

// Select builds an OpSelect command
func Select(index int, t Type) Command { return Command{Op: OpSelect, Index: index, Type: t} }

// Add builds an OpAdd command
func Add() Command { return Command{Op: OpAdd} }

// Delete builds an OpDelete command
func Delete(index int) Command { return Command{Op: OpDelete, Index: index} }

// Apply runs one command against s and returns the new state
// commands naming an index that is not present return an unchanged copy
func Apply(s State, p Policy, c Command) State {
	out := s.clone()
	if p.CompletionLen <= 0 {
		p = DefaultPolicy()
	}

	switch c.Op {
	case OpInput:
		pos := out.position(c.Index)
		if pos < 0 {
			return out
		}
		prev := out.Rows[pos].Value
		out.Rows[pos].Value = c.Value
		if pos == len(out.Rows)-1 && out.shouldGrow(p, prev, c.Value) {
			out.appendEmpty()
		}

	case OpSelect:
		pos := out.position(c.Index)
		if pos < 0 || !c.Type.Valid() {
			return out
		}
		out.Rows[pos].Type = c.Type

	case OpAdd:
		out.appendEmpty()

	case OpDelete:
		pos := out.position(c.Index)
		if pos < 0 {
			return out
		}
		out.Rows = slices.Delete(out.Rows, pos, pos+1)
	}
	return out
}

// ApplyAll folds cmds over s in order
func ApplyAll(s State, p Policy, cmds ...Command) State {
	for _, c := range cmds {
		s = Apply(s, p, c)
	}
	return s
}

// Row returns the row with the given index
func (s State) Row(index int) (Row, bool) {
	if pos := s.position(index); pos >= 0 {
		return s.Rows[pos], true
	}
	return Row{}, false
}

// Filled returns the rows holding text, in order
func (s State) Filled() []Row {
	out := make([]Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		if r.Value != "" {
			out = append(out, r)
		}
	}
	return out
}

// shouldGrow is the auto-grow rule for the last row
func (s State) shouldGrow(p Policy, prev, next string) bool {
	if utf8.RuneCountInString(next) != p.CompletionLen {
		return false
	}
	if prev == next {
		return false
	}
	return s.position(s.Next) < 0
}

func (s *State) appendEmpty() {
	// Next may lag behind an index restored from elsewhere; never hand out a used one
	for s.position(s.Next) >= 0 {
		s.Next++
	}
	s.Rows = append(s.Rows, Row{Index: s.Next, Editable: true})
	s.Next++
}

func (s State) position(index int) int {
	for i, r := range s.Rows {
		if r.Index == index {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	rows := make([]Row, len(s.Rows))
	copy(rows, s.Rows)
	next := s.Next
	if next < 1 {
		next = 1
	}
	return State{Rows: rows, Next: next}
}
