// Package sexp is a small streaming S-expression reader and writer.
//
// It reads the dialect used by KiCad-style files: lists in parentheses,
// bare symbols, double-quoted strings with backslash escapes and '#' line
// comments.
package sexp

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexp is either an Atom or a List
type Sexp interface {
	// IsLeaf returns true for atoms
	IsLeaf() bool

	// String renders the expression back to text
	String() string
}

// Atom is a symbol or a quoted string
type Atom struct {
	Value  string
	Quoted bool
}

// Sym returns a bare symbol atom
func Sym(s string) Atom { return Atom{Value: s} }

// Str returns a quoted string atom
func Str(s string) Atom { return Atom{Value: s, Quoted: true} }

// Int returns an integer symbol atom
func Int(n int) Atom { return Atom{Value: strconv.Itoa(n)} }

func (a Atom) IsLeaf() bool { return true }

func (a Atom) String() string {
	if !a.Quoted {
		return a.Value
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(a.Value) + `"`
}

// List is a parenthesised sequence of expressions
type List []Sexp

// L builds a list from its items
func L(items ...Sexp) List { return List(items) }

func (l List) IsLeaf() bool { return false }

func (l List) String() string {
	parts := make([]string, len(l))
	for i, item := range l {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the leading symbol of the list, or "" if there is none
func (l List) Head() string {
	if len(l) == 0 {
		return ""
	}
	if a, ok := l[0].(Atom); ok {
		return a.Value
	}
	return ""
}

// Find returns the first child list whose head is key
// Example: Find("at") finds (at 10 5) in (device (ref "R1") (at 10 5))
func (l List) Find(key string) (List, bool) {
	for _, item := range l {
		if sub, ok := item.(List); ok && sub.Head() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAll returns every child list whose head is key
func (l List) FindAll(key string) []List {
	var out []List
	for _, item := range l {
		if sub, ok := item.(List); ok && sub.Head() == key {
			out = append(out, sub)
		}
	}
	return out
}

// GetString returns the atom at index; index 0 is the head
func (l List) GetString(index int) (string, error) {
	if index < 0 || index >= len(l) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(l))
	}
	a, ok := l[index].(Atom)
	if !ok {
		return "", fmt.Errorf("expected atom at index %d of (%s ...), got list", index, l.Head())
	}
	return a.Value, nil
}

// GetInt returns the integer atom at index
func (l List) GetInt(index int) (int, error) {
	s, err := l.GetString(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q in (%s ...): %w", s, l.Head(), err)
	}
	return v, nil
}

// GetFloat returns the numeric atom at index
func (l List) GetFloat(index int) (float64, error) {
	s, err := l.GetString(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q in (%s ...): %w", s, l.Head(), err)
	}
	return v, nil
}
