// Package style maps plain Latin text onto stylized Unicode glyph sets.
//
// Every style is a Rule that rewrites one rune at a time. Offset rules rely on
// Unicode blocks that lay out A-Z, a-z and 0-9 contiguously in ASCII order;
// table rules carry an explicit glyph map. The registry is built once at
// package initialization and is read-only afterwards, so every function here
// is safe for concurrent use.
package style

import (
	"errors"
	"fmt"
)

// ErrUnknownStyle is returned by consumers that validate a user supplied id.
// The engine itself never fails on an unknown id.
var ErrUnknownStyle = errors.New("unknown style")

// Kind tags the shape of a Rule.
type Kind int

const (
	KindOffset Kind = iota
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindOffset:
		return "offset"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Rule rewrites a single rune. The zero value of every field means "not
// covered", so a Rule always falls back to the identity mapping.
type Rule struct {
	Kind Kind

	// Offset rules. Digit is the codepoint '0' would land on; Zero, when set,
	// replaces the output for '0' only.
	Upper rune
	Lower rune
	Digit rune
	Zero  rune

	// Table rules. Fold lower-cases ASCII input before the lookup.
	Table map[rune]rune
	Fold  bool
}

// Offset builds an offset rule without digit coverage.
func Offset(upper, lower rune) Rule {
	return Rule{Kind: KindOffset, Upper: upper, Lower: lower}
}

// WithDigits returns a copy of r covering 0-9 from base.
func (r Rule) WithDigits(base rune) Rule {
	r.Digit = base
	return r
}

// WithZero returns a copy of r that maps '0' to z instead of Digit.
func (r Rule) WithZero(z rune) Rule {
	r.Zero = z
	return r
}

// Table builds a table rule.
func Table(table map[rune]rune, fold bool) Rule {
	return Rule{Kind: KindTable, Table: table, Fold: fold}
}

// Apply maps c through the rule.
func (r Rule) Apply(c rune) rune {
	if r.Kind == KindTable {
		key := c
		// Only ASCII folds; other letters keep their identity.
		if r.Fold && c >= 'A' && c <= 'Z' {
			key = c + ('a' - 'A')
		}
		if out, ok := r.Table[key]; ok {
			return out
		}
		return c
	}
	switch {
	case c >= 'A' && c <= 'Z' && r.Upper != 0:
		return r.Upper + (c - 'A')
	case c >= 'a' && c <= 'z' && r.Lower != 0:
		return r.Lower + (c - 'a')
	case c >= '0' && c <= '9' && r.Digit != 0:
		if c == '0' && r.Zero != 0 {
			return r.Zero
		}
		return r.Digit + (c - '0')
	}
	return c
}

// Definition is one registered style.
type Definition struct {
	ID   string
	Name string
	Rule Rule

	// Reverse flips rune order after substitution.
	Reverse bool
	// Hidden styles resolve by id but are left out of List.
	Hidden bool
}

// Info is the part of a Definition a presentation layer needs.
type Info struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Result is one style applied to a text.
type Result struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

var definitions = []Definition{
	{ID: "bold", Name: "Bold", Rule: Offset(0x1D400, 0x1D41A).WithDigits(0x1D7CE)},
	{ID: "italic", Name: "Italic", Rule: Offset(0x1D434, 0x1D44E)},
	{ID: "boldItalic", Name: "Bold Italic", Rule: Offset(0x1D468, 0x1D482)},
	{ID: "script", Name: "Script", Rule: Offset(0x1D49C, 0x1D4B6)},
	{ID: "fraktur", Name: "Fraktur", Rule: Offset(0x1D504, 0x1D51E)},
	{ID: "doubleStruck", Name: "Double Struck", Rule: Offset(0x1D538, 0x1D552).WithDigits(0x1D7D8)},
	{ID: "monospace", Name: "Monospace", Rule: Offset(0x1D670, 0x1D68A).WithDigits(0x1D7F6)},
	{ID: "sansSerif", Name: "Sans Serif", Rule: Offset(0x1D5A0, 0x1D5BA)},
	// Circled digits start at ① (U+2460); ⓪ sits apart at U+24EA.
	{ID: "bubble", Name: "Bubble", Rule: Offset(0x24B6, 0x24D0).WithDigits(0x2460 - 1).WithZero(0x24EA)},
	{ID: "smallCaps", Name: "Small Caps", Rule: Table(smallCaps, true)},
	{ID: "reversed", Name: "Reversed", Rule: Table(reversed, false), Reverse: true},
	// Enclosed squares are uppercase only, both cases land on the same glyph.
	{ID: "squared", Name: "Squared", Rule: Offset(0x1F130, 0x1F130), Hidden: true},
}

var byID map[string]*Definition

func init() {
	byID = make(map[string]*Definition, len(definitions))
	for i := range definitions {
		byID[definitions[i].ID] = &definitions[i]
	}
}

// Lookup returns the rule registered under id.
func Lookup(id string) (Rule, bool) {
	d, ok := byID[id]
	if !ok {
		return Rule{}, false
	}
	return d.Rule, true
}

// Resolvable returns every id Transform accepts, hidden ones included, in
// registry order.
func Resolvable() []string {
	ids := make([]string, len(definitions))
	for i, d := range definitions {
		ids[i] = d.ID
	}
	return ids
}

// Valid reports whether id resolves to a style.
func Valid(id string) bool {
	_, ok := byID[id]
	return ok
}

// Check returns ErrUnknownStyle wrapped with id when id does not resolve.
func Check(id string) error {
	if Valid(id) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownStyle, id)
}

// List returns the listed styles in display order.
func List() []Info {
	out := make([]Info, 0, len(definitions))
	for _, d := range definitions {
		if d.Hidden {
			continue
		}
		out = append(out, Info{ID: d.ID, Name: d.Name})
	}
	return out
}

// IDs returns the listed style ids in display order.
func IDs() []string {
	list := List()
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return ids
}
