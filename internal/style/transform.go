package style

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Transform applies the style registered under id to every rune of text.
// Unknown ids return text unchanged. The reversed style flips the order of the
// substituted runes, not of the input.
func Transform(text, id string) string {
	d, ok := byID[id]
	if !ok || text == "" {
		return text
	}
	if !d.Reverse {
		var b strings.Builder
		b.Grow(len(text))
		for _, c := range text {
			b.WriteRune(d.Rule.Apply(c))
		}
		return b.String()
	}
	out := make([]rune, 0, len(text))
	for _, c := range text {
		out = append(out, d.Rule.Apply(c))
	}
	reverseRunes(out)
	return string(out)
}

func reverseRunes(rs []rune) {
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
}

// All applies every listed style to text, in display order.
func All(text string) []Result {
	return Apply(text, IDs())
}

// Apply applies each of ids to text. Unknown ids are skipped.
func Apply(text string, ids []string) []Result {
	out := make([]Result, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, Result{ID: d.ID, Name: d.Name, Value: Transform(text, id)})
	}
	return out
}

// Plain folds mathematical, circled and squared letters back to ASCII using
// compatibility normalization. Small caps and upside-down glyphs have no
// compatibility decomposition and are returned as they are.
func Plain(text string) string {
	return norm.NFKC.String(text)
}
