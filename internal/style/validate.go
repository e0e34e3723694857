package style

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Validate checks the registry: ids are unique, names are set, table rules
// only produce valid runes and offset rules never move a rune outside the
// covered ASCII ranges.
func Validate() error {
	seen := map[string]bool{}
	for _, d := range definitions {
		if d.ID == "" || d.Name == "" {
			return fmt.Errorf("style %q: empty id or name", d.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("style %q: duplicate id", d.ID)
		}
		seen[d.ID] = true
		for k, v := range d.Rule.Table {
			if !utf8.ValidRune(v) {
				return fmt.Errorf("style %q: %q maps to invalid rune %U", d.ID, k, v)
			}
		}
		for c := rune(0); c <= unicode.MaxASCII; c++ {
			out := d.Rule.Apply(c)
			if !utf8.ValidRune(out) {
				return fmt.Errorf("style %q: %q maps to invalid rune %U", d.ID, c, out)
			}
			if d.Rule.Kind == KindOffset && out != c && !isAlnum(c) {
				return fmt.Errorf("style %q: %q is outside the covered ranges but maps to %U", d.ID, c, out)
			}
		}
	}
	return nil
}

func isAlnum(c rune) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
