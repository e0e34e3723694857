// Package preview lays out styled variants of one text for a terminal.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dyne/fancyfont/internal/style"
)

const gap = 2

// Table writes one line per style: the name padded to a common display width,
// then the styled text. Lines longer than width cells are cut with an
// ellipsis; width <= 0 disables cutting.
func Table(w io.Writer, text string, ids []string, width int) error {
	results := style.Apply(text, ids)
	nameWidth := 0
	for _, r := range results {
		if n := runewidth.StringWidth(r.Name); n > nameWidth {
			nameWidth = n
		}
	}
	for _, r := range results {
		line := runewidth.FillRight(r.Name, nameWidth+gap) + r.Value
		if width > 0 {
			line = runewidth.Truncate(line, width, "…")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Styles writes the id and name of every listed style.
func Styles(w io.Writer) error {
	list := style.List()
	idWidth := 0
	for _, s := range list {
		if n := runewidth.StringWidth(s.ID); n > idWidth {
			idWidth = n
		}
	}
	var b strings.Builder
	for _, s := range list {
		b.WriteString(runewidth.FillRight(s.ID, idWidth+gap))
		b.WriteString(s.Name)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
