package transform

import (
	"fmt"

	"github.com/dyne/fancyfont/internal/style"
)

// Transformer rewrites one column value. Only strings are touched; NULL,
// numbers and BLOBs pass through.
type Transformer interface {
	Name() string
	Transform(value any) (any, error)
}

type Style struct {
	id string
}

func NewStyle(id string) (*Style, error) {
	if err := style.Check(id); err != nil {
		return nil, err
	}
	return &Style{id: id}, nil
}

func (t *Style) Name() string { return "Style(" + t.id + ")" }

func (t *Style) Transform(value any) (any, error) {
	return mapText(value, func(s string) string { return style.Transform(s, t.id) })
}

type Plain struct{}

func (t *Plain) Name() string { return "Plain" }

func (t *Plain) Transform(value any) (any, error) {
	return mapText(value, style.Plain)
}

// Chain runs transformers in order, feeding each the previous output.
type Chain []Transformer

func (c Chain) Name() string {
	name := ""
	for i, t := range c {
		if i > 0 {
			name += "+"
		}
		name += t.Name()
	}
	return name
}

func (c Chain) Transform(value any) (any, error) {
	var err error
	for _, t := range c {
		value, err = t.Transform(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return value, nil
}

func mapText(value any, fn func(string) string) (any, error) {
	if s, ok := value.(string); ok {
		return fn(s), nil
	}
	return value, nil
}
