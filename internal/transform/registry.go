package transform

import (
	"fmt"
	"strings"

	"github.com/dyne/fancyfont/internal/config"
)

// Factory builds a Transformer from one column entry.
type Factory func(cfg *config.ColumnConfig) (Transformer, error)

var registry = map[string]Factory{
	"style": func(cfg *config.ColumnConfig) (Transformer, error) { return NewStyle(cfg.Style) },
	"plain": func(cfg *config.ColumnConfig) (Transformer, error) { return &Plain{}, nil },
	"restyle": func(cfg *config.ColumnConfig) (Transformer, error) {
		st, err := NewStyle(cfg.Style)
		if err != nil {
			return nil, err
		}
		return Chain{&Plain{}, st}, nil
	},
}

// Kind names the factory a column entry selects.
func Kind(cfg *config.ColumnConfig) string {
	if cfg == nil {
		return ""
	}
	if cfg.Plain && cfg.Style != "" {
		return "restyle"
	}
	if cfg.Plain {
		return "plain"
	}
	if cfg.Style != "" {
		return "style"
	}
	return ""
}

// Build returns the transformer for cfg, or nil when cfg is nil.
func Build(cfg *config.ColumnConfig) (Transformer, error) {
	if cfg == nil {
		return nil, nil
	}
	kind := Kind(cfg)
	factory, ok := registry[strings.ToLower(kind)]
	if !ok {
		return nil, fmt.Errorf("column selects no transformer")
	}
	return factory(cfg)
}

// BuildTable returns one transformer per configured column of table.
func BuildTable(cfg *config.Config, table string) (map[string]Transformer, error) {
	result := map[string]Transformer{}
	if cfg == nil || cfg.Tables[table] == nil {
		return result, nil
	}
	for col, cc := range cfg.Tables[table].Columns {
		tr, err := Build(cc)
		if err != nil {
			return nil, fmt.Errorf("build transformer %s.%s: %w", table, col, err)
		}
		if tr != nil {
			result[col] = tr
		}
	}
	return result, nil
}
