package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dyne/fancyfont/internal/style"
)

const (
	DefaultStyle = "bold"
	DefaultAddr  = "localhost:49158"
)

// Environment overrides, applied after the YAML file.
const (
	EnvStyle  = "FANCYFONT_STYLE"
	EnvStyles = "FANCYFONT_STYLES"
	EnvAddr   = "FANCYFONT_ADDR"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Style         string                  `yaml:"style"`
	Styles        []string                `yaml:"styles"`
	Serve         ServeConfig             `yaml:"serve"`
	IncludeTables []string                `yaml:"include_tables"`
	ExcludeTables []string                `yaml:"exclude_tables"`
	Tables        map[string]*TableConfig `yaml:"tables"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

type TableConfig struct {
	Columns map[string]*ColumnConfig `yaml:"columns"`
}

// ColumnConfig selects how one TEXT column is rewritten: Style restyles, Plain
// folds styled letters back, and both together fold first, then restyle.
type ColumnConfig struct {
	Style string `yaml:"style"`
	Plain bool   `yaml:"plain"`
}

func Default() *Config {
	return &Config{
		Style: DefaultStyle,
		Serve: ServeConfig{Addr: DefaultAddr},
	}
}

// Load reads .env from the working directory when present, then the YAML file
// at path (skipped when empty), then applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvStyle)); v != "" {
		c.Style = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStyles)); v != "" {
		c.Styles = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Serve.Addr = v
	}
}

func (c *Config) fillDefaults() {
	if c.Style == "" {
		c.Style = DefaultStyle
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if err := style.Check(c.Style); err != nil {
		return fmt.Errorf("%w: style: %w", ErrInvalid, err)
	}
	for _, id := range c.Styles {
		if err := style.Check(id); err != nil {
			return fmt.Errorf("%w: styles: %w", ErrInvalid, err)
		}
	}
	for _, table := range sortedKeys(c.Tables) {
		tbl := c.Tables[table]
		if tbl == nil {
			continue
		}
		for _, col := range sortedKeys(tbl.Columns) {
			cc := tbl.Columns[col]
			if cc == nil {
				continue
			}
			switch {
			case cc.Style == "" && !cc.Plain:
				return fmt.Errorf("%w: %s.%s: set style or plain", ErrInvalid, table, col)
			case cc.Style != "":
				if err := style.Check(cc.Style); err != nil {
					return fmt.Errorf("%w: %s.%s: %w", ErrInvalid, table, col, err)
				}
			}
		}
	}
	return nil
}

// PreviewStyles is the ordered set of styles shown side by side: the
// configured subset, or every listed style.
func (c *Config) PreviewStyles() []string {
	if c == nil || len(c.Styles) == 0 {
		return style.IDs()
	}
	return c.Styles
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
