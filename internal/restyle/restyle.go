// Package restyle copies a SQLite database while rewriting configured TEXT
// columns through the style engine.
package restyle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dyne/fancyfont/internal/config"
	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/schema"
	_ "modernc.org/sqlite"
)

type Options struct {
	InPath   string
	OutPath  string
	Config   *config.Config
	FKMode   string
	Triggers string
	Jobs     int
	Logger   *log.Logger
}

// Stats counts what a run touched.
type Stats struct {
	Tables int
	Rows   int64
	Values int64
}

func Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats
	if opts.InPath == "" || opts.OutPath == "" {
		return stats, fmt.Errorf("input and output paths are required")
	}
	if filepath.Clean(opts.InPath) == filepath.Clean(opts.OutPath) {
		return stats, fmt.Errorf("input and output must differ")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.FKMode == "" {
		opts.FKMode = "on"
	}
	if err := os.RemoveAll(opts.OutPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return stats, fmt.Errorf("remove output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(opts.OutPath), 0o755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}

	inDB, err := sql.Open("sqlite", DSN(opts.InPath))
	if err != nil {
		return stats, fmt.Errorf("open input: %w", err)
	}
	defer inDB.Close()

	outDB, err := sql.Open("sqlite", DSN(opts.OutPath))
	if err != nil {
		return stats, fmt.Errorf("open output: %w", err)
	}
	defer outDB.Close()
	// PRAGMA foreign_keys is per connection.
	outDB.SetMaxOpenConns(1)

	if err := setFKMode(ctx, outDB, opts.FKMode); err != nil {
		return stats, err
	}

	s, err := schema.Load(ctx, inDB)
	if err != nil {
		return stats, err
	}
	if err := CheckColumns(s, opts.Config); err != nil {
		return stats, err
	}

	order := schema.TableOrder(s)
	if err := createTables(ctx, outDB, s, order, opts); err != nil {
		return stats, err
	}
	for _, name := range order {
		if !schema.Included(opts.Config.IncludeTables, opts.Config.ExcludeTables, name) {
			debugf(opts.Logger, "skip table %s", name)
			continue
		}
		infof(opts.Logger, "restyle table %s", name)
		ts, err := copyTable(ctx, inDB, outDB, s.Tables[name], opts)
		if err != nil {
			return stats, err
		}
		stats.Tables++
		stats.Rows += ts.Rows
		stats.Values += ts.Values
	}
	if err := createPostDataSchema(ctx, outDB, s, opts); err != nil {
		return stats, err
	}
	infof(opts.Logger, "restyle complete: %d tables, %d rows, %d values rewritten", stats.Tables, stats.Rows, stats.Values)
	return stats, nil
}

// DSN is the connection string shared by every command that opens a file.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000", path)
}

// CheckColumns fails when the config names a table or column the database
// does not have.
func CheckColumns(s *schema.Schema, cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	tables := make([]string, 0, len(cfg.Tables))
	for name := range cfg.Tables {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	for _, name := range tables {
		tc := cfg.Tables[name]
		if tc == nil {
			continue
		}
		tbl := s.Tables[name]
		if tbl == nil {
			return fmt.Errorf("config table %s: not in database", name)
		}
		for col := range tc.Columns {
			if !tbl.HasColumn(col) {
				return fmt.Errorf("config column %s.%s: not in database", name, col)
			}
		}
	}
	return nil
}

func setFKMode(ctx context.Context, db *sql.DB, mode string) error {
	mode = strings.ToLower(mode)
	switch mode {
	case "on", "off":
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA foreign_keys = %s", strings.ToUpper(mode))); err != nil {
			return fmt.Errorf("set foreign_keys: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("invalid fk mode: %s", mode)
	}
}

func createTables(ctx context.Context, outDB *sql.DB, s *schema.Schema, order []string, opts Options) error {
	tx, err := outDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer tx.Rollback()
	for _, name := range order {
		if !schema.Included(opts.Config.IncludeTables, opts.Config.ExcludeTables, name) {
			continue
		}
		if _, err := tx.ExecContext(ctx, s.Tables[name].SQL); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func createPostDataSchema(ctx context.Context, outDB *sql.DB, s *schema.Schema, opts Options) error {
	items := make([]schema.SQLItem, 0, len(s.Views)+len(s.Indexes)+len(s.Triggers))
	items = append(items, s.Views...)
	items = append(items, s.Indexes...)
	if strings.ToLower(opts.Triggers) != "off" {
		items = append(items, s.Triggers...)
	}
	tx, err := outDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin post-data tx: %w", err)
	}
	defer tx.Rollback()
	for _, item := range items {
		// Automatic indexes have no SQL and come back with their table.
		if item.SQL == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, item.SQL); err != nil {
			if isMissingTable(err) {
				debugf(opts.Logger, "skip %s %s: %v", item.Type, item.Name, err)
				continue
			}
			return fmt.Errorf("create %s %s: %w", item.Type, item.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit post-data: %w", err)
	}
	return nil
}

// Views, indexes and triggers over excluded tables cannot be recreated.
func isMissingTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}

func infof(l *log.Logger, format string, args ...any) {
	if l != nil {
		l.Infof(format, args...)
	}
}

func debugf(l *log.Logger, format string, args ...any) {
	if l != nil {
		l.Debugf(format, args...)
	}
}
