package schema

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"sort"
	"strings"
)

type Schema struct {
	Tables   map[string]*Table
	Views    []SQLItem
	Indexes  []SQLItem
	Triggers []SQLItem
}

// SQLItem is a non-table object recreated verbatim after the data copy.
type SQLItem struct {
	Name string
	SQL  string
	Type string
}

type Table struct {
	Name         string
	SQL          string
	Columns      []Column
	PrimaryKeys  []string
	References   []string
	WithoutRowID bool
}

type Column struct {
	Name    string
	Type    string
	NotNull bool
	PK      bool
}

// IsText applies SQLite's affinity rule: a declared type containing CHAR,
// CLOB or TEXT stores strings.
func (c Column) IsText() bool {
	t := strings.ToUpper(c.Type)
	return strings.Contains(t, "CHAR") || strings.Contains(t, "CLOB") || strings.Contains(t, "TEXT")
}

func (t *Table) TextColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if c.IsText() {
			out = append(out, c.Name)
		}
	}
	return out
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

func Load(ctx context.Context, db *sql.DB) (*Schema, error) {
	s := &Schema{Tables: map[string]*Table{}}
	rows, err := db.QueryContext(ctx, `SELECT name, type, sql FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite_master: %w", err)
	}
	var tables []*Table
	for rows.Next() {
		var name, typ string
		var sqlText sql.NullString
		if err := rows.Scan(&name, &typ, &sqlText); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sqlite_master: %w", err)
		}
		item := SQLItem{Name: name, SQL: sqlText.String, Type: typ}
		switch typ {
		case "table":
			if sqlText.Valid {
				tables = append(tables, &Table{
					Name:         name,
					SQL:          sqlText.String,
					WithoutRowID: strings.Contains(strings.ToUpper(sqlText.String), "WITHOUT ROWID"),
				})
			}
		case "index":
			s.Indexes = append(s.Indexes, item)
		case "trigger":
			s.Triggers = append(s.Triggers, item)
		case "view":
			s.Views = append(s.Views, item)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sqlite_master: %w", err)
	}
	// PRAGMA queries run after the sqlite_master cursor is closed so a single
	// connection pool is enough.
	for _, tbl := range tables {
		if err := loadColumns(ctx, db, tbl); err != nil {
			return nil, err
		}
		if err := loadReferences(ctx, db, tbl); err != nil {
			return nil, err
		}
		s.Tables[tbl.Name] = tbl
	}
	return s, nil
}

func loadColumns(ctx context.Context, db *sql.DB, tbl *Table) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(tbl.Name)))
	if err != nil {
		return fmt.Errorf("table_info %s: %w", tbl.Name, err)
	}
	defer rows.Close()
	pkOrder := map[int]string{}
	for rows.Next() {
		var cid, notnull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notnull, &dflt, &pk); err != nil {
			return fmt.Errorf("scan table_info %s: %w", tbl.Name, err)
		}
		tbl.Columns = append(tbl.Columns, Column{Name: name, Type: colType, NotNull: notnull == 1, PK: pk > 0})
		if pk > 0 {
			pkOrder[pk] = name
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table_info %s: %w", tbl.Name, err)
	}
	for i := 1; i <= len(pkOrder); i++ {
		tbl.PrimaryKeys = append(tbl.PrimaryKeys, pkOrder[i])
	}
	return nil
}

func loadReferences(ctx context.Context, db *sql.DB, tbl *Table) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", QuoteIdent(tbl.Name)))
	if err != nil {
		return fmt.Errorf("foreign_key_list %s: %w", tbl.Name, err)
	}
	defer rows.Close()
	seen := map[string]bool{}
	for rows.Next() {
		var id, seq int
		var parent, from, onUpdate, onDelete, match string
		var to sql.NullString
		if err := rows.Scan(&id, &seq, &parent, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return fmt.Errorf("scan foreign_key_list %s: %w", tbl.Name, err)
		}
		if !seen[parent] {
			seen[parent] = true
			tbl.References = append(tbl.References, parent)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate foreign_key_list %s: %w", tbl.Name, err)
	}
	return nil
}

func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// MatchAny reports whether name matches one of the glob patterns.
func MatchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Included applies include/exclude glob lists: an empty include list admits
// every table, and exclusion wins.
func Included(include, exclude []string, name string) bool {
	if len(include) > 0 && !MatchAny(include, name) {
		return false
	}
	return !MatchAny(exclude, name)
}

// TableOrder returns table names with referenced tables first. Ties and
// cycles fall back to name order.
func TableOrder(s *Schema) []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	done := map[string]bool{}
	visiting := map[string]bool{}
	order := make([]string, 0, len(names))
	var visit func(string)
	visit = func(name string) {
		if done[name] || visiting[name] {
			return
		}
		visiting[name] = true
		tbl := s.Tables[name]
		parents := append([]string(nil), tbl.References...)
		sort.Strings(parents)
		for _, p := range parents {
			if _, ok := s.Tables[p]; ok && p != name {
				visit(p)
			}
		}
		visiting[name] = false
		done[name] = true
		order = append(order, name)
	}
	for _, name := range names {
		visit(name)
	}
	return order
}
