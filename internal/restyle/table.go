package restyle

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/dyne/fancyfont/internal/schema"
	"github.com/dyne/fancyfont/internal/transform"
)

type tableStats struct {
	Rows   int64
	Values int64
}

type rowJob struct {
	index  int
	values []any
}

type rowResult struct {
	index   int
	values  []any
	changed int64
	err     error
}

func copyTable(ctx context.Context, inDB, outDB *sql.DB, tbl *schema.Table, opts Options) (tableStats, error) {
	var stats tableStats
	colNames := make([]string, len(tbl.Columns))
	colIndex := map[string]int{}
	for i, c := range tbl.Columns {
		colNames[i] = c.Name
		colIndex[c.Name] = i
	}
	transformers, err := transform.BuildTable(opts.Config, tbl.Name)
	if err != nil {
		return stats, err
	}
	logger := opts.Logger.With("table", tbl.Name)
	for col, tr := range transformers {
		debugf(logger, "column %s: %s", col, tr.Name())
	}

	tx, err := outDB.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin %s: %w", tbl.Name, err)
	}
	defer tx.Rollback()

	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", schema.QuoteIdent(tbl.Name), strings.Join(quotedCols(colNames), ", "), placeholders(len(colNames)))
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return stats, fmt.Errorf("prepare insert %s: %w", tbl.Name, err)
	}
	defer stmt.Close()

	query := fmt.Sprintf("SELECT %s FROM %s %s", strings.Join(quotedCols(colNames), ", "), schema.QuoteIdent(tbl.Name), orderBy(tbl))
	rows, err := inDB.QueryContext(ctx, query)
	if err != nil {
		return stats, fmt.Errorf("select %s: %w", tbl.Name, err)
	}
	defer rows.Close()

	insert := func(values []any, changed int64) error {
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("insert %s: %w", tbl.Name, err)
		}
		stats.Rows++
		stats.Values += changed
		return nil
	}

	apply := func(values []any) ([]any, int64, error) {
		return applyRow(values, colIndex, transformers, tbl.Name)
	}

	if opts.Jobs <= 1 || len(transformers) == 0 {
		err = processSequential(rows, len(colNames), apply, insert)
	} else {
		err = processParallel(ctx, rows, len(colNames), opts.Jobs, apply, insert)
	}
	if err != nil {
		return stats, err
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate %s: %w", tbl.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit %s: %w", tbl.Name, err)
	}
	debugf(logger, "copied %d rows, %d values rewritten", stats.Rows, stats.Values)
	return stats, nil
}

func applyRow(values []any, colIndex map[string]int, transformers map[string]transform.Transformer, table string) ([]any, int64, error) {
	var changed int64
	for col, tr := range transformers {
		idx := colIndex[col]
		before := values[idx]
		after, err := tr.Transform(before)
		if err != nil {
			return nil, 0, fmt.Errorf("transform %s.%s: %w", table, col, err)
		}
		if s, ok := before.(string); ok && any(s) != after {
			changed++
		}
		values[idx] = after
	}
	return values, changed, nil
}

func scanRow(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	targets := make([]any, n)
	for i := range targets {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}
	return values, nil
}

func processSequential(rows *sql.Rows, n int, apply func([]any) ([]any, int64, error), insert func([]any, int64) error) error {
	for rows.Next() {
		values, err := scanRow(rows, n)
		if err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		values, changed, err := apply(values)
		if err != nil {
			return err
		}
		if err := insert(values, changed); err != nil {
			return err
		}
	}
	return nil
}

// processParallel fans rows out to jobs workers and inserts results in the
// order they were read.
func processParallel(ctx context.Context, rows *sql.Rows, n, jobs int, apply func([]any) ([]any, int64, error), insert func([]any, int64) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobsCh := make(chan rowJob, jobs*2)
	resultsCh := make(chan rowResult, jobs*2)
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobsCh {
				values, changed, err := apply(j.values)
				select {
				case resultsCh <- rowResult{index: j.index, values: values, changed: changed, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	readErr := make(chan error, 1)
	go func() {
		defer close(jobsCh)
		readErr <- func() error {
			index := 0
			for rows.Next() {
				values, err := scanRow(rows, n)
				if err != nil {
					return fmt.Errorf("scan row: %w", err)
				}
				select {
				case jobsCh <- rowJob{index: index, values: values}:
				case <-ctx.Done():
					return ctx.Err()
				}
				index++
			}
			return nil
		}()
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	pending := map[int]rowResult{}
	next := 0
	for res := range resultsCh {
		if res.err != nil {
			cancel()
			return res.err
		}
		pending[res.index] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			if err := insert(r.values, r.changed); err != nil {
				cancel()
				return err
			}
			delete(pending, next)
			next++
		}
	}
	return <-readErr
}

func orderBy(tbl *schema.Table) string {
	if len(tbl.PrimaryKeys) > 0 {
		return "ORDER BY " + strings.Join(quotedCols(tbl.PrimaryKeys), ", ")
	}
	if !tbl.WithoutRowID {
		return "ORDER BY rowid"
	}
	return ""
}

func quotedCols(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = schema.QuoteIdent(c)
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
