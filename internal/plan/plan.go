package plan

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"

	"github.com/dyne/fancyfont/internal/config"
	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/restyle"
	"github.com/dyne/fancyfont/internal/schema"
	"github.com/dyne/fancyfont/internal/style"
	"github.com/dyne/fancyfont/internal/transform"
	_ "modernc.org/sqlite"
)

// buildTransformer is swapped in tests.
var buildTransformer = transform.Build

// Run prints, per included table, which columns a restyle with cfg would
// rewrite and a sample of the result.
func Run(ctx context.Context, inPath string, cfg *config.Config, out io.Writer, logger *log.Logger) error {
	if cfg == nil {
		cfg = config.Default()
	}
	db, err := sql.Open("sqlite", restyle.DSN(inPath))
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer db.Close()

	s, err := schema.Load(ctx, db)
	if err != nil {
		return err
	}
	if err := restyle.CheckColumns(s, cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, "Plan:")
	for _, name := range schema.TableOrder(s) {
		if !schema.Included(cfg.IncludeTables, cfg.ExcludeTables, name) {
			continue
		}
		fmt.Fprintf(out, "- %s\n", name)
		tbl := cfg.Tables[name]
		if tbl == nil || len(tbl.Columns) == 0 {
			fmt.Fprintln(out, "  (copied as is)")
			continue
		}
		cols := make([]string, 0, len(tbl.Columns))
		for c := range tbl.Columns {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		for _, c := range cols {
			tr, err := buildTransformer(tbl.Columns[c])
			if err != nil {
				return err
			}
			if tr == nil {
				continue
			}
			sample, err := tr.Transform(sampleText(tbl.Columns[c]))
			if err != nil {
				return fmt.Errorf("sample %s.%s: %w", name, c, err)
			}
			fmt.Fprintf(out, "  - %s: %s  %s\n", c, tr.Name(), sample)
		}
	}
	if logger != nil {
		logger.Infof("plan complete")
	}
	return nil
}

func sampleText(cc *config.ColumnConfig) string {
	if cc.Plain {
		return style.Transform("Sample", "bold")
	}
	return "Sample"
}
