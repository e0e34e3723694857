package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/restyle"
	"github.com/dyne/fancyfont/internal/schema"
	_ "modernc.org/sqlite"
)

// Run lists tables with their row counts and the TEXT columns a restyle
// config can target.
func Run(ctx context.Context, inPath string, out io.Writer, logger *log.Logger) error {
	db, err := sql.Open("sqlite", restyle.DSN(inPath))
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer db.Close()

	s, err := schema.Load(ctx, db)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Tables:")
	for _, name := range schema.TableOrder(s) {
		count, err := rowCount(ctx, db, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "- %s (%d rows)\n", name, count)
		if cols := s.Tables[name].TextColumns(); len(cols) > 0 {
			fmt.Fprintf(out, "  text columns: %s\n", strings.Join(cols, ", "))
		}
	}
	if logger != nil {
		logger.Infof("inspect complete")
	}
	return nil
}

func rowCount(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(1) FROM %s", schema.QuoteIdent(table))
	if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
