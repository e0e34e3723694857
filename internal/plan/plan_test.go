package plan

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyne/fancyfont/internal/config"
	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/transform"
	_ "modernc.org/sqlite"
)

func TestPlanOutput(t *testing.T) {
	ctx := context.Background()
	inPath := filepath.Join(t.TempDir(), "plan.sqlite")
	require.NoError(t, createPlanDB(inPath))

	cfg := config.Default()
	cfg.Tables = map[string]*config.TableConfig{
		"users": {
			Columns: map[string]*config.ColumnConfig{
				"nickname":  {Style: "bubble"},
				"full_name": {Style: "reversed"},
				"slug":      {Plain: true},
			},
		},
	}
	var out bytes.Buffer
	require.NoError(t, Run(ctx, inPath, cfg, &out, log.New(log.LevelInfo, io.Discard)))

	golden, err := os.ReadFile(filepath.Join("testdata", "plan_golden.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(golden), out.String())
}

func TestPlanUnknownColumn(t *testing.T) {
	inPath := filepath.Join(t.TempDir(), "plan.sqlite")
	require.NoError(t, createPlanDB(inPath))

	cfg := config.Default()
	cfg.Tables = map[string]*config.TableConfig{
		"users": {Columns: map[string]*config.ColumnConfig{"email": {Style: "bold"}}},
	}
	err := Run(context.Background(), inPath, cfg, io.Discard, nil)
	assert.ErrorContains(t, err, "users.email")
}

type failingTransformer struct{}

func (failingTransformer) Name() string { return "Failing" }

func (failingTransformer) Transform(any) (any, error) {
	return nil, errors.New("boom")
}

func TestPlanReportsSampleError(t *testing.T) {
	inPath := filepath.Join(t.TempDir(), "plan.sqlite")
	require.NoError(t, createPlanDB(inPath))

	orig := buildTransformer
	buildTransformer = func(*config.ColumnConfig) (transform.Transformer, error) { return failingTransformer{}, nil }
	t.Cleanup(func() { buildTransformer = orig })

	cfg := config.Default()
	cfg.Tables = map[string]*config.TableConfig{
		"users": {Columns: map[string]*config.ColumnConfig{"slug": {Plain: true}}},
	}
	err := Run(context.Background(), inPath, cfg, io.Discard, nil)
	assert.ErrorContains(t, err, "sample users.slug: boom")
}

func createPlanDB(path string) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return err
	}
	defer db.Close()
	stmts := []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, nickname TEXT, full_name TEXT, slug TEXT)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER, status TEXT, FOREIGN KEY(user_id) REFERENCES users(id))`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
