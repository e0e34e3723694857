package schema

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T, stmts ...string) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.sqlite")
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return db
}

func TestLoad(t *testing.T) {
	db := openTestDB(t,
		`CREATE TABLE authors (id INTEGER PRIMARY KEY, name VARCHAR(40) NOT NULL, bio CLOB, age INTEGER)`,
		`CREATE TABLE posts (id INTEGER PRIMARY KEY, author_id INTEGER REFERENCES authors(id), title TEXT)`,
		`CREATE INDEX posts_title ON posts(title)`,
		`CREATE VIEW titles AS SELECT title FROM posts`,
	)
	s, err := Load(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, s.Tables, 2)

	authors := s.Tables["authors"]
	assert.Equal(t, []string{"id"}, authors.PrimaryKeys)
	assert.Equal(t, []string{"name", "bio"}, authors.TextColumns())
	assert.True(t, authors.HasColumn("age"))
	assert.False(t, authors.HasColumn("missing"))

	posts := s.Tables["posts"]
	assert.Equal(t, []string{"authors"}, posts.References)
	assert.Equal(t, []string{"title"}, posts.TextColumns())

	require.Len(t, s.Indexes, 1)
	assert.Equal(t, "posts_title", s.Indexes[0].Name)
	require.Len(t, s.Views, 1)
	assert.Equal(t, "titles", s.Views[0].Name)
}

func TestTableOrder(t *testing.T) {
	s := &Schema{Tables: map[string]*Table{
		"comments": {Name: "comments", References: []string{"posts", "users"}},
		"posts":    {Name: "posts", References: []string{"users"}},
		"users":    {Name: "users"},
		"alpha":    {Name: "alpha", References: []string{"beta"}},
		"beta":     {Name: "beta", References: []string{"alpha"}},
		"self":     {Name: "self", References: []string{"self", "gone"}},
	}}
	order := TableOrder(s)
	assert.Len(t, order, 6)
	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["users"], pos["posts"])
	assert.Less(t, pos["posts"], pos["comments"])
	assert.Contains(t, order, "alpha")
	assert.Contains(t, order, "beta")
	assert.Contains(t, order, "self")
}

func TestIncluded(t *testing.T) {
	assert.True(t, Included(nil, nil, "posts"))
	assert.True(t, Included([]string{"p*"}, nil, "posts"))
	assert.False(t, Included([]string{"u*"}, nil, "posts"))
	assert.False(t, Included(nil, []string{"posts"}, "posts"))
	assert.False(t, Included([]string{"*"}, []string{"p*"}, "posts"))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
}
