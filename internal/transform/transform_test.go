package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyne/fancyfont/internal/config"
	"github.com/dyne/fancyfont/internal/style"
)

func TestDeterministicTransforms(t *testing.T) {
	bold, err := NewStyle("bold")
	require.NoError(t, err)
	cases := []Transformer{bold, &Plain{}, Chain{bold, &Plain{}}}
	for _, tr := range cases {
		val1, err := tr.Transform("input 1")
		require.NoError(t, err, tr.Name())
		val2, err := tr.Transform("input 1")
		require.NoError(t, err, tr.Name())
		assert.Equal(t, val1, val2, tr.Name())
	}
}

func TestStyleTransformer(t *testing.T) {
	tr, err := NewStyle("reversed")
	require.NoError(t, err)
	assert.Equal(t, "Style(reversed)", tr.Name())

	out, err := tr.Transform("hello")
	require.NoError(t, err)
	assert.Equal(t, style.Transform("hello", "reversed"), out)

	out, err = tr.Transform("ab")
	require.NoError(t, err)
	assert.Equal(t, "qɐ", out)

	for _, v := range []any{nil, int64(3), 2.5, []byte("ab")} {
		out, err := tr.Transform(v)
		require.NoError(t, err)
		assert.Equal(t, v, out)
	}

	_, err = NewStyle("comic")
	assert.ErrorIs(t, err, style.ErrUnknownStyle)
}

func TestChainRoundTrip(t *testing.T) {
	bold, err := NewStyle("bold")
	require.NoError(t, err)
	c := Chain{bold, &Plain{}}
	assert.Equal(t, "Style(bold)+Plain", c.Name())
	out, err := c.Transform("Round Trip 7")
	require.NoError(t, err)
	assert.Equal(t, "Round Trip 7", out)
}

func TestBuild(t *testing.T) {
	tr, err := Build(nil)
	require.NoError(t, err)
	assert.Nil(t, tr)

	tr, err = Build(&config.ColumnConfig{Style: "bubble"})
	require.NoError(t, err)
	assert.Equal(t, "Style(bubble)", tr.Name())

	tr, err = Build(&config.ColumnConfig{Plain: true})
	require.NoError(t, err)
	assert.Equal(t, "Plain", tr.Name())

	tr, err = Build(&config.ColumnConfig{Plain: true, Style: "script"})
	require.NoError(t, err)
	assert.Equal(t, "restyle", Kind(&config.ColumnConfig{Plain: true, Style: "script"}))
	assert.Equal(t, "Plain+Style(script)", tr.Name())
	out, err := tr.Transform(style.Transform("Tux", "bold"))
	require.NoError(t, err)
	assert.Equal(t, style.Transform("Tux", "script"), out)

	_, err = Build(&config.ColumnConfig{Plain: true, Style: "comic"})
	assert.ErrorIs(t, err, style.ErrUnknownStyle)

	_, err = Build(&config.ColumnConfig{})
	assert.Error(t, err)
}

func TestBuildTable(t *testing.T) {
	cfg := &config.Config{Tables: map[string]*config.TableConfig{
		"posts": {Columns: map[string]*config.ColumnConfig{
			"title": {Style: "bold"},
			"slug":  {Plain: true},
			"skip":  nil,
		}},
	}}
	trs, err := BuildTable(cfg, "posts")
	require.NoError(t, err)
	assert.Len(t, trs, 2)

	trs, err = BuildTable(cfg, "users")
	require.NoError(t, err)
	assert.Empty(t, trs)
}
