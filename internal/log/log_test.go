package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)
	l.Infof("copy table %s", "posts")
	l.Debugf("row %d", 7)
	out := buf.String()
	assert.Contains(t, out, "copy table posts")
	assert.NotContains(t, out, "row 7")
	assert.Equal(t, LevelInfo, l.Level())
}

func TestDebugLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf).With("table", "posts")
	l.Debugf("row %d", 7)
	out := buf.String()
	assert.Contains(t, out, "row 7")
	assert.Contains(t, out, "table=posts")
	assert.NotContains(t, out, "\x1b[", "buffers are not terminals")
}
