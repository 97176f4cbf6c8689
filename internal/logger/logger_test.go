package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(&buf, "debug", "json")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("year", 2024).Info("Year opened")
	assert.Contains(t, buf.String(), `"year":2024`)

	_, err = New(&buf, "chatty", "text")
	assert.Error(t, err)
}

func TestErrorLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appexc.log")

	for i := 0; i < 2; i++ {
		el, err := OpenErrorLog(path)
		require.NoError(t, err)
		el.Record("action-id", "leave add", errors.New("disk full"))
		require.NoError(t, el.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 2, bytes.Count(data, []byte("disk full")))
	assert.Contains(t, content, "action=action-id")
	assert.Contains(t, content, `command="leave add"`)
}

func TestDiscard(t *testing.T) {
	el := Discard()
	el.Record("id", "cmd", errors.New("ignored"))
	assert.NoError(t, el.Close())
}
