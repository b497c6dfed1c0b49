package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverInfo struct {
	Status string `json:"status" yaml:"status"`
	PID    int    `json:"pid" yaml:"pid"`
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	err := PrintJSON(&buf, serverInfo{Status: "running", PID: 42})
	require.NoError(t, err)

	got := buf.String()
	assert.Contains(t, got, `"status": "running"`)
	assert.Contains(t, got, `"pid": 42`)
}

func TestPrintJSON_Slice(t *testing.T) {
	data := []serverInfo{
		{Status: "running", PID: 1},
		{Status: "stopped", PID: 2},
	}

	var buf bytes.Buffer
	err := PrintJSON(&buf, data)
	require.NoError(t, err)

	got := buf.String()
	assert.Contains(t, got, `"status": "running"`)
	assert.Contains(t, got, `"status": "stopped"`)
}
