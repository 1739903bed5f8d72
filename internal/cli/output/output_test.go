package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "table", want: FormatTable},
		{input: "", want: FormatTable},
		{input: "JSON", want: FormatJSON},
		{input: " yml ", want: FormatYAML},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type lease struct {
	ClientID string `json:"client_id" yaml:"client_id"`
	Status   string `json:"status" yaml:"status"`
}

type leaseTable []lease

func (t leaseTable) Headers() []string { return []string{"Client ID", "Lease"} }

func (t leaseTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, l := range t {
		rows = append(rows, []string{l.ClientID, l.Status})
	}
	return rows
}

func clientTable() leaseTable {
	return leaseTable{
		{ClientID: "0000000100000001", Status: "active"},
		{ClientID: "0000000100000002", Status: "expired"},
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(clientTable()))

	out := buf.String()
	assert.Contains(t, out, "CLIENT ID")
	assert.Contains(t, out, "0000000100000002")
	assert.Contains(t, out, "expired")
}

func TestPrinter_TableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(lease{ClientID: "a", Status: "active"}))
	assert.JSONEq(t, `{"client_id":"a","status":"active"}`, buf.String())
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	data := []lease{{ClientID: "a", Status: "active"}}
	require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(data))
	assert.JSONEq(t, `[{"client_id":"a","status":"active"}]`, buf.String())
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(lease{ClientID: "a", Status: "active"}))
	assert.Equal(t, "client_id: a\nstatus: active\n", buf.String())
}

func TestPrinter_StatusLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable, false)
	p.Success("Client evicted")
	p.Warning("read-only")
	assert.Equal(t, "Client evicted\nread-only\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, FormatTable, true).Success("ok")
	assert.Equal(t, "\033[32mok\033[0m\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, FormatJSON, false).Success("ok")
	assert.Empty(t, buf.String())
}

func TestPrintKeyValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintKeyValue(&buf, [][2]string{
		{"Client ID", "0000000100000001"},
		{"Sessions", "2"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Client ID")
	assert.Contains(t, out, "0000000100000001")
	assert.Contains(t, out, "Sessions")
}
