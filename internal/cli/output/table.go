package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by list views that print as a table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// PrintTable writes data as a borderless, left-aligned table with upper-case
// headers.
func PrintTable(w io.Writer, data TableRenderer) error {
	t := plainTable(w, "")
	t.SetHeader(data.Headers())
	t.SetAutoFormatHeaders(true)
	t.AppendBulk(data.Rows())
	t.Render()
	return nil
}

// PrintKeyValue writes one "key: value" line per pair.
func PrintKeyValue(w io.Writer, pairs [][2]string) error {
	t := plainTable(w, ":")
	t.SetAutoFormatHeaders(false)
	for _, kv := range pairs {
		t.Append(kv[:])
	}
	t.Render()
	return nil
}

// plainTable returns a tablewriter with every border and rule turned off, so
// the output stays greppable.
func plainTable(w io.Writer, columnSep string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetBorder(false)
	t.SetHeaderLine(false)
	t.SetCenterSeparator("")
	t.SetRowSeparator("")
	t.SetColumnSeparator(columnSep)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetTablePadding("  ")
	t.SetNoWhiteSpace(true)
	return t
}
