package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatIDs   = "ids"
)

// Output is the rendering target and format for one command invocation.
type Output struct {
	Format string
	W      io.Writer
}

func (o Output) validate() error {
	switch o.Format {
	case FormatTable, FormatJSON, FormatCSV, FormatIDs:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, csv, or ids)", o.Format)
	}
}

// Column maps one field of T to a header and a rendered cell.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// renderList writes items in the selected format. The first column is used
// for the ids format.
func renderList[T any](o Output, items []T, cols []Column[T]) error {
	switch o.Format {
	case FormatJSON:
		return writeJSON(o.W, items)
	case FormatIDs:
		for _, it := range items {
			fmt.Fprintln(o.W, cols[0].Value(it))
		}
		return nil
	case FormatCSV:
		w := csv.NewWriter(o.W)
		headers := make([]string, len(cols))
		for i, c := range cols {
			headers[i] = c.Header
		}
		if err := w.Write(headers); err != nil {
			return err
		}
		for _, it := range items {
			row := make([]string, len(cols))
			for i, c := range cols {
				row[i] = c.Value(it)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	default:
		table := tablewriter.NewWriter(o.W)
		headers := make([]string, len(cols))
		for i, c := range cols {
			headers[i] = c.Header
		}
		table.SetHeader(headers)
		table.SetAutoWrapText(false)
		table.SetAutoFormatHeaders(true)
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, it := range items {
			row := make([]string, len(cols))
			for i, c := range cols {
				row[i] = c.Value(it)
			}
			table.Append(row)
		}
		table.Render()
		return nil
	}
}

// renderObject writes a single resource: a field/value table for the table
// and csv formats, the raw document for json, and id alone for ids.
func renderObject(o Output, id string, v any, fields [][2]string) error {
	switch o.Format {
	case FormatJSON:
		return writeJSON(o.W, v)
	case FormatIDs:
		fmt.Fprintln(o.W, id)
		return nil
	case FormatCSV:
		w := csv.NewWriter(o.W)
		for _, f := range fields {
			if err := w.Write([]string{f[0], f[1]}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	default:
		table := tablewriter.NewWriter(o.W)
		table.SetAutoWrapText(false)
		table.SetBorder(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, f := range fields {
			table.Append([]string{f[0], f[1]})
		}
		table.Render()
		return nil
	}
}

// pageFooter prints continuation tokens after a table listing so the next
// page is reachable with --page-token.
func pageFooter(o Output, nextToken string) {
	if o.Format == FormatTable && nextToken != "" {
		fmt.Fprintf(o.W, "\nNext page: --page-token %s\n", nextToken)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fmtTime renders an optional timestamp, with "-" for absent values.
func fmtTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// orDash substitutes "-" for empty strings in table cells.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
