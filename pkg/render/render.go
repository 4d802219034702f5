// Package render prints season standings for terminals, browsers and
// Telegram chats.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"f1champsstandings/pkg/helper"
	"f1champsstandings/pkg/seasons"
	"f1champsstandings/pkg/standings"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

const (
	columnDriver = "Driver Name"
	columnWins   = "Wins"
	columnPoints = "Total Points"
	columnRank   = "Rank"

	tableDriver = "Piloto"
	tablePos    = "Pos"
	tableWins   = "V"
	tablePoints = "Pts"
)

var formats = []Format{FormatTable, FormatMarkdown, FormatCSV, FormatHTML, FormatJSON}

// Formats lists every supported output format.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat maps a user supplied name to a Format. The empty string is
// the text table.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q, want one of %s: %w", s, FormatList(), standings.ErrInvalidArgument)
}

// FormatList joins the supported formats for help and error messages.
func FormatList() string {
	names := make([]string, 0, len(formats))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// ContentType is the HTTP media type of a rendered report.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Report writes r to w in the given format.
func Report(w io.Writer, r seasons.Report, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	t := standingsTable(r.Standings)
	var out string
	switch format {
	case FormatTable:
		t.SetStyle(table.StyleRounded)
		t.SetTitle(fmt.Sprintf("Season %d", r.Season))
		out = t.Render()
	case FormatMarkdown:
		out = t.RenderMarkdown()
	case FormatCSV:
		out = t.RenderCSV()
	case FormatHTML:
		out = t.RenderHTML()
	default:
		return fmt.Errorf("unknown format %q: %w", format, standings.ErrInvalidArgument)
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

func standingsTable(report standings.RankedReport) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{columnDriver, columnWins, columnPoints, columnRank})
	for _, rec := range report {
		t.AppendRow(table.Row{rec.DriverName, rec.TotalWins, rec.TotalPoints, rec.Rank})
	}
	return t
}

// Seasons writes one year per line, latest first.
func Seasons(w io.Writer, years []int) error {
	for _, y := range years {
		if _, err := fmt.Fprintln(w, y); err != nil {
			return err
		}
	}
	return nil
}

// Telegram renders the first limit records as a compact monospace table
// for chat messages. A limit <= 0 renders every record.
func Telegram(report standings.RankedReport, limit int) string {
	if limit <= 0 || limit > len(report) {
		limit = len(report)
	}

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{tablePos, tableDriver, tableWins, tablePoints})
	for _, rec := range report[:limit] {
		t.AppendRow([]interface{}{
			helper.FormatRank(rec.Rank),
			helper.GetDriverCodeName(rec.DriverName),
			rec.TotalWins,
			helper.FormatPoints(rec.TotalPoints),
		})
	}
	t.Render()
	return fmt.Sprintf("<pre>%s</pre>", b.String())
}
