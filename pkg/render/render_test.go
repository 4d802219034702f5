package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1champsstandings/pkg/seasons"
	"f1champsstandings/pkg/standings"
)

func testReport() seasons.Report {
	return seasons.Report{
		Season:      2023,
		GeneratedAt: time.Date(2023, 11, 26, 15, 0, 0, 0, time.UTC),
		Standings: standings.RankedReport{
			{DriverID: 1, DriverName: "Max Verstappen", TotalWins: 2, TotalPoints: 50, Rank: 1},
			{DriverID: 2, DriverName: "Lewis Hamilton", TotalWins: 0, TotalPoints: 18, Rank: 2},
			{DriverID: 3, DriverName: "Logan Sargeant", TotalWins: 0, TotalPoints: 0, Rank: 0},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatTable},
		{"table", FormatTable},
		{"Markdown", FormatMarkdown},
		{"csv", FormatCSV},
		{"html", FormatHTML},
		{"JSON", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, standings.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "table, markdown, csv, html, json")
}

func TestReport_Formats(t *testing.T) {
	tests := []struct {
		format Format
		want   []string
	}{
		{FormatTable, []string{"Season 2023", "DRIVER NAME", "Max Verstappen", "Lewis Hamilton", "╭"}},
		{FormatMarkdown, []string{"| Driver Name | Wins | Total Points | Rank |", "| Max Verstappen | 2 | 50 | 1 |"}},
		{FormatCSV, []string{"Driver Name,Wins,Total Points,Rank", "Max Verstappen,2,50,1", "Logan Sargeant,0,0,0"}},
		{FormatHTML, []string{"<table", "Max Verstappen", "</table>"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var b bytes.Buffer
			require.NoError(t, Report(&b, testReport(), tt.format))
			for _, w := range tt.want {
				assert.Contains(t, b.String(), w)
			}
		})
	}
}

func TestReport_RowOrderFollowsRanking(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Report(&b, testReport(), FormatCSV))

	out := b.String()
	assert.Less(t, bytes.Index([]byte(out), []byte("Verstappen")), bytes.Index([]byte(out), []byte("Hamilton")))
	assert.Less(t, bytes.Index([]byte(out), []byte("Hamilton")), bytes.Index([]byte(out), []byte("Sargeant")))
}

func TestReport_JSON(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Report(&b, testReport(), FormatJSON))

	var got seasons.Report
	require.NoError(t, json.Unmarshal(b.Bytes(), &got))
	assert.Equal(t, testReport(), got)
	assert.Contains(t, b.String(), `"total_points": 50`)
}

func TestReport_UnknownFormat(t *testing.T) {
	err := Report(&bytes.Buffer{}, testReport(), Format("xml"))
	assert.ErrorIs(t, err, standings.ErrInvalidArgument)
}

func TestReport_EmptySeason(t *testing.T) {
	var b bytes.Buffer
	r := seasons.Report{Season: 1949, Standings: standings.RankedReport{}}
	require.NoError(t, Report(&b, r, FormatCSV))
	assert.Contains(t, b.String(), "Driver Name,Wins,Total Points,Rank")
	assert.NotContains(t, b.String(), "\n,")
}

func TestSeasons(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Seasons(&b, []int{2023, 2022, 1950}))
	assert.Equal(t, "2023\n2022\n1950\n", b.String())
}

func TestTelegram(t *testing.T) {
	out := Telegram(testReport().Standings, 2)

	assert.Contains(t, out, "<pre>")
	assert.Contains(t, out, "VER")
	assert.Contains(t, out, "HAM")
	assert.NotContains(t, out, "SAR")
	assert.Contains(t, out, "P1")

	all := Telegram(testReport().Standings, 0)
	assert.Contains(t, all, "SAR")
}

func TestFormatContentType(t *testing.T) {
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "text/html; charset=utf-8", FormatHTML.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", FormatTable.ContentType())
}
