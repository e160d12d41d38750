// Package export renders leaderboards as downloadable files.
package export

import (
	"bytes"
	"fmt"
	"io"

	"hackathon_hub/internal/domain/model"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/xuri/excelize/v2"
)

const leaderboardSheet = "Leaderboard"

var leaderboardHeader = []interface{}{"Rank", "Team", "Average Score", "Judges"}

// WriteLeaderboardXLSX writes entries as a single-sheet workbook.
func WriteLeaderboardXLSX(w io.Writer, entries []model.LeaderboardEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), leaderboardSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(leaderboardSheet, "A1", &leaderboardHeader); err != nil {
		return fmt.Errorf("export: header row: %w", err)
	}
	for i, e := range entries {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		row := []interface{}{e.Rank, e.TeamName, e.AverageScore, e.JudgeCount}
		if err := f.SetSheetRow(leaderboardSheet, axis, &row); err != nil {
			return fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(leaderboardSheet, "B", "B", 32); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// maxChartBars caps the chart to the top of the leaderboard; labels become
// unreadable past this.
const maxChartBars = 15

var (
	chartBackground = drawing.ColorFromHex("ffffff")
	chartBar        = drawing.ColorFromHex("2563eb")
	chartText       = drawing.ColorFromHex("1f2937")
)

// LeaderboardChart renders the average score per team as a PNG bar chart.
func LeaderboardChart(title string, entries []model.LeaderboardEntry) ([]byte, error) {
	if len(entries) == 0 {
		return renderPlaceholder("No scores yet")
	}
	if len(entries) > maxChartBars {
		entries = entries[:maxChartBars]
	}

	top := 1.0
	bars := make([]chart.Value, len(entries))
	for i, e := range entries {
		top = max(top, e.AverageScore)
		bars[i] = chart.Value{
			Label: fmt.Sprintf("#%d %s", e.Rank, e.TeamName),
			Value: e.AverageScore,
			Style: chart.Style{FillColor: chartBar, StrokeColor: chartBar},
		}
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      960,
		Height:     480,
		BarWidth:   40,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 48, Bottom: 24},
		},
		XAxis: chart.Style{FontColor: chartText, TextRotationDegrees: 45},
		// Min 0 and Max at least 1, so the range is never empty.
		YAxis: chart.YAxis{
			Name:  "Average score",
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("export: render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPlaceholder(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(chartText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("export: render placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
