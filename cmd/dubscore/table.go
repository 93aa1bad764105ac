package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"dubscore/internal/history"
	"dubscore/internal/quality"
	"dubscore/internal/report"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type tableView struct {
	title   string
	headers []string
	aligns  []columnAlignment
	rows    [][]string
}

func (s tableView) render() string {
	columns := len(s.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if s.title != "" {
		tw.SetTitle(s.title)
	}

	header := make(table.Row, columns)
	for i, h := range s.headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range s.rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(s.aligns) && s.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// renderRanking lists successful records best first.
func renderRanking(ranked []quality.Record) string {
	tbl := tableView{
		title:   "Ranking",
		headers: []string{"#", "File", "Score", "Codec", "Loudness", "True Peak", "Problems"},
		aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight},
	}
	for i, rec := range ranked {
		tbl.rows = append(tbl.rows, []string{
			strconv.Itoa(i + 1),
			rec.Name,
			fmt.Sprintf("%d/100", rec.OverallScore),
			rec.Raw.CodecName(),
			metricCell(rec.Raw.IntegratedLoudness, "LUFS", rec.Marker(quality.MetricLoudness)),
			metricCell(rec.Raw.TruePeak, "dBTP", rec.Marker(quality.MetricTruePeak)),
			strconv.Itoa(len(rec.Problems)),
		})
	}
	return tbl.render()
}

func renderHistory(entries []history.Entry) string {
	tbl := tableView{
		headers: []string{"Session", "Finished", "Files", "Failed", "Avg", "Recommended"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	}
	for _, e := range entries {
		recommended := "-"
		if e.RecommendedFile != "" {
			recommended = fmt.Sprintf("%s (%d)", e.RecommendedFile, e.RecommendedScore)
		}
		tbl.rows = append(tbl.rows, []string{
			shortID(e.ID),
			e.FinishedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(e.TotalFiles),
			strconv.Itoa(e.FailedFiles),
			fmt.Sprintf("%.1f", e.AverageScore),
			recommended,
		})
	}
	return tbl.render()
}

func renderParsedRanking(rows []report.Row) string {
	tbl := tableView{
		headers: []string{"#", "File", "Score"},
		aligns:  []columnAlignment{alignRight, alignLeft, alignRight},
	}
	for i, row := range rows {
		tbl.rows = append(tbl.rows, []string{strconv.Itoa(i + 1), row.Name, strconv.Itoa(row.Score)})
	}
	return tbl.render()
}

func metricCell(v *float64, suffix string, marker quality.Marker) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%s %s %s", quality.FormatNumber(*v), suffix, marker.Symbol())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
