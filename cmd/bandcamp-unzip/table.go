package main

import (
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/bandcamp-unzip/internal/extract"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
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

// renderPlan lists every member of every archive with its destination.
// Archives that cannot be extracted get a single row with the reason.
func renderPlan(plans []extract.Result) string {
	var rows [][]string
	for _, plan := range plans {
		archive := filepath.Base(plan.Archive)
		if plan.Err != nil {
			rows = append(rows, []string{archive, "-", "skipped: " + plan.Err.Error()})
			continue
		}
		for _, track := range plan.Album.Tracks {
			rows = append(rows, []string{archive, track.Member, track.Path})
		}
	}
	return renderTable([]string{"Archive", "Member", "Destination"}, rows, nil)
}

// renderSummary shows the outcome of every archive in the batch.
func renderSummary(results []extract.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		tracks := "-"
		if r.Album != nil {
			tracks = strconv.Itoa(len(r.Album.AudioTracks()))
		}
		size := "-"
		if r.OK() {
			size = humanize.Bytes(uint64(r.Bytes))
		}
		rows = append(rows, []string{filepath.Base(r.Archive), r.Status(), tracks, size})
	}
	return renderTable(
		[]string{"Archive", "Status", "Tracks", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
	)
}
