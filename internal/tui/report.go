package tui

import (
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type ReportRow struct {
	Input   string
	Output  string
	Status  string
	Size    int64
	Metrics string
}

// RenderReport renders a per-file table of the batch results.
func RenderReport(rows []ReportRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Input", "Status", "Output", "Size", "Metrics"})

	for i, row := range rows {
		size := ""
		if row.Size > 0 {
			size = humanize.Bytes(uint64(row.Size))
		}
		tw.AppendRow(table.Row{i + 1, row.Input, row.Status, row.Output, size, row.Metrics})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
