package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw
}

// renderModelsTable lists the model allow-list, marking the configured default.
func renderModelsTable(models []string, defaultModel string) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Model", ""})
	for _, model := range models {
		marker := ""
		if model == defaultModel {
			marker = "default"
		}
		tw.AppendRow(table.Row{model, marker})
	}
	return tw.Render()
}

// renderSettingsTable shows the effective configuration as setting/value pairs.
func renderSettingsTable(rows [][2]string) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Setting", "Value"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	return tw.Render()
}
