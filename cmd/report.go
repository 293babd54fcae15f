package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"clipharvest/application/pipeline"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

var statusColors = map[pipeline.Status]text.Colors{
	pipeline.StatusSuccess: {text.FgGreen},
	pipeline.StatusSkipped: {text.FgYellow},
	pipeline.StatusFailed:  {text.FgRed},
}

// RenderReport writes the per-entry outcome table. Box drawing and colour
// are only used when w is a terminal.
func RenderReport(w io.Writer, report *pipeline.Report) {
	if report == nil || len(report.Outcomes) == 0 {
		return
	}
	colorize := isTerminal(w)

	tw := table.NewWriter()
	if colorize {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"#", "Name", "Video", "Status", "Reason"})
	for _, o := range report.Outcomes {
		status := string(o.Status)
		if colorize {
			status = statusColors[o.Status].Sprint(status)
		}
		tw.AppendRow(table.Row{strconv.Itoa(o.Index), o.Name, videoLabel(o), status, o.Reason})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	fmt.Fprintln(w, tw.Render())
}

func videoLabel(o pipeline.Outcome) string {
	if o.Site == "" {
		return "-"
	}
	label := o.Site + "/" + o.ContentID
	if o.Part != "" {
		label += "/" + o.Part
	}
	return label
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
