package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"booructl/internal/ingest"
)

// renderSummaryTable formats the per-file outcomes of a batch run.
func renderSummaryTable(report *ingest.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"File", "Post", "Artist", "Attempts", "Status"})

	for _, outcome := range report.Outcomes {
		post := ""
		status := "ok"
		if outcome.Err != nil {
			status = outcome.Err.Error()
		} else {
			post = strconv.FormatInt(int64(outcome.PostID), 10)
		}
		tw.AppendRow(table.Row{
			filepath.Base(outcome.Path),
			post,
			outcome.Artist,
			outcome.Attempts,
			status,
		})
	}
	tw.AppendFooter(table.Row{
		"", "", "", "",
		fmt.Sprintf("%d/%d succeeded", len(report.Succeeded()), len(report.Outcomes)),
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// mergeProgressLine formats one completed pair for interactive output.
func mergeProgressLine(index, total int, outcome ingest.PairOutcome, colorize bool) string {
	prefix := fmt.Sprintf("[%d/%d] %d -> %d", index+1, total, outcome.Pair.Remove, outcome.Pair.MergeInto)
	if outcome.Err != nil {
		msg := prefix + " failed: " + outcome.Err.Error()
		if colorize {
			return text.FgRed.Sprint(msg)
		}
		return msg
	}
	msg := prefix + " merged"
	if colorize {
		return text.FgGreen.Sprint(msg)
	}
	return msg
}
