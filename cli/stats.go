package cli

import (
	"context"
	"fmt"

	"github.com/clings-dev/clings/output"
	"github.com/clings-dev/clings/stats"
	"github.com/clings-dev/clings/task"
)

func (a *App) cmdStats(ctx context.Context, args []string) error {
	fs := a.flagSet("stats")
	trends := fs.Bool("trends", false, "show completion trends")
	heatmap := fs.Bool("heatmap", false, "show the activity heatmap")
	days := fs.IntP("days", "d", 30, "days covered by --trends")
	weeks := fs.IntP("weeks", "w", 8, "weeks covered by --heatmap")
	if err := fs.Parse(args); err != nil {
		return err
	}

	collector := stats.NewCollector(a.bridge)
	snap, err := collector.Collect(ctx)
	if err != nil {
		return err
	}
	snap.Taken = a.now()

	r := a.renderer(fs)
	isJSON := a.format(fs) == output.FormatJSON

	switch {
	case *trends:
		if isJSON {
			return r.JSON(trendPoints(snap, *days))
		}
		fmt.Fprintln(a.stdout, stats.Trends(snap, *days))
	case *heatmap:
		if isJSON {
			return r.JSON(heatmapPoints(snap, *weeks))
		}
		fmt.Fprintln(a.stdout, stats.Heatmap(snap, *weeks))
	default:
		m := stats.Calculate(snap)
		if isJSON {
			return r.JSON(m)
		}
		fmt.Fprintln(a.stdout, stats.Dashboard(snap, m))
	}
	return nil
}

// trendPoint is one day of the JSON trends output.
type trendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func trendPoints(snap stats.Snapshot, days int) []trendPoint {
	counts := stats.DailyCounts(snap, days)
	today := task.DateOf(snap.Taken)
	points := make([]trendPoint, days)
	for i, c := range counts {
		points[i] = trendPoint{Date: today.AddDays(i - days + 1).String(), Count: c}
	}
	return points
}

func heatmapPoints(snap stats.Snapshot, weeks int) map[string]int {
	today := task.DateOf(snap.Taken)
	cutoff := today.AddDays(-weeks * 7)
	out := make(map[string]int)
	for day, count := range stats.CompletionsByDay(snap) {
		if day.After(cutoff) && !day.After(today) {
			out[day.String()] = count
		}
	}
	return out
}
