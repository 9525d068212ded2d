package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clings-dev/clings/task"
)

var (
	styleHeading = lipgloss.NewStyle().Bold(true)
	styleGood    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleBad     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleAccent  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	heatStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders counts as a row of block characters scaled to the
// largest value.
func Sparkline(values []int) string {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		if max == 0 {
			b.WriteRune(sparkRunes[0])
			continue
		}
		idx := v * (len(sparkRunes) - 1) / max
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// BarChart renders labeled counts as horizontal bars capped at width.
func BarChart(labels []string, values []int, width int) string {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for i, label := range labels {
		bar := 0
		if max > 0 {
			bar = values[i] * width / max
		}
		if values[i] > 0 && bar == 0 {
			bar = 1
		}
		fmt.Fprintf(&b, "  %s %s %d\n", styleDim.Render(label), strings.Repeat("█", bar), values[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

// Heatmap renders completions per day over the given number of weeks as a
// calendar grid, one row per weekday, oldest week first.
func Heatmap(s Snapshot, weeks int) string {
	byDay := CompletionsByDay(s)
	today := task.DateOf(s.Taken)

	// Align the grid so each column is one week ending with the current one.
	end := today
	for end.Time().Weekday() != 6 { // Saturday closes the week
		end = end.AddDays(1)
	}
	start := end.AddDays(-weeks*7 + 1)

	max := 0
	for _, count := range byDay {
		if count > max {
			max = count
		}
	}

	weekdays := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	var b strings.Builder
	for row := 0; row < 7; row++ {
		b.WriteString(styleDim.Render(weekdays[row]))
		b.WriteString(" ")
		for col := 0; col < weeks; col++ {
			day := start.AddDays(col*7 + row)
			if day.After(today) {
				b.WriteString("  ")
				continue
			}
			b.WriteString(heatCell(byDay[day], max))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func heatCell(count, max int) string {
	if count == 0 {
		return heatStyles[0].Render("·")
	}
	idx := 1
	if max > 1 {
		idx += count * (len(heatStyles) - 2) / max
		if idx >= len(heatStyles) {
			idx = len(heatStyles) - 1
		}
	}
	return heatStyles[idx].Render("■")
}

// Dashboard renders the full metrics overview as text.
func Dashboard(s Snapshot, m Metrics) string {
	rule := styleDim.Render(strings.Repeat("─", 50))
	var b strings.Builder

	b.WriteString(styleHeading.Render("CURRENT STATUS") + "\n" + rule + "\n")
	fmt.Fprintf(&b, "  Inbox: %s  Today: %s  Upcoming: %s  Someday: %s\n",
		styleAccent.Render(fmt.Sprint(m.InboxCount)),
		styleGood.Render(fmt.Sprint(m.TodayCount)),
		styleAccent.Render(fmt.Sprint(m.UpcomingCount)),
		styleDim.Render(fmt.Sprint(m.SomedayCount)))
	overdue := styleGood.Render("0")
	if m.OverdueCount > 0 {
		overdue = styleBad.Render(fmt.Sprint(m.OverdueCount))
	}
	fmt.Fprintf(&b, "  Total open: %d  Overdue: %s  Due this week: %d\n\n",
		m.TotalOpen, overdue, m.DueThisWeek)

	b.WriteString(styleHeading.Render("COMPLETIONS") + "\n" + rule + "\n")
	fmt.Fprintf(&b, "  Last 7 days: %s  Last 30 days: %s  All time: %d\n",
		styleGood.Render(fmt.Sprint(m.Completion.Completed7d)),
		styleGood.Render(fmt.Sprint(m.Completion.Completed30d)),
		m.Completion.TotalCompleted)
	fmt.Fprintf(&b, "  Average: %.1f/day  Completion rate: %.0f%%\n",
		m.Completion.AvgPerDay, m.Completion.CompletionRate*100)
	if m.Completion.BestDay != nil {
		fmt.Fprintf(&b, "  Best day: %s (%d tasks)\n",
			m.Completion.BestDay.Time().Format("Jan 02"), m.Completion.BestDayCount)
	}
	b.WriteString("\n")

	b.WriteString(styleHeading.Render("STREAK") + "\n" + rule + "\n")
	current := styleDim.Render("0 days")
	if m.Streak.Current > 0 {
		current = styleGood.Render(fmt.Sprintf("%d days", m.Streak.Current))
	}
	fmt.Fprintf(&b, "  Current: %s  Longest: %d days\n", current, m.Streak.Longest)
	if m.Streak.DaysSinceCompletion > 0 {
		fmt.Fprintf(&b, "  Days since last completion: %d\n", m.Streak.DaysSinceCompletion)
	}
	b.WriteString("\n")

	b.WriteString(styleHeading.Render("PRODUCTIVITY PATTERNS") + "\n" + rule + "\n")
	fmt.Fprintf(&b, "  Most productive day: %s\n", styleAccent.Render(m.Time.BestDay))
	fmt.Fprintf(&b, "  Peak hour: %s\n", styleAccent.Render(FormatHour(m.Time.BestHour)))
	fmt.Fprintf(&b, "  Morning: %d  Afternoon: %d  Evening: %d  Night: %d\n\n",
		m.Time.Morning, m.Time.Afternoon, m.Time.Evening, m.Time.Night)

	fmt.Fprintf(&b, "  Last 7 days: %s\n", Sparkline(DailyCounts(s, 7)))

	if insights := Insights(s, m); len(insights) > 0 {
		b.WriteString("\n" + styleHeading.Render("INSIGHTS") + "\n" + rule + "\n")
		for _, in := range insights {
			fmt.Fprintf(&b, "  %s %s\n", in.marker(), in.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Trends renders daily completion counts over the given window.
func Trends(s Snapshot, days int) string {
	counts := DailyCounts(s, days)
	today := task.DateOf(s.Taken)

	var b strings.Builder
	b.WriteString(styleHeading.Render(fmt.Sprintf("Completion trends (last %d days)", days)) + "\n")
	b.WriteString(styleDim.Render(strings.Repeat("═", 50)) + "\n\n")
	fmt.Fprintf(&b, "Daily completions: %s\n\n", Sparkline(counts))

	chartDays := days
	if chartDays > 14 {
		chartDays = 14
	}
	labels := make([]string, chartDays)
	values := make([]int, chartDays)
	for i := 0; i < chartDays; i++ {
		day := today.AddDays(i - chartDays + 1)
		labels[i] = day.Time().Format("01/02")
		values[i] = counts[len(counts)-chartDays+i]
	}
	b.WriteString("Recent days:\n")
	b.WriteString(BarChart(labels, values, 30) + "\n\n")

	total, peak := 0, 0
	for _, c := range counts {
		total += c
		if c > peak {
			peak = c
		}
	}
	fmt.Fprintf(&b, "Total: %d  Average: %.1f/day  Peak: %d", total, float64(total)/float64(days), peak)
	return b.String()
}

// InsightLevel orders insights by urgency.
type InsightLevel int

const (
	InsightLow InsightLevel = iota
	InsightMedium
	InsightHigh
)

// Insight is one short observation about the current workload.
type Insight struct {
	Level   InsightLevel `json:"level"`
	Message string       `json:"message"`
}

func (in Insight) marker() string {
	switch in.Level {
	case InsightHigh:
		return styleBad.Render("!")
	case InsightMedium:
		return styleAccent.Render("*")
	default:
		return styleDim.Render("-")
	}
}

// Insights derives a handful of observations from the metrics, most
// urgent first, capped at three.
func Insights(s Snapshot, m Metrics) []Insight {
	var out []Insight
	if m.OverdueCount > 0 {
		out = append(out, Insight{InsightHigh,
			fmt.Sprintf("%d overdue items need attention", m.OverdueCount)})
	}
	if m.InboxCount > 10 {
		out = append(out, Insight{InsightMedium,
			fmt.Sprintf("inbox has %d unprocessed items", m.InboxCount)})
	}
	if m.Streak.DaysSinceCompletion >= 3 {
		out = append(out, Insight{InsightMedium,
			fmt.Sprintf("no completions in %d days", m.Streak.DaysSinceCompletion)})
	}
	if m.Streak.Current >= 3 {
		out = append(out, Insight{InsightLow,
			fmt.Sprintf("%d-day completion streak, keep it going", m.Streak.Current)})
	}
	if m.DueThisWeek > 0 {
		out = append(out, Insight{InsightLow,
			fmt.Sprintf("%d items due within a week", m.DueThisWeek)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Level > out[j].Level })
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}
