package stats

import (
	"fmt"

	"github.com/clings-dev/clings/task"
)

// CompletionMetrics summarizes completion volume over time.
type CompletionMetrics struct {
	Completed7d    int     `json:"completed_7d"`
	Completed30d   int     `json:"completed_30d"`
	TotalCompleted int     `json:"total_completed"`
	AvgPerDay      float64 `json:"avg_per_day"`
	// CompletionRate is completed / (completed + open) over the snapshot.
	CompletionRate float64    `json:"completion_rate"`
	BestDay        *task.Date `json:"best_day,omitempty"`
	BestDayCount   int        `json:"best_day_count"`
}

// StreakMetrics tracks runs of consecutive days with at least one
// completion.
type StreakMetrics struct {
	Current             int `json:"current"`
	Longest             int `json:"longest"`
	DaysSinceCompletion int `json:"days_since_completion"`
}

// TimeMetrics buckets completions by time of day and weekday.
type TimeMetrics struct {
	Morning   int `json:"morning"`   // 05:00-11:59
	Afternoon int `json:"afternoon"` // 12:00-16:59
	Evening   int `json:"evening"`   // 17:00-21:59
	Night     int `json:"night"`     // 22:00-04:59

	BestDay  string `json:"best_day"`
	BestHour int    `json:"best_hour"`
}

// FormatHour renders an hour of day as a 12-hour clock label.
func FormatHour(hour int) string {
	switch {
	case hour == 0:
		return "12am"
	case hour < 12:
		return fmt.Sprintf("%dam", hour)
	case hour == 12:
		return "12pm"
	default:
		return fmt.Sprintf("%dpm", hour-12)
	}
}

// Metrics is the full set of productivity numbers derived from a snapshot.
type Metrics struct {
	InboxCount    int `json:"inbox_count"`
	TodayCount    int `json:"today_count"`
	UpcomingCount int `json:"upcoming_count"`
	AnytimeCount  int `json:"anytime_count"`
	SomedayCount  int `json:"someday_count"`
	TotalOpen     int `json:"total_open"`
	OverdueCount  int `json:"overdue_count"`
	DueThisWeek   int `json:"due_this_week"`

	Completion CompletionMetrics `json:"completion"`
	Streak     StreakMetrics     `json:"streak"`
	Time       TimeMetrics       `json:"time"`
}

// Calculate derives Metrics from a snapshot. All date math is relative to
// the snapshot's Taken time.
func Calculate(s Snapshot) Metrics {
	today := task.DateOf(s.Taken)
	weekEnd := today.AddDays(7)

	m := Metrics{
		InboxCount:    len(s.Inbox),
		TodayCount:    len(s.Today),
		UpcomingCount: len(s.Upcoming),
		AnytimeCount:  len(s.Anytime),
		SomedayCount:  len(s.Someday),
	}

	open := s.Open()
	m.TotalOpen = len(open)
	for _, t := range open {
		if t.Overdue(today) {
			m.OverdueCount++
		}
		if t.DueDate != nil && !t.DueDate.Before(today) && t.DueDate.Before(weekEnd) {
			m.DueThisWeek++
		}
	}

	m.Completion = completionMetrics(s, today)
	m.Streak = streakMetrics(s, today)
	m.Time = timeMetrics(s)
	return m
}

// CompletionsByDay counts logbook entries per calendar day.
func CompletionsByDay(s Snapshot) map[task.Date]int {
	byDay := make(map[task.Date]int)
	for _, t := range s.Completed {
		if day, ok := completedOn(t); ok {
			byDay[day]++
		}
	}
	return byDay
}

// DailyCounts returns completion counts for the given number of days
// ending today, oldest first.
func DailyCounts(s Snapshot, days int) []int {
	today := task.DateOf(s.Taken)
	byDay := CompletionsByDay(s)
	counts := make([]int, days)
	for i := 0; i < days; i++ {
		counts[i] = byDay[today.AddDays(i-days+1)]
	}
	return counts
}

func completionMetrics(s Snapshot, today task.Date) CompletionMetrics {
	byDay := CompletionsByDay(s)
	cutoff7 := today.AddDays(-6)
	cutoff30 := today.AddDays(-29)

	var c CompletionMetrics
	c.TotalCompleted = len(s.Completed)

	var bestDay task.Date
	for day, count := range byDay {
		if !day.Before(cutoff7) && !day.After(today) {
			c.Completed7d += count
		}
		if !day.Before(cutoff30) && !day.After(today) {
			c.Completed30d += count
		}
		if count > c.BestDayCount {
			c.BestDayCount = count
			bestDay = day
		}
	}
	if c.BestDayCount > 0 {
		c.BestDay = &bestDay
	}

	c.AvgPerDay = float64(c.Completed30d) / 30.0
	if total := c.TotalCompleted + len(s.Open()); total > 0 {
		c.CompletionRate = float64(c.TotalCompleted) / float64(total)
	}
	return c
}

func streakMetrics(s Snapshot, today task.Date) StreakMetrics {
	byDay := CompletionsByDay(s)
	var m StreakMetrics
	if len(byDay) == 0 {
		return m
	}

	// Current streak: consecutive days with a completion ending today, or
	// ending yesterday when today has none yet.
	start := today
	if byDay[start] == 0 {
		start = start.AddDays(-1)
	}
	for day := start; byDay[day] > 0; day = day.AddDays(-1) {
		m.Current++
	}

	// Longest streak: walk runs from each day that starts one.
	for day := range byDay {
		if byDay[day.AddDays(-1)] > 0 {
			continue
		}
		run := 0
		for d := day; byDay[d] > 0; d = d.AddDays(1) {
			run++
		}
		if run > m.Longest {
			m.Longest = run
		}
	}

	// Days since the most recent completion.
	var latest task.Date
	for day := range byDay {
		if day.After(latest) {
			latest = day
		}
	}
	for d := latest; d.Before(today); d = d.AddDays(1) {
		m.DaysSinceCompletion++
	}
	return m
}

func timeMetrics(s Snapshot) TimeMetrics {
	var m TimeMetrics
	hourCounts := make([]int, 24)
	dayCounts := make(map[string]int)

	for _, t := range s.Completed {
		if t.ModificationDate == nil {
			continue
		}
		at := *t.ModificationDate
		hour := at.Hour()
		hourCounts[hour]++
		dayCounts[at.Weekday().String()]++

		switch {
		case hour >= 5 && hour < 12:
			m.Morning++
		case hour >= 12 && hour < 17:
			m.Afternoon++
		case hour >= 17 && hour < 22:
			m.Evening++
		default:
			m.Night++
		}
	}

	best := 0
	for hour, count := range hourCounts {
		if count > best {
			best = count
			m.BestHour = hour
		}
	}
	best = 0
	for day, count := range dayCounts {
		if count > best {
			best = count
			m.BestDay = day
		}
	}
	return m
}
