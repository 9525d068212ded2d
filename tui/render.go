package tui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/clings-dev/clings/config"
	"github.com/clings-dev/clings/task"
)

// todoLine builds the tview markup for one todo row.
// The status symbol is escaped so its brackets survive dynamic-color parsing.
func todoLine(t *task.Todo, colors *config.ColorConfig, today task.Date) string {
	var b strings.Builder

	switch t.Status {
	case task.StatusCompleted:
		b.WriteString(colors.CompletedText)
	case task.StatusCanceled:
		b.WriteString(colors.CanceledText)
	}
	b.WriteString(tview.Escape(task.StatusSymbol(t.Status)))
	b.WriteString(" ")
	b.WriteString(tview.Escape(t.Name))
	if t.Status != task.StatusOpen {
		b.WriteString("[-]")
	}

	if t.DueDate != nil {
		color := colors.DueText
		if t.Overdue(today) {
			color = colors.OverdueText
		}
		fmt.Fprintf(&b, "  %s%s[-]", color, t.DueDate)
	}
	if t.Project != nil {
		fmt.Fprintf(&b, "  %s%s[-]", colors.ProjectText, tview.Escape(*t.Project))
	}
	for _, tag := range t.Tags {
		fmt.Fprintf(&b, " %s#%s[-]", colors.TagText, tview.Escape(tag))
	}

	return b.String()
}

// listTitle builds the border title for the current list.
func listTitle(name string, count int) string {
	return fmt.Sprintf(" %s (%d) ", name, count)
}

// helpLine builds the key legend shown at the bottom of the screen.
func helpLine(colors *config.ColorConfig) string {
	keys := []struct{ key, label string }{
		{"j/k", "move"},
		{"tab", "next list"},
		{"c", "complete"},
		{"x", "cancel"},
		{"enter", "open in Things"},
		{"r", "reload"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s%s[-] %s%s[-]", colors.HelpKeyText, k.key, colors.HelpText, k.label)
	}
	return " " + strings.Join(parts, "  ")
}
