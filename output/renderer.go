// Package output renders todos, projects, and operation results to the
// terminal. Three formats: pretty (color, for humans), simple (plain lines,
// for grep and scripts), and json (for machines).
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/clings-dev/clings/bulk"
	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

// Format selects a rendering style.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatSimple Format = "simple"
	FormatJSON   Format = "json"
)

// ParseFormat resolves a format name. Unknown names fall back to pretty.
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "simple":
		return FormatSimple
	case "json":
		return FormatJSON
	default:
		return FormatPretty
	}
}

var (
	styleOpen      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleCompleted = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleCanceled  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	styleName      = lipgloss.NewStyle().Bold(true)
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleOverdue   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleTag       = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleHeading   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Renderer writes formatted output.
type Renderer struct {
	w      io.Writer
	format Format
}

// NewRenderer returns a renderer writing to w.
func NewRenderer(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: format}
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Todos renders a todo list.
func (r *Renderer) Todos(todos []*task.Todo, today task.Date) error {
	switch r.format {
	case FormatJSON:
		if todos == nil {
			todos = []*task.Todo{}
		}
		return r.writeJSON(todos)
	case FormatSimple:
		for _, t := range todos {
			fmt.Fprintln(r.w, simpleLine(t))
		}
		return nil
	default:
		if len(todos) == 0 {
			fmt.Fprintln(r.w, styleDim.Render("No todos."))
			return nil
		}
		for _, t := range todos {
			fmt.Fprintln(r.w, prettyLine(t, today))
		}
		fmt.Fprintln(r.w, styleDim.Render(fmt.Sprintf("%d todo(s)", len(todos))))
		return nil
	}
}

func simpleLine(t *task.Todo) string {
	var b strings.Builder
	b.WriteString(task.StatusSymbol(t.Status))
	b.WriteByte(' ')
	b.WriteString(t.ID)
	b.WriteByte(' ')
	b.WriteString(t.Name)
	if t.DueDate != nil {
		fmt.Fprintf(&b, " due:%s", t.DueDate)
	}
	for _, tag := range t.Tags {
		fmt.Fprintf(&b, " #%s", tag)
	}
	if t.Project != nil {
		fmt.Fprintf(&b, " project:%s", *t.Project)
	}
	return b.String()
}

func prettyLine(t *task.Todo, today task.Date) string {
	symbol := task.StatusSymbol(t.Status)
	switch t.Status {
	case task.StatusCompleted:
		symbol = styleCompleted.Render(symbol)
	case task.StatusCanceled:
		symbol = styleCanceled.Render(symbol)
	default:
		symbol = styleOpen.Render(symbol)
	}

	name := t.Name
	if t.Status == task.StatusCanceled {
		name = styleCanceled.Render(name)
	} else {
		name = styleName.Render(name)
	}

	var b strings.Builder
	b.WriteString(symbol)
	b.WriteByte(' ')
	b.WriteString(name)

	if t.DueDate != nil {
		if t.Overdue(today) {
			b.WriteString(styleOverdue.Render(fmt.Sprintf(" (overdue %s)", t.DueDate)))
		} else {
			b.WriteString(styleDim.Render(fmt.Sprintf(" (due %s)", t.DueDate)))
		}
	}
	for _, tag := range t.Tags {
		b.WriteByte(' ')
		b.WriteString(styleTag.Render("#" + tag))
	}
	if t.Project != nil {
		b.WriteString(styleDim.Render(" · " + *t.Project))
	}
	return b.String()
}

// TodoDetail renders a single todo with its notes and checklist. Pretty
// output runs the notes through the markdown renderer.
func (r *Renderer) TodoDetail(t *task.Todo, today task.Date) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(t)
	case FormatSimple:
		fmt.Fprintln(r.w, simpleLine(t))
		if t.Notes != "" {
			fmt.Fprintln(r.w, t.Notes)
		}
		for _, item := range t.ChecklistItems {
			mark := "[ ]"
			if item.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(r.w, "  %s %s\n", mark, item.Name)
		}
		return nil
	default:
		fmt.Fprintln(r.w, prettyLine(t, today))
		fmt.Fprintln(r.w, styleDim.Render("id: "+t.ID))
		if t.Area != nil {
			fmt.Fprintln(r.w, styleDim.Render("area: "+*t.Area))
		}
		if t.Notes != "" {
			fmt.Fprintln(r.w, renderMarkdown(t.Notes))
		}
		if len(t.ChecklistItems) > 0 {
			fmt.Fprintln(r.w, styleHeading.Render("Checklist"))
			for _, item := range t.ChecklistItems {
				mark := styleOpen.Render("[ ]")
				if item.Completed {
					mark = styleCompleted.Render("[x]")
				}
				fmt.Fprintf(r.w, "  %s %s\n", mark, item.Name)
			}
		}
		return nil
	}
}

// renderMarkdown styles markdown for the terminal, returning the input
// unchanged when the renderer cannot be built.
func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// Projects renders a project list.
func (r *Renderer) Projects(projects []*task.Project) error {
	switch r.format {
	case FormatJSON:
		if projects == nil {
			projects = []*task.Project{}
		}
		return r.writeJSON(projects)
	case FormatSimple:
		for _, p := range projects {
			line := p.Name
			if p.Area != nil {
				line += " area:" + *p.Area
			}
			fmt.Fprintln(r.w, line)
		}
		return nil
	default:
		if len(projects) == 0 {
			fmt.Fprintln(r.w, styleDim.Render("No projects."))
			return nil
		}
		for _, p := range projects {
			line := styleName.Render(p.Name)
			if p.Area != nil {
				line += styleDim.Render(" · " + *p.Area)
			}
			if p.DueDate != nil {
				line += styleDim.Render(fmt.Sprintf(" (due %s)", p.DueDate))
			}
			fmt.Fprintln(r.w, line)
		}
		return nil
	}
}

// ProjectDetail renders one project with its metadata.
func (r *Renderer) ProjectDetail(p *task.Project) error {
	if r.format == FormatJSON {
		return r.writeJSON(p)
	}
	name := p.Name
	if r.format == FormatPretty {
		name = styleName.Render(p.Name)
	}
	fmt.Fprintf(r.w, "Project: %s\n", name)
	fmt.Fprintf(r.w, "  ID: %s\n", p.ID)
	fmt.Fprintf(r.w, "  Status: %s\n", p.Status)
	if p.Notes != "" {
		fmt.Fprintf(r.w, "  Notes: %s\n", p.Notes)
	}
	if p.Area != nil {
		fmt.Fprintf(r.w, "  Area: %s\n", *p.Area)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(r.w, "  Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if p.DueDate != nil {
		fmt.Fprintf(r.w, "  Due: %s\n", p.DueDate)
	}
	return nil
}

// Areas renders an area list.
func (r *Renderer) Areas(areas []*task.Area) error {
	if r.format == FormatJSON {
		if areas == nil {
			areas = []*task.Area{}
		}
		return r.writeJSON(areas)
	}
	for _, a := range areas {
		if r.format == FormatPretty {
			fmt.Fprintln(r.w, styleName.Render(a.Name))
		} else {
			fmt.Fprintln(r.w, a.Name)
		}
	}
	return nil
}

// Tags renders a tag list.
func (r *Renderer) Tags(tags []*task.Tag) error {
	if r.format == FormatJSON {
		if tags == nil {
			tags = []*task.Tag{}
		}
		return r.writeJSON(tags)
	}
	for _, t := range tags {
		if r.format == FormatPretty {
			fmt.Fprintln(r.w, styleTag.Render("#"+t.Name))
		} else {
			fmt.Fprintln(r.w, t.Name)
		}
	}
	return nil
}

// Created reports a successful create operation.
func (r *Renderer) Created(kind string, resp things.CreateResponse) error {
	if r.format == FormatJSON {
		return r.writeJSON(resp)
	}
	fmt.Fprintf(r.w, "Created %s %q (%s)\n", kind, resp.Name, resp.ID)
	return nil
}

// BatchResult reports the outcome of a bulk operation.
func (r *Renderer) BatchResult(result things.BatchResult) error {
	if r.format == FormatJSON {
		return r.writeJSON(result)
	}
	fmt.Fprintf(r.w, "%d succeeded, %d failed\n", result.Succeeded, result.Failed)
	for _, e := range result.Errors {
		fmt.Fprintf(r.w, "  %s: %s\n", e.ID, e.Error)
	}
	return nil
}

// BulkSummary reports a filter-driven bulk run, including the per-item
// outcomes and the dry-run marker.
func (r *Renderer) BulkSummary(s bulk.Summary) error {
	if r.format == FormatJSON {
		return r.writeJSON(s)
	}
	if s.DryRun {
		fmt.Fprintln(r.w, styleOverdue.Render("DRY RUN:"), "no changes were made")
	}
	fmt.Fprintf(r.w, "Action: %s\n", s.Action)
	fmt.Fprintf(r.w, "Matched: %d\n", s.Matched)
	if !s.DryRun {
		fmt.Fprintf(r.w, "Succeeded: %d\n", s.Succeeded)
		if s.Failed > 0 {
			fmt.Fprintf(r.w, "Failed: %d\n", s.Failed)
		}
	}
	if len(s.Items) == 0 {
		return nil
	}
	fmt.Fprintln(r.w, "Items:")
	for _, item := range s.Items {
		mark := "done"
		switch {
		case !item.Success:
			mark = "fail"
		case s.DryRun:
			mark = "would"
		}
		fmt.Fprintf(r.w, "  [%s] %s %s\n", mark, item.Name, styleDim.Render("("+item.ID+")"))
		if item.Error != "" {
			fmt.Fprintf(r.w, "       error: %s\n", item.Error)
		}
	}
	return nil
}

// JSON writes v as indented JSON regardless of the configured format.
// Commands with bespoke pretty output use it for their JSON mode.
func (r *Renderer) JSON(v any) error {
	return r.writeJSON(v)
}

// Format reports the renderer's configured output format.
func (r *Renderer) Format() Format {
	return r.format
}

// Message writes a plain informational line in non-JSON formats.
func (r *Renderer) Message(format string, args ...any) {
	if r.format == FormatJSON {
		return
	}
	fmt.Fprintf(r.w, format+"\n", args...)
}
