// Package quickadd parses natural-language capture text into a structured
// todo. The syntax is token based: #tags, date words for scheduling,
// "by <date>" for a deadline, "for <Project>", "in <Area>", priority
// marks (!, !!, !!!), a trailing "// notes" section, and "- item" lines
// for a checklist. Project and area names are quoted or Capitalized;
// lowercase words after "for" and "in" stay part of the title.
package quickadd

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

// Parsed is the structured form of one capture line.
type Parsed struct {
	Title     string   `json:"title"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	When      string   `json:"when,omitempty"`     // today, someday, or yyyy-mm-dd
	Deadline  string   `json:"deadline,omitempty"` // yyyy-mm-dd
	Project   string   `json:"project,omitempty"`
	Area      string   `json:"area,omitempty"`
	Checklist []string `json:"checklist,omitempty"`
}

// NewTodo converts the parse result into a bridge creation request.
func (p Parsed) NewTodo() things.NewTodo {
	return things.NewTodo{
		Name:      p.Title,
		Notes:     p.Notes,
		When:      p.When,
		Deadline:  p.Deadline,
		Tags:      p.Tags,
		List:      p.Project,
		Area:      p.Area,
		Checklist: p.Checklist,
	}
}

var priorityTags = map[string]string{
	"!":   "priority-low",
	"!!":  "priority-medium",
	"!!!": "priority-high",
}

// Parse interprets capture text relative to today. An empty title after
// stripping markers is an error.
func Parse(input string, today task.Date) (Parsed, error) {
	var p Parsed

	// Trailing "// ..." on the first line becomes the notes.
	lines := strings.Split(input, "\n")
	head := lines[0]
	if idx := strings.Index(head, "//"); idx >= 0 {
		p.Notes = strings.TrimSpace(head[idx+2:])
		head = head[:idx]
	}

	// Remaining "- item" lines form the checklist.
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if item, ok := strings.CutPrefix(line, "- "); ok {
			p.Checklist = append(p.Checklist, strings.TrimSpace(item))
		}
	}

	words := strings.Fields(head)
	var title []string
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case strings.HasPrefix(w, "#") && len(w) > 1:
			p.Tags = append(p.Tags, strings.TrimPrefix(w, "#"))

		case priorityTags[w] != "":
			p.Tags = append(p.Tags, priorityTags[w])

		case strings.EqualFold(w, "by") && i+1 < len(words):
			date, used, ok := parseDate(words[i+1:], today)
			if !ok {
				title = append(title, w)
				continue
			}
			p.Deadline = date
			i += used

		case strings.EqualFold(w, "for") && i+1 < len(words) && startsName(words[i+1]):
			name, used := takeName(words[i+1:])
			if name == "" {
				title = append(title, w)
				continue
			}
			p.Project = name
			i += used

		case strings.EqualFold(w, "in") && i+1 < len(words):
			// "in 3 days" schedules, "in Work" targets an area.
			if date, used, ok := parseRelative(words[i:], today); ok {
				p.When = date
				i += used - 1
				continue
			}
			if !startsName(words[i+1]) {
				title = append(title, w)
				continue
			}
			name, used := takeName(words[i+1:])
			if name == "" {
				title = append(title, w)
				continue
			}
			p.Area = name
			i += used

		default:
			if date, used, ok := parseDate(words[i:], today); ok && p.When == "" {
				p.When = date
				i += used - 1
				continue
			}
			title = append(title, w)
		}
	}

	p.Title = strings.Join(title, " ")
	if p.Title == "" {
		return Parsed{}, fmt.Errorf("capture text has no title: %q", input)
	}
	return p, nil
}

// startsName reports whether a word can begin a project or area name.
// Names are quoted or Capitalized, so "Pack for trip" keeps its title.
func startsName(w string) bool {
	if strings.HasPrefix(w, `"`) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}

// takeName consumes words up to the next marker token. Quoted names keep
// their spaces: for "Big Project".
func takeName(words []string) (string, int) {
	if len(words) == 0 {
		return "", 0
	}
	if strings.HasPrefix(words[0], `"`) {
		for i, w := range words {
			if strings.HasSuffix(w, `"`) && (i > 0 || len(w) > 1) {
				name := strings.Join(words[:i+1], " ")
				return strings.Trim(name, `"`), i + 1
			}
		}
	}
	var taken []string
	for _, w := range words {
		if isMarker(w) {
			break
		}
		taken = append(taken, w)
	}
	return strings.Join(taken, " "), len(taken)
}

func isMarker(w string) bool {
	if strings.HasPrefix(w, "#") || priorityTags[w] != "" {
		return true
	}
	switch strings.ToLower(w) {
	case "by", "for", "in":
		return true
	}
	_, _, ok := parseDate([]string{w}, task.Date{})
	return ok
}

// parseDate recognizes a date at the start of words and returns its
// canonical form plus how many words it consumed.
func parseDate(words []string, today task.Date) (string, int, bool) {
	if len(words) == 0 {
		return "", 0, false
	}
	w := strings.ToLower(words[0])

	switch w {
	case "today":
		return "today", 1, true
	case "tomorrow":
		return today.AddDays(1).String(), 1, true
	case "someday":
		return "someday", 1, true
	}

	for d := time.Sunday; d <= time.Saturday; d++ {
		if w == strings.ToLower(d.String()) {
			return nextWeekday(today, d).String(), 1, true
		}
	}

	if d, err := task.ParseDate(words[0]); err == nil {
		return d.String(), 1, true
	}

	return parseRelative(words, today)
}

// parseRelative recognizes "in N days".
func parseRelative(words []string, today task.Date) (string, int, bool) {
	if len(words) < 3 || !strings.EqualFold(words[0], "in") {
		return "", 0, false
	}
	n, err := strconv.Atoi(words[1])
	if err != nil || n < 0 {
		return "", 0, false
	}
	unit := strings.ToLower(words[2])
	if unit != "day" && unit != "days" {
		return "", 0, false
	}
	return today.AddDays(n).String(), 3, true
}

// nextWeekday returns the next occurrence of d strictly after today.
func nextWeekday(today task.Date, d time.Weekday) task.Date {
	days := (int(d) - int(today.Time().Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDays(days)
}
