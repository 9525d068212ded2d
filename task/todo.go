package task

import (
	"strings"
	"time"
)

// Todo is a single Things to-do as reported by the scripting bridge or the
// database mirror. Field names in the JSON tags match the JXA payload.
// Consumers treat todos as read-only; mutation goes through the bridge.
type Todo struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Notes            string      `json:"notes"`
	Status           Status      `json:"status"`
	DueDate          *Date       `json:"dueDate"`
	Tags             []string    `json:"tags"`
	Project          *string     `json:"project"`
	Area             *string     `json:"area"`
	ChecklistItems   []CheckItem `json:"checklistItems"`
	CreationDate     *time.Time  `json:"creationDate"`
	ModificationDate *time.Time  `json:"modificationDate"`
}

// CheckItem is one checklist entry inside a todo.
type CheckItem struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// Project is a Things project.
type Project struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Notes        string     `json:"notes"`
	Status       Status     `json:"status"`
	Area         *string    `json:"area"`
	Tags         []string   `json:"tags"`
	DueDate      *Date      `json:"dueDate"`
	CreationDate *time.Time `json:"creationDate"`
}

// Area is a Things area of responsibility.
type Area struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Tag is a Things tag.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HasTag reports whether the todo carries the named tag, ignoring case.
func (t *Todo) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}

// Overdue reports whether the todo is open with a due date before today.
func (t *Todo) Overdue(today Date) bool {
	return t.Status == StatusOpen && t.DueDate != nil && t.DueDate.Before(today)
}
