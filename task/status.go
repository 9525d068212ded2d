package task

import (
	"strings"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

type statusInfo struct {
	label  string
	symbol string
}

var statuses = map[Status]statusInfo{
	StatusOpen:      {label: "Open", symbol: "[ ]"},
	StatusCompleted: {label: "Completed", symbol: "[x]"},
	StatusCanceled:  {label: "Canceled", symbol: "[-]"},
}

func normalizeStatusKey(status string) string {
	normalized := strings.ToLower(strings.TrimSpace(status))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	return normalized
}

// ParseStatus normalizes a raw status string from the scripting bridge or
// database into a Status. The second return value reports whether the input
// matched a known status.
func ParseStatus(status string) (Status, bool) {
	switch normalizeStatusKey(status) {
	case "", "open", "incomplete", "todo", "to_do":
		return StatusOpen, true
	case "completed", "complete", "done", "closed":
		return StatusCompleted, true
	case "canceled", "cancelled":
		return StatusCanceled, true
	default:
		return StatusOpen, false
	}
}

// NormalizeStatus standardizes a raw status string into a Status.
func NormalizeStatus(status string) Status {
	normalized, _ := ParseStatus(status)
	return normalized
}

func StatusLabel(status Status) string {
	if info, ok := statuses[status]; ok {
		return info.label
	}
	// fall back to the raw string if unknown
	return string(status)
}

func StatusSymbol(status Status) string {
	if info, ok := statuses[status]; ok {
		return info.symbol
	}
	return "[?]"
}
