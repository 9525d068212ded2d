package things

import (
	"fmt"
	"strings"
)

// ErrorKind classifies failures when talking to Things 3.
type ErrorKind int

const (
	// ErrScript is the catch-all for osascript failures that match no
	// known pattern.
	ErrScript ErrorKind = iota
	// ErrPermissionDenied means macOS automation permission has not been
	// granted to the calling terminal.
	ErrPermissionDenied
	// ErrNotInstalled means the Things 3 application bundle is missing.
	ErrNotInstalled
	// ErrNotRunning means Things 3 is installed but not launched.
	ErrNotRunning
	// ErrNotFound means a todo, project, or list could not be resolved.
	ErrNotFound
	// ErrParse means the script ran but produced JSON we could not decode.
	ErrParse
	// ErrDatabase means the read-only database mirror failed.
	ErrDatabase
)

// Error is a classified failure from the Things 3 bridge. Detail carries the
// raw message for kinds that have one.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrPermissionDenied:
		return "automation permission required\n\n" +
			"clings needs permission to communicate with Things 3.\n" +
			"This is a one-time setup.\n\n" +
			"  1. Open System Settings > Privacy & Security > Automation\n" +
			"  2. Enable \"Things 3\" under your terminal application\n" +
			"  3. Run clings again\n\n" +
			"Tip: run this command to open settings directly:\n" +
			"  open \"x-apple.systempreferences:com.apple.preference.security?Privacy_Automation\""
	case ErrNotInstalled:
		return "Things 3 is not installed\n\n" +
			"clings requires Things 3 for Mac to function.\n\n" +
			"Get Things 3 from:\n" +
			"  Mac App Store: https://apps.apple.com/app/things-3/id904280696\n" +
			"  Cultured Code: https://culturedcode.com/things/"
	case ErrNotRunning:
		return "Things 3 is not running. Please launch Things 3 and try again."
	case ErrNotFound:
		return fmt.Sprintf("item not found: %s", e.Detail)
	case ErrParse:
		return fmt.Sprintf("failed to parse response: %s", e.Detail)
	case ErrDatabase:
		return fmt.Sprintf("database error: %s", e.Detail)
	default:
		return fmt.Sprintf("script execution failed: %s", e.Detail)
	}
}

// ClassifyStderr maps osascript stderr output to a typed error. Checks run
// in priority order: permission problems mask installation problems, which
// mask liveness problems, which mask missing-item problems.
func ClassifyStderr(stderr string) *Error {
	if strings.Contains(stderr, "-1743") || strings.Contains(stderr, "not authorized") {
		return &Error{Kind: ErrPermissionDenied}
	}
	if strings.Contains(stderr, "Can't get application") ||
		strings.Contains(stderr, "Application can't be found") ||
		strings.Contains(stderr, "unable to find application") {
		return &Error{Kind: ErrNotInstalled}
	}
	if strings.Contains(stderr, "Application isn't running") ||
		strings.Contains(stderr, "connection is invalid") ||
		strings.Contains(stderr, "is not running") {
		return &Error{Kind: ErrNotRunning}
	}
	if strings.Contains(stderr, "Can't get") {
		// Keep just the line naming the missing item.
		msg := stderr
		for _, line := range strings.Split(stderr, "\n") {
			if strings.Contains(line, "Can't get") {
				msg = strings.TrimSpace(line)
				break
			}
		}
		return &Error{Kind: ErrNotFound, Detail: msg}
	}
	return &Error{Kind: ErrScript, Detail: stderr}
}
