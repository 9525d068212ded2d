package things

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStderr(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		kind   ErrorKind
	}{
		{
			name:   "permission denied error code",
			stderr: "execution error: Error -1743: Not authorized to send Apple events to Things3.",
			kind:   ErrPermissionDenied,
		},
		{
			name:   "permission denied not authorized",
			stderr: "System Events got an error: not authorized to perform this action",
			kind:   ErrPermissionDenied,
		},
		{
			name:   "not installed cant get application",
			stderr: `Can't get application "Things3". (-1728)`,
			kind:   ErrNotInstalled,
		},
		{
			name:   "not installed cant be found",
			stderr: "Application can't be found in the Finder",
			kind:   ErrNotInstalled,
		},
		{
			name:   "not installed unable to find",
			stderr: "osascript: unable to find application Things3",
			kind:   ErrNotInstalled,
		},
		{
			name:   "not running isnt running",
			stderr: "Application isn't running. (-600)",
			kind:   ErrNotRunning,
		},
		{
			name:   "not running connection invalid",
			stderr: "The connection is invalid.",
			kind:   ErrNotRunning,
		},
		{
			name:   "not running is not running",
			stderr: "Things3 is not running",
			kind:   ErrNotRunning,
		},
		{
			name:   "not found",
			stderr: `Can't get todo "invalid-id"`,
			kind:   ErrNotFound,
		},
		{
			name:   "fallback to script error",
			stderr: "Some unexpected error occurred",
			kind:   ErrScript,
		},
		{
			name:   "empty stderr",
			stderr: "",
			kind:   ErrScript,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyStderr(tt.stderr)
			assert.Equal(t, tt.kind, err.Kind)
		})
	}
}

func TestClassifyStderrPriority(t *testing.T) {
	// Permission masks everything else.
	err := ClassifyStderr("Error -1743: Can't get application")
	assert.Equal(t, ErrPermissionDenied, err.Kind)

	// Not installed masks not running.
	err = ClassifyStderr("Can't get application Things3 - Application isn't running")
	assert.Equal(t, ErrNotInstalled, err.Kind)

	// Not running masks missing items.
	err = ClassifyStderr("Application isn't running - Can't get todo")
	assert.Equal(t, ErrNotRunning, err.Kind)
}

func TestClassifyStderrNotFoundKeepsRelevantLine(t *testing.T) {
	stderr := "execution error: Can't get project \"xyz\". (-1728)\nat line 5"
	err := ClassifyStderr(stderr)
	assert.Equal(t, ErrNotFound, err.Kind)
	assert.Contains(t, err.Detail, "Can't get project")
	assert.NotContains(t, err.Detail, "at line 5")
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&Error{Kind: ErrNotInstalled}).Error(),
		"https://apps.apple.com/app/things-3/id904280696")
	assert.Contains(t, (&Error{Kind: ErrNotInstalled}).Error(),
		"https://culturedcode.com/things/")
	assert.Equal(t,
		"Things 3 is not running. Please launch Things 3 and try again.",
		(&Error{Kind: ErrNotRunning}).Error())
	assert.Contains(t, (&Error{Kind: ErrPermissionDenied}).Error(),
		"Privacy & Security > Automation")
	assert.Equal(t, "item not found: todo-123",
		(&Error{Kind: ErrNotFound, Detail: "todo-123"}).Error())
	assert.Equal(t, "script execution failed: syntax error",
		(&Error{Kind: ErrScript, Detail: "syntax error"}).Error())
	assert.Equal(t, "database error: locked",
		(&Error{Kind: ErrDatabase, Detail: "locked"}).Error())
}
