package bulk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// promptConfirm is the default interactive confirmation. It shows a
// preview of the affected items and requires an explicit yes.
func promptConfirm(action string, preview []string, more int) (bool, error) {
	lines := make([]string, 0, len(preview)+1)
	for _, p := range preview {
		lines = append(lines, "• "+p)
	}
	if more > 0 {
		lines = append(lines, fmt.Sprintf("• ... and %d more", more))
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("This will %s %d items", action, len(preview)+more)).
				Description(strings.Join(lines, "\n")).
				Affirmative("Proceed").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return confirmed, nil
}
