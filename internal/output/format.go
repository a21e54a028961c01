// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"voicetasks/internal/service"
)

// CaptureMarker flags the list that captured tasks are written to.
const CaptureMarker = " [capture]"

// FormatListName formats a list line for the lists command.
// Format: "{TITLE}  ({ID})" with the capture marker appended to the target list.
func FormatListName(w io.Writer, list service.TaskList, capture bool) {
	title := normalizeListTitle(list.Title)
	if list.ID != "" {
		title += "  (" + list.ID + ")"
	}
	if capture {
		title += CaptureMarker
	}
	fmt.Fprintln(w, title)
}

// FormatNoLists explains where tasks go when the account has no lists.
func FormatNoLists(w io.Writer) {
	fmt.Fprintf(w, "(no lists; tasks go to %s)\n", service.DefaultListID)
}

// normalizeListTitle normalizes a list title for display.
// Newlines become spaces; empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
