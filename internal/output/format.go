// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"phototask/internal/service"
)

const (
	// ListSeparator is the separator line around the list header.
	ListSeparator = "------------"

	// detailIndent aligns detail lines under the task title.
	detailIndent = "          "
)

// FormatHeader prints the list header for the signed-in user.
func FormatHeader(w io.Writer, name string) {
	if strings.TrimSpace(name) == "" {
		name = "(unnamed)"
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "Tasks of %s\n", name)
	fmt.Fprintln(w, ListSeparator)
}

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Completed), normalizeTitle(task.Title))
}

// FormatTaskDetails prints the id, photo, location and creation date of a
// task below its line. Empty fields are skipped.
func FormatTaskDetails(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%sid: %s\n", detailIndent, task.ID)
	if task.PhotoURI != "" {
		fmt.Fprintf(w, "%sphoto: %s\n", detailIndent, task.PhotoURI)
	}
	if task.Location != nil {
		fmt.Fprintf(w, "%slocation: %s\n", detailIndent, FormatLocation(*task.Location))
	}
	if ts := task.CreatedTime(); !ts.IsZero() {
		fmt.Fprintf(w, "%screated: %s\n", detailIndent, ts.UTC().Format("2006-01-02 15:04"))
	}
}

// FormatLocation renders a coordinate pair with four decimals.
func FormatLocation(loc service.Location) string {
	return fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)
}

// FormatUser formats the signed-in account.
func FormatUser(w io.Writer, name, email string) {
	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(w, email)
		return
	}
	fmt.Fprintf(w, "%s <%s>\n", name, email)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
