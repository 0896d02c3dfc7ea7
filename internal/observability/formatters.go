// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-pdf/internal/schemas"
	"github.com/jonathan/resume-pdf/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintResume outputs a summary of a parsed resume using the section
// headings of lang. A nil lang falls back to English labels.
func (p *Printer) PrintResume(doc *types.ResumeDocument, lang *types.LanguagePack) {
	if doc == nil {
		return
	}
	headings := types.Headings{Contact: "Contact", Experience: "Experience", Education: "Education", Skills: "Skills"}
	if lang != nil {
		headings = lang.Headings
	}
	person := doc.Person

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(person.Name.Full())))
	sb.WriteString(fmt.Sprintf("Position: %s\n", orDash(person.Position)))
	sb.WriteString(fmt.Sprintf("Language: %s\n", doc.Lang))

	if person.Contact.Email != "" || person.Contact.Phone != "" {
		sb.WriteString(fmt.Sprintf("\n%s:\n", headings.Contact))
		if person.Contact.Email != "" {
			sb.WriteString(fmt.Sprintf("  • %s\n", person.Contact.Email))
		}
		if person.Contact.Phone != "" {
			sb.WriteString(fmt.Sprintf("  • %s\n", person.Contact.Phone))
		}
	}

	if len(person.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s:\n", headings.Experience))
		count := min(len(person.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := person.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", orDash(exp.Company)))
			if exp.TimePeriod != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", exp.TimePeriod))
			}
			sb.WriteString("\n")
		}
		writeMore(&sb, len(person.Experience))
	}

	if len(person.Education) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s:\n", headings.Education))
		count := min(len(person.Education), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", orDash(person.Education[i].Degree)))
		}
		writeMore(&sb, len(person.Education))
	}

	if len(person.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s:\n", headings.Skills))
		count := min(len(person.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			skill := person.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s %s\n", orDash(skill.Name), levelBar(skill.Level)))
		}
		writeMore(&sb, len(person.Skills))
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFieldErrors outputs schema violations, one per line.
func (p *Printer) PrintFieldErrors(errs []schemas.FieldError) {
	if len(errs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d problem(s) found:\n\n", len(errs)))
	for _, fe := range errs {
		sb.WriteString(fmt.Sprintf("✗ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", fe.Message))
	}

	p.printBox("VALIDATION ERRORS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeMore(sb *strings.Builder, total int) {
	if total > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", total-maxItemsToShow))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// levelBar draws a skill level on the 0-5 scale, clamping out-of-range values.
func levelBar(level int) string {
	level = max(0, min(level, 5))
	return "[" + strings.Repeat("■", level) + strings.Repeat("□", 5-level) + "]"
}
