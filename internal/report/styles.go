package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers and the summary line.
	Header lipgloss.Style

	// Field, Method and Constructor color-code target kinds.
	Field       lipgloss.Style
	Method      lipgloss.Style
	Constructor lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// Found styles satisfied expectations.
	Found lipgloss.Style

	// Missing styles expectations without a matching access.
	Missing lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),

		Field:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Method:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Constructor: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		Found:   lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Missing: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// KindStyle returns the style for a target kind.
func (s Styles) KindStyle(kind taxonomy.TargetKind) lipgloss.Style {
	switch kind {
	case taxonomy.FieldTarget:
		return s.Field
	case taxonomy.MethodTarget:
		return s.Method
	case taxonomy.ConstructorTarget:
		return s.Constructor
	default:
		return s.Muted
	}
}

// StatusStyle returns the style for a FOUND/MISSING status.
func (s Styles) StatusStyle(found bool) lipgloss.Style {
	if found {
		return s.Found
	}
	return s.Missing
}

// Status returns the status label of a result.
func Status(found bool) string {
	if found {
		return "FOUND"
	}
	return "MISSING"
}
