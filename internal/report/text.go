package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// WriteText writes check results as human-readable styled text to the
// writer. Output uses lipgloss for color and formatting when the output
// is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, results []taxonomy.ExpectationResult) error {
	s := DefaultStyles()

	if len(results) > 0 {
		fmt.Fprintln(w, resultsTable(results, s))
		for _, r := range results {
			writeDetails(w, r, s)
		}
	}

	sum := taxonomy.Summarize(results)
	fmt.Fprintf(w, "\n%s\n",
		s.Header.Render(fmt.Sprintf(
			"%d expectation(s) checked, %d found, %d missing",
			sum.Total, sum.Satisfied, sum.Missing)))

	return nil
}

// resultsTable builds the overview table.
// Budget: 80 cols total. Borders take 5, padding 8 for 4 columns.
// Available: 67. ID=11, STATUS=7, KIND=11, TARGET=38.
func resultsTable(results []taxonomy.ExpectationResult, s Styles) *table.Table {
	const maxTarget = 38
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.ID,
			Status(r.Found),
			string(r.Kind),
			truncateLeft(r.Target, maxTarget),
		})
	}

	return table.New().
		Width(80).
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if row < 0 || row >= len(results) {
				return s.TableCell
			}
			switch col {
			case 1:
				return s.StatusStyle(results[row].Found)
			case 2:
				return s.KindStyle(results[row].Kind)
			}
			return s.TableCell
		}).
		Headers("ID", "STATUS", "KIND", "TARGET").
		Rows(rows...)
}

func writeDetails(w io.Writer, r taxonomy.ExpectationResult, s Styles) {
	fmt.Fprintf(w, "\n%s %s\n", s.StatusStyle(r.Found).Render(Status(r.Found)), r.ID)
	if r.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", r.Expected)
	} else {
		fmt.Fprintf(w, "    expected: %s -> %s\n", r.Origin, r.Target)
	}
	if len(r.Occurrences) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    no matching access reported"))
		return
	}
	for _, o := range r.Occurrences {
		fmt.Fprintf(w, "    reported: %s\n", o.Message)
	}
}

// WriteScanText writes scanned accesses as one message per line
// followed by a styled count.
func WriteScanText(w io.Writer, records []taxonomy.AccessRecord) error {
	s := DefaultStyles()
	for _, rec := range records {
		fmt.Fprintln(w, rec.Message)
	}
	fmt.Fprintf(w, "\n%s\n", s.Header.Render(fmt.Sprintf("%d access(es) reported", len(records))))
	return nil
}

// WriteMessages writes plain messages, one per line, without styling so
// they can be pasted into tests verbatim.
func WriteMessages(w io.Writer, messages []string) error {
	for _, m := range messages {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}

// truncateLeft keeps the tail of s, which carries the member name.
func truncateLeft(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return "..." + string(r[len(r)-(max-3):])
}
