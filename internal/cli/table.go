package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dappnode/packages-status/pkg/status"
)

// barWidth is the length of the longest bar in the summary chart.
const barWidth = 30

const statusCol = 5

// rowsTable renders rows as a bordered table. The row at index selected is
// highlighted; pass -1 for none.
func rowsTable(rows []status.Row, selected int) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{
			shortName(r.Name),
			string(r.Registry),
			orDash(r.Version),
			orDash(r.DeclaredUpstream),
			orDash(r.UpstreamVersion),
			string(r.Status),
			r.StatusError,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Registry", "Version", "Built on", "Latest", "Status", "Note").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			switch col {
			case statusCol:
				base = base.Foreground(statusColor(rows[row].Status))
			case statusCol + 1:
				base = base.Foreground(colorDim)
			}
			if row == selected {
				base = base.Bold(true).Reverse(true)
			}
			return base
		})
}

// renderSummary draws one bar per status bucket, scaled to the largest one.
func renderSummary(s status.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s packages  %s outdated\n",
		StyleNumber.Render(fmt.Sprint(s.Total)),
		StyleNumber.Render(fmt.Sprint(s.Outdated)))

	largest := 0
	for _, c := range s.Counts {
		largest = max(largest, c.Count)
	}
	label := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	for _, c := range s.Counts {
		n := max(1, c.Count*barWidth/largest)
		bar := lipgloss.NewStyle().Foreground(statusColor(status.Status(c.Bucket))).Render(strings.Repeat(iconBar, n))
		fmt.Fprintf(&b, "%s %s %d\n", label.Render(c.Bucket), bar, c.Count)
	}
	return b.String()
}

// shortName trims the registry domain: "geth.dnp.dappnode.eth" -> "geth".
func shortName(name string) string {
	short, _, _ := strings.Cut(name, ".")
	return short
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
