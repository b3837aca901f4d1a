package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/openkraft/uiharness/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderRunSummary renders one line per scenario plus a status tally.
func RenderRunSummary(results []domain.ScenarioResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("  %s %s\n\n",
		sectionHeaderStyle.Render("Scenarios"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(results))),
	))

	tally := make(map[domain.ScenarioStatus]int)
	for _, r := range results {
		tally[r.Status]++
		b.WriteString(fmt.Sprintf("    %s %s  %s\n",
			statusStyle(r.Status).Render(fmt.Sprintf("%-9s", r.Status)),
			titleStyle.Render(r.Name),
			faintStyle.Render(r.Duration.Round(time.Millisecond).String()),
		))
		if r.Error != "" {
			for _, line := range strings.Split(r.Error, "\n") {
				b.WriteString("        " + dimStyle.Render(line) + "\n")
			}
		}
		if r.Screenshot != "" {
			b.WriteString("        " + hintStyle.Render("screenshot: "+r.Screenshot) + "\n")
		}
		if r.Trace != "" {
			b.WriteString("        " + hintStyle.Render("trace: "+r.Trace) + "\n")
		}
	}

	b.WriteString("\n  " + separatorLine + "\n\n  ")
	order := []domain.ScenarioStatus{
		domain.StatusPassed, domain.StatusFailed, domain.StatusUndefined,
		domain.StatusPending, domain.StatusAmbiguous, domain.StatusSkipped,
	}
	var parts []string
	for _, s := range order {
		if n := tally[s]; n > 0 {
			parts = append(parts, statusStyle(s).Render(fmt.Sprintf("%d %s", n, strings.ToLower(string(s)))))
		}
	}
	b.WriteString(strings.Join(parts, faintStyle.Render("  ·  ")))
	b.WriteString("\n")

	return b.String()
}

// RenderChecks lists the structural checks available to scans.
func RenderChecks(checks []domain.CheckInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s %s\n\n",
		sectionHeaderStyle.Render("Structural checks"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(checks))),
	))
	for _, c := range checks {
		b.WriteString(fmt.Sprintf("    %s  %s\n", titleStyle.Render(fmt.Sprintf("%-20s", c.Name)), dimStyle.Render(c.Expectation)))
	}
	b.WriteString("\n  " + hintStyle.Render("Pass names to scan --checks, comma-separated.") + "\n")
	return b.String()
}

func statusStyle(s domain.ScenarioStatus) lipgloss.Style {
	switch {
	case s == domain.StatusPassed:
		return passStyle
	case s == domain.StatusSkipped:
		return dimStyle
	case s == domain.StatusFailed:
		return failStyle
	default:
		return warnStyle
	}
}
