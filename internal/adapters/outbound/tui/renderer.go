package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openkraft/uiharness/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	impactColors = map[domain.Impact]lipgloss.Color{
		domain.ImpactCritical: danger,
		domain.ImpactSerious:  lipgloss.Color("#FB923C"), // orange
		domain.ImpactModerate: warning,
		domain.ImpactMinor:    info,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	selectorStyle = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderScanReport renders an accessibility report as a styled TUI string.
func RenderScanReport(report domain.AccessibilityReport) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("uiharness")
	subtitle := dimStyle.Render("Accessibility Scan")
	target := report.URL
	if report.Selector != "" {
		target += "  " + selectorStyle.Render(report.Selector)
	}
	verdict := passStyle.Bold(true).Render("PASS")
	if !report.Passed() {
		verdict = errorTagStyle.Render(fmt.Sprintf("FAIL  %d blocking", report.Fatal))
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + titleStyle.Render(report.Scenario) + "\n" + target + "\n\n" + verdict))
	b.WriteString("\n\n")

	// ── Counts ──
	counts := report.Result.CountByImpact()
	b.WriteString("  ")
	for i := len(domain.AllImpacts) - 1; i >= 0; i-- {
		impact := domain.AllImpacts[i]
		b.WriteString(impactStyle(impact).Render(fmt.Sprintf("%d %s", counts[impact], impact)))
		if i > 0 {
			b.WriteString(faintStyle.Render("  ·  "))
		}
	}
	b.WriteString("\n\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Violations ──
	if len(report.Result.Violations) == 0 {
		b.WriteString("  " + passStyle.Render("No violations found.") + "\n")
		return b.String()
	}

	failOn := make(map[domain.Impact]bool, len(report.FailOn))
	for _, i := range report.FailOn {
		failOn[i] = true
	}
	for _, v := range report.Result.Violations {
		renderViolation(&b, v, failOn[v.Impact])
	}
	return b.String()
}

func renderViolation(b *strings.Builder, v domain.Violation, blocking bool) {
	marker := warnStyle.Render("●")
	if blocking {
		marker = failStyle.Render("●")
	}
	tag := impactStyle(v.Impact).Bold(true).Render(fmt.Sprintf("%-8s", v.Impact))
	b.WriteString(fmt.Sprintf("  %s %s  %s  %s\n", marker, tag, titleStyle.Render(v.ID), dimStyle.Render(v.Help)))

	const maxNodes = 3
	for i, n := range v.Nodes {
		if i == maxNodes {
			b.WriteString("      " + faintStyle.Render(fmt.Sprintf("… %d more", len(v.Nodes)-maxNodes)) + "\n")
			break
		}
		b.WriteString("      " + selectorStyle.Render(strings.Join(n.Target, " ")) + "\n")
	}
}

func impactStyle(i domain.Impact) lipgloss.Style {
	if c, ok := impactColors[i]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return dimStyle
}
