package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mcao2/postcheck/internal/compliance"
)

const (
	scoreBarWidth = 24
	minRenderWide = 40
)

// RenderResult renders a full analysis report. It is shared by the
// dashboard and the check command.
func RenderResult(s Styles, r *compliance.Result, width int) string {
	if r == nil {
		return ""
	}
	if width < minRenderWide {
		width = minRenderWide
	}

	sections := []string{
		renderBanner(s, r, width),
		"",
		renderScores(s, r),
		"",
		section(s, "Flagged Segments & Claims", renderSegments(s, r.FlaggedSegments, width)),
		section(s, "Detailed Reasoning", renderMarkdown(s, r.Reasoning, width)),
		section(s, "Actionable Fixes", renderFixes(s, r.RequiredFixes, width)),
	}

	if r.SaferCaption != "" {
		sections = append(sections, section(s, "Safer Caption Rewrite", renderRewrite(s, r.SaferCaption, width)))
	}
	if r.SaferScript != "" {
		sections = append(sections, section(s, "Safer Script Rewrite", renderRewrite(s, r.SaferScript, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderSummary renders the condensed verdict shown by the caption tester.
func RenderSummary(s Styles, r *compliance.Result, width int) string {
	if r == nil {
		return ""
	}
	if width < minRenderWide {
		width = minRenderWide
	}

	status := lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render("COMPLIANCE STATUS"),
		decisionIcon(r.Decision)+" "+string(r.Decision),
	)
	score := lipgloss.JoinVertical(lipgloss.Right,
		s.Label.Render("RISK SCORE"),
		formatScore(r.OverallRiskScore)+"/100",
	)
	gap := width - lipgloss.Width(status) - lipgloss.Width(score) - 6
	if gap < 2 {
		gap = 2
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, status, strings.Repeat(" ", gap), score)

	out := []string{s.banner(r.Decision).Render(row)}
	if r.SaferCaption != "" {
		out = append(out, "", section(s, "Safe Rewrite Recommendation", renderRewrite(s, r.SaferCaption, width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func renderBanner(s Styles, r *compliance.Result, width int) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		"FINAL DECISION",
		decisionIcon(r.Decision)+"  "+string(r.Decision),
	)
	right := lipgloss.JoinVertical(lipgloss.Right,
		"OVERALL RISK",
		formatScore(r.OverallRiskScore)+"/100",
	)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 6
	if gap < 2 {
		gap = 2
	}
	return s.banner(r.Decision).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right),
	)
}

func renderScores(s Styles, r *compliance.Result) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		scoreLine(s, "Video Risk", r.VideoRiskScore),
		scoreLine(s, "Caption Risk", r.CaptionRiskScore),
		fmt.Sprintf("%s %s", s.Label.Render(fmt.Sprintf("%-13s", "Category")), s.Highlight.Render(r.CategoryDetected)),
	)
}

func scoreLine(s Styles, label string, score float64) string {
	style := s.band(compliance.BandFor(score))
	return fmt.Sprintf("%s %s %s",
		s.Label.Render(fmt.Sprintf("%-13s", label)),
		style.Render(scoreBar(score, scoreBarWidth)),
		style.Render(formatScore(score)+"/100"),
	)
}

// scoreBar draws a fixed-width bar filled in proportion to a 0-100 score.
func scoreBar(score float64, width int) string {
	filled := int(score/100*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func renderFixes(s Styles, fixes []string, width int) string {
	if len(fixes) == 0 {
		return s.Help.Render("No fixes required.")
	}
	lines := make([]string, 0, len(fixes))
	for i, fix := range fixes {
		num := s.Highlight.Render(fmt.Sprintf("%2d.", i+1))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, num, " ", wrap(s.Normal, fix, width-4)))
	}
	return strings.Join(lines, "\n")
}

func renderRewrite(s Styles, text string, width int) string {
	return s.Quote.Width(width - 2).Render(`"` + text + `"`)
}

func section(s Styles, title, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left, s.Title.Render(title), body, "")
}

// renderMarkdown renders model-written markdown for the active theme, falling
// back to plain wrapping when glamour fails.
func renderMarkdown(s Styles, text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownConfig(s.markdownStyle())),
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Printf("markdown renderer failed: %v", err)
		return wrap(s.Normal, text, width)
	}

	out, err := r.Render(text)
	if err != nil {
		log.Printf("markdown render failed: %v", err)
		return wrap(s.Normal, text, width)
	}
	return strings.Trim(out, "\n")
}

// markdownConfig copies a standard glamour style without the "##" heading
// prefixes, so headings read as styled text.
func markdownConfig(name string) ansi.StyleConfig {
	base, ok := styles.DefaultStyles[name]
	if !ok {
		base = &styles.DarkStyleConfig
	}
	cfg := *base
	if strings.HasPrefix(cfg.H1.Prefix, "#") {
		cfg.H1.Prefix = ""
	}
	for _, h := range []*ansi.StyleBlock{&cfg.H2, &cfg.H3, &cfg.H4, &cfg.H5, &cfg.H6} {
		h.Prefix = ""
	}
	return cfg
}

func wrap(style lipgloss.Style, text string, width int) string {
	return style.Width(width).Render(text)
}

func decisionIcon(d compliance.Decision) string {
	switch d {
	case compliance.DecisionSafe:
		return "✓"
	case compliance.DecisionChanges:
		return "!"
	default:
		return "✗"
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
