package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type policyCard struct {
	title    string
	desc     string
	examples []string
}

var policyCards = []policyCard{
	{
		title:    "Misleading Claims",
		desc:     "Prohibits exaggerated product effects, unrealistic promises, and falsified results.",
		examples: []string{"'Instant weight loss'", "'Cures all diseases'", "'Guaranteed results'"},
	},
	{
		title:    "Transformation Narratives",
		desc:     "Visual or verbal before-and-after comparisons are strictly prohibited in many categories.",
		examples: []string{"Side-by-side skin photos", "'Look at me before using this'"},
	},
	{
		title:    "Absolute Language",
		desc:     "Avoid using superlative or definitive terms that cannot be objectively proven.",
		examples: []string{"'The best in the world'", "'Only product that works'", "'100% effective'"},
	},
	{
		title:    "Regulated Categories",
		desc:     "Supplements, cosmetics, and medical devices require specific disclaimers and verified claims.",
		examples: []string{"FDA disclaimers", "Ingredient transparency"},
	},
}

// analysisScope lists the policy areas every check covers
var analysisScope = []string{
	"Misleading Claims",
	"Transformation Narratives",
	"Health/Beauty Claims",
	"Time-based Results",
	"Absolute Language",
	"Regulated Categories",
}

const (
	conservativeTitle = "Conservative Mode Active"
	conservativeNote  = "Account safety comes first. If a claim is borderline, it will be flagged for changes to prevent potential shadowbans or strikes."
)

func (m *Model) policyView() string {
	width := m.contentWidth()
	cardWidth := width
	twoUp := width >= 90
	if twoUp {
		cardWidth = width/2 - 1
	}

	cards := make([]string, 0, len(policyCards))
	for _, c := range policyCards {
		cards = append(cards, m.renderPolicyCard(c, cardWidth))
	}

	if !twoUp {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	var rows []string
	for i := 0; i < len(cards); i += 2 {
		if i+1 < len(cards) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i], " ", cards[i+1]))
		} else {
			rows = append(rows, cards[i])
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderPolicyCard(c policyCard, width int) string {
	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	lines := []string{
		m.styles.Highlight.Render(c.title),
		wrap(m.styles.Normal, c.desc, inner),
		"",
		m.styles.Error.Render("RESTRICTED EXAMPLES:"),
	}
	for _, ex := range c.examples {
		lines = append(lines, m.styles.HelpDesc.Render("  · "+ex))
	}

	return m.styles.Card.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// scopeView renders the analysis scope list and the conservative-mode note
// shown next to the dashboard form.
func (m *Model) scopeView(width int) string {
	lines := []string{m.styles.Title.Render("Analysis Scope")}
	for _, item := range analysisScope {
		lines = append(lines, m.styles.Success.Render("● ")+m.styles.Normal.Render(item)+m.styles.Success.Render(" ✓"))
	}

	note := m.styles.Card.
		BorderForeground(lipgloss.Color(m.styles.theme.Warning)).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Warning.Bold(true).Render("⚠ "+conservativeTitle),
			wrap(m.styles.Normal, conservativeNote, width-8),
		))

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"), "", note)
}
