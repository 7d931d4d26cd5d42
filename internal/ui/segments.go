package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mcao2/postcheck/internal/compliance"
)

const (
	emptySegmentsTitle  = "No high-risk segments detected"
	emptySegmentsDetail = "Content appears to follow general safety guidelines."
	segmentTextFallback = "Visual/Narrative Flag"
	segmentMarker       = "▌"
)

// renderSegments renders one block per flagged segment, or the empty state.
func renderSegments(s Styles, segs []compliance.FlaggedSegment, width int) string {
	if len(segs) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Success.Render("✓ "+emptySegmentsTitle),
			s.Help.Render("  "+emptySegmentsDetail),
		)
	}

	blocks := make([]string, 0, len(segs))
	for _, seg := range segs {
		blocks = append(blocks, renderSegment(s, seg, width))
	}
	return strings.Join(blocks, "\n\n")
}

func renderSegment(s Styles, seg compliance.FlaggedSegment, width int) string {
	maxWidth := width - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	style := s.severity(seg.Severity)
	badge := style.Bold(true).Render(severityLabel(seg.Severity))
	where := Truncate(segmentLabel(seg), maxWidth-runewidth.StringWidth(severityLabel(seg.Severity))-2)
	header := runewidth.FillRight(where, maxWidth-runewidth.StringWidth(severityLabel(seg.Severity))) + badge

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render(header),
		s.Highlight.Render(Truncate(segmentText(seg), maxWidth)),
		wrap(s.Normal, seg.Reason, maxWidth),
	)

	marker := make([]string, lipgloss.Height(body))
	for i := range marker {
		marker[i] = style.Render(segmentMarker)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(marker, "\n"), " ", body)
}

// segmentLabel is the timestamp when one was given, else the policy name.
func segmentLabel(seg compliance.FlaggedSegment) string {
	if seg.Timestamp != "" {
		return "Timestamp: " + seg.Timestamp
	}
	return seg.PolicyViolation
}

func segmentText(seg compliance.FlaggedSegment) string {
	if seg.Text != "" {
		return seg.Text
	}
	return segmentTextFallback
}

func severityLabel(sev compliance.Severity) string {
	return string(sev) + " RISK"
}

// Truncate shortens s to maxLen display cells, marking the cut with an ellipsis.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > maxLen {
		return runewidth.Truncate(s, maxLen, "…")
	}
	return s
}
