package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/mcao2/postcheck/internal/compliance"
)

// Theme is a named colour palette
type Theme struct {
	Primary    string
	Secondary  string
	Text       string
	Subtle     string
	Background string
	Success    string
	Warning    string
	Danger     string
	Info       string

	// glamour standard style used for markdown bodies
	Markdown string
}

// Themes holds every selectable palette, keyed by the name stored in config
var Themes = map[string]Theme{
	"default": {
		Primary:    "#10B981",
		Secondary:  "#7D56F4",
		Text:       "#FAFAFA",
		Subtle:     "#737373",
		Background: "#1A1A1A",
		Success:    "#059669",
		Warning:    "#F59E0B",
		Danger:     "#DC2626",
		Info:       "#3B82F6",
		Markdown:   "dark",
	},
	"dracula": {
		Primary:    "#BD93F9",
		Secondary:  "#FF79C6",
		Text:       "#F8F8F2",
		Subtle:     "#6272A4",
		Background: "#282A36",
		Success:    "#50FA7B",
		Warning:    "#F1FA8C",
		Danger:     "#FF5555",
		Info:       "#8BE9FD",
		Markdown:   "dracula",
	},
	"nord": {
		Primary:    "#88C0D0",
		Secondary:  "#81A1C1",
		Text:       "#ECEFF4",
		Subtle:     "#4C566A",
		Background: "#2E3440",
		Success:    "#A3BE8C",
		Warning:    "#EBCB8B",
		Danger:     "#BF616A",
		Info:       "#5E81AC",
		Markdown:   "dark",
	},
	"gruvbox": {
		Primary:    "#FABD2F",
		Secondary:  "#D3869B",
		Text:       "#EBDBB2",
		Subtle:     "#928374",
		Background: "#282828",
		Success:    "#B8BB26",
		Warning:    "#FE8019",
		Danger:     "#FB4934",
		Info:       "#83A598",
		Markdown:   "dark",
	},
	"light": {
		Primary:    "#047857",
		Secondary:  "#6D28D9",
		Text:       "#1A1A1A",
		Subtle:     "#9CA3AF",
		Background: "#F5F5F5",
		Success:    "#047857",
		Warning:    "#B45309",
		Danger:     "#B91C1C",
		Info:       "#1D4ED8",
		Markdown:   "light",
	},
}

// GetThemeNames returns the theme names in a stable order
func GetThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Styles holds all the UI styles
type Styles struct {
	theme Theme

	Title     lipgloss.Style
	Normal    lipgloss.Style
	Help      lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Label     lipgloss.Style
	Quote     lipgloss.Style

	Border    lipgloss.Style
	Card      lipgloss.Style
	HeaderBar lipgloss.Style
	FooterBar lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	HelpSep  lipgloss.Style

	FieldFocused lipgloss.Style
	FieldBlurred lipgloss.Style

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	BannerSafe    lipgloss.Style
	BannerChanges lipgloss.Style
	BannerDanger  lipgloss.Style
}

// NewStyles builds the style set for a theme
func NewStyles(t Theme) Styles {
	banner := lipgloss.NewStyle().
		Bold(true).
		Padding(1, 3).
		Foreground(lipgloss.Color("#FFFFFF"))

	button := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 3).
		Border(lipgloss.RoundedBorder())

	return Styles{
		theme: t,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Primary)).
			PaddingBottom(1),

		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Subtle)).
			Italic(true),

		Highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Primary)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Subtle)),

		Quote: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(t.Success)).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color(t.Success)).
			PaddingLeft(1),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Primary)).
			Padding(1, 2),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Subtle)).
			Padding(0, 2),

		HeaderBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(t.Subtle)),

		FooterBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color(t.Subtle)),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Primary)),

		TabInactive: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color(t.Subtle)),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Primary)),

		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Subtle)),

		HelpSep: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Subtle)),

		FieldFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Primary)),

		FieldBlurred: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Subtle)),

		Button: button.
			Foreground(lipgloss.Color(t.Text)).
			BorderForeground(lipgloss.Color(t.Subtle)),

		ButtonFocused: button.
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Primary)).
			BorderForeground(lipgloss.Color(t.Primary)),

		ButtonDisabled: button.
			Faint(true).
			Foreground(lipgloss.Color(t.Subtle)).
			BorderForeground(lipgloss.Color(t.Subtle)),

		BannerSafe:    banner.Background(lipgloss.Color(t.Success)),
		BannerChanges: banner.Background(lipgloss.Color(t.Warning)),
		BannerDanger:  banner.Background(lipgloss.Color(t.Danger)),
	}
}

// DefaultStyles returns the default style set
func DefaultStyles() Styles {
	return NewStyles(Themes["default"])
}

// band returns the foreground style for a score band
func (s Styles) band(b compliance.ScoreBand) lipgloss.Style {
	switch b {
	case compliance.BandHigh:
		return s.Error
	case compliance.BandMedium:
		return s.Warning
	default:
		return s.Success
	}
}

// severity returns the marker style for a flagged segment
func (s Styles) severity(sev compliance.Severity) lipgloss.Style {
	switch sev {
	case compliance.SeverityHigh:
		return s.Error
	case compliance.SeverityMedium:
		return s.Warning
	default:
		return s.Info
	}
}

func (s Styles) banner(d compliance.Decision) lipgloss.Style {
	switch decisionBand(d) {
	case compliance.BandHigh:
		return s.BannerDanger
	case compliance.BandMedium:
		return s.BannerChanges
	default:
		return s.BannerSafe
	}
}

// decisionBand maps a verdict onto the colour band of its banner
func decisionBand(d compliance.Decision) compliance.ScoreBand {
	switch d {
	case compliance.DecisionSafe:
		return compliance.BandLow
	case compliance.DecisionChanges:
		return compliance.BandMedium
	default:
		return compliance.BandHigh
	}
}

// markdownStyle names the glamour style matching the theme
func (s Styles) markdownStyle() string {
	if s.theme.Markdown == "" {
		return "dark"
	}
	return s.theme.Markdown
}
