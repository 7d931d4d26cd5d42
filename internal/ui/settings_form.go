package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mcao2/postcheck/internal/config"
)

// SettingsForm edits the config file using Huh
type SettingsForm struct {
	form   *huh.Form
	result *SettingsResult
}

// SettingsResult contains the edited values
type SettingsResult struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  string
	Theme    string
}

// NewSettingsForm creates a settings form seeded from cfg
func NewSettingsForm(cfg *config.Config) *SettingsForm {
	result := &SettingsResult{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Theme:    cfg.Theme,
	}
	if result.Provider == "" {
		result.Provider = "gemini"
	}
	if result.Theme == "" {
		result.Theme = "default"
	}
	if cfg.RequestTimeout != 0 {
		result.Timeout = time.Duration(cfg.RequestTimeout).String()
	}

	themeOptions := make([]huh.Option[string], 0, len(Themes))
	for _, name := range GetThemeNames() {
		themeOptions = append(themeOptions, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Provider").
				Options(
					huh.NewOption("Gemini", "gemini"),
					huh.NewOption("OpenAI-compatible", "openai"),
				).
				Value(&result.Provider),

			huh.NewInput().
				Title("API key").
				Description("Leave empty to use GEMINI_API_KEY / OPENAI_API_KEY").
				EchoMode(huh.EchoModePassword).
				Value(&result.APIKey),

			huh.NewInput().
				Title("Model").
				Placeholder("provider default").
				Value(&result.Model),

			huh.NewInput().
				Title("Base URL").
				Placeholder("provider default").
				Value(&result.BaseURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Request timeout").
				Placeholder("e.g. 120s, empty waits indefinitely").
				Validate(validateTimeout).
				Value(&result.Timeout),

			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&result.Theme),
		),
	)

	return &SettingsForm{
		form:   form,
		result: result,
	}
}

// Run executes the form and returns the result
func (sf *SettingsForm) Run() (*SettingsResult, error) {
	if err := sf.form.Run(); err != nil {
		return nil, err
	}
	return sf.result, nil
}

// GetForm returns the underlying Huh form for Bubble Tea integration
func (sf *SettingsForm) GetForm() *huh.Form {
	return sf.form
}

// ApplyTo copies the form values into cfg
func (sf *SettingsForm) ApplyTo(cfg *config.Config) error {
	if sf.result == nil {
		return nil
	}
	r := sf.result

	cfg.LLM.Provider = r.Provider
	cfg.LLM.APIKey = strings.TrimSpace(r.APIKey)
	cfg.LLM.Model = strings.TrimSpace(r.Model)
	cfg.LLM.BaseURL = strings.TrimSpace(r.BaseURL)
	cfg.Theme = r.Theme

	cfg.RequestTimeout = 0
	if t := strings.TrimSpace(r.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", t, err)
		}
		cfg.RequestTimeout = config.Duration(d)
	}
	return nil
}

func validateTimeout(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("not a duration (try 90s or 2m)")
	}
	if d < 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
