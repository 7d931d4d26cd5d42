package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mcao2/postcheck/internal/compliance"
	"github.com/mcao2/postcheck/internal/config"
	"github.com/mcao2/postcheck/internal/media"
)

const (
	noInputMessage        = "Please provide at least one input (Video, Caption, or Script)."
	analysisFailedMessage = "Analysis failed. Please try again."
	captionFailedMessage  = "Caption test failed."

	defaultWidth  = 100
	defaultHeight = 32

	// header (title + tabs + heading) and footer rows around the body
	chromeHeight = 8
)

// Analyzer is the part of the compliance client the UI drives.
type Analyzer interface {
	Analyze(ctx context.Context, in compliance.AnalyzeInput) (*compliance.Result, error)
	TestCaption(ctx context.Context, caption string) (*compliance.Result, error)
}

// ClientFactory builds an Analyzer right before each request.
type ClientFactory func() (Analyzer, error)

// clipboardWrite is swapped out in tests
var clipboardWrite = clipboard.WriteAll

// AnalysisFinishedMsg carries the reply of a dashboard analysis.
type AnalysisFinishedMsg struct {
	Seq    uint64
	Result *compliance.Result
	Err    error
}

// CaptionTestFinishedMsg carries the reply of a caption test.
type CaptionTestFinishedMsg struct {
	Seq    uint64
	Result *compliance.Result
	Err    error
}

type Model struct {
	width  int
	height int
	styles Styles
	keys   KeyMap

	themeIndex int
	showHelp   bool

	session   Session
	inputs    inputs
	mediaPath string

	spinner  spinner.Model
	viewport viewport.Model

	statusMessage string

	cfg       *config.Config
	newClient ClientFactory
}

func NewModel() *Model {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		cfg = &config.Config{}
	}

	themeNames := GetThemeNames()
	themeIndex := -1
	themeName := cfg.Theme

	for i, name := range themeNames {
		if name == themeName {
			themeIndex = i
			break
		}
	}

	if themeIndex == -1 {
		themeName = "default"
		for i, name := range themeNames {
			if name == themeName {
				themeIndex = i
				break
			}
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(Themes[themeName].Primary))

	m := &Model{
		styles:     NewStyles(Themes[themeName]),
		keys:       DefaultKeyMap(),
		themeIndex: themeIndex,
		inputs:     newInputs(),
		spinner:    s,
		viewport:   viewport.New(defaultWidth, defaultHeight-chromeHeight),
		cfg:        cfg,
		newClient:  configuredClient(cfg),
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// configuredClient resolves provider settings from config and environment at
// call time, so a key exported after startup is still picked up.
func configuredClient(cfg *config.Config) ClientFactory {
	return func() (Analyzer, error) {
		llm := cfg.GetLLMConfig()
		client, err := compliance.NewClient(llm.Provider, llm.APIKey,
			compliance.WithModel(llm.Model),
			compliance.WithBaseURL(llm.BaseURL),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// SetClientFactory replaces how request clients are built.
func (m *Model) SetClientFactory(f ClientFactory) {
	m.newClient = f
}

// Prefill seeds the dashboard form. An unreadable video path is reported in
// the form instead of failing startup.
func (m *Model) Prefill(videoPath, caption, script string) {
	m.inputs.video.SetValue(videoPath)
	m.inputs.caption.SetValue(caption)
	m.inputs.script.SetValue(script)
	m.syncInputs()
	if err := m.loadMedia(); err != nil {
		m.session.Dashboard.Err = err.Error()
	}
}

// Session exposes the current session state.
func (m *Model) Session() *Session {
	return &m.session
}

func (m *Model) cycleTheme() {
	themeNames := GetThemeNames()
	m.themeIndex = (m.themeIndex + 1) % len(themeNames)
	newTheme := themeNames[m.themeIndex]
	m.styles = NewStyles(Themes[newTheme])
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(Themes[newTheme].Primary))
	m.refreshResult()

	if m.cfg != nil {
		m.cfg.Theme = newTheme
		if err := m.cfg.Save(); err != nil {
			log.Printf("theme save failed: %v", err)
		}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.viewport.Width = width
	m.viewport.Height = height - chromeHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}

	m.inputs.setWidth(m.formWidth())
	m.refreshResult()
}

// contentWidth is the usable width inside the page margins.
func (m *Model) contentWidth() int {
	w := m.width - 4
	if w < minRenderWide {
		w = minRenderWide
	}
	return w
}

// formWidth leaves room for the scope sidebar on wide terminals.
func (m *Model) formWidth() int {
	if m.showSidebar() {
		return m.contentWidth() * 3 / 5
	}
	return m.contentWidth()
}

func (m *Model) showSidebar() bool {
	return m.width >= 100
}

// refreshResult re-renders the dashboard result into the viewport.
func (m *Model) refreshResult() {
	r := m.session.Dashboard.Result
	if r == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(RenderResult(m.styles, r, m.contentWidth()))
}

func (m *Model) timeout() time.Duration {
	if m.cfg == nil {
		return 0
	}
	return m.cfg.Timeout()
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case AnalysisFinishedMsg:
		m.handleAnalysisFinished(msg)
		return m, nil

	case CaptionTestFinishedMsg:
		m.handleCaptionTestFinished(msg)
		return m, nil
	}

	// cursor blink and other widget messages
	return m, m.inputs.update(msg)
}

func (m *Model) handleAnalysisFinished(msg AnalysisFinishedMsg) {
	v := &m.session.Dashboard
	if !v.accepts(msg.Seq) {
		log.Printf("dropping stale analysis reply seq=%d", msg.Seq)
		return
	}
	v.finish()

	if msg.Err != nil {
		log.Printf("analysis failed seq=%d err=%q", msg.Seq, msg.Err)
		v.Err = analysisFailedMessage
		m.statusMessage = configHint(msg.Err)
		return
	}

	v.Result = msg.Result
	v.Err = ""
	m.statusMessage = ""
	m.inputs.setFocus(fieldNone)
	m.viewport.GotoTop()
	m.refreshResult()
}

func (m *Model) handleCaptionTestFinished(msg CaptionTestFinishedMsg) {
	v := &m.session.Tester
	if !v.accepts(msg.Seq) {
		log.Printf("dropping stale caption test reply seq=%d", msg.Seq)
		return
	}
	v.finish()

	if msg.Err != nil {
		log.Printf("caption test failed seq=%d err=%q", msg.Seq, msg.Err)
		v.Err = captionFailedMessage
		m.statusMessage = configHint(msg.Err)
		return
	}

	v.Result = msg.Result
	v.Err = ""
	m.statusMessage = ""
}

// configHint explains configuration failures, which a retry cannot fix.
func configHint(err error) string {
	switch {
	case errors.Is(err, compliance.ErrMissingAPIKey):
		return "No API key: set GEMINI_API_KEY (or run postcheck configure)"
	case errors.Is(err, compliance.ErrUnknownProvider):
		return "Unknown provider in config: use gemini or openai"
	case errors.Is(err, compliance.ErrQuotaExceeded):
		return "Model quota exceeded"
	}
	return ""
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.ForceQuit):
		m.session.CancelAll()
		return m, tea.Quit
	case keyMatches(msg, m.keys.Run):
		return m, m.trigger()
	}

	if m.inputs.focus != fieldNone {
		return m.handleEditingKeys(msg)
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		m.session.CancelAll()
		return m, tea.Quit
	case keyMatches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case keyMatches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case keyMatches(msg, m.keys.NextTab):
		m.switchTab((m.session.Tab + 1) % tabCount)
		return m, nil
	case keyMatches(msg, m.keys.PrevTab):
		m.switchTab((m.session.Tab + tabCount - 1) % tabCount)
		return m, nil
	}

	for i, binding := range m.keys.tabKeys() {
		if keyMatches(msg, binding) {
			m.switchTab(Tab(i))
			return m, nil
		}
	}

	switch m.session.Tab {
	case TabDashboard:
		return m.handleDashboardKeys(msg)
	case TabCaptionTester:
		return m.handleTesterKeys(msg)
	}
	return m, nil
}

func (m *Model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	order := m.fieldOrder()

	switch {
	case keyMatches(msg, m.keys.Back):
		if m.inputs.focus == fieldVideo {
			m.reportMediaError(m.loadMedia())
		}
		m.inputs.setFocus(fieldNone)
		return m, nil
	case keyMatches(msg, m.keys.NextTab), keyMatches(msg, m.keys.PrevTab):
		if m.inputs.focus == fieldVideo {
			m.reportMediaError(m.loadMedia())
		}
		delta := 1
		if keyMatches(msg, m.keys.PrevTab) {
			delta = -1
		}
		return m, m.inputs.cycle(order, delta)
	case keyMatches(msg, m.keys.Enter) && m.inputs.focus == fieldRun:
		return m, m.trigger()
	case keyMatches(msg, m.keys.Enter) && m.inputs.focus == fieldVideo:
		m.reportMediaError(m.loadMedia())
		return m, m.inputs.cycle(order, 1)
	}

	if m.inputs.focus == fieldRun {
		return m, nil
	}

	cmd := m.inputs.update(msg)
	m.syncInputs()
	return m, cmd
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if r := m.session.Dashboard.Result; r != nil {
		switch {
		case keyMatches(msg, m.keys.NewAnalysis):
			m.newAnalysis()
			return m, nil
		case keyMatches(msg, m.keys.CopyCaption):
			m.copyRewrite("caption", r.SaferCaption)
			return m, nil
		case keyMatches(msg, m.keys.CopyScript):
			m.copyRewrite("script", r.SaferScript)
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if keyMatches(msg, m.keys.Enter) {
		return m, m.inputs.setFocus(fieldVideo)
	}
	return m, nil
}

func (m *Model) handleTesterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Enter):
		return m, m.inputs.setFocus(fieldCaption)
	case keyMatches(msg, m.keys.CopyCaption):
		if r := m.session.Tester.Result; r != nil {
			m.copyRewrite("caption", r.SaferCaption)
		}
	}
	return m, nil
}

func (m *Model) fieldOrder() []field {
	if m.session.Tab == TabCaptionTester {
		return testerFields
	}
	return dashboardFields
}

func (m *Model) switchTab(t Tab) {
	if !m.session.SwitchTab(t) {
		return
	}
	m.inputs.setFocus(fieldNone)
	m.statusMessage = ""
	m.refreshResult()
}

// newAnalysis discards the dashboard result and starts over with an empty form.
func (m *Model) newAnalysis() {
	m.session.Dashboard.reset()
	m.session.ClearMedia()
	m.mediaPath = ""
	m.inputs.reset()
	m.syncInputs()
	m.statusMessage = ""
	m.refreshResult()
}

func (m *Model) syncInputs() {
	m.session.Caption = m.inputs.caption.Value()
	m.session.Script = m.inputs.script.Value()
}

// loadMedia resolves the typed video path into the session's media reference.
func (m *Model) loadMedia() error {
	path := strings.TrimSpace(m.inputs.video.Value())
	if path == "" {
		m.session.ClearMedia()
		m.mediaPath = ""
		return nil
	}
	if path == m.mediaPath && m.session.Media != nil {
		return nil
	}

	md, err := media.Open(path)
	if err != nil {
		m.session.ClearMedia()
		m.mediaPath = ""
		if errors.Is(err, media.ErrUnsupportedType) {
			return errors.New("Unsupported file: only video and image files can be analyzed.")
		}
		return fmt.Errorf("Could not open %s: %v", path, err)
	}

	m.session.SetMedia(md)
	m.mediaPath = path
	return nil
}

func (m *Model) reportMediaError(err error) {
	if err != nil {
		m.session.Dashboard.Err = err.Error()
	} else if m.session.Dashboard.Err != "" && m.session.Dashboard.Err != noInputMessage {
		m.session.Dashboard.Err = ""
	}
}

// trigger runs the check of the active tab, if its trigger is enabled.
func (m *Model) trigger() tea.Cmd {
	m.syncInputs()
	switch m.session.Tab {
	case TabDashboard:
		return m.startAnalysis()
	case TabCaptionTester:
		return m.startCaptionTest()
	}
	return nil
}

func (m *Model) startAnalysis() tea.Cmd {
	v := &m.session.Dashboard
	if v.Busy || v.Result != nil {
		return nil
	}

	if err := m.loadMedia(); err != nil {
		v.Err = err.Error()
		return nil
	}
	if !m.session.HasInput() {
		v.Err = noInputMessage
		return nil
	}

	ctx, seq := m.session.begin(v, m.timeout())
	m.statusMessage = ""

	selected := m.session.Media
	caption := m.session.Caption
	script := m.session.Script
	newClient := m.newClient

	return func() tea.Msg {
		client, err := newClient()
		if err != nil {
			return AnalysisFinishedMsg{Seq: seq, Err: err}
		}

		in := compliance.AnalyzeInput{Caption: caption, Script: script}
		if selected != nil {
			encoded, err := selected.Encode()
			if err != nil {
				return AnalysisFinishedMsg{Seq: seq, Err: err}
			}
			in.Media = encoded
		}

		result, err := client.Analyze(ctx, in)
		return AnalysisFinishedMsg{Seq: seq, Result: result, Err: err}
	}
}

func (m *Model) startCaptionTest() tea.Cmd {
	if !m.session.CanTestCaption() {
		return nil
	}

	v := &m.session.Tester
	ctx, seq := m.session.begin(v, m.timeout())
	m.statusMessage = ""

	caption := m.session.Caption
	newClient := m.newClient

	return func() tea.Msg {
		client, err := newClient()
		if err != nil {
			return CaptionTestFinishedMsg{Seq: seq, Err: err}
		}
		result, err := client.TestCaption(ctx, caption)
		return CaptionTestFinishedMsg{Seq: seq, Result: result, Err: err}
	}
}

// copyRewrite puts text on the system clipboard. Failures are only logged.
func (m *Model) copyRewrite(what, text string) {
	if text == "" {
		m.statusMessage = fmt.Sprintf("No safer %s to copy", what)
		return
	}
	if err := clipboardWrite(text); err != nil {
		log.Printf("clipboard write failed: %v", err)
		m.statusMessage = ""
		return
	}
	m.statusMessage = fmt.Sprintf("Copied safer %s to clipboard", what)
}

func (m *Model) View() string {
	var body string
	switch m.session.Tab {
	case TabDashboard:
		body = m.dashboardView()
	case TabCaptionTester:
		body = m.testerView()
	case TabHistory:
		body = m.historyView()
	case TabPolicy:
		body = m.policyView()
	}

	footer := m.renderFooter()
	if m.showHelp {
		footer = m.renderFullHelp()
	}

	page := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.styles.Title.Render(m.session.Tab.Heading()),
		body,
	)
	page = lipgloss.NewStyle().PaddingLeft(2).Render(page)

	return lipgloss.JoinVertical(lipgloss.Left, page, footer)
}

func (m *Model) renderHeader() string {
	brand := m.styles.Highlight.Render("POSTCHECK") + m.styles.Help.Render("  TikTok Shop Safety Engine")

	tabs := make([]string, 0, tabCount)
	for t := TabDashboard; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.session.Tab {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(label))
		}
	}

	return m.styles.HeaderBar.Width(m.contentWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, brand, lipgloss.JoinHorizontal(lipgloss.Top, tabs...)),
	)
}

func (m *Model) dashboardView() string {
	if m.session.Dashboard.Result != nil {
		return m.viewport.View()
	}

	form := m.dashboardForm()
	if !m.showSidebar() {
		return form
	}
	sidebarWidth := m.contentWidth() - m.formWidth() - 2
	return lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", m.scopeView(sidebarWidth))
}

func (m *Model) dashboardForm() string {
	v := m.session.Dashboard

	mediaLine := m.styles.Help.Render("MP4, MOV or image files supported")
	if m.session.Media != nil {
		mediaLine = m.styles.Success.Render("✓ " + m.session.Media.Summary())
	}

	lines := []string{
		m.styles.Label.Render("1. VIDEO CONTENT"),
		m.renderField(fieldVideo, m.inputs.video.View()),
		mediaLine,
		"",
		m.styles.Label.Render("2. CAPTION / DESCRIPTION"),
		m.renderField(fieldCaption, m.inputs.caption.View()),
		"",
		m.styles.Label.Render("3. VIDEO SCRIPT (OPTIONAL)"),
		m.renderField(fieldScript, m.inputs.script.View()),
		"",
		m.renderButton("RUN SAFETY CHECK", "ANALYZING COMPLIANCE...", v.Busy, true),
	}
	if v.Err != "" {
		lines = append(lines, m.styles.Error.Render("⚠ "+v.Err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) testerView() string {
	v := m.session.Tester

	lines := []string{
		m.styles.Help.Render("Quickly verify if your product description or caption follows TikTok Shop policies."),
		"",
		m.renderField(fieldCaption, m.inputs.caption.View()),
		"",
		m.renderButton("CHECK CAPTION COMPLIANCE", "TESTING CAPTION...", v.Busy, m.session.CanTestCaption()),
	}
	if v.Err != "" {
		lines = append(lines, m.styles.Error.Render("⚠ "+v.Err))
	}
	if v.Result != nil {
		lines = append(lines, "", RenderSummary(m.styles, v.Result, m.contentWidth()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) historyView() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Highlight.Render("No Analysis History"),
		"",
		m.styles.Help.Render("Your recent compliance checks will appear here."),
	)
	return lipgloss.Place(m.contentWidth(), m.viewport.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderField(f field, view string) string {
	if m.inputs.focus == f {
		return m.styles.FieldFocused.Render(view)
	}
	return m.styles.FieldBlurred.Render(view)
}

func (m *Model) renderButton(label, busyLabel string, busy, enabled bool) string {
	switch {
	case busy:
		return m.styles.ButtonDisabled.Render(m.spinner.View() + " " + busyLabel)
	case !enabled:
		return m.styles.ButtonDisabled.Render(label)
	case m.inputs.focus == fieldRun:
		return m.styles.ButtonFocused.Render(label)
	default:
		return m.styles.Button.Render(label)
	}
}

// Help rendering

type helpEntry struct {
	key  string
	desc string
}

func (m *Model) renderHelpLine(entries []helpEntry) string {
	var parts []string
	sep := m.styles.HelpSep.Render(" · ")
	for _, e := range entries {
		parts = append(parts, m.styles.HelpKey.Render(e.key)+" "+m.styles.HelpDesc.Render(e.desc))
	}
	return strings.Join(parts, sep)
}

func (m *Model) footerEntries() []helpEntry {
	if m.inputs.focus != fieldNone {
		return []helpEntry{
			{"tab", "next field"},
			{"ctrl+r", "run"},
			{"esc", "done editing"},
			{"ctrl+c", "quit"},
		}
	}

	switch m.session.Tab {
	case TabDashboard:
		if m.session.Dashboard.Result != nil {
			return []helpEntry{
				{"j/k", "scroll"},
				{"c", "copy caption"},
				{"s", "copy script"},
				{"n", "new analysis"},
				{"1-4", "tabs"},
				{"?", "help"},
				{"q", "quit"},
			}
		}
		return []helpEntry{
			{"enter", "edit"},
			{"ctrl+r", "run"},
			{"1-4", "tabs"},
			{"t", "theme"},
			{"?", "help"},
			{"q", "quit"},
		}
	case TabCaptionTester:
		return []helpEntry{
			{"enter", "edit caption"},
			{"ctrl+r", "check"},
			{"c", "copy rewrite"},
			{"1-4", "tabs"},
			{"?", "help"},
			{"q", "quit"},
		}
	}
	return []helpEntry{
		{"1-4", "tabs"},
		{"t", "theme"},
		{"?", "help"},
		{"q", "quit"},
	}
}

func (m *Model) renderFooter() string {
	lines := []string{m.renderHelpLine(m.footerEntries())}
	if m.statusMessage != "" {
		lines = append([]string{m.styles.Warning.Render(m.statusMessage)}, lines...)
	}
	return m.styles.FooterBar.Width(m.width - 1).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFullHelp() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Tabs", []key.Binding{m.keys.Dashboard, m.keys.Tester, m.keys.History, m.keys.Policy, m.keys.NextTab, m.keys.PrevTab}},
		{"Editing", []key.Binding{m.keys.Enter, m.keys.Back, m.keys.Run}},
		{"Results", []key.Binding{m.keys.Down, m.keys.Up, m.keys.CopyCaption, m.keys.CopyScript, m.keys.NewAnalysis}},
		{"General", []key.Binding{m.keys.CycleTheme, m.keys.Help, m.keys.Quit, m.keys.ForceQuit}},
	}

	var lines []string
	for _, sec := range sections {
		lines = append(lines, m.styles.HelpKey.Render("  "+sec.title))
		for _, b := range sec.bindings {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("    %s  %s",
				m.styles.HelpKey.Render(fmt.Sprintf("%-12s", h.Key)),
				m.styles.HelpDesc.Render(h.Desc),
			))
		}
	}

	return m.styles.FooterBar.Width(m.width - 1).Render(strings.Join(lines, "\n"))
}

func keyMatches(msg tea.KeyMsg, target key.Binding) bool {
	for _, k := range target.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}
