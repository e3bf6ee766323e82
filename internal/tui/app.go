package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"transcheck/internal/api"
	"transcheck/internal/config"
	"transcheck/internal/history"
	"transcheck/internal/session"
	"transcheck/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewTranslate ViewType = iota
	ViewTestResult
	ViewResults
	ViewHistory
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// languagesMsg delivers the backend language list.
type languagesMsg struct {
	languages []api.Language
	err       error
}

// userMsg delivers the tester identity, when the backend knows it.
type userMsg struct {
	info *api.UserInfo
	err  error
}

// AppModel is the main unified TUI model
type AppModel struct {
	// Core dependencies
	cfg       *config.Config
	configDir string
	client    *api.Client
	sess      *session.Session
	store     *history.Store

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	translateView  views.TranslateModel
	testResultView views.TestResultModel
	resultsView    views.ResultsModel
	historyView    views.HistoryModel
	settingsView   views.SettingsModel

	// Overlays
	showHelp    bool
	confirmQuit bool
}

// NewApp creates the unified TUI application. store may be nil when the
// local history could not be opened.
func NewApp(cfg *config.Config, configDir string, client *api.Client, store *history.Store) AppModel {
	sess := session.New()

	menuItems := []MenuItem{
		{Label: "Translate", View: ViewTranslate, Shortcut: "1"},
		{Label: "Record", View: ViewTestResult, Shortcut: "2"},
		{Label: "Results", View: ViewResults, Shortcut: "3"},
		{Label: "History", View: ViewHistory, Shortcut: "4"},
		{Label: "Settings", View: ViewSettings, Shortcut: "5"},
	}

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	app := AppModel{
		cfg:          cfg,
		configDir:    configDir,
		client:       client,
		sess:         sess,
		store:        store,
		sidebarWidth: 18,
		currentView:  ViewTranslate,
		menuItems:    menuItems,

		translateView:  views.NewTranslateModel(client, sess, store),
		testResultView: views.NewTestResultModel(client, sess),
		resultsView:    views.NewResultsModel(client, exportDir),
		historyView:    views.NewHistoryModel(store, cfg.HistoryLimit),
		settingsView:   views.NewSettingsModel(cfg, configDir),
	}

	app.testResultView.SetTester(cfg.TesterName)

	return app
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadLanguages(), m.loadUser())
}

// loadLanguages fetches the backend language list; the built-in
// fallback covers a failed fetch.
func (m AppModel) loadLanguages() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		langs, err := client.Languages(context.Background())
		return languagesMsg{languages: langs, err: err}
	}
}

// loadUser asks the backend who is testing, to prefill the form.
func (m AppModel) loadUser() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		info, err := client.WhoAmI(context.Background())
		return userMsg{info: info, err: err}
	}
}

// activeHasOverlay reports whether the current view has a confirmation
// open that should consume esc.
func (m AppModel) activeHasOverlay() bool {
	switch m.currentView {
	case ViewTranslate:
		return m.translateView.HasOverlay()
	case ViewResults:
		return m.resultsView.HasOverlay()
	}
	return false
}

// requestQuit quits immediately unless unsaved work would be lost.
func (m AppModel) requestQuit() (tea.Model, tea.Cmd) {
	if m.sess.Dirty(m.translateView.Draft()) {
		m.confirmQuit = true
		return m, nil
	}
	return m, tea.Quit
}

// switchTo changes the active view, refreshing views that load on entry.
func (m *AppModel) switchTo(v ViewType) tea.Cmd {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false

	switch v {
	case ViewResults:
		return m.resultsView.Activate()
	case ViewHistory:
		return m.historyView.Activate()
	}
	return nil
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Quit guard - y confirms, anything else cancels
		if m.confirmQuit {
			if msg.String() == "y" {
				return m, tea.Quit
			}
			m.confirmQuit = false
			return m, nil
		}

		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		// Global keys
		switch msg.String() {
		case "ctrl+c":
			return m.requestQuit()
		case "esc":
			if m.activeHasOverlay() {
				break // let the view close its confirmation
			}
			if m.sidebarActive {
				return m.requestQuit()
			}
			m.sidebarActive = true
			return m, nil
		}

		// Sidebar navigation when active
		if m.sidebarActive {
			switch msg.String() {
			case "q":
				return m.requestQuit()
			case "?":
				m.showHelp = true
				return m, nil
			case "1", "2", "3", "4", "5":
				for _, item := range m.menuItems {
					if item.Shortcut == msg.String() {
						return m, m.switchTo(item.View)
					}
				}
				return m, nil
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
				return m, nil
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
				return m, nil
			case "enter", "l", "right":
				return m, m.switchTo(m.menuItems[m.selectedMenu].View)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.translateView.SetSize(contentWidth, contentHeight)
		m.testResultView.SetSize(contentWidth, contentHeight)
		m.resultsView.SetSize(contentWidth, contentHeight)
		m.historyView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)

		return m, nil

	case languagesMsg:
		if msg.err == nil {
			m.sess.SetLanguages(msg.languages)
			m.translateView.ClampLanguage()
		}
		return m, nil

	case userMsg:
		if msg.err == nil && msg.info != nil {
			m.testResultView.SetTester(msg.info.User)
		}
		return m, nil

	case views.ReuseTranslationMsg:
		m.translateView.SetDraft(msg.Entry.SourceText, msg.Entry.TargetLanguage)
		return m, m.switchTo(ViewTranslate)
	}

	// Delegate to active view if not in sidebar mode. Async results
	// (translate, save, list, export, notices, spinners) are routed to
	// every view so a response landing while another view is active is
	// never dropped.
	if !m.sidebarActive || !isKeyMsg(msg) {
		var cmd tea.Cmd
		switch {
		case isKeyMsg(msg):
			switch m.currentView {
			case ViewTranslate:
				m.translateView, cmd = m.translateView.Update(msg)
			case ViewTestResult:
				m.testResultView, cmd = m.testResultView.Update(msg)
			case ViewResults:
				m.resultsView, cmd = m.resultsView.Update(msg)
			case ViewHistory:
				m.historyView, cmd = m.historyView.Update(msg)
			case ViewSettings:
				m.settingsView, cmd = m.settingsView.Update(msg)
			}
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		default:
			m.translateView, cmd = m.translateView.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			m.testResultView, cmd = m.testResultView.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			m.resultsView, cmd = m.resultsView.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			m.historyView, cmd = m.historyView.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func isKeyMsg(msg tea.Msg) bool {
	_, ok := msg.(tea.KeyMsg)
	return ok
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewTranslate:
		content = m.translateView.View()
	case ViewTestResult:
		content = m.testResultView.View()
	case ViewResults:
		content = m.resultsView.View()
	case ViewHistory:
		content = m.historyView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	page := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)

	if m.confirmQuit {
		box := ConfirmBoxStyle.Render("Unsaved work will be lost. Quit anyway? (y/n)")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	return page
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	title := SidebarTitleStyle.Render(" transcheck ")
	items = append(items, title)
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}

		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	if m.height > usedHeight {
		for i := 0; i < m.height-usedHeight-2; i++ {
			items = append(items, "")
		}
	}

	help := SidebarHelpStyle.Render("esc Menu  ? Help")
	items = append(items, help)

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(ColorText)

	helpText := titleStyle.Render("transcheck - Translation Test Client") + "\n\n"

	helpText += sectionStyle.Render("Global Keys") + "\n"
	helpText += keyStyle.Render("esc") + descStyle.Render("Open the menu / back") + "\n"
	helpText += keyStyle.Render("1-5") + descStyle.Render("Switch views (from menu)") + "\n"
	helpText += keyStyle.Render("q") + descStyle.Render("Quit (from menu)") + "\n"

	helpText += sectionStyle.Render("Translate") + "\n"
	helpText += keyStyle.Render("ctrl+t") + descStyle.Render("Translate") + "\n"
	helpText += keyStyle.Render("ctrl+l") + descStyle.Render("Pick target language") + "\n"
	helpText += keyStyle.Render("ctrl+y") + descStyle.Render("Copy translation") + "\n"
	helpText += keyStyle.Render("ctrl+x") + descStyle.Render("Clear all") + "\n"

	helpText += sectionStyle.Render("Record") + "\n"
	helpText += keyStyle.Render("tab") + descStyle.Render("Next field") + "\n"
	helpText += keyStyle.Render("←/→") + descStyle.Render("Pick outcome") + "\n"
	helpText += keyStyle.Render("ctrl+s") + descStyle.Render("Save test result") + "\n"

	helpText += sectionStyle.Render("Results") + "\n"
	helpText += keyStyle.Render("r") + descStyle.Render("Reload") + "\n"
	helpText += keyStyle.Render("d") + descStyle.Render("Delete selected") + "\n"
	helpText += keyStyle.Render("e") + descStyle.Render("Export spreadsheet") + "\n"

	helpText += sectionStyle.Render("History") + "\n"
	helpText += keyStyle.Render("enter") + descStyle.Render("Reuse in Translate") + "\n"

	helpText += "\n" + lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Render("Press any key to close")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(1, 2).
		Width(50)

	helpBox := boxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
