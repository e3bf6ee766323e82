package views

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"transcheck/internal/clipboard"
	"transcheck/internal/config"
)

// Settings view styles
var (
	settingsTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B")).
				MarginBottom(1)

	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true).
				MarginBottom(1)

	settingsLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc")).
				Width(18)

	settingsValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	settingsMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))
)

// SettingsModel is the read-only settings view.
type SettingsModel struct {
	config    *config.Config
	configDir string

	width  int
	height int
}

// NewSettingsModel creates a new settings model.
func NewSettingsModel(cfg *config.Config, configDir string) SettingsModel {
	return SettingsModel{config: cfg, configDir: configDir}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// HasOverlay is here for symmetry; settings has no overlays.
func (m *SettingsModel) HasOverlay() bool {
	return false
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	return m, nil
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(settingsTitleStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(settingsPathStyle.Render("Config: " + filepath.Join(m.configDir, "config.yaml")))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(settingsLabelStyle.Render(label))
		b.WriteString(settingsValueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Server", m.config.ServerURL)
	tester := m.config.TesterName
	if tester == "" {
		tester = "(not set)"
	}
	row("Tester", tester)
	row("Request timeout", m.config.RequestTimeout().String())
	row("List timeout", m.config.ListTimeout().String())
	row("History limit", fmt.Sprintf("%d entries", m.config.HistoryLimit))

	exportDir := m.config.ExportDir
	if exportDir == "" {
		exportDir = "(current directory)"
	}
	row("Export dir", exportDir)

	clip := "unavailable"
	if clipboard.Available() {
		clip = "available"
	}
	row("Clipboard", clip)

	b.WriteString("\n")
	b.WriteString(settingsMutedStyle.Render("Edit the config file and restart to change these values"))

	return b.String()
}
