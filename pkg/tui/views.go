package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vidinfra/tenbyte-userdata/pkg/catalog"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var rows []string
	rows = append(rows, StyleTitle.Render("Tenbyte cloud-init user data"), "")

	for _, f := range m.visibleFields() {
		rows = append(rows, m.renderField(f))
		if f == FieldPassword {
			for _, h := range config.Advisories(m.record) {
				rows = append(rows, strings.Repeat(" ", 16)+StyleHint.Render(h.Message))
			}
		}
	}

	rows = append(rows, "", m.renderPreview(), m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderField(f Field) string {
	marker := "  "
	label := StyleLabel.Render(f.String())
	if f == m.focus {
		marker = StyleFocused.Render(cursorMark) + " "
		label = StyleFocused.Inherit(StyleLabel).Render(f.String())
	}

	var value string
	switch f {
	case FieldUsername:
		value = m.username.View()
	case FieldPassword:
		value = m.password.View()
	case FieldWebServer:
		value = renderSelect(catalog.CategoryWebServer, m.record.WebServer)
	case FieldDatabase:
		value = renderSelect(catalog.CategoryDatabase, m.record.Database)
	case FieldNodejs:
		value = renderCheckbox(m.record.InstallNodejs)
	case FieldYarn:
		value = renderCheckbox(m.record.InstallYarn)
	}

	return marker + label + value
}

func renderSelect(category catalog.Category, value string) string {
	d, ok := catalog.Find(category, value)
	if !ok {
		return StyleHint.Render(fmt.Sprintf("‹ %s ›", value))
	}
	return fmt.Sprintf("‹ %s › %s", d.Label, StyleMuted.Render(d.Description))
}

func renderCheckbox(checked bool) string {
	if checked {
		return checkedBox
	}
	return uncheckedBox
}

func (m Model) renderPreview() string {
	body := m.preview
	if m.err != nil {
		body = StyleHint.Render(m.err.Error())
	}
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return StylePreview.Width(width).Render(body)
}

func (m Model) renderHelp() string {
	copyLabel := "ctrl+y copy"
	if m.copied {
		copyLabel = StyleCopied.Render("Copied!")
	}
	help := []string{
		m.keys.Next.Help().Key + " next",
		"←/→ change",
		"space toggle",
		copyLabel,
		m.keys.Quit.Help().Key + " quit",
	}
	return StyleMuted.Render(strings.Join(help, " • "))
}
