package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mqttui/mqttui/internal/mqttconn"
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting…"
	}

	info := m.renderInfoBar()
	body := m.renderBody()
	footer := m.renderFooter()

	view := lipgloss.JoinVertical(lipgloss.Left, info, body, footer)

	if m.connState.State != mqttconn.Connected {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.renderErrorBanner())
	}
	if m.vm.Modal.Kind != 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderModal())
	}
	return view
}

func (m *Model) renderInfoBar() string {
	return infoBarStyle.Render(fmt.Sprintf("%s  filters=%s  %s  mqttui %s",
		m.brokerURL, strings.Join(m.filters, ","), m.connState.String(), m.version))
}

func (m *Model) renderBody() string {
	leftW := m.width / 3
	if leftW < 16 {
		leftW = 16
	}
	rightW := m.width - leftW

	left := paneBorderStyle.Width(leftW - 2).Height(m.height - 4).Render(m.renderTree(leftW - 2))
	right := paneBorderStyle.Width(rightW - 2).Height(m.height - 4).Render(m.renderRight(rightW - 2))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) renderRight(width int) string {
	table := m.historyTable.View()
	payload := m.renderPayloadPanel(width)
	return lipgloss.JoinVertical(lipgloss.Left, table, payload)
}

func (m *Model) renderFooter() string {
	if m.vm.SearchActive {
		return fmt.Sprintf("/%s", m.vm.SearchQuery)
	}
	m.help.ShowAll = m.showFullHelp
	return m.help.View(m.km)
}

func (m *Model) renderErrorBanner() string {
	msg := m.connState.String()
	if m.lastErr != nil {
		msg = m.lastErr.Error()
	}
	return errorBannerStyle.Render("NOT CONNECTED: " + msg)
}

func (m *Model) renderModal() string {
	switch m.vm.Modal.Kind {
	default:
		return modalStyle.Render(fmt.Sprintf("Clean retained messages under %q?\n\n[y] confirm   [n] cancel", m.vm.Modal.Topic))
	}
}
