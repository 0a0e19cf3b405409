package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/drova-launcher/internal/logtail"
)

type logLinesMsg struct {
	content string
	err     error
}

type logTickMsg time.Time

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logLinesMsg{content: "журнал не настроен"}
		}
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLinesMsg{err: err}
		}
		if len(lines) == 0 {
			return logLinesMsg{content: "журнал пуст"}
		}
		return logLinesMsg{content: strings.Join(lines, "\n")}
	}
}

func logTickCmd() tea.Cmd {
	return tea.Tick(LogRefreshInterval, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

// renderLogs shows the tail of the launcher's own log file.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("Журнал", styles.Logo),
		bg.Render(truncateMiddle(m.logPath, max(10, m.width/2)), styles.MutedText),
	}
	if m.logErr != nil {
		parts = append(parts, bg.Render(m.logErr.Error(), styles.DangerText))
	}
	header := bg.Bar(styles.Header, m.width, parts...)
	footer := m.theme.Styles().Footer.Width(m.width).Render("esc: закрыть  pgup/pgdown: прокрутка  g/G: начало/конец")
	return header + "\n" + m.logView.View() + "\n" + footer
}

// truncateMiddle keeps both ends of a long path.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 3
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
