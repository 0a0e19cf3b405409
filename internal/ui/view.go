package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/drova-launcher/internal/apperr"
	"github.com/five82/drova-launcher/internal/catalog"
	"github.com/five82/drova-launcher/internal/drova"
)

func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderDetail())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader shows the launcher name and, once known, the station.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("DROVA", styles.Logo)}
	if m.hasStation {
		if name := strings.TrimSpace(m.station.Name); name != "" {
			parts = append(parts, bg.Render(name, styles.Text.Bold(true)))
		}
		if hw := hardwareSummary(m.station.Hardware); hw != "" {
			parts = append(parts, bg.Render(hw, styles.MutedText))
		}
	}
	if n := len(m.cards); n > 0 && m.loadErr == nil {
		parts = append(parts, bg.Render(fmt.Sprintf("игр: %d", n), styles.FaintText))
	}
	if !m.updatedAt.IsZero() {
		parts = append(parts, bg.Render("обновлено "+m.updatedAt.Format("15:04"), styles.FaintText))
	}
	return bg.Bar(styles.Header, m.width, parts...)
}

// renderStatus shows load progress, the last load error or the last
// launch outcome.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	switch {
	case m.loading:
		line := m.spinner.View() + " " + styles.Text.Render(m.status.Text)
		if m.status.HasCounts() {
			line += "  " + m.bar.ViewAs(m.status.Fraction()) +
				styles.MutedText.Render(fmt.Sprintf(" %d/%d", m.status.Current, m.status.Total))
		}
		return line
	case m.launching:
		return m.spinner.View() + " " + styles.Text.Render(m.notice)
	case m.notice != "":
		if m.noticeErr {
			return styles.DangerText.Render(m.notice)
		}
		return styles.SuccessText.Render(m.notice)
	case m.loadErr != nil:
		return styles.DangerText.Render(apperr.Message(m.loadErr)) +
			styles.MutedText.Render("  r: повторить")
	}
	return ""
}

func (m Model) columns() int {
	usable := m.width + CardGap
	cols := usable / (CardWidth + CardGap)
	if cols < 1 {
		return 1
	}
	return cols
}

func (m Model) visibleRows() int {
	rows := (m.height - chromeRows) / CardHeight
	if rows < 1 {
		return 1
	}
	return rows
}

// renderGrid lays cards out row by row, scrolled so the selection is visible.
func (m Model) renderGrid() string {
	if len(m.cards) == 0 {
		return ""
	}
	cols := m.columns()
	rows := m.visibleRows()
	selRow := m.selected / cols
	top := 0
	if selRow >= rows {
		top = selRow - rows + 1
	}

	gap := strings.Repeat(" ", CardGap)
	lines := make([]string, 0, rows)
	for r := top; r < top+rows; r++ {
		start := r * cols
		if start >= len(m.cards) {
			break
		}
		end := min(start+cols, len(m.cards))
		row := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				row = append(row, gap)
			}
			row = append(row, m.renderCard(m.cards[i], i == m.selected))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderCard(card catalog.Card, focused bool) string {
	styles := m.theme.Styles()
	inner := CardWidth - 4 // border plus padding

	box := styles.Card
	title := styles.Text.Bold(true)
	if focused {
		box = styles.CardFocus
		title = styles.AccentText.Bold(true)
	}

	lines := []string{
		title.Render(clip(card.Title, inner)),
		renderBadges(styles, card),
		styles.FaintText.Render(clip(imageLabel(card.ImageURL), inner)),
	}
	return box.
		Width(CardWidth - 2).
		Height(CardHeight - 2).
		Render(strings.Join(lines, "\n"))
}

func renderBadges(styles Styles, card catalog.Card) string {
	var badges []string
	if card.IsDesktop {
		badges = append(badges, styles.BadgeStyle(BadgeDesktop).Render("рабочий стол"))
	}
	if card.IsFree {
		badges = append(badges, styles.BadgeStyle(BadgeFree).Render("бесплатно"))
	}
	if card.RequiredAccount != "" {
		badges = append(badges, styles.BadgeStyle(BadgeAccount).Render(clip(card.RequiredAccount, 10)))
	}
	return strings.Join(badges, " ")
}

// renderDetail shows the description of the selected card.
func (m Model) renderDetail() string {
	card, ok := m.selectedCard()
	if !ok {
		return ""
	}
	styles := m.theme.Styles()
	text := card.Alt
	if text == "" {
		text = card.Title
	}
	return styles.MutedText.Render(clip(text, max(1, m.width)))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func imageLabel(url string) string {
	switch {
	case url == "":
		return "без обложки"
	case strings.HasPrefix(url, "file://"):
		return "обложка в кэше"
	}
	return url
}

func hardwareSummary(hw drova.Hardware) string {
	var parts []string
	if cpu := hw.CPU(); cpu != "" {
		parts = append(parts, cpu)
	}
	for _, g := range hw.Graphic {
		if name := strings.TrimSpace(g.Name); name != "" {
			parts = append(parts, name)
			break
		}
	}
	if hw.RAMBytes > 0 {
		parts = append(parts, fmt.Sprintf("RAM %d ГБ", (hw.RAMBytes+(1<<29))>>30))
	}
	return strings.Join(parts, " · ")
}

// clip shortens s to at most limit runes, marking the cut with an ellipsis.
func clip(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	if len([]rune(s)) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return catalog.Truncate(s, limit-1) + "…"
}
