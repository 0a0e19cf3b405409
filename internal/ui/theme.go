package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the launcher screen.
type Theme struct {
	Name string

	Background string // behind overlays
	Surface    string // header and footer bars

	CardBorder  string
	FocusBorder string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string

	// Card badge colors keyed by badge kind
	BadgeColors map[string]string
}

// Badge kinds shown on cards.
const (
	BadgeFree    = "free"
	BadgeAccount = "account"
	BadgeDesktop = "desktop"
)

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	DangerText  lipgloss.Style

	Header    lipgloss.Style
	Footer    lipgloss.Style
	Logo      lipgloss.Style
	Card      lipgloss.Style
	CardFocus lipgloss.Style

	badgeColors map[string]string
	badgeText   string
	muted       string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	bar := func(c string) lipgloss.Style {
		return fg(c).Background(lipgloss.Color(t.Surface)).Padding(0, 1)
	}
	card := func(border string) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1)
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		DangerText:  fg(t.Danger).Bold(true),

		Header:    bar(t.Text),
		Footer:    bar(t.Muted),
		Logo:      fg(t.Warning).Bold(true),
		Card:      card(t.CardBorder),
		CardFocus: card(t.FocusBorder),

		badgeColors: t.BadgeColors,
		badgeText:   t.Background,
		muted:       t.Muted,
	}
}

// BadgeStyle returns the style of a card badge.
func (s Styles) BadgeStyle(kind string) lipgloss.Style {
	color := s.badgeColors[kind]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.badgeText)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

var themeOrder = []string{"Slate", "Nightfox", "Kanagawa"}

var themes = map[string]Theme{
	// Tailwind CSS slate/sky: https://tailwindcss.com/docs/colors
	"Slate": {
		Name:        "Slate",
		Background:  "#020617",
		Surface:     "#0f172a",
		CardBorder:  "#334155",
		FocusBorder: "#38bdf8",
		Text:        "#f1f5f9",
		Muted:       "#94a3b8",
		Faint:       "#64748b",
		Accent:      "#38bdf8",
		Success:     "#22c55e",
		Warning:     "#f59e0b",
		Danger:      "#ef4444",
		BadgeColors: map[string]string{
			BadgeFree:    "#16a34a",
			BadgeAccount: "#f59e0b",
			BadgeDesktop: "#0ea5e9",
		},
	},
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": {
		Name:        "Nightfox",
		Background:  "#131a24",
		Surface:     "#192330",
		CardBorder:  "#39506d",
		FocusBorder: "#719cd6",
		Text:        "#cdcecf",
		Muted:       "#738091",
		Faint:       "#71839b",
		Accent:      "#719cd6",
		Success:     "#81b29a",
		Warning:     "#dbc074",
		Danger:      "#c94f6d",
		BadgeColors: map[string]string{
			BadgeFree:    "#81b29a",
			BadgeAccount: "#dbc074",
			BadgeDesktop: "#9d79d6",
		},
	},
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": {
		Name:        "Kanagawa",
		Background:  "#16161D",
		Surface:     "#1F1F28",
		CardBorder:  "#54546D",
		FocusBorder: "#7E9CD8",
		Text:        "#DCD7BA",
		Muted:       "#C8C093",
		Faint:       "#727169",
		Accent:      "#7E9CD8",
		Success:     "#98BB6C",
		Warning:     "#E6C384",
		Danger:      "#E46876",
		BadgeColors: map[string]string{
			BadgeFree:    "#98BB6C",
			BadgeAccount: "#E6C384",
			BadgeDesktop: "#957FB8",
		},
	},
}

// GetTheme returns a theme by name, falling back to Slate.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["Slate"]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}
