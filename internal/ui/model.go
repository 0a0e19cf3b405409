package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/drova-launcher/internal/apperr"
	"github.com/five82/drova-launcher/internal/catalog"
	"github.com/five82/drova-launcher/internal/drova"
	"github.com/five82/drova-launcher/internal/prefs"
	"github.com/five82/drova-launcher/internal/progress"
	"github.com/five82/drova-launcher/internal/state"
)

// Loader runs one catalog load.
type Loader interface {
	Load(ctx context.Context, report progress.Reporter) ([]catalog.Card, error)
}

// Launcher executes the action bound to a card.
type Launcher interface {
	Launch(productID string) error
}

// SnapshotFunc reads the launch state installed by the last load.
type SnapshotFunc func() (state.Snapshot, error)

// DetailsFunc fetches the station name and hardware for the header.
type DetailsFunc func(ctx context.Context) (drova.StationDetails, error)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Loader      Loader
	Launcher    Launcher
	Details     DetailsFunc  // optional
	Snapshot    SnapshotFunc // optional; feeds the "updated" header field
	Shell       *Shell
	ThemeName   string
	PrefsPath   string
	LastProduct string
	LogPath     string // launcher log shown in the log overlay
	Logger      *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	loader    Loader
	launcher  Launcher
	details   DetailsFunc
	snapshot  SnapshotFunc
	prefsPath string
	logPath   string
	log       *slog.Logger

	// UI state
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	bar      progressbar.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	// Catalog state
	cards       []catalog.Card
	selected    int
	lastProduct string
	loading     bool
	loadSeq     int
	status      progress.Status
	loadErr     error
	updatedAt   time.Time

	// Launch state
	launching bool
	notice    string
	noticeErr bool

	// Station header
	station    drova.StationDetails
	hasStation bool

	// Log overlay
	showLogs bool
	logView  viewport.Model
	logErr   error
}

// New creates a new Bubble Tea model. The first catalog load starts in Init.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		loader:      opts.Loader,
		launcher:    opts.Launcher,
		details:     opts.Details,
		snapshot:    opts.Snapshot,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		log:         logger.With("component", "ui"),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		bar:         progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage()),
		theme:       GetTheme(themeName),
		lastProduct: opts.LastProduct,
		loading:     opts.Loader != nil,
		loadSeq:     1,
		status:      progress.Text(catalog.StatusStation),
		logView:     viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.loader != nil {
		cmds = append(cmds, loadCmds(m.ctx, m.loader, m.loadSeq, progress.Log(m.log))...)
	}
	if m.details != nil {
		cmds = append(cmds, stationCmd(m.ctx, m.details))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.bar.Width = clampInt(msg.Width/3, 10, 40)
		m.resizeLogView()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.launching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressMsg:
		if !m.loading || msg.seq != m.loadSeq {
			return m, nil
		}
		m.status = msg.status
		return m, waitProgress(msg.ch, msg.seq)

	case loadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.handleLoaded(msg)
		return m, nil

	case stationMsg:
		if msg.err != nil {
			m.log.Warn("station details unavailable", "error", msg.err)
			return m, nil
		}
		m.station = msg.details
		m.hasStation = true
		return m, nil

	case launchedMsg:
		m.launching = false
		if msg.err != nil {
			m.log.Error("launch failed", "product", msg.productID, "error", msg.err)
			m.notice = apperr.Message(msg.err)
			m.noticeErr = true
			return m, nil
		}
		m.notice = "Запущено: " + msg.title
		m.noticeErr = false
		return m, nil

	case hideMsg:
		return m, tea.ExitAltScreen

	case exitMsg:
		m.savePrefs()
		return m, tea.Quit

	case logLinesMsg:
		m.logErr = msg.err
		if msg.err == nil {
			m.logView.SetContent(msg.content)
			m.logView.GotoBottom()
		}
		return m, nil

	case logTickMsg:
		if !m.showLogs {
			return m, nil
		}
		return m, tea.Batch(readLogCmd(m.logPath), logTickCmd())
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Загрузка..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		m.resizeLogView()
		return m, tea.Batch(readLogCmd(m.logPath), logTickCmd())

	case key.Matches(msg, m.keys.Reload):
		return m.reload()

	case key.Matches(msg, m.keys.Launch):
		return m.launchSelected()
	}

	m.moveSelection(msg)
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Quit):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logView.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logView.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m *Model) moveSelection(msg tea.KeyMsg) {
	n := len(m.cards)
	if n == 0 {
		return
	}
	cols := m.columns()
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Right):
		if m.selected < n-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected+cols < n {
			m.selected += cols
		} else if m.selected/cols < (n-1)/cols {
			m.selected = n - 1
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = n - 1
	}
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.loader == nil || m.loading {
		return m, nil
	}
	m.loading = true
	m.loadSeq++
	m.loadErr = nil
	m.notice = ""
	m.status = progress.Text(catalog.StatusStation)
	cmds := append(loadCmds(m.ctx, m.loader, m.loadSeq, progress.Log(m.log)), m.spinner.Tick)
	return m, tea.Batch(cmds...)
}

func (m Model) launchSelected() (tea.Model, tea.Cmd) {
	card, ok := m.selectedCard()
	if !ok || m.launcher == nil || m.launching {
		return m, nil
	}
	m.launching = true
	m.notice = "Запуск: " + card.Title
	m.noticeErr = false
	m.lastProduct = card.ProductID
	m.savePrefs()
	return m, tea.Batch(launchCmd(m.launcher, card), m.spinner.Tick)
}

func (m *Model) handleLoaded(msg loadedMsg) {
	m.loading = false
	previous := m.lastProduct
	if card, ok := m.selectedCard(); ok {
		previous = card.ProductID
	}

	if msg.err != nil {
		m.log.Error("catalog load failed", "error", msg.err)
		m.loadErr = msg.err
		m.cards = []catalog.Card{catalog.FallbackDesktopCard()}
		m.selected = 0
		return
	}

	m.loadErr = nil
	m.cards = msg.cards
	if m.snapshot != nil {
		if snap, err := m.snapshot(); err != nil {
			m.log.Warn("read launch state", "error", err)
		} else {
			m.updatedAt = snap.LastUpdated
			m.log.Debug("catalog installed", "cards", len(m.cards), "loads", snap.Loads)
		}
	}
	m.selected = 0
	for i, card := range m.cards {
		if card.ProductID == previous {
			m.selected = i
			break
		}
	}
}

func (m Model) selectedCard() (catalog.Card, bool) {
	if m.selected < 0 || m.selected >= len(m.cards) {
		return catalog.Card{}, false
	}
	return m.cards[m.selected], true
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastProduct: m.lastProduct}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs", "error", err)
	}
}

func (m *Model) resizeLogView() {
	m.logView.Width = m.width
	m.logView.Height = max(1, m.height-2)
}

// Messages

type progressMsg struct {
	seq    int
	status progress.Status
	ch     progress.Channel
}

type loadedMsg struct {
	seq   int
	cards []catalog.Card
	err   error
}

type stationMsg struct {
	details drova.StationDetails
	err     error
}

type launchedMsg struct {
	productID string
	title     string
	err       error
}

type hideMsg struct{}

type exitMsg struct {
	code int
}

// Commands

// loadCmds starts a load and the listener that relays its progress. The
// channel is closed once Load returns so the listener stops. extra, when
// set, receives every update as well.
func loadCmds(ctx context.Context, loader Loader, seq int, extra progress.Reporter) []tea.Cmd {
	ch := make(progress.Channel, 32)
	load := func() tea.Msg {
		cards, err := loader.Load(ctx, progress.Multi(ch, extra))
		close(ch)
		return loadedMsg{seq: seq, cards: cards, err: err}
	}
	return []tea.Cmd{load, waitProgress(ch, seq)}
}

func waitProgress(ch progress.Channel, seq int) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg{seq: seq, status: status, ch: ch}
	}
}

func stationCmd(ctx context.Context, fetch DetailsFunc) tea.Cmd {
	return func() tea.Msg {
		details, err := fetch(ctx)
		return stationMsg{details: details, err: err}
	}
}

func launchCmd(launcher Launcher, card catalog.Card) tea.Cmd {
	return func() tea.Msg {
		err := launcher.Launch(card.ProductID)
		return launchedMsg{productID: card.ProductID, title: card.Title, err: err}
	}
}

// Run starts the Bubble Tea program and returns the exit code requested
// through the shell, or 0.
func Run(opts Options) (int, error) {
	shell := opts.Shell
	if shell == nil {
		shell = NewShell()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	shell.attach(p)
	defer shell.attach(nil)

	if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return 1, err
	}
	code, _ := shell.ExitCode()
	return code, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
