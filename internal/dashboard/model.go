// Package dashboard is the terminal view of routing savings. It polls the request log store.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/analytics"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// Refresh interval bounds
const (
	MinRefresh     = time.Second
	MaxRefresh     = 10 * time.Second
	DefaultRefresh = 2 * time.Second
	DefaultLimit   = 50
)

// LogReader is the read side of the log store
type LogReader interface {
	RecentRequestLogs(ctx context.Context, limit int) ([]models.RequestLog, error)
}

// Options configures a dashboard Model
type Options struct {
	Limit       int
	Refresh     time.Duration
	AutoRefresh bool
	Logger      *zap.SugaredLogger
}

type keyMap struct {
	ToggleAuto key.Binding
	Refresh    key.Binding
	Faster     key.Binding
	Slower     key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleAuto: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle auto refresh"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Faster: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "slower"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the dashboard state
type Model struct {
	reader   LogReader
	log      *zap.SugaredLogger
	keys     keyMap
	table    table.Model
	limit    int
	interval time.Duration
	auto     bool
	// tickGen invalidates pending ticks when auto refresh or the interval changes
	tickGen int

	loading     bool
	loaded      bool
	logs        []models.RequestLog
	summary     analytics.Summary
	err         error
	lastUpdated time.Time

	width  int
	height int
}

// New creates a dashboard model reading from reader
func New(reader LogReader, opts Options) *Model {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Refresh == 0 {
		opts.Refresh = DefaultRefresh
	}

	t := table.New(
		table.WithColumns(tableColumns(0)),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(Secondary)
	s.Selected = s.Selected.
		Foreground(TextPrimary).
		Background(BgAccent)
	t.SetStyles(s)

	return &Model{
		reader:   reader,
		log:      opts.Logger,
		keys:     defaultKeyMap(),
		table:    t,
		limit:    opts.Limit,
		interval: clampRefresh(opts.Refresh),
		auto:     opts.AutoRefresh,
	}
}

// Init loads the first snapshot and starts auto refresh
func (m *Model) Init() tea.Cmd {
	m.loading = true
	cmds := []tea.Cmd{loadLogsCmd(m.reader, m.limit)}
	if m.auto {
		cmds = append(cmds, tickCmd(m.tickGen, m.interval))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(tableColumns(msg.Width))
		return m, nil

	case tickMsg:
		if msg.gen != m.tickGen || !m.auto {
			return m, nil
		}
		return m, tea.Batch(m.load(), tickCmd(m.tickGen, m.interval))

	case logsLoadedMsg:
		m.applyLogs(msg)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return m.load()

	case key.Matches(msg, m.keys.ToggleAuto):
		m.auto = !m.auto
		m.tickGen++
		if m.auto {
			return tea.Batch(m.load(), tickCmd(m.tickGen, m.interval))
		}
		return nil

	case key.Matches(msg, m.keys.Slower):
		return m.setInterval(m.interval + time.Second)

	case key.Matches(msg, m.keys.Faster):
		return m.setInterval(m.interval - time.Second)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *Model) setInterval(d time.Duration) tea.Cmd {
	d = clampRefresh(d)
	if d == m.interval {
		return nil
	}
	m.interval = d
	m.tickGen++
	if !m.auto {
		return nil
	}
	return tickCmd(m.tickGen, m.interval)
}

// load issues a poll unless one is already in flight
func (m *Model) load() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	return loadLogsCmd(m.reader, m.limit)
}

func (m *Model) applyLogs(msg logsLoadedMsg) {
	m.loading = false
	if msg.Err != nil {
		// keep the previous snapshot on screen
		m.err = msg.Err
		m.log.Warnw("Failed to load request logs", "error", msg.Err)
		return
	}

	m.err = nil
	m.loaded = true
	m.logs = msg.Logs
	m.summary = analytics.Summarize(msg.Logs)
	m.lastUpdated = msg.At
	m.table.SetRows(tableRows(msg.Logs))
}

// Interval returns the current auto refresh interval
func (m *Model) Interval() time.Duration {
	return m.interval
}

// AutoRefresh reports whether auto refresh is on
func (m *Model) AutoRefresh() bool {
	return m.auto
}

// Summary returns the aggregates of the last successful poll
func (m *Model) Summary() analytics.Summary {
	return m.summary
}

// Err returns the error of the last poll, if it failed
func (m *Model) Err() error {
	return m.err
}

func clampRefresh(d time.Duration) time.Duration {
	if d < MinRefresh {
		return MinRefresh
	}
	if d > MaxRefresh {
		return MaxRefresh
	}
	return d
}
