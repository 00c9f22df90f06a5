package ui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/accordion/internal/datasource"
	"github.com/vanderheijden86/accordion/pkg/debug"
	"github.com/vanderheijden86/accordion/pkg/expand"
	"github.com/vanderheijden86/accordion/pkg/export"
	"github.com/vanderheijden86/accordion/pkg/metrics"
	"github.com/vanderheijden86/accordion/pkg/model"
	"github.com/vanderheijden86/accordion/pkg/watcher"
)

// Options configures a Model.
type Options struct {
	Title string
	// Duration of a transition; zero keeps expand.DefaultDuration and a
	// negative value expands and collapses instantly.
	Duration time.Duration
	FPS      int
	Gap      int
	Wrap     bool
	Mouse    bool
	Theme    Theme
	Renderer BodyRenderer

	// Open is the 1-based row expanded on the first layout; 0 opens nothing.
	Open int

	// Sources are reloaded on "r" and when Watcher reports a change.
	Sources []datasource.DataSource
	Watcher *watcher.Watcher
}

// SourcesChangedMsg is sent when a watched source changes on disk.
type SourcesChangedMsg struct {
	Paths []string
}

// RowsLoadedMsg carries the result of a reload.
type RowsLoadedMsg struct {
	Rows     []model.Row
	Warnings int
	Err      error
}

// WatchSourcesCmd returns a command that waits for source changes and sends
// SourcesChangedMsg.
func WatchSourcesCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		paths, ok := <-w.Changed()
		if !ok {
			return nil
		}
		return SourcesChangedMsg{Paths: paths}
	}
}

// LoadSourcesCmd reloads every source off the UI goroutine.
func LoadSourcesCmd(sources []datasource.DataSource) tea.Cmd {
	return func() tea.Msg {
		var warnings atomic.Int64
		opts := datasource.ParseOptions{WarningHandler: func(msg string) {
			warnings.Add(1)
			debug.Log("reload: %s", msg)
		}}
		rows, err := datasource.LoadAll(context.Background(), sources, opts)
		return RowsLoadedMsg{Rows: rows, Warnings: int(warnings.Load()), Err: err}
	}
}

// Model is the bubbletea model of the accordion list.
type Model struct {
	list  *List
	rows  []model.Row
	keys  keyMap
	help  help.Model
	theme Theme
	title string
	mouse bool

	sources []datasource.DataSource
	watcher *watcher.Watcher

	width    int
	height   int
	ready    bool
	showHelp bool
	open     int

	statusMsg     string
	statusIsError bool

	// err is fatal; the program quits when it is set.
	err error
}

// NewModel creates the model for rows.
func NewModel(rows []model.Row, opts Options) Model {
	theme := opts.Theme
	if theme.Renderer == nil {
		theme = DefaultTheme(lipgloss.DefaultRenderer())
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = PlainRenderer{}
	}
	var expandOpts []expand.Option
	if opts.Duration != 0 {
		expandOpts = append(expandOpts, expand.WithDuration(opts.Duration))
	}
	timeline := NewTimeline(opts.FPS)
	adapter := NewAdapter(NewRowsAdapter(rows), timeline, renderer, expandOpts...)
	list := NewList(adapter, timeline, theme, WithGap(opts.Gap), WithWrap(opts.Wrap))

	title := opts.Title
	if title == "" {
		title = "accordion"
	}
	h := help.New()
	h.Styles.ShortKey = theme.HelpKey
	h.Styles.FullKey = theme.HelpKey
	h.Styles.ShortDesc = theme.Help
	h.Styles.FullDesc = theme.Help

	return Model{
		list:    list,
		rows:    rows,
		keys:    defaultKeyMap(),
		help:    h,
		theme:   theme,
		title:   title,
		mouse:   opts.Mouse,
		sources: opts.Sources,
		watcher: opts.Watcher,
		open:    opts.Open,
	}
}

// List returns the model's list.
func (m Model) List() *List { return m.list }

// Err returns the fatal error that ended the program, if any.
func (m Model) Err() error { return m.err }

// Status returns the status line message.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// Stop releases the watcher.
func (m Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchSourcesCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var err error

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.help.Width = msg.Width
		if err = m.resize(); err == nil && m.open > 0 {
			err = m.openInitial()
		}

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd, err = m.handleKey(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		if m.mouse {
			err = m.handleMouse(msg)
		}

	case FrameMsg:
		_, err = m.list.Frame(msg)

	case SourcesChangedMsg:
		debug.Log("ui: sources changed: %v", msg.Paths)
		cmds = append(cmds, LoadSourcesCmd(m.sources))
		if m.watcher != nil {
			cmds = append(cmds, WatchSourcesCmd(m.watcher))
		}

	case RowsLoadedMsg:
		err = m.applyRows(msg)
	}

	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	cmds = append(cmds, m.list.Timeline().Cmd())
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, error) {
	if m.showHelp && !key.Matches(msg, m.keys.Quit) {
		m.showHelp = false
		return m, nil, m.resize()
	}
	m.statusMsg = ""
	m.statusIsError = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil, m.resize()
	case key.Matches(msg, m.keys.Down):
		return m, nil, m.list.MoveCursor(1)
	case key.Matches(msg, m.keys.Up):
		return m, nil, m.list.MoveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		return m, nil, m.list.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		return m, nil, m.list.PageUp()
	case key.Matches(msg, m.keys.Top):
		return m, nil, m.list.Top()
	case key.Matches(msg, m.keys.Bottom):
		return m, nil, m.list.Bottom()
	case key.Matches(msg, m.keys.Toggle):
		_, err := m.list.ActivateCursor()
		return m, nil, err
	case key.Matches(msg, m.keys.Copy):
		m.copyCurrent()
		return m, nil, nil
	case key.Matches(msg, m.keys.Reload):
		if len(m.sources) == 0 {
			m.statusMsg = "Nothing to reload"
			return m, nil, nil
		}
		m.statusMsg = "Reloading…"
		return m, LoadSourcesCmd(m.sources), nil
	}
	return m, nil, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) error {
	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		return m.list.Scroll(1)
	case msg.Button == tea.MouseButtonWheelUp:
		return m.list.Scroll(-1)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		// The title bar takes the first line.
		pos, onToggle, ok := m.list.HitTest(msg.X, msg.Y-1)
		if !ok {
			return nil
		}
		if err := m.list.Select(pos); err != nil {
			return err
		}
		if onToggle {
			_, err := m.list.Activate(pos)
			return err
		}
	}
	return nil
}

func (m *Model) openInitial() error {
	pos := expand.Position(min(m.open, m.list.Adapter().Count()) - 1)
	m.open = 0
	if pos < 0 {
		return nil
	}
	if err := m.list.Select(pos); err != nil {
		return err
	}
	_, err := m.list.Activate(pos)
	return err
}

func (m *Model) copyCurrent() {
	if len(m.rows) == 0 {
		return
	}
	row := m.list.Adapter().Row(m.list.Cursor())
	text := row.Body
	if strings.TrimSpace(text) == "" {
		text = row.Title
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("📋 Copied %s to clipboard", row.ID)
}

func (m *Model) applyRows(msg RowsLoadedMsg) error {
	if msg.Err != nil {
		m.statusMsg = fmt.Sprintf("Reload error: %v", msg.Err)
		m.statusIsError = true
		return nil
	}
	diff := datasource.DiffRows(m.rows, msg.Rows)
	m.rows = msg.Rows
	if err := m.list.SetRows(msg.Rows); err != nil {
		return err
	}
	m.statusMsg = fmt.Sprintf("Reloaded %d rows (%s)", len(msg.Rows), diff.Summary())
	if msg.Warnings > 0 {
		m.statusMsg = fmt.Sprintf("Reloaded %d rows (%s, %d warnings)", len(msg.Rows), diff.Summary(), msg.Warnings)
	}
	return nil
}

func (m *Model) resize() error {
	if !m.ready {
		return nil
	}
	return m.list.SetSize(m.width, max(m.height-1-lipgloss.Height(m.footer()), 0))
}

func (m Model) footer() string {
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.Error.Render(m.statusMsg)
		}
		return m.theme.Status.Render(m.statusMsg)
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) titleBar() string {
	ctrl := m.list.Adapter().Controller()
	info := fmt.Sprintf("%d rows", m.list.Adapter().Count())
	if last := ctrl.LastOpen(); last != expand.NoPosition && int(last) < m.list.Adapter().Count() {
		info += fmt.Sprintf(" · open #%d", int(last)+1)
	}
	return m.theme.Header.Render(m.title) + " " + m.theme.Help.Render(info)
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	if !m.ready {
		return "Loading…"
	}
	if m.err != nil {
		return m.theme.Error.Render(m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.titleBar(), m.list.View(), m.footer())
}

// Snapshot renders the visible list for export.
func (m Model) Snapshot() export.SnapshotOptions {
	w, _ := m.list.Size()
	return export.SnapshotOptions{
		Title:   m.title,
		Columns: w,
		Lines:   m.list.SnapshotLines(),
	}
}
