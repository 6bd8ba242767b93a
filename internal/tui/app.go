// Package tui provides the interactive terminal UI for pomo.
package tui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/pomo/internal/config"
	"github.com/fentz26/pomo/internal/countdown"
	"github.com/fentz26/pomo/internal/notify"
	"github.com/fentz26/pomo/internal/ring"
	"github.com/fentz26/pomo/internal/store"
)

// chromeLines is the number of rows used by everything but the ring.
const chromeLines = 9

// Options configures the App.
type Options struct {
	Config *config.Config
	// Store persists the chosen limit. Optional.
	Store *store.Store
	// Notifier is used on natural completion. Defaults to notify.Discard.
	Notifier notify.Notifier
	// Clock overrides the worker clock. Optional.
	Clock countdown.Clock
}

// App is the main TUI application model.
type App struct {
	cfg      *config.Config
	store    *store.Store
	notifier notify.Notifier
	clock    countdown.Clock

	limit     float64
	indicator *ring.Indicator
	ringStyle ring.Style
	frame     string
	frameW    int
	frameH    int

	// at most one run at a time
	worker        *countdown.Worker
	stoppedByUser bool

	ctx    context.Context
	cancel context.CancelFunc

	input   textinput.Model
	editing bool
	keys    keyMap
	help    help.Model
	styles  styles

	width   int
	height  int
	banner  string
	message string
}

// New creates a new TUI application.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}

	limit := cfg.LimitMinutes
	indicator, err := ring.New(0, limit, 0)
	if err != nil {
		return nil, err
	}

	theme := ThemeFor(cfg.Theme)

	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%d-%d", config.MinLimit, config.MaxLimit)
	ti.CharLimit = 6
	ti.Width = 10
	ti.Prompt = "minutes: "

	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		cfg:       cfg,
		store:     opts.Store,
		notifier:  notifier,
		clock:     opts.Clock,
		limit:     limit,
		indicator: indicator,
		ringStyle: ringStyle(cfg, theme),
		ctx:       ctx,
		cancel:    cancel,
		input:     ti,
		keys:      newKeyMap(),
		help:      help.New(),
		styles:    newStyles(theme),
		width:     60,
		height:    24,
	}
	a.keys.setRunning(false)
	return a, nil
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.Shutdown()
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Shutdown stops any active run and waits for its goroutine to exit.
// It is safe to call more than once.
func (a *App) Shutdown() {
	a.cancel()
	if a.worker != nil {
		a.worker.Cancel()
		a.worker.Wait()
		log.Printf("Countdown %s joined on shutdown", a.worker.ID())
		a.worker = nil
	}
}

// Limit returns the configured countdown length in minutes.
func (a *App) Limit() float64 { return a.limit }

// Running reports whether a countdown is active.
func (a *App) Running() bool { return a.worker != nil }

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.editing {
			return a, a.updateEditing(msg)
		}
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width

	case eventMsg:
		return a, a.handleEvent(countdown.Event(msg))

	case runClosedMsg:
		if a.worker != nil && a.worker.ID() == msg.runID {
			a.worker = nil
			a.keys.setRunning(false)
		}

	case notifiedMsg:
		if msg.err != nil {
			log.Printf("Notification failed: %v", msg.err)
			a.message = "Error: notification failed: " + msg.err.Error()
		}

	case limitSavedMsg:
		if msg.err != nil {
			log.Printf("Error saving limit: %v", msg.err)
		}
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.Shutdown()
		return tea.Quit

	case key.Matches(msg, a.keys.Toggle):
		if a.worker == nil {
			return a.start()
		}
		a.stop()

	case key.Matches(msg, a.keys.Increase):
		return a.setLimit(a.limit + 1)

	case key.Matches(msg, a.keys.Decrease):
		return a.setLimit(a.limit - 1)

	case key.Matches(msg, a.keys.Edit):
		a.editing = true
		a.message = ""
		a.input.SetValue("")
		return a.input.Focus()

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return nil
}

func (a *App) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		a.Shutdown()
		return tea.Quit

	case "esc":
		a.endEditing()
		return nil

	case "enter":
		raw := strings.TrimSpace(a.input.Value())
		a.endEditing()
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			a.message = fmt.Sprintf("Error: %q is not a number", raw)
			return nil
		}
		return a.setLimit(v)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

func (a *App) endEditing() {
	a.editing = false
	a.input.Blur()
	a.input.SetValue("")
}

// setLimit clamps v into the allowed range, resizes the ring and persists
// the choice. Ignored while a run is active.
func (a *App) setLimit(v float64) tea.Cmd {
	if a.worker != nil {
		return nil
	}
	v = config.ClampLimit(v)
	if v == a.limit {
		return nil
	}
	if err := a.indicator.SetRange(0, v); err != nil {
		a.message = "Error: " + err.Error()
		return nil
	}
	a.limit = v
	a.banner = ""
	a.message = ""
	return a.saveLimit(v)
}

func (a *App) saveLimit(v float64) tea.Cmd {
	if a.store == nil {
		return nil
	}
	s := a.store
	return func() tea.Msg {
		return limitSavedMsg{err: s.SetLastLimit(v)}
	}
}

func (a *App) start() tea.Cmd {
	opts := []countdown.Option{countdown.WithInterval(a.cfg.TickInterval)}
	if a.clock != nil {
		opts = append(opts, countdown.WithClock(a.clock))
	}

	w, err := countdown.New(a.limit, opts...)
	if err != nil {
		a.message = "Error: " + err.Error()
		return nil
	}
	if err := w.Start(a.ctx); err != nil {
		a.message = "Error: " + err.Error()
		return nil
	}

	a.worker = w
	a.stoppedByUser = false
	a.banner = ""
	a.message = ""
	a.resetRing()
	a.keys.setRunning(true)
	log.Printf("Started %.2f minute countdown %s", a.limit, w.ID())
	return waitForEvent(w)
}

func (a *App) resetRing() {
	if err := a.indicator.SetValue(0); err != nil {
		log.Printf("Error resetting ring: %v", err)
	}
}

func (a *App) stop() {
	a.stoppedByUser = true
	a.worker.Cancel()
	a.message = "Stopping..."
}

func (a *App) handleEvent(ev countdown.Event) tea.Cmd {
	if a.worker == nil || ev.RunID != a.worker.ID() {
		return nil
	}

	switch ev.Kind {
	case countdown.EventProgress:
		if err := a.indicator.SetValue(ev.Elapsed); err != nil {
			log.Printf("Dropping progress %v: %v", ev.Elapsed, err)
		}
		return waitForEvent(a.worker)

	case countdown.EventCompleted:
		return a.finishRun()
	}
	return nil
}

// finishRun resets the UI after a run and notifies unless the user stopped
// it.
func (a *App) finishRun() tea.Cmd {
	limit := a.worker.Limit()
	cancelled := a.stoppedByUser

	a.worker = nil
	a.stoppedByUser = false
	a.message = ""
	a.resetRing()
	a.keys.setRunning(false)

	if cancelled {
		log.Printf("Countdown stopped by user")
		a.banner = ""
		return nil
	}

	title, body := notify.Message(limit)
	a.banner = title + " " + body
	log.Printf("Countdown completed: %s", body)
	if !a.cfg.Notify {
		return nil
	}
	n := a.notifier
	return func() tea.Msg {
		return notifiedMsg{err: n.Notify(title, body)}
	}
}

// waitForEvent blocks on the worker's channel and hands the next event to
// the update loop.
func waitForEvent(w *countdown.Worker) tea.Cmd {
	events := w.Events()
	id := w.ID()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return runClosedMsg{runID: id}
		}
		return eventMsg(ev)
	}
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.title.Render("🍅 POMO") + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 1)) + "\n")

	if a.editing {
		b.WriteString(a.styles.inputBox.Render(a.input.View()) + "\n")
	} else {
		limit := a.styles.limit.Render(fmt.Sprintf("Time limit: %s min", formatMinutes(a.limit)))
		if a.worker != nil {
			limit += a.styles.muted.Render("(locked while running)")
		}
		b.WriteString("\n" + limit + "\n\n")
	}

	b.WriteString(a.renderRing() + "\n")

	switch {
	case a.message != "" && strings.HasPrefix(a.message, "Error"):
		b.WriteString(a.styles.errorText.Render(a.message))
	case a.message != "":
		b.WriteString(a.styles.muted.Render(a.message))
	case a.banner != "":
		b.WriteString(a.styles.banner.Render(a.banner))
	}
	b.WriteString("\n")

	status := " Ready"
	if a.worker != nil {
		status = fmt.Sprintf(" Running · %s", ring.Label(a.indicator.State()))
	}
	b.WriteString(a.styles.statusBar.Width(max(a.width, 1)).Render(status) + "\n")
	b.WriteString(a.help.View(a.keys))

	return b.String()
}

// renderRing repaints the ring only when the indicator or the area changed.
func (a *App) renderRing() string {
	cols := max(a.width, 10)
	rows := max(a.height-chromeLines, 5)

	if a.indicator.Dirty() || cols != a.frameW || rows != a.frameH || a.frame == "" {
		w, h := ring.Area(cols, rows)
		cmds := ring.Render(a.indicator.State(), w, h, a.ringStyle)
		a.frame = ring.Rasterize(cmds, cols, rows, ring.DefaultGlyphs)
		a.frameW, a.frameH = cols, rows
		a.indicator.ClearDirty()
	}
	return lipgloss.NewStyle().Width(cols).Render(a.frame)
}

func formatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
