package tui

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/pomo/internal/config"
	"github.com/fentz26/pomo/internal/countdown"
	"github.com/fentz26/pomo/internal/notify"
	"github.com/fentz26/pomo/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) Notify(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, title+"|"+body)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestApp(t *testing.T, limit float64) (*App, *recorder) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LimitMinutes = limit
	rec := &recorder{}
	a, err := New(Options{Config: cfg, Notifier: rec, Clock: &fakeClock{now: time.Unix(0, 0)}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(a.Shutdown)
	return a, rec
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

// drive feeds cmd results back into the model until no command is left and
// returns every message seen.
func drive(t *testing.T, a *App, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var msgs []tea.Msg
	for i := 0; cmd != nil; i++ {
		if i > 10000 {
			t.Fatal("Too many update cycles")
		}
		msg := cmd()
		msgs = append(msgs, msg)
		_, cmd = a.Update(msg)
	}
	return msgs
}

func TestNaturalCompletionNotifies(t *testing.T) {
	a, rec := newTestApp(t, 1)

	_, cmd := a.Update(enter)
	if !a.Running() {
		t.Fatal("Expected a run to be active after enter")
	}

	msgs := drive(t, a, cmd)

	progress := 0
	for _, m := range msgs {
		if ev, ok := m.(eventMsg); ok && ev.Kind == countdown.EventProgress {
			progress++
		}
	}
	if progress < 119 || progress > 121 {
		t.Errorf("Expected ~120 progress updates, got %d", progress)
	}

	if a.Running() {
		t.Error("Expected run to be finished")
	}
	if rec.count() != 1 {
		t.Fatalf("Expected 1 notification, got %d", rec.count())
	}
	if rec.calls[0] != "Time Up!|1 minute has passed. Take a break!" {
		t.Errorf("Unexpected notification %q", rec.calls[0])
	}
	if !strings.Contains(a.View(), "Take a break!") {
		t.Error("Expected completion banner in view")
	}
	if v := a.indicator.State().Value; v != 0 {
		t.Errorf("Expected indicator reset to 0, got %v", v)
	}
}

func TestStopSuppressesNotification(t *testing.T) {
	a, rec := newTestApp(t, 5)

	_, cmd := a.Update(enter)
	// take a few progress events
	for i := 0; i < 3; i++ {
		_, cmd = a.Update(cmd())
	}
	if got := a.indicator.State().Value; got <= 0 {
		t.Errorf("Expected indicator to advance, got %v", got)
	}

	_, stopCmd := a.Update(enter)
	if stopCmd != nil {
		t.Error("Stop should not return a command")
	}
	if !a.stoppedByUser {
		t.Error("Expected stop flag to be set")
	}

	drive(t, a, cmd)

	if a.Running() {
		t.Error("Expected run to be finished")
	}
	if rec.count() != 0 {
		t.Errorf("Expected no notification after stop, got %d", rec.count())
	}
	if a.stoppedByUser {
		t.Error("Expected stop flag cleared after completion")
	}
}

func TestNotifyDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LimitMinutes = 1
	cfg.Notify = false
	rec := &recorder{}
	a, err := New(Options{Config: cfg, Notifier: rec, Clock: &fakeClock{}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Shutdown()

	_, cmd := a.Update(enter)
	drive(t, a, cmd)

	if rec.count() != 0 {
		t.Errorf("Expected notifier not to be called, got %d", rec.count())
	}
	if !strings.Contains(a.banner, "1 minute has passed") {
		t.Errorf("Expected banner even without desktop notification, got %q", a.banner)
	}
}

func TestAdjustLimit(t *testing.T) {
	a, _ := newTestApp(t, 20)

	a.Update(keyRunes("+"))
	a.Update(keyRunes("+"))
	a.Update(keyRunes("-"))
	if a.Limit() != 21 {
		t.Errorf("Expected limit 21, got %v", a.Limit())
	}
	if end := a.indicator.State().End; end != 21 {
		t.Errorf("Expected ring end 21, got %v", end)
	}

	for i := 0; i < 200; i++ {
		a.Update(keyRunes("+"))
	}
	if a.Limit() != config.MaxLimit {
		t.Errorf("Expected limit clamped to %d, got %v", config.MaxLimit, a.Limit())
	}
}

func TestLimitLockedWhileRunning(t *testing.T) {
	a, _ := newTestApp(t, 20)

	a.Update(enter)
	a.Update(keyRunes("+"))
	a.Update(keyRunes("e"))

	if a.Limit() != 20 {
		t.Errorf("Expected limit to stay 20 while running, got %v", a.Limit())
	}
	if a.editing {
		t.Error("Expected edit to be disabled while running")
	}
}

func TestEditLimit(t *testing.T) {
	a, _ := newTestApp(t, 20)

	a.Update(keyRunes("e"))
	if !a.editing {
		t.Fatal("Expected edit mode")
	}
	for _, r := range "45" {
		a.Update(keyRunes(string(r)))
	}
	a.Update(enter)

	if a.editing {
		t.Error("Expected edit mode to end")
	}
	if a.Limit() != 45 {
		t.Errorf("Expected limit 45, got %v", a.Limit())
	}

	a.Update(keyRunes("e"))
	for _, r := range "abc" {
		a.Update(keyRunes(string(r)))
	}
	a.Update(enter)
	if a.Limit() != 45 {
		t.Errorf("Expected limit unchanged, got %v", a.Limit())
	}
	if !strings.HasPrefix(a.message, "Error") {
		t.Errorf("Expected error message, got %q", a.message)
	}

	a.Update(keyRunes("e"))
	a.Update(keyRunes("9"))
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.editing || a.Limit() != 45 {
		t.Errorf("Esc should cancel editing, limit %v editing %t", a.Limit(), a.editing)
	}
}

func TestLimitPersisted(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "pomo.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	a, err := New(Options{Store: s, Notifier: notify.Discard})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Shutdown()

	_, cmd := a.Update(keyRunes("+"))
	if cmd == nil {
		t.Fatal("Expected a save command")
	}
	msg := cmd()
	if saved, ok := msg.(limitSavedMsg); !ok || saved.err != nil {
		t.Fatalf("Unexpected save result %#v", msg)
	}

	got, ok, err := s.LastLimit()
	if err != nil || !ok || got != config.DefaultLimit+1 {
		t.Errorf("Expected stored limit %d, got %v (ok=%t err=%v)", config.DefaultLimit+1, got, ok, err)
	}
}

func TestQuitWhileRunningJoinsWorker(t *testing.T) {
	cfg := config.DefaultConfig()
	a, err := New(Options{Config: cfg})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// real clock, 20 minute run
	a.Update(enter)
	w := a.worker
	if w == nil {
		t.Fatal("Expected active worker")
	}

	_, cmd := a.Update(keyRunes("q"))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected quit command")
	}

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Worker still running after quit")
	}
	if a.Running() {
		t.Error("Expected no active run after quit")
	}
}

func TestViewRendersRing(t *testing.T) {
	a, _ := newTestApp(t, 20)
	a.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	view := a.View()
	if !strings.Contains(view, "0 / 20") {
		t.Error("Expected ring label in view")
	}
	if !strings.Contains(view, "Time limit: 20 min") {
		t.Error("Expected limit line in view")
	}
	if a.indicator.Dirty() {
		t.Error("Expected View to clear the dirty flag")
	}
}

func TestStaleEventsIgnored(t *testing.T) {
	a, _ := newTestApp(t, 20)

	_, cmd := a.Update(eventMsg{RunID: "other", Kind: countdown.EventCompleted})
	if cmd != nil {
		t.Error("Expected stale event to be ignored")
	}
}

func TestStartResetsRing(t *testing.T) {
	a, _ := newTestApp(t, 20)
	if err := a.indicator.SetValue(7); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	a.Update(enter)
	if v := a.indicator.State().Value; v != 0 {
		t.Errorf("Expected ring reset to 0 on start, got %v", v)
	}
	if !a.indicator.Dirty() {
		t.Error("Expected reset to mark the ring dirty")
	}
}
