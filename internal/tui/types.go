package tui

import "github.com/fentz26/pomo/internal/countdown"

// eventMsg carries one worker event into the update loop.
type eventMsg countdown.Event

// runClosedMsg is sent when a worker's channel closes without a completion,
// which only happens on shutdown.
type runClosedMsg struct {
	runID string
}

// notifiedMsg reports the outcome of a desktop notification.
type notifiedMsg struct {
	err error
}

// limitSavedMsg reports the outcome of persisting the chosen limit.
type limitSavedMsg struct {
	err error
}
