package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/fentz26/pomo/internal/countdown"
	"github.com/fentz26/pomo/internal/notify"
	"github.com/fentz26/pomo/internal/ring"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a countdown without the TUI",
	Long: `Run a single countdown in the current terminal, printing progress as it goes.
Ctrl+C stops the run early without a notification.`,
	RunE: runHeadlessCmd,
}

var runQuiet bool

func init() {
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Only print the completion message")
}

func runHeadlessCmd(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if s, err := openStore(); err != nil {
		log.Printf("Warning: preferences unavailable: %v", err)
	} else {
		applyLastLimit(cmd, cfg, s)
		s.Close()
	}

	w, err := countdown.New(cfg.LimitMinutes, countdown.WithInterval(cfg.TickInterval))
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	completed, err := runCountdown(sigCtx, w, cmd.OutOrStdout(), runQuiet)
	if err != nil {
		return err
	}
	if !completed {
		fmt.Fprintln(cmd.OutOrStdout(), "Stopped.")
		return nil
	}

	title, body := notify.Message(w.Limit())
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", title, body)
	if err := newNotifier(cfg).Notify(title, body); err != nil {
		log.Printf("Warning: notification failed: %v", err)
	}
	return nil
}

// runCountdown starts w and prints its progress until it finishes. Cancelling
// ctx stops the run cooperatively. It reports whether the run reached its
// limit.
func runCountdown(ctx context.Context, w *countdown.Worker, out io.Writer, quiet bool) (bool, error) {
	indicator, err := ring.New(0, w.Limit(), 0)
	if err != nil {
		return false, err
	}

	// The worker keeps its own context so the final Completed event is
	// still delivered after a stop request.
	if err := w.Start(context.Background()); err != nil {
		return false, err
	}

	var stoppedByUser atomic.Bool
	go func() {
		select {
		case <-ctx.Done():
			stoppedByUser.Store(true)
			w.Cancel()
		case <-w.Done():
		}
	}()

	for ev := range w.Events() {
		switch ev.Kind {
		case countdown.EventProgress:
			if err := indicator.SetValue(ev.Elapsed); err != nil {
				continue
			}
			if !quiet {
				fmt.Fprintf(out, "\r%s", progressLine(indicator.State(), 30))
			}
		case countdown.EventCompleted:
			if !quiet {
				fmt.Fprintln(out)
			}
		}
	}
	w.Wait()

	return !stoppedByUser.Load(), nil
}

// progressLine draws a one-line bar followed by the ring label.
func progressLine(s ring.State, width int) string {
	filled := int(ring.Fraction(s)*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %s min",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		ring.Label(s))
}
