package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/pomo/internal/config"
	"github.com/fentz26/pomo/internal/store"
	"github.com/fentz26/pomo/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive timer",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	app, cleanup, err := setupTUI(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// setupTUI prepares everything the TUI needs. cleanup releases the log file
// and the store.
func setupTUI(cmd *cobra.Command) (*tui.App, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	// The TUI owns the terminal, so logs go to a file.
	dir, err := config.Dir()
	if err != nil {
		return nil, nil, err
	}
	logFile, err := openLog(dir)
	if err != nil {
		return nil, nil, err
	}

	var s *store.Store
	if opened, err := openStore(); err != nil {
		log.Printf("Warning: preferences unavailable: %v", err)
	} else {
		s = opened
	}
	cleanup := func() {
		if s != nil {
			s.Close()
		}
		logFile.Close()
	}
	applyLastLimit(cmd, cfg, s)

	app, err := tui.New(tui.Options{
		Config:   cfg,
		Store:    s,
		Notifier: newNotifier(cfg),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return app, cleanup, nil
}

// openLog creates dir if needed and sends the log package to dir/pomo.log.
func openLog(dir string) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := tea.LogToFile(filepath.Join(dir, "pomo.log"), "pomo")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
