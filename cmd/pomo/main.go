package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fentz26/pomo/internal/config"
	"github.com/fentz26/pomo/internal/notify"
	"github.com/fentz26/pomo/internal/store"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "pomo",
	Version: version,
	Short:   "pomo - Pomodoro timer for the terminal",
	Long:    `pomo counts down a focus session, draws its progress as a ring and tells you when it is time for a break.`,
	// Running without a subcommand opens the TUI.
	RunE: runTUI,
}

var (
	configPath string
	dbPath     string
	limitFlag  float64
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.pomo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to preferences database (default ~/.pomo/pomo.db)")
	rootCmd.PersistentFlags().Float64VarP(&limitFlag, "limit", "l", 0, fmt.Sprintf("Countdown length in minutes (%d-%d)", config.MinLimit, config.MaxLimit))

	// Add subcommands
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config or the default location and applies --limit.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromHome()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("limit") {
		if err := config.ValidateLimit(limitFlag); err != nil {
			return nil, err
		}
		cfg.LimitMinutes = limitFlag
	}
	return cfg, nil
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

// openStore opens --db or the default preferences database.
func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	s, err := store.New(path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("ping preferences database: %w", err)
	}
	return s, nil
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if !cfg.Notify {
		return notify.Discard
	}
	return notify.NewDesktop("pomo")
}

// applyLastLimit replaces the configured limit with the one remembered from
// the last session, unless --limit was given.
func applyLastLimit(cmd *cobra.Command, cfg *config.Config, s *store.Store) {
	if s == nil || cmd.Flags().Changed("limit") {
		return
	}
	last, ok, err := s.LastLimit()
	if err != nil {
		log.Printf("Warning: failed to read last limit: %v", err)
		return
	}
	if ok && config.ValidateLimit(last) == nil {
		cfg.LimitMinutes = last
	}
}
