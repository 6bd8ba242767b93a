package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/pomo/internal/config"
	"github.com/fentz26/pomo/internal/ring"
)

// Theme is a static palette, picked once at startup.
type Theme struct {
	Primary lipgloss.Color
	Arc     lipgloss.Color
	Track   lipgloss.Color
	Label   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Bar     lipgloss.Color
	BarText lipgloss.Color
}

var themes = map[string]Theme{
	config.ThemeDark: {
		Primary: lipgloss.Color("#7C3AED"),
		Arc:     lipgloss.Color("#EF4444"),
		Track:   lipgloss.Color("#10B981"),
		Label:   lipgloss.Color("#F9FAFB"),
		Success: lipgloss.Color("#10B981"),
		Error:   lipgloss.Color("#EF4444"),
		Muted:   lipgloss.Color("#6B7280"),
		Bar:     lipgloss.Color("#374151"),
		BarText: lipgloss.Color("#F9FAFB"),
	},
	config.ThemeLight: {
		Primary: lipgloss.Color("#6366F1"),
		Arc:     lipgloss.Color("#DC2626"),
		Track:   lipgloss.Color("#059669"),
		Label:   lipgloss.Color("#111827"),
		Success: lipgloss.Color("#059669"),
		Error:   lipgloss.Color("#DC2626"),
		Muted:   lipgloss.Color("#9CA3AF"),
		Bar:     lipgloss.Color("#E5E7EB"),
		BarText: lipgloss.Color("#111827"),
	},
}

// ThemeFor returns the named palette, falling back to dark.
func ThemeFor(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[config.ThemeDark]
}

type styles struct {
	title     lipgloss.Style
	limit     lipgloss.Style
	inputBox  lipgloss.Style
	banner    lipgloss.Style
	errorText lipgloss.Style
	muted     lipgloss.Style
	statusBar lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			Padding(0, 1),
		limit: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),
		inputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),
		banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Success).
			Padding(0, 1),
		errorText: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),
		muted: lipgloss.NewStyle().
			Foreground(t.Muted).
			Padding(0, 1),
		statusBar: lipgloss.NewStyle().
			Background(t.Bar).
			Foreground(t.BarText).
			Padding(0, 1),
	}
}

// ringStyle combines the configured geometry with the theme colors.
func ringStyle(cfg *config.Config, t Theme) ring.Style {
	return ring.Style{
		Geometry: ring.Geometry{
			SideFraction:  cfg.Indicator.SideFraction,
			MarginPercent: cfg.Indicator.MarginPercent,
		},
		PenWidth:    cfg.Indicator.PenWidth,
		AccentWidth: cfg.Indicator.AccentWidth,
		Foreground:  t.Arc,
		Background:  t.Track,
		Label:       t.Label,
	}
}
