package ring

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Angles are in degrees, 0 at 3 o'clock, positive counter-clockwise.
const (
	PositionRight  = 0.0
	PositionTop    = 90.0
	PositionLeft   = 180.0
	PositionBottom = -90.0

	// StartAngle is where the foreground arc begins.
	StartAngle = PositionTop
	FullAngle  = 360.0
)

// Rect is an axis-aligned rectangle in drawing units, y growing downwards.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Inset shrinks r by the given margins.
func (r Rect) Inset(top, right, bottom, left float64) Rect {
	return Rect{X: r.X + left, Y: r.Y + top, W: r.W - left - right, H: r.H - top - bottom}
}

// Pen describes a stroke.
type Pen struct {
	Color lipgloss.Color
	Width float64
}

// Command is one drawing instruction produced by Render.
type Command interface {
	command()
}

// Ellipse strokes the ellipse inscribed in Rect.
type Ellipse struct {
	Rect Rect
	Pen  Pen
}

// Arc strokes part of the ellipse inscribed in Rect, from Start sweeping by
// Sweep degrees.
type Arc struct {
	Rect  Rect
	Pen   Pen
	Start float64
	Sweep float64
}

// Text draws Text centered in Rect.
type Text struct {
	Rect  Rect
	Text  string
	Color lipgloss.Color
	Bold  bool
}

func (Ellipse) command() {}
func (Arc) command()     {}
func (Text) command()    {}

// Geometry controls how the ring is fitted into the available area.
type Geometry struct {
	// SideFraction of min(width, height) used for the square drawing region.
	SideFraction float64
	// MarginPercent of the square's side inset on every edge.
	MarginPercent float64
}

// Style is everything Render needs besides the state.
type Style struct {
	Geometry
	PenWidth    float64
	AccentWidth float64
	Foreground  lipgloss.Color
	Background  lipgloss.Color
	Label       lipgloss.Color
}

// DefaultStyle is tuned for terminal cells (1 unit wide, 2 units tall).
func DefaultStyle() Style {
	return Style{
		Geometry: Geometry{
			SideFraction:  0.95,
			MarginPercent: 8,
		},
		PenWidth:    1.6,
		AccentWidth: 0.8,
		Foreground:  lipgloss.Color("#EF4444"),
		Background:  lipgloss.Color("#10B981"),
		Label:       lipgloss.Color("#F9FAFB"),
	}
}

// Frame is the layout of one paint.
type Frame struct {
	Side float64
	// Base is the square the label is centered in.
	Base Rect
	// Ring is Base inset by the margin; the ellipse is inscribed in it.
	Ring Rect
}

// Layout fits the square drawing region into a width x height area.
func Layout(width, height float64, g Geometry) Frame {
	side := g.SideFraction * math.Min(width, height)
	if side < 0 {
		side = 0
	}
	base := Rect{X: (width - side) / 2, Y: (height - side) / 2, W: side, H: side}
	m := g.MarginPercent * side / 100
	return Frame{Side: side, Base: base, Ring: base.Inset(m, m, m, m)}
}

// Render maps a state onto drawing commands: background ring, progress arc
// and centered label, in paint order.
func Render(s State, width, height float64, st Style) []Command {
	f := Layout(width, height, st.Geometry)

	cmds := []Command{
		Ellipse{
			Rect: f.Ring,
			Pen:  Pen{Color: st.Background, Width: st.PenWidth + st.AccentWidth},
		},
	}
	if sweep := SweepAngle(s); sweep != 0 {
		cmds = append(cmds, Arc{
			Rect:  f.Ring,
			Pen:   Pen{Color: st.Foreground, Width: st.PenWidth},
			Start: StartAngle,
			Sweep: sweep,
		})
	}
	return append(cmds, Text{Rect: f.Base, Text: Label(s), Color: st.Label, Bold: true})
}
