package ring

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CellAspect is how many drawing units tall a terminal cell is per unit of
// width.
const CellAspect = 2.0

// Glyphs are the runes used to paint each layer.
type Glyphs struct {
	Ring rune
	Arc  rune
}

// DefaultGlyphs paints the track shaded and the progress solid.
var DefaultGlyphs = Glyphs{Ring: '░', Arc: '█'}

// Area returns the drawing-unit size of a cols x rows cell grid, suitable as
// the width and height arguments of Render.
func Area(cols, rows int) (float64, float64) {
	return float64(cols), float64(rows) * CellAspect
}

type cell struct {
	r     rune
	color lipgloss.Color
	bold  bool
}

// Rasterize paints drawing commands onto a cols x rows character grid and
// returns it as newline-separated, styled lines. Commands are applied in
// order, later ones on top.
func Rasterize(cmds []Command, cols, rows int, g Glyphs) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	for _, c := range cmds {
		switch c := c.(type) {
		case Ellipse:
			stroke(grid, c.Rect, c.Pen, g.Ring, nil)
		case Arc:
			start, sweep := c.Start, c.Sweep
			stroke(grid, c.Rect, c.Pen, g.Arc, func(angle float64) bool {
				return onArc(angle, start, sweep)
			})
		case Text:
			text(grid, c)
		}
	}

	lines := make([]string, rows)
	for y, row := range grid {
		lines[y] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

// stroke marks every cell whose box touches the band of width pen.Width
// centered on the ellipse inscribed in r. keep, when set, filters by the
// angle of the cell's center.
func stroke(grid [][]cell, r Rect, pen Pen, glyph rune, keep func(angle float64) bool) {
	a, b := r.W/2, r.H/2
	if a <= 0 || b <= 0 {
		return
	}
	cx, cy := r.Center()
	radius := (a + b) / 2
	sx, sy := radius/a, radius/b
	inner, outer := radius-pen.Width/2, radius+pen.Width/2

	for y := range grid {
		for x := range grid[y] {
			// cell box, mapped so the ellipse becomes a circle of radius
			x0, x1 := (float64(x)-cx)*sx, (float64(x+1)-cx)*sx
			y0, y1 := (float64(y)*CellAspect-cy)*sy, (float64(y+1)*CellAspect-cy)*sy

			near := math.Hypot(nearest(x0, x1), nearest(y0, y1))
			far := math.Hypot(math.Max(math.Abs(x0), math.Abs(x1)), math.Max(math.Abs(y0), math.Abs(y1)))
			if near > outer || far < inner {
				continue
			}
			if keep != nil && !keep(pointAngle((x0+x1)/2, (y0+y1)/2)) {
				continue
			}
			grid[y][x] = cell{r: glyph, color: pen.Color}
		}
	}
}

// nearest is the smallest |v| over the interval [lo, hi].
func nearest(lo, hi float64) float64 {
	if lo <= 0 && hi >= 0 {
		return 0
	}
	return math.Min(math.Abs(lo), math.Abs(hi))
}

// pointAngle converts a screen offset (y down) to degrees counter-clockwise
// from 3 o'clock in [0, 360).
func pointAngle(dx, dy float64) float64 {
	return normalize(math.Atan2(-dy, dx) * 180 / math.Pi)
}

func onArc(angle, start, sweep float64) bool {
	if math.Abs(sweep) >= FullAngle {
		return true
	}
	if sweep < 0 {
		return normalize(start-angle) <= -sweep
	}
	return normalize(angle-start) <= sweep
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, FullAngle)
	if deg < 0 {
		deg += FullAngle
	}
	return deg
}

func text(grid [][]cell, t Text) {
	cx, cy := t.Rect.Center()
	row := int(cy / CellAspect)
	if row < 0 || row >= len(grid) {
		return
	}
	runes := []rune(t.Text)
	col := int(math.Round(cx - float64(len(runes))/2))
	for i, r := range runes {
		x := col + i
		if x < 0 || x >= len(grid[row]) {
			continue
		}
		grid[row][x] = cell{r: r, color: t.Color, bold: t.Bold}
	}
}

// renderRow styles runs of identically styled cells together.
func renderRow(row []cell) string {
	var b strings.Builder
	var run []rune
	var cur cell

	flush := func() {
		if len(run) == 0 {
			return
		}
		s := string(run)
		if cur.color != "" || cur.bold {
			s = lipgloss.NewStyle().Foreground(cur.color).Bold(cur.bold).Render(s)
		}
		b.WriteString(s)
		run = run[:0]
	}

	for i, c := range row {
		if i > 0 && (c.color != cur.color || c.bold != cur.bold) {
			flush()
		}
		cur = c
		run = append(run, c.r)
	}
	flush()
	return b.String()
}
