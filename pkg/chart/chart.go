// Package chart draws the points of a season standings report as a bar
// chart, one bar per driver in ranking order.
package chart

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"

	"f1champsstandings/pkg/standings"
)

const (
	Width     = 600
	margin    = 10
	barHeight = 20
	barGap    = 6
)

var (
	background   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	leaderColor  = color.RGBA{0xe1, 0x06, 0x00, 0xff}
	rankedColor  = color.RGBA{0x44, 0x44, 0x44, 0xff}
	unknownColor = color.RGBA{0xbb, 0xbb, 0xbb, 0xff}
)

// the rasterizer keeps shared state
var mu sync.Mutex

// Height is the image height for a report of n drivers.
func Height(n int) int {
	if n < 1 {
		n = 1
	}
	return 2*margin + n*barHeight + (n-1)*barGap
}

// barBounds returns the horizontal extent of the bar of points.
func barBounds(points, maxPoints int) (float64, float64) {
	x0 := float64(margin)
	if maxPoints <= 0 || points <= 0 {
		return x0, x0
	}
	return x0, x0 + float64(Width-2*margin)*float64(points)/float64(maxPoints)
}

func barTop(i int) float64 {
	return float64(margin + i*(barHeight+barGap))
}

// Draw renders report into a new image.
func Draw(report standings.RankedReport) *image.RGBA {
	mu.Lock()
	defer mu.Unlock()

	rect := image.Rect(0, 0, Width, Height(len(report)))
	dest := image.NewRGBA(rect)
	gc := draw2dimg.NewGraphicContext(dest)

	fillRect(gc, background, 0, 0, float64(rect.Max.X), float64(rect.Max.Y))

	maxPoints := 0
	for _, rec := range report {
		if rec.TotalPoints > maxPoints {
			maxPoints = rec.TotalPoints
		}
	}
	leader, hasLeader := report.Leader()
	for i, rec := range report {
		x0, x1 := barBounds(rec.TotalPoints, maxPoints)
		if x1 <= x0 {
			continue
		}
		y := barTop(i)
		leading := hasLeader && rec.DriverID == leader.DriverID
		fillRect(gc, barColor(rec, leading), x0, y, x1, y+barHeight)
	}
	return dest
}

func barColor(rec standings.DriverSeasonRecord, leading bool) color.Color {
	switch {
	case leading && rec.Ranked():
		return leaderColor
	case rec.Ranked():
		return rankedColor
	default:
		return unknownColor
	}
}

func fillRect(gc draw2d.GraphicContext, c color.Color, x0, y0, x1, y1 float64) {
	gc.Save()
	gc.SetFillColor(c)
	gc.BeginPath()
	draw2dkit.Rectangle(gc, x0, y0, x1, y1)
	gc.Fill()
	gc.Restore()
}

// WritePNG draws report and encodes it as PNG to w.
func WritePNG(w io.Writer, report standings.RankedReport) error {
	return png.Encode(w, Draw(report))
}
