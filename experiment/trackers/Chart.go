package trackers

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/utils/floatutils"
)

// Chart dimensions in pixels
const (
	ChartW       = 1000
	ChartH       = 700
	chartMargin  = 50.0
	scorePanelH  = 420.0
	epsilonPanel = 480.0
)

var (
	backgroundColour = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	axisColour       = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	qlearningColour  = color.RGBA{R: 77, G: 140, B: 255, A: 255}
	heuristicColour  = color.RGBA{R: 255, G: 115, B: 76, A: 255}
	epsilonColour    = color.RGBA{R: 120, G: 220, B: 120, A: 255}
)

// Chart renders the scores of both sides per episode, their moving
// averages and the exploration rate of the Q-learning side to a PNG
// image when saved
type Chart struct {
	scores   *Scores
	window   int
	filename string
}

// NewChart returns a new *Chart Tracker which saves its image to
// filename, smoothing scores over window episodes
func NewChart(filename string, window int) *Chart {
	return &Chart{
		scores:   NewScores(""),
		window:   max(window, 1),
		filename: filename,
	}
}

// Track caches the scores of an episode
func (c *Chart) Track(r episode.Result) error {
	return c.scores.Track(r)
}

// panel maps data coordinates into a rectangle of the image
type panel struct {
	x, y, w, h float64
	n          int
	min, max   float64
}

func (p panel) point(i int, v float64) (float64, float64) {
	x := p.x
	if p.n > 1 {
		x += float64(i) / float64(p.n-1) * p.w
	}
	y := p.y + p.h
	if p.max > p.min {
		y -= (v - p.min) / (p.max - p.min) * p.h
	}
	return x, y
}

func (p panel) line(dc *gg.Context, values []float64, c color.Color,
	width float64) {
	if len(values) == 0 {
		return
	}

	dc.ClearPath()
	for i, v := range values {
		x, y := p.point(i, v)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.Stroke()
}

func (p panel) axes(dc *gg.Context, title string) {
	dc.ClearPath()
	dc.SetColor(axisColour)
	dc.SetLineWidth(1.0)
	dc.DrawLine(p.x, p.y, p.x, p.y+p.h)
	dc.DrawLine(p.x, p.y+p.h, p.x+p.w, p.y+p.h)
	dc.Stroke()

	dc.DrawString(title, p.x, p.y-8)
	dc.DrawString(fmt.Sprintf("%.4g", p.max), 4, p.y+10)
	dc.DrawString(fmt.Sprintf("%.4g", p.min), 4, p.y+p.h)
}

// Render draws the chart
func (c *Chart) Render() *gg.Context {
	data := c.scores.Data()
	dc := gg.NewContext(ChartW, ChartH)
	dc.SetColor(backgroundColour)
	dc.Clear()

	n := len(data.QLearning)
	scores := panel{
		x: chartMargin, y: chartMargin,
		w: ChartW - 2*chartMargin, h: scorePanelH - chartMargin,
		n: n,
	}
	if n > 0 {
		scores.max = max(floats.Max(data.QLearning), floats.Max(data.Heuristic))
	}
	scores.axes(dc, fmt.Sprintf("Scores per episode (moving average over %v)",
		c.window))
	scores.line(dc, data.QLearning, faded(qlearningColour), 1.0)
	scores.line(dc, data.Heuristic, faded(heuristicColour), 1.0)
	scores.line(dc, floatutils.MovingAverage(data.QLearning, c.window),
		qlearningColour, 3.0)
	scores.line(dc, floatutils.MovingAverage(data.Heuristic, c.window),
		heuristicColour, 3.0)

	dc.SetColor(qlearningColour)
	dc.DrawString("QLearning", ChartW-2*chartMargin-60, chartMargin+10)
	dc.SetColor(heuristicColour)
	dc.DrawString("Heuristic", ChartW-2*chartMargin-60, chartMargin+25)

	epsilon := panel{
		x: chartMargin, y: epsilonPanel,
		w: ChartW - 2*chartMargin, h: ChartH - epsilonPanel - chartMargin,
		n: n, min: 0, max: 1,
	}
	epsilon.axes(dc, "QLearning epsilon")
	epsilon.line(dc, data.Epsilon, epsilonColour, 2.0)

	return dc
}

func faded(c color.RGBA) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 90}
}

// Save renders the chart and saves it as a PNG image
func (c *Chart) Save() error {
	if err := c.Render().SavePNG(c.filename); err != nil {
		return fmt.Errorf("save: could not save chart: %w", err)
	}
	return nil
}
