package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	SeriesWeight       = "Weight"
	SeriesWeightLatest = "Weight (Latest)"
	SeriesBMILatest    = "BMI (Latest)"

	TitleProgress = "Weight and BMI Progress"
	TitleNoData   = "Weight Progress (No Data Available)"

	dateFormat = "2006-01-02"
)

var (
	colorGreen     = color.RGBA{G: 128, A: 255}
	colorBlue      = color.RGBA{B: 255, A: 255}
	colorRed       = color.RGBA{R: 255, A: 255}
	colorLightGray = color.Gray{Y: 211}
)

type Point struct {
	Date  time.Time
	Value float64
}

type Input struct {
	// RawWeights is the weight log as it was entered.
	RawWeights []Point
	// Weights and BMIs are ordered by date.
	Weights []Point
	BMIs    []Point
}

func (in Input) HasData() bool {
	return len(in.RawWeights) > 0 || len(in.Weights) > 0
}

type Rendered struct {
	PNG         []byte
	Placeholder bool
	// Points holds the number of plotted points per series name.
	Points map[string]int
}

type Renderer struct {
	width  vg.Length
	height vg.Length
}

func NewRenderer() *Renderer {
	return &Renderer{
		width:  10 * vg.Inch,
		height: 6 * vg.Inch,
	}
}

// Render draws the weight and BMI progress chart as PNG.
// Without weight data a placeholder chart is drawn instead.
func (r *Renderer) Render(in Input) (*Rendered, error) {
	p := plot.New()
	p.BackgroundColor = colorLightGray

	if !in.HasData() {
		p.Title.Text = TitleNoData
		p.X.Label.Text = "Date"
		p.Y.Label.Text = "Weight (kg)"
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1

		png, err := r.encode(p)
		if err != nil {
			return nil, err
		}
		return &Rendered{
			PNG:         png,
			Placeholder: true,
			Points:      map[string]int{},
		}, nil
	}

	p.Title.Text = TitleProgress
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Value"
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.Legend.Top = true

	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Vertical.Dashes = dashes
	grid.Horizontal.Dashes = dashes
	p.Add(grid)

	points := map[string]int{}
	for _, s := range []struct {
		name   string
		points []Point
		color  color.Color
		shape  draw.GlyphDrawer
	}{
		{SeriesWeight, in.RawWeights, colorGreen, draw.CircleGlyph{}},
		{SeriesWeightLatest, in.Weights, colorBlue, draw.BoxGlyph{}},
		{SeriesBMILatest, in.BMIs, colorRed, draw.TriangleGlyph{}},
	} {
		points[s.name] = len(s.points)
		if len(s.points) == 0 {
			continue
		}

		line, scatter, err := plotter.NewLinePoints(toXYs(s.points))
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.name, err)
		}
		line.Color = s.color
		line.Width = vg.Points(1.5)
		scatter.Color = s.color
		scatter.Shape = s.shape
		scatter.Radius = vg.Points(3)

		p.Add(line, scatter)
		p.Legend.Add(s.name, line, scatter)
	}

	png, err := r.encode(p)
	if err != nil {
		return nil, err
	}

	return &Rendered{
		PNG:    png,
		Points: points,
	}, nil
}

func (r *Renderer) encode(p *plot.Plot) ([]byte, error) {
	writerTo, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writerTo.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func toXYs(points []Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Date.Unix())
		xys[i].Y = pt.Value
	}
	return xys
}
