package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ricecast/internal/pricing"
	"ricecast/internal/series"
)

// ChartKind selects line or filled area rendering.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartArea ChartKind = "area"
)

// ErrTooFewPoints is returned when a chart would have fewer than two x
// positions.
var ErrTooFewPoints = errors.New("render: at least two points are required to draw a chart")

// ParseChartKind accepts "line" or "area".
func ParseChartKind(v string) (ChartKind, error) {
	switch ChartKind(strings.ToLower(strings.TrimSpace(v))) {
	case ChartLine, "":
		return ChartLine, nil
	case ChartArea:
		return ChartArea, nil
	default:
		return "", fmt.Errorf("unknown chart type %q", v)
	}
}

// ChartOptions size and style the PNG.
type ChartOptions struct {
	Kind   ChartKind
	Width  int
	Height int
	Title  string
}

type tierStyle struct {
	stroke string
	fill   string
}

var tierStyles = map[pricing.Tier]tierStyle{
	pricing.TierPremium: {stroke: "f59e0b", fill: "fef3c7"},
	pricing.TierMedium:  {stroke: "10b981", fill: "d1fae5"},
	pricing.TierLow:     {stroke: "3b82f6", fill: "dbeafe"},
}

// RenderChart draws one series per tier over points and writes a PNG to w.
// Tiers absent from a point are charted as zero.
func RenderChart(w io.Writer, points []series.Point, opts ChartOptions) error {
	if len(points) < 2 {
		return ErrTooFewPoints
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}

	xs := make([]float64, len(points))
	ticks := make([]chart.Tick, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Label}
	}

	maxY := 0.0
	seriesList := make([]chart.Series, 0, len(pricing.Tiers()))
	for _, tier := range pricing.Tiers() {
		ys := make([]float64, len(points))
		for i, p := range points {
			if price, ok := p.Price(tier); ok {
				ys[i] = price.InexactFloat64()
			}
			if ys[i] > maxY {
				maxY = ys[i]
			}
		}

		ts := tierStyles[tier]
		style := chart.Style{
			StrokeColor: drawing.ColorFromHex(ts.stroke),
			StrokeWidth: 2,
			DotColor:    drawing.ColorFromHex(ts.stroke),
			DotWidth:    3,
		}
		if opts.Kind == ChartArea {
			style.FillColor = drawing.ColorFromHex(ts.fill).WithAlpha(160)
		}

		seriesList = append(seriesList, chart.ContinuousSeries{
			Name:    tier.DisplayName(),
			Style:   style,
			XValues: xs,
			YValues: ys,
		})
	}
	if maxY <= 0 {
		maxY = 1
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 30, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(points) - 1)},
		},
		YAxis: chart.YAxis{
			Name: "Harga (Rp)",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return Compact(f)
				}
				return fmt.Sprint(v)
			},
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
		},
		Series: seriesList,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
