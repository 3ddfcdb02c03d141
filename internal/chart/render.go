package chart

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/samber/lo"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/sync/errgroup"

	"ysianalyzer/pkg/contracts/domain"
)

// RenderOptions sizes each facet image.
type RenderOptions struct {
	Width    int
	Height   int
	BarWidth int
}

// DefaultRenderOptions fit three facets across a typical page.
var DefaultRenderOptions = RenderOptions{Width: 420, Height: 320, BarWidth: 36}

// FacetSVG is the rendered image of one facet.
type FacetSVG struct {
	Chemistry string
	Row       int
	Col       int
	SVG       []byte
}

var sourceColors = map[domain.Source]drawing.Color{
	domain.SourceBioanalysis: drawing.ColorFromHex("1f77b4"),
	domain.SourceISE:         drawing.ColorFromHex("ff7f0e"),
}

// RenderFacetSVG draws one facet as an SVG bar chart. Each bar label carries
// the well label and the std, since the bar chart has no error bars. The
// x-axis walks categories in order so every facet of a model shares it; a
// category the facet has no bar for is left as an empty slot.
func RenderFacetSVG(f Facet, categories []string, opts RenderOptions) ([]byte, error) {
	opts = opts.withDefaults()

	bars := facetValues(f, categories)
	if len(bars) == 0 {
		// go-chart refuses to draw an empty bar chart
		bars = append(bars, emptySlot("no data"))
	}

	ymin, ymax := f.YMin, f.YMax
	if ymax-ymin <= 0 {
		ymax = ymin + 1
	}
	pad := (ymax - ymin) * 0.1
	if ymin < 0 {
		ymin -= pad
	}
	ymax += pad

	width := opts.Width
	if need := len(bars)*(opts.BarWidth+12) + 80; need > width {
		width = need
	}

	graph := gochart.BarChart{
		Title:    f.Chemistry,
		Width:    width,
		Height:   opts.Height,
		BarWidth: opts.BarWidth,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: gochart.YAxis{
			Name:  YAxisLabel,
			Range: &gochart.ContinuousRange{Min: ymin, Max: ymax},
			ValueFormatter: func(v interface{}) string {
				if fv, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", fv)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %s facet: %w", f.Chemistry, err)
	}
	return buf.Bytes(), nil
}

// RenderSVGs renders every facet of m over the shared m.Categories axis.
// Facets are drawn concurrently; the result keeps the facet order of m.
func RenderSVGs(m Model, opts RenderOptions) ([]FacetSVG, error) {
	out := make([]FacetSVG, len(m.Facets))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range m.Facets {
		g.Go(func() error {
			svg, err := RenderFacetSVG(f, m.Categories, opts)
			if err != nil {
				return err
			}
			out[i] = FacetSVG{Chemistry: f.Chemistry, Row: f.Row, Col: f.Col, SVG: svg}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Width <= 0 {
		o.Width = DefaultRenderOptions.Width
	}
	if o.Height <= 0 {
		o.Height = DefaultRenderOptions.Height
	}
	if o.BarWidth <= 0 {
		o.BarWidth = DefaultRenderOptions.BarWidth
	}
	return o
}

// facetValues lays the facet's bars out category by category. Bars whose
// well is not among categories follow in their own order.
func facetValues(f Facet, categories []string) []gochart.Value {
	byWell := lo.GroupBy(f.Bars, func(b Bar) string { return b.Well })
	values := make([]gochart.Value, 0, max(len(categories), len(f.Bars)))
	for _, c := range categories {
		bars, ok := byWell[c]
		if !ok {
			values = append(values, emptySlot(c))
			continue
		}
		for _, b := range bars {
			values = append(values, barValue(b))
		}
	}

	known := lo.SliceToMap(categories, func(c string) (string, struct{}) { return c, struct{}{} })
	for _, b := range f.Bars {
		if _, ok := known[b.Well]; !ok {
			values = append(values, barValue(b))
		}
	}
	return values
}

func barValue(b Bar) gochart.Value {
	return gochart.Value{
		Label: barLabel(b),
		Value: b.Mean.Float64,
		Style: gochart.Style{
			FillColor:   colorFor(b.Source),
			StrokeColor: colorFor(b.Source),
			StrokeWidth: 1,
		},
	}
}

func emptySlot(label string) gochart.Value {
	return gochart.Value{Label: label, Value: 0, Style: gochart.Style{
		FillColor:   drawing.ColorTransparent,
		StrokeColor: drawing.ColorTransparent,
	}}
}

func barLabel(b Bar) string {
	switch {
	case !b.Mean.Valid:
		return b.Well + " (n/a)"
	case b.Std.Valid:
		return fmt.Sprintf("%s ±%.3f", b.Well, b.Std.Float64)
	default:
		return b.Well
	}
}

func colorFor(s domain.Source) drawing.Color {
	if c, ok := sourceColors[s]; ok {
		return c
	}
	return gochart.GetDefaultColor(0)
}
