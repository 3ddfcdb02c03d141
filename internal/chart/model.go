// Package chart builds the faceted results chart: a front-end neutral model
// of one bar facet per chemistry, and an SVG rendering of each facet.
package chart

import (
	"math"

	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"ysianalyzer/pkg/contracts/domain"
)

// Chart defaults shown on the results page.
const (
	DefaultTitle   = "YSI Analyzer Results"
	DefaultColumns = 3
	YAxisLabel     = "Concentration (g/L)"
)

// Model is the whole faceted chart.
type Model struct {
	Title      string   `json:"title"`
	YLabel     string   `json:"y_label"`
	Columns    int      `json:"columns"`
	Categories []string `json:"categories"`
	Facets     []Facet  `json:"facets"`
}

// Facet is the sub-chart of one chemistry. Row and Col place it on the
// wrapped grid; YMax is the top of the facet's own y-range.
type Facet struct {
	Chemistry string  `json:"chemistry"`
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Bars      []Bar   `json:"bars"`
	YMin      float64 `json:"y_min"`
	YMax      float64 `json:"y_max"`
}

// Bar is one summary block drawn as a bar with its std as error.
type Bar struct {
	Well       string        `json:"well"`
	Experiment string        `json:"experiment"`
	Plate      int           `json:"plate"`
	Mean       null.Float    `json:"mean"`
	Std        null.Float    `json:"std"`
	Source     domain.Source `json:"source"`
}

// BuildModel lays the combined table out as one facet per chemistry, in
// the order chemistries first appear, wrapped at DefaultColumns.
func BuildModel(combined *domain.CombinedTable) Model {
	m := Model{
		Title:   DefaultTitle,
		YLabel:  YAxisLabel,
		Columns: DefaultColumns,
	}
	if combined.IsEmpty() {
		return m
	}

	m.Categories = lo.Uniq(lo.Map(combined.Blocks, func(b domain.SummaryBlock, _ int) string {
		return b.Well
	}))

	for i, chem := range combined.Chemistries() {
		facet := Facet{
			Chemistry: chem,
			Row:       i / m.Columns,
			Col:       i % m.Columns,
		}
		for _, b := range combined.ByChemistry(chem) {
			facet.Bars = append(facet.Bars, Bar{
				Well:       b.Well,
				Experiment: b.Experiment,
				Plate:      b.Plate,
				Mean:       b.MeanConcentration,
				Std:        b.StdConcentration,
				Source:     b.Source,
			})
		}
		facet.YMin, facet.YMax = yRange(facet.Bars)
		m.Facets = append(m.Facets, facet)
	}
	return m
}

// Rows returns the number of facet rows on the wrapped grid.
func (m Model) Rows() int {
	if len(m.Facets) == 0 || m.Columns <= 0 {
		return 0
	}
	return (len(m.Facets) + m.Columns - 1) / m.Columns
}

// yRange spans every bar including its error, anchored at zero.
func yRange(bars []Bar) (ymin, ymax float64) {
	for _, b := range bars {
		if !b.Mean.Valid {
			continue
		}
		top, bottom := b.Mean.Float64, b.Mean.Float64
		if b.Std.Valid {
			top += b.Std.Float64
			bottom -= b.Std.Float64
		}
		ymax = math.Max(ymax, top)
		ymin = math.Min(ymin, bottom)
	}
	return ymin, ymax
}
