package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"

	"ysianalyzer/internal/errors"
	"ysianalyzer/pkg/contracts/domain"
)

// missingTokens are the cell values read as "no value" rather than as text.
// Lookups are by the lower-cased cell.
var missingTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "-nan": {},
	"#n/a": {}, "#na": {}, "null": {}, "none": {}, "<na>": {},
}

// Summarizer computes per-chemistry concentration statistics for the rows of
// one well.
type Summarizer struct {
	logger *slog.Logger
	policy ConcentrationPolicy
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	Policy ConcentrationPolicy
}

// ChemistrySummary is the mean and sample standard deviation of one
// chemistry's concentrations, both rounded half-to-even to 3 decimals.
type ChemistrySummary struct {
	Chemistry string
	Mean      null.Float
	Std       null.Float
	Count     int
	// Invalid holds the cells skipped under the lenient policy.
	Invalid []domain.DataIssue
}

// NewSummarizer creates a summarizer. An empty policy means strict.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Policy == "" {
		config.Policy = PolicyStrict
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
		policy: config.Policy,
	}
}

// Policy returns the configured concentration policy.
func (s *Summarizer) Policy() ConcentrationPolicy {
	return s.policy
}

// Summarize groups rows (as returned by SelectWell) by chemistry and returns
// one summary per chemistry, sorted by chemistry. Under the strict policy a
// non-numeric concentration yields a *errors.DataFormatError naming every
// offending cell.
func (s *Summarizer) Summarize(ctx context.Context, rows *domain.RawTable) ([]ChemistrySummary, error) {
	return s.summarize(ctx, rows, domain.DataIssue{})
}

// summarize is Summarize with base supplying the plate and source of any
// reported data issue.
func (s *Summarizer) summarize(ctx context.Context, rows *domain.RawTable, base domain.DataIssue) ([]ChemistrySummary, error) {
	type group struct {
		values  []float64
		invalid []domain.DataIssue
	}
	groups := make(map[string]*group)

	for i := 0; i < rows.Len(); i++ {
		chemistry := rows.Value(i, domain.ColumnChemistry)
		if strings.TrimSpace(chemistry) == "" {
			continue
		}
		g, ok := groups[chemistry]
		if !ok {
			g = &group{}
			groups[chemistry] = g
		}

		v, state := parseConcentration(rows.Value(i, domain.ColumnConcentration))
		switch state {
		case cellNumber:
			g.values = append(g.values, v)
		case cellInvalid:
			issue := base
			issue.WellID = domain.WellID(rows.Value(i, domain.ColumnWellID))
			issue.Chemistry = chemistry
			issue.Row = rows.Line(i)
			issue.Value = rows.Value(i, domain.ColumnConcentration)
			g.invalid = append(g.invalid, issue)
		}
	}

	chemistries := make([]string, 0, len(groups))
	for c := range groups {
		chemistries = append(chemistries, c)
	}
	sort.Strings(chemistries)

	var bad []domain.DataIssue
	summaries := make([]ChemistrySummary, 0, len(chemistries))
	for _, c := range chemistries {
		g := groups[c]
		bad = append(bad, g.invalid...)

		summary := ChemistrySummary{Chemistry: c, Count: len(g.values), Invalid: g.invalid}
		switch n := len(g.values); {
		case n == 1:
			summary.Mean = null.FloatFrom(Round3(g.values[0]))
		case n >= 2:
			mean, std := stat.MeanStdDev(g.values, nil)
			summary.Mean = null.FloatFrom(Round3(mean))
			summary.Std = null.FloatFrom(Round3(std))
		}
		summaries = append(summaries, summary)
	}

	if len(bad) > 0 {
		if s.policy == PolicyStrict {
			return nil, errors.NewDataFormatError(bad)
		}
		s.logger.DebugContext(ctx, "skipped non-numeric concentrations",
			slog.Int("count", len(bad)),
			slog.String("well_id", string(bad[0].WellID)))
	}

	return summaries, nil
}

// Round3 rounds v to 3 decimal places, ties to even.
func Round3(v float64) float64 {
	r := math.RoundToEven(v*1000) / 1000
	if r == 0 {
		return 0
	}
	return r
}

type cellState int

const (
	cellMissing cellState = iota
	cellNumber
	cellInvalid
)

func parseConcentration(raw string) (float64, cellState) {
	s := strings.TrimSpace(raw)
	if _, ok := missingTokens[strings.ToLower(s)]; ok {
		return 0, cellMissing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, cellInvalid
	}
	return v, cellNumber
}
