package dataprocessing

import (
	"context"
	stderrors "errors"
	"log/slog"

	"ysianalyzer/internal/errors"
	"ysianalyzer/pkg/contracts/domain"
)

// AggregateResult is the outcome of one analysis run.
type AggregateResult struct {
	Combined *domain.CombinedTable
	// Skipped lists plates left out because they had no Bioanalysis upload.
	Skipped []*errors.InputIncompleteError
	// Issues lists cells skipped under the lenient policy.
	Issues []domain.DataIssue
	// WellsSummarized counts (plate, well, source) selections that produced
	// at least one summary row.
	WellsSummarized int
}

// Aggregator runs the selector and summarizer over every plate and active
// well and stacks the results into one combined table.
type Aggregator struct {
	logger     *slog.Logger
	summarizer *Summarizer
}

// NewAggregator creates an aggregator around summarizer.
func NewAggregator(logger *slog.Logger, summarizer *Summarizer) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if summarizer == nil {
		summarizer = NewSummarizer(logger, SummarizerConfig{})
	}
	return &Aggregator{
		logger:     logger.With(slog.String("component", "aggregator")),
		summarizer: summarizer,
	}
}

// Aggregate summarizes plates in order. For each plate with a Bioanalysis
// table, each active well contributes its Bioanalysis summary followed by
// its ISE summary; the two are never merged. Plates without Bioanalysis are
// skipped and listed in the result. An empty combined table is not an error.
//
// Under the strict policy every plate is still visited so the returned
// *errors.DataFormatError lists all offending cells at once.
func (a *Aggregator) Aggregate(ctx context.Context, plates []domain.PlateEntry) (*AggregateResult, error) {
	result := &AggregateResult{Combined: &domain.CombinedTable{}}
	var formatIssues []domain.DataIssue

	for _, plate := range plates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !plate.HasBio() {
			skip := errors.NewInputIncompleteError(plate.Index)
			result.Skipped = append(result.Skipped, skip)
			a.logger.WarnContext(ctx, "plate skipped",
				slog.Int("plate", plate.DisplayNumber()),
				slog.String("reason", skip.Error()))
			continue
		}

		for _, well := range plate.ActiveWells {
			sources := []struct {
				source domain.Source
				table  *domain.RawTable
			}{
				{domain.SourceBioanalysis, plate.Bio},
				{domain.SourceISE, plate.ISE},
			}
			for _, src := range sources {
				if src.table == nil {
					continue
				}
				base := domain.DataIssue{Plate: plate.Index, Source: src.source}
				summaries, err := a.summarizer.summarize(ctx, SelectWell(src.table, well.WellID), base)
				if err != nil {
					var formatErr *errors.DataFormatError
					if stderrors.As(err, &formatErr) {
						formatIssues = append(formatIssues, formatErr.Issues...)
						continue
					}
					return nil, err
				}
				if len(summaries) > 0 {
					result.WellsSummarized++
				}
				for _, s := range summaries {
					result.Issues = append(result.Issues, s.Invalid...)
					result.Combined.Append(domain.SummaryBlock{
						Chemistry:         s.Chemistry,
						MeanConcentration: s.Mean,
						StdConcentration:  s.Std,
						Experiment:        plate.SampleName,
						Well:              well.Label,
						WellID:            well.WellID,
						Plate:             plate.Index,
						Source:            src.source,
					})
				}
			}
		}
	}

	if len(formatIssues) > 0 {
		a.logger.WarnContext(ctx, "non-numeric concentrations rejected",
			slog.Int("count", len(formatIssues)))
		return nil, errors.NewDataFormatError(formatIssues)
	}

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Int("plates", len(plates)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("rows", result.Combined.Len()),
		slog.Int("issues", len(result.Issues)))

	return result, nil
}
