// Package dataprocessing turns instrument exports into per-well chemistry
// statistics.
//
// # Pipeline
//
//	upload -> LoadRawTable -> SelectWell -> Summarizer.Summarize -> Aggregator.Aggregate
//
// LoadRawTable decodes an ISO-8859-1 delimited file into a domain.RawTable and
// checks it carries the Chemistry, Concentration and Well Id columns.
// SelectWell picks the rows of one well. The Summarizer groups them by
// chemistry and computes mean and sample standard deviation, rounded half to
// even at three decimals. The Aggregator walks every plate and active well,
// stacking the Bioanalysis summary and then the ISE summary of each well
// into a domain.CombinedTable.
//
// # Concentration policy
//
// Blank cells (and the usual NA spellings) are missing values and never
// count. Any other non-numeric cell is handled by the ConcentrationPolicy:
// PolicyStrict fails the run with an *errors.DataFormatError that lists every
// offending cell, PolicyLenient skips the cell and reports it as a
// domain.DataIssue next to the result.
//
// # Usage
//
//	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{
//	    Policy: dataprocessing.PolicyLenient,
//	})
//	agg := dataprocessing.NewAggregator(logger, summarizer)
//	result, err := agg.Aggregate(ctx, plates)
package dataprocessing
