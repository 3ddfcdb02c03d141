package domain

import (
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"
)

// SummaryBlock is one chemistry's statistics for one well of one plate.
// Std is null for groups with fewer than two numeric values; Mean is null
// only when the group had no numeric value at all.
type SummaryBlock struct {
	Chemistry         string     `json:"chemistry"`
	MeanConcentration null.Float `json:"mean_concentration"`
	StdConcentration  null.Float `json:"std_concentration"`
	Experiment        string     `json:"experiment"`
	Well              string     `json:"well"`
	WellID            WellID     `json:"well_id"`
	Plate             int        `json:"plate"`
	Source            Source     `json:"source"`
}

// CombinedTable is every summary block of a run, in plate order, then well
// entry order, then Bioanalysis before ISE.
type CombinedTable struct {
	Blocks []SummaryBlock `json:"blocks"`
}

// Len returns the number of summary rows.
func (c *CombinedTable) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Blocks)
}

// IsEmpty reports whether no well produced any data.
func (c *CombinedTable) IsEmpty() bool {
	return c.Len() == 0
}

// Append adds blocks at the end of the table.
func (c *CombinedTable) Append(blocks ...SummaryBlock) {
	c.Blocks = append(c.Blocks, blocks...)
}

// Chemistries returns the distinct chemistries in the order they first appear.
func (c *CombinedTable) Chemistries() []string {
	if c == nil {
		return nil
	}
	return lo.Uniq(lo.Map(c.Blocks, func(b SummaryBlock, _ int) string {
		return b.Chemistry
	}))
}

// ByChemistry returns the blocks for one chemistry, keeping table order.
func (c *CombinedTable) ByChemistry(chemistry string) []SummaryBlock {
	if c == nil {
		return nil
	}
	return lo.Filter(c.Blocks, func(b SummaryBlock, _ int) bool {
		return b.Chemistry == chemistry
	})
}

// Column headers used wherever the combined table is shown or downloaded.
const (
	HeaderChemistry  = "Chemistry"
	HeaderMean       = "Mean Concentration (g/L)"
	HeaderStd        = "std (g/L)"
	HeaderExperiment = "Experiment"
	HeaderWell       = "Well"
	HeaderSource     = "Source"
)
