package dataprocessing

import "ysianalyzer/pkg/contracts/domain"

// SelectWell returns the rows of table whose Well Id equals well exactly,
// projected to Chemistry, Concentration and Well Id. No match, or a nil
// table, gives an empty table.
func SelectWell(table *domain.RawTable, well domain.WellID) *domain.RawTable {
	return table.Filter(domain.ColumnWellID, string(well)).Project(domain.RequiredColumns...)
}
