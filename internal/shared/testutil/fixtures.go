package testutil

import (
	"strings"
	"testing"

	"ysianalyzer/pkg/contracts/domain"
)

// InstrumentHeaders is the column layout of a typical YSI export.
var InstrumentHeaders = []string{"Plate", "Well Id", "Chemistry", "Concentration", "Units"}

// Row builds one instrument row in InstrumentHeaders order.
func Row(well, chemistry, concentration string) []string {
	return []string{"P1", well, chemistry, concentration, "g/L"}
}

// BioTable builds a Bioanalysis table from rows built with Row.
func BioTable(t *testing.T, rows ...[]string) *domain.RawTable {
	t.Helper()
	return domain.NewRawTable(InstrumentHeaders, rows)
}

// ISETable builds an ISE table. ISE exports carry an extra Electrode column.
func ISETable(t *testing.T, rows ...[]string) *domain.RawTable {
	t.Helper()
	headers := append(append([]string{}, InstrumentHeaders...), "Electrode")
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, append(append([]string{}, r...), "ISE-1"))
	}
	return domain.NewRawTable(headers, out)
}

// CSV renders a table as comma-separated text, header first.
func CSV(headers []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteString("\n")
	}
	return b.String()
}

// Plate builds a plate entry with wells given as alternating id, label pairs.
func Plate(index int, sample string, bio, ise *domain.RawTable, wellLabels ...string) domain.PlateEntry {
	p := domain.PlateEntry{Index: index, SampleName: sample, Bio: bio, ISE: ise}
	for i := 0; i+1 < len(wellLabels); i += 2 {
		p.ActiveWells = append(p.ActiveWells, domain.WellAssignment{
			WellID: domain.WellID(wellLabels[i]),
			Label:  wellLabels[i+1],
		})
	}
	return p
}
