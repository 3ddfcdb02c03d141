package exporter

import (
	"github.com/samber/lo"

	"ysianalyzer/pkg/contracts/domain"
)

// BuildSheets collects, for each chemistry of the combined table in
// first-seen order, the raw rows of every plate whose Well Id is one of the
// plate's active wells and whose Chemistry matches. Rows keep their source
// order: Bioanalysis of plate 0, ISE of plate 0, Bioanalysis of plate 1 and
// so on. A chemistry with no matching raw rows gets no sheet.
//
// Sheet headers are the union of the contributing tables' headers in
// first-seen order. Header names within a table are unique, so a repeated
// column of the upload arrives renamed ("Note", "Note.1") and keeps its
// values. A row from a table without one of the union's columns leaves that
// cell blank.
func BuildSheets(plates []domain.PlateEntry, combined *domain.CombinedTable) []domain.ExportSheet {
	namer := newSheetNamer()
	var sheets []domain.ExportSheet

	for _, chemistry := range combined.Chemistries() {
		var parts []*domain.RawTable
		for _, plate := range plates {
			active := plate.ActiveWellSet()
			for _, table := range []*domain.RawTable{plate.Bio, plate.ISE} {
				if table == nil {
					continue
				}
				matched := matchRows(table, active, chemistry)
				if matched.Len() > 0 {
					parts = append(parts, matched)
				}
			}
		}
		if len(parts) == 0 {
			continue
		}

		headers := lo.Uniq(lo.FlatMap(parts, func(t *domain.RawTable, _ int) []string {
			return t.Headers()
		}))
		var rows [][]string
		for _, part := range parts {
			rows = append(rows, part.Project(headers...).Rows()...)
		}

		sheets = append(sheets, domain.ExportSheet{
			Name:      namer.Name(chemistry),
			Chemistry: chemistry,
			Headers:   headers,
			Rows:      rows,
		})
	}
	return sheets
}

func matchRows(table *domain.RawTable, active map[domain.WellID]struct{}, chemistry string) *domain.RawTable {
	return table.FilterFunc(func(i int) bool {
		if table.Value(i, domain.ColumnChemistry) != chemistry {
			return false
		}
		_, ok := active[domain.WellID(table.Value(i, domain.ColumnWellID))]
		return ok
	})
}
