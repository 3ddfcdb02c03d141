package exporter

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// FormatConcentration renders a summary statistic with three decimals, or
// an empty string when it is null.
func FormatConcentration(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', 3, 64)
}

// cellValue converts a raw text cell to the value written to the workbook:
// finite numbers become numeric cells, blanks are left empty and everything
// else stays text.
func cellValue(s string) interface{} {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	return f
}
