package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// WellPrefix is the plate-format prefix the instrument puts on every well id.
const WellPrefix = "R24_"

// WellsPerColumn is the number of wells in each plate column.
const WellsPerColumn = 8

// PlateColumns are the plate columns in the order the input form lays them out.
var PlateColumns = []string{"A", "B", "C"}

var wellIDPattern = regexp.MustCompile(`^R24_[ABC]0[1-8]$`)

// WellID identifies one well on a 24-well plate, e.g. "R24_A03".
// Ids are unique within a plate only.
type WellID string

// NewWellID builds the id for a column letter and 1-based row number.
func NewWellID(column string, row int) WellID {
	return WellID(fmt.Sprintf("%s%s%02d", WellPrefix, column, row))
}

// ParseWellID validates s and returns it as a WellID.
func ParseWellID(s string) (WellID, error) {
	s = strings.TrimSpace(s)
	if !wellIDPattern.MatchString(s) {
		return "", fmt.Errorf("invalid well id %q: expected %sA01..%sC08", s, WellPrefix, WellPrefix)
	}
	return WellID(s), nil
}

// Column returns the column letter of the well ("A", "B" or "C").
func (w WellID) Column() string {
	s := strings.TrimPrefix(string(w), WellPrefix)
	if s == "" {
		return ""
	}
	return s[:1]
}

// Short returns the placeholder form used on the input grid, e.g. "A3".
func (w WellID) Short() string {
	s := strings.TrimPrefix(string(w), WellPrefix)
	if len(s) != 3 {
		return s
	}
	return s[:1] + strings.TrimPrefix(s[1:], "0")
}

func (w WellID) String() string {
	return string(w)
}

// PlateWells returns all 24 well ids column by column: A01..A08, B01..B08, C01..C08.
func PlateWells() []WellID {
	wells := make([]WellID, 0, len(PlateColumns)*WellsPerColumn)
	for _, col := range PlateColumns {
		for row := 1; row <= WellsPerColumn; row++ {
			wells = append(wells, NewWellID(col, row))
		}
	}
	return wells
}
