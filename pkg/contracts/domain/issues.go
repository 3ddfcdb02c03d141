package domain

import "fmt"

// DataIssue points at one concentration cell that could not be read as a number.
type DataIssue struct {
	Plate     int    `json:"plate"`
	Source    Source `json:"source"`
	WellID    WellID `json:"well_id"`
	Chemistry string `json:"chemistry"`
	Row       int    `json:"row"`
	Value     string `json:"value"`
}

func (d DataIssue) String() string {
	return fmt.Sprintf("plate %d %s row %d (well %s, %s): %q is not a number",
		d.Plate+1, d.Source, d.Row, d.WellID, d.Chemistry, d.Value)
}
