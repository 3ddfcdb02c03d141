package plates

import (
	"fmt"

	"ysianalyzer/pkg/contracts/domain"
)

// Form field names.
const (
	FieldPlateCount = "plate_count"
	FieldPolicy     = "concentration_policy"
)

// SampleNameField is the form field holding a plate's sample name.
func SampleNameField(plate int) string {
	return fmt.Sprintf("plate-%d-sample_name", plate)
}

// WellField is the form field holding the label of one well of a plate.
func WellField(plate int, well domain.WellID) string {
	return fmt.Sprintf("plate-%d-%s", plate, well)
}

// BioFileField is the form field of a plate's Bioanalysis upload.
func BioFileField(plate int) string {
	return fmt.Sprintf("plate-%d-bioanalysis", plate)
}

// ISEFileField is the form field of a plate's ISE upload.
func ISEFileField(plate int) string {
	return fmt.Sprintf("plate-%d-ise", plate)
}

// PlateForm is the text part of the analysis form, validated before any
// upload is read.
type PlateForm struct {
	PlateCount int           `form:"plate_count" validate:"gte=0,lte=100"`
	Plates     []PlateFields `form:"plates" validate:"dive"`
}

// PlateFields holds one plate's sample name and well labels keyed by well id.
type PlateFields struct {
	Index      int               `form:"index"`
	SampleName string            `form:"sample_name" validate:"max=200"`
	Wells      map[string]string `form:"wells" validate:"dive,keys,wellid,endkeys,max=100"`
}

// Layout describes the well grid of one plate as the form presents it.
type Layout struct {
	Prefix         string     `json:"prefix"`
	Columns        []string   `json:"columns"`
	WellsPerColumn int        `json:"wells_per_column"`
	Wells          []WellSlot `json:"wells"`
	MaxPlates      int        `json:"max_plates"`
}

// WellSlot is one input of the grid.
type WellSlot struct {
	ID          domain.WellID `json:"id"`
	Column      string        `json:"column"`
	Placeholder string        `json:"placeholder"`
}

// PlateLayout returns the grid in form order: column A wells 1-8, then B,
// then C.
func PlateLayout(maxPlates int) Layout {
	wells := domain.PlateWells()
	slots := make([]WellSlot, len(wells))
	for i, w := range wells {
		slots[i] = WellSlot{ID: w, Column: w.Column(), Placeholder: w.Short()}
	}
	return Layout{
		Prefix:         domain.WellPrefix,
		Columns:        domain.PlateColumns,
		WellsPerColumn: domain.WellsPerColumn,
		Wells:          slots,
		MaxPlates:      maxPlates,
	}
}
