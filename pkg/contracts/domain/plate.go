package domain

// WellAssignment maps one well to the sample label the technician typed for it.
type WellAssignment struct {
	WellID WellID `json:"well_id"`
	Label  string `json:"label"`
}

// PlateEntry is everything collected for one plate in a single request.
// ActiveWells keeps the order the wells were entered; only wells with a
// non-empty label are present. Bio and ISE are nil when nothing was uploaded.
type PlateEntry struct {
	Index       int              `json:"index"`
	SampleName  string           `json:"sample_name"`
	ActiveWells []WellAssignment `json:"active_wells"`
	Bio         *RawTable        `json:"-"`
	ISE         *RawTable        `json:"-"`
}

// HasBio reports whether a Bioanalysis table was supplied.
func (p PlateEntry) HasBio() bool {
	return p.Bio != nil
}

// ActiveWellSet returns the active well ids as a membership set.
func (p PlateEntry) ActiveWellSet() map[WellID]struct{} {
	set := make(map[WellID]struct{}, len(p.ActiveWells))
	for _, w := range p.ActiveWells {
		set[w.WellID] = struct{}{}
	}
	return set
}

// DisplayNumber is the 1-based plate number shown to users.
func (p PlateEntry) DisplayNumber() int {
	return p.Index + 1
}

// Source names the instrument export a table came from.
type Source string

const (
	SourceBioanalysis Source = "bioanalysis"
	SourceISE         Source = "ise"
)
