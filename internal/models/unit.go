package models

// Unit is one IRIS sub-unit of the merged table
type Unit struct {
	ID string `json:"code_iris"`

	// Demographics (INSEE RP)
	Population   NullFloat `json:"pop"`
	MedianAge    NullFloat `json:"age_median"`
	Under18      NullFloat `json:"moins18"`
	Over65       NullFloat `json:"plus65"`
	Households   NullFloat `json:"menages"`
	Renters      NullFloat `json:"locataires"`
	Owners       NullFloat `json:"proprietaires"`
	Graduates    NullFloat `json:"diplome_bacplus"`
	Unemployment NullFloat `json:"chomage"`
	Workers      NullFloat `json:"pcs_ouvriers"`
	Executives   NullFloat `json:"pcs_cadres"`

	// Income (Filosofi)
	MedianIncome    NullFloat `json:"revenu_median"`
	LowIncomeShare  NullFloat `json:"part_bas_revenus"`
	HighIncomeShare NullFloat `json:"part_haut_revenus"`

	// Mobility
	CommuteTime  NullFloat `json:"temps_travail_moy"`
	CarShare     NullFloat `json:"part_voiture"`
	TransitShare NullFloat `json:"part_tc"`
	BikeShare    NullFloat `json:"part_velo"`
	WalkShare    NullFloat `json:"part_marche"`

	// Derived
	Participation NullFloat `json:"participation_2020"`
	Abstention    NullFloat `json:"abstention_2020"`
	Score         NullFloat `json:"SPT"`
}

// UnitField binds a CSV column to a Unit field
type UnitField struct {
	Column string
	Ref    func(u *Unit) *NullFloat
}

var unitFields = []UnitField{
	{"pop", func(u *Unit) *NullFloat { return &u.Population }},
	{"age_median", func(u *Unit) *NullFloat { return &u.MedianAge }},
	{"moins18", func(u *Unit) *NullFloat { return &u.Under18 }},
	{"plus65", func(u *Unit) *NullFloat { return &u.Over65 }},
	{"menages", func(u *Unit) *NullFloat { return &u.Households }},
	{"locataires", func(u *Unit) *NullFloat { return &u.Renters }},
	{"proprietaires", func(u *Unit) *NullFloat { return &u.Owners }},
	{"diplome_bacplus", func(u *Unit) *NullFloat { return &u.Graduates }},
	{"chomage", func(u *Unit) *NullFloat { return &u.Unemployment }},
	{"pcs_ouvriers", func(u *Unit) *NullFloat { return &u.Workers }},
	{"pcs_cadres", func(u *Unit) *NullFloat { return &u.Executives }},
	{"revenu_median", func(u *Unit) *NullFloat { return &u.MedianIncome }},
	{"part_bas_revenus", func(u *Unit) *NullFloat { return &u.LowIncomeShare }},
	{"part_haut_revenus", func(u *Unit) *NullFloat { return &u.HighIncomeShare }},
	{"temps_travail_moy", func(u *Unit) *NullFloat { return &u.CommuteTime }},
	{"part_voiture", func(u *Unit) *NullFloat { return &u.CarShare }},
	{"part_tc", func(u *Unit) *NullFloat { return &u.TransitShare }},
	{"part_velo", func(u *Unit) *NullFloat { return &u.BikeShare }},
	{"part_marche", func(u *Unit) *NullFloat { return &u.WalkShare }},
	{ColParticipation, func(u *Unit) *NullFloat { return &u.Participation }},
	{ColAbstention, func(u *Unit) *NullFloat { return &u.Abstention }},
	{ColScore, func(u *Unit) *NullFloat { return &u.Score }},
}

// UnitFields returns every numeric field of a Unit in export order
func UnitFields() []UnitField {
	out := make([]UnitField, len(unitFields))
	copy(out, unitFields)
	return out
}

// UnitFieldByColumn looks up the field bound to a CSV column
func UnitFieldByColumn(column string) (UnitField, bool) {
	for _, f := range unitFields {
		if f.Column == column {
			return f, true
		}
	}
	return UnitField{}, false
}

// Clone returns a copy of the unit
func (u *Unit) Clone() *Unit {
	c := *u
	return &c
}

// Coalesce fills the null fields of u with the values of other.
func (u *Unit) Coalesce(other *Unit) {
	for _, f := range unitFields {
		dst := f.Ref(u)
		if !dst.Valid {
			*dst = *f.Ref(other)
		}
	}
}

// UnitTable is the ordered merged table. Row order is significant: it breaks
// ties when ranking.
type UnitTable struct {
	Units []*Unit
}

// Len returns the number of units
func (t *UnitTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Units)
}

// Clone deep-copies the table so that stages never share rows
func (t *UnitTable) Clone() *UnitTable {
	out := &UnitTable{Units: make([]*Unit, 0, t.Len())}
	if t == nil {
		return out
	}
	for _, u := range t.Units {
		out.Units = append(out.Units, u.Clone())
	}
	return out
}

// Find returns the unit with the given id
func (t *UnitTable) Find(id string) (*Unit, bool) {
	if t == nil {
		return nil, false
	}
	for _, u := range t.Units {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// IDs returns the unit ids in table order
func (t *UnitTable) IDs() []string {
	ids := make([]string, 0, t.Len())
	if t == nil {
		return ids
	}
	for _, u := range t.Units {
		ids = append(ids, u.ID)
	}
	return ids
}
