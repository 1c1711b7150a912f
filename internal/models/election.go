package models

// ListResult is the vote count of one list in a station
type ListResult struct {
	List  string    `json:"list"`
	Votes NullFloat `json:"votes"`
}

// Station holds the 2020 municipal results of one voting station (BV)
type Station struct {
	ID         string       `json:"code_bv"`
	Registered NullFloat    `json:"inscrits"`
	Voted      NullFloat    `json:"votants"`
	Blank      NullFloat    `json:"blancs"`
	Null       NullFloat    `json:"nuls"`
	Cast       NullFloat    `json:"exprimes"`
	Lists      []ListResult `json:"lists"`
}

// CrosswalkLink attributes a share of a station's electorate to a unit
type CrosswalkLink struct {
	StationID  string    `json:"code_bv"`
	UnitID     string    `json:"code_iris"`
	Proportion NullFloat `json:"proportion"`
}
