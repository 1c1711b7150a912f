package models

// RankedUnit is one row of the ranked table
type RankedUnit struct {
	Rank          int       `json:"rank"`
	UnitID        string    `json:"code_iris"`
	Score         NullFloat `json:"SPT"`
	Abstention    NullFloat `json:"abstention_2020"`
	Under18       NullFloat `json:"moins18"`
	Renters       NullFloat `json:"locataires"`
	Participation NullFloat `json:"participation_2020"`
}

// NewRankedUnit builds a ranked row from a scored unit
func NewRankedUnit(rank int, u *Unit) RankedUnit {
	return RankedUnit{
		Rank:          rank,
		UnitID:        u.ID,
		Score:         u.Score,
		Abstention:    u.Abstention,
		Under18:       u.Under18,
		Renters:       u.Renters,
		Participation: u.Participation,
	}
}

// KPI is one headline indicator, raw and formatted
type KPI struct {
	Label     string    `json:"label"`
	Value     NullFloat `json:"value"`
	Formatted string    `json:"formatted"`
}

// KPISummary groups the dashboard headline indicators
type KPISummary struct {
	Population    KPI `json:"population"`
	MedianAge     KPI `json:"median_age"`
	MedianIncome  KPI `json:"median_income"`
	Participation KPI `json:"participation"`
}

// UnitsResponse is returned by the ranked table endpoint
type UnitsResponse struct {
	RunID    string       `json:"run_id"`
	Weights  Weights      `json:"weights"`
	Total    int          `json:"total"`
	Units    []RankedUnit `json:"units"`
	Warnings []string     `json:"warnings,omitempty"`
}

// KPIResponse is returned by the KPI endpoint
type KPIResponse struct {
	RunID string     `json:"run_id"`
	KPIs  KPISummary `json:"kpis"`
}

// ExportResponse describes a written export
type ExportResponse struct {
	RunID    string   `json:"run_id"`
	Path     string   `json:"path,omitempty"`
	Count    int      `json:"count"`
	Warnings []string `json:"warnings,omitempty"`
}

// LocateResponse is returned by the point lookup endpoint
type LocateResponse struct {
	Point  Point  `json:"point"`
	Found  bool   `json:"found"`
	UnitID string `json:"code_iris,omitempty"`
	Unit   *Unit  `json:"unit,omitempty"`
}
