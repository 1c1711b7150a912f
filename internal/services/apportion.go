package services

import (
	"fmt"
	"math"

	"csv-processor/internal/models"
)

// ApportionTotal is the station electorate attributed to one unit
type ApportionTotal struct {
	UnitID             string  `json:"code_iris"`
	RegisteredWeighted float64 `json:"inscrits_w"`
	VotedWeighted      float64 `json:"votants_w"`
}

// Participation returns the rounded turnout, null when nobody is registered
func (t ApportionTotal) Participation() models.NullFloat {
	if t.RegisteredWeighted == 0 {
		return models.Null()
	}
	return models.Float(round1(100 * t.VotedWeighted / t.RegisteredWeighted))
}

// ApportionTotals spreads station registered and voted counts over units
// with the crosswalk proportions. Null operands are skipped in the sums.
// Totals are returned in order of first appearance in the crosswalk.
func ApportionTotals(links []models.CrosswalkLink, stations []*models.Station) []ApportionTotal {
	byStation := make(map[string]*models.Station, len(stations))
	for _, s := range stations {
		if _, exists := byStation[s.ID]; !exists {
			byStation[s.ID] = s
		}
	}

	totals := make([]ApportionTotal, 0)
	position := make(map[string]int)
	for _, link := range links {
		station, ok := byStation[link.StationID]
		if !ok {
			continue
		}

		i, ok := position[link.UnitID]
		if !ok {
			i = len(totals)
			position[link.UnitID] = i
			totals = append(totals, ApportionTotal{UnitID: link.UnitID})
		}

		if !link.Proportion.Valid {
			continue
		}
		if station.Registered.Valid {
			totals[i].RegisteredWeighted += station.Registered.Float64 * link.Proportion.Float64
		}
		if station.Voted.Valid {
			totals[i].VotedWeighted += station.Voted.Float64 * link.Proportion.Float64
		}
	}
	return totals
}

// Apportion returns a copy of table with the estimated 2020 participation
// and abstention of every unit. Without crosswalk or station results every
// unit gets nulls. Units absent from the apportionment keep nulls.
func Apportion(table *models.UnitTable, links []models.CrosswalkLink, stations []*models.Station) *models.UnitTable {
	out := table.Clone()
	for _, u := range out.Units {
		u.Participation = models.Null()
		u.Abstention = models.Null()
	}
	if len(links) == 0 || len(stations) == 0 {
		return out
	}

	participation := make(map[string]models.NullFloat)
	for _, total := range ApportionTotals(links, stations) {
		participation[total.UnitID] = total.Participation()
	}

	for _, u := range out.Units {
		p, ok := participation[u.ID]
		if !ok || !p.Valid {
			continue
		}
		u.Participation = p
		u.Abstention = models.Float(round1(100 - p.Float64))
	}
	return out
}

// CheckCrosswalk reports the stations whose proportions do not add up to one
func CheckCrosswalk(links []models.CrosswalkLink) []string {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, link := range links {
		if _, exists := sums[link.StationID]; !exists {
			order = append(order, link.StationID)
		}
		sums[link.StationID] += link.Proportion.Or(0)
	}

	var warnings []string
	for _, station := range order {
		if math.Abs(sums[station]-1) > 0.01 {
			warnings = append(warnings, fmt.Sprintf("crosswalk: proportions of station %s sum to %.3f", station, sums[station]))
		}
	}
	return warnings
}

// round1 and round2 round half to even on the scaled value
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
