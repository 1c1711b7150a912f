package services

import (
	"golang.org/x/exp/slices"

	"csv-processor/internal/models"
)

// Values substituted for missing score inputs. A unit without apportioned
// results is assumed to have average turnout, not zero turnout.
const (
	DefaultAbstention    = 0.0
	DefaultUnder18       = 0.0
	DefaultRenters       = 0.0
	DefaultParticipation = 50.0
)

// ShortlistSize is the number of units of the shortlist export
const ShortlistSize = 10

// ScoreUnit computes the field-priority score (SPT) of a unit
func ScoreUnit(u *models.Unit, w models.Weights) models.NullFloat {
	abstention := u.Abstention.Or(DefaultAbstention)
	under18 := u.Under18.Or(DefaultUnder18)
	renters := u.Renters.Or(DefaultRenters)
	participation := u.Participation.Or(DefaultParticipation)

	score := w.Abstention*abstention +
		w.Under18*under18 +
		w.Renters*renters +
		w.NonParticipation*(100.0-participation)
	return models.Float(round2(score))
}

// Score returns a copy of table with the SPT of every unit. Weights are not
// bounded here; negative weights give negative scores.
func Score(table *models.UnitTable, w models.Weights) *models.UnitTable {
	out := table.Clone()
	for _, u := range out.Units {
		u.Score = ScoreUnit(u, w)
	}
	return out
}

// Rank orders the units by descending score. The sort is stable: ties keep
// the merged table order. Units without a score come last.
func Rank(table *models.UnitTable) []*models.Unit {
	ranked := make([]*models.Unit, 0, table.Len())
	if table != nil {
		ranked = append(ranked, table.Units...)
	}
	slices.SortStableFunc(ranked, func(a, b *models.Unit) int {
		switch {
		case a.Score.Valid && !b.Score.Valid:
			return -1
		case !a.Score.Valid && b.Score.Valid:
			return 1
		case !a.Score.Valid && !b.Score.Valid:
			return 0
		case a.Score.Float64 > b.Score.Float64:
			return -1
		case a.Score.Float64 < b.Score.Float64:
			return 1
		}
		return 0
	})
	return ranked
}

// TopN returns the n best ranked units
func TopN(table *models.UnitTable, n int) []*models.Unit {
	ranked := Rank(table)
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
