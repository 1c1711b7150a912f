package services

import (
	"strings"

	"golang.org/x/exp/slices"

	"csv-processor/internal/models"
)

// MergeUnits builds the merged unit table. The canonical unit set comes from
// the demographic dataset; income, mobility and then the demographic dataset
// again are outer-joined onto it. Without demographic rows the result is empty.
func MergeUnits(demographics, income, mobility []*models.Unit) *models.UnitTable {
	table := &models.UnitTable{Units: make([]*models.Unit, 0, len(demographics))}
	if len(demographics) == 0 {
		return table
	}

	seen := make(map[string]bool, len(demographics))
	for _, u := range demographics {
		if u.ID == "" || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		table.Units = append(table.Units, &models.Unit{ID: u.ID})
	}

	for _, dataset := range [][]*models.Unit{income, mobility, demographics} {
		if len(dataset) == 0 {
			continue
		}
		table = outerJoin(table, dataset)
	}
	return table
}

// outerJoin returns a new table holding every key of left and right. Fields of
// a key present on both sides are coalesced, left values first, so joining the
// same dataset twice changes nothing and never duplicates a key. Rows are
// ordered by key.
func outerJoin(left *models.UnitTable, right []*models.Unit) *models.UnitTable {
	out := left.Clone()

	index := make(map[string]*models.Unit, len(out.Units)+len(right))
	for _, u := range out.Units {
		if _, exists := index[u.ID]; !exists {
			index[u.ID] = u
		}
	}

	for _, r := range right {
		if r.ID == "" {
			continue
		}
		if existing, ok := index[r.ID]; ok {
			existing.Coalesce(r)
			continue
		}
		added := r.Clone()
		index[r.ID] = added
		out.Units = append(out.Units, added)
	}

	slices.SortStableFunc(out.Units, func(a, b *models.Unit) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
