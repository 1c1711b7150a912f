package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"

	"csv-processor/internal/models"
)

// ComputeKPIs summarizes the merged table for the dashboard header
func ComputeKPIs(table *models.UnitTable) models.KPISummary {
	var population, ages, incomes, participation []float64
	if table != nil {
		for _, u := range table.Units {
			population = appendValid(population, u.Population)
			ages = appendValid(ages, u.MedianAge)
			incomes = appendValid(incomes, u.MedianIncome)
			participation = appendValid(participation, u.Participation)
		}
	}

	// The population total of no rows is zero, not missing
	total := 0.0
	for _, v := range population {
		total += v
	}

	return models.KPISummary{
		Population:    newKPI("Population (somme)", models.Float(total), ""),
		MedianAge:     newKPI("Âge médian (moy.)", mean(ages), " ans"),
		MedianIncome:  newKPI("Revenu médian (méd.)", median(incomes), " €"),
		Participation: newKPI("Participation 2020 (moy.)", mean(participation), " %"),
	}
}

func newKPI(label string, v models.NullFloat, suffix string) models.KPI {
	return models.KPI{Label: label, Value: v, Formatted: FormatKPI(v, suffix)}
}

// FormatKPI renders a KPI: a dash when missing, whole numbers with a space
// as thousands separator, anything else with one decimal.
func FormatKPI(v models.NullFloat, suffix string) string {
	if !v.Valid {
		return "—"
	}
	if v.Float64 == math.Trunc(v.Float64) && math.Abs(v.Float64) < 1e15 {
		return strings.ReplaceAll(humanize.Comma(int64(v.Float64)), ",", " ") + suffix
	}
	return fmt.Sprintf("%.1f%s", v.Float64, suffix)
}

func appendValid(values []float64, v models.NullFloat) []float64 {
	if v.Valid {
		values = append(values, v.Float64)
	}
	return values
}

func mean(values []float64) models.NullFloat {
	if len(values) == 0 {
		return models.Null()
	}
	return models.Float(stat.Mean(values, nil))
}

// median averages the two middle values of an even sample
func median(values []float64) models.NullFloat {
	n := len(values)
	if n == 0 {
		return models.Null()
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return models.Float(stat.Quantile(0.5, stat.Empirical, sorted, nil))
	}
	return models.Float(stat.Mean(sorted[n/2-1:n/2+1], nil))
}
