package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"csv-processor/internal/models"
)

func TestComputeKPIs(t *testing.T) {
	table := &models.UnitTable{Units: []*models.Unit{
		{ID: "A", Population: f(1200), MedianAge: f(40), MedianIncome: f(20000), Participation: f(50)},
		{ID: "B", Population: f(800), MedianAge: f(35), MedianIncome: f(24000)},
		{ID: "C", MedianIncome: f(30000), Participation: f(61)},
	}}

	kpis := ComputeKPIs(table)
	assert.Equal(t, f(2000), kpis.Population.Value)
	assert.Equal(t, "2 000", kpis.Population.Formatted)
	assert.Equal(t, f(37.5), kpis.MedianAge.Value)
	assert.Equal(t, "37.5 ans", kpis.MedianAge.Formatted)
	assert.Equal(t, f(24000), kpis.MedianIncome.Value)
	assert.Equal(t, "24 000 €", kpis.MedianIncome.Formatted)
	assert.Equal(t, f(55.5), kpis.Participation.Value)
	assert.Equal(t, "55.5 %", kpis.Participation.Formatted)
}

func TestComputeKPIsEmpty(t *testing.T) {
	kpis := ComputeKPIs(&models.UnitTable{})

	assert.Equal(t, f(0), kpis.Population.Value)
	assert.Equal(t, "0", kpis.Population.Formatted)
	assert.Equal(t, "—", kpis.MedianAge.Formatted)
	assert.Equal(t, "—", kpis.MedianIncome.Formatted)
	assert.Equal(t, "—", kpis.Participation.Formatted)
}

func TestMedian(t *testing.T) {
	assert.False(t, median(nil).Valid)
	assert.Equal(t, f(3), median([]float64{5, 1, 3}))
	assert.Equal(t, f(2.5), median([]float64{4, 1, 3, 2}))
}

func TestFormatKPI(t *testing.T) {
	assert.Equal(t, "1 234 567", FormatKPI(f(1234567), ""))
	assert.Equal(t, "12.3 %", FormatKPI(f(12.34), " %"))
	assert.Equal(t, "—", FormatKPI(models.Null(), " ans"))
}
