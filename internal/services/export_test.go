package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csv-processor/internal/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteShortlist(t *testing.T) {
	units := make([]*models.Unit, 0, 12)
	for i := 0; i < 12; i++ {
		units = append(units, &models.Unit{ID: fmt.Sprintf("U%02d", i), Score: f(float64(i) + 0.5)})
	}
	units[3].Score = f(100)
	dir := filepath.Join(t.TempDir(), "outputs")
	svc := NewExportService(dir, testLogger())

	path, err := svc.WriteShortlist("shortlist_iris.csv", &models.UnitTable{Units: units})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shortlist_iris.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, ShortlistSize+1)
	assert.Equal(t, []string{"code_iris", "SPT"}, rows[0])
	assert.Equal(t, []string{"U03", "100.0"}, rows[1])
	assert.Equal(t, []string{"U11", "11.5"}, rows[2])
	assert.Equal(t, []string{"U02", "2.5"}, rows[10])
}

func TestWriteShortlistEmpty(t *testing.T) {
	svc := NewExportService(t.TempDir(), testLogger())

	path, err := svc.WriteShortlist("shortlist_iris.csv", &models.UnitTable{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"code_iris", "SPT"}}, readCSV(t, path))
}

func TestWriteTable(t *testing.T) {
	svc := NewExportService(t.TempDir(), testLogger())
	table := &models.UnitTable{Units: []*models.Unit{{ID: "A", Population: f(1200), Score: f(12.25)}}}

	path, err := svc.WriteTable("ciblage_iris.csv", table)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "code_iris", rows[0][0])
	assert.Equal(t, "SPT", rows[0][len(rows[0])-1])
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "1200.0", rows[1][1])
	assert.Equal(t, "", rows[1][2])
	assert.Equal(t, "12.25", rows[1][len(rows[1])-1])
}

func TestWriteSnapshot(t *testing.T) {
	svc := NewExportService(t.TempDir(), testLogger())
	result := &Result{
		RunID:    "run-1",
		Weights:  models.DefaultWeights(),
		Table:    &models.UnitTable{Units: []*models.Unit{{ID: "A", Score: f(10)}, {ID: "B", Score: f(20)}}},
		Warnings: []string{"something"},
	}

	path, err := svc.WriteSnapshot(result)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		RunID   string              `json:"run_id"`
		Ranking []models.RankedUnit `json:"ranking"`
		Units   []*models.Unit      `json:"units"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "run-1", doc.RunID)
	require.Len(t, doc.Ranking, 2)
	assert.Equal(t, "B", doc.Ranking[0].UnitID)
	assert.Equal(t, 1, doc.Ranking[0].Rank)
	assert.Len(t, doc.Units, 2)
}

func TestCSVFloat(t *testing.T) {
	assert.Equal(t, "140.0", csvFloat(f(140)))
	assert.Equal(t, "12.35", csvFloat(f(12.35)))
	assert.Equal(t, "-3.0", csvFloat(f(-3)))
	assert.Equal(t, "", csvFloat(models.Null()))
}

func TestWriteShortlistConcurrent(t *testing.T) {
	svc := NewExportService(t.TempDir(), testLogger())
	tables := make([]*models.UnitTable, 8)
	expected := make(map[string]bool, len(tables))
	for i := range tables {
		units := make([]*models.Unit, 0, ShortlistSize)
		want := "code_iris,SPT\n"
		for j := 0; j < ShortlistSize; j++ {
			id := fmt.Sprintf("W%d-U%02d", i, j)
			units = append(units, &models.Unit{ID: id, Score: f(float64(100 - j))})
			want += fmt.Sprintf("%s,%d.0\n", id, 100-j)
		}
		tables[i] = &models.UnitTable{Units: units}
		expected[want] = true
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(tables)*5)
	for round := 0; round < 5; round++ {
		for _, table := range tables {
			wg.Add(1)
			go func(table *models.UnitTable) {
				defer wg.Done()
				_, err := svc.WriteShortlist("shortlist_iris.csv", table)
				errs <- err
			}(table)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(svc.outputDir, "shortlist_iris.csv"))
	require.NoError(t, err)
	assert.True(t, expected[string(data)], "shortlist is a mix of several writes:\n%s", data)
	assert.Len(t, readCSV(t, filepath.Join(svc.outputDir, "shortlist_iris.csv")), ShortlistSize+1)
}
