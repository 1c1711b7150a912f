package services

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csv-processor/internal/models"
)

func TestBriefingGenerateAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	svc := NewBriefingService(dir, "fiche_", filepath.Join(dir, "missing.png"), testLogger())
	table := &models.UnitTable{Units: []*models.Unit{
		{ID: "370500101", Population: f(1200), Participation: f(61.2), Abstention: f(38.8), Score: f(140)},
		{ID: "370500102"},
	}}

	report := svc.GenerateAll(table)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 2, report.Generated)
	require.Len(t, report.Paths, 2)
	assert.Equal(t, filepath.Join(dir, "fiche_370500101.pdf"), report.Paths[0])

	for _, path := range report.Paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	}
}

func TestBriefingBrokenLogo(t *testing.T) {
	dir := t.TempDir()
	logo := writeFile(t, dir, "logo.png", "not an image")
	svc := NewBriefingService(dir, "fiche_", logo, testLogger())

	path, err := svc.Generate(&models.Unit{ID: "370500101"})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestBriefingUnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := writeFile(t, dir, "blocker", "")
	svc := NewBriefingService(filepath.Join(blocker, "outputs"), "fiche_", "", testLogger())

	report := svc.GenerateAll(&models.UnitTable{Units: []*models.Unit{unit("A")}})
	assert.Equal(t, 0, report.Generated)
	assert.NotEmpty(t, report.Warnings)
}

func TestBriefingLines(t *testing.T) {
	u := &models.Unit{ID: "X", Population: f(1200), Renters: f(40.5), Score: f(140)}

	lines := briefingLines(u)
	require.Len(t, lines, 4)
	assert.Equal(t, "Population (RP): 1200 | Âge médian: —", lines[0])
	assert.Contains(t, lines[1], "Locataires: 40.5%")
	assert.Contains(t, lines[3], "SPT: 140")
}

func TestSheetCode(t *testing.T) {
	assert.Equal(t, "370500101", sheetCode(" 370500101 "))
	assert.Equal(t, "NA", sheetCode(""))
	assert.Equal(t, "a_b", sheetCode("a/b"))
}

func TestBriefingGenerateAllConcurrent(t *testing.T) {
	dir := t.TempDir()
	svc := NewBriefingService(dir, "fiche_", "", testLogger())
	table := &models.UnitTable{Units: []*models.Unit{
		{ID: "370500101", Population: f(1200), Score: f(140)},
		{ID: "370500102", Population: f(800), Score: f(80)},
	}}

	var wg sync.WaitGroup
	reports := make([]BriefingReport, 4)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i] = svc.GenerateAll(table)
		}(i)
	}
	wg.Wait()

	for _, report := range reports {
		assert.Empty(t, report.Warnings)
		assert.Equal(t, 2, report.Generated)
	}
	for _, u := range table.Units {
		data, err := os.ReadFile(filepath.Join(dir, "fiche_"+u.ID+".pdf"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
		assert.Equal(t, 1, strings.Count(string(data), "%PDF-"))
		assert.True(t, strings.HasSuffix(strings.TrimSpace(string(data)), "%%EOF"))
	}
}
