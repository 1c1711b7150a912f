package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"csv-processor/internal/logging"
	"csv-processor/internal/models"
)

// ExportService writes the flat export files. Writes are serialized: a file
// is never written by two requests at once.
type ExportService struct {
	outputDir string
	logger    *slog.Logger

	mu sync.Mutex
}

// NewExportService creates an ExportService writing into outputDir
func NewExportService(outputDir string, logger *slog.Logger) *ExportService {
	return &ExportService{
		outputDir: outputDir,
		logger:    logger,
	}
}

// WriteShortlist writes code_iris and SPT of the ShortlistSize best units
func (s *ExportService) WriteShortlist(filename string, table *models.UnitTable) (string, error) {
	rows := [][]string{{models.ColUnitID, models.ColScore}}
	for _, u := range TopN(table, ShortlistSize) {
		rows = append(rows, []string{u.ID, csvFloat(u.Score)})
	}
	return s.writeCSV(filename, rows)
}

// WriteTable writes every column of the table, in table order
func (s *ExportService) WriteTable(filename string, table *models.UnitTable) (string, error) {
	fields := models.UnitFields()
	header := make([]string, 0, len(fields)+1)
	header = append(header, models.ColUnitID)
	for _, f := range fields {
		header = append(header, f.Column)
	}

	rows := [][]string{header}
	if table != nil {
		for _, u := range table.Units {
			row := make([]string, 0, len(header))
			row = append(row, u.ID)
			for _, f := range fields {
				row = append(row, csvFloat(*f.Ref(u)))
			}
			rows = append(rows, row)
		}
	}
	return s.writeCSV(filename, rows)
}

// snapshot is the JSON document written by WriteSnapshot
type snapshot struct {
	RunID       string              `json:"run_id"`
	GeneratedAt string              `json:"generated_at"`
	Weights     models.Weights      `json:"weights"`
	KPIs        models.KPISummary   `json:"kpis"`
	Ranking     []models.RankedUnit `json:"ranking"`
	Units       []*models.Unit      `json:"units"`
	Apportioned []ApportionTotal    `json:"apportionment,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// WriteSnapshot writes the whole pass result to a timestamped JSON file
func (s *ExportService) WriteSnapshot(result *Result) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(s.outputDir, fmt.Sprintf("ciblage_%s.json", timestamp))

	doc := snapshot{
		RunID:       result.RunID,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Weights:     result.Weights,
		KPIs:        result.KPIs,
		Units:       result.Table.Units,
		Apportioned: result.Totals,
		Warnings:    result.Warnings,
	}
	for i, u := range result.Ranked() {
		doc.Ranking = append(doc.Ranking, models.NewRankedUnit(i+1, u))
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating snapshot file: %w", err)
	}
	defer logging.SafeCloseWithLogging(file, s.logger, "write_snapshot")

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return "", fmt.Errorf("error writing snapshot: %w", err)
	}

	logging.LogOperation(s.logger, "snapshot_written", slog.String("path", path))
	return path, nil
}

func (s *ExportService) writeCSV(filename string, rows [][]string) (path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	path = filepath.Join(s.outputDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", filename, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing %s: %w", filename, cerr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return "", fmt.Errorf("error writing %s: %w", filename, err)
	}

	logging.LogOperation(s.logger, "export_written",
		slog.String("path", path),
		slog.Int("rows", len(rows)-1))
	return path, nil
}

// csvFloat formats numbers the way spreadsheet exports of float columns do:
// always with a decimal part, empty when null.
func csvFloat(v models.NullFloat) string {
	if !v.Valid {
		return ""
	}
	s := strconv.FormatFloat(v.Float64, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
