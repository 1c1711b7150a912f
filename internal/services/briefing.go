package services

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"

	"csv-processor/internal/config"
	"csv-processor/internal/logging"
	"csv-processor/internal/models"
)

// OutreachMessages are printed on every briefing sheet
var OutreachMessages = []string{
	"Mobilités du quotidien (fréquences, sécurité piétons).",
	"Pouvoir d’achat local (commerces, circuits courts).",
	"Apaisement circulation résidentielle.",
}

const briefingSources = "Sources: INSEE, Ministère de l’Intérieur, IGN, Data.gouv — préciser millésimes"

// BriefingReport summarizes a sheet generation run. Failures are warnings:
// they never stop the other sheets.
type BriefingReport struct {
	Generated int
	Paths     []string
	Warnings  []string
}

// BriefingService renders one PDF sheet per unit
type BriefingService struct {
	outputDir string
	prefix    string
	logoPath  string
	logger    *slog.Logger

	// mu serializes generation runs and single sheets
	mu sync.Mutex
}

// NewBriefingService creates a BriefingService. logoPath may point to a
// missing file, in which case sheets have no logo.
func NewBriefingService(outputDir, prefix, logoPath string, logger *slog.Logger) *BriefingService {
	return &BriefingService{
		outputDir: outputDir,
		prefix:    prefix,
		logoPath:  logoPath,
		logger:    logger,
	}
}

// GenerateAll writes a sheet for every unit of the table
func (s *BriefingService) GenerateAll(table *models.UnitTable) BriefingReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report BriefingReport
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("PDF: %v", err))
		return report
	}
	if table == nil {
		return report
	}

	for _, u := range table.Units {
		path, err := s.generate(u)
		if err != nil {
			logging.LogError(s.logger, "briefing sheet failed", err,
				slog.String("code_iris", u.ID),
				slog.String("component", "briefing"))
			report.Warnings = append(report.Warnings, fmt.Sprintf("PDF %s: %v", u.ID, err))
			continue
		}
		report.Generated++
		report.Paths = append(report.Paths, path)
	}

	logging.LogOperation(s.logger, "briefings_generated",
		slog.Int("count", report.Generated),
		slog.Int("failures", len(report.Warnings)),
		slog.String("dir", s.outputDir))
	return report
}

// Generate writes the sheet of one unit and returns its path
func (s *BriefingService) Generate(u *models.Unit) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generate(u)
}

func (s *BriefingService) generate(u *models.Unit) (string, error) {
	code := sheetCode(u.ID)
	path := filepath.Join(s.outputDir, s.prefix+code+".pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	width, _ := pdf.GetPageSize()

	s.drawLogo(pdf, width)

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(20, 25, tr("Fiche IRIS – "+code))
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(20, 35, tr(fmt.Sprintf("Commune : %s (%s)", config.CommuneName, config.CommuneCode)))

	// Metrics
	y := 50.0
	for _, line := range briefingLines(u) {
		pdf.Text(20, y, tr("• "+line))
		y += 8
	}

	// Messages
	y += 4
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, y, tr("Messages suggérés :"))
	y += 8
	pdf.SetFont("Helvetica", "", 11)
	for _, m := range OutreachMessages {
		pdf.Text(20, y, tr(m))
		y += 7
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Text(20, 279, tr(briefingSources))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("error writing %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// drawLogo places the optional logo in the top right corner. A broken logo
// is skipped and the sheet is still produced.
func (s *BriefingService) drawLogo(pdf *fpdf.Fpdf, pageWidth float64) {
	if s.logoPath == "" {
		return
	}
	if _, err := os.Stat(s.logoPath); err != nil {
		return
	}

	opts := fpdf.ImageOptions{ReadDpi: true}
	pdf.RegisterImageOptions(s.logoPath, opts)
	if !pdf.Ok() {
		logging.LogWarning(s.logger, "logo skipped",
			slog.String("path", s.logoPath),
			slog.String("error", pdf.Error().Error()))
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(s.logoPath, pageWidth-60, 15, 0, 15, false, opts, 0, "")
}

// briefingLines are the metric bullets of a sheet
func briefingLines(u *models.Unit) []string {
	return []string{
		fmt.Sprintf("Population (RP): %s | Âge médian: %s", sheetValue(u.Population), sheetValue(u.MedianAge)),
		fmt.Sprintf("Revenu médian: %s € | Locataires: %s%%", sheetValue(u.MedianIncome), sheetValue(u.Renters)),
		fmt.Sprintf("Participation 2020: %s%% | Abstention: %s%%", sheetValue(u.Participation), sheetValue(u.Abstention)),
		fmt.Sprintf("Part -18 (proxy 18–24): %s%% | SPT: %s", sheetValue(u.Under18), sheetValue(u.Score)),
	}
}

func sheetValue(v models.NullFloat) string {
	if !v.Valid {
		return "—"
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

// sheetCode makes a unit id safe for a file name
func sheetCode(id string) string {
	code := strings.TrimSpace(id)
	if code == "" {
		return "NA"
	}
	return strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(code)
}
