package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"csv-processor/internal/config"
	"csv-processor/internal/logging"
	"csv-processor/internal/models"
	"csv-processor/internal/services"
)

func main() {
	wAbstention := flag.Float64("w-abstention", 1.0, "Weight of the 2020 abstention rate (0-3)")
	wUnder18 := flag.Float64("w-under18", 1.0, "Weight of the share of residents under 18 (0-3)")
	wRenters := flag.Float64("w-renters", 1.0, "Weight of the share of renters (0-3)")
	wParticipation := flag.Float64("w-participation", 1.0, "Weight of non-participation, 100 - participation (0-3)")
	top := flag.Int("top", services.ShortlistSize, "Number of ranked units to print")
	shortlist := flag.Bool("shortlist", false, "Write the shortlist CSV to the output directory")
	export := flag.Bool("export", false, "Write the full scored table CSV to the output directory")
	jsonOut := flag.Bool("json", false, "Write a JSON snapshot of the pass to the output directory")
	pdf := flag.Bool("pdf", false, "Generate one briefing sheet per unit")
	mapOut := flag.Bool("map", false, "Write the choropleth as GeoJSON and SVG")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	weights := models.Weights{
		Abstention:       *wAbstention,
		Under18:          *wUnder18,
		Renters:          *wRenters,
		NonParticipation: *wParticipation,
	}
	if err := weights.Validate(); err != nil {
		exitWith(err.Error())
	}
	if *top < 0 {
		exitWith("top must be >= 0")
	}

	logger := logging.NewStructuredLogger(os.Stderr, logging.ParseLevel(*logLevel))
	files := config.GetDataFiles()

	pipeline := services.NewPipeline(services.NewLoader(config.DataDir, logger), files, logger)
	result, err := pipeline.Run(context.Background(), weights)
	if err != nil {
		exitWith(err.Error())
	}

	printKPIs(result.KPIs)
	printRanking(result, *top)

	exports := services.NewExportService(config.OutputDir, logger)
	if *shortlist {
		path, err := exports.WriteShortlist(files.Shortlist, result.Table)
		if err != nil {
			exitWith(err.Error())
		}
		fmt.Printf("\nShortlist written to %s\n", path)
	}
	if *export {
		path, err := exports.WriteTable(files.FullExport, result.Table)
		if err != nil {
			exitWith(err.Error())
		}
		fmt.Printf("\nTable written to %s\n", path)
	}
	if *jsonOut {
		path, err := exports.WriteSnapshot(result)
		if err != nil {
			exitWith(err.Error())
		}
		fmt.Printf("\nJSON written to %s\n", path)
	}
	if *pdf {
		briefings := services.NewBriefingService(config.OutputDir, files.BriefingPrefix, config.GetAssetFilePath(files.Logo), logger)
		report := briefings.GenerateAll(result.Table)
		fmt.Printf("\n%d briefing sheets written to %s\n", report.Generated, config.OutputDir)
		result.Warnings = append(result.Warnings, report.Warnings...)
	}
	if *mapOut {
		if err := writeMap(result, files, logger); err != nil {
			if errors.Is(err, services.ErrNoBoundaries) {
				fmt.Printf("\nAjoutez un GeoJSON (iris_%s.geojson) dans data/ pour afficher la carte.\n", config.CommuneCode)
			} else {
				fmt.Printf("\nCarte indisponible: %v\n", err)
			}
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Printf("- %s\n", w)
		}
	}
}

func exitWith(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	os.Exit(1)
}

func printKPIs(k models.KPISummary) {
	fmt.Printf("%s, IRIS targeting\n", config.CommuneName)
	for _, kpi := range []models.KPI{k.Population, k.MedianAge, k.MedianIncome, k.Participation} {
		fmt.Printf("  %-28s %s\n", kpi.Label, kpi.Formatted)
	}
}

func printRanking(result *services.Result, n int) {
	ranked := result.Top(n)
	fmt.Printf("\nTop %d of %d units\n", len(ranked), result.Table.Len())
	fmt.Printf("  %-4s %-12s %8s %10s %8s %10s %13s\n", "#", "code_iris", "SPT", "abstention", "moins18", "locataires", "participation")
	for i, u := range ranked {
		fmt.Printf("  %-4d %-12s %8s %10s %8s %10s %13s\n",
			i+1, u.ID, cell(u.Score), cell(u.Abstention), cell(u.Under18), cell(u.Renters), cell(u.Participation))
	}
}

func cell(v models.NullFloat) string {
	if !v.Valid {
		return "—"
	}
	return fmt.Sprintf("%.2f", v.Float64)
}

// writeMap writes the styled boundaries and their SVG rendering
func writeMap(result *services.Result, files config.DataFiles, logger *slog.Logger) error {
	features, err := services.NewBoundaryService(config.DataDir, files.Boundaries, logger).Load()
	if err != nil {
		return err
	}
	choropleth := services.NewChoropleth(result.Table)

	body, err := choropleth.StyledGeoJSON(features)
	if err != nil {
		return err
	}
	var svg bytes.Buffer
	if err := choropleth.RenderSVG(&svg, features, 960, 600); err != nil {
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	for name, data := range map[string][]byte{files.MapGeoJSON: body, files.MapSVG: svg.Bytes()} {
		path := filepath.Join(config.OutputDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("error writing %s: %w", path, err)
		}
		fmt.Printf("\nMap written to %s\n", path)
	}
	return nil
}
