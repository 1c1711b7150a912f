package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"csv-processor/internal/config"
	"csv-processor/internal/logging"
	"csv-processor/internal/models"
)

// Result is the outcome of one computation pass
type Result struct {
	RunID    string
	Weights  models.Weights
	Table    *models.UnitTable
	KPIs     models.KPISummary
	Totals   []ApportionTotal
	Warnings []string
	Duration time.Duration
}

// Ranked returns the scored units in ranking order
func (r *Result) Ranked() []*models.Unit {
	return Rank(r.Table)
}

// Top returns the n best ranked units
func (r *Result) Top(n int) []*models.Unit {
	return TopN(r.Table, n)
}

// Pipeline rebuilds the scored unit table from the raw files. Nothing is
// cached between passes.
type Pipeline struct {
	loader *Loader
	files  config.DataFiles
	logger *slog.Logger
}

// NewPipeline creates a Pipeline reading the configured files through loader
func NewPipeline(loader *Loader, files config.DataFiles, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		loader: loader,
		files:  files,
		logger: logger,
	}
}

// Run loads, merges, apportions and scores. The only error is a dataset
// that cannot be parsed at all.
func (p *Pipeline) Run(ctx context.Context, w models.Weights) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With(slog.String("run_id", runID))

	var warnings []string

	demographics, warn, err := p.loader.LoadUnits(p.files.Demographics, models.DemographicColumns)
	if err != nil {
		return nil, p.fail(logger, err)
	}
	warnings = append(warnings, warn...)

	income, warn, err := p.loader.LoadUnits(p.files.Income, models.IncomeColumns)
	if err != nil {
		return nil, p.fail(logger, err)
	}
	warnings = append(warnings, warn...)

	mobility, warn, err := p.loader.LoadUnits(p.files.Mobility, models.MobilityColumns)
	if err != nil {
		return nil, p.fail(logger, err)
	}
	warnings = append(warnings, warn...)

	links, err := p.loader.LoadCrosswalk(p.files.Crosswalk)
	if err != nil {
		return nil, p.fail(logger, err)
	}
	warnings = append(warnings, CheckCrosswalk(links)...)

	stations, warn, err := p.loader.LoadStations(p.files.Stations)
	if err != nil {
		return nil, p.fail(logger, err)
	}
	warnings = append(warnings, warn...)

	merged := MergeUnits(demographics, income, mobility)
	apportioned := Apportion(merged, links, stations)
	scored := Score(apportioned, w)

	var totals []ApportionTotal
	if len(links) > 0 && len(stations) > 0 {
		totals = ApportionTotals(links, stations)
	}

	result := &Result{
		RunID:    runID,
		Weights:  w,
		Table:    scored,
		KPIs:     ComputeKPIs(scored),
		Totals:   totals,
		Warnings: warnings,
		Duration: time.Since(start),
	}

	logging.LogOperation(logger, "pass_complete",
		slog.Int("units", scored.Len()),
		slog.Int("stations", len(stations)),
		slog.Int("crosswalk_rows", len(links)),
		slog.Int("warnings", len(warnings)),
		slog.Duration("duration", result.Duration),
		slog.String("component", "pipeline"))
	return result, nil
}

func (p *Pipeline) fail(logger *slog.Logger, err error) error {
	logging.LogError(logger, "pass failed", err, slog.String("component", "pipeline"))
	return err
}
