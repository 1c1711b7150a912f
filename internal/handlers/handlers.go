package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"csv-processor/internal/config"
	"csv-processor/internal/models"
	"csv-processor/internal/services"
)

// Default size of the SVG map
const (
	defaultMapWidth  = 960
	defaultMapHeight = 600
)

// DashboardHandler serves the ranked table, the exports and the map. Every
// request runs a fresh pipeline pass.
type DashboardHandler struct {
	pipeline   *services.Pipeline
	exports    *services.ExportService
	briefings  *services.BriefingService
	boundaries *services.BoundaryService
	files      config.DataFiles
	logger     *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(
	pipeline *services.Pipeline,
	exports *services.ExportService,
	briefings *services.BriefingService,
	boundaries *services.BoundaryService,
	files config.DataFiles,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		pipeline:   pipeline,
		exports:    exports,
		briefings:  briefings,
		boundaries: boundaries,
		files:      files,
		logger:     logger,
	}
}

// Routes registers the dashboard endpoints and wraps them with logging and
// compression
func (h *DashboardHandler) Routes() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/healthz", h.HandleHealth)
	router.HandlerFunc(http.MethodGet, "/api/units", h.HandleUnits)
	router.HandlerFunc(http.MethodGet, "/api/top", h.HandleTop)
	router.HandlerFunc(http.MethodGet, "/api/kpis", h.HandleKPIs)
	router.HandlerFunc(http.MethodPost, "/api/exports/shortlist", h.HandleShortlistExport)
	router.HandlerFunc(http.MethodPost, "/api/exports/briefings", h.HandleBriefings)
	router.HandlerFunc(http.MethodGet, "/api/map.geojson", h.HandleMapGeoJSON)
	router.HandlerFunc(http.MethodGet, "/api/map.svg", h.HandleMapSVG)
	router.HandlerFunc(http.MethodGet, "/api/locate", h.HandleLocate)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.sendMessage(w, http.StatusNotFound, "resource not found")
	})

	return NewRequestLoggingMiddleware(h.logger)(CompressionMiddleware(router))
}

// HandleHealth reports liveness
func (h *DashboardHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleUnits returns the ranked scored table
func (h *DashboardHandler) HandleUnits(w http.ResponseWriter, r *http.Request) {
	fieldErrors := make(map[string][]string)
	weights := parseWeights(r, fieldErrors)
	limit := parseInt(r, "limit", -1, fieldErrors)
	if limit < -1 {
		fieldErrors["limit"] = append(fieldErrors["limit"], "must be positive")
	}
	if len(fieldErrors) > 0 {
		h.validationErrorResponse(w, fieldErrors)
		return
	}

	result, ok := h.run(w, r, weights)
	if !ok {
		return
	}
	h.sendJSON(w, http.StatusOK, rankedResponse(result, limit))
}

// HandleTop returns the shortlist
func (h *DashboardHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	fieldErrors := make(map[string][]string)
	weights := parseWeights(r, fieldErrors)
	if len(fieldErrors) > 0 {
		h.validationErrorResponse(w, fieldErrors)
		return
	}

	result, ok := h.run(w, r, weights)
	if !ok {
		return
	}
	h.sendJSON(w, http.StatusOK, rankedResponse(result, services.ShortlistSize))
}

// HandleKPIs returns the headline indicators
func (h *DashboardHandler) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r, models.DefaultWeights())
	if !ok {
		return
	}
	h.sendJSON(w, http.StatusOK, models.KPIResponse{RunID: result.RunID, KPIs: result.KPIs})
}

// HandleShortlistExport writes the shortlist CSV
func (h *DashboardHandler) HandleShortlistExport(w http.ResponseWriter, r *http.Request) {
	fieldErrors := make(map[string][]string)
	weights := parseWeights(r, fieldErrors)
	if len(fieldErrors) > 0 {
		h.validationErrorResponse(w, fieldErrors)
		return
	}

	result, ok := h.run(w, r, weights)
	if !ok {
		return
	}
	path, err := h.exports.WriteShortlist(h.files.Shortlist, result.Table)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.sendJSON(w, http.StatusOK, models.ExportResponse{
		RunID: result.RunID,
		Path:  path,
		Count: len(result.Top(services.ShortlistSize)),
	})
}

// HandleBriefings writes one PDF sheet per unit. Sheet failures are
// reported as warnings, the request still succeeds.
func (h *DashboardHandler) HandleBriefings(w http.ResponseWriter, r *http.Request) {
	fieldErrors := make(map[string][]string)
	weights := parseWeights(r, fieldErrors)
	if len(fieldErrors) > 0 {
		h.validationErrorResponse(w, fieldErrors)
		return
	}

	result, ok := h.run(w, r, weights)
	if !ok {
		return
	}
	report := h.briefings.GenerateAll(result.Table)
	h.sendJSON(w, http.StatusOK, models.ExportResponse{
		RunID:    result.RunID,
		Count:    report.Generated,
		Warnings: report.Warnings,
	})
}

// HandleMapGeoJSON returns the boundaries styled by score
func (h *DashboardHandler) HandleMapGeoJSON(w http.ResponseWriter, r *http.Request) {
	choropleth, features, ok := h.mapData(w, r)
	if !ok {
		return
	}
	body, err := choropleth.StyledGeoJSON(features)
	if err != nil {
		h.sendMessage(w, http.StatusUnprocessableEntity, fmt.Sprintf("Carte indisponible: %v", err))
		return
	}
	h.sendBody(w, r, "application/geo+json", body)
}

// HandleMapSVG renders the choropleth as SVG
func (h *DashboardHandler) HandleMapSVG(w http.ResponseWriter, r *http.Request) {
	fieldErrors := make(map[string][]string)
	width := parseInt(r, "width", defaultMapWidth, fieldErrors)
	height := parseInt(r, "height", defaultMapHeight, fieldErrors)
	if width <= 0 || height <= 0 {
		fieldErrors["size"] = append(fieldErrors["size"], "width and height must be positive")
	}
	if len(fieldErrors) > 0 {
		h.validationErrorResponse(w, fieldErrors)
		return
	}

	choropleth, features, ok := h.mapData(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := choropleth.RenderSVG(&buf, features, width, height); err != nil {
		h.sendMessage(w, http.StatusUnprocessableEntity, fmt.Sprintf("Carte indisponible: %v", err))
		return
	}
	h.sendBody(w, r, "image/svg+xml", buf.Bytes())
}

// HandleLocate returns the unit containing a point
func (h *DashboardHandler) HandleLocate(w http.ResponseWriter, r *http.Request) {
	fieldErrors := make(map[string][]string)
	lat := parseFloat(r, "lat", fieldErrors)
	lng := parseFloat(r, "lng", fieldErrors)
	weights := parseWeights(r, fieldErrors)
	if len(fieldErrors) > 0 {
		h.validationErrorResponse(w, fieldErrors)
		return
	}

	index, err := h.boundaries.Index()
	if errors.Is(err, services.ErrNoBoundaries) {
		h.sendMessage(w, http.StatusNotFound, noBoundaryMessage(h.files))
		return
	}
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	point := models.Point{Lat: lat, Lng: lng}
	response := models.LocateResponse{Point: point}
	if feature, found := index.Query(point); found {
		response.Found = true
		response.UnitID = feature.UnitID

		result, ok := h.run(w, r, weights)
		if !ok {
			return
		}
		if unit, exists := result.Table.Find(feature.UnitID); exists {
			response.Unit = unit
		}
	}
	h.sendJSON(w, http.StatusOK, response)
}

// run executes one pipeline pass and answers 500 when it fails
func (h *DashboardHandler) run(w http.ResponseWriter, r *http.Request, weights models.Weights) (*services.Result, bool) {
	result, err := h.pipeline.Run(r.Context(), weights)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return nil, false
	}
	return result, true
}

// mapData runs a pass and loads the boundaries shared by the map endpoints
func (h *DashboardHandler) mapData(w http.ResponseWriter, r *http.Request) (*services.Choropleth, []*models.BoundaryFeature, bool) {
	fieldErrors := make(map[string][]string)
	weights := parseWeights(r, fieldErrors)
	if len(fieldErrors) > 0 {
		h.validationErrorResponse(w, fieldErrors)
		return nil, nil, false
	}

	result, ok := h.run(w, r, weights)
	if !ok {
		return nil, nil, false
	}

	features, err := h.boundaries.Load()
	if errors.Is(err, services.ErrNoBoundaries) {
		h.sendMessage(w, http.StatusNotFound, noBoundaryMessage(h.files))
		return nil, nil, false
	}
	if err != nil {
		h.sendMessage(w, http.StatusUnprocessableEntity, fmt.Sprintf("Carte indisponible: %v", err))
		return nil, nil, false
	}
	return services.NewChoropleth(result.Table), features, true
}

func noBoundaryMessage(files config.DataFiles) string {
	name := "iris_" + config.CommuneCode + ".geojson"
	if len(files.Boundaries) > 0 {
		name = files.Boundaries[0]
	}
	return fmt.Sprintf("Ajoutez un GeoJSON (%s) dans data/ pour afficher la carte.", name)
}

func rankedResponse(result *services.Result, limit int) models.UnitsResponse {
	ranked := result.Ranked()
	response := models.UnitsResponse{
		RunID:    result.RunID,
		Weights:  result.Weights,
		Total:    len(ranked),
		Units:    make([]models.RankedUnit, 0, len(ranked)),
		Warnings: result.Warnings,
	}
	for i, u := range ranked {
		if limit >= 0 && i >= limit {
			break
		}
		response.Units = append(response.Units, models.NewRankedUnit(i+1, u))
	}
	return response
}

// parseWeights reads the four weights, 1.0 when absent
func parseWeights(r *http.Request, fieldErrors map[string][]string) models.Weights {
	w := models.DefaultWeights()
	targets := map[string]*float64{
		models.WeightAbstention:    &w.Abstention,
		models.WeightUnder18:       &w.Under18,
		models.WeightRenters:       &w.Renters,
		models.WeightParticipation: &w.NonParticipation,
	}
	query := r.URL.Query()
	for name, target := range targets {
		raw := strings.TrimSpace(query.Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fieldErrors[name] = append(fieldErrors[name], "must be a number")
			continue
		}
		*target = v
	}
	for name, msgs := range w.FieldErrors() {
		if _, exists := fieldErrors[name]; !exists {
			fieldErrors[name] = msgs
		}
	}
	return w
}

func parseInt(r *http.Request, name string, def int, fieldErrors map[string][]string) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fieldErrors[name] = append(fieldErrors[name], "must be an integer")
		return def
	}
	return v
}

func parseFloat(r *http.Request, name string, fieldErrors map[string][]string) float64 {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		fieldErrors[name] = append(fieldErrors[name], "is required")
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fieldErrors[name] = append(fieldErrors[name], "must be a number")
		return 0
	}
	return v
}
