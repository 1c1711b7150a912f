package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	geom2 "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"csv-processor/internal/logging"
	"csv-processor/internal/models"
)

// ErrNoBoundaries is returned when none of the boundary files exists
var ErrNoBoundaries = errors.New("no boundary file")

// unitIDProperties are the feature properties holding the IRIS code
var unitIDProperties = []string{"code_iris", "CODE_IRIS"}

// BoundaryService loads the IRIS outlines used by the map
type BoundaryService struct {
	dataDir    string
	candidates []string
	logger     *slog.Logger
}

// NewBoundaryService creates a BoundaryService trying candidates in order
func NewBoundaryService(dataDir string, candidates []string, logger *slog.Logger) *BoundaryService {
	return &BoundaryService{
		dataDir:    dataDir,
		candidates: candidates,
		logger:     logger,
	}
}

// Load reads the first existing boundary file
func (s *BoundaryService) Load() ([]*models.BoundaryFeature, error) {
	for _, name := range s.candidates {
		path := filepath.Join(s.dataDir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", name, err)
		}

		features, err := DecodeBoundaries(data)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", name, err)
		}
		logging.LogOperation(s.logger, "boundaries_loaded",
			slog.String("file", name),
			slog.Int("features", len(features)),
			slog.String("component", "map"))
		return features, nil
	}
	return nil, ErrNoBoundaries
}

// Index loads the boundaries into a spatial index
func (s *BoundaryService) Index() (*models.SpatialIndex, error) {
	features, err := s.Load()
	if err != nil {
		return nil, err
	}
	return models.NewSpatialIndex(features), nil
}

// DecodeBoundaries parses a GeoJSON FeatureCollection of IRIS outlines
func DecodeBoundaries(data []byte) ([]*models.BoundaryFeature, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}

	features := make([]*models.BoundaryFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		feature := &models.BoundaryFeature{
			UnitID:     featureUnitID(f.Properties),
			Properties: f.Properties,
			Geometry:   f.Geometry,
		}
		if feature.Properties == nil {
			feature.Properties = make(map[string]interface{})
		}
		if f.Geometry != nil {
			if encoded, err := geojson.Marshal(f.Geometry); err == nil {
				if shape, err := geom2.UnmarshalGeoJSON(encoded); err == nil {
					feature.Shape = shape
				}
			}
		}
		features = append(features, feature)
	}
	return features, nil
}

// featureUnitID reads the IRIS code of a feature, empty when absent
func featureUnitID(props map[string]interface{}) string {
	for _, key := range unitIDProperties {
		v, ok := props[key]
		if !ok || v == nil {
			continue
		}
		switch id := v.(type) {
		case string:
			if id != "" {
				return id
			}
		case float64:
			return strconv.FormatFloat(id, 'f', -1, 64)
		default:
			return fmt.Sprint(id)
		}
	}
	return ""
}
