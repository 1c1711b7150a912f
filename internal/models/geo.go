package models

import (
	geom2 "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom"
)

// Point represents a geographical point with latitude and longitude
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToGeomPoint converts our Point to a go-geom Point
func (p Point) ToGeomPoint() *geom.Point {
	return geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{p.Lng, p.Lat})
}

// BoundaryFeature is the outline of one IRIS unit
type BoundaryFeature struct {
	UnitID     string
	Properties map[string]interface{}
	// Geometry is the decoded GeoJSON geometry used for drawing
	Geometry geom.T
	// Shape is the same geometry prepared for spatial predicates
	Shape geom2.Geometry
}

// SpatialIndex answers point-in-unit queries over boundary features
type SpatialIndex struct {
	features []*BoundaryFeature
	bounds   *geom.Bounds
}

// NewSpatialIndex creates a new spatial index from a list of features
func NewSpatialIndex(features []*BoundaryFeature) *SpatialIndex {
	bounds := geom.NewBounds(geom.XY)
	for _, f := range features {
		if f.Geometry != nil {
			bounds.Extend(f.Geometry)
		}
	}
	return &SpatialIndex{
		features: features,
		bounds:   bounds,
	}
}

// Bounds returns the extent of all indexed features
func (s *SpatialIndex) Bounds() *geom.Bounds {
	return s.bounds
}

// Query returns the first feature whose shape contains the point
func (s *SpatialIndex) Query(p Point) (*BoundaryFeature, bool) {
	if len(s.features) == 0 || s.bounds.IsEmpty() {
		return nil, false
	}
	if !s.bounds.OverlapsPoint(geom.XY, geom.Coord{p.Lng, p.Lat}) {
		return nil, false
	}

	point := geom2.XY{X: p.Lng, Y: p.Lat}.AsPoint().AsGeometry()
	for _, f := range s.features {
		if f.Shape.IsEmpty() {
			continue
		}
		contains, err := geom2.Contains(f.Shape, point)
		if err != nil {
			continue
		}
		if contains {
			return f, true
		}
	}
	return nil, false
}
