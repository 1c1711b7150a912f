package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/exp/slices"

	"csv-processor/internal/models"
)

// Map styling shared by every feature
const (
	StrokeColor = "#333"
	StrokeWidth = 1
	FillOpacity = 0.6
)

// DefaultCenter is used when no boundary gives a better map centre
var DefaultCenter = models.Point{Lat: 47.33, Lng: 0.74}

// Style is the rendering style of one map feature
type Style struct {
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// RampColor maps a score ratio to the green (low) to red (high) ramp
func RampColor(ratio float64) string {
	hue := math.Max(0, 0.33*(1-ratio))
	hue = math.Mod(hue, 1)
	c := colorful.Hsv(hue*360, 0.8, 0.9)
	return fmt.Sprintf("#%02x%02x%02x", int(c.R*255), int(c.G*255), int(c.B*255))
}

// Choropleth colours units by score relative to the highest score
type Choropleth struct {
	scores map[string]float64
	max    float64
}

// NewChoropleth builds the colour scale of a scored table
func NewChoropleth(table *models.UnitTable) *Choropleth {
	c := &Choropleth{scores: make(map[string]float64), max: 1.0}
	if table == nil {
		return c
	}

	first := true
	for _, u := range table.Units {
		if u.ID == "" {
			continue
		}
		v := u.Score.Or(0)
		c.scores[u.ID] = v
		if first || v > c.max {
			c.max = v
			first = false
		}
	}
	return c
}

// Score returns the score drawn for a unit, 0 when unscored
func (c *Choropleth) Score(unitID string) float64 {
	return c.scores[unitID]
}

// Ratio normalizes a unit score against the maximum
func (c *Choropleth) Ratio(unitID string) float64 {
	if c.max == 0 {
		return 0
	}
	return c.scores[unitID] / c.max
}

// Style returns the rendering style of a unit
func (c *Choropleth) Style(unitID string) Style {
	return Style{
		FillColor:   RampColor(c.Ratio(unitID)),
		Color:       StrokeColor,
		Weight:      StrokeWidth,
		FillOpacity: FillOpacity,
	}
}

// StyledGeoJSON returns the boundaries as a FeatureCollection whose
// properties carry the score and the style of each unit
func (c *Choropleth) StyledGeoJSON(features []*models.BoundaryFeature) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(features))}
	for _, f := range features {
		props := make(map[string]interface{}, len(f.Properties)+6)
		for k, v := range f.Properties {
			props[k] = v
		}
		style := c.Style(f.UnitID)
		props[models.ColScore] = c.Score(f.UnitID)
		props["fillColor"] = style.FillColor
		props["color"] = style.Color
		props["weight"] = style.Weight
		props["fillOpacity"] = style.FillOpacity

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   f.Geometry,
			Properties: props,
		})
	}
	return json.Marshal(&fc)
}

// MapCenter returns the centre of the boundaries' extent
func MapCenter(index *models.SpatialIndex) models.Point {
	if index == nil || index.Bounds().IsEmpty() {
		return DefaultCenter
	}
	b := index.Bounds()
	return models.Point{
		Lat: (b.Min(1) + b.Max(1)) / 2,
		Lng: (b.Min(0) + b.Max(0)) / 2,
	}
}

// projection maps lon/lat to SVG pixels (equirectangular)
type projection struct {
	minX, maxY float64
	scaleX     float64
	scaleY     float64
	pad        float64
}

func newProjection(b *geom.Bounds, width, height, pad float64) projection {
	spanX := b.Max(0) - b.Min(0)
	spanY := b.Max(1) - b.Min(1)
	kx := math.Cos((b.Min(1) + b.Max(1)) / 2 * math.Pi / 180)
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	scale := math.Min((width-2*pad)/(spanX*kx), (height-2*pad)/spanY)
	return projection{
		minX:   b.Min(0),
		maxY:   b.Max(1),
		scaleX: scale * kx,
		scaleY: scale,
		pad:    pad,
	}
}

func (p projection) apply(c geom.Coord) (float64, float64) {
	return p.pad + (c.X()-p.minX)*p.scaleX, p.pad + (p.maxY-c.Y())*p.scaleY
}

// RenderSVG draws the choropleth as a static SVG document. Large units are
// drawn first so that small ones stay visible.
func (c *Choropleth) RenderSVG(w io.Writer, features []*models.BoundaryFeature, width, height int) error {
	index := models.NewSpatialIndex(features)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")

	if !index.Bounds().IsEmpty() {
		proj := newProjection(index.Bounds(), float64(width), float64(height), 10)

		ordered := make([]*models.BoundaryFeature, len(features))
		copy(ordered, features)
		slices.SortStableFunc(ordered, func(a, b *models.BoundaryFeature) int {
			aa, ba := a.Shape.Area(), b.Shape.Area()
			switch {
			case aa > ba:
				return -1
			case aa < ba:
				return 1
			}
			return 0
		})

		for _, f := range ordered {
			d := svgPath(f.Geometry, proj)
			if d == "" {
				continue
			}
			style := c.Style(f.UnitID)
			fmt.Fprintf(bw, `<path d="%s" fill="%s" fill-opacity="%.1f" stroke="%s" stroke-width="%d" fill-rule="evenodd"><title>%s – SPT %.2f</title></path>`+"\n",
				d, style.FillColor, style.FillOpacity, style.Color, style.Weight,
				html.EscapeString(f.UnitID), c.Score(f.UnitID))
		}
	}

	fmt.Fprintln(bw, `</svg>`)
	return bw.Flush()
}

// svgPath converts polygon rings to SVG path data
func svgPath(g geom.T, proj projection) string {
	var polygons []*geom.Polygon
	switch t := g.(type) {
	case *geom.Polygon:
		polygons = append(polygons, t)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			polygons = append(polygons, t.Polygon(i))
		}
	default:
		return ""
	}

	var d []byte
	for _, p := range polygons {
		for i := 0; i < p.NumLinearRings(); i++ {
			ring := simplifyRing(p.LinearRing(i).Coords())
			for j, c := range ring {
				x, y := proj.apply(c)
				cmd := "L"
				if j == 0 {
					cmd = "M"
				}
				d = fmt.Appendf(d, "%s%.1f %.1f ", cmd, x, y)
			}
			if len(ring) > 0 {
				d = append(d, 'Z')
			}
		}
	}
	return string(d)
}
