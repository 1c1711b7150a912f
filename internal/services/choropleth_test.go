package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csv-processor/internal/models"
)

func TestRampColor(t *testing.T) {
	assert.Equal(t, "#e52d2d", RampColor(1))
	assert.Equal(t, "#31e52d", RampColor(0))
	assert.Equal(t, "#e52d2d", RampColor(1.5))
}

func TestChoropleth(t *testing.T) {
	table := &models.UnitTable{Units: []*models.Unit{
		{ID: "A", Score: f(50)},
		{ID: "B", Score: f(100)},
		{ID: "C"},
	}}
	c := NewChoropleth(table)

	assert.Equal(t, 0.5, c.Ratio("A"))
	assert.Equal(t, 1.0, c.Ratio("B"))
	assert.Equal(t, 0.0, c.Ratio("C"))
	assert.Equal(t, 0.0, c.Ratio("unknown"))
	assert.Equal(t, "#e52d2d", c.Style("B").FillColor)
	assert.Equal(t, StrokeColor, c.Style("A").Color)
}

func TestChoroplethZeroMax(t *testing.T) {
	c := NewChoropleth(&models.UnitTable{Units: []*models.Unit{{ID: "A", Score: f(0)}}})

	assert.Equal(t, 0.0, c.Ratio("A"))
	assert.Equal(t, "#31e52d", c.Style("A").FillColor)
}

func TestStyledGeoJSON(t *testing.T) {
	features, err := DecodeBoundaries([]byte(testBoundaries))
	require.NoError(t, err)
	c := NewChoropleth(&models.UnitTable{Units: []*models.Unit{{ID: "370500102", Score: f(80)}}})

	body, err := c.StyledGeoJSON(features)
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "#31e52d", doc.Features[0].Properties["fillColor"])
	assert.Equal(t, "#e52d2d", doc.Features[1].Properties["fillColor"])
	assert.Equal(t, 80.0, doc.Features[1].Properties["SPT"])
	assert.Equal(t, "Centre", doc.Features[0].Properties["nom"])
}

func TestRenderSVG(t *testing.T) {
	features, err := DecodeBoundaries([]byte(testBoundaries))
	require.NoError(t, err)
	c := NewChoropleth(&models.UnitTable{Units: []*models.Unit{{ID: "370500101", Score: f(10)}}})

	var buf bytes.Buffer
	require.NoError(t, c.RenderSVG(&buf, features, 400, 300))

	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Equal(t, 2, strings.Count(svg, "<path"))
	assert.Contains(t, svg, `fill="#e52d2d"`)
	assert.True(t, strings.Index(svg, "370500102") < strings.Index(svg, "370500101 "))
}

func TestRenderSVGWithoutFeatures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewChoropleth(nil).RenderSVG(&buf, nil, 400, 300))
	assert.NotContains(t, buf.String(), "<path")
}
