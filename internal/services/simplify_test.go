package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func circle(n int) []geom.Coord {
	ring := make([]geom.Coord, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		ring = append(ring, geom.Coord{0.74 + 0.01*math.Cos(a), 47.33 + 0.01*math.Sin(a)})
	}
	return append(ring, ring[0])
}

func TestRingArea(t *testing.T) {
	square := []geom.Coord{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}
	assert.InDelta(t, 4.0, ringArea(square), 1e-12)
	assert.InDelta(t, math.Sqrt(8), boundingBoxDiagonal(square), 1e-12)
}

func TestPerpendicularDistance(t *testing.T) {
	assert.InDelta(t, 1.0, perpendicularDistance(geom.Coord{1, 1}, geom.Coord{0, 0}, geom.Coord{2, 0}), 1e-12)
	assert.InDelta(t, 5.0, perpendicularDistance(geom.Coord{3, 4}, geom.Coord{0, 0}, geom.Coord{0, 0}), 1e-12)
}

func TestSimplifyLine(t *testing.T) {
	line := []geom.Coord{{0, 0}, {1, 0.001}, {2, 0}, {3, 5}, {4, 0}}

	simplified := simplifyLine(line, 0.1)
	assert.Equal(t, []geom.Coord{{0, 0}, {2, 0}, {3, 5}, {4, 0}}, simplified)
}

func TestSimplifyRing(t *testing.T) {
	light := circle(50)
	assert.Equal(t, light, simplifyRing(light))

	dense := circle(2000)
	simplified := simplifyRing(dense)
	assert.Less(t, len(simplified), len(dense))
	assert.GreaterOrEqual(t, len(simplified), 4)
	assert.Equal(t, simplified[0], simplified[len(simplified)-1])
}
