package services

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Constants for ring complexity thresholds
const (
	// Maximum number of points before simplification is considered
	maxPoints = 700
	// Minimum number of points to consider for simplification
	minPoints = 400
	// Base percentage of bounding box diagonal for epsilon
	baseEpsilonPercent = 0.1
)

// ringArea calculates the area of a ring using the shoelace formula
func ringArea(points []geom.Coord) float64 {
	area := 0.0
	j := len(points) - 1
	for i := 0; i < len(points); i++ {
		area += (points[j].X() + points[i].X()) * (points[j].Y() - points[i].Y())
		j = i
	}
	return math.Abs(area) / 2
}

// boundingBoxDiagonal calculates the diagonal length of the ring's bounding box
func boundingBoxDiagonal(points []geom.Coord) float64 {
	if len(points) == 0 {
		return 0
	}

	minX, minY := points[0].X(), points[0].Y()
	maxX, maxY := minX, minY
	for _, p := range points {
		minX = math.Min(minX, p.X())
		maxX = math.Max(maxX, p.X())
		minY = math.Min(minY, p.Y())
		maxY = math.Max(maxY, p.Y())
	}

	dx := maxX - minX
	dy := maxY - minY
	return math.Sqrt(dx*dx + dy*dy)
}

// ringComplexity determines if a ring needs simplification and returns an
// appropriate epsilon value
func ringComplexity(points []geom.Coord) (bool, float64) {
	numPoints := len(points)
	if numPoints < minPoints {
		return false, 0
	}

	area := ringArea(points)
	needsSimplification := numPoints > maxPoints
	if area > 0 && float64(numPoints)/area > maxPoints {
		needsSimplification = true
	}
	if !needsSimplification {
		return false, 0
	}

	diagonal := boundingBoxDiagonal(points)
	baseEpsilon := diagonal * baseEpsilonPercent / 100.0

	// More points = larger epsilon, capped at 1% of the diagonal
	epsilon := baseEpsilon * math.Pow(float64(numPoints)/float64(minPoints), 0.55)
	if maxEpsilon := diagonal * 0.01; epsilon > maxEpsilon {
		epsilon = maxEpsilon
	}
	return true, epsilon
}

// perpendicularDistance calculates the distance from a point to a segment's line
func perpendicularDistance(point, lineStart, lineEnd geom.Coord) float64 {
	if lineStart.X() == lineEnd.X() && lineStart.Y() == lineEnd.Y() {
		return math.Hypot(point.X()-lineStart.X(), point.Y()-lineStart.Y())
	}

	area := math.Abs((lineEnd.Y()-lineStart.Y())*point.X() - (lineEnd.X()-lineStart.X())*point.Y() +
		lineEnd.X()*lineStart.Y() - lineEnd.Y()*lineStart.X())
	lineLength := math.Hypot(lineEnd.X()-lineStart.X(), lineEnd.Y()-lineStart.Y())
	return area / lineLength
}

// simplifyLine applies the Ramer-Douglas-Peucker algorithm
func simplifyLine(points []geom.Coord, epsilon float64) []geom.Coord {
	if len(points) <= 2 {
		return points
	}

	maxDistance := 0.0
	maxIndex := 0
	for i := 1; i < len(points)-1; i++ {
		distance := perpendicularDistance(points[i], points[0], points[len(points)-1])
		if distance > maxDistance {
			maxDistance = distance
			maxIndex = i
		}
	}

	if maxDistance > epsilon {
		firstLine := simplifyLine(points[:maxIndex+1], epsilon)
		secondLine := simplifyLine(points[maxIndex:], epsilon)

		out := make([]geom.Coord, 0, len(firstLine)+len(secondLine)-1)
		out = append(out, firstLine[:len(firstLine)-1]...)
		return append(out, secondLine...)
	}

	return []geom.Coord{points[0], points[len(points)-1]}
}

// simplifyRing simplifies a dense ring and leaves light ones untouched
func simplifyRing(points []geom.Coord) []geom.Coord {
	needsSimplification, epsilon := ringComplexity(points)
	if !needsSimplification {
		return points
	}
	simplified := simplifyLine(points, epsilon)
	if len(simplified) < 4 {
		return points
	}
	return simplified
}
