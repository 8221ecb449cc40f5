package continent

import (
	"math"

	"github.com/twpayne/go-geos"

	"github.com/sells-group/landgrid/internal/spatial"
)

// Fallback is returned when no candidate region is at a finite distance.
const Fallback = ASNorth

// Classifier assigns a continent code to grid cells.
type Classifier struct {
	regions *Regions
}

// NewClassifier returns a Classifier over regions.
func NewClassifier(regions *Regions) *Classifier {
	return &Classifier{regions: regions}
}

// Classify returns the code for cell, measuring distances from point.
// Rules, in order:
//   - cell does not intersect Russia: nearest of all nine regions
//   - cell intersects Russia but is not contained by it: nearest non-Russian
//     region among EU, AS_N and ME
//   - cell is contained by Russia: AS_N
func (c *Classifier) Classify(cell, point *geos.Geom) Code {
	russia := c.regions.Russia()
	if spatial.IsEmpty(russia) || !cell.Intersects(russia) {
		return Nearest(point, Codes, c.regions.Region)
	}
	if !russia.Contains(cell) {
		return Nearest(point, nonRussianCodes, c.regions.NonRussian)
	}
	return ASNorth
}

// Nearest returns the code in order whose region is closest to point. Ties go
// to the earlier code; Fallback is returned when every region is empty.
func Nearest(point *geos.Geom, order []Code, region func(Code) *geos.Geom) Code {
	best := Fallback
	minDist := math.Inf(1)
	for _, code := range order {
		if d := spatial.Distance(point, region(code)); d < minDist {
			minDist = d
			best = code
		}
	}
	return best
}
