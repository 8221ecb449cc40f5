// Package land finds representative points for grid cells that are
// guaranteed to sit on land.
package land

import (
	"github.com/twpayne/go-geos"
	"github.com/umahmood/haversine"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/boundary"
	"github.com/sells-group/landgrid/internal/spatial"
)

// Mass is the union of every country polygon.
type Mass struct {
	geom *geos.Geom
}

// NewMass dissolves all country geometries into one land mass.
func NewMass(countries []boundary.Country) *Mass {
	geoms := make([]*geos.Geom, 0, len(countries))
	for _, c := range countries {
		g, err := spatial.ToGEOS(c.Geometry)
		if err != nil {
			zap.L().Warn("land: skipping unreadable country geometry",
				zap.String("admin", c.Admin),
				zap.Error(err),
			)
			continue
		}
		geoms = append(geoms, g)
	}
	return &Mass{geom: spatial.Dissolve(geoms)}
}

// Geom returns the land mass geometry, nil when no country was loaded.
func (m *Mass) Geom() *geos.Geom {
	return m.geom
}

// Contains reports whether p lies strictly inside the land mass.
func (m *Mass) Contains(p *geos.Geom) bool {
	return !spatial.IsEmpty(m.geom) && m.geom.Contains(p)
}

// Centerpoint is a cell's representative point on land.
type Centerpoint struct {
	Longitude float64
	Latitude  float64

	// Snapped is true when the cell centroid was off land and the point was
	// moved to the nearest land.
	Snapped bool
	// SnapKM is the great-circle distance the point was moved.
	SnapKM float64
}

// Point returns the centerpoint as a GEOS point.
func (c Centerpoint) Point() *geos.Geom {
	return spatial.Point(c.Longitude, c.Latitude)
}

// Rounded returns longitude and latitude rounded to 6 decimal places.
func (c Centerpoint) Rounded() (lon, lat float64) {
	return spatial.Round6(c.Longitude), spatial.Round6(c.Latitude)
}

// Centerpoint returns the centroid of cell when it lies on land, otherwise the
// nearest point of the land mass to that centroid. With an empty land mass
// the centroid is returned unchanged.
func (m *Mass) Centerpoint(cell *geos.Geom) Centerpoint {
	centroid := cell.Centroid()
	cx, cy := centroid.X(), centroid.Y()

	if m.Contains(centroid) {
		return Centerpoint{Longitude: cx, Latitude: cy}
	}

	x, y, ok := spatial.NearestPoint(centroid, m.geom)
	if !ok {
		return Centerpoint{Longitude: cx, Latitude: cy}
	}

	_, km := haversine.Distance(
		haversine.Coord{Lat: cy, Lon: cx},
		haversine.Coord{Lat: y, Lon: x},
	)
	return Centerpoint{Longitude: x, Latitude: y, Snapped: true, SnapKM: km}
}
