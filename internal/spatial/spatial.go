// Package spatial converts go-geom geometries into GEOS geometries and wraps
// the GEOS operations used to build continent regions and land centerpoints.
package spatial

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geos"
)

// ToGEOS converts a go-geom geometry to a GEOS geometry via WKB.
// Invalid input (self-intersections, bad ring nesting) is repaired with MakeValid.
func ToGEOS(g geom.T) (*geos.Geom, error) {
	if g == nil {
		return nil, eris.New("spatial: nil geometry")
	}

	data, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: encode WKB")
	}

	gg, err := geos.NewGeomFromWKB(data)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: decode WKB")
	}

	if !gg.IsValid() {
		gg = gg.MakeValid()
	}
	return gg, nil
}

// Dissolve unions geoms into a single geometry. It returns nil when geoms
// holds no non-empty geometry.
func Dissolve(geoms []*geos.Geom) *geos.Geom {
	var out *geos.Geom
	for _, g := range geoms {
		if IsEmpty(g) {
			continue
		}
		if out == nil {
			out = g.Clone()
			continue
		}
		out = out.Union(g)
	}
	return out
}

// Box returns the rectangle spanning [minX,maxX] x [minY,maxY].
func Box(minX, minY, maxX, maxY float64) *geos.Geom {
	return geos.NewPolygon([][][]float64{{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}})
}

// Intersection clips g to clip. A nil or empty g yields nil.
func Intersection(g, clip *geos.Geom) *geos.Geom {
	if IsEmpty(g) || IsEmpty(clip) {
		return nil
	}
	return g.Intersection(clip)
}

// IsEmpty reports whether g is nil or has no points.
func IsEmpty(g *geos.Geom) bool {
	return g == nil || g.IsEmpty()
}

// Distance returns the planar distance from p to g, 0 when g contains p.
// An empty g is infinitely far away.
func Distance(p, g *geos.Geom) float64 {
	if IsEmpty(p) || IsEmpty(g) {
		return math.Inf(1)
	}
	return p.Distance(g)
}

// NearestPoint returns the point of g closest to p. ok is false when either
// geometry is empty.
func NearestPoint(p, g *geos.Geom) (x, y float64, ok bool) {
	if IsEmpty(p) || IsEmpty(g) {
		return 0, 0, false
	}
	pts := p.NearestPoints(g)
	if len(pts) < 2 {
		return 0, 0, false
	}
	return pts[1][0], pts[1][1], true
}

// Point returns a GEOS point at (x, y).
func Point(x, y float64) *geos.Geom {
	return geos.NewPoint([]float64{x, y})
}

// Round6 rounds v to 6 decimal places.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
