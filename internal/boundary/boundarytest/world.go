// Package boundarytest provides a small synthetic boundary dataset for tests.
// Countries are axis-aligned boxes placed roughly where the real ones are.
package boundarytest

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/landgrid/internal/boundary"
)

// Box returns a closed counter-clockwise rectangle polygon.
func Box(minX, minY, maxX, maxY float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		minX, minY,
		maxX, minY,
		maxX, maxY,
		minX, maxY,
		minX, minY,
	}, []int{10})
}

// World returns the synthetic country set.
func World() []boundary.Country {
	return []boundary.Country{
		{Admin: "France", Continent: "Europe", Geometry: Box(-5, 43, 8, 51)},
		{Admin: "Poland", Continent: "Europe", Geometry: Box(14, 49, 24, 55)},
		{Admin: "Russia", Continent: "Europe", Geometry: Box(30, 50, 180, 75)},
		{Admin: "Kazakhstan", Continent: "Asia", Geometry: Box(46, 40, 75, 50)},
		{Admin: "China", Continent: "Asia", Geometry: Box(75, 20, 135, 50)},
		{Admin: "India", Continent: "Asia", Geometry: Box(68, 8, 75, 30)},
		{Admin: "Egypt", Continent: "Africa", Geometry: Box(25, 22, 35, 31.5)},
		{Admin: "Saudi Arabia", Continent: "Asia", Geometry: Box(36, 16, 55, 31)},
		{Admin: "Algeria", Continent: "Africa", Geometry: Box(-8, 19, 12, 37)},
		{Admin: "Nigeria", Continent: "Africa", Geometry: Box(3, 4, 14, 14)},
		{Admin: "South Africa", Continent: "Africa", Geometry: Box(16, -35, 33, -22)},
		{Admin: "Australia", Continent: "Oceania", Geometry: Box(113, -39, 154, -11)},
		{Admin: "United States of America", Continent: "North America", Geometry: Box(-125, 25, -66, 49)},
		{Admin: "Brazil", Continent: "South America", Geometry: Box(-74, -34, -35, 5)},
		{Admin: "Antarctica", Continent: "Antarctica", Geometry: Box(-180, -90, 180, -60)},
	}
}

// FeatureCollection encodes countries the way the Natural Earth GeoJSON
// dataset does, with ADMIN and CONTINENT properties.
func FeatureCollection(countries []boundary.Country) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for _, c := range countries {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: c.Geometry,
			Properties: map[string]any{
				"ADMIN":     c.Admin,
				"CONTINENT": c.Continent,
			},
		})
	}
	return fc
}

// GeoJSON returns World encoded as a GeoJSON document.
func GeoJSON() []byte {
	data, err := json.Marshal(FeatureCollection(World()))
	if err != nil {
		panic(err)
	}
	return data
}

// Cell returns a grid feature with no properties.
func Cell(minX, minY, maxX, maxY float64) *geojson.Feature {
	return &geojson.Feature{Geometry: Box(minX, minY, maxX, maxY)}
}
