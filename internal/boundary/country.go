// Package boundary caches and loads the country-boundary dataset that
// continent regions and the land mass are built from.
package boundary

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Supported dataset formats.
const (
	FormatGeoJSON   = "geojson"
	FormatShapefile = "shapefile"
)

// Country is one admin-0 boundary record.
type Country struct {
	Admin     string
	Continent string
	Geometry  geom.T
}

// Attributes names the per-country attributes read from the dataset.
type Attributes struct {
	Admin     string
	Continent string
}

// DefaultAttributes returns the Natural Earth attribute names.
func DefaultAttributes() Attributes {
	return Attributes{Admin: "ADMIN", Continent: "CONTINENT"}
}

// Load reads countries from a cached dataset in the given format.
// tempDir is only used by the shapefile format, to extract the archive.
func Load(format, path, tempDir string, attrs Attributes) ([]Country, error) {
	switch strings.ToLower(format) {
	case "", FormatGeoJSON:
		return LoadGeoJSON(path, attrs)
	case FormatShapefile:
		return LoadShapefile(path, tempDir, attrs)
	default:
		return nil, eris.Errorf("boundary: unsupported format %q", format)
	}
}

// Bounds returns the combined bounding box of all country geometries.
func Bounds(countries []Country) *geom.Bounds {
	b := geom.NewBounds(geom.XY)
	for _, c := range countries {
		if c.Geometry != nil {
			b.Extend(c.Geometry)
		}
	}
	return b
}
