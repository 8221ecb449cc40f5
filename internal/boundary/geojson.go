package boundary

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// LoadGeoJSON reads countries from a GeoJSON FeatureCollection.
// Features without geometry are skipped.
func LoadGeoJSON(path string, attrs Attributes) ([]Country, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "boundary: parse %s", path)
	}

	countries := make([]Country, 0, len(fc.Features))
	var skipped int
	for _, f := range fc.Features {
		if f.Geometry == nil {
			skipped++
			continue
		}
		countries = append(countries, Country{
			Admin:     stringProp(f.Properties, attrs.Admin),
			Continent: stringProp(f.Properties, attrs.Continent),
			Geometry:  f.Geometry,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped features without geometry",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return countries, nil
}

func stringProp(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}
