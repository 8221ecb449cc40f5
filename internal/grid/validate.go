package grid

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/landgrid/internal/continent"
)

// Validate checks that every feature carries a known continent_id and that
// state_ids run 1..N in feature order.
func Validate(fc *geojson.FeatureCollection) error {
	for i, f := range fc.Features {
		want := i + 1

		id, ok := StateID(f.Properties)
		if !ok {
			return eris.Errorf("grid: feature %d has no integer %s", want, PropStateID)
		}
		if id != want {
			return eris.Errorf("grid: feature %d has %s %d", want, PropStateID, id)
		}

		if _, err := continent.ParseCode(ContinentOf(f.Properties)); err != nil {
			return eris.Wrapf(err, "grid: feature %d", want)
		}
	}
	return nil
}

// StateID reads the state_id property, accepting the int set by Process and
// the float64 produced by decoding JSON.
func StateID(props map[string]any) (int, bool) {
	switch v := props[PropStateID].(type) {
	case int:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

// CenterpointOf reads the centerpoint property in either its in-memory or
// decoded JSON form.
func CenterpointOf(props map[string]any) (Centerpoint, bool) {
	switch v := props[PropCenterpoint].(type) {
	case Centerpoint:
		return v, true
	case map[string]any:
		lon, lonOK := v["longitude"].(float64)
		lat, latOK := v["latitude"].(float64)
		if !lonOK || !latOK {
			return Centerpoint{}, false
		}
		return Centerpoint{Longitude: lon, Latitude: lat}, true
	default:
		return Centerpoint{}, false
	}
}

// ContinentOf returns the continent_id property as a string.
func ContinentOf(props map[string]any) string {
	switch v := props[PropContinentID].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
