package grid

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/landgrid/internal/boundary/boundarytest"
	"github.com/sells-group/landgrid/internal/continent"
	"github.com/sells-group/landgrid/internal/land"
	"github.com/sells-group/landgrid/internal/spatial"
)

func testGrid() *geojson.FeatureCollection {
	return &geojson.FeatureCollection{Features: []*geojson.Feature{
		boundarytest.Cell(18, 51, 20, 53),    // 1 Poland
		boundarytest.Cell(100, 60, 110, 70),  // 2 inside Russia
		boundarytest.Cell(170, 72, 178, 80),  // 3 Bering Strait
		boundarytest.Cell(-31, -11, -29, -9), // 4 open ocean
		boundarytest.Cell(28, 25, 30, 27),    // 5 Egypt
		boundarytest.Cell(6, 8, 8, 10),       // 6 Nigeria
	}}
}

func newProcessor(t *testing.T, opts Options) *Processor {
	t.Helper()
	world := boundarytest.World()
	classifier := continent.NewClassifier(continent.Build(world, continent.DefaultRules()))
	p, err := NewProcessor(classifier, land.NewMass(world), opts)
	require.NoError(t, err)
	return p
}

func TestProcess_Centerpoints(t *testing.T) {
	fc := testGrid()
	fc.Features[0].Properties = map[string]any{"name": "keep me"}

	p := newProcessor(t, Options{Centerpoints: true})
	summary, err := p.Process(fc)
	require.NoError(t, err)
	require.NoError(t, Validate(fc))

	expected := []continent.Code{
		continent.EU, continent.ASNorth, continent.ASNorth,
		continent.SA, continent.ME, continent.AFSouth,
	}
	for i, f := range fc.Features {
		assert.Equal(t, i+1, f.Properties[PropStateID])
		assert.Equal(t, string(expected[i]), f.Properties[PropContinentID], "feature %d", i+1)

		cp, ok := CenterpointOf(f.Properties)
		require.True(t, ok)
		assert.Equal(t, spatial.Round6(cp.Longitude), cp.Longitude)
	}
	assert.Equal(t, "keep me", fc.Features[0].Properties["name"])

	ocean, _ := CenterpointOf(fc.Features[3].Properties)
	assert.Equal(t, Centerpoint{Longitude: -35, Latitude: -10}, ocean)

	assert.Equal(t, 6, summary.Cells)
	assert.Equal(t, 2, summary.Counts[continent.ASNorth])
	assert.Equal(t, 2, summary.Snapped, "ocean and Bering cells are snapped")
	assert.Positive(t, summary.MaxSnapKM)
	assert.NotEmpty(t, summary.Fields())
}

func TestProcess_CentroidMode(t *testing.T) {
	fc := testGrid()

	world := boundarytest.World()
	classifier := continent.NewClassifier(continent.Build(world, continent.DefaultRules()))
	p, err := NewProcessor(classifier, nil, Options{})
	require.NoError(t, err)

	summary, err := p.Process(fc)
	require.NoError(t, err)
	require.NoError(t, Validate(fc))

	for _, f := range fc.Features {
		_, ok := f.Properties[PropCenterpoint]
		assert.False(t, ok)
	}
	assert.Equal(t, "EU", fc.Features[0].Properties[PropContinentID])
	assert.Equal(t, "SA", fc.Features[3].Properties[PropContinentID])
	assert.Zero(t, summary.Snapped)
}

func TestProcess_Overrides(t *testing.T) {
	fc := testGrid()
	p := newProcessor(t, Options{
		Centerpoints: true,
		Overrides:    map[int]continent.Code{1: continent.AFNorth, 99: continent.EU},
	})

	summary, err := p.Process(fc)
	require.NoError(t, err)

	assert.Equal(t, "AF_N", fc.Features[0].Properties[PropContinentID])
	assert.Equal(t, 1, summary.Overridden)
}

func TestNewProcessor_Errors(t *testing.T) {
	classifier := continent.NewClassifier(continent.Build(nil, continent.DefaultRules()))

	_, err := NewProcessor(classifier, nil, Options{Centerpoints: true})
	assert.Error(t, err)

	_, err = NewProcessor(classifier, nil, Options{Overrides: map[int]continent.Code{1: "XX"}})
	assert.Error(t, err)
}

func TestProcess_MissingGeometry(t *testing.T) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{{}}}
	p := newProcessor(t, Options{})

	_, err := p.Process(fc)
	assert.Error(t, err)
}

func TestProcess_DeterministicOutput(t *testing.T) {
	dir := t.TempDir()
	var outputs [][]byte

	for i := range 2 {
		fc := testGrid()
		_, err := newProcessor(t, Options{Centerpoints: true}).Process(fc)
		require.NoError(t, err)

		path := filepath.Join(dir, "out"+string(rune('a'+i))+".geojson")
		require.NoError(t, Write(path, NewDocument(fc)))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		outputs = append(outputs, data)
	}

	assert.Equal(t, outputs[0], outputs[1])
}

func TestReadWriteRoundTrip(t *testing.T) {
	fc := testGrid()
	_, err := newProcessor(t, Options{Centerpoints: true}).Process(fc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "landgrid_wgs84_metadata.geojson")
	require.NoError(t, Write(path, NewDocument(fc)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"features\"")
	assert.Contains(t, string(data), `"longitude": -35`)

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got.Features, len(fc.Features))
	require.NoError(t, Validate(got.FeatureCollection))

	for i, f := range got.Features {
		id, ok := StateID(f.Properties)
		require.True(t, ok)
		assert.Equal(t, i+1, id)
		assert.Equal(t, fc.Features[i].Properties[PropContinentID], ContinentOf(f.Properties))

		want, _ := CenterpointOf(fc.Features[i].Properties)
		cp, ok := CenterpointOf(f.Properties)
		require.True(t, ok)
		assert.Equal(t, want, cp)
	}
}

func TestWrite_PreservesInputMembers(t *testing.T) {
	input := `{
  "type": "FeatureCollection",
  "name": "landgrid_wgs84",
  "crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:OGC:1.3:CRS84"}},
  "features": [
    {"type": "Feature", "id": 7, "properties": {"zeta": 1, "alpha": "a"},
     "geometry": {"type": "Polygon", "coordinates": [[[18,51],[20,51],[20,53],[18,53],[18,51]]]}},
    {"type": "Feature", "id": 8, "source": "qgis",
     "geometry": {"type": "Polygon", "coordinates": [[[-31,-11],[-29,-11],[-29,-9],[-31,-9],[-31,-11]]]}}
  ]
}`
	dir := t.TempDir()
	in := filepath.Join(dir, "landgrid_wgs84.geojson")
	require.NoError(t, os.WriteFile(in, []byte(input), 0o644))

	doc, err := Read(in)
	require.NoError(t, err)
	_, err = newProcessor(t, Options{Centerpoints: true}).Process(doc.FeatureCollection)
	require.NoError(t, err)

	out := filepath.Join(dir, "landgrid_wgs84_metadata.geojson")
	require.NoError(t, Write(out, doc))

	var got struct {
		Type     string          `json:"type"`
		Name     string          `json:"name"`
		CRS      json.RawMessage `json:"crs"`
		Features []struct {
			ID         json.RawMessage `json:"id"`
			Source     string          `json:"source"`
			Properties map[string]any  `json:"properties"`
		} `json:"features"`
	}
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "FeatureCollection", got.Type)
	assert.Equal(t, "landgrid_wgs84", got.Name)
	assert.JSONEq(t, `{"type": "name", "properties": {"name": "urn:ogc:def:crs:OGC:1.3:CRS84"}}`, string(got.CRS))
	require.Len(t, got.Features, 2)
	assert.Equal(t, "7", string(got.Features[0].ID), "numeric id stays numeric")
	assert.Equal(t, "8", string(got.Features[1].ID))
	assert.Equal(t, "qgis", got.Features[1].Source)

	assert.Equal(t, "a", got.Features[0].Properties["alpha"])
	assert.InDelta(t, 1, got.Features[0].Properties["zeta"], 0)
	assert.InDelta(t, 2, got.Features[1].Properties[PropStateID], 0)
	assert.Equal(t, "SA", got.Features[1].Properties[PropContinentID])

	// Existing properties keep their order; new ones follow sorted.
	text := string(data)
	order := []string{`"zeta"`, `"alpha"`, `"centerpoint"`, `"continent_id"`, `"state_id"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.Positive(t, idx, key)
		assert.Greater(t, idx, last, key)
		last = idx
	}
	assert.Less(t, strings.Index(text, `"name": "landgrid_wgs84"`), strings.Index(text, `"features"`))
}

func TestFeatureJSON(t *testing.T) {
	doc := NewDocument(&geojson.FeatureCollection{Features: []*geojson.Feature{
		boundarytest.Cell(0, 0, 1, 1),
	}})

	data, err := doc.FeatureJSON(0)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Polygon"`)

	_, err = doc.FeatureJSON(1)
	assert.Error(t, err)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "landgrid_wgs84.geojson"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.geojson")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Read(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		props []map[string]any
		ok    bool
	}{
		{
			name:  "dense ids",
			props: []map[string]any{{"state_id": 1.0, "continent_id": "EU"}, {"state_id": 2, "continent_id": "ME"}},
			ok:    true,
		},
		{
			name:  "gap in ids",
			props: []map[string]any{{"state_id": 1, "continent_id": "EU"}, {"state_id": 3, "continent_id": "EU"}},
		},
		{
			name:  "missing id",
			props: []map[string]any{{"continent_id": "EU"}},
		},
		{
			name:  "fractional id",
			props: []map[string]any{{"state_id": 1.5, "continent_id": "EU"}},
		},
		{
			name:  "unknown code",
			props: []map[string]any{{"state_id": 1, "continent_id": "AS"}},
		},
		{
			name:  "missing code",
			props: []map[string]any{{"state_id": 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &geojson.FeatureCollection{}
			for _, p := range tt.props {
				fc.Features = append(fc.Features, &geojson.Feature{Properties: p})
			}
			err := Validate(fc)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCenterpointOf(t *testing.T) {
	_, ok := CenterpointOf(map[string]any{})
	assert.False(t, ok)

	_, ok = CenterpointOf(map[string]any{"centerpoint": map[string]any{"longitude": 1.0}})
	assert.False(t, ok)

	cp, ok := CenterpointOf(map[string]any{"centerpoint": map[string]any{"longitude": 1.5, "latitude": -2.0}})
	require.True(t, ok)
	assert.Equal(t, Centerpoint{Longitude: 1.5, Latitude: -2}, cp)
}
