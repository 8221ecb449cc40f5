package land

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geos"

	"github.com/sells-group/landgrid/internal/boundary"
	"github.com/sells-group/landgrid/internal/boundary/boundarytest"
	"github.com/sells-group/landgrid/internal/spatial"
)

func cell(t *testing.T, minX, minY, maxX, maxY float64) *geos.Geom {
	t.Helper()
	g, err := spatial.ToGEOS(boundarytest.Box(minX, minY, maxX, maxY))
	require.NoError(t, err)
	return g
}

func TestCenterpoint_OnLand(t *testing.T) {
	m := NewMass(boundarytest.World())

	cp := m.Centerpoint(cell(t, 18, 51, 20, 53))
	assert.False(t, cp.Snapped)
	assert.InDelta(t, 19.0, cp.Longitude, 1e-9)
	assert.InDelta(t, 52.0, cp.Latitude, 1e-9)
	assert.Zero(t, cp.SnapKM)
}

func TestCenterpoint_OpenOcean(t *testing.T) {
	m := NewMass(boundarytest.World())

	// Mid-Atlantic cell; nearest land is the Brazilian coast at x=-35.
	cp := m.Centerpoint(cell(t, -31, -11, -29, -9))
	require.True(t, cp.Snapped)
	assert.InDelta(t, -35.0, cp.Longitude, 1e-9)
	assert.InDelta(t, -10.0, cp.Latitude, 1e-9)
	assert.InDelta(t, 547, cp.SnapKM, 5)

	// The snapped point touches the land mass.
	assert.InDelta(t, 0.0, m.Geom().Distance(cp.Point()), 1e-9)
}

func TestCenterpoint_AlwaysOnLand(t *testing.T) {
	m := NewMass(boundarytest.World())

	for lon := -175.0; lon < 175; lon += 25 {
		for lat := -55.0; lat < 80; lat += 20 {
			cp := m.Centerpoint(cell(t, lon, lat, lon+4, lat+4))
			d := m.Geom().Distance(cp.Point())
			assert.InDelta(t, 0.0, d, 1e-9, "cell at %v,%v", lon, lat)
		}
	}
}

func TestCenterpoint_Deterministic(t *testing.T) {
	m := NewMass(boundarytest.World())
	c := cell(t, -40, 30, -30, 40)

	first := m.Centerpoint(c)
	for range 5 {
		assert.Equal(t, first, m.Centerpoint(c))
	}
}

func TestCenterpoint_EmptyMass(t *testing.T) {
	m := NewMass(nil)
	assert.Nil(t, m.Geom())

	cp := m.Centerpoint(cell(t, 0, 0, 2, 2))
	assert.False(t, cp.Snapped)
	assert.InDelta(t, 1.0, cp.Longitude, 1e-9)
}

func TestCenterpoint_Rounded(t *testing.T) {
	cp := Centerpoint{Longitude: 12.12345678, Latitude: -45.00000049}
	lon, lat := cp.Rounded()
	assert.Equal(t, 12.123457, lon)
	assert.Equal(t, -45.0, lat)
}

func TestContains(t *testing.T) {
	m := NewMass([]boundary.Country{
		{Admin: "Poland", Continent: "Europe", Geometry: boundarytest.Box(14, 49, 24, 55)},
	})
	assert.True(t, m.Contains(spatial.Point(20, 50)))
	assert.False(t, m.Contains(spatial.Point(0, 0)))
}
