package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"
)

func square(minX, minY, size float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		minX, minY,
		minX + size, minY,
		minX + size, minY + size,
		minX, minY + size,
		minX, minY,
	}, []int{10})
}

func TestToGEOS_Polygon(t *testing.T) {
	g, err := ToGEOS(square(0, 0, 2))
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.InDelta(t, 4.0, g.Area(), 1e-9)
	c := g.Centroid()
	assert.InDelta(t, 1.0, c.X(), 1e-9)
	assert.InDelta(t, 1.0, c.Y(), 1e-9)
}

func TestToGEOS_RepairsBowtie(t *testing.T) {
	bowtie := geom.NewPolygonFlat(geom.XY, []float64{
		0, 0, 2, 2, 2, 0, 0, 2, 0, 0,
	}, []int{10})

	g, err := ToGEOS(bowtie)
	require.NoError(t, err)
	assert.True(t, g.IsValid())
}

func TestToGEOS_Nil(t *testing.T) {
	_, err := ToGEOS(nil)
	assert.Error(t, err)
}

func TestDissolve(t *testing.T) {
	a, err := ToGEOS(square(0, 0, 1))
	require.NoError(t, err)
	b, err := ToGEOS(square(1, 0, 1))
	require.NoError(t, err)

	u := Dissolve([]*geos.Geom{a, nil, b})
	require.NotNil(t, u)
	assert.InDelta(t, 2.0, u.Area(), 1e-9)
}

func TestDissolve_Empty(t *testing.T) {
	assert.Nil(t, Dissolve(nil))
	assert.Nil(t, Dissolve([]*geos.Geom{nil}))
}

func TestIntersection(t *testing.T) {
	g, err := ToGEOS(square(0, -10, 20))
	require.NoError(t, err)

	north := Intersection(g, Box(-180, 0, 180, 90))
	require.NotNil(t, north)
	assert.InDelta(t, 200.0, north.Area(), 1e-9)

	assert.Nil(t, Intersection(nil, Box(-180, 0, 180, 90)))
}

func TestDistance(t *testing.T) {
	g, err := ToGEOS(square(0, 0, 2))
	require.NoError(t, err)

	assert.Equal(t, 0.0, Distance(Point(1, 1), g), "contained point")
	assert.InDelta(t, 3.0, Distance(Point(5, 1), g), 1e-9)
	assert.True(t, math.IsInf(Distance(Point(5, 1), nil), 1))
}

func TestNearestPoint(t *testing.T) {
	g, err := ToGEOS(square(0, 0, 2))
	require.NoError(t, err)

	x, y, ok := NearestPoint(Point(5, 1), g)
	require.True(t, ok)
	assert.InDelta(t, 2.0, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)

	_, _, ok = NearestPoint(Point(5, 1), nil)
	assert.False(t, ok)
}

func TestRound6(t *testing.T) {
	assert.Equal(t, 12.345679, Round6(12.3456789))
	assert.Equal(t, -0.000001, Round6(-0.0000012))
}
